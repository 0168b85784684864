package middleware

import "github.com/kamalyadav07/Library-Management-System/models"

// Operation names an action a caller can be authorized for. The policy is
// checked once at the route boundary; handlers and the store never inspect
// roles.
type Operation string

const (
	OpBorrowBook   Operation = "borrow_book"
	OpReturnBook   Operation = "return_book"
	OpSubmitReview Operation = "submit_review"
	OpListBorrowed Operation = "list_borrowed"
	OpAddBook      Operation = "add_book"
	OpViewStats    Operation = "view_stats"
	OpViewHistory  Operation = "view_history"
)

var policy = map[string]map[Operation]bool{
	models.RoleMember: {
		OpBorrowBook:   true,
		OpReturnBook:   true,
		OpSubmitReview: true,
		OpListBorrowed: true,
	},
	models.RoleAdmin: {
		OpBorrowBook:   true,
		OpReturnBook:   true,
		OpSubmitReview: true,
		OpListBorrowed: true,
		OpAddBook:      true,
		OpViewStats:    true,
		OpViewHistory:  true,
	},
}

// Allowed reports whether a role may perform an operation. Unknown roles are
// denied everything.
func Allowed(role string, op Operation) bool {
	return policy[role][op]
}
