package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book categories. "All" is a filter value only and is never stored.
const (
	CategoryFiction    = "Fiction"
	CategoryNonFiction = "Non-Fiction"
	CategoryScience    = "Science"
	CategoryHistory    = "History"
	CategoryFantasy    = "Fantasy"
	CategoryBiography  = "Biography"
)

var ValidCategories = []string{
	CategoryFiction,
	CategoryNonFiction,
	CategoryScience,
	CategoryHistory,
	CategoryFantasy,
	CategoryBiography,
}

func CategoryValid(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// Book is a single catalog record. Availability, borrower and due date are
// always written together in one update, so at any observable point
// isAvailable == (borrowedBy unset) == (dueDate unset).
type Book struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Author      string              `bson:"author" json:"author"`
	ISBN        string              `bson:"isbn" json:"isbn"`
	Category    string              `bson:"category" json:"category"`
	IsAvailable bool                `bson:"isAvailable" json:"isAvailable"`
	BorrowedBy  *primitive.ObjectID `bson:"borrowedBy,omitempty" json:"borrowedBy,omitempty"`
	DueDate     *time.Time          `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Reviews     []Review            `bson:"reviews" json:"reviews"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Overdue reports whether a borrowed book's due date has passed. Derived on
// read, never stored.
func (b *Book) Overdue(now time.Time) bool {
	return !b.IsAvailable && b.DueDate != nil && b.DueDate.Before(now)
}

// Review is one user's take on a book, embedded in the book document.
// At most one per (book, user), enforced at write time.
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Username  string             `bson:"username" json:"username"`
	Rating    int                `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
