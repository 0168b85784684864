package handlers

import (
	"log"
	"net/http"

	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/kamalyadav07/Library-Management-System/utils"
)

type UsersHandler struct {
	DB *store.DB
}

// Borrowed lists the books the caller currently holds, in storage order.
func (h *UsersHandler) Borrowed(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
		return
	}
	books, err := h.DB.BooksBorrowedBy(r.Context(), p.ID)
	if err != nil {
		log.Println("user borrowed:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, books)
}
