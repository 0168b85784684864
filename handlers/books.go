package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/models"
	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/kamalyadav07/Library-Management-System/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BooksHandler struct {
	DB       *store.DB
	Validate *validator.Validate
}

type CreateBookRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	ISBN     string `json:"isbn" validate:"required"`
	Category string `json:"category" validate:"required"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required"`
}

type BookPageResponse struct {
	Books       []models.Book `json:"books"`
	CurrentPage int64         `json:"currentPage"`
	TotalPages  int64         `json:"totalPages"`
}

// List serves the available-books page: ?search=&category=&sort=&order=&page=.
// An out-of-range page comes back as an empty list with the real totalPages;
// bounding the page number is the caller's job.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	filter := store.BookFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Category: q.Get("category"),
		SortKey:  q.Get("sort"),
		SortDir:  q.Get("order"),
		Page:     page,
	}
	books, total, err := h.DB.ListAvailable(r.Context(), filter)
	if err != nil {
		log.Println("list books:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	current := filter.Page
	if current < 1 {
		current = 1
	}
	utils.JSON(w, http.StatusOK, BookPageResponse{
		Books:       books,
		CurrentPage: current,
		TotalPages:  store.TotalPages(total),
	})
}

// Borrowed serves every book currently out on loan.
func (h *BooksHandler) Borrowed(w http.ResponseWriter, r *http.Request) {
	books, err := h.DB.BorrowedBooks(r.Context())
	if err != nil {
		log.Println("borrowed books:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, books)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		h.bookError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, book)
}

// Create adds a book to the catalog. Admin only, enforced at the route.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Title, author, ISBN and category are required", http.StatusBadRequest)
		return
	}
	if !models.CategoryValid(req.Category) {
		utils.JSONError(w, "Invalid category", http.StatusBadRequest)
		return
	}

	now := time.Now()
	book := &models.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		ISBN:        strings.TrimSpace(req.ISBN),
		Category:    req.Category,
		IsAvailable: true,
		Reviews:     []models.Review{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if errors.Is(err, store.ErrDuplicateKey) {
		utils.JSONError(w, "A book with this ISBN already exists", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Println("create book:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	book.ID = id
	utils.JSON(w, http.StatusCreated, book)
}

// Borrow moves a book to the caller's hands with a 14-day due date. A book
// someone else got to first yields 409, not a silent overwrite.
func (h *BooksHandler) Borrow(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := h.DB.BorrowBook(r.Context(), id, p.ID, time.Now())
	if err != nil {
		h.bookError(w, err)
		return
	}
	h.recordLoanEvent(book.ID, p, models.ActionBorrow)
	utils.JSON(w, http.StatusOK, book)
}

// Return hands a book back. Only the recorded borrower may return it; anyone
// else, admins included, gets 401 and the book keeps its state.
func (h *BooksHandler) Return(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	book, err := h.DB.ReturnBook(r.Context(), id, p.ID, time.Now())
	if err != nil {
		h.bookError(w, err)
		return
	}
	h.recordLoanEvent(book.ID, p, models.ActionReturn)
	utils.JSON(w, http.StatusOK, book)
}

// AddReview appends the caller's review. One review per user per book;
// rating must be an integer in [1,5] and the comment non-empty, enforced
// here regardless of what the client checked.
func (h *BooksHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		utils.JSONError(w, "No token, authorization denied", http.StatusUnauthorized)
		return
	}
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if err := h.Validate.Struct(req); err != nil {
		utils.JSONError(w, "Rating must be between 1 and 5 and comment is required", http.StatusBadRequest)
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		User:      p.ID,
		Username:  p.Username,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if err := h.DB.AddReview(r.Context(), id, review); err != nil {
		h.bookError(w, err)
		return
	}
	utils.JSON(w, http.StatusCreated, review)
}

// History lists a book's borrow/return events, newest first. Admin only.
func (h *BooksHandler) History(w http.ResponseWriter, r *http.Request) {
	id, ok := bookID(w, r)
	if !ok {
		return
	}
	if _, err := h.DB.BookByID(r.Context(), id); err != nil {
		h.bookError(w, err)
		return
	}
	events, err := h.DB.LoanEventsForBook(r.Context(), id)
	if err != nil {
		log.Println("loan history:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	utils.JSON(w, http.StatusOK, events)
}

// recordLoanEvent appends to the borrow/return history after a successful
// transition. The history is best-effort: a failed append is logged, never
// surfaced to the caller.
func (h *BooksHandler) recordLoanEvent(bookID primitive.ObjectID, p middleware.Principal, action string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	event := &models.LoanEvent{
		BookID:    bookID,
		UserID:    p.ID,
		Username:  p.Username,
		Action:    action,
		CreatedAt: time.Now(),
	}
	if err := h.DB.AppendLoanEvent(ctx, event); err != nil {
		log.Println("loan event:", err)
	}
}

func (h *BooksHandler) bookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.JSONError(w, "Book not found", http.StatusNotFound)
	case errors.Is(err, store.ErrConflict):
		utils.JSONError(w, "Book is already borrowed", http.StatusConflict)
	case errors.Is(err, store.ErrNotBorrower):
		utils.JSONError(w, "You did not borrow this book", http.StatusUnauthorized)
	case errors.Is(err, store.ErrDuplicateReview):
		utils.JSONError(w, "You have already reviewed this book", http.StatusBadRequest)
	default:
		log.Println("book op:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
	}
}

func bookID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		utils.JSONError(w, "Book not found", http.StatusNotFound)
		return primitive.NilObjectID, false
	}
	return id, true
}
