package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/kamalyadav07/Library-Management-System/store"
	"github.com/kamalyadav07/Library-Management-System/utils"
	"golang.org/x/sync/errgroup"
)

type StatsHandler struct {
	DB *store.DB
}

type StatsResponse struct {
	TotalBooks     int64 `json:"totalBooks"`
	BorrowedBooks  int64 `json:"borrowedBooks"`
	AvailableBooks int64 `json:"availableBooks"`
	TotalUsers     int64 `json:"totalUsers"`
	OverdueBooks   int64 `json:"overdueBooks"`
}

// Get computes the library rollup fresh on every call. Nothing is cached;
// the counts run concurrently against the store.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	var stats StatsResponse
	now := time.Now()

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		stats.TotalBooks, err = h.DB.BooksCount(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.BorrowedBooks, err = h.DB.BorrowedCount(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.TotalUsers, err = h.DB.UsersCount(ctx)
		return
	})
	g.Go(func() (err error) {
		stats.OverdueBooks, err = h.DB.OverdueCount(ctx, now)
		return
	})
	if err := g.Wait(); err != nil {
		log.Println("stats:", err)
		utils.JSONError(w, "Server Error", http.StatusInternalServerError)
		return
	}
	stats.AvailableBooks = stats.TotalBooks - stats.BorrowedBooks
	utils.JSON(w, http.StatusOK, stats)
}
