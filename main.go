package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kamalyadav07/Library-Management-System/config"
	"github.com/kamalyadav07/Library-Management-System/handlers"
	"github.com/kamalyadav07/Library-Management-System/middleware"
	"github.com/kamalyadav07/Library-Management-System/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	validate := validator.New()
	authHandler := &handlers.AuthHandler{DB: db, JWTSecret: cfg.JWTSecret, Validate: validate}
	booksHandler := &handlers.BooksHandler{DB: db, Validate: validate}
	usersHandler := &handlers.UsersHandler{DB: db}
	statsHandler := &handlers.StatsHandler{DB: db}

	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"API is running!"}`))
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Public catalog reads
		r.Get("/books", booksHandler.List)
		r.Get("/books/borrowed", booksHandler.Borrowed)
		r.Get("/books/{id}", booksHandler.Get)

		// Member routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.With(middleware.Require(middleware.OpBorrowBook)).Put("/books/{id}/borrow", booksHandler.Borrow)
			r.With(middleware.Require(middleware.OpReturnBook)).Put("/books/{id}/return", booksHandler.Return)
			r.With(middleware.Require(middleware.OpSubmitReview)).Post("/books/{id}/reviews", booksHandler.AddReview)
			r.With(middleware.Require(middleware.OpListBorrowed)).Get("/users/borrowed", usersHandler.Borrowed)
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTSecret))
			r.With(middleware.Require(middleware.OpAddBook)).Post("/books", booksHandler.Create)
			r.With(middleware.Require(middleware.OpViewHistory)).Get("/books/{id}/history", booksHandler.History)
			r.With(middleware.Require(middleware.OpViewStats)).Get("/stats", statsHandler.Get)
		})
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
