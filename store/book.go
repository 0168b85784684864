package store

import (
	"context"
	"errors"
	"time"

	"github.com/kamalyadav07/Library-Management-System/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoanDays is the fixed borrowing horizon.
const LoanDays = 14

func (db *DB) InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	res, err := db.Books().InsertOne(ctx, book)
	if err != nil {
		return primitive.NilObjectID, wrapWriteErr(err)
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	var book models.Book
	err := db.Books().FindOne(ctx, bson.M{"_id": id}).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListAvailable returns one page of available books matching the filter,
// plus the total match count for pagination. An out-of-range page yields an
// empty slice and no error.
func (db *DB) ListAvailable(ctx context.Context, filter BookFilter) ([]models.Book, int64, error) {
	query := filter.Query()
	total, err := db.Books().CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(filter.Sort()).
		SetSkip(filter.Skip()).
		SetLimit(PageSize)
	cur, err := db.Books().Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// BorrowedBooks returns every book currently out on loan.
func (db *DB) BorrowedBooks(ctx context.Context) ([]models.Book, error) {
	return db.findBooks(ctx, bson.M{"isAvailable": false})
}

// BooksBorrowedBy returns the books currently held by one user, in natural
// storage order.
func (db *DB) BooksBorrowedBy(ctx context.Context, userID primitive.ObjectID) ([]models.Book, error) {
	return db.findBooks(ctx, bson.M{"borrowedBy": userID})
}

func (db *DB) findBooks(ctx context.Context, query bson.M) ([]models.Book, error) {
	cur, err := db.Books().Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	books := []models.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// BorrowBook moves a book from Available to Borrowed in one conditional
// update: the filter requires isAvailable, so of two racing borrow requests
// exactly one matches and the other gets ErrConflict. Returns the updated
// book on success.
func (db *DB) BorrowBook(ctx context.Context, bookID, userID primitive.ObjectID, now time.Time) (*models.Book, error) {
	due := now.AddDate(0, 0, LoanDays)
	update := bson.M{"$set": bson.M{
		"isAvailable": false,
		"borrowedBy":  userID,
		"dueDate":     due,
		"updatedAt":   now,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := db.Books().FindOneAndUpdate(ctx,
		bson.M{"_id": bookID, "isAvailable": true},
		update, opts).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.borrowFailure(ctx, bookID)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) borrowFailure(ctx context.Context, bookID primitive.ObjectID) error {
	n, err := db.Books().CountDocuments(ctx, bson.M{"_id": bookID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrConflict
}

// ReturnBook moves a book from Borrowed back to Available, but only when the
// caller is the recorded borrower; anyone else (admins included) gets
// ErrNotBorrower and the book is untouched. Returns the updated book.
func (db *DB) ReturnBook(ctx context.Context, bookID, userID primitive.ObjectID, now time.Time) (*models.Book, error) {
	update := bson.M{
		"$set":   bson.M{"isAvailable": true, "updatedAt": now},
		"$unset": bson.M{"borrowedBy": "", "dueDate": ""},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var book models.Book
	err := db.Books().FindOneAndUpdate(ctx,
		bson.M{"_id": bookID, "isAvailable": false, "borrowedBy": userID},
		update, opts).Decode(&book)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, db.returnFailure(ctx, bookID)
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (db *DB) returnFailure(ctx context.Context, bookID primitive.ObjectID) error {
	n, err := db.Books().CountDocuments(ctx, bson.M{"_id": bookID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrNotBorrower
}

// AddReview appends a review to a book's embedded list. The filter excludes
// books the user already reviewed, so the one-review-per-user rule holds even
// under concurrent submissions.
func (db *DB) AddReview(ctx context.Context, bookID primitive.ObjectID, review models.Review) error {
	res, err := db.Books().UpdateOne(ctx,
		bson.M{"_id": bookID, "reviews.user": bson.M{"$ne": review.User}},
		bson.M{
			"$push": bson.M{"reviews": review},
			"$set":  bson.M{"updatedAt": review.CreatedAt},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		n, err := db.Books().CountDocuments(ctx, bson.M{"_id": bookID})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return ErrDuplicateReview
	}
	return nil
}

// BooksCount returns the number of books in the catalog.
func (db *DB) BooksCount(ctx context.Context) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{})
}

// BorrowedCount returns the number of books currently out on loan.
func (db *DB) BorrowedCount(ctx context.Context) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{"isAvailable": false})
}

// OverdueCount returns the number of borrowed books whose due date has passed.
func (db *DB) OverdueCount(ctx context.Context, now time.Time) (int64, error) {
	return db.Books().CountDocuments(ctx, bson.M{
		"isAvailable": false,
		"dueDate":     bson.M{"$lt": now},
	})
}
