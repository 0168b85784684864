package store

import (
	"context"

	"github.com/kamalyadav07/Library-Management-System/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AppendLoanEvent records a borrow or return in the append-only history.
// Events are only ever inserted, never updated or deleted.
func (db *DB) AppendLoanEvent(ctx context.Context, event *models.LoanEvent) error {
	_, err := db.LoanEvents().InsertOne(ctx, event)
	return err
}

// LoanEventsForBook returns a book's borrow/return history, newest first.
func (db *DB) LoanEventsForBook(ctx context.Context, bookID primitive.ObjectID) ([]models.LoanEvent, error) {
	cur, err := db.LoanEvents().Find(ctx,
		bson.M{"bookId": bookID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	events := []models.LoanEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
