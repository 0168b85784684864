package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loan event actions.
const (
	ActionBorrow = "borrow"
	ActionReturn = "return"
)

// LoanEvent is one entry in the append-only borrow/return history. Events
// live in their own collection and are never embedded on the book document.
type LoanEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookID    primitive.ObjectID `bson:"bookId" json:"bookId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	Username  string             `bson:"username" json:"username"`
	Action    string             `bson:"action" json:"action"` // borrow or return
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
