package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// Sentinel errors returned by store operations. Handlers map these to HTTP
// status codes with errors.Is; anything else is an unexpected storage failure.
var (
	ErrNotFound        = errors.New("store: not found")
	ErrConflict        = errors.New("store: book already borrowed")
	ErrNotBorrower     = errors.New("store: caller is not the borrower")
	ErrDuplicateReview = errors.New("store: user already reviewed this book")
	ErrDuplicateKey    = errors.New("store: duplicate key")
)

func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateKey
	}
	return err
}
