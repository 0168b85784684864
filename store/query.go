package store

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PageSize is the fixed page size for catalog listings.
const PageSize = 10

// CategoryAll matches every category when used in a BookFilter.
const CategoryAll = "All"

// BookFilter describes a catalog listing request: availability is implied,
// the rest narrows and orders the result.
type BookFilter struct {
	Search   string
	Category string
	SortKey  string // title or author
	SortDir  string // asc or desc
	Page     int64  // 1-based; values below 1 are treated as 1
}

// Query builds the Mongo filter document. Search text matches title or
// author as a case-insensitive substring; the text is quoted so regex
// metacharacters in user input match literally.
func (f BookFilter) Query() bson.M {
	q := bson.M{"isAvailable": true}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": re},
			bson.M{"author": re},
		}
	}
	if f.Category != "" && f.Category != CategoryAll {
		q["category"] = f.Category
	}
	return q
}

// Sort builds the sort document. Unknown keys and directions fall back to
// the default title ascending.
func (f BookFilter) Sort() bson.D {
	key := f.SortKey
	if key != "title" && key != "author" {
		key = "title"
	}
	dir := 1
	if f.SortDir == "desc" {
		dir = -1
	}
	return bson.D{{Key: key, Value: dir}}
}

// page returns the 1-based page number, clamped to at least 1.
func (f BookFilter) page() int64 {
	if f.Page < 1 {
		return 1
	}
	return f.Page
}

// Skip returns the number of documents to skip for the requested page.
func (f BookFilter) Skip() int64 {
	return (f.page() - 1) * PageSize
}

// TotalPages is ceil(matches / PageSize).
func TotalPages(matches int64) int64 {
	return (matches + PageSize - 1) / PageSize
}
