package searchindex

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing store rejects operations, for
// example while the circuit breaker is open.
var ErrUnavailable = errors.New("search index unavailable")

// Result is one page of matches, best first.
type Result struct {
	IDs   []int64
	Docs  [][]byte
	Total int64
}

// Index is a full-text mirror of an aggregate collection. Documents are
// opaque to the index; matching runs against the text projection supplied at
// index time. Every query token must match (AND semantics).
type Index interface {
	// Index stores doc under id and makes it findable by the tokens of text.
	// Re-indexing an id replaces the previous document and its tokens.
	Index(ctx context.Context, id int64, doc []byte, text string) error

	// Delete removes the document. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id int64) error

	// Search returns the page of documents matching every token of query.
	// An empty or stopword-only query matches nothing.
	Search(ctx context.Context, query string, offset, limit int) (*Result, error)

	// Clear drops every document from the index.
	Clear(ctx context.Context) error
}
