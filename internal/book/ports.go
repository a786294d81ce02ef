package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=book

// Repository defines the contract for book data storage. Implementations
// filter by author through an index on the author column and apply the
// ordering given by PageRequest.OrderBy.
type Repository interface {
	// Insert stores b and sets its ID.
	Insert(ctx context.Context, b *Book) error
	// InsertBatch stores every book in one transaction and sets their IDs.
	InsertBatch(ctx context.Context, books []*Book) error
	// FindByAuthor returns one page of books whose author equals author,
	// ignoring case, and the total number of such books.
	FindByAuthor(ctx context.Context, author string, p PageRequest) ([]Book, int64, error)
	// FindAll returns one page of all books and the total count.
	FindAll(ctx context.Context, p PageRequest) ([]Book, int64, error)
	// DeleteAll removes every book.
	DeleteAll(ctx context.Context) error
}
