package repository

import (
	"context"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface is the catalog data access contract.
type RepositoryInterface interface {
	ListBooks(ctx context.Context, filter *model.BookFilter) ([]model.Book, int, error)
	GetBookByID(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, book *model.Book) error
	UpdateBook(ctx context.Context, book *model.Book) error
	DeleteBook(ctx context.Context, id string) error
	CheckISBNExists(ctx context.Context, isbn string) (bool, error)
	CheckISBNExistsExcept(ctx context.Context, isbn, excludeID string) (bool, error)
	CheckBookHasActiveBorrows(ctx context.Context, bookID string) (bool, error)
}
