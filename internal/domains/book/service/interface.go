package service

import (
	"context"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/response"
)

// ServiceInterface is the catalog business logic contract.
type ServiceInterface interface {
	ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.Book, *response.Pagination, error)
	GetBook(ctx context.Context, id string) (*model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error)
	UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error)
	DeleteBook(ctx context.Context, id string) error
}
