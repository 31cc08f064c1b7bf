package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/shared/response"
)

// ServiceInterface is the borrowing engine's contract.
type ServiceInterface interface {
	Borrow(ctx context.Context, userID uuid.UUID, role string, bookID uuid.UUID) (*model.BorrowWithBook, error)
	Return(ctx context.Context, userID, borrowID uuid.UUID) (*model.BorrowWithBook, error)
	Renew(ctx context.Context, userID, borrowID uuid.UUID) (*model.BorrowRecord, error)

	MyBooks(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error)
	ListBorrows(ctx context.Context, req model.ListBorrowsRequest) ([]model.BorrowWithBook, *response.Pagination, error)
	Overdue(ctx context.Context) ([]model.BorrowWithBook, error)
	Stats(ctx context.Context) (*model.BorrowStats, error)

	// SweepOverdue runs the global overdue sweep. Used by the worker.
	SweepOverdue(ctx context.Context) (int64, error)
}
