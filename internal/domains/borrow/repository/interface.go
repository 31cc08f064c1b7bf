package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrow/model"
)

// OpStore exposes the storage operations available inside a borrow or
// return transaction. The book row is locked for the transaction's
// lifetime so concurrent decrements serialize.
type OpStore interface {
	// GetBookAvailableForUpdate locks the book row and returns its
	// available count. Missing book yields model.ErrBookNotFound.
	GetBookAvailableForUpdate(ctx context.Context, bookID uuid.UUID) (int, error)
	HasActiveBorrow(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	CountActiveBorrows(ctx context.Context, userID uuid.UUID) (int, error)
	InsertBorrow(ctx context.Context, record *model.BorrowRecord) error
	AdjustBookAvailable(ctx context.Context, bookID uuid.UUID, delta int) error
	// CompleteReturn flips the caller's active record to returned and
	// reports the book it referenced. Zero matching rows yields
	// model.ErrAlreadyReturned, so a second return never double-increments.
	CompleteReturn(ctx context.Context, userID, borrowID uuid.UUID, returnedAt time.Time) (uuid.UUID, error)
}

// RepositoryInterface is the borrow domain's storage contract.
type RepositoryInterface interface {
	// WithTx runs fn inside a transaction, rolling back on error.
	WithTx(ctx context.Context, fn func(OpStore) error) error

	GetBorrowWithBook(ctx context.Context, borrowID uuid.UUID) (*model.BorrowWithBook, error)
	GetBorrowForUser(ctx context.Context, borrowID, userID uuid.UUID) (*model.BorrowRecord, error)
	UpdateRenewal(ctx context.Context, borrowID uuid.UUID, dueDate time.Time, renewalCount int) (*model.BorrowRecord, error)

	ListUserBorrows(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error)
	ListBorrows(ctx context.Context, filter *model.BorrowFilter) ([]model.BorrowWithBook, int, error)
	ListOverdue(ctx context.Context) ([]model.BorrowWithBook, error)

	// MarkOverdue flips past-due borrowed records to overdue,
	// optionally scoped to one user. Idempotent.
	MarkOverdue(ctx context.Context, userID *uuid.UUID) (int64, error)

	GetStats(ctx context.Context) (*model.BorrowStats, error)
}
