package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/borrow/repository"
	"library-backend/internal/shared"
	"library-backend/internal/shared/response"
	"library-backend/pkg/cache"
)

// BorrowService implements ServiceInterface.
type BorrowService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	now   func() time.Time
}

func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &BorrowService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// Borrow checks the lending rules and creates a loan, all inside one
// transaction. The book row stays locked until commit, so two concurrent
// borrows of the last copy cannot both pass the availability check.
func (s *BorrowService) Borrow(ctx context.Context, userID uuid.UUID, role string, bookID uuid.UUID) (*model.BorrowWithBook, error) {
	if role == shared.RoleLibrarian {
		return nil, model.ErrLibrarianCannotBorrow
	}

	var record *model.BorrowRecord
	err := s.repo.WithTx(ctx, func(store repository.OpStore) error {
		available, err := store.GetBookAvailableForUpdate(ctx, bookID)
		if err != nil {
			return err
		}
		if available <= 0 {
			return model.ErrBookNotAvailable
		}

		active, err := store.HasActiveBorrow(ctx, userID, bookID)
		if err != nil {
			return err
		}
		if active {
			return model.ErrAlreadyBorrowed
		}

		count, err := store.CountActiveBorrows(ctx, userID)
		if err != nil {
			return err
		}
		if count >= model.BorrowLimit {
			return model.ErrBorrowLimitReached
		}

		record = model.NewBorrowRecord(userID, bookID)
		if err := store.InsertBorrow(ctx, record); err != nil {
			return err
		}
		return store.AdjustBookAvailable(ctx, bookID, -1)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBookCache(ctx, bookID)

	return s.repo.GetBorrowWithBook(ctx, record.ID)
}

// Return flips the caller's active record to returned and restores one
// copy. The guarded UPDATE makes a repeat return a NotFound, never a
// second increment.
func (s *BorrowService) Return(ctx context.Context, userID, borrowID uuid.UUID) (*model.BorrowWithBook, error) {
	var bookID uuid.UUID
	err := s.repo.WithTx(ctx, func(store repository.OpStore) error {
		var err error
		bookID, err = store.CompleteReturn(ctx, userID, borrowID, s.now())
		if err != nil {
			return err
		}
		return store.AdjustBookAvailable(ctx, bookID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBookCache(ctx, bookID)

	return s.repo.GetBorrowWithBook(ctx, borrowID)
}

// Renew extends an active loan by the loan period, measured from the
// current due date or from now when the loan is already overdue.
func (s *BorrowService) Renew(ctx context.Context, userID, borrowID uuid.UUID) (*model.BorrowRecord, error) {
	record, err := s.repo.GetBorrowForUser(ctx, borrowID, userID)
	if err != nil {
		return nil, err
	}

	if record.Status == model.StatusReturned {
		return nil, model.ErrCannotRenewReturned
	}
	if record.RenewalCount >= model.MaxRenewals {
		return nil, model.ErrMaxRenewalsReached
	}

	dueDate := model.NextDueDate(record.DueDate, s.now())
	return s.repo.UpdateRenewal(ctx, borrowID, dueDate, record.RenewalCount+1)
}

// MyBooks sweeps the caller's past-due loans, then lists their records.
func (s *BorrowService) MyBooks(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error) {
	if _, err := s.repo.MarkOverdue(ctx, &userID); err != nil {
		return nil, err
	}
	if status == "" {
		status = model.StatusAll
	}
	return s.repo.ListUserBorrows(ctx, userID, status)
}

// ListBorrows sweeps globally, then returns a page of all records.
func (s *BorrowService) ListBorrows(ctx context.Context, req model.ListBorrowsRequest) ([]model.BorrowWithBook, *response.Pagination, error) {
	if _, err := s.repo.MarkOverdue(ctx, nil); err != nil {
		return nil, nil, err
	}

	filter := &model.BorrowFilter{
		Status: req.Status,
		UserID: req.UserID,
		Offset: (req.Page - 1) * req.Limit,
		Limit:  req.Limit,
	}

	borrows, totalCount, err := s.repo.ListBorrows(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	pagination := response.NewPagination(req.Page, req.Limit, totalCount)
	return borrows, &pagination, nil
}

// Overdue sweeps globally, then returns every overdue record.
func (s *BorrowService) Overdue(ctx context.Context) ([]model.BorrowWithBook, error) {
	if _, err := s.repo.MarkOverdue(ctx, nil); err != nil {
		return nil, err
	}
	return s.repo.ListOverdue(ctx)
}

func (s *BorrowService) Stats(ctx context.Context) (*model.BorrowStats, error) {
	return s.repo.GetStats(ctx)
}

func (s *BorrowService) SweepOverdue(ctx context.Context) (int64, error) {
	return s.repo.MarkOverdue(ctx, nil)
}

// invalidateBookCache drops cached catalog views after an availability
// change. Cache errors are logged, never surfaced.
func (s *BorrowService) invalidateBookCache(ctx context.Context, bookID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, "books:list:*"); err != nil {
		log.Printf("[BorrowService] Failed to invalidate list cache: %v", err)
	}
	if err := s.cache.Delete(ctx, "books:detail:"+bookID.String()); err != nil {
		log.Printf("[BorrowService] Failed to invalidate detail cache: %v", err)
	}
}
