package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/borrow/repository"
	"library-backend/internal/shared"
)

// noopCache satisfies cache.Cache without a Redis connection.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error          { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error   { return nil }
func (noopCache) Ping(ctx context.Context) error                            { return nil }

type mockOpStore struct {
	getAvailableFn    func(ctx context.Context, bookID uuid.UUID) (int, error)
	hasActiveFn       func(ctx context.Context, userID, bookID uuid.UUID) (bool, error)
	countActiveFn     func(ctx context.Context, userID uuid.UUID) (int, error)
	insertFn          func(ctx context.Context, record *model.BorrowRecord) error
	adjustFn          func(ctx context.Context, bookID uuid.UUID, delta int) error
	completeReturnFn  func(ctx context.Context, userID, borrowID uuid.UUID, returnedAt time.Time) (uuid.UUID, error)
}

func (m *mockOpStore) GetBookAvailableForUpdate(ctx context.Context, bookID uuid.UUID) (int, error) {
	return m.getAvailableFn(ctx, bookID)
}
func (m *mockOpStore) HasActiveBorrow(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	return m.hasActiveFn(ctx, userID, bookID)
}
func (m *mockOpStore) CountActiveBorrows(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.countActiveFn(ctx, userID)
}
func (m *mockOpStore) InsertBorrow(ctx context.Context, record *model.BorrowRecord) error {
	return m.insertFn(ctx, record)
}
func (m *mockOpStore) AdjustBookAvailable(ctx context.Context, bookID uuid.UUID, delta int) error {
	return m.adjustFn(ctx, bookID, delta)
}
func (m *mockOpStore) CompleteReturn(ctx context.Context, userID, borrowID uuid.UUID, returnedAt time.Time) (uuid.UUID, error) {
	return m.completeReturnFn(ctx, userID, borrowID, returnedAt)
}

type mockRepository struct {
	store *mockOpStore

	getBorrowWithBookFn func(ctx context.Context, borrowID uuid.UUID) (*model.BorrowWithBook, error)
	getBorrowForUserFn  func(ctx context.Context, borrowID, userID uuid.UUID) (*model.BorrowRecord, error)
	updateRenewalFn     func(ctx context.Context, borrowID uuid.UUID, dueDate time.Time, renewalCount int) (*model.BorrowRecord, error)
	listUserBorrowsFn   func(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error)
	listBorrowsFn       func(ctx context.Context, filter *model.BorrowFilter) ([]model.BorrowWithBook, int, error)
	listOverdueFn       func(ctx context.Context) ([]model.BorrowWithBook, error)
	markOverdueFn       func(ctx context.Context, userID *uuid.UUID) (int64, error)
	getStatsFn          func(ctx context.Context) (*model.BorrowStats, error)
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(repository.OpStore) error) error {
	return fn(m.store)
}
func (m *mockRepository) GetBorrowWithBook(ctx context.Context, borrowID uuid.UUID) (*model.BorrowWithBook, error) {
	return m.getBorrowWithBookFn(ctx, borrowID)
}
func (m *mockRepository) GetBorrowForUser(ctx context.Context, borrowID, userID uuid.UUID) (*model.BorrowRecord, error) {
	return m.getBorrowForUserFn(ctx, borrowID, userID)
}
func (m *mockRepository) UpdateRenewal(ctx context.Context, borrowID uuid.UUID, dueDate time.Time, renewalCount int) (*model.BorrowRecord, error) {
	return m.updateRenewalFn(ctx, borrowID, dueDate, renewalCount)
}
func (m *mockRepository) ListUserBorrows(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error) {
	return m.listUserBorrowsFn(ctx, userID, status)
}
func (m *mockRepository) ListBorrows(ctx context.Context, filter *model.BorrowFilter) ([]model.BorrowWithBook, int, error) {
	return m.listBorrowsFn(ctx, filter)
}
func (m *mockRepository) ListOverdue(ctx context.Context) ([]model.BorrowWithBook, error) {
	return m.listOverdueFn(ctx)
}
func (m *mockRepository) MarkOverdue(ctx context.Context, userID *uuid.UUID) (int64, error) {
	return m.markOverdueFn(ctx, userID)
}
func (m *mockRepository) GetStats(ctx context.Context) (*model.BorrowStats, error) {
	return m.getStatsFn(ctx)
}

func newTestService(repo *mockRepository) *BorrowService {
	return &BorrowService{
		repo:  repo,
		cache: noopCache{},
		now:   time.Now,
	}
}

func borrowOKRepo(available, activeCount int, hasActive bool) *mockRepository {
	repo := &mockRepository{
		store: &mockOpStore{
			getAvailableFn: func(ctx context.Context, bookID uuid.UUID) (int, error) {
				return available, nil
			},
			hasActiveFn: func(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
				return hasActive, nil
			},
			countActiveFn: func(ctx context.Context, userID uuid.UUID) (int, error) {
				return activeCount, nil
			},
			insertFn: func(ctx context.Context, record *model.BorrowRecord) error {
				return nil
			},
			adjustFn: func(ctx context.Context, bookID uuid.UUID, delta int) error {
				return nil
			},
		},
	}
	repo.getBorrowWithBookFn = func(ctx context.Context, borrowID uuid.UUID) (*model.BorrowWithBook, error) {
		return &model.BorrowWithBook{
			BorrowRecord: model.BorrowRecord{ID: borrowID, Status: model.StatusBorrowed},
			Book:         &model.BookSummary{Title: "The Go Programming Language"},
		}, nil
	}
	return repo
}

func TestBorrow_Success(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()

	repo := borrowOKRepo(3, 0, false)

	var inserted *model.BorrowRecord
	var adjustedDelta int
	repo.store.insertFn = func(ctx context.Context, record *model.BorrowRecord) error {
		inserted = record
		return nil
	}
	repo.store.adjustFn = func(ctx context.Context, id uuid.UUID, delta int) error {
		adjustedDelta = delta
		return nil
	}

	svc := newTestService(repo)
	borrow, err := svc.Borrow(context.Background(), userID, shared.RoleMember, bookID)

	require.NoError(t, err)
	require.NotNil(t, borrow)
	require.NotNil(t, inserted)
	assert.Equal(t, userID, inserted.UserID)
	assert.Equal(t, bookID, inserted.BookID)
	assert.Equal(t, model.StatusBorrowed, inserted.Status)
	assert.Equal(t, 0, inserted.RenewalCount)
	assert.Equal(t, -1, adjustedDelta)

	// Due date is LoanPeriodDays out from the borrow date.
	wantDue := inserted.BorrowDate.AddDate(0, 0, model.LoanPeriodDays)
	assert.WithinDuration(t, wantDue, inserted.DueDate, time.Second)
}

func TestBorrow_LibrarianForbidden(t *testing.T) {
	repo := &mockRepository{} // WithTx must never run
	svc := newTestService(repo)

	_, err := svc.Borrow(context.Background(), uuid.New(), shared.RoleLibrarian, uuid.New())
	assert.ErrorIs(t, err, model.ErrLibrarianCannotBorrow)
}

func TestBorrow_BookNotFound(t *testing.T) {
	repo := borrowOKRepo(0, 0, false)
	repo.store.getAvailableFn = func(ctx context.Context, bookID uuid.UUID) (int, error) {
		return 0, model.ErrBookNotFound
	}

	svc := newTestService(repo)
	_, err := svc.Borrow(context.Background(), uuid.New(), shared.RoleMember, uuid.New())
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBorrow_NotAvailable(t *testing.T) {
	repo := borrowOKRepo(0, 0, false)

	svc := newTestService(repo)
	_, err := svc.Borrow(context.Background(), uuid.New(), shared.RoleMember, uuid.New())
	assert.ErrorIs(t, err, model.ErrBookNotAvailable)
}

func TestBorrow_DuplicateActive(t *testing.T) {
	repo := borrowOKRepo(2, 1, true)

	svc := newTestService(repo)
	_, err := svc.Borrow(context.Background(), uuid.New(), shared.RoleMember, uuid.New())
	assert.ErrorIs(t, err, model.ErrAlreadyBorrowed)
}

func TestBorrow_LimitReached(t *testing.T) {
	repo := borrowOKRepo(2, model.BorrowLimit, false)

	svc := newTestService(repo)
	_, err := svc.Borrow(context.Background(), uuid.New(), shared.RoleMember, uuid.New())
	assert.ErrorIs(t, err, model.ErrBorrowLimitReached)
}

func TestReturn_Success(t *testing.T) {
	userID := uuid.New()
	borrowID := uuid.New()
	bookID := uuid.New()

	var adjustedDelta int
	repo := &mockRepository{
		store: &mockOpStore{
			completeReturnFn: func(ctx context.Context, uID, bID uuid.UUID, returnedAt time.Time) (uuid.UUID, error) {
				assert.Equal(t, userID, uID)
				assert.Equal(t, borrowID, bID)
				return bookID, nil
			},
			adjustFn: func(ctx context.Context, id uuid.UUID, delta int) error {
				assert.Equal(t, bookID, id)
				adjustedDelta = delta
				return nil
			},
		},
		getBorrowWithBookFn: func(ctx context.Context, id uuid.UUID) (*model.BorrowWithBook, error) {
			returned := time.Now()
			return &model.BorrowWithBook{
				BorrowRecord: model.BorrowRecord{ID: id, Status: model.StatusReturned, ReturnDate: &returned},
			}, nil
		},
	}

	svc := newTestService(repo)
	borrow, err := svc.Return(context.Background(), userID, borrowID)

	require.NoError(t, err)
	assert.Equal(t, model.StatusReturned, borrow.Status)
	assert.Equal(t, 1, adjustedDelta)
}

func TestReturn_AlreadyReturned(t *testing.T) {
	adjustCalled := false
	repo := &mockRepository{
		store: &mockOpStore{
			completeReturnFn: func(ctx context.Context, userID, borrowID uuid.UUID, returnedAt time.Time) (uuid.UUID, error) {
				return uuid.Nil, model.ErrAlreadyReturned
			},
			adjustFn: func(ctx context.Context, bookID uuid.UUID, delta int) error {
				adjustCalled = true
				return nil
			},
		},
	}

	svc := newTestService(repo)
	_, err := svc.Return(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, model.ErrAlreadyReturned)
	assert.False(t, adjustCalled, "second return must not touch availability")
}

func TestRenew_Success(t *testing.T) {
	userID := uuid.New()
	borrowID := uuid.New()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dueDate := now.AddDate(0, 0, 5) // not yet overdue

	repo := &mockRepository{
		getBorrowForUserFn: func(ctx context.Context, bID, uID uuid.UUID) (*model.BorrowRecord, error) {
			return &model.BorrowRecord{
				ID: bID, UserID: uID, DueDate: dueDate,
				Status: model.StatusBorrowed, RenewalCount: 1,
			}, nil
		},
		updateRenewalFn: func(ctx context.Context, bID uuid.UUID, newDue time.Time, count int) (*model.BorrowRecord, error) {
			assert.Equal(t, dueDate.AddDate(0, 0, model.LoanPeriodDays), newDue)
			assert.Equal(t, 2, count)
			return &model.BorrowRecord{ID: bID, DueDate: newDue, RenewalCount: count, Status: model.StatusBorrowed}, nil
		},
	}

	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	record, err := svc.Renew(context.Background(), userID, borrowID)
	require.NoError(t, err)
	assert.Equal(t, 2, record.RenewalCount)
}

func TestRenew_OverdueExtendsFromNow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dueDate := now.AddDate(0, 0, -3) // already past due

	repo := &mockRepository{
		getBorrowForUserFn: func(ctx context.Context, bID, uID uuid.UUID) (*model.BorrowRecord, error) {
			return &model.BorrowRecord{ID: bID, DueDate: dueDate, Status: model.StatusOverdue}, nil
		},
		updateRenewalFn: func(ctx context.Context, bID uuid.UUID, newDue time.Time, count int) (*model.BorrowRecord, error) {
			assert.Equal(t, now.AddDate(0, 0, model.LoanPeriodDays), newDue)
			return &model.BorrowRecord{ID: bID, DueDate: newDue, RenewalCount: count, Status: model.StatusBorrowed}, nil
		},
	}

	svc := newTestService(repo)
	svc.now = func() time.Time { return now }

	record, err := svc.Renew(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrowed, record.Status)
}

func TestRenew_ReturnedRejected(t *testing.T) {
	repo := &mockRepository{
		getBorrowForUserFn: func(ctx context.Context, bID, uID uuid.UUID) (*model.BorrowRecord, error) {
			return &model.BorrowRecord{ID: bID, Status: model.StatusReturned}, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Renew(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrCannotRenewReturned)
}

func TestRenew_MaxRenewalsRejected(t *testing.T) {
	repo := &mockRepository{
		getBorrowForUserFn: func(ctx context.Context, bID, uID uuid.UUID) (*model.BorrowRecord, error) {
			return &model.BorrowRecord{ID: bID, Status: model.StatusBorrowed, RenewalCount: model.MaxRenewals}, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.Renew(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrMaxRenewalsReached)
}

func TestRenew_NotFound(t *testing.T) {
	repo := &mockRepository{
		getBorrowForUserFn: func(ctx context.Context, bID, uID uuid.UUID) (*model.BorrowRecord, error) {
			return nil, model.ErrBorrowNotFound
		},
	}

	svc := newTestService(repo)
	_, err := svc.Renew(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, model.ErrBorrowNotFound)
}

func TestMyBooks_SweepsCallerFirst(t *testing.T) {
	userID := uuid.New()

	var sweptUser *uuid.UUID
	repo := &mockRepository{
		markOverdueFn: func(ctx context.Context, uID *uuid.UUID) (int64, error) {
			sweptUser = uID
			return 1, nil
		},
		listUserBorrowsFn: func(ctx context.Context, uID uuid.UUID, status string) ([]model.BorrowWithBook, error) {
			assert.Equal(t, model.StatusAll, status)
			return []model.BorrowWithBook{}, nil
		},
	}

	svc := newTestService(repo)
	_, err := svc.MyBooks(context.Background(), userID, "")

	require.NoError(t, err)
	require.NotNil(t, sweptUser)
	assert.Equal(t, userID, *sweptUser)
}

func TestListBorrows_GlobalSweepAndPagination(t *testing.T) {
	var sweptUser *uuid.UUID = &uuid.UUID{}
	repo := &mockRepository{
		markOverdueFn: func(ctx context.Context, uID *uuid.UUID) (int64, error) {
			sweptUser = uID
			return 0, nil
		},
		listBorrowsFn: func(ctx context.Context, filter *model.BorrowFilter) ([]model.BorrowWithBook, int, error) {
			assert.Equal(t, 10, filter.Offset)
			assert.Equal(t, 10, filter.Limit)
			return make([]model.BorrowWithBook, 10), 25, nil
		},
	}

	svc := newTestService(repo)
	borrows, pagination, err := svc.ListBorrows(context.Background(), model.ListBorrowsRequest{
		Status: model.StatusAll, Page: 2, Limit: 10,
	})

	require.NoError(t, err)
	assert.Nil(t, sweptUser, "list sweep must be global")
	assert.Len(t, borrows, 10)
	assert.Equal(t, 2, pagination.CurrentPage)
	assert.Equal(t, 3, pagination.TotalPages)
	assert.Equal(t, 25, pagination.TotalItems)
	assert.True(t, pagination.HasNextPage)
	assert.True(t, pagination.HasPrevPage)
}

func TestOverdue_SweepsBeforeListing(t *testing.T) {
	calls := []string{}
	repo := &mockRepository{
		markOverdueFn: func(ctx context.Context, uID *uuid.UUID) (int64, error) {
			calls = append(calls, "sweep")
			return 2, nil
		},
		listOverdueFn: func(ctx context.Context) ([]model.BorrowWithBook, error) {
			calls = append(calls, "list")
			return make([]model.BorrowWithBook, 2), nil
		},
	}

	svc := newTestService(repo)
	borrows, err := svc.Overdue(context.Background())

	require.NoError(t, err)
	assert.Len(t, borrows, 2)
	assert.Equal(t, []string{"sweep", "list"}, calls)
}

func TestStats_PassThrough(t *testing.T) {
	repo := &mockRepository{
		getStatsFn: func(ctx context.Context) (*model.BorrowStats, error) {
			return &model.BorrowStats{
				TotalBooks:        12,
				AvailableBooks:    9,
				CurrentlyBorrowed: 4,
				OverdueBooks:      1,
				BorrowsThisMonth:  7,
			}, nil
		},
	}

	svc := newTestService(repo)
	stats, err := svc.Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 12, stats.TotalBooks)
	assert.Equal(t, 1, stats.OverdueBooks)
}
