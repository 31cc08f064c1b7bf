package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/shared/utils"
	"library-backend/pkg/database"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const borrowColumns = `b.id, b.user_id, b.book_id, b.borrow_date, b.due_date,
		b.return_date, b.status, b.renewal_count, b.created_at, b.updated_at`

const borrowWithBookColumns = borrowColumns + `,
		bk.title, bk.author, bk.isbn, bk.cover_url`

// LEFT JOIN so audit records of deleted books still show up, with a null book.
const borrowWithBookFrom = `
	FROM borrows b
	LEFT JOIN books bk ON bk.id = b.book_id`

func scanBorrowWithBook(row pgx.Row) (*model.BorrowWithBook, error) {
	var bw model.BorrowWithBook
	var title, author, isbn, coverURL *string
	err := row.Scan(
		&bw.ID, &bw.UserID, &bw.BookID, &bw.BorrowDate, &bw.DueDate,
		&bw.ReturnDate, &bw.Status, &bw.RenewalCount, &bw.CreatedAt, &bw.UpdatedAt,
		&title, &author, &isbn, &coverURL,
	)
	if err != nil {
		return nil, err
	}
	if title != nil {
		bw.Book = &model.BookSummary{Title: *title, Author: *author, ISBN: *isbn, CoverURL: coverURL}
	}
	return &bw, nil
}

func collectBorrowsWithBook(rows pgx.Rows) ([]model.BorrowWithBook, error) {
	defer rows.Close()

	borrows := make([]model.BorrowWithBook, 0)
	for rows.Next() {
		bw, err := scanBorrowWithBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan borrow row failed: %w", err)
		}
		borrows = append(borrows, *bw)
	}
	return borrows, rows.Err()
}

// WithTx runs fn inside a single transaction. Used by borrow and return
// so the availability counter and the record move together.
func (r *postgresRepository) WithTx(ctx context.Context, fn func(OpStore) error) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&opStore{tx: tx})
	})
}

func (r *postgresRepository) GetBorrowWithBook(ctx context.Context, borrowID uuid.UUID) (*model.BorrowWithBook, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.id = $1`, borrowWithBookColumns, borrowWithBookFrom)

	bw, err := scanBorrowWithBook(r.pool.QueryRow(ctx, query, borrowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("get borrow query failed: %w", err)
	}
	return bw, nil
}

func (r *postgresRepository) GetBorrowForUser(ctx context.Context, borrowID, userID uuid.UUID) (*model.BorrowRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM borrows b WHERE b.id = $1 AND b.user_id = $2`, borrowColumns)

	rows, err := r.pool.Query(ctx, query, borrowID, userID)
	if err != nil {
		return nil, fmt.Errorf("get borrow query failed: %w", err)
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("collect borrow row failed: %w", err)
	}
	return &record, nil
}

func (r *postgresRepository) UpdateRenewal(ctx context.Context, borrowID uuid.UUID, dueDate time.Time, renewalCount int) (*model.BorrowRecord, error) {
	query := fmt.Sprintf(`
		UPDATE borrows b
		SET due_date = $2, renewal_count = $3, status = 'borrowed', updated_at = NOW()
		WHERE b.id = $1 AND b.status IN ('borrowed', 'overdue')
		RETURNING %s`, borrowColumns)

	rows, err := r.pool.Query(ctx, query, borrowID, dueDate, renewalCount)
	if err != nil {
		return nil, fmt.Errorf("renew update failed: %w", err)
	}

	record, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRecord])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBorrowNotFound
		}
		return nil, fmt.Errorf("collect borrow row failed: %w", err)
	}
	return &record, nil
}

func (r *postgresRepository) ListUserBorrows(ctx context.Context, userID uuid.UUID, status string) ([]model.BorrowWithBook, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE b.user_id = $1`, borrowWithBookColumns, borrowWithBookFrom)
	args := []interface{}{userID}

	if status != model.StatusAll {
		query += ` AND b.status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY b.borrow_date DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("[BorrowRepo] Query error: %v", err)
		return nil, fmt.Errorf("list user borrows query failed: %w", err)
	}
	return collectBorrowsWithBook(rows)
}

func (r *postgresRepository) ListBorrows(ctx context.Context, filter *model.BorrowFilter) ([]model.BorrowWithBook, int, error) {
	whereClause, args := r.buildWhereClause(filter)

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM borrows b WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("count borrows query failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE %s
		ORDER BY b.borrow_date DESC
		LIMIT $%d OFFSET $%d
	`, borrowWithBookColumns, borrowWithBookFrom, whereClause, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("[BorrowRepo] Query error: %v", err)
		return nil, 0, fmt.Errorf("list borrows query failed: %w", err)
	}

	borrows, err := collectBorrowsWithBook(rows)
	if err != nil {
		return nil, 0, err
	}
	return borrows, totalCount, nil
}

func (r *postgresRepository) buildWhereClause(filter *model.BorrowFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != "" && filter.Status != model.StatusAll {
		conditions = append(conditions, fmt.Sprintf("b.status = $%d", argIndex))
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("b.user_id = $%d", argIndex))
		args = append(args, filter.UserID)
		argIndex++
	}

	return utils.JoinWithAnd(conditions), args
}

func (r *postgresRepository) ListOverdue(ctx context.Context) ([]model.BorrowWithBook, error) {
	query := fmt.Sprintf(`
		SELECT %s %s
		WHERE b.status = 'overdue'
		ORDER BY b.due_date ASC
	`, borrowWithBookColumns, borrowWithBookFrom)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		log.Printf("[BorrowRepo] Query error: %v", err)
		return nil, fmt.Errorf("list overdue query failed: %w", err)
	}
	return collectBorrowsWithBook(rows)
}

// MarkOverdue is the lazy sweep: a single idempotent UPDATE flipping
// past-due borrowed records to overdue.
func (r *postgresRepository) MarkOverdue(ctx context.Context, userID *uuid.UUID) (int64, error) {
	query := `
		UPDATE borrows
		SET status = 'overdue', updated_at = NOW()
		WHERE status = 'borrowed' AND due_date < NOW()`
	args := []interface{}{}

	if userID != nil {
		query += ` AND user_id = $1`
		args = append(args, *userID)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("overdue sweep failed: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) GetStats(ctx context.Context) (*model.BorrowStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM books),
			(SELECT COUNT(*) FROM books WHERE available > 0),
			(SELECT COUNT(*) FROM borrows WHERE status = 'borrowed'),
			(SELECT COUNT(*) FROM borrows WHERE status = 'overdue'),
			(SELECT COUNT(*) FROM borrows WHERE borrow_date >= date_trunc('month', NOW()))`

	var stats model.BorrowStats
	err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalBooks,
		&stats.AvailableBooks,
		&stats.CurrentlyBorrowed,
		&stats.OverdueBooks,
		&stats.BorrowsThisMonth,
	)
	if err != nil {
		return nil, fmt.Errorf("stats query failed: %w", err)
	}
	return &stats, nil
}

// opStore implements OpStore on a live transaction.
type opStore struct {
	tx pgx.Tx
}

func (s *opStore) GetBookAvailableForUpdate(ctx context.Context, bookID uuid.UUID) (int, error) {
	var available int
	err := s.tx.QueryRow(ctx,
		`SELECT available FROM books WHERE id = $1 FOR UPDATE`, bookID,
	).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrBookNotFound
		}
		return 0, fmt.Errorf("lock book row failed: %w", err)
	}
	return available, nil
}

func (s *opStore) HasActiveBorrow(ctx context.Context, userID, bookID uuid.UUID) (bool, error) {
	var exists bool
	err := s.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM borrows
			WHERE user_id = $1 AND book_id = $2 AND status IN ('borrowed', 'overdue')
		)`, userID, bookID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("active borrow check failed: %w", err)
	}
	return exists, nil
}

func (s *opStore) CountActiveBorrows(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := s.tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM borrows
		WHERE user_id = $1 AND status IN ('borrowed', 'overdue')`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("active borrow count failed: %w", err)
	}
	return count, nil
}

func (s *opStore) InsertBorrow(ctx context.Context, record *model.BorrowRecord) error {
	_, err := s.tx.Exec(ctx, `
		INSERT INTO borrows (id, user_id, book_id, borrow_date, due_date, return_date,
			status, renewal_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID, record.UserID, record.BookID, record.BorrowDate, record.DueDate,
		record.ReturnDate, record.Status, record.RenewalCount, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert borrow failed: %w", err)
	}
	return nil
}

func (s *opStore) AdjustBookAvailable(ctx context.Context, bookID uuid.UUID, delta int) error {
	tag, err := s.tx.Exec(ctx, `
		UPDATE books
		SET available = available + $2, updated_at = NOW()
		WHERE id = $1`, bookID, delta,
	)
	if err != nil {
		return fmt.Errorf("adjust availability failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (s *opStore) CompleteReturn(ctx context.Context, userID, borrowID uuid.UUID, returnedAt time.Time) (uuid.UUID, error) {
	var bookID uuid.UUID
	err := s.tx.QueryRow(ctx, `
		UPDATE borrows
		SET status = 'returned', return_date = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND status IN ('borrowed', 'overdue')
		RETURNING book_id`, borrowID, userID, returnedAt,
	).Scan(&bookID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, model.ErrAlreadyReturned
		}
		return uuid.Nil, fmt.Errorf("return update failed: %w", err)
	}
	return bookID, nil
}
