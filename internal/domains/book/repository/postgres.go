package repository

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared/utils"
)

// postgresRepository - raw SQL with pgxpool
type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const bookColumns = `id, title, author, isbn, quantity, available,
		description, genre, cover_url, published_year, created_at, updated_at`

// ListBooks returns a page of books with the total count for pagination.
// Search is a case-insensitive substring match over title/author/description.
func (r *postgresRepository) ListBooks(ctx context.Context, filter *model.BookFilter) ([]model.Book, int, error) {
	whereClause, args := r.buildWhereClause(filter)

	totalCount, err := r.getBookCount(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM books
		WHERE %s
		ORDER BY title ASC
		LIMIT $%d OFFSET $%d
	`, bookColumns, whereClause, len(args)+1, len(args)+2)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("[BookRepo] Query error: %v", err)
		return nil, 0, fmt.Errorf("list books query failed: %w", err)
	}

	books, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		log.Printf("[BookRepo] Collect rows error: %v", err)
		return nil, 0, fmt.Errorf("collect rows failed: %w", err)
	}

	return books, totalCount, nil
}

func (r *postgresRepository) buildWhereClause(filter *model.BookFilter) (string, []interface{}) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIndex := 1

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR author ILIKE $%d OR description ILIKE $%d)",
			argIndex, argIndex, argIndex))
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	if filter.AvailableOnly {
		conditions = append(conditions, "available > 0")
	}

	return utils.JoinWithAnd(conditions), args
}

func (r *postgresRepository) getBookCount(ctx context.Context, whereClause string, args []interface{}) (int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM books WHERE %s`, whereClause)

	var totalCount int
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount)
	if err != nil {
		log.Printf("[BookRepo] Count query error: %v", err)
		return 0, fmt.Errorf("count query failed: %w", err)
	}

	return totalCount, nil
}

func (r *postgresRepository) GetBookByID(ctx context.Context, id string) (*model.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)

	var book model.Book
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Author, &book.ISBN, &book.Quantity, &book.Available,
		&book.Description, &book.Genre, &book.CoverURL, &book.PublishedYear,
		&book.CreatedAt, &book.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return &book, nil
}

func (r *postgresRepository) CreateBook(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (
			id, title, author, isbn, quantity, available,
			description, genre, cover_url, published_year,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12
		)
	`

	_, err := r.pool.Exec(ctx, query,
		book.ID, book.Title, book.Author, book.ISBN, book.Quantity, book.Available,
		book.Description, book.Genre, book.CoverURL, book.PublishedYear,
		book.CreatedAt, book.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}

	return nil
}

func (r *postgresRepository) UpdateBook(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, quantity = $4, available = $5,
		    description = $6, genre = $7, cover_url = $8, published_year = $9,
		    updated_at = $10
		WHERE id = $11
	`

	result, err := r.pool.Exec(ctx, query,
		book.Title, book.Author, book.ISBN, book.Quantity, book.Available,
		book.Description, book.Genre, book.CoverURL, book.PublishedYear,
		book.UpdatedAt, book.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) DeleteBook(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}

	return nil
}

func (r *postgresRepository) CheckISBNExists(ctx context.Context, isbn string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, isbn).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CheckISBNExistsExcept(ctx context.Context, isbn, excludeID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1 AND id != $2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, isbn, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check ISBN: %w", err)
	}
	return exists, nil
}

// CheckBookHasActiveBorrows reports whether any borrow record still
// holds a copy of this book. Deletion is blocked while this is true.
func (r *postgresRepository) CheckBookHasActiveBorrows(ctx context.Context, bookID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM borrows
			WHERE book_id = $1
			  AND status IN ('borrowed', 'overdue')
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, bookID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active borrows: %w", err)
	}

	return exists, nil
}
