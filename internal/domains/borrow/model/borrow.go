package model

import (
	"time"

	"github.com/google/uuid"
)

// Lending policy.
const (
	BorrowLimit    = 5
	MaxRenewals    = 2
	LoanPeriodDays = 14
)

// Status of a borrow record.
type Status string

const (
	StatusBorrowed Status = "borrowed"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"

	// StatusAll is a filter value only, never stored.
	StatusAll = "all"
)

func (s Status) Valid() bool {
	switch s {
	case StatusBorrowed, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

// BorrowRecord tracks one loan of one book to one user.
// Records are never deleted; returned loans stay as an audit trail.
type BorrowRecord struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	UserID       uuid.UUID  `json:"userId" db:"user_id"`
	BookID       uuid.UUID  `json:"bookId" db:"book_id"`
	BorrowDate   time.Time  `json:"borrowDate" db:"borrow_date"`
	DueDate      time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate   *time.Time `json:"returnDate" db:"return_date"`
	Status       Status     `json:"status" db:"status"`
	RenewalCount int        `json:"renewalCount" db:"renewal_count"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// BookSummary is the compact book view embedded in borrow responses.
type BookSummary struct {
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	ISBN     string  `json:"isbn"`
	CoverURL *string `json:"coverUrl"`
}

// BorrowWithBook is a borrow record joined with its book summary.
// Book is nil when the book has since been removed from the catalog;
// the record itself survives as an audit trail.
type BorrowWithBook struct {
	BorrowRecord
	Book *BookSummary `json:"book"`
}

// NewBorrowRecord creates a fresh loan due LoanPeriodDays from now.
func NewBorrowRecord(userID, bookID uuid.UUID) *BorrowRecord {
	now := time.Now()
	return &BorrowRecord{
		ID:         uuid.New(),
		UserID:     userID,
		BookID:     bookID,
		BorrowDate: now,
		DueDate:    now.AddDate(0, 0, LoanPeriodDays),
		Status:     StatusBorrowed,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NextDueDate computes the due date after a renewal: LoanPeriodDays past
// the current due date, or past now when the loan is already overdue.
func NextDueDate(current, now time.Time) time.Time {
	base := current
	if now.After(base) {
		base = now
	}
	return base.AddDate(0, 0, LoanPeriodDays)
}

// IsOverdue reports whether an unreturned loan is past its due date.
func (b *BorrowRecord) IsOverdue(now time.Time) bool {
	if b.Status == StatusReturned {
		return false
	}
	return now.After(b.DueDate)
}
