package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNextDueDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("extends from due date when still current", func(t *testing.T) {
		due := now.AddDate(0, 0, 4)
		got := NextDueDate(due, now)
		assert.Equal(t, due.AddDate(0, 0, LoanPeriodDays), got)
	})

	t.Run("extends from now when overdue", func(t *testing.T) {
		due := now.AddDate(0, 0, -10)
		got := NextDueDate(due, now)
		assert.Equal(t, now.AddDate(0, 0, LoanPeriodDays), got)
	})

	t.Run("due exactly now extends from now", func(t *testing.T) {
		got := NextDueDate(now, now)
		assert.Equal(t, now.AddDate(0, 0, LoanPeriodDays), got)
	})
}

func TestNewBorrowRecord(t *testing.T) {
	userID := uuid.New()
	bookID := uuid.New()

	record := NewBorrowRecord(userID, bookID)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, bookID, record.BookID)
	assert.Equal(t, StatusBorrowed, record.Status)
	assert.Equal(t, 0, record.RenewalCount)
	assert.Nil(t, record.ReturnDate)
	assert.WithinDuration(t, record.BorrowDate.AddDate(0, 0, LoanPeriodDays), record.DueDate, time.Second)
}

func TestIsOverdue(t *testing.T) {
	now := time.Now()

	overdue := &BorrowRecord{Status: StatusBorrowed, DueDate: now.AddDate(0, 0, -1)}
	assert.True(t, overdue.IsOverdue(now))

	current := &BorrowRecord{Status: StatusBorrowed, DueDate: now.AddDate(0, 0, 1)}
	assert.False(t, current.IsOverdue(now))

	// Returned records are never overdue, even past the due date.
	returned := &BorrowRecord{Status: StatusReturned, DueDate: now.AddDate(0, 0, -30)}
	assert.False(t, returned.IsOverdue(now))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusBorrowed.Valid())
	assert.True(t, StatusReturned.Valid())
	assert.True(t, StatusOverdue.Valid())
	assert.False(t, Status("all").Valid())
	assert.False(t, Status("lost").Valid())
}

func TestBorrowRequestValidate(t *testing.T) {
	assert.NoError(t, BorrowRequest{BookID: uuid.NewString()}.Validate())
	assert.Error(t, BorrowRequest{}.Validate())
	assert.Error(t, BorrowRequest{BookID: "not-a-uuid"}.Validate())
}

func TestReturnRequestValidate(t *testing.T) {
	assert.NoError(t, ReturnRequest{BorrowID: uuid.NewString()}.Validate())
	assert.Error(t, ReturnRequest{}.Validate())
}

func TestListBorrowsRequestValidate(t *testing.T) {
	valid := ListBorrowsRequest{Status: "borrowed", Page: 1, Limit: 10}
	assert.NoError(t, valid.Validate())

	all := ListBorrowsRequest{Status: StatusAll, UserID: uuid.NewString(), Page: 3, Limit: 100}
	assert.NoError(t, all.Validate())

	badStatus := ListBorrowsRequest{Status: "lost", Page: 1, Limit: 10}
	assert.Error(t, badStatus.Validate())

	badUser := ListBorrowsRequest{Status: StatusAll, UserID: "nope", Page: 1, Limit: 10}
	assert.Error(t, badUser.Validate())

	badLimit := ListBorrowsRequest{Status: StatusAll, Page: 1, Limit: 500}
	assert.Error(t, badLimit.Validate())

	zeroPage := ListBorrowsRequest{Status: StatusAll, Page: 0, Limit: 10}
	assert.Error(t, zeroPage.Validate())

	negativePage := ListBorrowsRequest{Status: StatusAll, Page: -1, Limit: 10}
	assert.Error(t, negativePage.Validate())
}

func TestBorrowWithBookJSON(t *testing.T) {
	bw := BorrowWithBook{BorrowRecord: *NewBorrowRecord(uuid.New(), uuid.New())}

	raw, err := json.Marshal(bw)
	assert.NoError(t, err)

	var decoded map[string]interface{}
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	// Records of deleted books keep their bookId but carry a null book.
	assert.Contains(t, decoded, "book")
	assert.Nil(t, decoded["book"])

	bw.Book = &BookSummary{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593"}
	raw, err = json.Marshal(bw)
	assert.NoError(t, err)
	assert.NoError(t, json.Unmarshal(raw, &decoded))
	book := decoded["book"].(map[string]interface{})
	assert.Equal(t, "Dune", book["title"])
}

func TestMyBooksRequestValidate(t *testing.T) {
	for _, status := range []string{"borrowed", "returned", "overdue", "all"} {
		assert.NoError(t, MyBooksRequest{Status: status}.Validate(), status)
	}
	assert.Error(t, MyBooksRequest{Status: "pending"}.Validate())
}
