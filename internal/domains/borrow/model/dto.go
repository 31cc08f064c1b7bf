package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// BorrowRequest is the payload for POST /borrow.
type BorrowRequest struct {
	BookID string `json:"bookId"`
}

func (r BorrowRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required.Error("Book ID is required"), is.UUID.Error("Invalid book ID")),
	)
}

// ReturnRequest is the payload for POST /borrow/return.
type ReturnRequest struct {
	BorrowID string `json:"borrowId"`
}

func (r ReturnRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BorrowID, validation.Required.Error("Borrow ID is required"), is.UUID.Error("Invalid borrow ID")),
	)
}

var statusFilterRule = validation.In(
	string(StatusBorrowed), string(StatusReturned), string(StatusOverdue), StatusAll,
).Error("Status must be borrowed, returned, overdue, or all")

// MyBooksRequest carries the query parameters for GET /borrow/my-books.
type MyBooksRequest struct {
	Status string
}

func (r MyBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, statusFilterRule),
	)
}

// ListBorrowsRequest carries the query parameters for GET /borrow/all.
type ListBorrowsRequest struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// Handlers default Page/Limit before validating, so Required only
// trips on zero values coming from the query string.
func (r ListBorrowsRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Status, statusFilterRule),
		validation.Field(&r.UserID, is.UUID.Error("Invalid user ID")),
		validation.Field(&r.Page, validation.Required.Error("must be no less than 1"), validation.Min(1)),
		validation.Field(&r.Limit, validation.Required.Error("must be no less than 1"), validation.Min(1), validation.Max(100)),
	)
}

// BorrowFilter is the repository-level filter for listing borrow records.
type BorrowFilter struct {
	Status string
	UserID string
	Offset int
	Limit  int
}

// BorrowStats aggregates catalog and lending counters.
type BorrowStats struct {
	TotalBooks        int `json:"totalBooks"`
	AvailableBooks    int `json:"availableBooks"`
	CurrentlyBorrowed int `json:"currentlyBorrowed"`
	OverdueBooks      int `json:"overdueBooks"`
	BorrowsThisMonth  int `json:"borrowsThisMonth"`
}
