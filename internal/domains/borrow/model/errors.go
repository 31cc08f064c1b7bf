package model

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
)

var (
	ErrBookNotFound          = errors.New("book not found")
	ErrBookNotAvailable      = errors.New("book is not available for borrowing")
	ErrAlreadyBorrowed       = errors.New("user has already borrowed this book")
	ErrBorrowLimitReached    = errors.New("maximum borrowing limit reached")
	ErrLibrarianCannotBorrow = errors.New("librarians cannot borrow books")
	ErrBorrowNotFound        = errors.New("borrow record not found")
	ErrAlreadyReturned       = errors.New("borrow record not found or already returned")
	ErrCannotRenewReturned   = errors.New("cannot renew a returned book")
	ErrMaxRenewalsReached    = errors.New("maximum renewals reached")
)

var borrowErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Message: "Book not found",
	},
	ErrBookNotAvailable: {
		Status:  http.StatusConflict,
		Message: "Book is not available for borrowing",
	},
	ErrAlreadyBorrowed: {
		Status:  http.StatusConflict,
		Message: "You have already borrowed this book",
	},
	ErrBorrowLimitReached: {
		Status:  http.StatusConflict,
		Message: "You have reached the maximum borrowing limit (5 books)",
	},
	ErrLibrarianCannotBorrow: {
		Status:  http.StatusForbidden,
		Message: "Librarians cannot borrow books",
	},
	ErrBorrowNotFound: {
		Status:  http.StatusNotFound,
		Message: "Borrow record not found",
	},
	ErrAlreadyReturned: {
		Status:  http.StatusNotFound,
		Message: "Borrow record not found or already returned",
	},
	ErrCannotRenewReturned: {
		Status:  http.StatusConflict,
		Message: "Cannot renew a returned book",
	},
	ErrMaxRenewalsReached: {
		Status:  http.StatusConflict,
		Message: "Maximum renewals reached",
	},
}

// HandleBorrowError maps known domain errors to HTTP responses.
// Returns true when the error was handled (handler should stop).
func HandleBorrowError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for sentinel, config := range borrowErrorMap {
		if errors.Is(err, sentinel) {
			response.Error(c, config.Status, config.Message)
			return true
		}
	}

	log.Printf("[BorrowHandler] Unexpected error: %v", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
