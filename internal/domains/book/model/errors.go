package model

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/response"
)

var (
	ErrBookNotFound             = errors.New("book not found")
	ErrISBNAlreadyExists        = errors.New("book with this ISBN already exists")
	ErrBookHasActiveBorrows     = errors.New("cannot delete book with active borrows")
	ErrAvailableExceedsQuantity = errors.New("available count cannot exceed total quantity")
	ErrNegativeCount            = errors.New("quantity and available cannot be negative")
)

var bookErrorMap = map[error]struct {
	Status  int
	Message string
}{
	ErrBookNotFound: {
		Status:  http.StatusNotFound,
		Message: "Book not found",
	},
	ErrISBNAlreadyExists: {
		Status:  http.StatusConflict,
		Message: "Book with this ISBN already exists",
	},
	ErrBookHasActiveBorrows: {
		Status:  http.StatusConflict,
		Message: "Cannot delete book with active borrows",
	},
	ErrAvailableExceedsQuantity: {
		Status:  http.StatusBadRequest,
		Message: "Available count cannot exceed total quantity",
	},
	ErrNegativeCount: {
		Status:  http.StatusBadRequest,
		Message: "Quantity and available cannot be negative",
	},
}

// HandleBookError maps known domain errors to HTTP responses.
// Returns true when the error was handled (handler should stop).
func HandleBookError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	for sentinel, config := range bookErrorMap {
		if errors.Is(err, sentinel) {
			response.Error(c, config.Status, config.Message)
			return true
		}
	}

	log.Printf("[BookHandler] Unexpected error: %v", err)
	response.InternalServerError(c, "Internal server error")
	return true
}
