package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() CreateBookRequest {
	return CreateBookRequest{
		Title:    "The Pragmatic Programmer",
		Author:   "David Thomas",
		ISBN:     "9780135957059",
		Quantity: 3,
	}
}

func TestCreateBookRequestValidate(t *testing.T) {
	assert.NoError(t, validCreateRequest().Validate())

	t.Run("missing title", func(t *testing.T) {
		req := validCreateRequest()
		req.Title = ""
		assert.Error(t, req.Validate())
	})

	t.Run("zero quantity", func(t *testing.T) {
		req := validCreateRequest()
		req.Quantity = 0
		assert.Error(t, req.Validate())
	})

	t.Run("future published year", func(t *testing.T) {
		req := validCreateRequest()
		year := 3000
		req.PublishedYear = &year
		assert.Error(t, req.Validate())
	})

	t.Run("year before printing press era", func(t *testing.T) {
		req := validCreateRequest()
		year := 999
		req.PublishedYear = &year
		assert.Error(t, req.Validate())
	})
}

func TestISBNPattern(t *testing.T) {
	valid := []string{
		"9780135957059",      // ISBN-13
		"978-0-13-595705-9",  // ISBN-13 with hyphens
		"0135957052",         // ISBN-10
		"0-13-595705-2",      // ISBN-10 with hyphens
		"080442957X",         // ISBN-10 with X check digit
	}
	for _, isbn := range valid {
		req := validCreateRequest()
		req.ISBN = isbn
		assert.NoError(t, req.Validate(), isbn)
	}

	invalid := []string{
		"",
		"12345",
		"97801359570590",  // 14 digits
		"abcdefghij",
		"978013595705X",   // X not allowed in ISBN-13
	}
	for _, isbn := range invalid {
		req := validCreateRequest()
		req.ISBN = isbn
		assert.Error(t, req.Validate(), isbn)
	}
}

func TestListBooksRequestValidate(t *testing.T) {
	assert.NoError(t, ListBooksRequest{Page: 1, Limit: 10}.Validate())
	assert.NoError(t, ListBooksRequest{Page: 7, Limit: 100}.Validate())

	assert.Error(t, ListBooksRequest{Page: 0, Limit: 10}.Validate())
	assert.Error(t, ListBooksRequest{Page: -2, Limit: 10}.Validate())
	assert.Error(t, ListBooksRequest{Page: 1, Limit: 0}.Validate())
	assert.Error(t, ListBooksRequest{Page: 1, Limit: 101}.Validate())
}

func TestNewBook_AvailableDerivedFromQuantity(t *testing.T) {
	book := NewBook(validCreateRequest())

	assert.Equal(t, 3, book.Quantity)
	assert.Equal(t, 3, book.Available)
	assert.True(t, book.IsAvailable())
	assert.NoError(t, book.Validate())
}

func TestBookValidate(t *testing.T) {
	book := NewBook(validCreateRequest())

	book.Available = book.Quantity + 1
	assert.ErrorIs(t, book.Validate(), ErrAvailableExceedsQuantity)

	book.Available = -1
	assert.ErrorIs(t, book.Validate(), ErrNegativeCount)
}

func TestUpdateBookRequestApplyTo(t *testing.T) {
	t.Run("partial update keeps other fields", func(t *testing.T) {
		book := NewBook(validCreateRequest())
		title := "Clean Architecture"

		err := UpdateBookRequest{Title: &title}.ApplyTo(book)

		require.NoError(t, err)
		assert.Equal(t, "Clean Architecture", book.Title)
		assert.Equal(t, "David Thomas", book.Author)
		assert.Equal(t, 3, book.Quantity)
	})

	t.Run("effective values re-checked", func(t *testing.T) {
		// available stays 3 while quantity drops to 2.
		book := NewBook(validCreateRequest())
		quantity := 2

		err := UpdateBookRequest{Quantity: &quantity}.ApplyTo(book)
		assert.ErrorIs(t, err, ErrAvailableExceedsQuantity)
	})

	t.Run("quantity and available updated together", func(t *testing.T) {
		book := NewBook(validCreateRequest())
		quantity, available := 5, 4

		err := UpdateBookRequest{Quantity: &quantity, Available: &available}.ApplyTo(book)

		require.NoError(t, err)
		assert.Equal(t, 5, book.Quantity)
		assert.Equal(t, 4, book.Available)
	})
}
