package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// validISBN is an ozzo rule for both string and *string ISBN fields.
func validISBN(value interface{}) error {
	var isbn string
	switch v := value.(type) {
	case string:
		isbn = v
	case *string:
		if v == nil {
			return nil
		}
		isbn = *v
	}
	if isbn == "" {
		return nil
	}
	if !IsValidISBN(isbn) {
		return errors.New("must be a valid ISBN")
	}
	return nil
}

// CreateBookRequest is the payload for POST /books.
type CreateBookRequest struct {
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	ISBN          string  `json:"isbn"`
	Quantity      int     `json:"quantity"`
	Description   *string `json:"description"`
	Genre         *string `json:"genre"`
	CoverURL      *string `json:"coverUrl"`
	PublishedYear *int    `json:"publishedYear"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, MaxTitleLen)),
		validation.Field(&r.Author, validation.Required, validation.Length(1, MaxAuthorLen)),
		validation.Field(&r.ISBN, validation.Required, validation.By(validISBN)),
		validation.Field(&r.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLen)),
		validation.Field(&r.Genre, validation.Length(0, MaxGenreLen)),
		validation.Field(&r.CoverURL, validation.Length(0, MaxCoverURLLen)),
		validation.Field(&r.PublishedYear, validation.Min(MinPublishedYear), validation.Max(time.Now().Year())),
	)
}

// UpdateBookRequest is the payload for PUT /books/:id.
// Every field is optional; absent fields keep their current values.
type UpdateBookRequest struct {
	Title         *string `json:"title"`
	Author        *string `json:"author"`
	ISBN          *string `json:"isbn"`
	Quantity      *int    `json:"quantity"`
	Available     *int    `json:"available"`
	Description   *string `json:"description"`
	Genre         *string `json:"genre"`
	CoverURL      *string `json:"coverUrl"`
	PublishedYear *int    `json:"publishedYear"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, MaxTitleLen)),
		validation.Field(&r.Author, validation.NilOrNotEmpty, validation.Length(1, MaxAuthorLen)),
		validation.Field(&r.ISBN, validation.NilOrNotEmpty, validation.By(validISBN)),
		validation.Field(&r.Quantity, validation.Min(0)),
		validation.Field(&r.Available, validation.Min(0)),
		validation.Field(&r.Description, validation.Length(0, MaxDescriptionLen)),
		validation.Field(&r.Genre, validation.Length(0, MaxGenreLen)),
		validation.Field(&r.CoverURL, validation.Length(0, MaxCoverURLLen)),
		validation.Field(&r.PublishedYear, validation.Min(MinPublishedYear), validation.Max(time.Now().Year())),
	)
}

// ApplyTo merges the update onto an existing book and re-checks the
// available/quantity invariant against the effective post-update values.
func (r UpdateBookRequest) ApplyTo(b *Book) error {
	if r.Title != nil {
		b.Title = *r.Title
	}
	if r.Author != nil {
		b.Author = *r.Author
	}
	if r.ISBN != nil {
		b.ISBN = *r.ISBN
	}
	if r.Quantity != nil {
		b.Quantity = *r.Quantity
	}
	if r.Available != nil {
		b.Available = *r.Available
	}
	if r.Description != nil {
		b.Description = r.Description
	}
	if r.Genre != nil {
		b.Genre = r.Genre
	}
	if r.CoverURL != nil {
		b.CoverURL = r.CoverURL
	}
	if r.PublishedYear != nil {
		b.PublishedYear = r.PublishedYear
	}
	b.UpdatedAt = time.Now()

	return b.Validate()
}

// ListBooksRequest carries query parameters for the catalog listing.
type ListBooksRequest struct {
	Search        string `json:"search"`
	AvailableOnly bool   `json:"available"`
	Page          int    `json:"page"`
	Limit         int    `json:"limit"`
}

// Handlers default Page/Limit before validating, so Required only
// trips on zero values coming from the query string.
func (r ListBooksRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Page, validation.Required.Error("must be no less than 1"), validation.Min(1)),
		validation.Field(&r.Limit, validation.Required.Error("must be no less than 1"), validation.Min(1), validation.Max(100)),
	)
}

// BookFilter is the repository-level filter for listing.
type BookFilter struct {
	Search        string
	AvailableOnly bool
	Offset        int
	Limit         int
}
