package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Field limits enforced on catalog writes.
const (
	MaxTitleLen       = 200
	MaxAuthorLen      = 100
	MaxDescriptionLen = 1000
	MaxGenreLen       = 50
	MaxCoverURLLen    = 1000
	MinPublishedYear  = 1000
)

var (
	isbnSeparators = regexp.MustCompile(`[- ]`)
	isbn10Pattern  = regexp.MustCompile(`^[0-9]{9}[0-9X]$`)
	isbn13Pattern  = regexp.MustCompile(`^97[89][0-9]{10}$`)
)

// IsValidISBN accepts ISBN-10 and ISBN-13, with or without separators.
func IsValidISBN(isbn string) bool {
	normalized := isbnSeparators.ReplaceAllString(isbn, "")
	return isbn10Pattern.MatchString(normalized) || isbn13Pattern.MatchString(normalized)
}

// Book represents a catalog entry.
// The available counter is only mutated through the borrowing engine
// and catalog updates; it never exceeds quantity.
type Book struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Title         string    `json:"title" db:"title"`
	Author        string    `json:"author" db:"author"`
	ISBN          string    `json:"isbn" db:"isbn"`
	Quantity      int       `json:"quantity" db:"quantity"`
	Available     int       `json:"available" db:"available"`
	Description   *string   `json:"description,omitempty" db:"description"`
	Genre         *string   `json:"genre,omitempty" db:"genre"`
	CoverURL      *string   `json:"coverUrl,omitempty" db:"cover_url"`
	PublishedYear *int      `json:"publishedYear,omitempty" db:"published_year"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// NewBook builds a Book from a create request.
// All copies start available: available is derived from quantity here,
// not defaulted lazily at the storage layer.
func NewBook(req CreateBookRequest) *Book {
	now := time.Now()
	return &Book{
		ID:            uuid.New(),
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		Quantity:      req.Quantity,
		Available:     req.Quantity,
		Description:   req.Description,
		Genre:         req.Genre,
		CoverURL:      req.CoverURL,
		PublishedYear: req.PublishedYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// IsAvailable reports whether at least one copy can be borrowed.
func (b *Book) IsAvailable() bool {
	return b.Available > 0
}

// Validate checks the counter invariant on the entity itself.
func (b *Book) Validate() error {
	if b.Quantity < 0 || b.Available < 0 {
		return ErrNegativeCount
	}
	if b.Available > b.Quantity {
		return ErrAvailableExceedsQuantity
	}
	return nil
}
