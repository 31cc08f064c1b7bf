package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared/response"
	"library-backend/pkg/cache"
)

const (
	listCachePattern = "books:list:*"
	listCacheTTL     = 10 * time.Minute
	detailCacheTTL   = 10 * time.Minute
)

// BookService implements ServiceInterface.
type BookService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
}

func NewService(repo repository.RepositoryInterface, cache cache.Cache) ServiceInterface {
	return &BookService{
		repo:  repo,
		cache: cache,
	}
}

func detailCacheKey(id string) string {
	return "books:detail:" + id
}

func listCacheKey(req model.ListBooksRequest) string {
	return fmt.Sprintf("books:list:%s:%t:%d:%d", req.Search, req.AvailableOnly, req.Page, req.Limit)
}

// ListBooks returns a page of the catalog, served from cache when possible.
func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.Book, *response.Pagination, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	type listCache struct {
		Books      []model.Book        `json:"books"`
		Pagination response.Pagination `json:"pagination"`
	}
	var cached listCache

	cacheKey := listCacheKey(req)
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		log.Printf("[BookService] Cache error for key %s: %v", cacheKey, err)
	}
	if found {
		return cached.Books, &cached.Pagination, nil
	}

	filter := &model.BookFilter{
		Search:        req.Search,
		AvailableOnly: req.AvailableOnly,
		Offset:        (req.Page - 1) * req.Limit,
		Limit:         req.Limit,
	}

	books, totalCount, err := s.repo.ListBooks(ctx, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("list books error: %w", err)
	}

	pagination := response.NewPagination(req.Page, req.Limit, totalCount)

	if err := s.cache.Set(ctx, cacheKey, listCache{Books: books, Pagination: pagination}, listCacheTTL); err != nil {
		log.Printf("[BookService] Cache SET error for key %s: %v", cacheKey, err)
	}

	return books, &pagination, nil
}

func (s *BookService) GetBook(ctx context.Context, id string) (*model.Book, error) {
	var cached model.Book
	cacheKey := detailCacheKey(id)
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return &cached, nil
	}

	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, book, detailCacheTTL); err != nil {
		log.Printf("[BookService] Failed to cache book detail: %v", err)
	}

	return book, nil
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	exists, err := s.repo.CheckISBNExists(ctx, req.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrISBNAlreadyExists
	}

	book := model.NewBook(req)
	if err := book.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	s.invalidateListCache(ctx)

	return book, nil
}

// UpdateBook applies a partial update. The available/quantity invariant is
// re-validated against the effective post-update values inside ApplyTo.
func (s *BookService) UpdateBook(ctx context.Context, id string, req model.UpdateBookRequest) (*model.Book, error) {
	book, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// ISBN change re-checks uniqueness against other books.
	if req.ISBN != nil && *req.ISBN != book.ISBN {
		exists, err := s.repo.CheckISBNExistsExcept(ctx, *req.ISBN, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrISBNAlreadyExists
		}
	}

	if err := req.ApplyTo(book); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateBook(ctx, book); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	if err := s.cache.Delete(ctx, detailCacheKey(id)); err != nil {
		log.Printf("[BookService] Failed to invalidate detail cache: %v", err)
	}

	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id string) error {
	if _, err := s.repo.GetBookByID(ctx, id); err != nil {
		return err
	}

	hasActive, err := s.repo.CheckBookHasActiveBorrows(ctx, id)
	if err != nil {
		return err
	}
	if hasActive {
		return model.ErrBookHasActiveBorrows
	}

	if err := s.repo.DeleteBook(ctx, id); err != nil {
		return err
	}

	s.invalidateListCache(ctx)
	if err := s.cache.Delete(ctx, detailCacheKey(id)); err != nil {
		log.Printf("[BookService] Failed to invalidate detail cache: %v", err)
	}

	return nil
}

func (s *BookService) invalidateListCache(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, listCachePattern); err != nil {
		log.Printf("[BookService] Failed to invalidate list cache: %v", err)
	}
}
