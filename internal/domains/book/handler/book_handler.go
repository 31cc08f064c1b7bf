package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// Handler serves the book catalog endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListBooks - GET /api/books
// Query params: search, available, page, limit
func (h *Handler) ListBooks(c *gin.Context) {
	req := model.ListBooksRequest{
		Search: c.Query("search"),
		Page:   1,
		Limit:  10,
	}

	if pageStr := c.Query("page"); pageStr != "" {
		p, err := strconv.Atoi(pageStr)
		if err != nil {
			response.ValidationFailed(c, []response.FieldError{{Field: "page", Message: "must be an integer"}})
			return
		}
		req.Page = p
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil {
			response.ValidationFailed(c, []response.FieldError{{Field: "limit", Message: "must be an integer"}})
			return
		}
		req.Limit = l
	}
	if c.Query("available") == "true" {
		req.AvailableOnly = true
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	books, pagination, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		response.InternalServerError(c, "Server error while fetching books")
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"books":      books,
		"pagination": pagination,
	})
}

// GetBook - GET /api/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "", book)
}

// CreateBook - POST /api/books (librarian only)
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// UpdateBook - PUT /api/books/:id (librarian only)
func (h *Handler) UpdateBook(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	var req model.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook - DELETE /api/books/:id (librarian only)
func (h *Handler) DeleteBook(c *gin.Context) {
	id := c.Param("id")
	if !utils.IsValidUUID(id) {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	err := h.service.DeleteBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}
