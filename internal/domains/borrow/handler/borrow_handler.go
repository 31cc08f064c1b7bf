package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"library-backend/internal/domains/borrow/model"
	"library-backend/internal/domains/borrow/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
	"library-backend/internal/shared/utils"
)

// Handler serves the borrowing endpoints.
type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// Borrow - POST /api/borrow
func (h *Handler) Borrow(c *gin.Context) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.BorrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		response.BadRequest(c, "Invalid book ID")
		return
	}

	borrow, err := h.service.Borrow(c.Request.Context(), userID, role, bookID)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusCreated, "Book borrowed successfully", gin.H{"borrow": borrow})
}

// Return - POST /api/borrow/return
func (h *Handler) Return(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req model.ReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	borrowID, err := uuid.Parse(req.BorrowID)
	if err != nil {
		response.BadRequest(c, "Invalid borrow ID")
		return
	}

	borrow, err := h.service.Return(c.Request.Context(), userID, borrowID)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book returned successfully", gin.H{"borrow": borrow})
}

// Renew - PATCH /api/borrow/renew/:borrowId
func (h *Handler) Renew(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	borrowIDStr := c.Param("borrowId")
	if !utils.IsValidUUID(borrowIDStr) {
		response.BadRequest(c, "Invalid borrow ID")
		return
	}
	borrowID := uuid.MustParse(borrowIDStr)

	borrow, err := h.service.Renew(c.Request.Context(), userID, borrowID)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "Book renewed successfully", gin.H{"borrow": borrow})
}

// MyBooks - GET /api/borrow/my-books
func (h *Handler) MyBooks(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	req := model.MyBooksRequest{
		Status: c.DefaultQuery("status", model.StatusAll),
	}
	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	borrows, err := h.service.MyBooks(c.Request.Context(), userID, req.Status)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"borrows": borrows})
}

// ListAll - GET /api/borrow/all (librarian only)
func (h *Handler) ListAll(c *gin.Context) {
	req := model.ListBorrowsRequest{
		Status: c.DefaultQuery("status", model.StatusAll),
		UserID: c.Query("userId"),
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

	if err := req.Validate(); err != nil {
		response.ValidationError(c, err)
		return
	}

	borrows, pagination, err := h.service.ListBorrows(c.Request.Context(), req)
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"borrows":    borrows,
		"pagination": pagination,
	})
}

// Overdue - GET /api/borrow/overdue (librarian only)
func (h *Handler) Overdue(c *gin.Context) {
	borrows, err := h.service.Overdue(c.Request.Context())
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{"overdueBorrows": borrows})
}

// Stats - GET /api/borrow/stats (librarian only)
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if model.HandleBorrowError(c, err) {
		return
	}

	response.Success(c, http.StatusOK, "", stats)
}
