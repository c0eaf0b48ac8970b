package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/form"
	"bookshelf/internal/http-api/mapper"
	"bookshelf/internal/http-api/models"
	"bookshelf/internal/http-api/service"
	"bookshelf/internal/http-api/validation"
)

const defaultTimeout = 5 * time.Second

type BookHandler struct {
	svc     service.BookService
	log     *slog.Logger
	timeout time.Duration
}

// NewBookHandler bounds every request by timeout; zero means five seconds.
func NewBookHandler(svc service.BookService, log *slog.Logger, timeout time.Duration) *BookHandler {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &BookHandler{svc: svc, log: log, timeout: timeout}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", h.Create)
	rg.PATCH("/:id", h.Update)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// List handles GET /api/books
func (h *BookHandler) List(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list, total, applied, err := h.svc.List(ctx, filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookListResponse{
		Data:       mapper.ToDisplayList(list),
		Pagination: dto.NewPagination(applied.Page, applied.PageSize, total),
	})
}

func parseFilter(c *gin.Context) (dto.BookFilter, error) {
	var fe validation.FieldErrors
	atoi := func(key string) int {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			return 0
		}
		n, err := strconv.Atoi(raw)
		fe.Check(err == nil, key, key+" must be a number")
		return n
	}

	filter := dto.BookFilter{
		Status:   models.ReadingStatus(strings.ToUpper(strings.TrimSpace(c.Query("status")))),
		GenreID:  int64(atoi("genre_id")),
		Query:    c.Query("q"),
		SortBy:   c.Query("sort"),
		Page:     atoi("page"),
		PageSize: atoi("page_size"),
	}
	if fe.Len() > 0 {
		return filter, apperrors.Validation(fe)
	}
	return filter, nil
}

// Get handles GET /api/books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToDisplay(*b))
}

// Create handles POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	values, err := readSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.svc.Create(ctx, form.Coerce(values))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, saveResponse(res))
}

// Update handles PATCH and PUT /api/books/:id. Both are partial: fields not
// submitted are left as stored.
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	values, err := readSubmission(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.svc.Update(ctx, id, form.Coerce(values))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, saveResponse(res))
}

// Delete handles DELETE /api/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func saveResponse(res *service.SaveResult) dto.BookSaveResponse {
	out := dto.BookSaveResponse{Book: mapper.ToDisplay(*res.Book)}
	if res.Warnings.Len() > 0 {
		out.Warnings = res.Warnings
	}
	return out
}
