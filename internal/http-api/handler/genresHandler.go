package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/mapper"
	"bookshelf/internal/http-api/models"
	"bookshelf/internal/http-api/service"
	"bookshelf/internal/http-api/validation"
)

type GenreHandler struct {
	svc     service.GenreService
	log     *slog.Logger
	timeout time.Duration
}

func NewGenreHandler(svc service.GenreService, log *slog.Logger, timeout time.Duration) *GenreHandler {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &GenreHandler{svc: svc, log: log, timeout: timeout}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.PUT("", h.Upsert)
	rg.DELETE("/:name", h.Delete)
}

func (h *GenreHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	list, err := h.svc.GetAll(ctx)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapper.GenresToDisplay(list))
}

func (h *GenreHandler) Create(c *gin.Context) {
	h.write(c, http.StatusCreated, h.svc.Create)
}

// Upsert handles PUT /api/genres, returning the existing genre when the name is taken.
func (h *GenreHandler) Upsert(c *gin.Context) {
	h.write(c, http.StatusOK, h.svc.Upsert)
}

func (h *GenreHandler) write(c *gin.Context, status int, op func(context.Context, string) (*models.Genre, error)) {
	var in dto.GenreInput
	if err := c.ShouldBind(&in); err != nil {
		var fe validation.FieldErrors
		fe.Add("name", "genre name required")
		respondError(c, h.log, apperrors.Validation(fe))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	g, err := op(ctx, in.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, mapper.GenreToDisplay(*g))
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(ctx, c.Param("name")); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
