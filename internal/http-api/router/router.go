// Package router assembles the gin engine for the catalogue API.
package router

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/http-api/handler"
	"bookshelf/internal/http-api/middleware"
	"bookshelf/internal/http-api/repository"
	"bookshelf/internal/http-api/service"
)

type Deps struct {
	Store   repository.CatalogueStore
	Books   service.BookService
	Genres  service.GenreService
	Log     *slog.Logger
	Limiter *middleware.RateLimiter // nil disables rate limiting
	Timeout time.Duration
}

func New(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	if d.Limiter != nil {
		r.Use(d.Limiter.Handler())
	}

	r.GET("/check-conn", handler.CheckConn(d.Store, log))

	api := r.Group("/api")
	handler.NewBookHandler(d.Books, log, d.Timeout).RegisterRoutes(api.Group("/books"))
	handler.NewGenreHandler(d.Genres, log, d.Timeout).RegisterRoutes(api.Group("/genres"))
	return r
}
