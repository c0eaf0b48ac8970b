package service

import (
	"context"
	"log/slog"
	"strings"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/cache"
	"bookshelf/internal/http-api/models"
	"bookshelf/internal/http-api/repository"
	"bookshelf/internal/http-api/validation"
)

type GenreService interface {
	GetAll(ctx context.Context) ([]models.Genre, error)
	GetByID(ctx context.Context, id int64) (*models.Genre, error)
	Create(ctx context.Context, name string) (*models.Genre, error)
	Upsert(ctx context.Context, name string) (*models.Genre, error)
	Delete(ctx context.Context, name string) error
}

type genreService struct {
	store repository.CatalogueStore
	cache *cache.GenreCache
	log   *slog.Logger
}

// NewGenreService serves the genre list through c when it is enabled.
// A nil cache or logger is allowed.
func NewGenreService(store repository.CatalogueStore, c *cache.GenreCache, log *slog.Logger) GenreService {
	if log == nil {
		log = slog.Default()
	}
	return &genreService{store: store, cache: c, log: log}
}

func (s *genreService) GetAll(ctx context.Context) ([]models.Genre, error) {
	list, hit, err := s.cache.Get(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "genre cache read failed", "error", err)
	}
	if hit {
		return list, nil
	}

	list, err = s.store.FindAllGenres(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, list); err != nil {
		s.log.WarnContext(ctx, "genre cache write failed", "error", err)
	}
	return list, nil
}

func (s *genreService) GetByID(ctx context.Context, id int64) (*models.Genre, error) {
	return s.store.FindGenreByID(ctx, id)
}

func (s *genreService) Create(ctx context.Context, name string) (*models.Genre, error) {
	name, err := genreName(name)
	if err != nil {
		return nil, err
	}
	g, err := s.store.CreateGenre(ctx, name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return g, nil
}

// Upsert returns the genre called name, creating it when absent.
func (s *genreService) Upsert(ctx context.Context, name string) (*models.Genre, error) {
	name, err := genreName(name)
	if err != nil {
		return nil, err
	}
	g, err := s.store.UpsertGenreByName(ctx, name)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return g, nil
}

func (s *genreService) Delete(ctx context.Context, name string) error {
	if err := s.store.DeleteGenreByName(ctx, name); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *genreService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WarnContext(ctx, "genre cache invalidation failed", "error", err)
	}
}

func genreName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		var fe validation.FieldErrors
		fe.Add("name", "genre name required")
		return "", apperrors.Validation(fe)
	}
	return name, nil
}
