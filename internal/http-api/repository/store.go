package repository

import (
	"context"

	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/models"
)

// CatalogueStore is the record store behind the catalogue. Every call is
// atomic on its own. Implementations return apperrors values: NotFound for
// missing ids or names, Conflict for duplicate genre names on CreateGenre,
// and a store error for anything else.
type CatalogueStore interface {
	FindAllBooks(ctx context.Context, filter dto.BookFilter) ([]models.Book, int64, error)
	FindBookByID(ctx context.Context, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, patch models.BookPatch) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, patch models.BookPatch) (*models.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	FindAllGenres(ctx context.Context) ([]models.Genre, error)
	FindGenreByID(ctx context.Context, id int64) (*models.Genre, error)
	CreateGenre(ctx context.Context, name string) (*models.Genre, error)
	UpsertGenreByName(ctx context.Context, name string) (*models.Genre, error)
	DeleteGenreByName(ctx context.Context, name string) error

	Ping(ctx context.Context) error
}

// Sort keys accepted by FindAllBooks. The default is SortTitle.
const (
	SortTitle       = "title"
	SortTitleDesc   = "-title"
	SortCreated     = "created"
	SortCreatedDesc = "-created"
)

// ValidSort reports whether s is an accepted sort key (empty means default).
func ValidSort(s string) bool {
	switch s {
	case "", SortTitle, SortTitleDesc, SortCreated, SortCreatedDesc:
		return true
	}
	return false
}
