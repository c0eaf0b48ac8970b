package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/form"
	"bookshelf/internal/http-api/mapper"
	"bookshelf/internal/http-api/models"
	"bookshelf/internal/http-api/repository"
	"bookshelf/internal/http-api/validation"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SaveResult is a stored book plus any advisory warnings raised while saving it.
type SaveResult struct {
	Book     *models.Book
	Warnings validation.FieldErrors
}

type BookService interface {
	List(ctx context.Context, filter dto.BookFilter) ([]models.Book, int64, dto.BookFilter, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, in dto.BookInput) (*SaveResult, error)
	Update(ctx context.Context, id int64, in dto.BookInput) (*SaveResult, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	store     repository.CatalogueStore
	genres    GenreService
	validator *validation.Validator
}

func NewBookService(store repository.CatalogueStore, genres GenreService, v *validation.Validator) BookService {
	if v == nil {
		v = validation.New(nil)
	}
	return &bookService{store: store, genres: genres, validator: v}
}

// List checks and normalises filter, then returns the requested page, the
// total match count and the filter actually applied.
func (s *bookService) List(ctx context.Context, filter dto.BookFilter) ([]models.Book, int64, dto.BookFilter, error) {
	var fe validation.FieldErrors
	fe.Check(filter.Status == "" || filter.Status.Valid(), "status", "unknown status")
	fe.Check(filter.GenreID >= 0, "genre_id", "genre_id must be positive")
	fe.Check(repository.ValidSort(filter.SortBy), "sort", "sort must be one of title, -title, created, -created")
	fe.Check(filter.Page >= 0, "page", "page must be positive")
	if size := cmp.Or(filter.PageSize, DefaultPageSize); size > 0 {
		// page*size must fit in an int for the row offset
		fe.Check(filter.Page <= math.MaxInt/size, "page", "page is out of range")
	}
	fe.Check(filter.PageSize >= 0 && filter.PageSize <= MaxPageSize, "page_size",
		fmt.Sprintf("page_size must be between 1 and %d", MaxPageSize))
	if fe.Len() > 0 {
		return nil, 0, filter, apperrors.Validation(fe)
	}

	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = DefaultPageSize
	}
	list, total, err := s.store.FindAllBooks(ctx, filter)
	return list, total, filter, err
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	return s.store.FindBookByID(ctx, id)
}

// Create validates in as a complete record. Nothing is written, genre
// included, unless validation passes.
func (s *bookService) Create(ctx context.Context, in dto.BookInput) (*SaveResult, error) {
	report := s.validator.ValidateCreate(in)
	if !report.Valid() {
		return nil, report.Err()
	}
	if err := s.checkGenreID(ctx, in); err != nil {
		return nil, err
	}
	in, err := s.resolveGenreName(ctx, in)
	if err != nil {
		return nil, err
	}

	b, err := s.store.CreateBook(ctx, mapper.ToStorage(in))
	if err != nil {
		return nil, err
	}
	return &SaveResult{Book: b, Warnings: report.Warnings}, nil
}

// Update applies the present fields of in to book id. Validation sees the
// stored record with in overlaid; only the submitted fields are written.
func (s *bookService) Update(ctx context.Context, id int64, in dto.BookInput) (*SaveResult, error) {
	existing, err := s.store.FindBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := mapper.Merge(mapper.FromStorage(*existing), in)
	report := s.validator.ValidateUpdate(merged, in)
	if !report.Valid() {
		return nil, report.Err()
	}
	if err := s.checkGenreID(ctx, in); err != nil {
		return nil, err
	}
	in, err = s.resolveGenreName(ctx, in)
	if err != nil {
		return nil, err
	}

	b, err := s.store.UpdateBook(ctx, id, mapper.ToStorage(in))
	if err != nil {
		return nil, err
	}
	return &SaveResult{Book: b, Warnings: report.Warnings}, nil
}

func (s *bookService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteBook(ctx, id)
}

// checkGenreID reports a submitted genre id that names no genre as a
// validation problem on the genreId field.
func (s *bookService) checkGenreID(ctx context.Context, in dto.BookInput) error {
	id, ok := in.GenreID.Get()
	if !ok {
		return nil
	}
	_, err := s.genres.GetByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		var fe validation.FieldErrors
		fe.Add(form.KeyGenreID, fmt.Sprintf("genre %d does not exist", id))
		return apperrors.Validation(fe)
	}
	return err
}

// resolveGenreName turns a submitted genre name into a genre id, creating
// the genre if needed. An explicit genre id takes precedence.
func (s *bookService) resolveGenreName(ctx context.Context, in dto.BookInput) (dto.BookInput, error) {
	if _, ok := in.GenreID.Get(); ok {
		return in, nil
	}
	name, ok := in.GenreName.Get()
	if !ok {
		return in, nil
	}
	g, err := s.genres.Upsert(ctx, name)
	if err != nil {
		return in, err
	}
	in.GenreID = dto.Set(g.ID)
	return in, nil
}
