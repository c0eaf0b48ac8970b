package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/models"
)

// MemoryStore is an in-process CatalogueStore. It backs DATABASE_URL=memory
// and the service tests. Deleting a genre clears it from its books, matching
// the ON DELETE SET NULL constraint of the postgres schema, and enforces the
// chk_books_* row checks.
type MemoryStore struct {
	mu          sync.RWMutex
	books       map[int64]models.Book
	genres      map[int64]models.Genre
	nextBookID  int64
	nextGenreID int64
	now         func() time.Time
}

var _ CatalogueStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		books:  make(map[int64]models.Book),
		genres: make(map[int64]models.Genre),
		now:    time.Now,
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) FindAllBooks(_ context.Context, filter dto.BookFilter) ([]models.Book, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(filter.Query))
	list := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.GenreID > 0 && (b.GenreID == nil || *b.GenreID != filter.GenreID) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(b.Title), q) && !strings.Contains(strings.ToLower(b.Author), q) {
			continue
		}
		list = append(list, s.withGenre(b))
	}
	slices.SortStableFunc(list, compareFor(filter.SortBy))

	total := int64(len(list))
	if filter.PageSize > 0 {
		start := min(filter.Offset(), len(list))
		end := start + min(filter.PageSize, len(list)-start)
		list = list[start:end]
	}
	return list, total, nil
}

func compareFor(sort string) func(a, b models.Book) int {
	byID := func(a, b models.Book) int { return cmp.Compare(a.ID, b.ID) }
	switch sort {
	case SortTitleDesc:
		return func(a, b models.Book) int {
			if c := strings.Compare(b.Title, a.Title); c != 0 {
				return c
			}
			return byID(b, a)
		}
	case SortCreated:
		return func(a, b models.Book) int {
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
			return byID(a, b)
		}
	case SortCreatedDesc:
		return func(a, b models.Book) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return byID(b, a)
		}
	default:
		return func(a, b models.Book) int {
			if c := strings.Compare(a.Title, b.Title); c != 0 {
				return c
			}
			return byID(a, b)
		}
	}
}

func (s *MemoryStore) FindBookByID(_ context.Context, id int64) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return nil, apperrors.NotFound("book %d not found", id)
	}
	out := s.withGenre(b)
	return &out, nil
}

func (s *MemoryStore) CreateBook(_ context.Context, patch models.BookPatch) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var b models.Book
	patch.ApplyTo(&b)
	if err := s.checkGenre(b.GenreID); err != nil {
		return nil, err
	}
	if err := b.Violation(); err != nil {
		return nil, apperrors.Store("create book", err)
	}
	s.nextBookID++
	b.ID = s.nextBookID
	b.CreatedAt = s.now()
	b.UpdatedAt = b.CreatedAt
	s.books[b.ID] = b

	out := s.withGenre(b)
	return &out, nil
}

func (s *MemoryStore) UpdateBook(_ context.Context, id int64, patch models.BookPatch) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return nil, apperrors.NotFound("book %d not found", id)
	}
	if len(patch) > 0 {
		patch.ApplyTo(&b)
		if err := s.checkGenre(b.GenreID); err != nil {
			return nil, err
		}
		if b.Violation() != nil {
			return nil, apperrors.Conflict("book %d was changed concurrently; reload and retry", id)
		}
		b.UpdatedAt = s.now()
		s.books[id] = b
	}

	out := s.withGenre(b)
	return &out, nil
}

func (s *MemoryStore) DeleteBook(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return apperrors.NotFound("book %d not found", id)
	}
	delete(s.books, id)
	return nil
}

func (s *MemoryStore) FindAllGenres(context.Context) ([]models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Genre, 0, len(s.genres))
	for _, g := range s.genres {
		list = append(list, g)
	}
	slices.SortFunc(list, func(a, b models.Genre) int { return strings.Compare(a.Name, b.Name) })
	return list, nil
}

func (s *MemoryStore) FindGenreByID(_ context.Context, id int64) (*models.Genre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.genres[id]
	if !ok {
		return nil, apperrors.NotFound("genre %d not found", id)
	}
	return &g, nil
}

func (s *MemoryStore) CreateGenre(_ context.Context, name string) (*models.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if _, ok := s.genreByName(name); ok {
		return nil, apperrors.Conflict("genre %q already exists", name)
	}
	g := s.insertGenre(name)
	return &g, nil
}

func (s *MemoryStore) UpsertGenreByName(_ context.Context, name string) (*models.Genre, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if g, ok := s.genreByName(name); ok {
		return &g, nil
	}
	g := s.insertGenre(name)
	return &g, nil
}

func (s *MemoryStore) DeleteGenreByName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.genreByName(strings.TrimSpace(name))
	if !ok {
		return apperrors.NotFound("genre %q not found", name)
	}
	delete(s.genres, g.ID)
	for id, b := range s.books {
		if b.GenreID != nil && *b.GenreID == g.ID {
			b.GenreID = nil
			s.books[id] = b
		}
	}
	return nil
}

// caller holds s.mu
func (s *MemoryStore) genreByName(name string) (models.Genre, bool) {
	for _, g := range s.genres {
		if g.Name == name {
			return g, true
		}
	}
	return models.Genre{}, false
}

// caller holds s.mu
func (s *MemoryStore) insertGenre(name string) models.Genre {
	s.nextGenreID++
	g := models.Genre{ID: s.nextGenreID, Name: name}
	s.genres[g.ID] = g
	return g
}

// checkGenre mirrors the foreign key on books.genre_id. Caller holds s.mu.
func (s *MemoryStore) checkGenre(id *int64) error {
	if id == nil {
		return nil
	}
	if _, ok := s.genres[*id]; !ok {
		return apperrors.Store("write book", fmt.Errorf("foreign key violation: genre %d does not exist", *id))
	}
	return nil
}

// withGenre returns a copy of b with the genre association resolved.
// Caller holds s.mu.
func (s *MemoryStore) withGenre(b models.Book) models.Book {
	b.Genre = nil
	if b.GenreID != nil {
		if g, ok := s.genres[*b.GenreID]; ok {
			b.Genre = &g
		}
	}
	return b
}
