package dto

import (
	"math"
	"time"

	"bookshelf/internal/http-api/models"
)

// BookInput is a coerced book submission. Names follow the form vocabulary
// (totalPages, coverUrl, personalNotes); the mapper translates them for storage.
type BookInput struct {
	Title         Field[string]
	Author        Field[string]
	GenreID       Field[int64]
	GenreName     Field[string]
	Year          Field[int]
	TotalPages    Field[int]
	CurrentPage   Field[int]
	Rating        Field[float64]
	Status        Field[models.ReadingStatus]
	Synopsis      Field[string]
	CoverURL      Field[string]
	ISBN          Field[string]
	PersonalNotes Field[string]

	// NoRating records the "no rating" checkbox. Rating is already null when
	// set; the flag only silences the missing-rating advisory.
	NoRating bool
}

// BookFilter narrows and orders the book list for GET /api/books.
type BookFilter struct {
	Status   models.ReadingStatus
	GenreID  int64
	Query    string
	SortBy   string
	Page     int
	PageSize int
}

// Offset returns the row offset for the page, saturating at math.MaxInt.
func (f BookFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// BookResponse is the display projection. Storage names (pages, cover, notes)
// reappear here on purpose.
type BookResponse struct {
	ID          int64                `json:"id"`
	Title       string               `json:"title"`
	Author      string               `json:"author"`
	GenreID     *int64               `json:"genreId"`
	Genre       string               `json:"genre"`
	Year        *int                 `json:"year"`
	Pages       *int                 `json:"pages"`
	CurrentPage *int                 `json:"currentPage"`
	Rating      *float64             `json:"rating"`
	Status      models.ReadingStatus `json:"status"`
	Synopsis    *string              `json:"synopsis"`
	Cover       *string              `json:"cover"`
	ISBN        *string              `json:"isbn"`
	Notes       *string              `json:"notes"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// BookSaveResponse is returned by create and update.
type BookSaveResponse struct {
	Book     BookResponse `json:"book"`
	Warnings any          `json:"warnings,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination computes the page count for total rows.
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

type BookListResponse struct {
	Data       []BookResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// GenreInput is the body of POST and PUT /api/genres. The name is trimmed by
// the genre service before it reaches the store.
type GenreInput struct {
	Name string `json:"name" form:"name" binding:"required"`
}

// GenreResponse is one entry of GET /api/genres; books show the same name
// under "genre".
type GenreResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
