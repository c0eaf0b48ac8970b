package models

import (
	"fmt"
	"time"
)

// Storage column names of the books table.
const (
	ColTitle       = "title"
	ColAuthor      = "author"
	ColGenreID     = "genre_id"
	ColYear        = "year"
	ColPages       = "pages"
	ColCurrentPage = "current_page"
	ColRating      = "rating"
	ColStatus      = "status"
	ColSynopsis    = "synopsis"
	ColCover       = "cover"
	ColISBN        = "isbn"
	ColNotes       = "notes"
	ColUpdatedAt   = "updated_at"
)

type Book struct {
	ID          int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string        `json:"title" gorm:"not null;index"`
	Author      string        `json:"author" gorm:"not null"`
	GenreID     *int64        `json:"genre_id,omitempty" gorm:"index"`
	Year        *int          `json:"year,omitempty" gorm:"check:chk_books_year,year >= 1000"`
	Pages       *int          `json:"pages,omitempty" gorm:"check:chk_books_pages,pages > 0"`
	CurrentPage *int          `json:"current_page,omitempty" gorm:"check:chk_books_current_page,current_page >= 0 AND current_page <= pages"`
	Rating      *float64      `json:"rating,omitempty" gorm:"type:decimal(3,2);check:chk_books_rating,rating BETWEEN 1 AND 5"`
	Status      ReadingStatus `json:"status" gorm:"type:varchar(20);not null;index"`
	Synopsis    *string       `json:"synopsis,omitempty" gorm:"type:text"`
	Cover       *string       `json:"cover,omitempty"`
	ISBN        *string       `json:"isbn,omitempty" gorm:"column:isbn;size:20"`
	Notes       *string       `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`

	// association
	Genre *Genre `json:"genre,omitempty" gorm:"foreignKey:GenreID;constraint:OnDelete:SET NULL;"`
}

func (Book) TableName() string {
	return "books"
}

// Violation names the first row check b fails, or returns nil. It evaluates
// the same predicates as the chk_books_* constraints; a NULL operand passes.
func (b Book) Violation() error {
	switch {
	case b.Year != nil && *b.Year < 1000:
		return fmt.Errorf("chk_books_year: year %d", *b.Year)
	case b.Pages != nil && *b.Pages <= 0:
		return fmt.Errorf("chk_books_pages: pages %d", *b.Pages)
	case b.CurrentPage != nil && *b.CurrentPage < 0:
		return fmt.Errorf("chk_books_current_page: current_page %d", *b.CurrentPage)
	case b.CurrentPage != nil && b.Pages != nil && *b.CurrentPage > *b.Pages:
		return fmt.Errorf("chk_books_current_page: current_page %d > pages %d", *b.CurrentPage, *b.Pages)
	case b.Rating != nil && (*b.Rating < 1 || *b.Rating > 5):
		return fmt.Errorf("chk_books_rating: rating %g", *b.Rating)
	}
	return nil
}

// BookPatch is a set of column assignments keyed by storage column name.
// A nil value clears the column; a missing key leaves it untouched.
type BookPatch map[string]any

// Has reports whether the patch assigns col.
func (p BookPatch) Has(col string) bool {
	_, ok := p[col]
	return ok
}

// ApplyTo copies every assignment onto b. Unknown columns are ignored.
func (p BookPatch) ApplyTo(b *Book) {
	for col, v := range p {
		switch col {
		case ColTitle:
			b.Title, _ = v.(string)
		case ColAuthor:
			b.Author, _ = v.(string)
		case ColGenreID:
			b.GenreID = ptrOf[int64](v)
			b.Genre = nil
		case ColYear:
			b.Year = ptrOf[int](v)
		case ColPages:
			b.Pages = ptrOf[int](v)
		case ColCurrentPage:
			b.CurrentPage = ptrOf[int](v)
		case ColRating:
			b.Rating = ptrOf[float64](v)
		case ColStatus:
			s, _ := v.(string)
			b.Status = ReadingStatus(s)
		case ColSynopsis:
			b.Synopsis = ptrOf[string](v)
		case ColCover:
			b.Cover = ptrOf[string](v)
		case ColISBN:
			b.ISBN = ptrOf[string](v)
		case ColNotes:
			b.Notes = ptrOf[string](v)
		}
	}
}

func ptrOf[T any](v any) *T {
	if t, ok := v.(T); ok {
		return &t
	}
	return nil
}
