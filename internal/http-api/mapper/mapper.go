// Package mapper is the one place where book field names are translated
// between the form vocabulary, the storage columns and the display shape.
package mapper

import (
	"strings"

	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/form"
	"bookshelf/internal/http-api/models"
)

// NoGenre is shown for books without a genre.
const NoGenre = "No genre"

// Columns maps form field names to storage column names. Fields not listed
// here (genre, noRating) are never written as columns.
var Columns = map[string]string{
	form.KeyTitle:         models.ColTitle,
	form.KeyAuthor:        models.ColAuthor,
	form.KeyGenreID:       models.ColGenreID,
	form.KeyYear:          models.ColYear,
	form.KeyTotalPages:    models.ColPages,
	form.KeyCurrentPage:   models.ColCurrentPage,
	form.KeyRating:        models.ColRating,
	form.KeyStatus:        models.ColStatus,
	form.KeySynopsis:      models.ColSynopsis,
	form.KeyCoverURL:      models.ColCover,
	form.KeyISBN:          models.ColISBN,
	form.KeyPersonalNotes: models.ColNotes,
}

// ToStorage renames every present field to its column. Undefined fields are
// dropped so a partial update leaves them alone; null fields clear the column.
func ToStorage(in dto.BookInput) models.BookPatch {
	p := make(models.BookPatch)
	if v, ok := in.Title.Get(); ok {
		p[Columns[form.KeyTitle]] = strings.TrimSpace(v)
	}
	if v, ok := in.Author.Get(); ok {
		p[Columns[form.KeyAuthor]] = strings.TrimSpace(v)
	}
	if v, ok := in.Status.Get(); ok {
		p[Columns[form.KeyStatus]] = string(v)
	}
	put(p, form.KeyGenreID, in.GenreID)
	put(p, form.KeyYear, in.Year)
	put(p, form.KeyTotalPages, in.TotalPages)
	put(p, form.KeyCurrentPage, in.CurrentPage)
	put(p, form.KeyRating, in.Rating)
	put(p, form.KeySynopsis, in.Synopsis)
	put(p, form.KeyCoverURL, in.CoverURL)
	put(p, form.KeyISBN, in.ISBN)
	put(p, form.KeyPersonalNotes, in.PersonalNotes)
	return p
}

func put[T any](p models.BookPatch, key string, f dto.Field[T]) {
	if !f.Present {
		return
	}
	if v, ok := f.Get(); ok {
		p[Columns[key]] = v
		return
	}
	p[Columns[key]] = nil
}

// FromStorage lifts a stored book into a fully present BookInput.
func FromStorage(b models.Book) dto.BookInput {
	return dto.BookInput{
		Title:         dto.Set(b.Title),
		Author:        dto.Set(b.Author),
		GenreID:       dto.FieldOf(b.GenreID),
		Year:          dto.FieldOf(b.Year),
		TotalPages:    dto.FieldOf(b.Pages),
		CurrentPage:   dto.FieldOf(b.CurrentPage),
		Rating:        dto.FieldOf(b.Rating),
		Status:        dto.Set(b.Status),
		Synopsis:      dto.FieldOf(b.Synopsis),
		CoverURL:      dto.FieldOf(b.Cover),
		ISBN:          dto.FieldOf(b.ISBN),
		PersonalNotes: dto.FieldOf(b.Notes),
	}
}

// Merge overlays the present fields of patch on base. A genre name in patch
// replaces the stored genre id.
func Merge(base, patch dto.BookInput) dto.BookInput {
	out := dto.BookInput{
		Title:         dto.Overlay(base.Title, patch.Title),
		Author:        dto.Overlay(base.Author, patch.Author),
		GenreID:       dto.Overlay(base.GenreID, patch.GenreID),
		GenreName:     dto.Overlay(base.GenreName, patch.GenreName),
		Year:          dto.Overlay(base.Year, patch.Year),
		TotalPages:    dto.Overlay(base.TotalPages, patch.TotalPages),
		CurrentPage:   dto.Overlay(base.CurrentPage, patch.CurrentPage),
		Rating:        dto.Overlay(base.Rating, patch.Rating),
		Status:        dto.Overlay(base.Status, patch.Status),
		Synopsis:      dto.Overlay(base.Synopsis, patch.Synopsis),
		CoverURL:      dto.Overlay(base.CoverURL, patch.CoverURL),
		ISBN:          dto.Overlay(base.ISBN, patch.ISBN),
		PersonalNotes: dto.Overlay(base.PersonalNotes, patch.PersonalNotes),
		NoRating:      patch.NoRating,
	}
	if patch.GenreName.Present && !patch.GenreID.Present {
		out.GenreID = dto.Field[int64]{}
	}
	return out
}

// ToDisplay projects a stored book for readers. The genre name comes from the
// preloaded association.
func ToDisplay(b models.Book) dto.BookResponse {
	genre := NoGenre
	if b.GenreID != nil && b.Genre != nil && b.Genre.ID == *b.GenreID {
		genre = b.Genre.Name
	}
	return dto.BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		GenreID:     b.GenreID,
		Genre:       genre,
		Year:        b.Year,
		Pages:       b.Pages,
		CurrentPage: b.CurrentPage,
		Rating:      b.Rating,
		Status:      b.Status,
		Synopsis:    b.Synopsis,
		Cover:       b.Cover,
		ISBN:        b.ISBN,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToDisplayList projects every book.
func ToDisplayList(books []models.Book) []dto.BookResponse {
	out := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, ToDisplay(b))
	}
	return out
}

// GenresToDisplay projects stored genres in the order given.
func GenresToDisplay(genres []models.Genre) []dto.GenreResponse {
	out := make([]dto.GenreResponse, 0, len(genres))
	for _, g := range genres {
		out = append(out, GenreToDisplay(g))
	}
	return out
}

func GenreToDisplay(g models.Genre) dto.GenreResponse {
	return dto.GenreResponse{ID: g.ID, Name: g.Name}
}
