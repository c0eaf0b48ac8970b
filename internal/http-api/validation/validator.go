// Package validation checks coerced book input before anything is written.
//
// All rules run on every call so a form can show every problem at once.
// Blocking problems land in Report.Errors; advice that should not stop a save
// lands in Report.Warnings.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"bookshelf/internal/apperrors"
	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/form"
	"bookshelf/internal/http-api/models"
)

const (
	MinYear   = 1000
	MinRating = 1
	MaxRating = 5
)

// Report is the outcome of validating one submission.
type Report struct {
	Errors   FieldErrors
	Warnings FieldErrors
}

func (r Report) Valid() bool {
	return r.Errors.Len() == 0
}

// Err returns a validation error carrying the field messages, or nil.
func (r Report) Err() error {
	if r.Valid() {
		return nil
	}
	return apperrors.Validation(r.Errors)
}

// Validator applies the book rules. The clock decides the latest valid year.
type Validator struct {
	validate *validator.Validate
	now      func() time.Time
}

// New returns a Validator using now for the current year; nil means time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{validate: validator.New(), now: now}
}

// ValidateCreate checks a complete submission. A genre, by id or by name, is required.
func (v *Validator) ValidateCreate(in dto.BookInput) Report {
	return v.check(in, true)
}

// ValidateUpdate checks the merged record (stored values overlaid with the
// submitted ones). The genre is only checked when patch touches it.
func (v *Validator) ValidateUpdate(merged, patch dto.BookInput) Report {
	return v.check(merged, patch.GenreID.Present || patch.GenreName.Present)
}

func (v *Validator) check(in dto.BookInput, requireGenre bool) Report {
	var r Report
	currentYear := v.now().Year()

	title, _ := in.Title.Get()
	r.Errors.Check(v.ok(strings.TrimSpace(title), "required"), form.KeyTitle, "title required")

	author, _ := in.Author.Get()
	r.Errors.Check(v.ok(strings.TrimSpace(author), "required"), form.KeyAuthor, "author required")

	if requireGenre {
		id, hasID := in.GenreID.Get()
		name, _ := in.GenreName.Get()
		switch {
		case hasID:
			r.Errors.Check(v.ok(id, "gt=0"), form.KeyGenreID, "genre required")
		case strings.TrimSpace(name) == "":
			r.Errors.Add(form.KeyGenreID, "genre required")
		}
	}

	if year, ok := in.Year.Get(); ok {
		r.Errors.Check(v.ok(year, fmt.Sprintf("gte=%d,lte=%d", MinYear, currentYear)),
			form.KeyYear, fmt.Sprintf("year must be between %d and %d", MinYear, currentYear))
	}

	total, hasTotal := in.TotalPages.Get()
	if hasTotal {
		r.Errors.Check(v.ok(total, "gt=0"), form.KeyTotalPages, "total pages must be greater than 0")
	}

	if current, ok := in.CurrentPage.Get(); ok {
		r.Errors.Check(v.ok(current, "gte=0"), form.KeyCurrentPage, "current page must not be negative")
		if hasTotal {
			r.Errors.Check(current <= total, form.KeyCurrentPage,
				fmt.Sprintf("%d exceeds total pages %d", current, total))
		}
	}

	rating, hasRating := in.Rating.Get()
	if hasRating {
		r.Errors.Check(v.ok(rating, fmt.Sprintf("gte=%d,lte=%d", MinRating, MaxRating)),
			form.KeyRating, fmt.Sprintf("rating must be between %d and %d", MinRating, MaxRating))
	}

	status, _ := in.Status.Get()
	r.Errors.Check(v.ok(string(status), "required,oneof="+strings.Join(models.StatusNames(), " ")),
		form.KeyStatus, "status required")

	if status == models.StatusRead && !hasRating && !in.NoRating {
		r.Warnings.Add(form.KeyRating, "rating recommended for books marked as read")
	}
	return r
}

func (v *Validator) ok(value any, tag string) bool {
	return v.validate.Var(value, tag) == nil
}
