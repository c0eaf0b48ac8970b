// Package form turns raw book submissions into typed, nullable values.
//
// Coercion never fails. Empty or malformed numbers become null, blank optional
// strings become null, and unknown statuses become null so that validation can
// report them.
package form

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/models"
)

// Submitted field names.
const (
	KeyTitle         = "title"
	KeyAuthor        = "author"
	KeyGenreID       = "genreId"
	KeyGenre         = "genre"
	KeyYear          = "year"
	KeyTotalPages    = "totalPages"
	KeyCurrentPage   = "currentPage"
	KeyRating        = "rating"
	KeyNoRating      = "noRating"
	KeyStatus        = "status"
	KeySynopsis      = "synopsis"
	KeyCoverURL      = "coverUrl"
	KeyISBN          = "isbn"
	KeyPersonalNotes = "personalNotes"
)

// Values holds raw submitted values. A missing key means the field was not
// submitted at all.
type Values map[string]string

// Lookup returns the raw value and whether it was submitted.
func (v Values) Lookup(key string) (string, bool) {
	s, ok := v[key]
	return s, ok
}

// FromURLValues keeps the first value of every submitted key.
func FromURLValues(uv url.Values) Values {
	out := make(Values, len(uv))
	for k, vs := range uv {
		if len(vs) > 0 {
			out[k] = vs[0]
		} else {
			out[k] = ""
		}
	}
	return out
}

// FromJSON flattens a decoded JSON object. Numbers and booleans are rendered
// back to text and null becomes the empty string. Decode with UseNumber so
// integers above 2^53 keep every digit. Arrays and objects are rejected.
func FromJSON(body map[string]any) (Values, error) {
	out := make(Values, len(body))
	for k, raw := range body {
		switch v := raw.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case float64:
			out[k] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			out[k] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %q: expected a string, number, boolean or null", k)
		}
	}
	return out, nil
}

// Coerce converts raw values into a BookInput.
func Coerce(v Values) dto.BookInput {
	in := dto.BookInput{
		Title:         requiredString(v, KeyTitle),
		Author:        requiredString(v, KeyAuthor),
		GenreID:       int64Field(v, KeyGenreID),
		GenreName:     optionalString(v, KeyGenre),
		Year:          intField(v, KeyYear),
		TotalPages:    intField(v, KeyTotalPages),
		CurrentPage:   intField(v, KeyCurrentPage),
		Rating:        floatField(v, KeyRating),
		Status:        statusField(v, KeyStatus),
		Synopsis:      optionalString(v, KeySynopsis),
		CoverURL:      optionalString(v, KeyCoverURL),
		ISBN:          optionalString(v, KeyISBN),
		PersonalNotes: optionalString(v, KeyPersonalNotes),
	}
	if raw, ok := v.Lookup(KeyNoRating); ok && truthy(raw) {
		in.NoRating = true
		in.Rating = dto.Null[float64]()
	}
	return in
}

// requiredString keeps the raw text so validation can name the empty field.
func requiredString(v Values, key string) dto.Field[string] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[string]{}
	}
	return dto.Set(raw)
}

func optionalString(v Values, key string) dto.Field[string] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[string]{}
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return dto.Null[string]()
	}
	return dto.Set(s)
}

func intField(v Values, key string) dto.Field[int] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[int]{}
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return dto.Null[int]()
	}
	return dto.Set(n)
}

func int64Field(v Values, key string) dto.Field[int64] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[int64]{}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return dto.Null[int64]()
	}
	return dto.Set(n)
}

func floatField(v Values, key string) dto.Field[float64] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[float64]{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return dto.Null[float64]()
	}
	return dto.Set(f)
}

func statusField(v Values, key string) dto.Field[models.ReadingStatus] {
	raw, ok := v.Lookup(key)
	if !ok {
		return dto.Field[models.ReadingStatus]{}
	}
	st, ok := models.ParseReadingStatus(raw)
	if !ok {
		return dto.Null[models.ReadingStatus]()
	}
	return dto.Set(st)
}

// truthy accepts the values browsers and JSON clients send for a checked box.
func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
