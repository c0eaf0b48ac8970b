package form_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/http-api/dto"
	"bookshelf/internal/http-api/form"
	"bookshelf/internal/http-api/models"
)

func TestCoerce_FullSubmission(t *testing.T) {
	in := form.Coerce(form.Values{
		"title":         "Dune",
		"author":        "Frank Herbert",
		"genreId":       "2",
		"year":          "1965",
		"totalPages":    "688",
		"currentPage":   "12",
		"rating":        "4.5",
		"status":        "reading",
		"synopsis":      "  Spice.  ",
		"coverUrl":      "https://example.org/dune.jpg",
		"isbn":          "9780441013593",
		"personalNotes": "reread",
	})

	assert.Equal(t, "Dune", in.Title.Or(""))
	assert.Equal(t, int64(2), in.GenreID.Or(0))
	assert.Equal(t, 1965, in.Year.Or(0))
	assert.Equal(t, 688, in.TotalPages.Or(0))
	assert.Equal(t, 12, in.CurrentPage.Or(0))
	assert.Equal(t, 4.5, in.Rating.Or(0))
	assert.Equal(t, models.StatusReading, in.Status.Or(""))
	assert.Equal(t, "Spice.", in.Synopsis.Or(""))
	assert.Equal(t, "reread", in.PersonalNotes.Or(""))
	assert.False(t, in.NoRating)
}

func TestCoerce_AbsentFieldsStayUndefined(t *testing.T) {
	in := form.Coerce(form.Values{"synopsis": ""})

	assert.False(t, in.Title.Present)
	assert.False(t, in.Year.Present)
	assert.False(t, in.Status.Present)
	assert.True(t, in.Synopsis.IsNull())
}

func TestCoerce_EmptyAndMalformedNumbersBecomeNull(t *testing.T) {
	in := form.Coerce(form.Values{
		"year":        "",
		"totalPages":  "lots",
		"currentPage": " 7 ",
		"rating":      "4,5",
		"genreId":     "abc",
	})

	assert.True(t, in.Year.IsNull())
	assert.True(t, in.TotalPages.IsNull())
	assert.Equal(t, 7, in.CurrentPage.Or(-1))
	assert.True(t, in.Rating.IsNull())
	assert.True(t, in.GenreID.IsNull())
}

func TestCoerce_RequiredStringsKeepRawText(t *testing.T) {
	in := form.Coerce(form.Values{"title": "   ", "author": ""})

	require.True(t, in.Title.Present)
	require.NotNil(t, in.Title.Value)
	assert.Equal(t, "   ", *in.Title.Value)
	assert.Equal(t, "", in.Author.Or("x"))
}

func TestCoerce_WhitespaceOptionalStringIsNull(t *testing.T) {
	in := form.Coerce(form.Values{"notes": "x", "personalNotes": "  \t", "isbn": " "})

	assert.True(t, in.PersonalNotes.IsNull())
	assert.True(t, in.ISBN.IsNull())
	assert.False(t, in.CoverURL.Present)
}

func TestCoerce_UnknownStatusIsNull(t *testing.T) {
	in := form.Coerce(form.Values{"status": "QUERO_LER"})
	assert.True(t, in.Status.IsNull())

	in = form.Coerce(form.Values{"status": " want_to_read "})
	assert.Equal(t, models.StatusWantToRead, in.Status.Or(""))
}

func TestCoerce_NoRatingClearsRating(t *testing.T) {
	in := form.Coerce(form.Values{"rating": "5", "noRating": "on"})

	assert.True(t, in.NoRating)
	assert.True(t, in.Rating.IsNull())

	in = form.Coerce(form.Values{"rating": "5", "noRating": "false"})
	assert.False(t, in.NoRating)
	assert.Equal(t, 5.0, in.Rating.Or(0))
}

func TestFromURLValues_FirstValueWins(t *testing.T) {
	v := form.FromURLValues(url.Values{"title": {"A", "B"}, "isbn": {}})

	assert.Equal(t, "A", v["title"])
	s, ok := v.Lookup("isbn")
	assert.True(t, ok)
	assert.Equal(t, "", s)
}

func TestFromJSON_RendersScalars(t *testing.T) {
	v, err := form.FromJSON(map[string]any{
		"title":    "Dune",
		"year":     float64(1965),
		"rating":   4.5,
		"noRating": true,
		"synopsis": nil,
	})
	require.NoError(t, err)

	assert.Equal(t, "1965", v["year"])
	assert.Equal(t, "4.5", v["rating"])
	assert.Equal(t, "true", v["noRating"])
	assert.Equal(t, "", v["synopsis"])

	in := form.Coerce(v)
	assert.Equal(t, dto.Set(1965), in.Year)
	assert.True(t, in.Synopsis.IsNull())
}

func TestFromJSON_KeepsLargeIntegersExact(t *testing.T) {
	var body map[string]any
	dec := json.NewDecoder(strings.NewReader(`{"genreId": 9007199254740993, "rating": 4.25}`))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&body))

	v, err := form.FromJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", v["genreId"])

	in := form.Coerce(v)
	assert.Equal(t, dto.Set(int64(9007199254740993)), in.GenreID)
	assert.Equal(t, dto.Set(4.25), in.Rating)
}

func TestFromJSON_RejectsNestedValues(t *testing.T) {
	for _, nested := range []any{[]any{"a"}, map[string]any{"x": 1}} {
		_, err := form.FromJSON(map[string]any{"title": "Dune", "tags": nested})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"tags"`)
	}
}
