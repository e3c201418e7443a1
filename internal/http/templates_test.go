package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"sports":     "Sports",
		"économie":   "Économie",
		"ñews":       "Ñews",
		"\xffbroken": "\xffbroken",
	}
	for in, want := range tests {
		got := titleCase(in)
		assert.Equal(t, want, got, in)
		if utf8.ValidString(in) {
			assert.True(t, utf8.ValidString(got), in)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "May 1, 2024 10:30 UTC", formatDate(ts))
	assert.Equal(t, "May 1, 2024 10:30 UTC", formatDate(&ts))
	assert.Empty(t, formatDate(time.Time{}))
	assert.Empty(t, formatDate((*time.Time)(nil)))
	assert.Empty(t, formatDate("2024-05-01"))
}

func TestCategoriesHeadingIsValidUTF8(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(httptest.NewRequest(http.MethodGet, "/categories?category=%C3%A9conomie", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, utf8.Valid(rec.Body.Bytes()))
	assert.Contains(t, rec.Body.String(), "Économie news")
	assert.Equal(t, "économie", app.fetcher.calls()[0])
}
