package hackertarget

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	s := New("example.com")
	body := "app.example.com,1.2.3.4\napi.example.com,5.6.7.8\n"

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{
		"app.example.com": {},
		"api.example.com": {},
	}, got)
}

func TestExtractEmptyBody(t *testing.T) {
	s := New("example.com")
	assert.Empty(t, s.Extract(""))
}

func TestExtractIgnoresMalformedLines(t *testing.T) {
	s := New("example.com")
	got := s.Extract("no-comma-here\n\napp.example.com,1.2.3.4")
	assert.Equal(t, map[string]struct{}{"app.example.com": {}}, got)
}

func TestNextQueryStopsOnlyAfterSuccess(t *testing.T) {
	s := New("example.com")

	query, ok := s.NextQuery(map[string]struct{}{})
	assert.True(t, ok)
	assert.Equal(t, "example.com", query)

	// A failed or unattempted round must not terminate the source; only
	// a 2xx response (set in Search) does.
	_, ok = s.NextQuery(map[string]struct{}{})
	assert.True(t, ok)

	s.done = true
	_, ok = s.NextQuery(map[string]struct{}{})
	assert.False(t, ok)
}
