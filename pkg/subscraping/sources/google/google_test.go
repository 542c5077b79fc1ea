package google

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextQuery(t *testing.T) {
	tests := []struct {
		name  string
		found map[string]struct{}
		want  string
	}{
		{
			name:  "no prior findings",
			found: map[string]struct{}{},
			want:  "site:example.com -www.example.com",
		},
		{
			name:  "one finding",
			found: map[string]struct{}{"app.example.com": {}},
			want:  "site:example.com -www.example.com -app.example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("example.com")
			query, ok := s.NextQuery(tt.found)
			assert.True(t, ok)
			assert.Equal(t, tt.want, query)
		})
	}
}

func TestNextQueryNeverEndsStream(t *testing.T) {
	s := New("example.com")
	_, ok := s.NextQuery(map[string]struct{}{})
	assert.True(t, ok, "google is a search-engine adapter, it always has a next query")
}

func TestExtract(t *testing.T) {
	s := New("example.com")
	body := `<span class="a">app.example.com &#8250;</span><span>unrelated.other.com &#8250;</span>`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"app.example.com": {}}, got)
}

func TestExtractEmptyBody(t *testing.T) {
	s := New("example.com")
	assert.Empty(t, s.Extract(""))
}

func TestExtractRegexCachedAcrossCalls(t *testing.T) {
	s := New("example.com")
	s.Extract("")
	re := s.re
	s.Extract("")
	assert.Same(t, re, s.re, "the compiled regex must be cached across Extract calls")
}

func TestSettings(t *testing.T) {
	s := New("example.com")
	settings := s.Settings()
	assert.Equal(t, "google", settings.Name)
	assert.Equal(t, maxRounds, settings.MaxRounds)
	assert.Equal(t, userAgent, settings.UserAgent)
}
