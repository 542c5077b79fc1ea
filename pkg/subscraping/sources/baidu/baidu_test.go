package baidu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextQuery(t *testing.T) {
	s := New("example.com")
	query, ok := s.NextQuery(map[string]struct{}{"app.example.com": {}})
	assert.True(t, ok)
	assert.Equal(t, "site:example.com -site:www.example.com -site:app.example.com", query)
}

func TestExtract(t *testing.T) {
	s := New("example.com")
	body := `<span class="c-color-gray" aria-hidden="true">app.example.com/</span>`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"app.example.com": {}}, got)
}

func TestExtractEmptyBody(t *testing.T) {
	s := New("example.com")
	assert.Empty(t, s.Extract(""))
}

func TestDelayIsOneSecond(t *testing.T) {
	s := New("example.com")
	assert.Equal(t, int64(1e9), s.Delay().Nanoseconds())
}
