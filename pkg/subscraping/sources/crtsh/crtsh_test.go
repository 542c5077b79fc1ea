package crtsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractNewlineJoinedNameValues(t *testing.T) {
	s := New("ex.com")
	body := `[{"name_value":"a.ex.com\nb.ex.com"},{"name_value":"a.ex.com"}]`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"a.ex.com": {}, "b.ex.com": {}}, got)
}

func TestExtractStripsWildcardPrefix(t *testing.T) {
	s := New("ex.com")
	body := `[{"name_value":"*.wild.ex.com"}]`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"wild.ex.com": {}}, got)
}

func TestExtractMalformedJSONYieldsEmptySet(t *testing.T) {
	s := New("ex.com")
	assert.Empty(t, s.Extract("not json"))
}

func TestExtractEmptyBody(t *testing.T) {
	s := New("ex.com")
	assert.Empty(t, s.Extract(""))
}

func TestNextQueryStopsAfterOnce(t *testing.T) {
	s := New("ex.com")

	query, ok := s.NextQuery(map[string]struct{}{})
	assert.True(t, ok)
	assert.Equal(t, "ex.com", query)

	s.once = true
	_, ok = s.NextQuery(map[string]struct{}{})
	assert.False(t, ok)
}
