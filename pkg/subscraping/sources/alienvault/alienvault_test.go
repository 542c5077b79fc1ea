package alienvault

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFiltersOffDomain(t *testing.T) {
	s := New("ex.com")
	body := `{"passive_dns":[{"hostname":"foo.ex.com"},{"hostname":"unrelated.other.com"}],"count":2}`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"foo.ex.com": {}}, got)
}

func TestExtractKeepsBareDomain(t *testing.T) {
	s := New("ex.com")
	body := `{"passive_dns":[{"hostname":"ex.com"}],"count":1}`

	got := s.Extract(body)

	assert.Equal(t, map[string]struct{}{"ex.com": {}}, got)
}

func TestExtractMalformedJSONYieldsEmptySet(t *testing.T) {
	s := New("ex.com")
	assert.Empty(t, s.Extract("{not json"))
}

func TestNextQueryStopsOnlyAfterSuccess(t *testing.T) {
	s := New("ex.com")

	query, ok := s.NextQuery(map[string]struct{}{})
	assert.True(t, ok)
	assert.Equal(t, "ex.com", query)

	// Still unanswered: a failed or not-yet-attempted round must not
	// terminate the source, or a single transient failure would end the
	// run with an empty set and no retry.
	_, ok = s.NextQuery(map[string]struct{}{})
	assert.True(t, ok)

	s.done = true
	_, ok = s.NextQuery(map[string]struct{}{})
	assert.False(t, ok)
}
