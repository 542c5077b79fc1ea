package passive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllTagsIsTheClosedNineSourceSet(t *testing.T) {
	want := []string{
		"alienvault", "baidu", "bing", "crtsh", "dnsdumpster",
		"google", "hackertarget", "virustotal", "yahoo",
	}

	assert.ElementsMatch(t, want, AllTags())
}

func TestIsValidTagIsCaseInsensitive(t *testing.T) {
	assert.True(t, IsValidTag("Google"))
	assert.True(t, IsValidTag("CRTSH"))
	assert.False(t, IsValidTag("shodan"))
}

func TestNewEmptyTagsReturnsEverySource(t *testing.T) {
	sources := New("example.com", nil)
	assert.Len(t, sources, len(AllTags()))
}

func TestNewRestrictsToSelectedTags(t *testing.T) {
	sources := New("example.com", []string{"google", "bing"})

	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Settings().Name)
	}

	assert.ElementsMatch(t, []string{"google", "bing"}, names)
}

func TestNewSkipsUnknownTags(t *testing.T) {
	sources := New("example.com", []string{"google", "not-a-real-source"})
	assert.Len(t, sources, 1)
}
