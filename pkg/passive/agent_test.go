package passive

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/subdig/subdig/pkg/subscraping"
)

// fakeSource is a minimal one-shot adapter double used to exercise the
// fan-out runner's merge behavior without touching the network.
type fakeSource struct {
	name string
	host string
	done bool
}

func (f *fakeSource) Settings() subscraping.Settings {
	return subscraping.Settings{Name: f.name, MaxRounds: 1}
}

func (f *fakeSource) NextQuery(map[string]struct{}) (string, bool) {
	if f.done {
		return "", false
	}
	f.done = true
	return f.host, true
}

func (f *fakeSource) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader(query))}, nil
}

func (f *fakeSource) Extract(body string) map[string]struct{} {
	if body == "" {
		return map[string]struct{}{}
	}
	return map[string]struct{}{body: {}}
}

func (f *fakeSource) Delay() time.Duration { return 0 }

func TestAgentMergesAcrossSources(t *testing.T) {
	agent := &Agent{
		sources: []subscraping.Source{
			&fakeSource{name: "fake-a", host: "a.example.com"},
			&fakeSource{name: "fake-b", host: "b.example.com"},
		},
		session: nil,
	}

	merged, stats := agent.Run(context.Background())

	assert.Equal(t, map[string]struct{}{
		"a.example.com": {},
		"b.example.com": {},
	}, merged)
	assert.Len(t, stats, 2)
	assert.Equal(t, 1, stats["fake-a"].Results)
	assert.Equal(t, 1, stats["fake-b"].Results)
}

func TestAgentWaitsForEverySourceEvenIfOneFindsNothing(t *testing.T) {
	agent := &Agent{
		sources: []subscraping.Source{
			&fakeSource{name: "fake-a", host: "a.example.com"},
			&fakeSource{name: "fake-empty", host: ""},
		},
		session: nil,
	}

	merged, stats := agent.Run(context.Background())

	assert.Len(t, merged, 1)
	assert.Contains(t, merged, "a.example.com")
	assert.Len(t, stats, 2)
}
