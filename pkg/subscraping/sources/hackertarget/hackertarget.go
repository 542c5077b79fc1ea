// Package hackertarget implements the HackerTarget hostsearch adapter.
package hackertarget

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "hackertarget"
	baseURL    = "https://api.hackertarget.com/hostsearch/"
	maxRounds  = 1
)

// Source is the HackerTarget hostsearch adapter. The upstream endpoint
// returns a flat CSV body (one "host,ip" pair per line) for the whole
// domain in a single call.
type Source struct {
	domain string
	done   bool
}

// New builds a HackerTarget adapter for domain.
func New(domain string) *Source {
	return &Source{domain: domain}
}

func (s *Source) Settings() subscraping.Settings {
	return subscraping.Settings{
		Name:      sourceName,
		BaseURL:   baseURL,
		MaxRounds: maxRounds,
	}
}

func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	if s.done {
		return "", false
	}
	return s.domain, true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("q", query)
	resp, err := sess.Get(ctx, baseURL, q, nil)
	if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.done = true
	}
	return resp, err
}

// Extract splits the CSV body on newlines and takes the hostname field
// ahead of the first comma on each line.
func (s *Source) Extract(body string) map[string]struct{} {
	out := make(map[string]struct{})

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		host, _, found := strings.Cut(line, ",")
		if !found {
			continue
		}
		host = strings.ToLower(strings.TrimSpace(host))
		if host != "" {
			out[host] = struct{}{}
		}
	}
	return out
}

func (s *Source) Delay() time.Duration {
	return 0
}
