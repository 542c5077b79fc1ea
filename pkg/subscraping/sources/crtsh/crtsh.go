// Package crtsh implements the crt.sh certificate-transparency adapter.
package crtsh

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "crtsh"
	baseURL    = "https://crt.sh/json"
	userAgent  = subscraping.DefaultUserAgent
	maxRounds  = 1
)

type entry struct {
	NameValue string `json:"name_value"`
}

// Source is the crt.sh adapter. It has exactly one round: crt.sh returns
// every matching certificate in a single response, so there is no
// pagination to drive.
type Source struct {
	domain string

	// once is set once a 2xx response has been observed, independent of
	// whether extraction found anything. NextQuery uses it to signal
	// end-of-stream after the single round completes, mirroring the
	// reference implementation's stop() behavior rather than relying
	// solely on MaxRounds.
	once bool
}

// New builds a crt.sh adapter for domain.
func New(domain string) *Source {
	return &Source{domain: domain}
}

func (s *Source) Settings() subscraping.Settings {
	return subscraping.Settings{
		Name:      sourceName,
		BaseURL:   baseURL,
		UserAgent: userAgent,
		MaxRounds: maxRounds,
	}
}

func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	if s.once {
		return "", false
	}
	return s.domain, true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("q", query)

	headers := http.Header{"User-Agent": []string{userAgent}}
	resp, err := sess.Get(ctx, baseURL, q, headers)
	if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.once = true
	}
	return resp, err
}

// Extract parses the JSON array of certificate entries and splits each
// name_value field on newlines, since a single certificate can cover
// multiple SANs joined that way.
func (s *Source) Extract(body string) map[string]struct{} {
	out := make(map[string]struct{})

	var entries []entry
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(body), &entries); err != nil {
		return out
	}

	for _, e := range entries {
		for _, name := range strings.Split(e.NameValue, "\n") {
			name = strings.ToLower(strings.TrimSpace(name))
			name = strings.TrimPrefix(name, "*.")
			if name != "" {
				out[name] = struct{}{}
			}
		}
	}
	return out
}

func (s *Source) Delay() time.Duration {
	return 0
}
