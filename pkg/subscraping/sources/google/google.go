// Package google implements the Google search-engine adapter.
package google

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "google"
	baseURL    = "https://www.google.com/search"
	// Google's public /search endpoint requires JavaScript for modern
	// browser UAs; pure-text browser UAs are exempt and return raw HTML.
	userAgent = "Lynx/2.8.6rel.5 libwww-FM/2.14"
	perPage   = 20
	maxRounds = 20
)

// Source is the Google search-engine adapter.
type Source struct {
	domain string

	reOnce sync.Once
	re     *regexp.Regexp
}

// New builds a Google adapter for domain.
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

// NextQuery builds a dork that restricts results to the domain, excludes
// the bare www label, and excludes every subdomain already found.
//
//	site:example.com -www.example.com -app.example.com
func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "site:%s -www.%s", s.domain, s.domain)
	for host := range found {
		sb.WriteString(" -")
		sb.WriteString(host)
	}
	return sb.String(), true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("hl", "en-US")
	q.Set("num", strconv.Itoa(perPage))
	q.Set("start", strconv.Itoa(page*perPage))
	q.Set("filter", "0")

	headers := http.Header{"User-Agent": []string{userAgent}}
	return sess.Get(ctx, baseURL, q, headers)
}

// Extract pulls subdomains out of the result page's HTML, which wraps each
// hit in a `<span>...&#8250;` breadcrumb.
func (s *Source) Extract(body string) map[string]struct{} {
	s.reOnce.Do(func() {
		domain := regexp.QuoteMeta(s.domain)
		pattern := fmt.Sprintf(
			`<span.*?>(?P<subdomain>[[:alnum:]\-.]*?\.%s)\s&#8250;.*?</span>`,
			domain,
		)
		s.re = regexp.MustCompile(pattern)
	})

	out := make(map[string]struct{})
	idx := s.re.SubexpIndex("subdomain")
	for _, m := range s.re.FindAllStringSubmatch(body, -1) {
		out[strings.ToLower(m[idx])] = struct{}{}
	}
	return out
}

func (s *Source) Delay() time.Duration {
	return 500 * time.Millisecond
}
