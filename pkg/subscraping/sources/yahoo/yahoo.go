// Package yahoo implements the Yahoo search-engine adapter.
package yahoo

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
	sourceName = "yahoo"
	baseURL    = "https://search.yahoo.com/search"
	userAgent  = subscraping.DefaultUserAgent
	perPage    = 7
	maxRounds  = 50

	// subLabel is the common DNS-label fragment: one or more labels,
	// alphanumerics and internal hyphens only, no empty labels.
	subLabel = `[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*`
)

// Source is the Yahoo search-engine adapter.
type Source struct {
	domain string

	reOnce sync.Once
	re     *regexp.Regexp
}

// New builds a Yahoo adapter for domain.
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

// NextQuery builds a dork of the form:
//
//	site:example.com -domain:www.example.com -domain:app.example.com
//
// Every exclusion, unlike Google/Bing, carries the -domain: prefix; this
// is load-bearing and intentionally unbounded (no truncation of the
// exclusion list, even for domains with many already-found subdomains).
func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "site:%s -domain:www.%s", s.domain, s.domain)
	for host := range found {
		sb.WriteString(" -domain:")
		sb.WriteString(host)
	}
	return sb.String(), true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("p", query)
	q.Set("b", strconv.Itoa(page*perPage+1))

	headers := http.Header{"User-Agent": []string{userAgent}}
	return sess.Get(ctx, baseURL, q, headers)
}

// Extract pulls subdomains from Yahoo's result markup.
func (s *Source) Extract(body string) map[string]struct{} {
	s.reOnce.Do(func() {
		domain := regexp.QuoteMeta(s.domain)
		pattern := fmt.Sprintf(`<span>(?P<subdomain>%s\.%s)<\/span>`, subLabel, domain)
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
