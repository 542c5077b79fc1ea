// Package baidu implements the Baidu search-engine adapter.
package baidu

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
	sourceName = "baidu"
	baseURL    = "https://www.baidu.com/s"
	userAgent  = subscraping.DefaultUserAgent
	perPage    = 10
	maxRounds  = 20
)

// Source is the Baidu search-engine adapter.
type Source struct {
	domain string

	reOnce sync.Once
	re     *regexp.Regexp
}

// New builds a Baidu adapter for domain.
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
//	site:example.com -site:www.example.com -site:app.example.com
func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "site:%s -site:www.%s", s.domain, s.domain)
	for host := range found {
		sb.WriteString(" -site:")
		sb.WriteString(host)
	}
	return sb.String(), true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("wq", query)
	q.Set("oq", query)
	q.Set("pn", strconv.Itoa(page*perPage))
	q.Set("ie", "utf-8")

	headers := http.Header{"User-Agent": []string{userAgent}}
	return sess.Get(ctx, baseURL, q, headers)
}

// Extract pulls subdomains from Baidu's result markup, which renders the
// visible host inside a <span class="c-color-gray"> element.
func (s *Source) Extract(body string) map[string]struct{} {
	s.reOnce.Do(func() {
		domain := regexp.QuoteMeta(s.domain)
		pattern := fmt.Sprintf(
			`<span class="c-color-gray" aria-hidden="true">(?P<subdomain>.*?\.%s)\/<\/span>`,
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
	return 1 * time.Second
}
