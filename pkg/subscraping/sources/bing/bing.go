// Package bing implements the Bing search-engine adapter.
package bing

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
	sourceName = "bing"
	baseURL    = "https://www.bing.com/search"
	userAgent  = "Mozilla/5.0 (Windows NT 6.3; WOW64; Trident/7.0; Touch; rv:11.0) like Gecko"
	perPage    = 10
	maxRounds  = 30
)

// Source is the Bing search-engine adapter.
type Source struct {
	domain string

	reOnce sync.Once
	re     *regexp.Regexp
}

// New builds a Bing adapter for domain.
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
//	domain:example.com -www.example.com -app.example.com
func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "domain:%s -www.%s", s.domain, s.domain)
	for host := range found {
		sb.WriteString(" -")
		sb.WriteString(host)
	}
	return sb.String(), true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("count", strconv.Itoa(perPage))
	q.Set("offset", strconv.Itoa(page*perPage))

	headers := http.Header{
		"User-Agent":        []string{userAgent},
		"X-MSEdge-ClientID": []string{"sublist3r-rs-bing"},
		"Pragma":            []string{"no-cache"},
	}
	return sess.Get(ctx, baseURL, q, headers)
}

// Extract pulls subdomains from Bing's result markup, which cites the
// visible URL inside a <cite> element.
func (s *Source) Extract(body string) map[string]struct{} {
	s.reOnce.Do(func() {
		domain := regexp.QuoteMeta(s.domain)
		pattern := fmt.Sprintf(`<cite>https:\/\/(?P<subdomain>.*?\.%s).*?<\/cite>`, domain)
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
