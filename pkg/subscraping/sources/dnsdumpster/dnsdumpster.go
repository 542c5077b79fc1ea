// Package dnsdumpster implements the DNSDumpster adapter.
package dnsdumpster

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "dnsdumpster"
	baseURL    = "https://dnsdumpster.com"
	apiURL     = "https://api.dnsdumpster.com/htmld/"
	userAgent  = subscraping.DefaultUserAgent
	maxRounds  = 1
)

var tokenRe = regexp.MustCompile(`hx-headers='\{"Authorization":\s*"(?P<token>[A-Za-z0-9_.\-]+)"\}'`)

// Source is the DNSDumpster adapter. The public site is an htmx front end
// over a separate API host: the page must be fetched first to mint a
// short-lived bearer token before the actual search POST can succeed.
type Source struct {
	domain string
	done   bool

	reOnce sync.Once
	re     *regexp.Regexp
}

// New builds a DNSDumpster adapter for domain.
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
	if s.done {
		return "", false
	}
	return s.domain, true
}

// Search performs the preflight GET, scrapes the authorization token out
// of the landing page's htmx attributes, then POSTs the actual search.
// A missing token is not treated as an error here: it is passed through
// as an empty Authorization header, which upstream answers with 401 and
// the Enumerator's own retry/backoff takes over — done is only set once a
// 2xx response actually comes back, so that 401 (and any other transient
// failure) still retries instead of ending the run with an empty set.
func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	token, err := s.fetchToken(ctx, sess)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("target", query)

	headers := http.Header{
		"Accept":          []string{"text/html"},
		"Authorization":   []string{token},
		"HX-Current-URL":  []string{baseURL},
		"HX-Request":      []string{"true"},
		"HX-Target":       []string{"results"},
		"Origin":          []string{baseURL},
		"Referer":         []string{baseURL},
		"User-Agent":      []string{userAgent},
	}
	resp, err := sess.Post(ctx, apiURL, form, headers)
	if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.done = true
	}
	return resp, err
}

func (s *Source) fetchToken(ctx context.Context, sess *subscraping.Session) (string, error) {
	headers := http.Header{
		"User-Agent": []string{userAgent},
		"Referer":    []string{baseURL},
	}
	resp, err := sess.Get(ctx, baseURL, nil, headers)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	m := tokenRe.FindStringSubmatch(string(body))
	if m == nil {
		return "", nil
	}
	idx := tokenRe.SubexpIndex("token")
	return m[idx], nil
}

// Extract pulls hostnames out of the results fragment's <td> host cells.
func (s *Source) Extract(body string) map[string]struct{} {
	s.reOnce.Do(func() {
		domain := regexp.QuoteMeta(s.domain)
		s.re = regexp.MustCompile(`<td>(?P<subdomain>.*?\.` + domain + `)<\/td>`)
	})

	out := make(map[string]struct{})
	idx := s.re.SubexpIndex("subdomain")
	for _, m := range s.re.FindAllStringSubmatch(body, -1) {
		host := strings.ToLower(strings.TrimSpace(m[idx]))
		if host != "" {
			out[host] = struct{}{}
		}
	}
	return out
}

func (s *Source) Delay() time.Duration {
	return 0
}
