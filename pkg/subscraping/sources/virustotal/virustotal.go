// Package virustotal implements the VirusTotal UI-domains adapter.
package virustotal

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "virustotal"
	baseURL    = "https://www.virustotal.com/ui/domains"
	maxRounds  = 10
)

type response struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
	Meta struct {
		Cursor *string `json:"cursor"`
	} `json:"meta"`
}

// Source is the VirusTotal UI-domains adapter. It drives the search by a
// server-issued opaque cursor rather than a page number: the base
// endpoint is queried first, and every subsequent round appends the
// cursor returned in the previous response's meta block. Exhaustion is
// signaled by a response with no cursor.
type Source struct {
	domain string

	mu      sync.Mutex
	cursor  string
	fetched bool
	done    bool
}

// New builds a VirusTotal adapter for domain.
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

// NextQuery returns the bare domain on the first call. Subsequent calls
// keep returning it (the actual cursor is threaded through adapter state
// and applied in Search) until a round's response carried no cursor, at
// which point it signals end-of-stream.
func (s *Source) NextQuery(found map[string]struct{}) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fetched && s.done {
		return "", false
	}
	s.fetched = true
	return s.domain, true
}

func (s *Source) Search(ctx context.Context, sess *subscraping.Session, query string, page int) (*http.Response, error) {
	reqURL := fmt.Sprintf("%s/%s/relationships/subdomains?limit=10", baseURL, query)

	s.mu.Lock()
	cursor := s.cursor
	s.mu.Unlock()
	if cursor != "" {
		reqURL += "&cursor=" + cursor
	}

	headers := http.Header{
		"X-Tool":                 []string{"vt-ui-main"},
		"X-App-Version":          []string{"v1x356x0"},
		"X-VT-Anti-Abuse-Header": []string{computeAntiAbuseHeader()},
	}
	return sess.Get(ctx, reqURL, nil, headers)
}

// Extract parses the data array into a hostname set and advances the
// cursor for the next round, stopping naturally (leaving the cursor
// empty) once the response carries none.
func (s *Source) Extract(body string) map[string]struct{} {
	out := make(map[string]struct{})

	var resp response
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(body), &resp); err != nil {
		return out
	}

	for _, d := range resp.Data {
		host := strings.ToLower(strings.TrimSpace(d.ID))
		if host != "" {
			out[host] = struct{}{}
		}
	}

	s.mu.Lock()
	if resp.Meta.Cursor != nil {
		s.cursor = *resp.Meta.Cursor
		s.done = false
	} else {
		s.cursor = ""
		s.done = true
	}
	s.mu.Unlock()

	return out
}

func (s *Source) Delay() time.Duration {
	return 1 * time.Second
}

// computeAntiAbuseHeader builds VirusTotal's lightweight anti-scraping
// header: a pseudo-random magnitude glued to a fixed marker and the
// current unix timestamp, base64-encoded as a whole.
func computeAntiAbuseHeader() string {
	e := 1e10 * (1 + math.Mod(rand.Float64(), 5e4))

	var magnitude string
	if e < 50 {
		magnitude = "-1"
	} else {
		magnitude = fmt.Sprintf("%d", int64(math.Round(e)))
	}

	raw := fmt.Sprintf("%s-ZG9udCBiZSBldmls-%d", magnitude, time.Now().Unix())
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
