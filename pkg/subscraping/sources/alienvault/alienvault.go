// Package alienvault implements the AlienVault OTX passive-DNS adapter.
package alienvault

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	sourceName = "alienvault"
	baseURL    = "https://otx.alienvault.com/api/v1/indicators/domain"
	maxRounds  = 1
)

type passiveDNSResponse struct {
	PassiveDNS []struct {
		Hostname string `json:"hostname"`
	} `json:"passive_dns"`
	Count int `json:"count"`
}

// Source is the AlienVault OTX adapter. Like crt.sh, the upstream API
// returns every known record for a domain in a single response.
type Source struct {
	domain string
	done   bool
}

// New builds an AlienVault adapter for domain.
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
	reqURL := fmt.Sprintf("%s/%s/passive_dns", baseURL, query)
	resp, err := sess.Get(ctx, reqURL, nil, nil)
	if err == nil && resp != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		s.done = true
	}
	return resp, err
}

// Extract parses the passive_dns JSON array and re-filters every
// hostname against the domain suffix: AlienVault's passive DNS index is
// not scoped to the queried domain alone, so off-domain hostnames must
// be dropped explicitly rather than trusted from the response.
func (s *Source) Extract(body string) map[string]struct{} {
	out := make(map[string]struct{})

	var resp passiveDNSResponse
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal([]byte(body), &resp); err != nil {
		return out
	}

	suffix := "." + s.domain
	for _, rec := range resp.PassiveDNS {
		host := strings.ToLower(strings.TrimSpace(rec.Hostname))
		if host == s.domain || strings.HasSuffix(host, suffix) {
			out[host] = struct{}{}
		}
	}
	return out
}

func (s *Source) Delay() time.Duration {
	return 0
}
