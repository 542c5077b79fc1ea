// Package subscraping defines the contract every passive data source adapter
// implements, and the handful of shared types the Enumerator and the
// fan-out runner pass around.
package subscraping

import (
	"context"
	"net/http"
	"time"
)

// ResultType distinguishes a discovered hostname from a transient failure
// surfaced for operator visibility.
type ResultType int

const (
	Subdomain ResultType = iota
	Error
)

// DefaultUserAgent is the browser UA string adapters without a special
// requirement identify themselves with.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"

// Result is emitted on a source's channel as soon as it happens; it is never
// returned from a function call, so a slow source can't hold up a fast one.
type Result struct {
	Source string
	Type   ResultType
	Value  string
	Error  error
}

// Statistics summarizes one Enumerator run for the -stats CLI flag.
type Statistics struct {
	Rounds    int
	Retries   int
	Results   int
	Errors    int
	TimeTaken time.Duration
}

// Settings is a source's immutable descriptor.
type Settings struct {
	Name      string
	BaseURL   string
	UserAgent string
	// MaxRounds bounds the number of request/extract rounds the Enumerator
	// will drive this source through, regardless of progress.
	MaxRounds int
}

// Source is the four-operation contract every adapter implements. An
// instance is owned exclusively by the Enumerator that drives it; any
// cursor or one-shot state an adapter keeps (VirusTotal's cursor, CrtSh's
// once flag) is mutated only from inside that Enumerator's goroutine.
type Source interface {
	// Settings returns the immutable descriptor. Pure.
	Settings() Settings

	// NextQuery returns the next query payload given the subdomains found
	// so far. The second return value is false to signal natural
	// end-of-stream, which terminates the Enumerator without a request.
	NextQuery(found map[string]struct{}) (query string, ok bool)

	// Search performs one HTTP round-trip for the given 0-based round
	// index. Adapters translate page into whatever wire offset or cursor
	// their upstream expects.
	Search(ctx context.Context, sess *Session, query string, page int) (*http.Response, error)

	// Extract parses a response body into a set of candidate hostnames.
	// Parse failures must be swallowed and reported as an empty set, never
	// propagated as an error.
	Extract(body string) map[string]struct{}

	// Delay is the cooperative sleep between rounds.
	Delay() time.Duration
}
