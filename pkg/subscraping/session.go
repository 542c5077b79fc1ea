package subscraping

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/projectdiscovery/ratelimit"
	retryablehttp "github.com/projectdiscovery/retryablehttp-go"
)

// defaultHeaders are attached to every outbound request regardless of
// source, mirroring a normal browser's advertised capabilities.
var defaultHeaders = http.Header{
	"Accept":          []string{"text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
	"Accept-Language": []string{"en-US,en;q=0.8"},
	"Accept-Encoding": []string{"gzip"},
}

// Session is the shared, cookie-enabled, gzip-capable HTTP gateway every
// adapter is handed. It is cheap to clone a reference to (it holds only
// pointers) and is internally thread-safe, so one Session backs every
// concurrently running Enumerator in a fan-out.
//
// Retry and backoff belong to the Enumerator (spec §4.2), not the
// transport: the wrapped retryablehttp client's own retry policy is
// disabled here so a single slow source can't double up its own backoff
// schedule on top of the transport's.
type Session struct {
	client      *retryablehttp.Client
	rateLimiter *ratelimit.Limiter
}

// SessionOptions configures the shared gateway.
type SessionOptions struct {
	Timeout   time.Duration
	ProxyURL  string
	RateLimit uint
}

// NewSession builds the gateway. Failure here is the one place this package
// surfaces a fatal error to the caller (spec §7: "HTTP client build
// failure / startup / fatal, surfaced to caller").
func NewSession(opts SessionOptions) (*Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("building cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := &http.Client{Jar: jar, Timeout: timeout}
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy url: %w", err)
		}
		httpClient.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	client := retryablehttp.NewClient(retryablehttp.Options{
		HttpClient: httpClient,
		Timeout:    timeout,
		// RetryMax 0: the Enumerator's own retry/backoff loop is the only
		// retry policy in play.
		RetryMax:     0,
		RetryWaitMin: 0,
		RetryWaitMax: 0,
	})

	var limiter *ratelimit.Limiter
	if opts.RateLimit > 0 {
		limiter = ratelimit.New(context.Background(), opts.RateLimit, time.Second)
	} else {
		limiter = ratelimit.NewUnlimited(context.Background())
	}

	return &Session{client: client, rateLimiter: limiter}, nil
}

// Close releases the rate limiter's background resources.
func (s *Session) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// Get issues a GET request with query merged onto rawURL.
func (s *Session) Get(ctx context.Context, rawURL string, query url.Values, headers http.Header) (*http.Response, error) {
	if len(query) > 0 {
		rawURL = rawURL + "?" + query.Encode()
	}
	return s.do(ctx, http.MethodGet, rawURL, nil, headers)
}

// Post issues a form-encoded POST request.
func (s *Session) Post(ctx context.Context, rawURL string, form url.Values, headers http.Header) (*http.Response, error) {
	if headers == nil {
		headers = http.Header{}
	} else {
		headers = headers.Clone()
	}
	headers.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()), headers)
}

func (s *Session) do(ctx context.Context, method, rawURL string, body io.Reader, headers http.Header) (*http.Response, error) {
	s.rateLimiter.Take()

	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("building %s request to %s: %w", method, rawURL, err)
	}

	for k, v := range defaultHeaders {
		req.Header[k] = v
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	return decodeGzipBody(resp), nil
}

// decodeGzipBody transparently unwraps a gzip-encoded body so adapters
// never need to know the transport negotiated compression.
func decodeGzipBody(resp *http.Response) *http.Response {
	if resp == nil || !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return resp
	}
	reader, err := gzip.NewReader(resp.Body)
	if err != nil {
		// Not actually gzip despite the header; hand back the raw body
		// and let the caller's read fail naturally if it's malformed.
		return resp
	}
	resp.Body = &gzipReadCloser{reader: reader, underlying: resp.Body}
	return resp
}

type gzipReadCloser struct {
	reader     *gzip.Reader
	underlying io.ReadCloser
}

func (g *gzipReadCloser) Read(p []byte) (int, error) { return g.reader.Read(p) }

func (g *gzipReadCloser) Close() error {
	_ = g.reader.Close()
	return g.underlying.Close()
}
