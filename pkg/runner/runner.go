package runner

import (
	"fmt"
	"io"
	"time"

	"github.com/subdig/subdig/pkg/subscraping"
)

func secondsToDuration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// Runner owns the shared HTTP gateway and drives enumeration for every
// domain the CLI was invoked with.
type Runner struct {
	options *Options
	session *subscraping.Session
}

// New builds a Runner, constructing the shared HTTP gateway. A gateway
// build failure is the one startup error this package surfaces fatally
// to the caller.
func New(options *Options) (*Runner, error) {
	session, err := subscraping.NewSession(subscraping.SessionOptions{
		Timeout:   secondsToDuration(options.Timeout),
		ProxyURL:  options.Proxy,
		RateLimit: uint(options.RateLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("building http session: %w", err)
	}

	return &Runner{options: options, session: session}, nil
}

// Close releases the shared gateway's resources and, if -output opened a
// file, flushes and closes it.
func (r *Runner) Close() {
	r.session.Close()
	if closer, ok := r.options.Output.(io.Closer); ok && r.options.OutputFile != "" {
		_ = closer.Close()
	}
}
