// Package enumerator implements the per-source enumeration loop: the
// retry/backoff/progress state machine that drives one source adapter
// through a bounded sequence of HTTP requests.
package enumerator

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/subdig/subdig/pkg/subscraping"
)

const (
	// MaxRetries bounds the retries counter across the whole run.
	MaxRetries = 10
	// MaxBackoff is the backoff ceiling, in seconds.
	MaxBackoff = 16
	// DefaultDelay is the conventional cooperative sleep between rounds.
	// The Enumerator does not read it: every source's Delay returns its own
	// value, and only some sources return 500ms.
	DefaultDelay = 500 * time.Millisecond
)

// Enumerator owns the loop state for exactly one source adapter. It is not
// safe to share across goroutines; the fan-out runner gives each selected
// source its own Enumerator.
type Enumerator struct {
	source  subscraping.Source
	session *subscraping.Session

	rounds      int
	page        int
	retries     int
	backoffSecs int
	found       int
	errors      int
	set         map[string]struct{}
	timeTaken   time.Duration
}

// New creates an Enumerator for one adapter instance against the shared
// HTTP gateway.
func New(source subscraping.Source, session *subscraping.Session) *Enumerator {
	return &Enumerator{
		source:      source,
		session:     session,
		backoffSecs: 1,
		set:         make(map[string]struct{}),
	}
}

// Run drives the round loop to completion and returns a channel of
// Results. Every newly discovered hostname is sent as it's found; the
// channel closes when the loop terminates, at which point the union of all
// Subdomain values sent is exactly the accumulated set S. The channel is
// unbuffered: each send waits until the caller receives it or ctx is
// cancelled, so the caller is expected to drain the channel.
func (e *Enumerator) Run(ctx context.Context) <-chan subscraping.Result {
	results := make(chan subscraping.Result)

	go func() {
		start := time.Now()
		defer func() {
			e.timeTaken = time.Since(start)
			close(results)
		}()

		settings := e.source.Settings()
		name := settings.Name

		for {
			// 1. Termination pre-check.
			if e.rounds >= settings.MaxRounds || e.retries >= MaxRetries || e.backoffSecs >= MaxBackoff {
				gologger.Debug().Msgf("%s: completed(stop=false) rounds=%d retries=%d backoff=%d", name, e.rounds, e.retries, e.backoffSecs)
				return
			}

			// 2. Query construction.
			query, ok := e.source.NextQuery(e.set)
			if !ok {
				gologger.Debug().Msgf("%s: completed(stop=true) rounds=%d", name, e.rounds)
				return
			}

			// 3. Request.
			resp, err := e.source.Search(ctx, e.session, query, e.page)
			if err == nil && resp != nil && (resp.StatusCode < 200 || resp.StatusCode >= 300) {
				err = fmt.Errorf("unexpected status code %d", resp.StatusCode)
			}
			if err != nil {
				if resp != nil && resp.Body != nil {
					_ = resp.Body.Close()
				}
				e.errors++
				select {
				case results <- subscraping.Result{Source: name, Type: subscraping.Error, Error: err}:
				case <-ctx.Done():
					return
				}
				if !sleepOrDone(ctx, time.Duration(e.backoffSecs)*time.Second) {
					return
				}
				e.retries++
				e.backoffSecs *= 2
				continue
			}

			// 4. Body read.
			body, err := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if err != nil {
				e.retries++
				e.errors++
				continue
			}

			// 5. Extract, union into S.
			for host := range e.source.Extract(string(body)) {
				if _, seen := e.set[host]; seen {
					continue
				}
				e.set[host] = struct{}{}
				select {
				case results <- subscraping.Result{Source: name, Type: subscraping.Subdomain, Value: host}:
				case <-ctx.Done():
					return
				}
			}

			// 6. Progress decision.
			if len(e.set) > e.found {
				e.found = len(e.set)
				e.retries = saturatingSub(e.retries, 2)
			} else {
				e.page++
				e.retries++
			}

			// 7. Inter-round delay.
			if !sleepOrDone(ctx, e.source.Delay()) {
				return
			}

			// 8. rounds advances only here, at the bottom of a round that
			// reached a successful request. See SPEC_FULL.md §9 on why a
			// pure-failure run terminates via retries/backoff instead.
			e.rounds++
		}
	}()

	return results
}

// Statistics reports the loop's final counters, valid once Run's channel
// has closed.
func (e *Enumerator) Statistics() subscraping.Statistics {
	return subscraping.Statistics{
		Rounds:    e.rounds,
		Retries:   e.retries,
		Results:   len(e.set),
		Errors:    e.errors,
		TimeTaken: e.timeTaken,
	}
}

func saturatingSub(v, delta int) int {
	v -= delta
	if v < 0 {
		return 0
	}
	return v
}

// sleepOrDone waits for d or ctx cancellation, returning false if the
// context was cancelled first.
func sleepOrDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
