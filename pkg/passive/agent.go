package passive

import (
	"context"
	"sync"

	"github.com/projectdiscovery/fdmax"
	"github.com/projectdiscovery/gologger"

	"github.com/subdig/subdig/pkg/enumerator"
	"github.com/subdig/subdig/pkg/subscraping"
)

// Agent spawns one Enumerator per selected source against a shared HTTP
// gateway, waits for every one to complete, and unions the discovered
// hostnames into a single set.
type Agent struct {
	sources []subscraping.Source
	session *subscraping.Session
}

// NewAgent builds an Agent for domain, restricted to tags (empty meaning all).
func NewAgent(domain string, tags []string, session *subscraping.Session) *Agent {
	return &Agent{sources: New(domain, tags), session: session}
}

// Run drives every source's Enumerator concurrently to completion. It
// waits for all of them (no early cancellation on first-finish, per the
// fan-out contract) and returns the merged hostname set together with
// each source's final statistics, keyed by source name.
func (a *Agent) Run(ctx context.Context) (map[string]struct{}, map[string]subscraping.Statistics) {
	if err := fdmax.Set(fdmax.ProcessMaxOpenFiles); err != nil {
		gologger.Warning().Msgf("Could not raise file descriptor limit: %s", err)
	}

	merged := make(map[string]struct{})
	stats := make(map[string]subscraping.Statistics, len(a.sources))

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, source := range a.sources {
		wg.Add(1)
		go func(source subscraping.Source) {
			defer wg.Done()

			name := source.Settings().Name
			enum := enumerator.New(source, a.session)

			local := make(map[string]struct{})
			for result := range enum.Run(ctx) {
				switch result.Type {
				case subscraping.Error:
					gologger.Warning().Label(name).Msgf("%s", result.Error)
				case subscraping.Subdomain:
					local[result.Value] = struct{}{}
					gologger.Verbose().Label(name).Msg(result.Value)
				}
			}

			mu.Lock()
			for host := range local {
				merged[host] = struct{}{}
			}
			stats[name] = enum.Statistics()
			mu.Unlock()
		}(source)
	}

	wg.Wait()
	return merged, stats
}
