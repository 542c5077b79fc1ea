package runner

import (
	"time"

	"github.com/projectdiscovery/gologger"

	"github.com/subdig/subdig/pkg/subscraping"
)

// logStartup announces the start of enumeration for a domain at info level.
func logStartup(domain string, sourceCount int) {
	gologger.Info().Msgf("Enumerating subdomains for %s using %d source(s)", domain, sourceCount)
}

// logSummary reports the final count and elapsed time for a completed run.
func logSummary(domain string, count int, elapsed time.Duration) {
	gologger.Info().Msgf("Found %d subdomains for %s in %s", count, domain, elapsed)
}

// logStatistics prints one source's final loop counters.
func logStatistics(source string, stat subscraping.Statistics) {
	gologger.Info().Msgf(
		"%s: rounds=%d retries=%d results=%d errors=%d time=%s",
		source, stat.Rounds, stat.Retries, stat.Results, stat.Errors, stat.TimeTaken,
	)
}
