package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/subdig/subdig/pkg/passive"
)

// jsonResult is the shape written when -json is set.
type jsonResult struct {
	Host   string `json:"host"`
	Domain string `json:"domain"`
}

// EnumerateDomains resolves the configured domain list (either -domain or
// -list) and runs EnumerateSingleDomain against each in turn.
func (r *Runner) EnumerateDomains(ctx context.Context) error {
	domains, err := r.targetDomains()
	if err != nil {
		return err
	}

	writer := r.options.Output
	for _, domain := range domains {
		if err := r.EnumerateSingleDomain(ctx, domain, writer); err != nil {
			return err
		}
	}
	return nil
}

// EnumerateSingleDomain runs the fan-out for one domain and streams the
// resulting hostnames to w, newline-delimited (or as JSON lines), sorted
// for a stable, diffable process output.
func (r *Runner) EnumerateSingleDomain(ctx context.Context, domain string, w io.Writer) error {
	logStartup(domain, sourceCount(r.options))
	start := time.Now()

	tags := selectedTags(r.options)
	agent := passive.NewAgent(domain, tags, r.session)
	found, stats := agent.Run(ctx)

	hosts := make([]string, 0, len(found))
	for host := range found {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	if err := writeHosts(w, domain, hosts, r.options.JSON); err != nil {
		return fmt.Errorf("writing results for %s: %w", domain, err)
	}

	logSummary(domain, len(hosts), time.Since(start))
	if r.options.Statistics {
		for source, stat := range stats {
			logStatistics(source, stat)
		}
	}

	return nil
}

func writeHosts(w io.Writer, domain string, hosts []string, asJSON bool) error {
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for _, host := range hosts {
		if asJSON {
			line, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(jsonResult{Host: host, Domain: domain})
			if err != nil {
				return err
			}
			if _, err := bw.Write(line); err != nil {
				return err
			}
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintln(bw, host); err != nil {
			return err
		}
	}
	return nil
}

func selectedTags(options *Options) []string {
	if len(options.Sources) > 0 {
		return options.Sources
	}
	all := passive.AllTags()
	if len(options.ExcludeSources) == 0 {
		return all
	}
	excluded := make(map[string]struct{}, len(options.ExcludeSources))
	for _, tag := range options.ExcludeSources {
		excluded[tag] = struct{}{}
	}
	tags := make([]string, 0, len(all))
	for _, tag := range all {
		if _, skip := excluded[tag]; !skip {
			tags = append(tags, tag)
		}
	}
	return tags
}

func sourceCount(options *Options) int {
	return len(selectedTags(options))
}

func (r *Runner) targetDomains() ([]string, error) {
	if len(r.options.Domain) > 0 {
		return r.options.Domain, nil
	}

	f, err := os.Open(r.options.DomainsFile)
	if err != nil {
		return nil, fmt.Errorf("opening domains file: %w", err)
	}
	defer f.Close()

	var domains []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			domains = append(domains, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading domains file: %w", err)
	}
	return domains, nil
}
