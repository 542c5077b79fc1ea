// Package passive implements the closed source registry and the fan-out
// runner that drives every selected source's Enumerator concurrently.
package passive

import (
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/subdig/subdig/pkg/subscraping"
	"github.com/subdig/subdig/pkg/subscraping/sources/alienvault"
	"github.com/subdig/subdig/pkg/subscraping/sources/baidu"
	"github.com/subdig/subdig/pkg/subscraping/sources/bing"
	"github.com/subdig/subdig/pkg/subscraping/sources/crtsh"
	"github.com/subdig/subdig/pkg/subscraping/sources/dnsdumpster"
	"github.com/subdig/subdig/pkg/subscraping/sources/google"
	"github.com/subdig/subdig/pkg/subscraping/sources/hackertarget"
	"github.com/subdig/subdig/pkg/subscraping/sources/virustotal"
	"github.com/subdig/subdig/pkg/subscraping/sources/yahoo"
)

// factories maps each closed registry tag to a constructor taking the
// target domain. Tags are canonical lowercase; the CLI layer presents
// them the same way.
var factories = map[string]func(domain string) subscraping.Source{
	"alienvault":  func(domain string) subscraping.Source { return alienvault.New(domain) },
	"bing":        func(domain string) subscraping.Source { return bing.New(domain) },
	"baidu":       func(domain string) subscraping.Source { return baidu.New(domain) },
	"crtsh":       func(domain string) subscraping.Source { return crtsh.New(domain) },
	"dnsdumpster": func(domain string) subscraping.Source { return dnsdumpster.New(domain) },
	"google":      func(domain string) subscraping.Source { return google.New(domain) },
	"hackertarget": func(domain string) subscraping.Source {
		return hackertarget.New(domain)
	},
	"virustotal": func(domain string) subscraping.Source { return virustotal.New(domain) },
	"yahoo":      func(domain string) subscraping.Source { return yahoo.New(domain) },
}

// AllTags returns every registry tag in sorted order.
func AllTags() []string {
	tags := maps.Keys(factories)
	sort.Strings(tags)
	return tags
}

// IsValidTag reports whether tag names a registered source.
func IsValidTag(tag string) bool {
	_, ok := factories[strings.ToLower(tag)]
	return ok
}

// New instantiates every source named in tags against domain. An empty
// tags slice means "all": the full registry is returned. Unknown tags are
// silently skipped; callers are expected to have validated tags against
// AllTags beforehand.
func New(domain string, tags []string) []subscraping.Source {
	if len(tags) == 0 {
		tags = AllTags()
	}

	sources := make([]subscraping.Source, 0, len(tags))
	for _, tag := range tags {
		factory, ok := factories[strings.ToLower(tag)]
		if !ok {
			continue
		}
		sources = append(sources, factory(domain))
	}
	return sources
}
