// Command subdig enumerates subdomains passively across a fixed set of
// public sources.
package main

import (
	"context"
	"os"

	"github.com/projectdiscovery/gologger"

	"github.com/subdig/subdig/pkg/runner"
)

func main() {
	options := runner.ParseOptions()

	r, err := runner.New(options)
	if err != nil {
		gologger.Fatal().Msgf("Could not create runner: %s", err)
	}
	defer r.Close()

	if err := r.EnumerateDomains(context.Background()); err != nil {
		gologger.Error().Msgf("%s", err)
		os.Exit(1)
	}
}
