package runner

import (
	"errors"
	"io"
	"os"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/formatter"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/subdig/subdig/pkg/passive"
)

// Options is the fully parsed and validated CLI configuration.
type Options struct {
	Domain         goflags.StringSlice
	DomainsFile    string
	Sources        goflags.StringSlice
	ExcludeSources goflags.StringSlice
	ListSources    bool

	OutputFile string
	JSON       bool
	Output     io.Writer

	Proxy     string
	Timeout   int
	RateLimit int

	Silent     bool
	Verbose    bool
	NoColor    bool
	Version    bool
	Statistics bool

	ProviderConfig string
}

// ParseOptions parses CLI flags into an Options, applying defaults and
// validation. It exits the process directly on parse errors, -version,
// and -list-sources, matching the teacher's flow.
func ParseOptions() *Options {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("Passive subdomain discovery across a fixed set of public sources.")

	flagSet.CreateGroup("input", "Input",
		flagSet.StringSliceVarP(&options.Domain, "domain", "d", nil, "target domains to enumerate", goflags.NormalizedStringSliceOptions),
		flagSet.StringVarP(&options.DomainsFile, "list", "dL", "", "file containing target domains, one per line"),
	)

	flagSet.CreateGroup("source", "Source selection",
		flagSet.StringSliceVarP(&options.Sources, "sources", "s", nil, "comma-separated sources to use (default: all)", goflags.NormalizedStringSliceOptions),
		flagSet.StringSliceVarP(&options.ExcludeSources, "exclude-sources", "es", nil, "comma-separated sources to exclude", goflags.NormalizedStringSliceOptions),
		flagSet.BoolVarP(&options.ListSources, "list-sources", "ls", false, "list all available sources and exit"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.OutputFile, "output", "o", "", "write results to file instead of stdout"),
		flagSet.BoolVarP(&options.JSON, "json", "oJ", false, "write results as JSON lines"),
	)

	flagSet.CreateGroup("rate-limit", "Rate limiting",
		flagSet.IntVarP(&options.RateLimit, "rate-limit", "rl", 0, "maximum requests per second across all sources (0 = unlimited)"),
		flagSet.IntVar(&options.Timeout, "timeout", 30, "per-request timeout in seconds"),
	)

	flagSet.CreateGroup("configuration", "Configuration",
		flagSet.StringVarP(&options.ProviderConfig, "provider-config", "pc", defaultProviderConfigLocation, "provider config file for API keys"),
		flagSet.StringVar(&options.Proxy, "proxy", "", "HTTP proxy to route requests through"),
	)

	flagSet.CreateGroup("debug", "Debug",
		flagSet.BoolVar(&options.Silent, "silent", false, "only print discovered subdomains"),
		flagSet.BoolVarP(&options.Verbose, "verbose", "v", false, "print verbose per-source output"),
		flagSet.BoolVarP(&options.NoColor, "no-color", "nc", false, "disable colored output"),
		flagSet.BoolVar(&options.Version, "version", false, "show version and exit"),
		flagSet.BoolVar(&options.Statistics, "stats", false, "print per-source statistics after enumeration"),
	)

	if err := flagSet.Parse(); err != nil {
		gologger.Fatal().Msgf("Could not parse flags: %s", err)
	}

	options.configureOutput()

	if options.Version {
		gologger.Info().Msgf("subdig version %s", version)
		os.Exit(0)
	}

	if err := createDefaultProviderConfig(defaultProviderConfigLocation); err != nil {
		gologger.Warning().Msgf("Could not create provider config file: %s", err)
	}
	if _, err := loadProviderConfig(options.ProviderConfig); err != nil {
		gologger.Warning().Msgf("Could not read provider config: %s", err)
	}

	if options.ListSources {
		for _, tag := range passive.AllTags() {
			gologger.Silent().Msg(tag)
		}
		os.Exit(0)
	}

	options.Output = os.Stdout
	if options.OutputFile != "" {
		f, err := os.Create(options.OutputFile)
		if err != nil {
			gologger.Fatal().Msgf("Could not create output file: %s", err)
		}
		options.Output = f
	}

	if err := options.validate(); err != nil {
		gologger.Fatal().Msgf("Program exiting: %s", err)
	}

	return options
}

func (options *Options) configureOutput() {
	if options.Silent {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelSilent)
	} else if options.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}
	gologger.DefaultLogger.SetFormatter(formatter.NewCLI(options.NoColor))
}

func (options *Options) validate() error {
	if len(options.Domain) == 0 && options.DomainsFile == "" {
		return errors.New("no domain or domain list provided")
	}
	for _, tag := range options.Sources {
		if !passive.IsValidTag(tag) {
			return errors.New("unknown source: " + tag)
		}
	}
	for _, tag := range options.ExcludeSources {
		if !passive.IsValidTag(tag) {
			return errors.New("unknown source: " + tag)
		}
	}
	return nil
}
