// Package cli implements the feishin-optimize command-line interface.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/projectdiscovery/goflags"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/gologger/levels"

	"github.com/FOUEN/feishin-optimize/internal/config"
	"github.com/FOUEN/feishin-optimize/internal/optimizer"
	"github.com/FOUEN/feishin-optimize/internal/registry"
	"github.com/FOUEN/feishin-optimize/internal/scope"
	"github.com/FOUEN/feishin-optimize/internal/steps"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

var errNoSource = errors.New("missing source path")

// Options holds the parsed command line.
type Options struct {
	Source  string
	Verbose bool
	DryRun  bool
	Profile string
	Steps   goflags.StringSlice
	Paths   string
	Offline bool
	Timeout time.Duration
	List    bool
}

// Run parses args, runs the optimizer and returns the process exit code.
func Run(args []string) int {
	opts := &Options{}
	flagSet := newFlagSet(opts)
	if err := flagSet.Parse(args...); err != nil {
		gologger.Error().Msgf("Could not parse flags: %s", err)
		return exitUsage
	}
	positional, err := interspersed(flagSet.CommandLine)
	if err != nil {
		gologger.Error().Msgf("Could not parse flags: %s", err)
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return run(ctx, opts, positional, os.Stdout)
}

// interspersed collects the positional arguments left by fs and parses the
// flags that follow each of them, so "<source> -v" works like "-v <source>".
func interspersed(fs *flag.FlagSet) ([]string, error) {
	var positional []string
	for rest := fs.Args(); len(rest) > 0; rest = fs.Args() {
		positional = append(positional, rest[0])
		if err := fs.Parse(rest[1:]); err != nil {
			return nil, err
		}
	}
	return positional, nil
}

func newFlagSet(opts *Options) *goflags.FlagSet {
	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription("feishin-optimize shrinks a Feishin checkout by rewriting icon imports and build settings.")

	flagSet.CreateGroup("run", "Run",
		flagSet.BoolVarP(&opts.DryRun, "dry-run", "n", false, "show the changes as diffs without writing files"),
		flagSet.StringSliceVarP(&opts.Steps, "steps", "s", nil, "steps to run (comma separated, default all)", goflags.CommaSeparatedStringSliceOptions),
		flagSet.StringVar(&opts.Paths, "paths", "", "scope file or comma separated path rules for icon rewriting"),
		flagSet.BoolVar(&opts.List, "list", false, "list the available steps and exit"),
	)
	flagSet.CreateGroup("config", "Configuration",
		flagSet.StringVarP(&opts.Profile, "profile", "p", "", "YAML profile overriding the defaults"),
		flagSet.BoolVar(&opts.Offline, "offline", false, "skip the registry version lookup"),
		flagSet.DurationVar(&opts.Timeout, "timeout", registry.DefaultTimeout, "registry lookup timeout"),
	)
	flagSet.CreateGroup("output", "Output",
		flagSet.BoolVarP(&opts.Verbose, "verbose", "v", false, "log every file that is inspected or changed"),
	)
	return flagSet
}

// run executes a parsed command line. Logs go to stderr through gologger, the
// report and any dry-run diffs go to stdout.
func run(ctx context.Context, opts *Options, positional []string, stdout io.Writer) int {
	if opts.Verbose {
		gologger.DefaultLogger.SetMaxLevel(levels.LevelVerbose)
	}

	registered := steps.Default()
	if opts.List {
		PrintSteps(stdout, registered)
		return exitOK
	}

	if err := opts.setSource(positional); err != nil {
		gologger.Error().Msgf("%s", err)
		PrintUsage(stdout, registered)
		return exitUsage
	}

	profile, err := opts.profile()
	if err != nil {
		gologger.Error().Msgf("%s", err)
		return exitFatal
	}
	optOpts, err := opts.optimizerOptions(stdout)
	if err != nil {
		gologger.Error().Msgf("%s", err)
		return exitFatal
	}
	optOpts = append(optOpts, optimizer.WithRegistry(registered))

	report, err := optimizer.New(profile, optOpts...).Run(ctx, opts.Source)
	if report != nil {
		report.Print(stdout)
	}
	if err != nil {
		gologger.Error().Msgf("%s", err)
		return exitFatal
	}
	return exitOK
}

// setSource takes the single positional argument as the source path.
func (o *Options) setSource(positional []string) error {
	switch len(positional) {
	case 0:
		return errNoSource
	case 1:
		o.Source = positional[0]
		return nil
	default:
		return fmt.Errorf("expected one source path, got %d", len(positional))
	}
}

// profile loads the YAML profile, if any, and applies the flag overrides.
func (o *Options) profile() (*config.Profile, error) {
	profile := config.Default()
	if o.Profile != "" {
		var err error
		if profile, err = config.Load(o.Profile); err != nil {
			return nil, err
		}
	}
	if o.Offline {
		profile.Registry.Offline = true
	}
	// The flag always carries a value; only a non-default one beats the profile.
	if o.Timeout > 0 && o.Timeout != registry.DefaultTimeout {
		profile.Registry.Timeout = o.Timeout
	}
	if len(o.Steps) > 0 {
		profile.Steps = o.Steps
	}
	return profile, nil
}

func (o *Options) optimizerOptions(stdout io.Writer) ([]optimizer.Option, error) {
	var opts []optimizer.Option
	if o.DryRun {
		opts = append(opts, optimizer.WithDryRun(stdout))
	}
	if o.Paths != "" {
		s, err := scope.Load(o.Paths)
		if err != nil {
			return nil, fmt.Errorf("paths: %w", err)
		}
		gologger.Verbose().Msgf("%s", strings.TrimRight(s.String(), "\n"))
		opts = append(opts, optimizer.WithScope(s))
	}
	return opts, nil
}
