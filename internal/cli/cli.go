// Package cli provides the command-line interface for bootstrap.
package cli

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/AndreyAkinshin/bootstrap/internal/errors"
	"github.com/AndreyAkinshin/bootstrap/internal/output"
	"github.com/AndreyAkinshin/bootstrap/internal/toolchain"
)

// Version is set at build time.
var Version = "dev"

// Options holds parsed command-line flags.
type Options struct {
	Python      string // -P; empty means config or default
	Docs        bool   // +docs
	Help        bool
	ShowVersion bool
	Quiet       bool
	Verbose     bool
	DryRun      bool
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newApp().run(ctx, args)
}

// parseArgs manually parses the command line.
//
// Manual parsing is used instead of the stdlib flag package because:
// - "+docs" is not a dash flag
// - "-PEXEC" must be accepted alongside "-P EXEC"
// - Custom error messages with usage hints are needed
func parseArgs(args []string) (*Options, error) {
	opts := &Options{}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-h" || arg == "--help":
			opts.Help = true
			i++
		case arg == "--version":
			opts.ShowVersion = true
			i++
		case arg == "+docs":
			opts.Docs = true
			i++
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "-n" || arg == "--dry-run":
			opts.DryRun = true
			i++
		case arg == "-P":
			if i+1 >= len(args) || strings.TrimSpace(args[i+1]) == "" {
				return nil, errors.Usagef("-P requires a value\n  example: bootstrap -P python3.12")
			}
			opts.Python = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "-P"):
			opts.Python = strings.TrimPrefix(arg, "-P")
			i++
		default:
			return nil, errors.Usagef("unknown argument %q", arg)
		}
	}

	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return opts, nil
}

// validateOptions checks that options are valid.
func validateOptions(opts *Options) error {
	if opts.Quiet && opts.Verbose {
		return errors.Usagef("--quiet and --verbose are mutually exclusive")
	}
	return nil
}

// Help text alignment width for flags.
const helpFlagWidth = 14

func printUsage(w *output.Writer) {
	w.HelpTitle("bootstrap - install project dependencies into a local directory")

	w.HelpSection("Usage:")
	w.HelpUsage("bootstrap [options] [+docs]")

	w.HelpSection("Description:")
	w.Println("  Installs the package manager and the requirements into an isolated")
	w.Println("  install root under the working directory, using the given interpreter.")

	w.HelpSection("Options:")
	w.HelpFlag("-P <exec>", "Interpreter to use (default "+toolchain.DefaultCandidate+")", helpFlagWidth)
	w.HelpFlag("+docs", "Also install docs requirements and build the docs (optional step)", helpFlagWidth)
	w.HelpFlag("-n, --dry-run", "Print the steps without running them", helpFlagWidth)
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", helpFlagWidth)
	w.HelpFlag("-v, --verbose", "Maximum detail", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)
	w.HelpFlag("--version", "Show version", helpFlagWidth)

	w.HelpSection("Configuration:")
	w.Println("  Optional bootstrap.json or bootstrap.yaml in the working directory.")

	w.HelpSection("Environment:")
	w.HelpEnvVar("PATH", "Prepended with <install root>/usr/bin and <install root>/bin", 10)
	w.HelpEnvVar("PYTHONPATH", "Prepended with the install root and its site-packages", 10)

	w.HelpSection("Examples:")
	w.HelpExample("bootstrap", "Install requirements with python3")
	w.HelpExample("bootstrap -P python3.12 +docs", "Use python3.12 and build the docs")
	w.HelpExample("bootstrap -n", "Show what would run")
	w.Println("")
}
