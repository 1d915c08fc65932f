// Package cli implements the tower command line.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/funvibe/tower/internal/builtins"
	"github.com/funvibe/tower/internal/config"
	"github.com/funvibe/tower/internal/diagnostics"
)

// Exit codes.
const (
	ExitOK     = 0
	ExitFailed = 1 // a file has diagnostics or could not be read
	ExitUsage  = 2 // bad arguments or configuration
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage: tower [options] <command> [arguments]\n")
	fmt.Fprintf(w, "\nCommands:\n")
	fmt.Fprintf(w, "  check [file|dir...]   Parse and analyse, print top-level signatures\n")
	fmt.Fprintf(w, "  dump [-bodies] [file] Print the typed tree\n")
	fmt.Fprintf(w, "  watch [dir]           Re-check source files as they change\n")
	fmt.Fprintf(w, "  cache clean|path      Manage the signature cache\n")
	fmt.Fprintf(w, "  version               Print the version\n")
	fmt.Fprintf(w, "\nWith no file, check and dump use the entry from %s.\n", config.ConfigFileName)
}

// Run executes the command line args (without the program name) and
// returns the process exit code. Interrupts cancel long-running commands.
func Run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RunContext(ctx, args, stdout, stderr)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tower", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log analysis passes and cache activity")
	color := fs.String("color", "", "colour diagnostics: auto, always or never (default from "+config.ConfigFileName+")")
	fs.Usage = func() {
		usage(stderr)
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitOK
		}
		return ExitUsage
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return ExitUsage
	}

	command, rest := fs.Arg(0), fs.Args()[1:]
	switch command {
	case "version":
		fmt.Fprintf(stdout, "tower %s\n", config.Version)
		return ExitOK
	case "help":
		usage(stdout)
		return ExitOK
	}

	a, err := newApp(*verbose, *color, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "tower: %v\n", err)
		return ExitUsage
	}

	switch command {
	case "check":
		return a.handleCheck(ctx, rest)
	case "dump":
		return a.handleDump(rest)
	case "watch":
		return a.handleWatch(ctx, rest)
	case "cache":
		return a.handleCache(ctx, rest)
	}
	fmt.Fprintf(stderr, "Unknown command: %s\n", command)
	fs.Usage()
	return ExitUsage
}

// app is the state shared by every command of one invocation.
type app struct {
	cfg    *config.Config
	table  *builtins.Table
	render diagnostics.RenderOptions

	stdout io.Writer
	stderr io.Writer
	log    *log.Logger
	// verbose is nil unless -v was given.
	verbose *log.Logger
}

func newApp(verbose bool, color string, stdout, stderr io.Writer) (*app, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	table := builtins.Default()
	if err := table.Merge(cfg.Builtins); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ConfigFileName, err)
	}

	mode := cfg.ColorMode()
	if color != "" {
		if mode, err = diagnostics.ParseColorMode(color); err != nil {
			return nil, fmt.Errorf("-color: %w", err)
		}
	}

	a := &app{
		cfg:   cfg,
		table: table,
		render: diagnostics.RenderOptions{
			TabWidth: cfg.Diagnostics.TabWidth,
			Color:    mode.Enabled(stderr),
		},
		stdout: stdout,
		stderr: stderr,
		log:    log.New(stderr, "", 0),
	}
	if verbose {
		a.verbose = a.log
	}
	return a, nil
}

func (a *app) debugf(format string, args ...any) {
	if a.verbose != nil {
		a.verbose.Printf(format, args...)
	}
}
