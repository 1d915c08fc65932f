package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/funvibe/tower/internal/analyzer"
	"github.com/funvibe/tower/internal/ast"
	"github.com/funvibe/tower/internal/cache"
	"github.com/funvibe/tower/internal/config"
	"github.com/funvibe/tower/internal/diagnostics"
	"github.com/funvibe/tower/internal/parser"
	"github.com/funvibe/tower/internal/pipeline"
	"github.com/funvibe/tower/internal/prettyprinter"
	"github.com/funvibe/tower/internal/watch"
)

// errDiagnostics marks a file whose diagnostics were already rendered.
var errDiagnostics = errors.New("file has errors")

// sourceFiles expands the arguments of check and dump. Directories
// contribute their source files; no arguments means the configured entry.
func (a *app) sourceFiles(command string, args []string) ([]string, error) {
	if len(args) == 0 {
		entry := a.cfg.EntryPath()
		if entry == "" {
			return nil, fmt.Errorf("%s: no file given and no entry in %s", command, config.ConfigFileName)
		}
		return []string{entry}, nil
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("reading directory: %w", err)
		}
		for _, entry := range entries {
			if !entry.IsDir() && watch.IsSource(entry.Name()) {
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found", config.SourceFileExt)
	}
	return files, nil
}

// analyse runs the front end over one file and renders any diagnostic.
func (a *app) analyse(path, source string) (*ast.TypedModule, error) {
	ctx := pipeline.NewPipelineContext(path, source)
	ctx.Builtins = a.table
	ctx.Logger = a.verbose

	ctx = pipeline.New(&parser.ParserProcessor{}, &analyzer.AnalyzerProcessor{}).Run(ctx)
	if err := ctx.Err(); err != nil {
		if rerr := diagnostics.Render(a.stderr, err, ctx.Scanner, path, a.render); rerr != nil {
			return nil, rerr
		}
		return nil, errDiagnostics
	}
	return ctx.Typed, nil
}

func (a *app) openCache(ctx context.Context) *cache.Cache {
	if !a.cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.Open(ctx, a.cfg.CachePath())
	if err != nil {
		a.log.Printf("tower: cache disabled: %v", err)
		return nil
	}
	return c
}

// checkFile analyses path and prints its signatures. A cache hit skips
// analysis.
func (a *app) checkFile(ctx context.Context, path string, store *cache.Cache) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	source := string(data)

	var key string
	if store != nil {
		key = cache.Key(source, a.table)
		hit, err := store.Lookup(ctx, key)
		if err != nil {
			a.log.Printf("tower: %v", err)
		} else if hit != nil {
			a.debugf("%s: cache hit (run %s)", path, hit.RunID)
			a.printEntries(hit.Entries)
			return nil
		}
	}

	typed, err := a.analyse(path, source)
	if err != nil {
		return err
	}
	a.printEntries(cache.Entries(typed))

	if store != nil {
		id, err := store.Store(ctx, key, path, typed)
		if err != nil {
			a.log.Printf("tower: %v", err)
		} else {
			a.debugf("%s: cached as run %s", path, id)
		}
	}
	return nil
}

func (a *app) printEntries(entries []cache.Entry) {
	for _, e := range entries {
		fmt.Fprintln(a.stdout, e.Signature)
	}
}

func (a *app) handleCheck(ctx context.Context, args []string) int {
	files, err := a.sourceFiles("check", args)
	if err != nil {
		fmt.Fprintf(a.stderr, "tower: %v\n", err)
		return ExitUsage
	}

	store := a.openCache(ctx)
	if store != nil {
		defer store.Close()
	}

	status := ExitOK
	for _, path := range files {
		if len(files) > 1 {
			fmt.Fprintf(a.stdout, "# %s\n", path)
		}
		if err := a.checkFile(ctx, path, store); err != nil {
			if !errors.Is(err, errDiagnostics) {
				fmt.Fprintf(a.stderr, "tower: %v\n", err)
			}
			status = ExitFailed
		}
	}
	return status
}

func (a *app) handleDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	bodies := fs.Bool("bodies", false, "print every body word with its stack effect")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}
	if fs.NArg() > 1 {
		fmt.Fprintf(a.stderr, "Usage: tower dump [-bodies] [file]\n")
		return ExitUsage
	}

	files, err := a.sourceFiles("dump", fs.Args())
	if err != nil {
		fmt.Fprintf(a.stderr, "tower: %v\n", err)
		return ExitUsage
	}
	path := files[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(a.stderr, "tower: reading %s: %v\n", path, err)
		return ExitFailed
	}
	typed, err := a.analyse(path, string(data))
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(a.stderr, "tower: %v\n", err)
		}
		return ExitFailed
	}
	fmt.Fprint(a.stdout, prettyprinter.Print(typed, *bodies))
	return ExitOK
}
