// ekphos is a terminal notes workbench over a directory of Markdown
// files: gap-buffered editing with undo/redo, incremental search,
// background syntax highlighting, and a wiki-link graph.
//
// Usage:
//
//	ekphos [flags] [path]
//
// path may be a directory (opened as the notes root) or a .md file
// (its parent becomes the root and the file is pre-selected).
//
// Flags:
//
//	-h, --help          Show usage and exit
//	-v, --version       Print version and exit
//	-c, --config        Print the config file path and exit
//	-d, --dir           Print the notes directory and exit
//	--reset             Delete the config file and themes, then exit
//	--clean-cache       Delete the search index cache, then exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanebox/ekphos/pkg/app"
	"github.com/hanebox/ekphos/pkg/config"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("ekphos", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var (
		showHelp    bool
		showVersion bool
		printConfig bool
		printDir    bool
		reset       bool
		cleanCache  bool
	)
	fs.BoolVar(&showHelp, "help", false, "Show usage and exit")
	fs.BoolVar(&showHelp, "h", false, "Show usage and exit (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "v", false, "Print version and exit (shorthand)")
	fs.BoolVar(&printConfig, "config", false, "Print the config file path and exit")
	fs.BoolVar(&printConfig, "c", false, "Print the config file path and exit (shorthand)")
	fs.BoolVar(&printDir, "dir", false, "Print the notes directory and exit")
	fs.BoolVar(&printDir, "d", false, "Print the notes directory and exit (shorthand)")
	fs.BoolVar(&reset, "reset", false, "Delete the config file and themes, then exit")
	fs.BoolVar(&cleanCache, "clean-cache", false, "Delete the search index cache, then exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showHelp {
		printUsage(fs)
		return 0
	}
	if showVersion {
		fmt.Println("ekphos " + app.Version)
		return 0
	}
	if reset {
		if err := config.Reset(); err != nil {
			fmt.Fprintln(os.Stderr, "ekphos:", err)
			return 1
		}
		fmt.Println("configuration reset")
		return 0
	}

	configPath, err := config.Path()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ekphos:", err)
		return 1
	}
	if printConfig {
		fmt.Println(configPath)
		return 0
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ekphos:", err)
		return 1
	}

	cacheRoot, err := config.CacheDir(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ekphos:", err)
		return 1
	}
	if cleanCache {
		if err := config.CleanCache(cacheRoot); err != nil {
			fmt.Fprintln(os.Stderr, "ekphos:", err)
			return 1
		}
		fmt.Println("cache cleared")
		return 0
	}

	notesDir := cfg.NotesDir
	var openFile string
	if rest := fs.Args(); len(rest) > 0 {
		target := rest[0]
		if strings.EqualFold(filepath.Ext(target), ".md") {
			openFile = target
			notesDir = filepath.Dir(target)
		} else {
			notesDir = target
		}
	}
	absDir, err := filepath.Abs(notesDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ekphos:", err)
		return 1
	}
	if printDir {
		fmt.Println(absDir)
		return 0
	}
	if err := os.MkdirAll(absDir, 0o755); err != nil {
		fmt.Fprintln(os.Stderr, "ekphos:", err)
		return 1
	}

	logger := log.New(os.Stderr, "ekphos: ", log.LstdFlags)

	core, err := app.New(absDir)
	if err != nil {
		logger.Println(err)
		return 1
	}
	core.SetLogger(logger)
	core.SetCacheRoot(cacheRoot)
	defer core.Close()

	ctx := context.Background()
	if err := core.Load(ctx); err != nil {
		logger.Println(err)
		return 1
	}
	if err := core.StartWatching(); err != nil {
		logger.Println(err)
	}

	if openFile == "" {
		openFile = config.LoadLastNote(cacheRoot)
	}
	if openFile != "" {
		if absFile, err := filepath.Abs(openFile); err == nil {
			if idx, ok := core.Repo.IndexOfPath(absFile); ok {
				if err := core.OpenNote(idx); err != nil {
					logger.Println(err)
				}
			}
		}
	}

	// The interactive bubbletea render loop is out of scope (see
	// SPEC_FULL.md section 1); this entry point wires and exercises the
	// reactive core and exits cleanly.
	return 0
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "usage: ekphos [flags] [path]")
	fs.PrintDefaults()
}
