// main.go - dug CLI: parses flags, runs the audit, renders the result
//
// Flag surface grounded on the reference getopt table (original_source/
// dug_fts_mt.c) translated onto the teacher's CLI idiom (testsuite/
// main.go's FlagSet construction); fatal-error reporting is grounded on
// the teacher's panicf.go, adapted from a panic into an os.Exit(1) fatal
// helper appropriate for a CLI's top level rather than a test harness.
package main

import (
	"fmt"
	"os"
	"path"

	logger "github.com/opencoff/go-logger"
	flag "github.com/opencoff/pflag"

	"github.com/cwru-rcci/dug"
)

var z = path.Base(os.Args[0])

func main() {
	var (
		apparent, human, jsonOut, resolveNames, aggByUID, verbose bool
		showHelp, showVersion                                     bool
		maxErrors, workers                                        int
		excludePaths                                              []string
	)

	fs := flag.NewFlagSet(z, flag.ExitOnError)
	fs.BoolVarP(&apparent, "apparent", "b", false, "Report apparent size (st_size) instead of occupied size")
	fs.BoolVarP(&human, "human", "h", false, "Human-readable sizes in plain-text output")
	fs.BoolVarP(&jsonOut, "json", "j", false, "Emit JSON instead of plain text")
	fs.BoolVarP(&resolveNames, "names", "n", false, "Resolve owner ids to names")
	fs.BoolVarP(&aggByUID, "uid", "u", false, "Aggregate by UID instead of GID")
	fs.BoolVarP(&verbose, "verbose", "v", false, "Verbose trace to stdout of entries counted directly under DIRECTORY")
	fs.IntVarP(&maxErrors, "max-errors", "m", 128, "Maximum errors before termination, `N` in [0, 65535]")
	fs.IntVarP(&workers, "threads", "t", 1, "Worker count, `N` in [0, 128]")
	fs.StringSliceVarP(&excludePaths, "exclude", "X", nil, "Add `PATH`'s inode to the exclude set (repeatable)")
	fs.BoolVarP(&showHelp, "help", "", false, "Show help and exit")
	fs.BoolVarP(&showVersion, "version", "V", false, "Show version and exit")

	fs.SetOutput(os.Stdout)
	if err := fs.Parse(os.Args[1:]); err != nil {
		die(1, "%s", err)
	}

	if showHelp {
		usage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Printf("%s %s\n", z, dug.Version)
		os.Exit(0)
	}

	args := fs.Args()
	if len(args) != 1 {
		die(1, "usage: %s [options] DIRECTORY", z)
	}
	root := args[0]

	if maxErrors < 0 || maxErrors > 65535 {
		die(1, "-m must be in [0, 65535]")
	}
	if workers < 0 || workers > 128 {
		die(1, "-t must be in [0, 128]")
	}

	cfg := dug.DefaultConfig()
	cfg.Root = root
	cfg.Concurrency = workers
	cfg.MaxErrors = maxErrors
	cfg.Verbose = verbose
	cfg.JSON = jsonOut
	cfg.ResolveNames = resolveNames
	cfg.ExcludePaths = excludePaths
	if apparent {
		cfg.Size = dug.SizeApparent
	}
	if aggByUID {
		cfg.Owner = dug.OwnerUID
	}

	excl, err := dug.NewExcludeSet(cfg.ExcludePaths)
	if err != nil {
		die(1, "%s", err)
	}

	prio := logger.LOG_INFO
	if verbose {
		prio = logger.LOG_DEBUG
	}
	log, err := logger.NewLogger("STDOUT", prio, z, logger.Ldate|logger.Ltime|logger.Lmicroseconds)
	if err != nil {
		die(1, "logger: %s", err)
	}
	defer log.Close()

	coord := dug.NewCoordinator(cfg, excl, log)
	tree, status := coord.Run()
	if tree == nil {
		os.Exit(1)
	}

	var names *dug.NameCache
	if resolveNames {
		names = dug.NewNameCache()
	}

	if jsonOut {
		fmt.Print(dug.RenderJSON(tree, cfg.Owner, names))
	} else {
		fmt.Print(dug.RenderText(tree, human, cfg.Owner, names))
	}

	os.Exit(status)
}

func die(code int, format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", z, fmt.Sprintf(format, v...))
	os.Exit(code)
}

func usage(fs *flag.FlagSet) {
	fmt.Printf(usageStr, z, z)
	fs.PrintDefaults()
}

var usageStr = `%s - per-owner/per-group disk usage auditor.

Usage: %s [options] DIRECTORY

Options:
`
