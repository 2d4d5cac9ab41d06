package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	orgmd2xhs "github.com/tuiwo/orgmd2xhs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, inputs, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("orgmd2xhs %s\n", Version)
		return
	}

	// Configure GOMAXPROCS for containerized environments.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	cfg, err := loadConfigFor(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	opts, timeout, err := resolveOptions(flags, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}

	poolSize := orgmd2xhs.ResolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := orgmd2xhs.NewServicePool(poolSize, opts...)
	defer pool.Close()

	if err := run(flags, inputs, pool, timeout, os.Stdout, os.Stderr); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
