package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// cliFlags holds all command-line flags. Zero values mean "not set" and
// defer to the config file, then to the renderer defaults.
type cliFlags struct {
	template string
	out      string
	width    int
	height   int
	maxPages int
	timeout  string
	workers  int
	config   string
	quiet    bool
	verbose  bool
	version  bool
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("orgmd2xhs", flag.ContinueOnError)
	f := &cliFlags{}

	fs.StringVarP(&f.template, "template", "t", "", "template name or file path")
	fs.StringVarP(&f.out, "out", "o", "", "output directory")
	fs.IntVar(&f.width, "width", 0, "page width in px")
	fs.IntVar(&f.height, "height", 0, "page height in px")
	fs.IntVar(&f.maxPages, "max-pages", 0, "maximum pages per document")
	fs.StringVar(&f.timeout, "timeout", "", "per-document timeout (e.g. 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
	fs.BoolVar(&f.version, "version", false, "show version and exit")

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
