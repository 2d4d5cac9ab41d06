package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: orgmd2xhs [flags] <input>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render Org or Markdown documents into fixed-size image carousels.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    One or more .org, .md, or .markdown files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -t, --template <s>    Template name or file path (default: clean)")
	fmt.Fprintln(w, "  -o, --out <dir>       Output directory (default: dist)")
	fmt.Fprintln(w, "      --width <n>       Page width in px (default: 1242)")
	fmt.Fprintln(w, "      --height <n>      Page height in px (default: 1660)")
	fmt.Fprintln(w, "      --max-pages <n>   Maximum pages per document (default: 30)")
	fmt.Fprintln(w, "      --timeout <d>     Per-document timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w, "  -w, --workers <n>     Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -c, --config <name>   Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet           Only show errors")
	fmt.Fprintln(w, "  -v, --verbose         Show detailed progress")
	fmt.Fprintln(w, "      --version         Show version and exit")
}
