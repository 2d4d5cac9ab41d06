package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	orgmd2xhs "github.com/tuiwo/orgmd2xhs"
	"github.com/tuiwo/orgmd2xhs/internal/config"
)

// Sentinel errors for CLI input handling.
var (
	ErrNoInput              = errors.New("no input specified")
	ErrReadInput            = errors.New("failed to read input file")
	ErrUnsupportedExtension = errors.New("unsupported input extension")
)

// formatForPath maps an input file extension to a source format.
func formatForPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".org":
		return orgmd2xhs.FormatOrg, nil
	case ".md", ".markdown":
		return orgmd2xhs.FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %s (want .org, .md, or .markdown)", ErrUnsupportedExtension, path)
	}
}

// inputName derives the output subdirectory name from an input path.
func inputName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// loadConfigFor loads the config named by the flag, or the defaults when no
// flag is given.
func loadConfigFor(flags *cliFlags) (*config.Config, error) {
	if flags.config == "" {
		return config.DefaultConfig(), nil
	}
	return config.LoadConfig(flags.config)
}

// resolveOptions merges flags over the config file over the renderer
// defaults and returns the service options plus the per-document timeout.
// Precedence: CLI flags > config file > defaults.
func resolveOptions(flags *cliFlags, cfg *config.Config) ([]orgmd2xhs.Option, time.Duration, error) {
	rc := orgmd2xhs.DefaultRenderConfig()

	if cfg.Output.DefaultDir != "" {
		rc.OutDir = cfg.Output.DefaultDir
	}
	if cfg.Render.Width > 0 {
		rc.Width = cfg.Render.Width
	}
	if cfg.Render.Height > 0 {
		rc.Height = cfg.Render.Height
	}
	if cfg.Render.Template != "" {
		rc.Template = cfg.Render.Template
	}
	if cfg.Render.MaxPages > 0 {
		rc.MaxPages = cfg.Render.MaxPages
	}

	if flags.out != "" {
		rc.OutDir = flags.out
	}
	if flags.width > 0 {
		rc.Width = flags.width
	}
	if flags.height > 0 {
		rc.Height = flags.height
	}
	if flags.template != "" {
		rc.Template = flags.template
	}
	if flags.maxPages > 0 {
		rc.MaxPages = flags.maxPages
	}

	if err := rc.Validate(); err != nil {
		return nil, 0, err
	}

	timeoutStr := cfg.Capture.Timeout
	if flags.timeout != "" {
		timeoutStr = flags.timeout
	}

	opts := []orgmd2xhs.Option{orgmd2xhs.WithRenderConfig(rc)}
	timeout := orgmd2xhs.DefaultTimeout
	if timeoutStr != "" {
		d, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid timeout %q: %v", timeoutStr, err)
		}
		if d <= 0 {
			return nil, 0, fmt.Errorf("invalid timeout %q: must be positive", timeoutStr)
		}
		opts = append(opts, orgmd2xhs.WithTimeout(d))
		timeout = d
	}

	return opts, timeout, nil
}

// renderOutcome holds the result of rendering one input file.
type renderOutcome struct {
	inputPath string
	result    orgmd2xhs.Result
	err       error
	duration  time.Duration
}

// renderBatch renders files concurrently using the service pool. One worker
// per pool slot; each worker holds a service (and its browser) for its
// whole share of the batch.
func renderBatch(ctx context.Context, pool *orgmd2xhs.ServicePool, inputs []string, timeout time.Duration) []renderOutcome {
	concurrency := pool.Size()
	if concurrency > len(inputs) {
		concurrency = len(inputs)
	}

	outcomes := make([]renderOutcome, len(inputs))
	jobs := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				outcomes[idx] = renderOne(ctx, svc, inputs[idx], timeout)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return outcomes
}

// renderOne reads and renders a single input file under its own timeout.
func renderOne(ctx context.Context, svc *orgmd2xhs.Service, path string, timeout time.Duration) renderOutcome {
	start := time.Now()
	outcome := renderOutcome{inputPath: path}

	format, err := formatForPath(path)
	if err != nil {
		outcome.err = err
		outcome.duration = time.Since(start)
		return outcome
	}

	source, err := os.ReadFile(path) // #nosec G304 -- user-supplied input path
	if err != nil {
		outcome.err = fmt.Errorf("%w: %v", ErrReadInput, err)
		outcome.duration = time.Since(start)
		return outcome
	}

	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := svc.Render(renderCtx, orgmd2xhs.Input{
		Source: string(source),
		Format: format,
		Name:   inputName(path),
	})
	if err != nil {
		outcome.err = fmt.Errorf("%s: %w", path, err)
	} else {
		outcome.result = *result
	}
	outcome.duration = time.Since(start)
	return outcome
}

// run renders all inputs and reports per-file outcomes. Returns the joined
// error of all failed files.
func run(flags *cliFlags, inputs []string, pool *orgmd2xhs.ServicePool, timeout time.Duration, stdout, stderr io.Writer) error {
	if len(inputs) == 0 {
		err := fmt.Errorf("%w: pass one or more .org or .md files", ErrNoInput)
		fmt.Fprintf(stderr, "error: %v\n", err)
		printUsage(stderr)
		return err
	}

	outcomes := renderBatch(context.Background(), pool, inputs, timeout)

	var errs []error
	for _, o := range outcomes {
		if o.err != nil {
			fmt.Fprintf(stderr, "error: %v\n", o.err)
			errs = append(errs, o.err)
			continue
		}
		if flags.quiet {
			continue
		}
		if flags.verbose {
			fmt.Fprintf(stdout, "%s: %d page(s) -> %s (%.1fs)\n",
				o.inputPath, o.result.Pages, o.result.Dir, o.duration.Seconds())
		} else {
			fmt.Fprintf(stdout, "%s -> %s\n", o.inputPath, o.result.Dir)
		}
	}

	return errors.Join(errs...)
}
