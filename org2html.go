package orgmd2xhs

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/tuiwo/orgmd2xhs/internal/fileutil"
)

// DocumentConverter turns raw source text into a Document holding a title
// and an HTML fragment ready for template wrapping.
type DocumentConverter interface {
	Convert(ctx context.Context, source, fallbackTitle string) (Document, error)
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// orgTitlePattern matches the #+TITLE: keyword line, case-insensitively.
var orgTitlePattern = regexp.MustCompile(`(?im)^#\+TITLE:\s*(.+?)\s*$`)

// orgConverter converts Org source to an HTML fragment by invoking the
// pandoc CLI. Pandoc's Org reader is the reference implementation of the
// format; reimplementing it is not worth the fidelity loss.
type orgConverter struct {
	runner CommandRunner
}

// newOrgConverter creates an orgConverter with a real command runner.
func newOrgConverter() *orgConverter {
	return &orgConverter{runner: &ExecRunner{}}
}

// Convert converts Org content to an HTML5 fragment. The title comes from
// the #+TITLE keyword when present, otherwise fallbackTitle is used.
func (c *orgConverter) Convert(ctx context.Context, source, fallbackTitle string) (Document, error) {
	if strings.TrimSpace(source) == "" {
		return Document{}, ErrEmptyDocument
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	title := fallbackTitle
	if m := orgTitlePattern.FindStringSubmatch(source); m != nil {
		title = strings.TrimSpace(m[1])
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(source, "org")
	if err != nil {
		return Document{}, err
	}
	defer cleanup()

	stdout, stderr, err := c.runner.Run("pandoc", tmpPath, "--from=org", "--to=html5")
	if err != nil {
		return Document{}, fmt.Errorf("%w: pandoc: %s: %v", ErrConversion, strings.TrimSpace(stderr), err)
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	return Document{Title: title, Fragment: stdout}, nil
}
