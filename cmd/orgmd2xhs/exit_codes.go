package main

import (
	"errors"
	"os"

	orgmd2xhs "github.com/tuiwo/orgmd2xhs"
	"github.com/tuiwo/orgmd2xhs/internal/config"
)

// Exit codes for the orgmd2xhs CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents rendered
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, input format, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
	ExitRender  = 5 // Pagination or capture produced bad output
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, orgmd2xhs.ErrBrowserConnect) ||
		errors.Is(err, orgmd2xhs.ErrPageCreate) ||
		errors.Is(err, orgmd2xhs.ErrPageLoad) {
		return ExitBrowser
	}

	// Render errors (exit 5)
	if errors.Is(err, orgmd2xhs.ErrNoPages) ||
		errors.Is(err, orgmd2xhs.ErrImageSize) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrReadInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, orgmd2xhs.ErrInvalidDimensions) ||
		errors.Is(err, orgmd2xhs.ErrInvalidMaxPages) ||
		errors.Is(err, orgmd2xhs.ErrLayoutConstants) ||
		errors.Is(err, orgmd2xhs.ErrTemplateNotFound) ||
		errors.Is(err, orgmd2xhs.ErrUnknownFormat) ||
		errors.Is(err, orgmd2xhs.ErrEmptyDocument) ||
		errors.Is(err, ErrUnsupportedExtension) {
		return ExitUsage
	}

	return ExitGeneral
}
