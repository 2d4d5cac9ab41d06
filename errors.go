package orgmd2xhs

import (
	"errors"

	"github.com/tuiwo/orgmd2xhs/internal/assets"
	"github.com/tuiwo/orgmd2xhs/internal/imaging"
	"github.com/tuiwo/orgmd2xhs/internal/paginate"
)

// Sentinel errors for library operations.
var (
	// Conversion errors.
	ErrEmptyDocument = errors.New("document content cannot be empty")
	ErrUnknownFormat = errors.New("unknown document format")
	ErrConversion    = errors.New("document conversion failed")

	// Configuration errors.
	ErrInvalidDimensions = errors.New("invalid page dimensions")
	ErrInvalidMaxPages   = errors.New("invalid max pages")

	// Pipeline errors.
	ErrNoPages = errors.New("pagination produced no pages")

	// Browser errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)

// Errors surfaced from internal packages, re-exported so callers can match
// them with errors.Is without importing internal paths.
var (
	// ErrLayoutConstants indicates the template omits one of the required
	// layout custom properties, or declares it as a non-numeric value.
	ErrLayoutConstants = paginate.ErrLayoutConstants

	// ErrImageSize indicates a captured image failed final size verification.
	ErrImageSize = imaging.ErrImageSize

	// ErrTemplateNotFound indicates the configured template name does not
	// match any embedded template.
	ErrTemplateNotFound = assets.ErrTemplateNotFound
)
