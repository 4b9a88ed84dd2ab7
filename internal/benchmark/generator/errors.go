package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds carried by RenderError. Match them with errors.Is.
var (
	// ErrUnreadable means the source could not be read at all.
	ErrUnreadable = errors.New("unreadable source")

	// ErrCorrupt means the backend could not parse the document.
	ErrCorrupt = errors.New("corrupt document")

	// ErrUnsupportedOption means the backend cannot honour a request option.
	ErrUnsupportedOption = errors.New("unsupported option")

	// ErrBackend covers any other failure reported by the rendering library.
	ErrBackend = errors.New("backend failure")

	// ErrPageCount means the rendered page count disagrees with the document.
	ErrPageCount = errors.New("page count mismatch")
)

// ErrUnknownGenerator is wrapped by every RegistryError.
var ErrUnknownGenerator = errors.New("unknown generator")

// RenderError reports a failed render.
type RenderError struct {
	// Generator is the backend that failed. Empty when the failure happened
	// before a backend was involved.
	Generator Type

	// Kind is one of the Err* kinds above.
	Kind error

	// Page is the 0-based page that failed, or -1 when not page specific.
	Page int

	// Err is the underlying cause.
	Err error
}

// NewRenderError builds a RenderError that is not tied to a page.
func NewRenderError(t Type, kind error, err error) *RenderError {
	return &RenderError{Generator: t, Kind: kind, Page: -1, Err: err}
}

// NewPageError builds a RenderError for a specific page.
func NewPageError(t Type, kind error, page int, err error) *RenderError {
	return &RenderError{Generator: t, Kind: kind, Page: page, Err: err}
}

func (e *RenderError) Error() string {
	var sb strings.Builder
	if e.Generator != "" {
		sb.WriteString(string(e.Generator))
		sb.WriteString(": ")
	}
	if e.Kind != nil {
		sb.WriteString(e.Kind.Error())
	} else {
		sb.WriteString("render failed")
	}
	if e.Page >= 0 {
		fmt.Fprintf(&sb, " (page %d)", e.Page+1)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *RenderError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// RegistryError reports a generator name outside the supported set.
type RegistryError struct {
	Name string
}

func (e *RegistryError) Error() string {
	names := make([]string, 0, len(SupportedTypes()))
	for _, t := range SupportedTypes() {
		names = append(names, string(t))
	}
	if e.Name == "" {
		return fmt.Sprintf("%s: no generator type given (valid: %s)", ErrUnknownGenerator, strings.Join(names, ", "))
	}
	return fmt.Sprintf("%s %q (valid: %s)", ErrUnknownGenerator, e.Name, strings.Join(names, ", "))
}

func (e *RegistryError) Unwrap() error {
	return ErrUnknownGenerator
}
