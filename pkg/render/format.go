package render

import (
	"slices"
	"strings"

	errs "github.com/matzehuels/flexdock/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJSON = "json"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatTree = "tree.svg"
)

// Formats lists every supported format in the order they are documented.
var Formats = []string{FormatSVG, FormatPNG, FormatJSON, FormatText, FormatDOT, FormatTree}

// ContentType returns the MIME type served for format.
func ContentType(format string) string {
	switch format {
	case FormatSVG, FormatTree:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ValidateFormats rejects unknown format names.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if !slices.Contains(Formats, f) {
			return errs.New(errs.ErrCodeInvalidFormat,
				"unknown format %q (must be one of: %s)", f, strings.Join(Formats, ", "))
		}
	}
	return nil
}
