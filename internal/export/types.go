// Package export renders a valuation record summary to PDF.
package export

import "errors"

// ErrPDFDependencyMissing indicates headless Chromium is not installed.
var ErrPDFDependencyMissing = errors.New("pdf export dependency missing")

// Result is a finished export.
type Result struct {
	Data     []byte
	Filename string
	MimeType string
}
