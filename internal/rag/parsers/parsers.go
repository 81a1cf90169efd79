// Package parsers provides the interchangeable resume parser backends.
// The baseline backend extracts the text layer locally; the docling backend
// delegates to a layout-aware conversion service that exports markdown.
package parsers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// ErrUnsupportedFile is returned when a parser is handed a file type it
// cannot read. Resumes enter the system as .pdf or .docx only.
var ErrUnsupportedFile = errors.New("unsupported file type (use .pdf or .docx)")

// Get resolves a parser backend name to its implementation.
// doclingURL is only consulted for the docling backend.
func Get(backend, doclingURL string) (interfaces.Parser, error) {
	switch backend {
	case schema.ParserBaseline:
		return NewBaselineParser(), nil
	case schema.ParserDocling:
		if doclingURL == "" {
			return nil, fmt.Errorf("docling parser selected but no docling endpoint configured")
		}
		return NewDoclingParser(doclingURL), nil
	default:
		return nil, fmt.Errorf("unsupported parser backend: %q", backend)
	}
}

// normalizeExt lower-cases the extension and falls back to content sniffing
// when the caller did not provide one.
func normalizeExt(fileBytes []byte, fileExt string) string {
	ext := strings.ToLower(fileExt)
	if ext != "" {
		return ext
	}
	return mimetype.Detect(fileBytes).Extension()
}
