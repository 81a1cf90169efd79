package parsers

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/unidoc/unioffice/v2/document"

	"resumerag/internal/rag/interfaces"
)

// BaselineParser extracts the text layer of PDF and DOCX resumes locally.
type BaselineParser struct{}

// NewBaselineParser creates a new BaselineParser.
func NewBaselineParser() *BaselineParser {
	return &BaselineParser{}
}

// Parse extracts plain text from the given file bytes.
// Unsupported extensions fail before any extraction is attempted.
func (p *BaselineParser) Parse(ctx context.Context, fileBytes []byte, fileExt string) (string, error) {
	switch normalizeExt(fileBytes, fileExt) {
	case ".pdf":
		return p.parsePDF(fileBytes)
	case ".docx":
		return p.parseDocx(fileBytes)
	default:
		return "", ErrUnsupportedFile
	}
}

// parsePDF walks every page and concatenates its plain text.
func (p *BaselineParser) parsePDF(fileBytes []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// parseDocx extracts the text of every paragraph run.
func (p *BaselineParser) parseDocx(fileBytes []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer doc.Close()

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			sb.WriteString(run.Text())
		}
		sb.WriteString("\n")
	}
	return strings.TrimSpace(sb.String()), nil
}

// compile-time check to ensure BaselineParser implements the Parser interface
var _ interfaces.Parser = (*BaselineParser)(nil)
