package parsers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"resumerag/internal/rag/interfaces"
)

// DoclingParser delegates parsing to a docling-serve endpoint, which performs
// layout-aware conversion and exports markdown that preserves structure.
type DoclingParser struct {
	baseURL    string
	httpClient *http.Client
}

// doclingConvertResponse is the subset of the conversion response we consume.
type doclingConvertResponse struct {
	Document struct {
		MarkdownContent string `json:"md_content"`
	} `json:"document"`
	Status string `json:"status"`
}

// NewDoclingParser creates a new DoclingParser for the given service URL.
func NewDoclingParser(baseURL string) *DoclingParser {
	return &DoclingParser{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Parse uploads the file to the conversion service and returns the exported
// markdown.
func (p *DoclingParser) Parse(ctx context.Context, fileBytes []byte, fileExt string) (string, error) {
	ext := normalizeExt(fileBytes, fileExt)
	if ext != ".pdf" && ext != ".docx" {
		return "", ErrUnsupportedFile
	}

	// 1. Build the multipart upload
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("files", "resume"+ext)
	if err != nil {
		return "", fmt.Errorf("failed to build docling upload: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return "", fmt.Errorf("failed to build docling upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build docling upload: %w", err)
	}

	// 2. Call the conversion service
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1alpha/convert/file", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create docling request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call docling service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("docling service returned non-200 status: %s", resp.Status)
	}

	// 3. Extract the markdown export
	var convertResp doclingConvertResponse
	if err := json.NewDecoder(resp.Body).Decode(&convertResp); err != nil {
		return "", fmt.Errorf("failed to decode docling response: %w", err)
	}
	return strings.TrimSpace(convertResp.Document.MarkdownContent), nil
}

// compile-time check to ensure DoclingParser implements the Parser interface
var _ interfaces.Parser = (*DoclingParser)(nil)
