package parsers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/rag/schema"
)

func TestGetSelection(t *testing.T) {
	p, err := Get(schema.ParserBaseline, "")
	require.NoError(t, err)
	assert.IsType(t, &BaselineParser{}, p)

	p, err = Get(schema.ParserDocling, "http://localhost:5001")
	require.NoError(t, err)
	assert.IsType(t, &DoclingParser{}, p)

	_, err = Get(schema.ParserDocling, "")
	assert.Error(t, err, "docling without an endpoint must fail fast")

	_, err = Get("tika", "")
	assert.Error(t, err)
}

func TestBaselineParserRejectsUnsupportedExtension(t *testing.T) {
	p := NewBaselineParser()

	_, err := p.Parse(context.Background(), []byte("plain text resume"), ".txt")
	assert.ErrorIs(t, err, ErrUnsupportedFile)

	// Without an extension the content is sniffed; plain text is still not
	// a supported resume format.
	_, err = p.Parse(context.Background(), []byte("plain text resume"), "")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestDoclingParserReturnsMarkdown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1alpha/convert/file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("files")
		require.NoError(t, err)
		assert.Equal(t, "resume.pdf", header.Filename)

		resp := map[string]interface{}{
			"status":   "success",
			"document": map[string]string{"md_content": "# Jane Doe\n\n5 years of React experience.\n"},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	p := NewDoclingParser(server.URL)
	text, err := p.Parse(context.Background(), []byte("%PDF-1.4 fake"), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\n\n5 years of React experience.", text)
}

func TestDoclingParserPropagatesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conversion failed", http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewDoclingParser(server.URL)
	_, err := p.Parse(context.Background(), []byte("%PDF-1.4 fake"), ".pdf")
	assert.Error(t, err)
}

func TestDoclingParserRejectsUnsupportedExtension(t *testing.T) {
	p := NewDoclingParser("http://localhost:5001")
	_, err := p.Parse(context.Background(), []byte("hello"), ".xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}
