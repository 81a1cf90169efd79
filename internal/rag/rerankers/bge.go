package rerankers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

// BGEReranker implements the Reranker interface against a hosted BGE
// cross-encoder scoring endpoint (text-embeddings-inference /rerank shape).
// Every candidate is scored against the query in one call.
type BGEReranker struct {
	baseURL    string
	httpClient *http.Client
}

// bgeRerankRequest defines the request body for the scoring endpoint.
type bgeRerankRequest struct {
	Query string   `json:"query"`
	Texts []string `json:"texts"`
}

// bgeRerankResult defines one scored result from the scoring endpoint.
type bgeRerankResult struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// NewBGEReranker creates a new BGEReranker for the given endpoint URL.
func NewBGEReranker(baseURL string) *BGEReranker {
	return &BGEReranker{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// Rerank scores every candidate against the query with the cross-encoder,
// sorts descending by score and truncates to topK. Ties keep the original
// candidate order.
func (r *BGEReranker) Rerank(ctx context.Context, query string, docs []*schema.Document, topK int) ([]*schema.Document, error) {
	if len(docs) == 0 {
		return docs, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	payload, err := json.Marshal(bgeRerankRequest{Query: query, Texts: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rerank request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rerank", bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create rerank request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call rerank endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rerank endpoint returned non-200 status: %s", resp.Status)
	}

	var results []bgeRerankResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode rerank response: %w", err)
	}

	scores := make(map[int]float64, len(results))
	for _, result := range results {
		if result.Index >= 0 && result.Index < len(docs) {
			scores[result.Index] = result.Score
		}
	}

	return selectTopK(docs, scores, topK), nil
}

// compile-time check to ensure BGEReranker implements the Reranker interface
var _ interfaces.Reranker = (*BGEReranker)(nil)
