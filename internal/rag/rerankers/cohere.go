package rerankers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"resumerag/internal/rag/interfaces"
	"resumerag/internal/rag/schema"
)

const defaultCohereURL = "https://api.cohere.ai/v1/rerank"

// CohereReranker implements the Reranker interface using the hosted Cohere
// Rerank API.
type CohereReranker struct {
	apiKey     string
	model      string
	url        string
	httpClient *http.Client
}

// cohereRerankRequest defines the request body for the Cohere Rerank API.
type cohereRerankRequest struct {
	Model           string   `json:"model"`
	Query           string   `json:"query"`
	Documents       []string `json:"documents"`
	TopN            int      `json:"top_n"`
	ReturnDocuments bool     `json:"return_documents"`
}

// cohereRerankResult defines one scored result from the Cohere Rerank API.
type cohereRerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

type cohereRerankResponse struct {
	Results []cohereRerankResult `json:"results"`
}

// NewCohereReranker creates a new CohereReranker.
func NewCohereReranker(apiKey, model string) *CohereReranker {
	return &CohereReranker{
		apiKey:     apiKey,
		model:      model,
		url:        defaultCohereURL,
		httpClient: &http.Client{},
	}
}

// Rerank re-orders the candidates by relevance score from the Cohere API and
// truncates to topK. Ties keep the original candidate order.
func (r *CohereReranker) Rerank(ctx context.Context, query string, docs []*schema.Document, topK int) ([]*schema.Document, error) {
	if len(docs) == 0 {
		return docs, nil
	}

	// 1. Prepare the request for Cohere's API
	docTexts := make([]string, len(docs))
	for i, doc := range docs {
		docTexts[i] = doc.Content
	}

	reqBody := cohereRerankRequest{
		Model:           r.model,
		Query:           query,
		Documents:       docTexts,
		TopN:            topK,
		ReturnDocuments: false,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cohere request: %w", err)
	}

	// 2. Make the HTTP request
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create cohere request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.apiKey)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call cohere api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cohere api returned non-200 status: %s", resp.Status)
	}

	// 3. Parse the response and re-order the documents
	var cohereResp cohereRerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&cohereResp); err != nil {
		return nil, fmt.Errorf("failed to decode cohere response: %w", err)
	}

	scores := make(map[int]float64, len(cohereResp.Results))
	for _, result := range cohereResp.Results {
		if result.Index >= 0 && result.Index < len(docs) {
			scores[result.Index] = result.RelevanceScore
		}
	}

	return selectTopK(docs, scores, topK), nil
}

// selectTopK copies the scored candidates, sorts them by score descending
// with a stable sort so ties keep candidate order, and truncates to topK.
func selectTopK(docs []*schema.Document, scores map[int]float64, topK int) []*schema.Document {
	ranked := make([]*schema.Document, 0, len(scores))
	for i, doc := range docs {
		score, ok := scores[i]
		if !ok {
			continue
		}
		scored := *doc
		scored.Score = score
		ranked = append(ranked, &scored)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > topK {
		ranked = ranked[:topK]
	}
	return ranked
}

// compile-time check to ensure CohereReranker implements the Reranker interface
var _ interfaces.Reranker = (*CohereReranker)(nil)
