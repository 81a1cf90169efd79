// Package langsmith is a minimal REST client for the LangSmith evaluation
// platform, covering only what the evaluation runner needs: dataset and
// example management and experiment submission.
package langsmith

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"resumerag/internal/eval"
)

const defaultBaseURL = "https://api.smith.langchain.com/api/v1"

// Client talks to the LangSmith REST API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client authenticated with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
}

// NewClientWithBaseURL creates a client against a non-default endpoint.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

type dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type example struct {
	ID     string                 `json:"id"`
	Inputs map[string]interface{} `json:"inputs"`
}

// EnsureDataset creates the dataset by name if it does not exist and appends
// the gold examples whose questions are not yet present.
func (c *Client) EnsureDataset(ctx context.Context, name, description string, examples []eval.GoldExample) error {
	ds, err := c.getDatasetByName(ctx, name)
	if err != nil {
		return err
	}
	if ds == nil {
		ds, err = c.createDataset(ctx, name, description)
		if err != nil {
			return err
		}
	}

	existing, err := c.listExamples(ctx, ds.ID)
	if err != nil {
		return err
	}
	known := make(map[string]bool, len(existing))
	for _, ex := range existing {
		if q, ok := ex.Inputs["question"].(string); ok {
			known[q] = true
		}
	}

	for _, gold := range examples {
		if known[gold.Question] {
			continue
		}
		if err := c.createExample(ctx, ds.ID, gold); err != nil {
			return err
		}
	}
	return nil
}

// SubmitExperiment creates a tracer session referencing the dataset and posts
// one run per recorded invocation. The evaluators ride along in the session
// metadata; the platform applies them server-side.
func (c *Client) SubmitExperiment(ctx context.Context, req eval.ExperimentRequest) (*eval.Experiment, error) {
	ds, err := c.getDatasetByName(ctx, req.DatasetName)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, fmt.Errorf("dataset %q not found", req.DatasetName)
	}

	examples, err := c.listExamples(ctx, ds.ID)
	if err != nil {
		return nil, err
	}
	exampleIDs := make(map[string]string, len(examples))
	for _, ex := range examples {
		if q, ok := ex.Inputs["question"].(string); ok {
			exampleIDs[q] = ex.ID
		}
	}

	session, err := c.createSession(ctx, req, ds.ID)
	if err != nil {
		return nil, err
	}

	for _, run := range req.Runs {
		if err := c.createRun(ctx, session.ID, exampleIDs[run.Question], run); err != nil {
			return nil, err
		}
	}
	return session, nil
}

func (c *Client) getDatasetByName(ctx context.Context, name string) (*dataset, error) {
	var datasets []dataset
	path := "/datasets?name=" + url.QueryEscape(name)
	if err := c.do(ctx, http.MethodGet, path, nil, &datasets); err != nil {
		return nil, err
	}
	if len(datasets) == 0 {
		return nil, nil
	}
	return &datasets[0], nil
}

func (c *Client) createDataset(ctx context.Context, name, description string) (*dataset, error) {
	body := map[string]string{"name": name, "description": description}
	var ds dataset
	if err := c.do(ctx, http.MethodPost, "/datasets", body, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (c *Client) listExamples(ctx context.Context, datasetID string) ([]example, error) {
	var examples []example
	path := "/examples?dataset=" + url.QueryEscape(datasetID)
	if err := c.do(ctx, http.MethodGet, path, nil, &examples); err != nil {
		return nil, err
	}
	return examples, nil
}

func (c *Client) createExample(ctx context.Context, datasetID string, gold eval.GoldExample) error {
	body := map[string]interface{}{
		"dataset_id": datasetID,
		"inputs":     map[string]string{"question": gold.Question},
		"outputs":    map[string]string{"answer": gold.Answer},
	}
	return c.do(ctx, http.MethodPost, "/examples", body, nil)
}

func (c *Client) createSession(ctx context.Context, req eval.ExperimentRequest, datasetID string) (*eval.Experiment, error) {
	extra := map[string]interface{}{
		"evaluators": req.Evaluators,
		"metadata":   req.Metadata,
	}
	body := map[string]interface{}{
		"name":                 req.Name,
		"reference_dataset_id": datasetID,
		"extra":                extra,
	}
	var session eval.Experiment
	if err := c.do(ctx, http.MethodPost, "/sessions", body, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) createRun(ctx context.Context, sessionID, exampleID string, run eval.Run) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	body := map[string]interface{}{
		"id":         uuid.NewString(),
		"name":       "rag-adapter",
		"run_type":   "chain",
		"session_id": sessionID,
		"inputs":     map[string]string{"question": run.Question},
		"outputs":    map[string]string{"answer": run.Answer, "context": run.Context},
		"start_time": now,
		"end_time":   now,
	}
	if exampleID != "" {
		body["reference_example_id"] = exampleID
	}
	return c.do(ctx, http.MethodPost, "/runs", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("langsmith request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("langsmith %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// compile-time check to ensure Client implements the Platform interface
var _ eval.Platform = (*Client)(nil)
