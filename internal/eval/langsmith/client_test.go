package langsmith

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumerag/internal/eval"
)

// fakeLangSmith is an in-memory stand-in for the platform API used to drive
// the client through the full dataset and experiment flow.
type fakeLangSmith struct {
	datasets map[string]string              // name -> id
	examples map[string][]map[string]string // dataset id -> questions
	sessions []map[string]interface{}
	runs     []map[string]interface{}
	apiKeys  []string
}

func newFakeLangSmith() *fakeLangSmith {
	return &fakeLangSmith{
		datasets: make(map[string]string),
		examples: make(map[string][]map[string]string),
	}
}

func (f *fakeLangSmith) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/datasets", func(w http.ResponseWriter, r *http.Request) {
		f.apiKeys = append(f.apiKeys, r.Header.Get("x-api-key"))
		switch r.Method {
		case http.MethodGet:
			name := r.URL.Query().Get("name")
			var out []map[string]string
			if id, ok := f.datasets[name]; ok {
				out = append(out, map[string]string{"id": id, "name": name})
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			id := "ds-" + body["name"]
			f.datasets[body["name"]] = id
			json.NewEncoder(w).Encode(map[string]string{"id": id, "name": body["name"]})
		}
	})
	mux.HandleFunc("/examples", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			id := r.URL.Query().Get("dataset")
			out := make([]map[string]interface{}, 0)
			for _, ex := range f.examples[id] {
				out = append(out, map[string]interface{}{
					"id":     ex["id"],
					"inputs": map[string]string{"question": ex["question"]},
				})
			}
			json.NewEncoder(w).Encode(out)
		case http.MethodPost:
			var body struct {
				DatasetID string            `json:"dataset_id"`
				Inputs    map[string]string `json:"inputs"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			f.examples[body.DatasetID] = append(f.examples[body.DatasetID], map[string]string{
				"id":       "ex-" + body.Inputs["question"],
				"question": body.Inputs["question"],
			})
			w.WriteHeader(http.StatusCreated)
		}
	})
	mux.HandleFunc("/sessions", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.sessions = append(f.sessions, body)
		json.NewEncoder(w).Encode(map[string]string{"id": "sess-1", "name": body["name"].(string)})
	})
	mux.HandleFunc("/runs", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.runs = append(f.runs, body)
		w.WriteHeader(http.StatusCreated)
	})
	return mux
}

func TestEnsureDatasetCreatesAndAppends(t *testing.T) {
	fake := newFakeLangSmith()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	ctx := context.Background()

	gold := []eval.GoldExample{
		{Question: "Q1", Answer: "A1"},
		{Question: "Q2", Answer: "A2"},
	}
	require.NoError(t, client.EnsureDataset(ctx, "Resume-QA::jane", "desc", gold))

	id := fake.datasets["Resume-QA::jane"]
	require.NotEmpty(t, id)
	assert.Len(t, fake.examples[id], 2)

	// Second call with one new question appends only that question.
	gold = append(gold, eval.GoldExample{Question: "Q3", Answer: "A3"})
	require.NoError(t, client.EnsureDataset(ctx, "Resume-QA::jane", "desc", gold))
	assert.Len(t, fake.examples[id], 3)

	for _, key := range fake.apiKeys {
		assert.Equal(t, "test-key", key)
	}
}

func TestSubmitExperiment(t *testing.T) {
	fake := newFakeLangSmith()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	ctx := context.Background()

	gold := []eval.GoldExample{{Question: "Q1", Answer: "A1"}}
	require.NoError(t, client.EnsureDataset(ctx, "Resume-QA::jane", "desc", gold))

	experiment, err := client.SubmitExperiment(ctx, eval.ExperimentRequest{
		Name:        "manual::jane::smoke",
		DatasetName: "Resume-QA::jane",
		Evaluators:  eval.DefaultEvaluators(),
		Metadata:    map[string]interface{}{"rerank": "none"},
		Runs: []eval.Run{
			{Question: "Q1", Answer: "generated", Context: "ctx"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "sess-1", experiment.ID)

	require.Len(t, fake.sessions, 1)
	session := fake.sessions[0]
	assert.Equal(t, "manual::jane::smoke", session["name"])
	assert.Equal(t, "ds-Resume-QA::jane", session["reference_dataset_id"])

	require.Len(t, fake.runs, 1)
	run := fake.runs[0]
	assert.Equal(t, "sess-1", run["session_id"])
	assert.Equal(t, "ex-Q1", run["reference_example_id"])
	outputs := run["outputs"].(map[string]interface{})
	assert.Equal(t, "generated", outputs["answer"])
}

func TestSubmitExperimentUnknownDataset(t *testing.T) {
	fake := newFakeLangSmith()
	server := httptest.NewServer(fake.handler())
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	_, err := client.SubmitExperiment(context.Background(), eval.ExperimentRequest{
		Name:        "exp",
		DatasetName: "missing",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestClientSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClientWithBaseURL("test-key", server.URL)
	err := client.EnsureDataset(context.Background(), "ds", "desc", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
