package eval

import "context"

// Evaluator criteria submitted with every experiment. The platform computes
// the scores; none of them run locally.
const (
	EvaluatorQAWithReference = "qa_with_reference"
	EvaluatorFaithfulness    = "faithfulness"
	EvaluatorAnswerRelevancy = "answer_relevancy"
	EvaluatorConciseness     = "conciseness"
)

// DefaultEvaluators is the criteria set applied to every experiment.
func DefaultEvaluators() []string {
	return []string{
		EvaluatorQAWithReference,
		EvaluatorFaithfulness,
		EvaluatorAnswerRelevancy,
		EvaluatorConciseness,
	}
}

// Run is one recorded pipeline invocation against a dataset example.
type Run struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Context  string `json:"context"`
}

// ExperimentRequest bundles everything one experiment submission needs.
type ExperimentRequest struct {
	Name        string                 `json:"name"`
	DatasetName string                 `json:"dataset_name"`
	Evaluators  []string               `json:"evaluators"`
	Metadata    map[string]interface{} `json:"metadata"`
	Runs        []Run                  `json:"runs"`
}

// Experiment is the platform's record of a submitted experiment.
type Experiment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Platform is the evaluation-platform boundary: dataset CRUD by name and
// experiment submission under a label.
type Platform interface {
	// EnsureDataset creates the dataset if missing and appends examples whose
	// questions are not yet present. Existing examples are never modified.
	EnsureDataset(ctx context.Context, name, description string, examples []GoldExample) error
	// SubmitExperiment records the runs under the experiment name and asks the
	// platform to score them with the named evaluators.
	SubmitExperiment(ctx context.Context, req ExperimentRequest) (*Experiment, error)
}
