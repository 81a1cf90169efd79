// Package eval runs scored question-answering experiments over an ingested
// resume. Scoring happens on the evaluation platform; this package only
// ingests, generates and submits.
package eval

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GoldExample is one reference question/answer pair.
type GoldExample struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}

type goldFile struct {
	QA []GoldExample `yaml:"qa"`
}

// LoadGold reads the gold Q&A yaml file. The file holds a top-level `qa:`
// list of question/answer pairs.
func LoadGold(path string) ([]GoldExample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gold file: %w", err)
	}
	var file goldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse gold file: %w", err)
	}
	for i, ex := range file.QA {
		if ex.Question == "" {
			return nil, fmt.Errorf("gold example %d has an empty question", i)
		}
	}
	return file.QA, nil
}
