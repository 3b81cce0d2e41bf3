// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/deep-research/pkg/types"
)

// RequestFile is the on-disk representation of one research request, so a
// repeatable query can live in version control next to its saved result.
type RequestFile struct {
	Question string   `yaml:"question"`
	Backends []string `yaml:"backends"`
}

// ReadRequestFile loads a research request from a YAML file.
func ReadRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	var rf RequestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	return &rf, nil
}

// ResultFile is the on-disk representation of one completed research run.
// The researcher can save a run to a file and reload it later without
// re-querying backends or the generation API.
type ResultFile struct {
	Question string                   `yaml:"question"`
	Backends []string                 `yaml:"backends"`
	Plan     *types.ResearchPlan      `yaml:"plan"`
	Results  []types.SearchResult     `yaml:"results"`
	Answer   *types.SynthesizedAnswer `yaml:"answer"`
	Stages   []types.StageResult      `yaml:"stages"`
	Summary  ResultSummary            `yaml:"summary"`
}

// ResultSummary stores run statistics and a timestamp.
type ResultSummary struct {
	Sources   int           `yaml:"sources"`
	Failed    int           `yaml:"failed_backend_calls"`
	Duration  time.Duration `yaml:"duration"`
	Timestamp time.Time     `yaml:"timestamp"`
}

// WriteResultFile saves a completed research result to a YAML file.
func WriteResultFile(path string, result *types.ResearchResult) error {
	failed := 0
	for _, s := range result.Stages {
		if s.Status == types.StatusFailed {
			failed++
		}
	}

	rf := ResultFile{
		Question: result.Query.Text,
		Backends: result.Query.Backends,
		Plan:     result.Plan,
		Results:  result.Results,
		Answer:   result.Answer,
		Stages:   result.Stages,
		Summary: ResultSummary{
			Sources:   len(result.Results),
			Failed:    failed,
			Duration:  result.Duration,
			Timestamp: time.Now(),
		},
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling result file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResultFile loads a previously saved research result from disk.
func ReadResultFile(path string) (*ResultFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result file: %w", err)
	}
	var rf ResultFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing result file: %w", err)
	}
	return &rf, nil
}
