// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the research stages for one query: plan
// generation, concurrent multi-backend search with merge and ranking, and
// citation-aware answer synthesis. Per-backend failures degrade the result;
// planning or synthesis failures fail the query.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/deep-research/internal/plan"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/synthesize"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	defaultMaxQuestionLen = 2000
	defaultMaxSources     = 10
)

// Error reports a fatal pipeline failure, carrying the stage that failed and
// the underlying cause.
type Error struct {
	Stage types.Stage
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// InvalidQueryError rejects a query before any stage runs.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string { return "invalid query: " + e.Reason }

// Observer receives stage transitions and per-backend completions. All
// methods are fire-and-forget observation; implementations must not block.
// A nil observer is valid and changes nothing.
type Observer interface {
	StageChanged(query types.Query, stage types.Stage)
	BackendCompleted(query types.Query, backend string, results int, err error)
}

// Orchestrator runs the research pipeline. Collaborators are injected at
// construction and shared across queries; all per-query state lives on the
// stack of Execute, so concurrent queries are fully independent.
type Orchestrator struct {
	registry    *search.Registry
	planner     *plan.Generator
	synthesizer *synthesize.Synthesizer
	cfg         types.PipelineConfig
	observer    Observer
}

// NewOrchestrator wires the pipeline from its collaborators. observer may
// be nil.
func NewOrchestrator(registry *search.Registry, planner *plan.Generator, synthesizer *synthesize.Synthesizer, cfg types.PipelineConfig, observer Observer) *Orchestrator {
	if cfg.MaxQuestionLen <= 0 {
		cfg.MaxQuestionLen = defaultMaxQuestionLen
	}
	if cfg.MaxSources <= 0 {
		cfg.MaxSources = defaultMaxSources
	}
	return &Orchestrator{
		registry:    registry,
		planner:     planner,
		synthesizer: synthesizer,
		cfg:         cfg,
		observer:    observer,
	}
}

// Execute runs one question end to end and returns the composite result:
// plan, ranked results, answer, and the stage audit trail. It fails only on
// an invalid query or when planning or synthesis fails; backend failures
// leave a degraded but successful result.
func (o *Orchestrator) Execute(ctx context.Context, question string, backends []string) (*types.ResearchResult, error) {
	question = strings.TrimSpace(question)
	if err := o.validate(question, backends); err != nil {
		return nil, err
	}

	query := types.Query{
		ID:       uuid.NewString(),
		Text:     question,
		Backends: backends,
	}

	started := time.Now()
	var stages []types.StageResult

	// PLANNING. Fatal on failure: no keywords means nothing to search.
	o.notifyStage(query, types.StagePlanning)
	researchPlan, err := o.planner.Plan(ctx, question, backends)
	if err != nil {
		return nil, &Error{Stage: types.StagePlanning, Err: err}
	}
	stages = append(stages, types.StageResult{
		Stage:  types.StagePlanning,
		Status: types.StatusOK,
		Detail: fmt.Sprintf("%d keywords, %d steps", len(researchPlan.Keywords), len(researchPlan.Steps)),
	})

	// SEARCHING. Steps run in order; backends within a step run concurrently.
	o.notifyStage(query, types.StageSearching)
	var ranked []types.SearchResult
	var totalDups int
	for _, step := range researchPlan.Steps {
		candidates, failures := o.runStep(ctx, query, step)
		stages = append(stages, failures...)

		var stats search.MergeStats
		ranked, stats = search.Merge(ranked, candidates, o.cfg.MaxSources)
		totalDups += stats.Duplicates
	}
	stages = append(stages, types.StageResult{
		Stage:  types.StageSearching,
		Status: types.StatusOK,
		Detail: fmt.Sprintf("%d results, %d duplicates removed", len(ranked), totalDups),
	})

	// SYNTHESIZING. An empty ranked set short-circuits inside the
	// synthesizer; only a generation failure is fatal.
	o.notifyStage(query, types.StageSynthesizing)
	answer, err := o.synthesizer.Synthesize(ctx, question, ranked, o.cfg.MaxSources)
	if err != nil {
		return nil, &Error{Stage: types.StageSynthesizing, Err: err}
	}
	stages = append(stages, types.StageResult{
		Stage:  types.StageSynthesizing,
		Status: types.StatusOK,
		Detail: fmt.Sprintf("%d sources cited", len(answer.Citations)),
	})

	o.notifyStage(query, types.StageDone)
	return &types.ResearchResult{
		Query:    query,
		Plan:     researchPlan,
		Results:  ranked,
		Answer:   answer,
		Stages:   stages,
		Started:  started,
		Duration: time.Since(started),
	}, nil
}

// runStep fans one search step out to every backend it names, awaits all
// calls, and returns the flattened candidates plus one failed StageResult
// per backend that errored. Merge order-insensitivity makes backend
// completion order irrelevant to the final ranked set.
func (o *Orchestrator) runStep(ctx context.Context, query types.Query, step types.SearchStep) ([]types.SearchResult, []types.StageResult) {
	type backendResult struct {
		name    string
		results []types.SearchResult
		err     error
	}

	ch := make(chan backendResult, len(step.Backends))
	var wg sync.WaitGroup

	for _, name := range step.Backends {
		backend, ok := o.registry.Lookup(name)
		if !ok {
			// Validation checks requested backends, but a plan step could
			// name something else; record it like any other backend failure.
			ch <- backendResult{name: name, err: fmt.Errorf("unknown backend %q", name)}
			continue
		}

		wg.Add(1)
		go func(b search.Backend) {
			defer wg.Done()
			callCtx := ctx
			if o.cfg.Search.Timeout > 0 {
				var cancel context.CancelFunc
				callCtx, cancel = context.WithTimeout(ctx, o.cfg.Search.Timeout)
				defer cancel()
			}
			results, err := search.WithKeywords(callCtx, b, step.Keywords, o.cfg.Search.MaxResults)
			ch <- backendResult{name: b.Name(), results: results, err: err}
		}(backend)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var candidates []types.SearchResult
	var failures []types.StageResult
	for br := range ch {
		o.notifyBackend(query, br.name, len(br.results), br.err)
		if br.err != nil {
			failures = append(failures, types.StageResult{
				Stage:  types.StageSearching,
				Status: types.StatusFailed,
				Detail: fmt.Sprintf("%s: %v", br.name, br.err),
			})
			continue
		}
		candidates = append(candidates, br.results...)
	}
	return candidates, failures
}

// validate rejects malformed queries synchronously, before PLANNING starts.
func (o *Orchestrator) validate(question string, backends []string) error {
	if question == "" {
		return &InvalidQueryError{Reason: "question is empty"}
	}
	if len(question) > o.cfg.MaxQuestionLen {
		return &InvalidQueryError{Reason: fmt.Sprintf("question exceeds %d characters", o.cfg.MaxQuestionLen)}
	}
	if len(backends) == 0 {
		return &InvalidQueryError{Reason: "no search backends selected"}
	}
	for _, name := range backends {
		if _, ok := o.registry.Lookup(name); !ok {
			return &InvalidQueryError{Reason: fmt.Sprintf("unknown backend %q", name)}
		}
	}
	return nil
}

func (o *Orchestrator) notifyStage(query types.Query, stage types.Stage) {
	if o.observer != nil {
		o.observer.StageChanged(query, stage)
	}
}

func (o *Orchestrator) notifyBackend(query types.Query, backend string, results int, err error) {
	if o.observer != nil {
		o.observer.BackendCompleted(query, backend, results, err)
	}
}
