// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the deep-research pipeline.
package types

import "time"

// Query is one research question as accepted at the system boundary.
// Immutable once created.
type Query struct {
	// ID is an opaque unique token assigned when the query enters the system.
	ID string `json:"id" yaml:"id"`

	// Text is the research question.
	Text string `json:"text" yaml:"text"`

	// Backends lists the search backend identifiers requested for this query
	// (e.g. "duckduckgo", "arxiv", "semantic_scholar").
	Backends []string `json:"backends" yaml:"backends"`
}

// SearchResult is one candidate returned by a search backend, before
// deduplication and ranking. Identity for dedup purposes is the normalized URL.
type SearchResult struct {
	// Title is the result title as returned by the backend.
	Title string `json:"title" yaml:"title"`

	// URL is the absolute URL of the result.
	URL string `json:"url" yaml:"url"`

	// Snippet is a short excerpt or abstract.
	Snippet string `json:"snippet" yaml:"snippet"`

	// Backend identifies which backend found this result.
	Backend string `json:"backend" yaml:"backend"`

	// RelevanceScore is a value between 0.0 and 1.0. Backends without a
	// native relevance signal assign a position-derived score.
	RelevanceScore float64 `json:"relevance_score" yaml:"relevance_score"`

	// Authors lists authors in source order, when the backend provides them.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the publication date, when the backend provides one.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`
}

// SearchStep is one unit of the research plan: a keyword group searched
// against a subset of the requested backends.
type SearchStep struct {
	Description string   `json:"description" yaml:"description"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
	Backends    []string `json:"backends" yaml:"backends"`
}

// ResearchPlan is the ordered search strategy derived from a question.
// Immutable after creation.
type ResearchPlan struct {
	Question string       `json:"question" yaml:"question"`
	Strategy string       `json:"strategy" yaml:"strategy"`
	Keywords []string     `json:"keywords" yaml:"keywords"`
	Steps    []SearchStep `json:"steps" yaml:"steps"`
}

// Citation maps a 1-based index used in answer text to its source result.
// Indices are contiguous starting at 1 and correspond to the order sources
// were presented to the synthesizer.
type Citation struct {
	Index   int    `json:"index" yaml:"index"`
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

// SynthesizedAnswer is the terminal artifact of one query: markdown-like
// text with bracketed [n] citation markers.
type SynthesizedAnswer struct {
	Content    string     `json:"content" yaml:"content"`
	Citations  []Citation `json:"citations" yaml:"citations"`
	Confidence float64    `json:"confidence" yaml:"confidence"`
}

// Stage names one phase of the pipeline state machine.
type Stage string

const (
	StagePlanning     Stage = "planning"
	StageSearching    Stage = "searching"
	StageSynthesizing Stage = "synthesizing"
	StageDone         Stage = "done"
)

// StageStatus is the outcome of one stage record.
type StageStatus string

const (
	StatusOK     StageStatus = "ok"
	StatusFailed StageStatus = "failed"
)

// StageResult is one entry in the per-query audit trail. The pipeline
// records one entry per completed stage plus one per failed backend call.
type StageResult struct {
	Stage  Stage       `json:"stage" yaml:"stage"`
	Status StageStatus `json:"status" yaml:"status"`
	Detail string      `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ResearchResult is the composite outcome of one query: the plan, the final
// ranked result set, the synthesized answer, and the stage audit trail.
type ResearchResult struct {
	Query   Query              `json:"query" yaml:"query"`
	Plan    *ResearchPlan      `json:"plan" yaml:"plan"`
	Results []SearchResult     `json:"results" yaml:"results"`
	Answer  *SynthesizedAnswer `json:"answer" yaml:"answer"`
	Stages  []StageResult      `json:"stages" yaml:"stages"`

	// Started and Duration describe the end-to-end run.
	Started  time.Time     `json:"started" yaml:"started"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}
