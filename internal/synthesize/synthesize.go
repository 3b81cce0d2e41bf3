// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package synthesize turns a ranked result set and the original question
// into a structured, citation-indexed answer via the text-generation
// capability.
package synthesize

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	answerTemperature = 0.5

	// defaultConfidence is a fixed value assigned on success. No calibrated
	// signal exists, so the model's own certainty is not consulted.
	defaultConfidence = 0.85

	// DefaultMaxSources bounds how many ranked results are presented.
	DefaultMaxSources = 10

	// snippetLimit truncates citation snippets, in runes.
	snippetLimit = 200

	// NoInformationFound is the fixed content returned when the ranked
	// result set is empty. This is a documented short-circuit, not a failure.
	NoInformationFound = "I couldn't find relevant information to answer your question."
)

// Error reports that the text-generation call for the answer failed.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("synthesis failed: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Synthesizer produces cited answers from ranked search results.
type Synthesizer struct {
	gen genai.Generator
}

// NewSynthesizer builds a synthesizer around gen.
func NewSynthesizer(gen genai.Generator) *Synthesizer {
	return &Synthesizer{gen: gen}
}

// Synthesize presents the first maxSources results, in their given order, to
// the text-generation capability and returns the structured answer. Citation
// index i refers to the i-th presented result, 1-based. An empty result set
// short-circuits to a fixed "no information" answer without a generation
// call; a failed generation call returns *Error, never placeholder text.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, results []types.SearchResult, maxSources int) (*types.SynthesizedAnswer, error) {
	if len(results) == 0 {
		return &types.SynthesizedAnswer{Content: NoInformationFound}, nil
	}

	if maxSources <= 0 {
		maxSources = DefaultMaxSources
	}
	sources := results[:min(len(results), maxSources)]

	var ctxBlock strings.Builder
	citations := make([]types.Citation, 0, len(sources))
	for i, r := range sources {
		fmt.Fprintf(&ctxBlock, "[%d] %s\n%s\n\n", i+1, r.Title, r.Snippet)
		citations = append(citations, types.Citation{
			Index:   i + 1,
			Title:   r.Title,
			URL:     r.URL,
			Snippet: truncateRunes(r.Snippet, snippetLimit),
		})
	}

	prompt := fmt.Sprintf(`Based on the following search results, provide a comprehensive answer to the research question.
Include citations using [n] format to reference the sources.

Research Question: %s

Search Results:
%s
Provide a well-structured answer with:
1. A clear introduction
2. Main findings and details
3. A brief conclusion
4. Use [n] citations to reference sources

Answer:`, question, ctxBlock.String())

	content, err := s.gen.Generate(ctx, []genai.Message{{Role: genai.RoleUser, Content: prompt}}, answerTemperature)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return &types.SynthesizedAnswer{
		Content:    strings.TrimSpace(content),
		Citations:  citations,
		Confidence: defaultConfidence,
	}, nil
}

// citationMarker matches bracketed citation indices like [3].
var citationMarker = regexp.MustCompile(`\[(\d+)\]`)

// CitedIndices returns the distinct citation indices referenced in answer
// text, in first-use order.
func CitedIndices(content string) []int {
	var indices []int
	seen := make(map[int]bool)
	for _, m := range citationMarker.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || seen[n] {
			continue
		}
		seen[n] = true
		indices = append(indices, n)
	}
	return indices
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
