// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package plan derives an ordered search strategy from a research question:
// a small keyword list from the text-generation capability, split into one
// or two search steps, plus a short strategy narrative.
package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/pkg/types"
)

const (
	keywordTemperature  = 0.3
	strategyTemperature = 0.5

	// mainTopicKeywords is how many leading keywords form the first step;
	// any remainder forms the "specific aspects" step.
	mainTopicKeywords = 3
)

// Error reports that plan generation failed. Planning is all-or-nothing: a
// partial plan with no keywords cannot drive search.
type Error struct {
	Err error
}

func (e *Error) Error() string { return fmt.Sprintf("planning failed: %v", e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Generator turns a question into a ResearchPlan using a text-generation
// capability.
type Generator struct {
	gen genai.Generator
}

// NewGenerator builds a plan generator around gen.
func NewGenerator(gen genai.Generator) *Generator {
	return &Generator{gen: gen}
}

// Plan requests 5-8 topical keywords and a 2-3 sentence strategy narrative,
// then assembles the ordered search steps. Every step targets the full
// backend selection. Either generation call failing fails the whole plan.
func (g *Generator) Plan(ctx context.Context, question string, backends []string) (*types.ResearchPlan, error) {
	keywords, err := g.generateKeywords(ctx, question)
	if err != nil {
		return nil, &Error{Err: err}
	}
	if len(keywords) == 0 {
		return nil, &Error{Err: fmt.Errorf("keyword generation returned no keywords")}
	}

	strategy, err := g.generateStrategy(ctx, question, keywords)
	if err != nil {
		return nil, &Error{Err: err}
	}

	return &types.ResearchPlan{
		Question: question,
		Strategy: strategy,
		Keywords: keywords,
		Steps:    buildSteps(question, keywords, backends),
	}, nil
}

func (g *Generator) generateKeywords(ctx context.Context, question string) ([]string, error) {
	prompt := fmt.Sprintf(`Analyze this research question and generate 5-8 relevant search keywords:

Question: %s

Return only the keywords, one per line, no numbering or bullets.`, question)

	text, err := g.gen.Generate(ctx, []genai.Message{{Role: genai.RoleUser, Content: prompt}}, keywordTemperature)
	if err != nil {
		return nil, fmt.Errorf("generating keywords: %w", err)
	}
	return splitKeywords(text), nil
}

func (g *Generator) generateStrategy(ctx context.Context, question string, keywords []string) (string, error) {
	prompt := fmt.Sprintf(`Create a brief research strategy summary (2-3 sentences) for this question:
Question: %s
Keywords: %s`, question, strings.Join(keywords, ", "))

	text, err := g.gen.Generate(ctx, []genai.Message{{Role: genai.RoleUser, Content: prompt}}, strategyTemperature)
	if err != nil {
		return "", fmt.Errorf("generating strategy: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// buildSteps assembles the ordered search steps: the first covers the main
// topic with the leading keywords; a second covers specific aspects with the
// remainder, only when more keywords were returned.
func buildSteps(question string, keywords, backends []string) []types.SearchStep {
	steps := []types.SearchStep{{
		Description: "Search for main topic: " + question,
		Keywords:    keywords[:min(len(keywords), mainTopicKeywords)],
		Backends:    backends,
	}}

	if len(keywords) > mainTopicKeywords {
		steps = append(steps, types.SearchStep{
			Description: "Search for specific aspects and details",
			Keywords:    keywords[mainTopicKeywords:],
			Backends:    backends,
		})
	}
	return steps
}

// splitKeywords turns the model's response into trimmed, non-empty keyword
// lines, stripping any stray list markers the model added anyway.
func splitKeywords(text string) []string {
	var keywords []string
	for _, line := range strings.Split(text, "\n") {
		kw := strings.TrimSpace(line)
		kw = strings.TrimLeft(kw, "-*0123456789.) ")
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}
