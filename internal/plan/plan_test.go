// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package plan

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/deep-research/internal/genai"
)

// scriptedGenerator replays canned responses in call order and records the
// prompts and temperatures it was asked with.
type scriptedGenerator struct {
	responses []string
	err       error
	calls     []genai.Message
	temps     []float64
}

func (s *scriptedGenerator) Generate(_ context.Context, messages []genai.Message, temperature float64) (string, error) {
	s.calls = append(s.calls, messages[len(messages)-1])
	s.temps = append(s.temps, temperature)
	if s.err != nil {
		return "", s.err
	}
	i := len(s.calls) - 1
	if i >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", i)
	}
	return s.responses[i], nil
}

func TestPlanTwoSteps(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"battery recycling\nlithium recovery\nhydrometallurgy\ndirect recycling\ncircular economy",
		"Survey recent battery recycling literature. Focus on lithium recovery processes.",
	}}
	g := NewGenerator(gen)

	plan, err := g.Plan(context.Background(), "What are recent advances in battery recycling?", []string{"duckduckgo", "arxiv"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(plan.Keywords) != 5 {
		t.Fatalf("len(Keywords) = %d, want 5", len(plan.Keywords))
	}
	if len(plan.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(plan.Steps))
	}

	first := plan.Steps[0]
	if !strings.HasPrefix(first.Description, "Search for main topic: ") {
		t.Errorf("Steps[0].Description = %q", first.Description)
	}
	wantFirst := []string{"battery recycling", "lithium recovery", "hydrometallurgy"}
	if !reflect.DeepEqual(first.Keywords, wantFirst) {
		t.Errorf("Steps[0].Keywords = %v, want %v", first.Keywords, wantFirst)
	}

	second := plan.Steps[1]
	if second.Description != "Search for specific aspects and details" {
		t.Errorf("Steps[1].Description = %q", second.Description)
	}
	wantSecond := []string{"direct recycling", "circular economy"}
	if !reflect.DeepEqual(second.Keywords, wantSecond) {
		t.Errorf("Steps[1].Keywords = %v, want %v", second.Keywords, wantSecond)
	}

	// Every step carries the full backend selection.
	for i, step := range plan.Steps {
		if !reflect.DeepEqual(step.Backends, []string{"duckduckgo", "arxiv"}) {
			t.Errorf("Steps[%d].Backends = %v", i, step.Backends)
		}
	}
}

func TestPlanSingleStepWhenFewKeywords(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{
		"graphene\nsuperconductivity",
		"Look into graphene superconductivity research.",
	}}
	g := NewGenerator(gen)

	plan, err := g.Plan(context.Background(), "Is graphene a superconductor?", []string{"arxiv"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Steps) != 1 {
		t.Fatalf("len(Steps) = %d, want 1 for %d keywords", len(plan.Steps), len(plan.Keywords))
	}
	if !reflect.DeepEqual(plan.Steps[0].Keywords, []string{"graphene", "superconductivity"}) {
		t.Errorf("Steps[0].Keywords = %v", plan.Steps[0].Keywords)
	}
}

func TestPlanTemperatures(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"kw1\nkw2", "strategy"}}
	g := NewGenerator(gen)

	if _, err := g.Plan(context.Background(), "q", []string{"duckduckgo"}); err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(gen.temps) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(gen.temps))
	}
	if gen.temps[0] != 0.3 {
		t.Errorf("keyword temperature = %f, want 0.3", gen.temps[0])
	}
	if gen.temps[1] != 0.5 {
		t.Errorf("strategy temperature = %f, want 0.5", gen.temps[1])
	}
	if !strings.Contains(gen.calls[0].Content, "5-8 relevant search keywords") {
		t.Errorf("keyword prompt missing instruction: %q", gen.calls[0].Content)
	}
	if !strings.Contains(gen.calls[1].Content, "research strategy summary") {
		t.Errorf("strategy prompt missing instruction: %q", gen.calls[1].Content)
	}
}

func TestPlanGenerationFailure(t *testing.T) {
	cause := errors.New("model unavailable")
	g := NewGenerator(&scriptedGenerator{err: cause})

	_, err := g.Plan(context.Background(), "q", []string{"duckduckgo"})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *plan.Error, got %T: %v", err, err)
	}
	if !errors.Is(err, cause) {
		t.Error("plan error should wrap the generation failure")
	}
}

func TestPlanEmptyKeywordsFails(t *testing.T) {
	g := NewGenerator(&scriptedGenerator{responses: []string{"\n  \n", "unused"}})

	_, err := g.Plan(context.Background(), "q", []string{"duckduckgo"})
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("expected *plan.Error for empty keywords, got %T: %v", err, err)
	}
}

func TestSplitKeywords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "plain lines",
			input: "alpha\nbeta\ngamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "numbered list",
			input: "1. alpha\n2. beta\n3) gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "bullets and blanks",
			input: "- alpha\n\n* beta\n  \n- gamma",
			want:  []string{"alpha", "beta", "gamma"},
		},
		{
			name:  "whitespace trimmed",
			input: "  alpha  \n\tbeta\t",
			want:  []string{"alpha", "beta"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitKeywords(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitKeywords(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
