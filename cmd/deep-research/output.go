// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// printResult writes a human-readable rendition of one research run: the
// strategy, a ranked source table, the answer, and the stage audit trail.
func printResult(w io.Writer, result *types.ResearchResult) {
	if result.Plan != nil && result.Plan.Strategy != "" {
		fmt.Fprintf(w, "Strategy: %s\n\n", result.Plan.Strategy)
	}

	if len(result.Results) == 0 {
		fmt.Fprintln(w, "No sources found.")
	} else {
		fmt.Fprintf(w, "%-4s  %-60s  %-6s  %s\n", "Rank", "Title", "Score", "Backend")
		fmt.Fprintln(w, strings.Repeat("-", 90))
		for i, r := range result.Results {
			title := r.Title
			if len(title) > 60 {
				title = title[:57] + "..."
			}
			fmt.Fprintf(w, "%-4d  %-60s  %-6.2f  %s\n", i+1, title, r.RelevanceScore, r.Backend)
		}
		fmt.Fprintln(w)
	}

	if result.Answer != nil {
		fmt.Fprintln(w, result.Answer.Content)
		if len(result.Answer.Citations) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Sources:")
			for _, c := range result.Answer.Citations {
				fmt.Fprintf(w, "  [%d] %s\n      %s\n", c.Index, c.Title, c.URL)
			}
		}
	}

	failed := 0
	for _, s := range result.Stages {
		if s.Status == types.StatusFailed {
			failed++
			fmt.Fprintf(w, "\nwarning: %s\n", s.Detail)
		}
	}
	fmt.Fprintf(w, "\n%d sources in %s", len(result.Results), result.Duration.Round(time.Millisecond))
	if failed > 0 {
		fmt.Fprintf(w, " (%d backend calls failed)", failed)
	}
	fmt.Fprintln(w)
}
