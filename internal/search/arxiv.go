// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv Atom API for academic papers.
type ArxivBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search queries arXiv and returns candidates with a position-derived
// relevance score.
func (b *ArxivBackend) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	q := buildArxivQuery(query)
	if q == "" {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("empty query")}
	}
	if limit <= 0 {
		limit = 10
	}

	reqURL := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=relevance&sortOrder=descending",
		arxivAPIBase, q, limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("arXiv API request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)}
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("parsing arXiv response: %w", err)}
	}

	total := len(feed.Entries)
	var results []types.SearchResult
	for i, entry := range feed.Entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			continue
		}

		r := types.SearchResult{
			Title:          strings.Join(strings.Fields(entry.Title), " "),
			URL:            id,
			Snippet:        strings.TrimSpace(entry.Summary),
			Backend:        b.Name(),
			RelevanceScore: positionScore(i, total),
		}

		for _, a := range entry.Authors {
			r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
		}

		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			r.Published = t
		}

		results = append(results, r)
	}
	return results, nil
}

// buildArxivQuery constructs the search_query parameter: every whitespace
// separated term is ANDed in the all: field.
func buildArxivQuery(query string) string {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return ""
	}
	return "all:" + strings.Join(terms, "+")
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
