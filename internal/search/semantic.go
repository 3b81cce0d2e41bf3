// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,url,authors,year,publicationDate"

// SemanticScholarBackend queries the Semantic Scholar Graph API.
type SemanticScholarBackend struct {
	Client    *http.Client
	UserAgent string
	APIKey    string
}

// Name returns the backend identifier.
func (b *SemanticScholarBackend) Name() string { return "semantic_scholar" }

// Search queries Semantic Scholar and returns candidates with a
// position-derived relevance score. The API rate-limits anonymous callers
// aggressively, so requests go through the shared 429 retry helper.
func (b *SemanticScholarBackend) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("empty query")}
	}
	if limit <= 0 {
		limit = 10
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}
	reqURL := semanticAPIBase + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("Semantic Scholar API request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)}
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("parsing Semantic Scholar response: %w", err)}
	}

	total := len(sr.Data)
	var results []types.SearchResult
	for i, paper := range sr.Data {
		resultURL := paper.URL
		if resultURL == "" && paper.PaperID != "" {
			resultURL = "https://www.semanticscholar.org/paper/" + paper.PaperID
		}
		if resultURL == "" {
			continue
		}

		r := types.SearchResult{
			Title:          paper.Title,
			URL:            resultURL,
			Snippet:        paper.Abstract,
			Backend:        b.Name(),
			RelevanceScore: positionScore(i, total),
		}

		for _, a := range paper.Authors {
			r.Authors = append(r.Authors, a.Name)
		}

		if paper.PublicationDate != "" {
			if t, parseErr := time.Parse("2006-01-02", paper.PublicationDate); parseErr == nil {
				r.Published = t
			}
		} else if paper.Year > 0 {
			r.Published = time.Date(paper.Year, 1, 1, 0, 0, 0, 0, time.UTC)
		}

		results = append(results, r)
	}
	return results, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID         string           `json:"paperId"`
	Title           string           `json:"title"`
	Abstract        string           `json:"abstract"`
	URL             string           `json:"url"`
	Year            int              `json:"year"`
	PublicationDate string           `json:"publicationDate"`
	Authors         []semanticAuthor `json:"authors"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}
