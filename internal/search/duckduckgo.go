// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/deep-research/internal/httputil"
	"github.com/pdiddy/deep-research/pkg/types"
)

// duckduckgoAPIBase is the DuckDuckGo HTML endpoint. Declared as a var so
// tests can substitute an httptest server. No authentication required.
var duckduckgoAPIBase = "https://html.duckduckgo.com/html/"

// DuckDuckGoBackend scrapes the DuckDuckGo HTML results page for general web
// content.
type DuckDuckGoBackend struct {
	Client    *http.Client
	UserAgent string
}

// Name returns the backend identifier.
func (b *DuckDuckGoBackend) Name() string { return "duckduckgo" }

// Search queries DuckDuckGo and returns up to limit web results with a
// position-derived relevance score.
func (b *DuckDuckGoBackend) Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("empty query")}
	}
	if limit <= 0 {
		limit = 10
	}

	reqURL := duckduckgoAPIBase + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, 0)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("DuckDuckGo request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("DuckDuckGo returned HTTP %d", resp.StatusCode)}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &BackendError{Backend: b.Name(), Err: fmt.Errorf("parsing DuckDuckGo response: %w", err)}
	}

	var raw []types.SearchResult
	doc.Find("div.result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find("a.result__a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		target := resolveDuckDuckGoLink(href)
		if target == "" {
			return
		}

		raw = append(raw, types.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     target,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			Backend: b.Name(),
		})
	})

	if len(raw) > limit {
		raw = raw[:limit]
	}
	for i := range raw {
		raw[i].RelevanceScore = positionScore(i, len(raw))
	}
	return raw, nil
}

// resolveDuckDuckGoLink unwraps DuckDuckGo's redirect links
// (//duckduckgo.com/l/?uddg=<encoded>) to the target URL. Direct links are
// returned as-is.
func resolveDuckDuckGoLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	// Query() already percent-decodes the uddg parameter.
	if uddg := u.Query().Get("uddg"); uddg != "" {
		return uddg
	}
	if u.Scheme == "" {
		// Protocol-relative redirect with no uddg parameter: not a result link.
		return ""
	}
	return href
}
