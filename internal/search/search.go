// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries web and academic search providers through a uniform
// backend contract and merges their candidates into a single ranked,
// deduplicated result set.
package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/deep-research/pkg/types"
)

// Backend executes one query against one external search provider. Each
// provider (DuckDuckGo, arXiv, Semantic Scholar) implements this interface
// per the Strategy pattern. Backends are stateless with respect to a query
// and safe for concurrent use.
//
// A backend returns an empty slice, not an error, when the provider finds
// nothing. Provider-level failures (network error, non-2xx status, malformed
// payload) surface as *BackendError.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, limit int) ([]types.SearchResult, error)
}

// BackendError reports a provider-level failure of one backend call. The
// pipeline records these per call and never treats them as fatal.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s unavailable: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// WithKeywords joins a keyword group into one query string with single-space
// separators and delegates to the backend's Search.
func WithKeywords(ctx context.Context, b Backend, keywords []string, limit int) ([]types.SearchResult, error) {
	return b.Search(ctx, strings.Join(keywords, " "), limit)
}

// positionScore assigns a monotonically decreasing relevance score by result
// position for providers with no native relevance signal: rank 1 scores 1.0,
// the last rank scores 0.1.
func positionScore(i, total int) float64 {
	if total <= 1 {
		return 1.0
	}
	return 1.0 - float64(i)/float64(total-1)*0.9
}

// Registry holds the configured backends keyed by identifier. Registration
// order is preserved so callers can enumerate backends deterministically.
type Registry struct {
	order    []string
	backends map[string]Backend
}

// NewRegistry builds the enabled backends from config, sharing one HTTP
// client across providers.
func NewRegistry(cfg types.SearchConfig, client *http.Client) *Registry {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	r := &Registry{backends: make(map[string]Backend)}
	if cfg.EnableDuckDuckGo {
		r.Register(&DuckDuckGoBackend{Client: client, UserAgent: cfg.UserAgent})
	}
	if cfg.EnableArxiv {
		r.Register(&ArxivBackend{Client: client, UserAgent: cfg.UserAgent})
	}
	if cfg.EnableSemanticScholar {
		r.Register(&SemanticScholarBackend{
			Client:    client,
			UserAgent: cfg.UserAgent,
			APIKey:    cfg.SemanticScholarAPIKey,
		})
	}
	return r
}

// Register adds a backend under its own name. A later registration with the
// same name replaces the earlier one.
func (r *Registry) Register(b Backend) {
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	name := b.Name()
	if _, ok := r.backends[name]; !ok {
		r.order = append(r.order, name)
	}
	r.backends[name] = b
}

// Lookup returns the backend registered under name.
func (r *Registry) Lookup(name string) (Backend, bool) {
	b, ok := r.backends[name]
	return b, ok
}

// Names returns the registered backend identifiers in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
