package search

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/pdiddy/deep-research/pkg/types"
)

func candidate(url string, score float64, backend string) types.SearchResult {
	return types.SearchResult{
		Title:          url,
		URL:            url,
		Backend:        backend,
		RelevanceScore: score,
	}
}

// --- URL normalization ---

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"http://X.com/A", "http://x.com/a"},
		{"https://example.com:443/path", "https://example.com/path"},
		{"http://example.com:80/path/", "http://example.com/path"},
		{"http://x.com/a?utm_source=feed&utm_medium=rss", "http://x.com/a"},
		{"http://x.com/a?utm=1", "http://x.com/a"},
		{"http://x.com/a?id=7&fbclid=abc", "http://x.com/a?id=7"},
		{"https://example.com/page#section", "https://example.com/page"},
		{"https://example.com/", "https://example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			if err != nil {
				t.Fatalf("NormalizeURL(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURLRejectsRelative(t *testing.T) {
	for _, input := range []string{"", "not a url at all://", "/relative/path", "example.com/no-scheme"} {
		if _, err := NormalizeURL(input); err == nil {
			t.Errorf("NormalizeURL(%q) should fail", input)
		}
	}
}

// Two URLs that differ only in tracking params normalize identically.
func TestNormalizeURLTrackingVariants(t *testing.T) {
	a, err := NormalizeURL("http://x.com/a?utm=1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NormalizeURL("http://x.com/a")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("variants should normalize identically: %q vs %q", a, b)
	}
}

// --- Merge ---

func TestMergeDedupFirstSeenWins(t *testing.T) {
	existing, _ := Merge(nil, []types.SearchResult{
		candidate("http://x.com/a?utm=1", 0.9, "web"),
	}, 10)

	merged, stats := Merge(existing, []types.SearchResult{
		candidate("http://x.com/a", 0.5, "academic"),
	}, 10)

	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if stats.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", stats.Duplicates)
	}
	// The earlier candidate keeps its score and backend attribution.
	if merged[0].RelevanceScore != 0.9 {
		t.Errorf("score = %f, want 0.9 (first seen)", merged[0].RelevanceScore)
	}
	if merged[0].Backend != "web" {
		t.Errorf("backend = %q, want %q", merged[0].Backend, "web")
	}
}

func TestMergeIdempotent(t *testing.T) {
	batch := []types.SearchResult{
		candidate("http://a.com/1", 0.9, "web"),
		candidate("http://a.com/2", 0.7, "web"),
		candidate("http://a.com/3", 0.5, "web"),
	}

	once, _ := Merge(nil, batch, 10)
	twice, stats := Merge(once, batch, 10)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging the same batch twice changed the set:\nonce:  %v\ntwice: %v", once, twice)
	}
	if stats.Duplicates != len(batch) {
		t.Errorf("Duplicates = %d, want %d", stats.Duplicates, len(batch))
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	batchA := []types.SearchResult{
		candidate("http://a.com/1", 0.9, "web"),
		candidate("http://a.com/2", 0.4, "web"),
	}
	batchB := []types.SearchResult{
		candidate("http://b.com/1", 0.8, "academic"),
		candidate("http://b.com/2", 0.6, "academic"),
	}

	ab1, _ := Merge(nil, batchA, 100)
	ab, _ := Merge(ab1, batchB, 100)
	ba1, _ := Merge(nil, batchB, 100)
	ba, _ := Merge(ba1, batchA, 100)

	urlsAB := urls(ab)
	urlsBA := urls(ba)
	if !reflect.DeepEqual(urlsAB, urlsBA) {
		t.Errorf("merge order changed the ranked set:\nA,B: %v\nB,A: %v", urlsAB, urlsBA)
	}
}

func TestMergeCapEnforced(t *testing.T) {
	var batch []types.SearchResult
	for i := 0; i < 30; i++ {
		batch = append(batch, candidate(fmt.Sprintf("http://x.com/%d", i), 1.0-float64(i)/30.0, "web"))
	}

	merged, _ := Merge(nil, batch, 10)
	if len(merged) != 10 {
		t.Fatalf("len(merged) = %d, want 10", len(merged))
	}
	// The retained entries are exactly the top 10 by score.
	for i := 0; i < 10; i++ {
		want := fmt.Sprintf("http://x.com/%d", i)
		if merged[i].URL != want {
			t.Errorf("merged[%d].URL = %q, want %q", i, merged[i].URL, want)
		}
	}
}

func TestMergeSortsByScoreWithStableTies(t *testing.T) {
	merged, _ := Merge(nil, []types.SearchResult{
		candidate("http://x.com/low", 0.2, "web"),
		candidate("http://x.com/tie1", 0.5, "web"),
		candidate("http://x.com/tie2", 0.5, "web"),
		candidate("http://x.com/high", 0.9, "web"),
	}, 10)

	want := []string{"http://x.com/high", "http://x.com/tie1", "http://x.com/tie2", "http://x.com/low"}
	if !reflect.DeepEqual(urls(merged), want) {
		t.Errorf("order = %v, want %v", urls(merged), want)
	}
}

func TestMergeDropsMalformedSilently(t *testing.T) {
	merged, stats := Merge(nil, []types.SearchResult{
		candidate("", 0.9, "web"),
		candidate("http://ok.com/a", 0.8, "web"),
		candidate("/relative", 0.7, "web"),
	}, 10)

	if len(merged) != 1 {
		t.Fatalf("len(merged) = %d, want 1", len(merged))
	}
	if stats.Malformed != 2 {
		t.Errorf("Malformed = %d, want 2", stats.Malformed)
	}
	if stats.Added != 1 {
		t.Errorf("Added = %d, want 1", stats.Added)
	}
}

func urls(results []types.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.URL
	}
	return out
}
