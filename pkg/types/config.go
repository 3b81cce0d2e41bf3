package types

import "time"

// HTTPConfig holds shared HTTP settings used by search backends.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout applied to each backend call.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "deep-research/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the per-backend result limit for one call (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// EnableDuckDuckGo controls whether the DuckDuckGo web backend is registered.
	EnableDuckDuckGo bool `json:"enable_duckduckgo" yaml:"enable_duckduckgo"`

	// EnableArxiv controls whether the arXiv backend is registered.
	EnableArxiv bool `json:"enable_arxiv" yaml:"enable_arxiv"`

	// EnableSemanticScholar controls whether the Semantic Scholar backend is registered.
	EnableSemanticScholar bool `json:"enable_semantic_scholar" yaml:"enable_semantic_scholar"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// AIConfig holds settings for the text-generation capability.
type AIConfig struct {
	// Model is the chat-completion model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the per-request timeout (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// PipelineConfig groups the settings for one research run.
type PipelineConfig struct {
	Search SearchConfig `json:"search" yaml:"search"`
	AI     AIConfig     `json:"ai" yaml:"ai"`

	// MaxQuestionLen bounds the accepted question length (default 2000).
	MaxQuestionLen int `json:"max_question_len" yaml:"max_question_len"`

	// MaxSources is the ranked result set cap and the number of sources
	// presented to the synthesizer (default 10).
	MaxSources int `json:"max_sources" yaml:"max_sources"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// CORSOrigins lists allowed origins; "*" allows any.
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins"`

	// StaticDir is the directory holding the frontend SPA; empty disables
	// static serving.
	StaticDir string `json:"static_dir,omitempty" yaml:"static_dir,omitempty"`

	// RequestLogging enables the request logging middleware.
	RequestLogging bool `json:"request_logging" yaml:"request_logging"`
}

// HistoryConfig holds settings for the query archive.
type HistoryConfig struct {
	// DBPath is the SQLite database file (default "deep-research.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// MaxResults is the default page size for history listings (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config is the root configuration for the deep-research service.
type Config struct {
	Pipeline PipelineConfig `json:"pipeline" yaml:"pipeline"`
	Server   ServerConfig   `json:"server" yaml:"server"`
	History  HistoryConfig  `json:"history" yaml:"history"`
}
