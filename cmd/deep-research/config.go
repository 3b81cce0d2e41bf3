// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/deep-research/pkg/types"
)

// configDefaults registers every setting with its default so a bare install
// works without a config file.
func configDefaults() {
	viper.SetDefault("pipeline.search.timeout", 15*time.Second)
	viper.SetDefault("pipeline.search.user_agent", "deep-research/"+version)
	viper.SetDefault("pipeline.search.max_results", 10)
	viper.SetDefault("pipeline.search.enable_duckduckgo", true)
	viper.SetDefault("pipeline.search.enable_arxiv", true)
	viper.SetDefault("pipeline.search.enable_semantic_scholar", true)
	viper.SetDefault("pipeline.ai.model", "gpt-4o-mini")
	viper.SetDefault("pipeline.ai.timeout", 60*time.Second)
	viper.SetDefault("pipeline.max_question_len", 2000)
	viper.SetDefault("pipeline.max_sources", 10)
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.cors_origins", []string{"*"})
	viper.SetDefault("server.request_logging", true)
	viper.SetDefault("history.db_path", "deep-research.db")
	viper.SetDefault("history.max_results", 20)
}

// loadConfig assembles the runtime configuration from config file, env, and
// loaded secrets. Secrets fill API keys the config leaves empty.
func loadConfig() types.Config {
	configDefaults()

	cfg := types.Config{
		Pipeline: types.PipelineConfig{
			Search: types.SearchConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:   viper.GetDuration("pipeline.search.timeout"),
					UserAgent: viper.GetString("pipeline.search.user_agent"),
				},
				MaxResults:            viper.GetInt("pipeline.search.max_results"),
				EnableDuckDuckGo:      viper.GetBool("pipeline.search.enable_duckduckgo"),
				EnableArxiv:           viper.GetBool("pipeline.search.enable_arxiv"),
				EnableSemanticScholar: viper.GetBool("pipeline.search.enable_semantic_scholar"),
				SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", viper.GetString("pipeline.search.semantic_scholar_api_key")),
			},
			AI: types.AIConfig{
				Model:   viper.GetString("pipeline.ai.model"),
				APIKey:  secretDefault("openai-api-key", viper.GetString("pipeline.ai.api_key")),
				BaseURL: viper.GetString("pipeline.ai.base_url"),
				Timeout: viper.GetDuration("pipeline.ai.timeout"),
			},
			MaxQuestionLen: viper.GetInt("pipeline.max_question_len"),
			MaxSources:     viper.GetInt("pipeline.max_sources"),
		},
		Server: types.ServerConfig{
			Addr:           viper.GetString("server.addr"),
			CORSOrigins:    viper.GetStringSlice("server.cors_origins"),
			StaticDir:      viper.GetString("server.static_dir"),
			RequestLogging: viper.GetBool("server.request_logging"),
		},
		History: types.HistoryConfig{
			DBPath:     viper.GetString("history.db_path"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
	return cfg
}
