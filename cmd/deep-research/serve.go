// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/internal/history"
	"github.com/pdiddy/deep-research/internal/pipeline"
	"github.com/pdiddy/deep-research/internal/plan"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/server"
	"github.com/pdiddy/deep-research/internal/synthesize"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the research pipeline over HTTP",
	Long: `Serve exposes the pipeline as a JSON API: POST /api/research runs one
query synchronously, GET /api/history lists archived runs, GET /health
reports liveness. With a static directory configured it also serves the
frontend SPA.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		if staticDir, _ := cmd.Flags().GetString("static"); staticDir != "" {
			cfg.Server.StaticDir = staticDir
		}

		log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "deep-research").Logger()

		generator, err := genai.NewOpenAIGenerator(cfg.Pipeline.AI)
		if err != nil {
			return err
		}

		archive, err := history.Open(cfg.History)
		if err != nil {
			return fmt.Errorf("opening history archive: %w", err)
		}
		defer archive.Close()

		orch := pipeline.NewOrchestrator(
			search.NewRegistry(cfg.Pipeline.Search, nil),
			plan.NewGenerator(generator),
			synthesize.NewSynthesizer(generator),
			cfg.Pipeline,
			&logObserver{log: log},
		)

		srv := server.New(orch, archive, cfg.Server, log, version)

		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		return http.ListenAndServe(cfg.Server.Addr, srv.Handler())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	serveCmd.Flags().String("static", "", "frontend static directory (overrides config)")

	rootCmd.AddCommand(serveCmd)
}
