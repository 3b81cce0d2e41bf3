// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/genai"
	"github.com/pdiddy/deep-research/internal/history"
	"github.com/pdiddy/deep-research/internal/pipeline"
	"github.com/pdiddy/deep-research/internal/plan"
	"github.com/pdiddy/deep-research/internal/search"
	"github.com/pdiddy/deep-research/internal/synthesize"
	"github.com/pdiddy/deep-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Run one research query end to end",
	Long: `Research derives a search plan from the question, queries the selected
backends concurrently, merges and ranks their results, and synthesizes a
cited answer. Backend failures degrade the result; the answer is produced
from whatever the remaining backends returned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		backendsFlag, _ := cmd.Flags().GetString("backends")
		asJSON, _ := cmd.Flags().GetBool("json")
		savePath, _ := cmd.Flags().GetString("save")
		noArchive, _ := cmd.Flags().GetBool("no-archive")
		verbose, _ := cmd.Flags().GetBool("verbose")
		filePath, _ := cmd.Flags().GetString("file")

		question := ""
		if len(args) == 1 {
			question = args[0]
		}
		backends := splitList(backendsFlag)

		if filePath != "" {
			req, err := pipeline.ReadRequestFile(filePath)
			if err != nil {
				return err
			}
			if question == "" {
				question = req.Question
			}
			if len(req.Backends) > 0 && !cmd.Flags().Changed("backends") {
				backends = req.Backends
			}
		}
		if question == "" {
			return fmt.Errorf("a question is required, as an argument or via --file")
		}

		generator, err := genai.NewOpenAIGenerator(cfg.Pipeline.AI)
		if err != nil {
			return err
		}

		var observer pipeline.Observer
		if verbose {
			log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
			observer = &logObserver{log: log}
		}

		orch := pipeline.NewOrchestrator(
			search.NewRegistry(cfg.Pipeline.Search, nil),
			plan.NewGenerator(generator),
			synthesize.NewSynthesizer(generator),
			cfg.Pipeline,
			observer,
		)

		result, err := orch.Execute(cmd.Context(), question, backends)
		if err != nil {
			return err
		}

		if !noArchive {
			if archive, openErr := history.Open(cfg.History); openErr == nil {
				defer archive.Close()
				if saveErr := archive.Save(cmd.Context(), result); saveErr != nil {
					fmt.Fprintf(os.Stderr, "warning: archiving run failed: %v\n", saveErr)
				}
			} else {
				fmt.Fprintf(os.Stderr, "warning: opening archive failed: %v\n", openErr)
			}
		}

		if savePath != "" {
			if err := pipeline.WriteResultFile(savePath, result); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Saved result to %s\n", savePath)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(os.Stdout, result)
		return nil
	},
}

func init() {
	researchCmd.Flags().String("backends", "duckduckgo,arxiv", "comma-separated backend identifiers")
	researchCmd.Flags().String("file", "", "read the request from a YAML file")
	researchCmd.Flags().Bool("json", false, "output the full result as JSON")
	researchCmd.Flags().String("save", "", "save the result to a YAML file")
	researchCmd.Flags().Bool("no-archive", false, "skip archiving the run to the history database")
	researchCmd.Flags().Bool("verbose", false, "log stage transitions and backend completions")

	rootCmd.AddCommand(researchCmd)
}

// splitList parses a comma-separated flag value into trimmed entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// logObserver logs pipeline progress for the --verbose flag and the server.
type logObserver struct {
	log zerolog.Logger
}

func (o *logObserver) StageChanged(query types.Query, stage types.Stage) {
	o.log.Info().Str("query_id", query.ID).Str("stage", string(stage)).Msg("stage")
}

func (o *logObserver) BackendCompleted(query types.Query, backend string, results int, err error) {
	evt := o.log.Info()
	if err != nil {
		evt = o.log.Warn().Err(err)
	}
	evt.Str("query_id", query.ID).Str("backend", backend).Int("results", results).Msg("backend completed")
}
