// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/deep-research/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived research runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()

		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		archive, err := history.Open(cfg.History)
		if err != nil {
			return err
		}
		defer archive.Close()

		entries, err := archive.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No archived runs.")
			return nil
		}

		fmt.Printf("%-20s  %-50s  %-7s  %s\n", "When", "Question", "Sources", "Backends")
		fmt.Println(strings.Repeat("-", 100))
		for _, e := range entries {
			question := e.Question
			if len(question) > 50 {
				question = question[:47] + "..."
			}
			fmt.Printf("%-20s  %-50s  %-7d  %s\n",
				e.Created.Local().Format(time.DateTime), question, e.Sources,
				strings.Join(e.Backends, ","))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 0, "maximum runs to list (default from config)")
	historyCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(historyCmd)
}
