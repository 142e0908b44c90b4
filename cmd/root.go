package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakeshore-media/newsdesk/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "newsdesk",
	Short: "News content analysis and deduplication engine",
	Long:  "Scores scraped news candidates for quality, classifies them into topical categories, strips duplicates across sources and categories, and emits a categorized batch ready for summarization.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
