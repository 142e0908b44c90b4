package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lakeshore-media/newsdesk/internal/pipeline"
	"github.com/lakeshore-media/newsdesk/internal/report"
)

var (
	analyzeInput      string
	analyzeOutput     string
	analyzeFormat     string
	analyzeSheetName  string
	analyzeSheetIndex int
	analyzeSave       bool
	analyzeLabel      string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of scraped news candidates",
	Long:  "Reads candidates from a JSON or XLSX file, runs quality analysis, classification, and deduplication, and prints the categorized result.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}

		candidates, err := loadCandidates(analyzeInput, analyzeSheetName, analyzeSheetIndex)
		if err != nil {
			return eris.Wrap(err, "load input")
		}
		if len(candidates) == 0 {
			return eris.Errorf("no candidates in %s", analyzeInput)
		}

		cls, err := newClassifier()
		if err != nil {
			return eris.Wrap(err, "init classifier")
		}

		result, err := pipeline.New(cfg, cls).Run(ctx, candidates)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		if analyzeSave {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			run, err := st.CreateRun(ctx, analyzeLabel)
			if err != nil {
				return eris.Wrap(err, "create run")
			}
			if err := st.SaveRunResult(ctx, run.ID, result); err != nil {
				return eris.Wrap(err, "save run result")
			}
			zap.L().Info("run saved", zap.String("run_id", run.ID))
		}

		var rendered []byte
		switch analyzeFormat {
		case "json":
			rendered, err = json.MarshalIndent(result, "", "  ")
			if err != nil {
				return eris.Wrap(err, "encode result")
			}
			rendered = append(rendered, '\n')
		case "markdown":
			rendered = []byte(report.Digest(result, time.Now()))
		default:
			return eris.Errorf("unsupported output format: %s (want markdown or json)", analyzeFormat)
		}

		if analyzeOutput != "" {
			if err := os.WriteFile(analyzeOutput, rendered, 0o644); err != nil {
				return eris.Wrap(err, "write output")
			}
			zap.L().Info("result written",
				zap.String("path", analyzeOutput),
				zap.Int("articles", result.Stats.Final),
			)
			return nil
		}

		fmt.Fprint(os.Stdout, string(rendered))
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "path to candidates file, .json or .xlsx (required)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write result to file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "markdown", "output format: markdown or json")
	analyzeCmd.Flags().StringVar(&analyzeSheetName, "sheet-name", "", "XLSX sheet to read (default first sheet)")
	analyzeCmd.Flags().IntVar(&analyzeSheetIndex, "sheet", 0, "XLSX sheet index")
	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist the run to the store")
	analyzeCmd.Flags().StringVar(&analyzeLabel, "label", "", "label for the saved run")
	_ = analyzeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(analyzeCmd)
}
