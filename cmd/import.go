package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	importInput      string
	importOutput     string
	importSheetName  string
	importSheetIndex int
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Convert a scraped export into a candidates JSON file",
	Long:  "Reads an XLSX or JSON scraper export, normalizes column names, and writes a candidates JSON file the analyze command and the API accept.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candidates, err := loadCandidates(importInput, importSheetName, importSheetIndex)
		if err != nil {
			return eris.Wrap(err, "load input")
		}
		if len(candidates) == 0 {
			return eris.Errorf("no candidates in %s", importInput)
		}

		data, err := json.MarshalIndent(candidates, "", "  ")
		if err != nil {
			return eris.Wrap(err, "encode candidates")
		}
		if err := os.WriteFile(importOutput, append(data, '\n'), 0o644); err != nil {
			return eris.Wrap(err, "write output")
		}

		zap.L().Info("import complete",
			zap.Int("candidates", len(candidates)),
			zap.String("input", importInput),
			zap.String("output", importOutput),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importInput, "input", "", "path to scraper export, .json or .xlsx (required)")
	importCmd.Flags().StringVar(&importOutput, "output", "", "path for the candidates JSON file (required)")
	importCmd.Flags().StringVar(&importSheetName, "sheet-name", "", "XLSX sheet to read (default first sheet)")
	importCmd.Flags().IntVar(&importSheetIndex, "sheet", 0, "XLSX sheet index")
	_ = importCmd.MarkFlagRequired("input")
	_ = importCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(importCmd)
}
