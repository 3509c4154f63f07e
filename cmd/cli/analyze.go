package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"fakenews-features/internal/analysis"
	"fakenews-features/internal/batch"
	"fakenews-features/internal/ioformats"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare feature distributions between a fake and a true news dataset",
	Long: `Analyze loads the fake and true article files, drops rows without a
title or text and duplicate title+text pairs, extracts features and reports
label counts, a Welch t-test on lexical diversity, the feature correlation
matrix, mean lengths, subject counts and monthly counts.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("fake", "", "fake news articles (CSV or NDJSON)")
	analyzeCmd.Flags().String("true", "", "true news articles (CSV or NDJSON)")
	analyzeCmd.Flags().Bool("json", false, "write the report as JSON")
	analyzeCmd.Flags().String("output", "", "report file (default stdout)")
	analyzeCmd.Flags().String("table", "", "also write the per-article feature table as CSV to this file")
	_ = analyzeCmd.MarkFlagRequired("fake")
	_ = analyzeCmd.MarkFlagRequired("true")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	fakePath, _ := flags.GetString("fake")
	truePath, _ := flags.GetString("true")
	asJSON, _ := flags.GetBool("json")
	out, _ := flags.GetString("output")
	table, _ := flags.GetString("table")

	ext, err := newExtractor()
	if err != nil {
		return err
	}

	articles, st, err := ioformats.ReadDataset(fakePath, truePath)
	if err != nil {
		return err
	}
	log.Info("loaded dataset", "input", st.Input, "missing", st.Missing, "duplicates", st.Duplicates, "kept", st.Kept)

	records, err := batch.Run(cmd.Context(), ext, articles, batch.Options{Concurrency: cfg.Batch.Concurrency, Source: "analyze"})
	if err != nil {
		return err
	}

	if table != "" {
		w, closeTable, err := openOutput(cmd, table)
		if err != nil {
			return err
		}
		err = ioformats.WriteRecordsCSV(w, records)
		if cerr := closeTable(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write feature table: %w", err)
		}
	}

	report := analysis.Analyze(records)
	if err := report.Validate(); err != nil {
		return err
	}

	w, closeOut, err := openOutput(cmd, out)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(report)
	} else {
		err = report.WriteText(w)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}
