package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fakenews-features/internal/batch"
	"fakenews-features/internal/ioformats"
	"fakenews-features/internal/models"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract features for every article in a CSV, NDJSON or feed file",
	Long: `Extract reads articles from --input and writes one feature record per
article, in input order, as NDJSON (default) or CSV.

Feeds may be given as a local RSS/Atom file or an http(s) URL.`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().String("input", "", "input file or feed URL")
	extractCmd.Flags().String("format", "", "input format: csv, ndjson or feed (default: detect)")
	extractCmd.Flags().String("label", "", "label assigned to every article (FAKE or TRUE)")
	extractCmd.Flags().String("output", "", "output file (default stdout)")
	extractCmd.Flags().String("out-format", "ndjson", "output format: ndjson or csv")
	extractCmd.Flags().Int("concurrency", 0, "worker concurrency (default: batch.concurrency)")
	extractCmd.Flags().Bool("dedupe", false, "drop articles missing title or text and repeated title+text pairs")
	_ = extractCmd.MarkFlagRequired("input")
}

func runExtract(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	in, _ := flags.GetString("input")
	formatFlag, _ := flags.GetString("format")
	labelFlag, _ := flags.GetString("label")
	out, _ := flags.GetString("output")
	outFormat, _ := flags.GetString("out-format")
	dedupe, _ := flags.GetBool("dedupe")

	if outFormat != "ndjson" && outFormat != "csv" {
		return fmt.Errorf("--out-format must be ndjson or csv, got %q", outFormat)
	}
	format, err := ioformats.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	label, err := models.ParseLabel(labelFlag)
	if err != nil {
		return err
	}

	ext, err := newExtractor()
	if err != nil {
		return err
	}

	articles, err := ioformats.ReadArticles(in, ioformats.ReadOptions{Format: format, Label: label})
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	if dedupe {
		var st ioformats.DedupeStats
		articles, st = ioformats.Dedupe(articles)
		log.Info("deduplicated input", "input", st.Input, "missing", st.Missing, "duplicates", st.Duplicates, "kept", st.Kept)
	}

	opts := batch.Options{Concurrency: cfg.Batch.Concurrency, Source: "cli"}
	if flags.Changed("concurrency") {
		opts.Concurrency, _ = flags.GetInt("concurrency")
	}

	start := time.Now()
	records, err := batch.Run(cmd.Context(), ext, articles, opts)
	if err != nil {
		return err
	}
	log.Info("extracted features", "articles", len(records), "duration", time.Since(start))

	w, closeOut, err := openOutput(cmd, out)
	if err != nil {
		return err
	}
	if outFormat == "csv" {
		err = ioformats.WriteRecordsCSV(w, records)
	} else {
		err = ioformats.WriteNDJSON(w, records)
	}
	if cerr := closeOut(); err == nil {
		err = cerr
	}
	return err
}
