package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"fakenews-features/internal/crawler"
	"fakenews-features/internal/models"
	"fakenews-features/internal/parser"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [url]",
	Short: "Fetch a news page and extract its features",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		labelFlag, _ := cmd.Flags().GetString("label")
		label, err := models.ParseLabel(labelFlag)
		if err != nil {
			return err
		}
		ext, err := newExtractor()
		if err != nil {
			return err
		}

		client := crawler.NewHTTPClient(crawler.Options{
			Timeout:       cfg.Fetch.Timeout,
			DialTimeout:   cfg.Fetch.DialTimeout,
			SizeCap:       cfg.Fetch.SizeCap,
			UserAgent:     cfg.Fetch.UserAgent,
			HostInterval:  cfg.Fetch.HostInterval,
			RespectRobots: cfg.Fetch.RespectRobots,
			AllowPrivate:  cfg.Fetch.AllowPrivate,
		})
		a, page, err := client.FetchArticle(cmd.Context(), parser.New(), args[0])
		if err != nil {
			return err
		}
		a.Label = label
		log.Debug("fetched page", "url", page.FinalURL, "fetch_ms", page.Elapsed.Milliseconds())

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			URL      string               `json:"url"`
			FinalURL string               `json:"final_url"`
			Article  models.Article       `json:"article"`
			Features models.FeatureRecord `json:"features"`
		}{args[0], page.FinalURL, a, ext.Extract(a)})
	},
}

func init() {
	fetchCmd.Flags().String("label", "", "label to attach (FAKE or TRUE)")
}
