package ioformats

import (
	"fmt"

	"fakenews-features/internal/models"
)

// DedupeStats reports what Dedupe removed.
type DedupeStats struct {
	Input      int `json:"input"`
	Missing    int `json:"missing"`
	Duplicates int `json:"duplicates"`
	Kept       int `json:"kept"`
}

// Dedupe drops articles with a missing (empty) title or text and repeated
// (title, text) pairs, keeping the first occurrence in input order.
// Whitespace-only values are present and kept.
func Dedupe(articles []models.Article) ([]models.Article, DedupeStats) {
	st := DedupeStats{Input: len(articles)}
	seen := make(map[[2]string]struct{}, len(articles))
	out := make([]models.Article, 0, len(articles))
	for _, a := range articles {
		if a.Title == "" || a.Text == "" {
			st.Missing++
			continue
		}
		key := [2]string{a.Title, a.Text}
		if _, dup := seen[key]; dup {
			st.Duplicates++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, a)
	}
	st.Kept = len(out)
	return out, st
}

// ReadDataset loads the fake and true article tables, labels them and
// returns the deduplicated union (fake rows first).
func ReadDataset(fakePath, truePath string) ([]models.Article, DedupeStats, error) {
	fake, err := ReadArticles(fakePath, ReadOptions{Label: models.LabelFake})
	if err != nil {
		return nil, DedupeStats{}, fmt.Errorf("read fake articles: %w", err)
	}
	truth, err := ReadArticles(truePath, ReadOptions{Label: models.LabelTrue})
	if err != nil {
		return nil, DedupeStats{}, fmt.Errorf("read true articles: %w", err)
	}
	all, st := Dedupe(append(fake, truth...))
	return all, st, nil
}
