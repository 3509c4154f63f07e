package ioformats

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"fakenews-features/internal/models"
	"fakenews-features/internal/parser"
)

const feedTimeout = 30 * time.Second

// ReadFeed turns an RSS/Atom feed (file path or http(s) URL) into articles.
// Item bodies are reduced from HTML to plain text; items without any body
// fall back to their description.
func ReadFeed(pathOrURL string) ([]models.Article, error) {
	fp := gofeed.NewParser()
	var (
		feed *gofeed.Feed
		err  error
	)
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		ctx, cancel := context.WithTimeout(context.Background(), feedTimeout)
		defer cancel()
		feed, err = fp.ParseURLWithContext(pathOrURL, ctx)
	} else {
		var f *os.File
		if f, err = os.Open(pathOrURL); err != nil {
			return nil, err
		}
		defer f.Close()
		feed, err = fp.Parse(f)
	}
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return FeedArticles(feed), nil
}

func FeedArticles(feed *gofeed.Feed) []models.Article {
	out := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		body := item.Content
		if strings.TrimSpace(body) == "" {
			body = item.Description
		}
		a := models.Article{
			Title: strings.TrimSpace(item.Title),
			Text:  parser.PlainText(body),
		}
		if len(item.Categories) > 0 {
			a.Subject = item.Categories[0]
		}
		if item.PublishedParsed != nil {
			a.Published = *item.PublishedParsed
		}
		out = append(out, a)
	}
	return out
}
