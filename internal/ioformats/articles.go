
package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fakenews-features/internal/dates"
	"fakenews-features/internal/models"
)

type Format string

const (
	FormatAuto   Format = ""
	FormatCSV    Format = "csv"
	FormatNDJSON Format = "ndjson"
	FormatFeed   Format = "feed"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, FormatCSV, FormatNDJSON, FormatFeed:
		return f, nil
	case "jsonl":
		return FormatNDJSON, nil
	case "rss", "atom":
		return FormatFeed, nil
	}
	return FormatAuto, fmt.Errorf("unknown input format %q", s)
}

type ReadOptions struct {
	Format Format
	// Label, when set, is assigned to every article and overrides any
	// label column in the input.
	Label models.Label
}

// ReadArticles reads articles from a CSV (header with "text", optional
// "title", "label", "subject", "date"), NDJSON or RSS/Atom file. Feeds may
// also be given as an http(s) URL. With FormatAuto the extension decides,
// falling back to CSV then NDJSON.
func ReadArticles(path string, opts ReadOptions) ([]models.Article, error) {
	format := opts.Format
	if format == FormatAuto {
		format = detectFormat(path)
	}
	var (
		out []models.Article
		err error
	)
	switch format {
	case FormatCSV:
		out, err = readFile(path, ReadCSV)
	case FormatNDJSON:
		out, err = readFile(path, ReadNDJSON)
	case FormatFeed:
		out, err = ReadFeed(path)
	default:
		if out, err = readFile(path, ReadCSV); err != nil || len(out) == 0 {
			out, err = readFile(path, ReadNDJSON)
		}
	}
	if err != nil {
		return nil, err
	}
	if opts.Label != models.LabelUnknown {
		for i := range out {
			out[i].Label = opts.Label
		}
	}
	return out, nil
}

func detectFormat(path string) Format {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return FormatFeed
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".rss", ".atom", ".xml":
		return FormatFeed
	}
	return FormatAuto
}

func readFile(path string, read func(io.Reader) ([]models.Article, error)) ([]models.Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return read(f)
}

// ReadCSV parses a CSV article table.
func ReadCSV(r io.Reader) ([]models.Article, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty csv")
	}
	if err != nil {
		return nil, err
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	if _, ok := cols["text"]; !ok {
		return nil, errors.New("csv must contain a 'text' header column")
	}
	get := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var out []models.Article
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		label, err := models.ParseLabel(get(row, "label"))
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		out = append(out, models.Article{
			Title:     get(row, "title"),
			Text:      get(row, "text"),
			Label:     label,
			Subject:   strings.TrimSpace(get(row, "subject")),
			Published: dates.Parse(get(row, "date")),
		})
	}
	return out, nil
}

type ndjsonArticle struct {
	Title   *string `json:"title"`
	Text    *string `json:"text"`
	Label   any     `json:"label"`
	Subject string  `json:"subject"`
	Date    string  `json:"date"`
}

// ReadNDJSON parses one JSON object per line. Null or absent title and
// text become empty strings; labels may be strings or 0/1 numbers.
func ReadNDJSON(r io.Reader) ([]models.Article, error) {
	var out []models.Article
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var obj ndjsonArticle
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			return nil, fmt.Errorf("ndjson line %d: %w", line, err)
		}
		label, err := models.ParseLabel(labelString(obj.Label))
		if err != nil {
			return nil, fmt.Errorf("ndjson line %d: %w", line, err)
		}
		out = append(out, models.Article{
			Title:     deref(obj.Title),
			Text:      deref(obj.Text),
			Label:     label,
			Subject:   obj.Subject,
			Published: dates.Parse(obj.Date),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no articles found in ndjson")
	}
	return out, nil
}

func labelString(v any) string {
	switch l := v.(type) {
	case nil:
		return ""
	case string:
		return l
	case float64:
		return fmt.Sprintf("%g", l)
	case bool:
		if l {
			return "TRUE"
		}
		return "FAKE"
	}
	return fmt.Sprint(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
