package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"fakenews-features/internal/analysis"
	"fakenews-features/internal/batch"
	"fakenews-features/internal/crawler"
	"fakenews-features/internal/dates"
	"fakenews-features/internal/ioformats"
	"fakenews-features/internal/metrics"
	"fakenews-features/internal/models"
)

const multipartMemory = 32 << 20

// ArticleRequest is one article in a request body.
type ArticleRequest struct {
	Title   string `json:"title"`
	Text    string `json:"text"`
	Label   string `json:"label,omitempty"`
	Subject string `json:"subject,omitempty"`
	// Date takes any style the dataset readers accept; unparsable dates
	// leave the article undated.
	Date string `json:"date,omitempty"`
}

func (a ArticleRequest) article() (models.Article, error) {
	label, err := models.ParseLabel(a.Label)
	if err != nil {
		return models.Article{}, err
	}
	return models.Article{
		Title:     a.Title,
		Text:      a.Text,
		Label:     label,
		Subject:   a.Subject,
		Published: dates.Parse(a.Date),
	}, nil
}

// BatchRequest is the body for POST /api/v1/extract/batch and /api/v1/analyze.
type BatchRequest struct {
	Articles []ArticleRequest `json:"articles"`
}

// URLRequest is the body for POST /api/v1/extract/url.
type URLRequest struct {
	URL   string `json:"url"`
	Label string `json:"label,omitempty"`
}

// URLBatchRequest is the body for POST /api/v1/extract/url/batch.
type URLBatchRequest struct {
	URLs  []string `json:"urls"`
	Label string   `json:"label,omitempty"`
}

// URLBatchItem is the outcome for one URL of a batch: a Result or an Error.
type URLBatchItem struct {
	URL    string     `json:"url"`
	Result *URLResult `json:"result,omitempty"`
	Error  string     `json:"error,omitempty"`
}

// URLResult is an extraction from a fetched news page.
type URLResult struct {
	URL      string               `json:"url"`
	FinalURL string               `json:"final_url"`
	FetchMs  int64                `json:"fetch_ms"`
	Article  models.Article       `json:"article"`
	Features models.FeatureRecord `json:"features"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, map[string]string{"status": "ok"})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if !s.decode(w, r, &req) {
		return
	}
	a, err := req.article()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start := time.Now()
	rec := s.ext.Extract(a)
	metrics.RecordBatch("api", 1, time.Since(start).Seconds())
	s.writeData(w, rec)
}

func (s *Server) handleExtractBatch(w http.ResponseWriter, r *http.Request) {
	articles, ok := s.decodeBatch(w, r)
	if !ok {
		return
	}
	records, err := batch.Run(r.Context(), s.ext, articles, s.batchOptions("api"))
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeData(w, records)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	articles, ok := s.decodeBatch(w, r)
	if !ok {
		return
	}
	records, err := batch.Run(r.Context(), s.ext, articles, s.batchOptions("analyze"))
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeData(w, analysis.Analyze(records))
}

func (s *Server) handleExtractURL(w http.ResponseWriter, r *http.Request) {
	var req URLRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	label, err := models.ParseLabel(req.Label)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, status, err := s.extractURL(r.Context(), req.URL, label)
	if err != nil {
		s.writeError(w, status, err.Error())
		return
	}
	s.writeData(w, res)
}

// handleExtractURLBatch fetches every URL concurrently and reports one
// item per URL in request order; a failed URL carries its error and does
// not fail the batch.
func (s *Server) handleExtractURLBatch(w http.ResponseWriter, r *http.Request) {
	var req URLBatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	switch n := len(req.URLs); {
	case n == 0:
		s.writeError(w, http.StatusBadRequest, "urls must not be empty")
		return
	case n > s.cfg.Server.MaxBatch:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("batch has %d urls, limit is %d", n, s.cfg.Server.MaxBatch))
		return
	}
	label, err := models.ParseLabel(req.Label)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := make([]URLBatchItem, len(req.URLs))
	err = batch.Each(r.Context(), len(req.URLs), s.batchOptions("url"), func(ctx context.Context, i int) {
		items[i].URL = req.URLs[i]
		res, _, err := s.extractURL(ctx, req.URLs[i], label)
		if err != nil {
			items[i].Error = err.Error()
			return
		}
		items[i].Result = &res
	})
	if err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeData(w, items)
}

// extractURL fetches and extracts one page. On failure it also returns
// the HTTP status that describes the failure.
func (s *Server) extractURL(ctx context.Context, rawURL string, label models.Label) (URLResult, int, error) {
	a, page, err := s.fetcher.FetchArticle(ctx, s.parser, rawURL)
	switch {
	case errors.Is(err, crawler.ErrInvalidURL):
		return URLResult{}, http.StatusBadRequest, err
	case errors.Is(err, crawler.ErrDisallowed), errors.Is(err, crawler.ErrPrivateHost):
		return URLResult{}, http.StatusForbidden, err
	case errors.Is(err, crawler.ErrFetch), errors.Is(err, crawler.ErrNotHTML):
		metrics.RecordError("fetch", "upstream")
		return URLResult{}, http.StatusBadGateway, err
	case err != nil:
		metrics.RecordError("fetch", "parse")
		return URLResult{}, http.StatusUnprocessableEntity, err
	}
	a.Label = label

	rec := s.ext.Extract(a)
	metrics.RecordBatch("url", 1, page.Elapsed.Seconds())
	return URLResult{
		URL:      rawURL,
		FinalURL: page.FinalURL,
		FetchMs:  page.Elapsed.Milliseconds(),
		Article:  a,
		Features: rec,
	}, 0, nil
}

// handleExtractUpload takes a multipart "file" (CSV, NDJSON or feed XML)
// and streams one LabeledRecord per line as each article completes.
// Optional form fields "format" and "label" behave like the CLI flags.
func (s *Server) handleExtractUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "multipart parse error")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "file part 'file' required")
		return
	}
	defer f.Close()

	format, err := ioformats.ParseFormat(r.FormValue("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	label, err := models.ParseLabel(r.FormValue("label"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// the format readers work on paths so the extension can drive detection
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(hdr.Filename))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "temp file error")
		return
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, f); err != nil {
		tmp.Close()
		s.writeError(w, http.StatusInternalServerError, "copy error")
		return
	}
	tmp.Close()

	articles, err := ioformats.ReadArticles(tmp.Name(), ioformats.ReadOptions{Format: format, Label: label})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(articles) > s.cfg.Server.MaxBatch {
		s.writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload has %d articles, limit is %d", len(articles), s.cfg.Server.MaxBatch))
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	err = batch.Stream(r.Context(), s.ext, articles, s.batchOptions("upload"), func(rec models.LabeledRecord) error {
		if err := enc.Encode(rec); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		s.log.Errorf("upload stream aborted: %v", err)
	}
}

func (s *Server) batchOptions(source string) batch.Options {
	return batch.Options{Concurrency: s.cfg.Batch.Concurrency, Source: source}
}

// decodeBatch reads a BatchRequest and enforces the configured size limit.
func (s *Server) decodeBatch(w http.ResponseWriter, r *http.Request) ([]models.Article, bool) {
	var req BatchRequest
	if !s.decode(w, r, &req) {
		return nil, false
	}
	switch n := len(req.Articles); {
	case n == 0:
		s.writeError(w, http.StatusBadRequest, "articles must not be empty")
		return nil, false
	case n > s.cfg.Server.MaxBatch:
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("batch has %d articles, limit is %d", n, s.cfg.Server.MaxBatch))
		return nil, false
	}
	articles := make([]models.Article, len(req.Articles))
	for i, ar := range req.Articles {
		a, err := ar.article()
		if err != nil {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("articles[%d]: %v", i, err))
			return nil, false
		}
		articles[i] = a
	}
	return articles, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	s.writeError(w, http.StatusBadRequest, "invalid payload")
	return false
}
