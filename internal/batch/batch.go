// Package batch runs feature extraction over many articles in parallel.
package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fakenews-features/internal/metrics"
	"fakenews-features/internal/models"
)

// Extractor is the single-article operation fanned out by Run and Stream.
type Extractor interface {
	ExtractLabeled(i int, a models.Article) models.LabeledRecord
}

type Options struct {
	// Concurrency caps the number of articles processed at once;
	// zero or negative means GOMAXPROCS.
	Concurrency int
	// Source labels the metrics emitted for this batch.
	Source string
}

func (o Options) limit() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Run extracts every article and returns records in input order. It stops
// scheduling new work once ctx is done and returns ctx's error.
func Run(ctx context.Context, ext Extractor, articles []models.Article, opts Options) ([]models.LabeledRecord, error) {
	start := time.Now()
	out := make([]models.LabeledRecord, len(articles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, a := range articles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = ext.ExtractLabeled(i, a)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordError("batch", "canceled")
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordError("batch", "canceled")
		return nil, err
	}
	metrics.RecordBatch(opts.Source, len(articles), time.Since(start).Seconds())
	return out, nil
}

// Each calls fn for every index in [0,n) with at most the configured
// number of calls in flight. Indices not yet started when ctx ends are
// skipped and ctx's error is returned.
func Each(ctx context.Context, n int, opts Options, fn func(ctx context.Context, i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(gctx, i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Stream extracts every article and hands each record to emit as soon as
// it is ready; records arrive in completion order. emit calls are
// serialized, and an emit error aborts the remaining work.
func Stream(ctx context.Context, ext Extractor, articles []models.Article, opts Options, emit func(models.LabeledRecord) error) error {
	start := time.Now()
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.limit())
	for i, a := range articles {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec := ext.ExtractLabeled(i, a)
			mu.Lock()
			defer mu.Unlock()
			return emit(rec)
		})
	}
	if err := g.Wait(); err != nil {
		metrics.RecordError("stream", "aborted")
		return err
	}
	metrics.RecordBatch(opts.Source, len(articles), time.Since(start).Seconds())
	return ctx.Err()
}
