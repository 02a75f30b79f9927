package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/extract"
	"github.com/redactcheck/redactcheck/internal/ocr"
	"github.com/redactcheck/redactcheck/internal/pii"
)

// Result is the outcome for one document: a completed record or an error,
// never both.
type Result struct {
	Path   string
	Record *artifact.Record
	Err    error
}

// BatchConfig configures a batch run.
type BatchConfig struct {
	Paths        []string
	Workers      int
	ScanPatterns bool

	Opener   DocumentOpener
	Registry *pii.Registry
	// NewEngine builds one OCR engine per worker. Engine construction is the
	// dominant per-document cost, so each worker reuses its engine across all
	// documents scheduled on it.
	NewEngine func() ocr.Engine
	Sink      extract.DebugSink
	Logger    *zap.Logger
}

// RunBatch processes documents on a fixed worker pool. Documents share
// nothing but the read-only pattern registry; a failure in one pipeline never
// cancels or corrupts a sibling's. Results come back sorted by path.
func RunBatch(ctx context.Context, cfg BatchConfig) []Result {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(cfg.Paths) {
		workers = len(cfg.Paths)
	}

	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			var engine ocr.Engine
			if cfg.NewEngine != nil {
				engine = cfg.NewEngine()
			}
			scanner := NewScanner(cfg.Opener, cfg.Registry, engine, cfg.Sink, logger)

			for path := range jobs {
				record, err := scanOne(ctx, scanner, path, cfg.ScanPatterns)
				results <- Result{Path: path, Record: record, Err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range cfg.Paths {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(cfg.Paths))
	for r := range results {
		if r.Err != nil {
			logger.Error("document failed",
				zap.String("path", r.Path),
				zap.Error(r.Err),
			)
		}
		collected = append(collected, r)
	}

	sort.Slice(collected, func(i, j int) bool { return collected[i].Path < collected[j].Path })
	return collected
}

// scanOne isolates a single document's pipeline, converting panics from
// malformed input into per-document errors.
func scanOne(ctx context.Context, scanner *Scanner, path string, scanPatterns bool) (record *artifact.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			record = nil
			err = fmt.Errorf("panic processing %s: %v", path, r)
		}
	}()
	return scanner.ScanDocument(ctx, path, scanPatterns)
}
