package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/redactcheck/redactcheck/internal/config"
	"github.com/redactcheck/redactcheck/internal/logging"
	"github.com/redactcheck/redactcheck/internal/ocr"
	"github.com/redactcheck/redactcheck/internal/pagesource"
	"github.com/redactcheck/redactcheck/internal/pii"
	"github.com/redactcheck/redactcheck/internal/scan"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n\n", err)
		fmt.Fprintf(os.Stderr, "Run 'redactcheck --help' for usage.\n")
		os.Exit(2)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("run failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	paths, err := cfg.ResolveInputs()
	if err != nil {
		return err
	}
	if err := cfg.EnsureOutputDir(); err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	logger.Info("starting scan",
		zap.Int("documents", len(paths)),
		zap.Int("workers", cfg.Workers),
		zap.Bool("pattern_scan", !cfg.NoRegex),
		zap.String("output_dir", cfg.OutputDir),
	)

	results := scan.RunBatch(ctx, scan.BatchConfig{
		Paths:        paths,
		Workers:      cfg.Workers,
		ScanPatterns: !cfg.NoRegex,
		Opener:       pagesource.NewOpener(cfg.MaxFileSize, logger),
		Registry:     registry,
		NewEngine: func() ocr.Engine {
			return ocr.NewTesseractEngine(ocr.TesseractConfig{
				Binary:      cfg.TesseractBin,
				Languages:   cfg.OCRLanguages,
				TessdataDir: cfg.TessdataDir,
			}, logger)
		},
		Sink:   scan.NewFileDebugSink(cfg.OutputDir, logger),
		Logger: logger,
	})

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("scan interrupted: %w", err)
	}

	return writeResults(cfg.OutputDir, results, logger)
}

// buildRegistry combines the built-in PII patterns with any user-supplied
// patterns file.
func buildRegistry(cfg *config.Config) (*pii.Registry, error) {
	registry := pii.NewDefaultRegistry()
	if cfg.PatternsFile == "" {
		return registry, nil
	}
	return pii.LoadPatternsFile(registry, cfg.PatternsFile)
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig, ok := <-signalCh
		if !ok {
			return
		}
		logger.Warn("received signal, stopping", zap.String("signal", sig.String()))
		cancel()
	}()

	return ctx, func() {
		signal.Stop(signalCh)
		close(signalCh)
		cancel()
	}
}

// writeResults persists one JSON file per successfully scanned document plus
// a combined results.json. Failed documents were already logged by the batch
// runner; they simply have no entry in the output.
func writeResults(outputDir string, results []scan.Result, logger *zap.Logger) error {
	combined := make([]any, 0, len(results))
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}

		serialized := r.Record.Serializable()
		combined = append(combined, serialized)

		stem := strings.TrimSuffix(filepath.Base(r.Path), filepath.Ext(r.Path))
		out := filepath.Join(outputDir, stem+".json")
		if err := writeJSON(out, serialized); err != nil {
			return err
		}
		logger.Info("wrote document report",
			zap.String("path", out),
			zap.Int("findings", len(r.Record.Findings)),
		)
	}

	combinedPath := filepath.Join(outputDir, "results.json")
	if err := writeJSON(combinedPath, combined); err != nil {
		return err
	}

	logger.Info("scan complete",
		zap.Int("scanned", len(combined)),
		zap.Int("failed", failed),
		zap.String("results", combinedPath),
	)
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("redactcheck\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
