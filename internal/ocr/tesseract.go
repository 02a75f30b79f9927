package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultLanguages is the fixed language set for this domain: English plus
// Dutch, matching the documents this tool audits.
const DefaultLanguages = "eng+nld"

// Runner executes external commands. It exists so tests can stub the
// tesseract binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *zap.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("exec failed",
			zap.String("cmd", name),
			zap.String("args", strings.Join(args, " ")),
			zap.Int64("duration_ms", dur.Milliseconds()),
			zap.Error(err),
			zap.String("stderr", truncate(errb.String(), 8<<10)),
		)
	} else {
		r.logger.Debug("exec ok",
			zap.String("cmd", name),
			zap.Int64("duration_ms", dur.Milliseconds()),
			zap.Int("stdout_bytes", out.Len()),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// TesseractConfig configures the tesseract-backed engine.
type TesseractConfig struct {
	// Binary is the tesseract executable, "tesseract" by default.
	Binary string
	// Languages is the -l argument, DefaultLanguages by default.
	Languages string
	// TessdataDir optionally overrides the tessdata directory.
	TessdataDir string
}

// TesseractEngine shells out to the tesseract binary.
type TesseractEngine struct {
	cfg    TesseractConfig
	runner Runner
	logger *zap.Logger
}

// NewTesseractEngine builds an engine that invokes the tesseract binary.
func NewTesseractEngine(cfg TesseractConfig, logger *zap.Logger) *TesseractEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Binary == "" {
		cfg.Binary = "tesseract"
	}
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}
	return &TesseractEngine{
		cfg:    cfg,
		runner: execRunner{logger: logger},
		logger: logger,
	}
}

// NewTesseractEngineWithRunner is like NewTesseractEngine but with a custom
// command runner, for tests.
func NewTesseractEngineWithRunner(cfg TesseractConfig, runner Runner, logger *zap.Logger) *TesseractEngine {
	e := NewTesseractEngine(cfg, logger)
	e.runner = runner
	return e
}

// RecognizeLines writes the raster to a temp file, runs tesseract against it
// and splits the recognized text into non-empty lines.
func (e *TesseractEngine) RecognizeLines(ctx context.Context, raster []byte) ([]string, error) {
	tmp, err := os.CreateTemp("", "redactcheck-ocr-*.png")
	if err != nil {
		return nil, fmt.Errorf("creating OCR temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(raster); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing OCR temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing OCR temp file: %w", err)
	}

	args := []string{tmpPath, "stdout", "-l", e.cfg.Languages}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	stdout, stderr, err := e.runner.Run(ctx, e.cfg.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract on %s: %w (stderr: %s)",
			filepath.Base(tmpPath), err, truncate(string(stderr), 512))
	}

	var lines []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
