package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputDir != DefaultOutputDir {
		t.Errorf("Expected default output dir to be %q, got %q", DefaultOutputDir, cfg.OutputDir)
	}
	if cfg.Workers < 1 {
		t.Errorf("Expected default workers to be at least 1, got %d", cfg.Workers)
	}
	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}
	if cfg.TesseractBin != "tesseract" {
		t.Errorf("Expected default tesseract binary to be 'tesseract', got %q", cfg.TesseractBin)
	}
	if cfg.OCRLanguages != "eng+nld" {
		t.Errorf("Expected default OCR languages to be 'eng+nld', got %q", cfg.OCRLanguages)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got %q", cfg.LogLevel)
	}
	if cfg.NoRegex {
		t.Error("Expected pattern scanning to be enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Inputs = []string{"doc.pdf"}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "no inputs",
			mutate:  func(c *Config) { c.Inputs = nil },
			wantErr: true,
		},
		{
			name:    "empty output dir",
			mutate:  func(c *Config) { c.OutputDir = "" },
			wantErr: true,
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Workers = 0 },
			wantErr: true,
		},
		{
			name:    "negative max file size",
			mutate:  func(c *Config) { c.MaxFileSize = -1 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveInputsDirectory(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.pdf", "a.pdf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	cfg := DefaultConfig()
	cfg.Inputs = []string{dir}

	files, err := cfg.ResolveInputs()
	if err != nil {
		t.Fatalf("ResolveInputs returned error: %v", err)
	}

	// Only the PDFs, sorted.
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.pdf" || filepath.Base(files[1]) != "b.pdf" {
		t.Errorf("files = %v", files)
	}
}

func TestResolveInputsSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Inputs = []string{path, path} // duplicate collapses

	files, err := cfg.ResolveInputs()
	if err != nil {
		t.Fatalf("ResolveInputs returned error: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("files = %v, want [%s]", files, path)
	}
}

func TestResolveInputsRejectsNonPDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	cfg.Inputs = []string{path}

	if _, err := cfg.ResolveInputs(); err == nil {
		t.Error("expected error for non-PDF input, got nil")
	}
}

func TestResolveInputsEmptyDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inputs = []string{t.TempDir()}

	_, err := cfg.ResolveInputs()
	if err == nil {
		t.Fatal("expected error for directory without PDFs, got nil")
	}
}

func TestResolveInputsMissingPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Inputs = []string{filepath.Join(t.TempDir(), "nope.pdf")}

	if _, err := cfg.ResolveInputs(); err == nil {
		t.Error("expected error for missing input, got nil")
	}
}

func TestEnsureOutputDir(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "nested", "out")

	if err := cfg.EnsureOutputDir(); err != nil {
		t.Fatalf("EnsureOutputDir returned error: %v", err)
	}

	info, err := os.Stat(cfg.OutputDir)
	if err != nil || !info.IsDir() {
		t.Errorf("output directory not created: %v", err)
	}
}
