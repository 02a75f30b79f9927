// Package config holds the command-line and environment configuration for
// the redactcheck tool.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/redactcheck/redactcheck/internal/ocr"
)

const (
	// Default values
	DefaultOutputDir   = "output"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for a redactcheck run.
type Config struct {
	// Inputs are PDF files or directories containing them.
	Inputs []string

	// Output configuration
	OutputDir string

	// Scanning configuration
	NoRegex      bool // disable pattern scanning; hidden-text passes always run
	PatternsFile string
	Workers      int
	MaxFileSize  int64

	// OCR configuration
	TesseractBin string
	TessdataDir  string
	OCRLanguages string

	// Application configuration
	LogLevel string
	Debug    bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		Workers:      runtime.NumCPU(),
		MaxFileSize:  DefaultMaxFileSize,
		TesseractBin: "tesseract",
		OCRLanguages: ocr.DefaultLanguages,
		LogLevel:     DefaultLogLevel,
	}
}

// LoadFromFlags parses command line flags and the environment and returns a
// validated configuration. The positional arguments are the input paths.
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	pflag.Parse()

	populateConfigFromViper(cfg)
	cfg.Inputs = pflag.Args()

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	if cfg.OutputDir != "" {
		if expandedPath, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = expandedPath
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults.
func setupViperEnvironment(cfg *Config) {
	viper.SetEnvPrefix("REDACTCHECK")
	viper.AutomaticEnv()

	viper.SetDefault("output-dir", cfg.OutputDir)
	viper.SetDefault("no-regex", cfg.NoRegex)
	viper.SetDefault("patterns-file", cfg.PatternsFile)
	viper.SetDefault("workers", cfg.Workers)
	viper.SetDefault("max-file-size", cfg.MaxFileSize)
	viper.SetDefault("tesseract-bin", cfg.TesseractBin)
	viper.SetDefault("tessdata-dir", cfg.TessdataDir)
	viper.SetDefault("ocr-languages", cfg.OCRLanguages)
	viper.SetDefault("log-level", cfg.LogLevel)
	viper.SetDefault("debug", cfg.Debug)
}

// defineCommandLineFlags sets up all command line flags.
func defineCommandLineFlags(cfg *Config) {
	pflag.StringP("output-dir", "o", cfg.OutputDir, "Directory for result files")
	pflag.Bool("no-regex", cfg.NoRegex, "Disable PII pattern scanning (hidden-text extraction still runs)")
	pflag.String("patterns-file", cfg.PatternsFile, "File with additional PII patterns (category: regex)")
	pflag.Int("workers", cfg.Workers, "Number of documents processed in parallel")
	pflag.Int64("max-file-size", cfg.MaxFileSize, "Maximum PDF file size in bytes")
	pflag.String("tesseract-bin", cfg.TesseractBin, "Tesseract executable")
	pflag.String("tessdata-dir", cfg.TessdataDir, "Tesseract data directory override")
	pflag.String("ocr-languages", cfg.OCRLanguages, "OCR language set (tesseract -l argument)")
	pflag.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Bool("debug", cfg.Debug, "Enable debug logging")
}

// bindFlagsToViper binds all command line flags to viper.
func bindFlagsToViper() {
	pflag.VisitAll(func(flag *pflag.Flag) {
		_ = viper.BindPFlag(flag.Name, flag)
	})
}

// populateConfigFromViper fills the configuration from viper's merged view.
func populateConfigFromViper(cfg *Config) {
	cfg.OutputDir = viper.GetString("output-dir")
	cfg.NoRegex = viper.GetBool("no-regex")
	cfg.PatternsFile = viper.GetString("patterns-file")
	cfg.Workers = viper.GetInt("workers")
	cfg.MaxFileSize = viper.GetInt64("max-file-size")
	cfg.TesseractBin = viper.GetString("tesseract-bin")
	cfg.TessdataDir = viper.GetString("tessdata-dir")
	cfg.OCRLanguages = viper.GetString("ocr-languages")
	cfg.LogLevel = viper.GetString("log-level")
	cfg.Debug = viper.GetBool("debug")
}

// setupUsageMessage customizes the usage output.
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: redactcheck [flags] <pdf-file-or-directory>...\n\n")
		fmt.Fprintf(os.Stderr, "Audits PDF documents for hidden or badly redacted personal data.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return fmt.Errorf("at least one PDF file or directory is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

// ResolveInputs expands the configured inputs into the list of PDF files to
// process. Directories contribute their immediate *.pdf entries, plain files
// must name PDFs. The result is sorted and de-duplicated.
func (c *Config) ResolveInputs() ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, input := range c.Inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("invalid input %s: %w", input, err)
		}

		if info.IsDir() {
			matches, err := filepath.Glob(filepath.Join(input, "*.pdf"))
			if err != nil {
				return nil, fmt.Errorf("globbing %s: %w", input, err)
			}
			for _, m := range matches {
				add(m)
			}
			continue
		}

		if !strings.HasSuffix(strings.ToLower(input), ".pdf") {
			return nil, fmt.Errorf("invalid input %s: not a PDF file or directory", input)
		}
		add(input)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no PDF files found in the specified paths")
	}

	sort.Strings(files)
	return files, nil
}

// EnsureOutputDir creates the output directory if needed.
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
		return fmt.Errorf("creating output directory %s: %w", c.OutputDir, err)
	}
	return nil
}
