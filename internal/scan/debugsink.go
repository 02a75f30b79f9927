package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileDebugSink writes diagnostic images from failed pipelines into a
// directory, named after the source document.
type FileDebugSink struct {
	dir    string
	logger *zap.Logger
}

// NewFileDebugSink creates a sink writing into dir.
func NewFileDebugSink(dir string, logger *zap.Logger) *FileDebugSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileDebugSink{dir: dir, logger: logger}
}

// SaveImage persists the last successfully decoded image of a failed
// document. Sink failures are logged only: the diagnostic path must never
// mask the original error.
func (s *FileDebugSink) SaveImage(docPath string, pageNumber int, png []byte) {
	stem := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	out := filepath.Join(s.dir, fmt.Sprintf("image_error_%s.png", stem))

	if err := os.WriteFile(out, png, 0o600); err != nil {
		s.logger.Warn("could not save diagnostic image",
			zap.String("path", out),
			zap.Error(err),
		)
		return
	}
	s.logger.Info("saved diagnostic image",
		zap.String("path", out),
		zap.String("document", docPath),
		zap.Int("page", pageNumber),
	)
}
