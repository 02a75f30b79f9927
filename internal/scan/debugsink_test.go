package scan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileDebugSinkNaming(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileDebugSink(dir, nil)

	sink.SaveImage("/data/incoming/report-2023.pdf", 3, []byte("png-bytes"))

	out := filepath.Join(dir, "image_error_report-2023.png")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("diagnostic image not written: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestFileDebugSinkWriteFailureIsSilent(t *testing.T) {
	sink := NewFileDebugSink(filepath.Join(t.TempDir(), "does-not-exist"), nil)

	// Must not panic; sink failures are log-only.
	sink.SaveImage("a.pdf", 1, []byte("png"))
}
