package pagesource

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	pdfPath := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(pdfPath, []byte("%PDF-1.4 dummy"), 0o600); err != nil {
		t.Fatal(err)
	}
	emptyPath := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(emptyPath, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(txtPath, []byte("text"), 0o600); err != nil {
		t.Fatal(err)
	}

	opener := NewOpener(1024, nil)

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"valid file", pdfPath, ""},
		{"empty path", "", "path cannot be empty"},
		{"missing file", filepath.Join(dir, "nope.pdf"), "does not exist"},
		{"directory", dir, "directory"},
		{"wrong extension", txtPath, "not a PDF"},
		{"empty file", emptyPath, "empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := opener.validateFile(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("validateFile(%q) = %v, want nil", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateFile(%q) = %v, want error containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFileSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.pdf")
	if err := os.WriteFile(path, make([]byte, 100), 0o600); err != nil {
		t.Fatal(err)
	}

	opener := NewOpener(10, nil)
	err := opener.validateFile(path)
	if err == nil || !strings.Contains(err.Error(), "too large") {
		t.Errorf("validateFile = %v, want size error", err)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain ascii", "Hello World", "Hello World"},
		{"trimmed", "  padded  ", "padded"},
		{"utf16be with bom", "\xfe\xff\x00H\x00i", "Hi"},
		{"utf16be non-ascii", "\xfe\xff\x01\x1b", "ě"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodePDFString(tt.input); got != tt.want {
				t.Errorf("decodePDFString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
