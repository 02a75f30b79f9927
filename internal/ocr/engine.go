// Package ocr provides the optical character recognition capability used by
// the image-text extractor: raster bytes in, recognized text lines out.
package ocr

import "context"

// Engine recognizes text in a raster image. An engine is instantiated once
// and owned by its caller; instantiation is the dominant per-document cost,
// so callers reuse one engine across the documents scheduled on a worker.
type Engine interface {
	// RecognizeLines returns the recognized text lines in reading order.
	// The slice may be empty when the image contains no legible text.
	RecognizeLines(ctx context.Context, raster []byte) ([]string, error)
}
