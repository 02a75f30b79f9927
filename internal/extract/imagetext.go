package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/imaging"
	"github.com/redactcheck/redactcheck/internal/ocr"
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

// DebugSink receives diagnostic images from the error-handling path. The
// image-text extractor hands it the last successfully decoded image before a
// failure propagates, to aid offline debugging of codec problems.
type DebugSink interface {
	SaveImage(docPath string, pageNumber int, png []byte)
}

// ImageTextExtractor runs embedded images through the codec adapter and the
// OCR engine, producing one image artifact per embedded image.
type ImageTextExtractor struct {
	engine ocr.Engine
	sink   DebugSink
	logger *zap.Logger
}

// NewImageTextExtractor builds an extractor around a caller-owned OCR engine.
// sink may be nil.
func NewImageTextExtractor(engine ocr.Engine, sink DebugSink, logger *zap.Logger) *ImageTextExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageTextExtractor{engine: engine, sink: sink, logger: logger}
}

// Extract decodes every embedded image and OCRs it. The artifact text is the
// recognized lines joined with spaces; the object reference is the decoded
// image as PNG bytes.
func (e *ImageTextExtractor) Extract(ctx context.Context, doc pagesource.Document) ([]artifact.Artifact, error) {
	var artifacts []artifact.Artifact

	lastPage := 0
	var lastPNG []byte

	fail := func(err error) ([]artifact.Artifact, error) {
		if e.sink != nil && lastPNG != nil {
			e.sink.SaveImage(doc.Path(), lastPage, lastPNG)
		}
		return nil, &PageError{Path: doc.Path(), Page: lastPage, Stage: "images", Err: err}
	}

	e.logger.Debug("extracting images",
		zap.String("path", doc.Path()),
		zap.Int("pages", doc.PageCount()),
	)

	for n := 1; n <= doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return fail(err)
		}
		lastPage = page.Number()

		for i, img := range page.Images() {
			pngBytes, err := imaging.DecodeToPNG(img)
			if err != nil {
				return fail(fmt.Errorf("image %d: %w", i, err))
			}
			lastPNG = pngBytes

			lines, err := e.engine.RecognizeLines(ctx, pngBytes)
			if err != nil {
				return fail(fmt.Errorf("image %d: %w", i, err))
			}

			artifacts = append(artifacts, artifact.Artifact{
				PageNumber:  page.Number(),
				Text:        strings.Join(lines, " "),
				ObjectRef:   pngBytes,
				Description: fmt.Sprintf("Image on page %d (%dx%d)", page.Number(), img.Width, img.Height),
				Type:        artifact.TypeImage,
			})
		}
	}

	return artifacts, nil
}
