// Package scan orchestrates the artifact classifiers and the PII matcher per
// document and fans the pipeline out over batches of documents.
package scan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/extract"
	"github.com/redactcheck/redactcheck/internal/ocr"
	"github.com/redactcheck/redactcheck/internal/pagesource"
	"github.com/redactcheck/redactcheck/internal/pdfdate"
	"github.com/redactcheck/redactcheck/internal/pii"
)

// DocumentOpener opens a path as a Document. Satisfied by
// pagesource.Opener and by test fakes.
type DocumentOpener interface {
	Open(path string) (pagesource.Document, error)
}

// Scanner runs the full extraction and classification pipeline for one
// document at a time. A scanner owns its OCR engine; it is not safe for
// concurrent use, but independent scanners are.
type Scanner struct {
	opener   DocumentOpener
	registry *pii.Registry
	engine   ocr.Engine
	sink     extract.DebugSink
	logger   *zap.Logger
}

// NewScanner assembles a scanner around a caller-owned OCR engine.
func NewScanner(opener DocumentOpener, registry *pii.Registry, engine ocr.Engine, sink extract.DebugSink, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		opener:   opener,
		registry: registry,
		engine:   engine,
		sink:     sink,
		logger:   logger,
	}
}

// ScanDocument processes one document to completion. The masked-rectangle and
// white-text passes always run; the pattern passes over plain text and OCR'd
// image text run only when scanPatterns is set. The returned record is fully
// populated or nil: no partial record is ever returned.
func (s *Scanner) ScanDocument(ctx context.Context, path string, scanPatterns bool) (*artifact.Record, error) {
	doc, err := s.opener.Open(path)
	if err != nil {
		return nil, &DocumentOpenError{Path: path, Err: err}
	}
	defer doc.Close()

	if doc.PageCount() == 0 {
		return nil, &DocumentOpenError{Path: path, Err: errors.New("no pages found")}
	}

	record := &artifact.Record{Path: path}
	s.populateMetadata(record, doc.Info())

	s.logger.Info("processing document",
		zap.String("path", path),
		zap.Int("pages", doc.PageCount()),
	)

	var findings []artifact.Finding

	masked, err := extract.MaskedRectText(doc)
	if err != nil {
		return nil, err
	}
	for _, a := range masked {
		if a.Text == "" {
			continue
		}
		s.logger.Debug("captured text under filled rectangle",
			zap.String("path", path), zap.Int("page", a.PageNumber))
		findings = append(findings, artifact.NewFinding(a, a.Text, string(artifact.TypeFilledRectangle)))
	}

	white, err := extract.WhiteText(doc)
	if err != nil {
		return nil, err
	}
	for _, a := range white {
		if a.Text == "" {
			continue
		}
		s.logger.Debug("captured white-on-white text",
			zap.String("path", path), zap.Int("page", a.PageNumber))
		findings = append(findings, artifact.NewFinding(a, a.Text, string(artifact.TypeWhiteText)))
	}

	record.PotentialSignatures, err = lastPageHasImages(doc)
	if err != nil {
		return nil, err
	}

	if scanPatterns {
		texts, err := extract.Text(doc)
		if err != nil {
			return nil, err
		}
		findings = append(findings, s.matchArtifacts(texts)...)

		imageExtractor := extract.NewImageTextExtractor(s.engine, s.sink, s.logger)
		images, err := imageExtractor.Extract(ctx, doc)
		if err != nil {
			return nil, err
		}
		findings = append(findings, s.matchArtifacts(images)...)
	}

	record.SetFindings(findings)
	return record, nil
}

// populateMetadata fills the record from the information dictionary. Date
// parsing is best-effort: a malformed date leaves the fields unset rather
// than failing the document.
func (s *Scanner) populateMetadata(record *artifact.Record, meta pagesource.Metadata) {
	record.Author = meta.Author
	record.Title = meta.Title
	record.Subject = meta.Subject
	record.Keywords = meta.Keywords
	record.Producer = meta.Producer
	record.Creator = meta.Creator

	created, err := pdfdate.Parse(meta.CreationDate)
	if err != nil {
		s.logger.Debug("ignoring malformed creation date",
			zap.String("path", record.Path), zap.Error(err))
		return
	}
	record.CreationDate = created

	modified, err := pdfdate.Parse(meta.ModDate)
	if err != nil {
		s.logger.Debug("ignoring malformed modification date",
			zap.String("path", record.Path), zap.Error(err))
		return
	}
	record.ModificationDate = modified
}

// matchArtifacts runs the pattern registry over each non-empty artifact.
func (s *Scanner) matchArtifacts(artifacts []artifact.Artifact) []artifact.Finding {
	var findings []artifact.Finding
	for _, a := range artifacts {
		if a.Text == "" {
			continue
		}
		for _, m := range pii.MatchText(s.registry, a.Text) {
			s.logger.Debug("pattern match",
				zap.String("category", m.Category),
				zap.Int("page", a.PageNumber),
				zap.String("artifact_type", string(a.Type)),
			)
			findings = append(findings, artifact.NewFinding(a, m.Data, m.Category))
		}
	}
	return findings
}

// lastPageHasImages is the signature heuristic: signature blocks are
// typically embedded as images on the final page.
func lastPageHasImages(doc pagesource.Document) (bool, error) {
	page, err := doc.Page(doc.PageCount())
	if err != nil {
		return false, fmt.Errorf("reading last page: %w", err)
	}
	return len(page.Images()) > 0, nil
}
