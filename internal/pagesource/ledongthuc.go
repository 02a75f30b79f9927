package pagesource

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Opener opens PDF files as Documents, backed by ledongthuc/pdf for page and
// character access and the raw object scanner for image payloads and
// rectangle paint state.
type Opener struct {
	maxFileSize int64
	logger      *zap.Logger
}

// NewOpener creates an Opener with the given file size limit.
func NewOpener(maxFileSize int64, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{maxFileSize: maxFileSize, logger: logger}
}

// Open validates and opens a PDF document.
func (o *Opener) Open(path string) (Document, error) {
	if err := o.validateFile(path); err != nil {
		return nil, err
	}

	// Advisory structural validation. Irregular producers are exactly what
	// this tool audits, so a validation failure is logged, not fatal.
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	if err := api.ValidateFile(path, conf); err != nil {
		o.logger.Warn("PDF failed relaxed validation, continuing",
			zap.String("path", path),
			zap.Error(err),
		)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	doc := &ldDocument{
		path:   path,
		file:   f,
		reader: r,
		logger: o.logger,
	}
	doc.meta = extractInfo(r)

	if data, err := os.ReadFile(path); err == nil {
		raw, err := newRawScan(data)
		switch {
		case err != nil:
			o.logger.Debug("raw object scan unavailable",
				zap.String("path", path), zap.Error(err))
		case raw.pageCount() != r.NumPage():
			o.logger.Debug("raw object scan page count mismatch, ignoring raw layer",
				zap.String("path", path),
				zap.Int("raw_pages", raw.pageCount()),
				zap.Int("reader_pages", r.NumPage()))
		default:
			doc.raw = raw
		}
	}

	return doc, nil
}

func (o *Opener) validateFile(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return fmt.Errorf("file is empty: %s", path)
	}
	if fileInfo.Size() > o.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), o.maxFileSize)
	}
	return nil
}

// ldDocument implements Document on top of a ledongthuc reader plus an
// optional raw object layer.
type ldDocument struct {
	path   string
	file   *os.File
	reader *pdf.Reader
	raw    *rawScan
	meta   Metadata
	logger *zap.Logger
}

func (d *ldDocument) Path() string   { return d.path }
func (d *ldDocument) Info() Metadata { return d.meta }
func (d *ldDocument) Close() error   { return d.file.Close() }

func (d *ldDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *ldDocument) Page(n int) (Page, error) {
	if n < 1 || n > d.reader.NumPage() {
		return nil, fmt.Errorf("page %d out of range (1..%d)", n, d.reader.NumPage())
	}

	chars, err := d.pageChars(n)
	if err != nil {
		return nil, err
	}

	p := &ldPage{number: n, chars: chars}
	if d.raw != nil {
		p.rects = scanContentRects(d.raw.pageContent(n))
		p.images = d.raw.pageImages(n)
	}
	return p, nil
}

// pageChars converts the page's positioned text runs into character
// primitives. The underlying library reports errors by panicking, so the
// conversion is fenced.
//
// Fill color is not available from this backend: a nil fill color classifies
// as neither white nor dark, so white-text detection needs a color-aware
// Document implementation.
func (d *ldDocument) pageChars(n int) (chars []Char, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("reading page %d content: %v", n, r)
		}
	}()

	page := d.reader.Page(n)
	if page.V.IsNull() {
		return nil, nil
	}

	content := page.Content()
	chars = make([]Char, 0, len(content.Text))
	for _, t := range content.Text {
		chars = append(chars, Char{
			Text: t.S,
			BBox: BBox{
				X0: t.X,
				Y0: t.Y,
				X1: t.X + t.W,
				Y1: t.Y + t.FontSize,
			},
		})
	}
	return chars, nil
}

type ldPage struct {
	number int
	chars  []Char
	rects  []Rect
	images []ImageStream
}

func (p *ldPage) Number() int           { return p.number }
func (p *ldPage) Chars() []Char         { return p.chars }
func (p *ldPage) Rects() []Rect         { return p.rects }
func (p *ldPage) Images() []ImageStream { return p.images }

// extractInfo reads the document information dictionary. The underlying
// library panics on malformed values, so extraction is best-effort.
func extractInfo(r *pdf.Reader) (meta Metadata) {
	defer func() {
		_ = recover()
	}()

	trailer := r.Trailer()
	if trailer.IsNull() {
		return meta
	}
	info := trailer.Key("Info")
	if info.IsNull() {
		return meta
	}

	get := func(key string) string {
		v := info.Key(key)
		if v.IsNull() {
			return ""
		}
		return decodePDFString(v.RawString())
	}

	meta.Author = get("Author")
	meta.Title = get("Title")
	meta.Subject = get("Subject")
	meta.Keywords = get("Keywords")
	meta.Producer = get("Producer")
	meta.Creator = get("Creator")
	meta.CreationDate = get("CreationDate")
	meta.ModDate = get("ModDate")
	return meta
}

// decodePDFString maps a raw PDF text string to UTF-8. Strings with a UTF-16BE
// byte order mark decode as UTF-16; everything else passes through trimmed.
func decodePDFString(s string) string {
	if strings.HasPrefix(s, "\xfe\xff") {
		b := []byte(s[2:])
		u16 := make([]uint16, 0, len(b)/2)
		for i := 0; i+1 < len(b); i += 2 {
			u16 = append(u16, uint16(b[i])<<8|uint16(b[i+1]))
		}
		return strings.TrimSpace(string(utf16.Decode(u16)))
	}
	return strings.TrimSpace(s)
}
