package extract

import (
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

// fakePage and fakeDoc implement the pagesource interfaces for classifier
// tests without a real PDF backend.

type fakePage struct {
	number int
	chars  []pagesource.Char
	rects  []pagesource.Rect
	images []pagesource.ImageStream
}

func (p *fakePage) Number() int                      { return p.number }
func (p *fakePage) Chars() []pagesource.Char         { return p.chars }
func (p *fakePage) Rects() []pagesource.Rect         { return p.rects }
func (p *fakePage) Images() []pagesource.ImageStream { return p.images }

type fakeDoc struct {
	path  string
	pages []*fakePage
	meta  pagesource.Metadata
}

func (d *fakeDoc) Path() string              { return d.path }
func (d *fakeDoc) PageCount() int            { return len(d.pages) }
func (d *fakeDoc) Info() pagesource.Metadata { return d.meta }
func (d *fakeDoc) Close() error              { return nil }

func (d *fakeDoc) Page(n int) (pagesource.Page, error) {
	return d.pages[n-1], nil
}

// char places a single character at x, y with a 5x10 box.
func char(text string, x, y float64, color pagesource.Color) pagesource.Char {
	return pagesource.Char{
		Text:      text,
		BBox:      pagesource.BBox{X0: x, Y0: y, X1: x + 5, Y1: y + 10},
		FillColor: color,
	}
}

// word lays the characters of text out left to right starting at x, y.
func word(text string, x, y float64, color pagesource.Color) []pagesource.Char {
	chars := make([]pagesource.Char, 0, len(text))
	for i, r := range text {
		chars = append(chars, char(string(r), x+float64(i)*5, y, color))
	}
	return chars
}

var (
	black = pagesource.Color{0, 0, 0}
	white = pagesource.Color{1, 1, 1}
)
