// Package pagesource defines the document/page primitive surface the
// classifiers operate on, together with a concrete adapter backed by
// ledongthuc/pdf and a raw object scanner.
//
// The classifiers only ever see the interfaces in this file, so tests and
// alternative PDF backends can substitute their own implementations.
package pagesource

// BBox is an axis-aligned bounding box in page units. X grows right, Y grows
// up, matching PDF user space.
type BBox struct {
	X0, Y0, X1, Y1 float64
}

// Color holds the channels of a fill color, each in [0.0, 1.0]. One channel
// for grayscale, three for RGB. A nil slice means the color is unknown.
type Color []float64

// Char is a single positioned character primitive.
type Char struct {
	Text      string
	BBox      BBox
	FillColor Color
}

// Rect is a rectangle primitive.
type Rect struct {
	BBox      BBox
	Filled    bool
	FillColor Color
}

// ImageStream is an embedded image as declared in the document, with its raw
// stream payload and the encoding filter that applies to it.
type ImageStream struct {
	Filter           string
	Data             []byte
	Width            int
	Height           int
	ColorSpace       string
	BitsPerComponent int
}

// Page exposes one page's primitives in document order.
type Page interface {
	// Number is 1-based.
	Number() int
	Chars() []Char
	Rects() []Rect
	Images() []ImageStream
}

// Metadata is the document information dictionary. Date fields hold the raw
// PDF date strings.
type Metadata struct {
	Author       string
	Title        string
	Subject      string
	Keywords     string
	Producer     string
	Creator      string
	CreationDate string
	ModDate      string
}

// Document is an open PDF document.
type Document interface {
	Path() string
	PageCount() int
	// Page returns the 1-based n-th page.
	Page(n int) (Page, error)
	Info() Metadata
	Close() error
}
