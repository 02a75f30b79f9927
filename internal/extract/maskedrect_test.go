package extract

import (
	"testing"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

func rect(x0, y0, x1, y1 float64, filled bool, color pagesource.Color) pagesource.Rect {
	return pagesource.Rect{
		BBox:      pagesource.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		Filled:    filled,
		FillColor: color,
	}
}

func TestIsDark(t *testing.T) {
	tests := []struct {
		name  string
		color pagesource.Color
		want  bool
	}{
		{"black rgb", pagesource.Color{0, 0, 0}, true},
		{"dark gray", pagesource.Color{0.1}, true},
		{"boundary", pagesource.Color{0.2, 0.2, 0.2}, true},
		{"just above band", pagesource.Color{0.21, 0, 0}, false},
		{"white", pagesource.Color{1, 1, 1}, false},
		{"unknown color", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDark(tt.color); got != tt.want {
				t.Errorf("isDark(%v) = %v, want %v", tt.color, got, tt.want)
			}
		})
	}
}

func TestMaskedRectTextCapturesCoveredChars(t *testing.T) {
	chars := word("REDACTED", 10, 5, black)
	chars = append(chars, char("o", 200, 5, black)) // outside the box

	doc := &fakeDoc{path: "a.pdf", pages: []*fakePage{{
		number: 1,
		chars:  chars,
		rects:  []pagesource.Rect{rect(0, 0, 100, 20, true, black)},
	}}}

	got, err := MaskedRectText(doc)
	if err != nil {
		t.Fatalf("MaskedRectText returned error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d artifacts, want 1", len(got))
	}
	if got[0].Text != "REDACTED" {
		t.Errorf("text = %q, want REDACTED", got[0].Text)
	}
	if got[0].Type != artifact.TypeFilledRectangle {
		t.Errorf("type = %q, want %q", got[0].Type, artifact.TypeFilledRectangle)
	}
}

func TestMaskedRectTextIgnoresLightAndUnfilledRects(t *testing.T) {
	chars := word("TEXT", 10, 5, black)

	doc := &fakeDoc{path: "a.pdf", pages: []*fakePage{{
		number: 1,
		chars:  chars,
		rects: []pagesource.Rect{
			rect(0, 0, 100, 20, true, white),  // filled but light
			rect(0, 0, 100, 20, false, black), // dark but stroked only
			rect(0, 0, 100, 20, true, nil),    // fill color unknown
		},
	}}}

	got, err := MaskedRectText(doc)
	if err != nil {
		t.Fatalf("MaskedRectText returned error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d artifacts, want 0: %+v", len(got), got)
	}
}

func TestMaskedRectTextBandGrouping(t *testing.T) {
	// Two redaction boxes at the same height merge into one capture band, a
	// third at a different height starts a new one.
	var chars []pagesource.Char
	chars = append(chars, word("AB", 10, 5, black)...)
	chars = append(chars, word("CD", 110, 5, black)...)
	chars = append(chars, word("EF", 10, 55, black)...)

	doc := &fakeDoc{path: "a.pdf", pages: []*fakePage{{
		number: 1,
		chars:  chars,
		rects: []pagesource.Rect{
			rect(0, 0, 100, 20, true, black),
			rect(100, 0, 200, 20, true, black),
			rect(0, 50, 100, 70, true, black),
		},
	}}}

	got, err := MaskedRectText(doc)
	if err != nil {
		t.Fatalf("MaskedRectText returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d artifacts, want 2: %+v", len(got), got)
	}
	if got[0].Text != "ABCD" {
		t.Errorf("first band text = %q, want ABCD", got[0].Text)
	}
	if got[1].Text != "EF" {
		t.Errorf("second band text = %q, want EF", got[1].Text)
	}
}

func TestMaskedRectTextCharOnBoundary(t *testing.T) {
	// A character exactly on the rectangle edge counts as covered after
	// rounding.
	doc := &fakeDoc{path: "a.pdf", pages: []*fakePage{{
		number: 1,
		chars:  []pagesource.Char{char("E", 95, 10, black)}, // box ends at X1=100
		rects:  []pagesource.Rect{rect(0, 0, 100, 20, true, black)},
	}}}

	got, err := MaskedRectText(doc)
	if err != nil {
		t.Fatalf("MaskedRectText returned error: %v", err)
	}
	if len(got) != 1 || got[0].Text != "E" {
		t.Fatalf("got %+v, want one artifact with text E", got)
	}
}

func TestMaskedRectTextFlushesPerPage(t *testing.T) {
	page := func(n int, text string) *fakePage {
		return &fakePage{
			number: n,
			chars:  word(text, 10, 5, black),
			rects:  []pagesource.Rect{rect(0, 0, 100, 20, true, black)},
		}
	}

	doc := &fakeDoc{path: "a.pdf", pages: []*fakePage{page(1, "ONE"), page(2, "TWO")}}

	got, err := MaskedRectText(doc)
	if err != nil {
		t.Fatalf("MaskedRectText returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(got))
	}
	if got[0].PageNumber != 1 || got[0].Text != "ONE" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].PageNumber != 2 || got[1].Text != "TWO" {
		t.Errorf("second = %+v", got[1])
	}
}
