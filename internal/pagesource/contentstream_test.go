package pagesource

import (
	"math"
	"testing"
)

func TestScanContentRectsFilledBlack(t *testing.T) {
	content := []byte("0 0 0 rg\n10 20 100 15 re\nf\n")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}

	r := rects[0]
	if !r.Filled {
		t.Error("rect should be filled")
	}
	if r.BBox != (BBox{X0: 10, Y0: 20, X1: 110, Y1: 35}) {
		t.Errorf("bbox = %+v", r.BBox)
	}
	if len(r.FillColor) != 3 || r.FillColor[0] != 0 {
		t.Errorf("fill color = %v, want black rgb", r.FillColor)
	}
}

func TestScanContentRectsGrayOperator(t *testing.T) {
	content := []byte("0.1 g 0 0 50 50 re f")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	if len(rects[0].FillColor) != 1 || rects[0].FillColor[0] != 0.1 {
		t.Errorf("fill color = %v, want single 0.1 channel", rects[0].FillColor)
	}
}

func TestScanContentRectsCMYKConversion(t *testing.T) {
	// Full key, no CMY: solid black.
	content := []byte("0 0 0 1 k 0 0 10 10 re f")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	for i, ch := range rects[0].FillColor {
		if math.Abs(ch) > 1e-9 {
			t.Errorf("channel %d = %v, want 0", i, ch)
		}
	}
}

func TestScanContentRectsStrokedNotFilled(t *testing.T) {
	content := []byte("0 0 0 rg 10 10 30 30 re S")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	if rects[0].Filled {
		t.Error("stroked rect must not be marked filled")
	}
	if rects[0].FillColor != nil {
		t.Errorf("stroked rect carries fill color %v", rects[0].FillColor)
	}
}

func TestScanContentRectsStateStack(t *testing.T) {
	// The white fill set inside q/Q must not leak to the rect painted after Q.
	content := []byte("0 0 0 rg q 1 1 1 rg 0 0 10 10 re f Q 20 20 10 10 re f")

	rects := scanContentRects(content)
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	if rects[0].FillColor[0] != 1 {
		t.Errorf("inner rect color = %v, want white", rects[0].FillColor)
	}
	if rects[1].FillColor[0] != 0 {
		t.Errorf("outer rect color = %v, want black", rects[1].FillColor)
	}
}

func TestScanContentRectsMultipleSubpaths(t *testing.T) {
	// Two re operators before one fill paint both rectangles.
	content := []byte("0 g 0 0 10 10 re 20 0 10 10 re f")

	rects := scanContentRects(content)
	if len(rects) != 2 {
		t.Fatalf("got %d rects, want 2", len(rects))
	}
	for _, r := range rects {
		if !r.Filled {
			t.Errorf("rect %+v should be filled", r.BBox)
		}
	}
}

func TestScanContentRectsIgnoresTextAndInlineObjects(t *testing.T) {
	content := []byte("BT /F1 12 Tf (not 1 2 3 4 re f) Tj ET 0 g 5 5 10 10 re f")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1: %+v", len(rects), rects)
	}
	if rects[0].BBox.X0 != 5 {
		t.Errorf("bbox = %+v", rects[0].BBox)
	}
}

func TestScanContentRectsUnknownColorSpace(t *testing.T) {
	// A cs switch clears the known color; the following scn supplies it again.
	content := []byte("/CS0 cs 0.05 scn 0 0 10 10 re f")

	rects := scanContentRects(content)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	if len(rects[0].FillColor) != 1 || rects[0].FillColor[0] != 0.05 {
		t.Errorf("fill color = %v", rects[0].FillColor)
	}
}

func TestScanContentRectsEmptyContent(t *testing.T) {
	if rects := scanContentRects(nil); len(rects) != 0 {
		t.Errorf("got %d rects from empty content", len(rects))
	}
}
