package pagesource

import (
	"strconv"
)

// scanContentRects walks a decoded content stream and recovers rectangle
// primitives with their paint state. It tracks the non-stroking color through
// g/rg/k/sc/scn and the q/Q state stack, collects `re` operands, and marks
// the pending rectangles filled when a fill operator paints them.
func scanContentRects(content []byte) []Rect {
	var rects []Rect

	var fill Color
	var stack []Color

	var operands []float64
	var pending []BBox

	emit := func(filled bool) {
		for _, b := range pending {
			r := Rect{BBox: b, Filled: filled}
			if filled && fill != nil {
				r.FillColor = append(Color(nil), fill...)
			}
			rects = append(rects, r)
		}
		pending = pending[:0]
	}

	tok := contentTokenizer{data: content}
	for {
		t, ok := tok.next()
		if !ok {
			break
		}

		if n, err := strconv.ParseFloat(t, 64); err == nil {
			operands = append(operands, n)
			continue
		}

		switch t {
		case "q":
			stack = append(stack, append(Color(nil), fill...))
		case "Q":
			if len(stack) > 0 {
				fill = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}
		case "g":
			fill = lastChannels(operands, 1)
		case "rg":
			fill = lastChannels(operands, 3)
		case "k":
			fill = cmykToRGB(lastChannels(operands, 4))
		case "sc", "scn":
			// Channel count depends on the current color space; take every
			// numeric operand of the operator.
			fill = append(Color(nil), operands...)
		case "cs":
			// Color space switch without channel values; color unknown until
			// the next sc/scn.
			fill = nil
		case "re":
			if len(operands) >= 4 {
				x, y := operands[len(operands)-4], operands[len(operands)-3]
				w, h := operands[len(operands)-2], operands[len(operands)-1]
				pending = append(pending, BBox{X0: x, Y0: y, X1: x + w, Y1: y + h})
			}
		case "f", "F", "f*", "b", "b*", "B", "B*":
			emit(true)
		case "n", "S", "s":
			emit(false)
		}
		operands = operands[:0]
	}

	return rects
}

func lastChannels(operands []float64, n int) Color {
	if len(operands) < n {
		return nil
	}
	return append(Color(nil), operands[len(operands)-n:]...)
}

// cmykToRGB maps CMYK channels onto RGB so the dark/white channel-band tests
// apply uniformly.
func cmykToRGB(c Color) Color {
	if len(c) != 4 {
		return c
	}
	conv := func(v float64) float64 {
		x := (1 - v) * (1 - c[3])
		if x < 0 {
			return 0
		}
		return x
	}
	return Color{conv(c[0]), conv(c[1]), conv(c[2])}
}

// contentTokenizer yields content-stream tokens: numbers and operator
// keywords as-is, while strings, arrays, dictionaries and names are consumed
// and reported under placeholder tokens so operand counting stays sane.
type contentTokenizer struct {
	data []byte
	pos  int
}

func (t *contentTokenizer) next() (string, bool) {
	for t.pos < len(t.data) && isWhitespace(t.data[t.pos]) {
		t.pos++
	}
	if t.pos >= len(t.data) {
		return "", false
	}

	switch b := t.data[t.pos]; b {
	case '%':
		for t.pos < len(t.data) && t.data[t.pos] != '\n' && t.data[t.pos] != '\r' {
			t.pos++
		}
		return t.next()
	case '(':
		t.skipString()
		return "(str)", true
	case '<':
		if t.pos+1 < len(t.data) && t.data[t.pos+1] == '<' {
			t.skipDict()
			return "(dict)", true
		}
		t.skipHex()
		return "(hex)", true
	case '[':
		t.skipArray()
		return "(arr)", true
	case '/':
		t.pos++
		t.readBare()
		return "(name)", true
	case ']', '>', '}', '{':
		t.pos++
		return string(b), true
	default:
		return t.readBare(), true
	}
}

func (t *contentTokenizer) readBare() string {
	start := t.pos
	for t.pos < len(t.data) && !isWhitespace(t.data[t.pos]) && !isDelimiter(t.data[t.pos]) {
		t.pos++
	}
	if t.pos == start {
		t.pos++
	}
	return string(t.data[start:t.pos])
}

func (t *contentTokenizer) skipString() {
	depth := 0
	for t.pos < len(t.data) {
		switch t.data[t.pos] {
		case '\\':
			t.pos++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				t.pos++
				return
			}
		}
		t.pos++
	}
}

func (t *contentTokenizer) skipHex() {
	for t.pos < len(t.data) && t.data[t.pos] != '>' {
		t.pos++
	}
	if t.pos < len(t.data) {
		t.pos++
	}
}

func (t *contentTokenizer) skipArray() {
	depth := 0
	for t.pos < len(t.data) {
		switch t.data[t.pos] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				t.pos++
				return
			}
		case '(':
			t.skipString()
			continue
		}
		t.pos++
	}
}

func (t *contentTokenizer) skipDict() {
	depth := 0
	for t.pos+1 < len(t.data) {
		if t.data[t.pos] == '<' && t.data[t.pos+1] == '<' {
			depth++
			t.pos += 2
			continue
		}
		if t.data[t.pos] == '>' && t.data[t.pos+1] == '>' {
			depth--
			t.pos += 2
			if depth == 0 {
				return
			}
			continue
		}
		if t.data[t.pos] == '(' {
			t.skipString()
			continue
		}
		t.pos++
	}
	t.pos = len(t.data)
}
