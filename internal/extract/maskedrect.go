package extract

import (
	"math"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

const darkChannelMax = 0.2

// isDark reports whether every channel of the fill color lies in the dark
// band. A rectangle with no known fill color is not dark.
func isDark(c pagesource.Color) bool {
	if len(c) == 0 {
		return false
	}
	for _, ch := range c {
		if ch < 0.0 || ch > darkChannelMax {
			return false
		}
	}
	return true
}

// MaskedRectText recovers text covered by dark filled rectangles. Dark boxes
// are the standard redaction idiom, but naive redaction tools draw the box
// without removing the text underneath, so the characters remain in the page
// stream.
//
// Rectangles are grouped into vertical capture bands: a new band begins
// whenever a rectangle's top edge differs from the previous rectangle's,
// which corresponds to redaction boxes stacked vertically. Text captured
// under a band flushes as one artifact when the band changes and at the end
// of each page.
func MaskedRectText(doc pagesource.Document) ([]artifact.Artifact, error) {
	var artifacts []artifact.Artifact

	lastPage := 0
	lastBand := math.MinInt

	for n := 1; n <= doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return nil, &PageError{Path: doc.Path(), Page: lastPage, Stage: "filled rectangle text", Err: err}
		}
		lastPage = page.Number()

		var captured []byte
		flush := func() {
			if len(captured) == 0 {
				return
			}
			artifacts = append(artifacts, artifact.Artifact{
				PageNumber: page.Number(),
				Text:       string(captured),
				Type:       artifact.TypeFilledRectangle,
			})
			captured = captured[:0]
		}

		chars := page.Chars()
		for _, r := range page.Rects() {
			// Bounds rounded to whole units to absorb sub-pixel placement
			// noise from the source PDF.
			rx0 := int(math.Round(r.BBox.X0))
			ry0 := int(math.Round(r.BBox.Y0))
			rx1 := int(math.Round(r.BBox.X1))
			ry1 := int(math.Round(r.BBox.Y1))

			if band := ry1; band != lastBand {
				flush()
				lastBand = band
			}

			if !r.Filled || !isDark(r.FillColor) {
				continue
			}

			for _, c := range chars {
				if int(math.Round(c.BBox.X0)) >= rx0 &&
					int(math.Round(c.BBox.X1)) <= rx1 &&
					int(math.Round(c.BBox.Y0)) >= ry0 &&
					int(math.Round(c.BBox.Y1)) <= ry1 {
					captured = append(captured, c.Text...)
				}
			}
		}

		flush()
	}

	return artifacts, nil
}
