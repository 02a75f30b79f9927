// Package extract partitions a document's drawing primitives into typed
// artifacts: regular page text, white-on-white text, text hidden under dark
// filled rectangles, and OCR'd image text.
package extract

import (
	"sort"
	"strings"

	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

// positionTolerance is the merge distance for character placement, in page
// units. Characters within this distance on either axis belong to the same
// word or line.
const positionTolerance = 1.0

// Text extracts each page's full text and emits one regular-text artifact per
// page, with a trailing newline.
func Text(doc pagesource.Document) ([]artifact.Artifact, error) {
	var artifacts []artifact.Artifact

	for n := 1; n <= doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return nil, &PageError{Path: doc.Path(), Page: n - 1, Stage: "text", Err: err}
		}

		artifacts = append(artifacts, artifact.Artifact{
			PageNumber: page.Number(),
			Text:       assembleText(page.Chars()) + "\n",
			Type:       artifact.TypeText,
		})
	}

	return artifacts, nil
}

// assembleText merges positioned characters into lines and words. Characters
// whose baselines lie within the position tolerance share a line; a
// horizontal gap wider than the tolerance starts a new word.
func assembleText(chars []pagesource.Char) string {
	if len(chars) == 0 {
		return ""
	}

	sorted := make([]pagesource.Char, len(chars))
	copy(sorted, chars)

	// Top of page first, then left to right.
	sort.SliceStable(sorted, func(i, j int) bool {
		if di := sorted[i].BBox.Y0 - sorted[j].BBox.Y0; di > positionTolerance || di < -positionTolerance {
			return sorted[i].BBox.Y0 > sorted[j].BBox.Y0
		}
		return sorted[i].BBox.X0 < sorted[j].BBox.X0
	})

	var b strings.Builder
	lineY := sorted[0].BBox.Y0
	prevX1 := sorted[0].BBox.X0

	for i, c := range sorted {
		if i > 0 {
			if lineY-c.BBox.Y0 > positionTolerance {
				b.WriteByte('\n')
				lineY = c.BBox.Y0
			} else if c.BBox.X0-prevX1 > positionTolerance {
				b.WriteByte(' ')
			}
		}
		b.WriteString(c.Text)
		prevX1 = c.BBox.X1
	}

	return b.String()
}
