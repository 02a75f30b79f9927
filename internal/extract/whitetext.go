package extract

import (
	"github.com/redactcheck/redactcheck/internal/artifact"
	"github.com/redactcheck/redactcheck/internal/pagesource"
)

const (
	whiteChannelMin = 0.8
	whiteChannelMax = 1.0
)

// isWhite reports whether every channel of the fill color lies in the
// near-white band. A character with no known fill color is not white.
func isWhite(c pagesource.Color) bool {
	if len(c) == 0 {
		return false
	}
	for _, ch := range c {
		if ch < whiteChannelMin || ch > whiteChannelMax {
			return false
		}
	}
	return true
}

// WhiteText streams characters in document order and accumulates consecutive
// near-white runs. A run flushes as one white-text artifact as soon as a
// non-white character follows it, tagged with the page the run ended on.
// White-on-white text is invisible against the page but still present in the
// character stream, a common PII-leak pattern.
func WhiteText(doc pagesource.Document) ([]artifact.Artifact, error) {
	var artifacts []artifact.Artifact

	var buf []byte
	bufPage := 0
	lastPage := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		artifacts = append(artifacts, artifact.Artifact{
			PageNumber: bufPage,
			Text:       string(buf),
			Type:       artifact.TypeWhiteText,
		})
		buf = buf[:0]
	}

	for n := 1; n <= doc.PageCount(); n++ {
		page, err := doc.Page(n)
		if err != nil {
			return nil, &PageError{Path: doc.Path(), Page: lastPage, Stage: "white text", Err: err}
		}
		lastPage = page.Number()

		for _, c := range page.Chars() {
			if isWhite(c.FillColor) {
				buf = append(buf, c.Text...)
				bufPage = page.Number()
			} else {
				flush()
			}
		}
	}

	flush()
	return artifacts, nil
}
