// Package artifact defines the units of extracted PDF content and the PII
// findings derived from them.
package artifact

import (
	"time"
)

// Type classifies an extracted artifact. The type is always set explicitly by
// the extractor that produced the artifact.
type Type string

const (
	TypeText            Type = "text"
	TypeImage           Type = "image"
	TypeWhiteText       Type = "white_text"
	TypeFilledRectangle Type = "filled_rectangle"
)

// Artifact is a single unit of content extracted from a document page.
// Artifacts are immutable once created: each one is produced by exactly one
// classifier call and consumed once by the matcher or aggregator.
type Artifact struct {
	// PageNumber is 1-based.
	PageNumber int
	Text       string
	// ObjectRef holds the re-encoded PNG bytes of the source image for image
	// artifacts, nil for pure-text artifacts.
	ObjectRef   []byte
	Description string
	Type        Type
}

// Finding is a PII hit (or a structurally interesting artifact such as masked
// text) attributed back to the artifact that produced it.
type Finding struct {
	PageNumber int    `json:"page_number"`
	Text       string `json:"text"`
	Type       Type   `json:"artifact_type"`
	// MatchedData is the matched substring, or the artifact's entire text when
	// the artifact itself is the finding.
	MatchedData string `json:"matched_data"`
	// MatchedDataType is the PII category key, or a literal category such as
	// "filled_rectangle" / "white_text".
	MatchedDataType string `json:"matched_data_type"`
}

// NewFinding builds a Finding from its source artifact plus the match payload.
func NewFinding(a Artifact, matchedData, matchedDataType string) Finding {
	return Finding{
		PageNumber:      a.PageNumber,
		Text:            a.Text,
		Type:            a.Type,
		MatchedData:     matchedData,
		MatchedDataType: matchedDataType,
	}
}

// Record is the per-document scan result.
type Record struct {
	Path                string
	Author              string
	Title               string
	Subject             string
	Keywords            string
	Producer            string
	Creator             string
	CreationDate        *time.Time
	ModificationDate    *time.Time
	PotentialSignatures bool
	Findings            []Finding
}

// SetFindings replaces the record's findings in a single assignment.
func (r *Record) SetFindings(findings []Finding) {
	r.Findings = findings
}

// recordJSON is the serialized shape of a Record.
type recordJSON struct {
	Path                string    `json:"path"`
	Author              string    `json:"author"`
	Title               string    `json:"title"`
	Subject             string    `json:"subject"`
	Keywords            string    `json:"keywords"`
	Producer            string    `json:"producer"`
	Creator             string    `json:"creator"`
	CreationDate        string    `json:"creation_date"`
	ModificationDate    string    `json:"modification_date"`
	PotentialSignatures bool      `json:"potential_signatures"`
	Findings            []Finding `json:"findings"`
}

// Serializable returns the record in its output shape. Dates render as
// ISO-8601 strings, or the empty string when absent.
func (r *Record) Serializable() any {
	out := recordJSON{
		Path:                r.Path,
		Author:              r.Author,
		Title:               r.Title,
		Subject:             r.Subject,
		Keywords:            r.Keywords,
		Producer:            r.Producer,
		Creator:             r.Creator,
		PotentialSignatures: r.PotentialSignatures,
		Findings:            r.Findings,
	}
	if out.Findings == nil {
		out.Findings = []Finding{}
	}
	if r.CreationDate != nil {
		out.CreationDate = r.CreationDate.Format(time.RFC3339)
	}
	if r.ModificationDate != nil {
		out.ModificationDate = r.ModificationDate.Format(time.RFC3339)
	}
	return out
}
