package extract

import "fmt"

// PageError reports a classifier failure mid-document. It carries the
// document path and the last successfully processed page number so the
// offending page can be located without re-running decoding or OCR.
type PageError struct {
	Path  string
	Page  int
	Stage string
	Err   error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("extracting %s from %s at page %d: %v", e.Stage, e.Path, e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}
