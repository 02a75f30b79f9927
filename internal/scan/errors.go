package scan

import "fmt"

// DocumentOpenError reports a document that could not be opened or has no
// pages. It is fatal for that document only, never for siblings in the same
// batch.
type DocumentOpenError struct {
	Path string
	Err  error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("opening document %s: %v", e.Path, e.Err)
}

func (e *DocumentOpenError) Unwrap() error {
	return e.Err
}
