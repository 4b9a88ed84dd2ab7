package output

import "fmt"

// WriteError reports a page that could not be persisted. Pages written
// before it are left in place.
type WriteError struct {
	// Path is the file or directory that failed.
	Path string

	// Page is the 0-based page index, or -1 for directory failures.
	Page int

	Err error
}

func (e *WriteError) Error() string {
	if e.Page < 0 {
		return fmt.Sprintf("failed to prepare output directory %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to write page %d to %s: %v", e.Page+1, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
