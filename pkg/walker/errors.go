package walker

import (
	"errors"
	"fmt"
)

// ErrListDir is returned when a directory required by the walk cannot be listed.
var ErrListDir = errors.New("could not open directory")

// WalkError records the directory that failed to list.
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrListDir, e.Path, e.Err)
}

// Unwrap exposes both ErrListDir and the underlying os error to errors.Is.
func (e *WalkError) Unwrap() []error {
	return []error{ErrListDir, e.Err}
}

// ErrBadPattern is returned for an exclude pattern doublestar cannot parse.
var ErrBadPattern = errors.New("invalid exclude pattern")
