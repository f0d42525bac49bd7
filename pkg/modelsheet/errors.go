package modelsheet

import (
	"errors"
	"fmt"
)

// ErrNoElementID indicates a label without any digit run to use as an element id.
var ErrNoElementID = errors.New("no element id in label")

// ErrDestinationExists indicates the export target is already present.
var ErrDestinationExists = errors.New("destination already exists")

// FormatError reports a label that cannot yield an element id.
// A nil Err means the label had no digits at all.
type FormatError struct {
	Name string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid element label %q: %v", e.Name, e.Unwrap())
}

func (e *FormatError) Unwrap() error {
	if e.Err == nil {
		return ErrNoElementID
	}
	return e.Err
}

// IOError represents a failure persisting a workbook.
type IOError struct {
	Op   string // "create", "render", "write", "close"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("export %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// SheetError represents a row failure that aborted a whole sheet.
type SheetError struct {
	Sheet    string
	ObjectID int64
	Err      error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("sheet %q: object %d: %v", e.Sheet, e.ObjectID, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}
