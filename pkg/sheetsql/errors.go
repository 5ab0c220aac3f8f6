package sheetsql

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidFormat indicates the input file is not a supported spreadsheet format.
var ErrInvalidFormat = errors.New("invalid xlsx format")

// ErrCancelled indicates a stage observed a cancellation request and stopped.
// It is not a failure and never wraps into LoadError, QueryError or ExportError.
var ErrCancelled = errors.New("cancelled")

// ErrEmptyQuery indicates there is no query text to save or run.
var ErrEmptyQuery = errors.New("query is empty")

// LoadError represents an error while loading a workbook.
type LoadError struct {
	Path  string
	Sheet string // empty when the failure is not tied to a sheet
	Err   error
}

func (e *LoadError) Error() string {
	if e.Sheet != "" {
		return fmt.Sprintf("failed to load %s: sheet %q: %v", e.Path, e.Sheet, e.Err)
	}
	return fmt.Sprintf("failed to load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(path, sheet string, err error) *LoadError {
	return &LoadError{
		Path:  path,
		Sheet: sheet,
		Err:   err,
	}
}

// QueryError represents an error reported by the query engine.
// Message is the engine's error text, unmodified.
type QueryError struct {
	Message string
	Err     error
}

func (e *QueryError) Error() string {
	return e.Message
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError creates a QueryError carrying the engine's message.
func NewQueryError(err error) *QueryError {
	return &QueryError{
		Message: err.Error(),
		Err:     err,
	}
}

// ExportError represents an error while writing the result workbook.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// NewExportError creates a new ExportError.
func NewExportError(path string, err error) *ExportError {
	return &ExportError{
		Path: path,
		Err:  err,
	}
}
