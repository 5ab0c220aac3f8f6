// Package sheetsql loads spreadsheet workbooks into typed tables for querying.
package sheetsql

import "log/slog"

// Options configures loading behavior.
type Options struct {
	// OnSheetCount is called with the number of sheets as soon as the sheet
	// list is known, before any row is read.
	OnSheetCount func(n int)
	// Logger receives debug records; nil discards them.
	Logger *slog.Logger
}

// DefaultOptions returns default load options.
func DefaultOptions() Options {
	return Options{}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.DiscardHandler)
}
