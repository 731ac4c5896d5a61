package common

import (
	"context"
	"io"
)

// RowProvider yields the data rows of a spreadsheet source. Header rows are
// already skipped.
type RowProvider interface {
	// ScanRows calls yield once per data row, in source order. row is the
	// 1-based row number in the source. The cells slice may be reused
	// between calls; copy it to retain it.
	// If yield returns an error, iteration stops and that error is returned.
	ScanRows(ctx context.Context, yield func(row int, cells []any) error) error
}

// Driver opens one spreadsheet format. Each format package registers one.
type Driver interface {
	// Open returns a new RowProvider for the given input.
	Open(source io.Reader, config *ConversionConfig) (RowProvider, error)
}
