package converters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/darianmavgo/megasena/converters/common"
)

// ErrNoSpreadsheet is returned by FindSpreadsheet when a directory holds no
// file with a recognized extension.
var ErrNoSpreadsheet = errors.New("no spreadsheet found")

// SourceReadError reports a spreadsheet that could not be located, opened
// or parsed. It is always fatal for a run.
type SourceReadError struct {
	Path string
	Err  error
}

func (e *SourceReadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("source: %v", e.Err)
	}
	return fmt.Sprintf("source %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

var extDrivers = map[string]string{
	".xlsx": "excel",
	".xlsm": "excel",
	".csv":  "csv",
	".tsv":  "csv",
	".txt":  "csv",
	".htm":  "html",
	".html": "html",
	".zip":  "zip",
}

// DriverFor returns the driver name for a path based on its extension.
func DriverFor(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if name, ok := extDrivers[ext]; ok {
		return name, nil
	}
	return "", fmt.Errorf("unsupported file type: %q", ext)
}

// FindSpreadsheet returns the first regular file in dir, in lexical order,
// whose extension has a driver.
func FindSpreadsheet(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &SourceReadError{Path: dir, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if _, err := DriverFor(name); err == nil {
			return filepath.Join(dir, name), nil
		}
	}
	return "", &SourceReadError{Path: dir, Err: ErrNoSpreadsheet}
}

// Source is an opened spreadsheet file.
type Source struct {
	common.RowProvider
	Path   string
	Driver string
	file   *os.File
}

// OpenFile opens the spreadsheet at path with the driver matching its
// extension. The caller must Close the returned Source.
func OpenFile(path string, config *common.ConversionConfig) (*Source, error) {
	driverName, err := DriverFor(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceReadError{Path: path, Err: err}
	}

	provider, err := Open(driverName, f, config)
	if err != nil {
		f.Close()
		return nil, &SourceReadError{Path: path, Err: err}
	}

	return &Source{RowProvider: provider, Path: path, Driver: driverName, file: f}, nil
}

// Close releases the provider and the underlying file.
func (s *Source) Close() error {
	var errs []error
	if c, ok := s.RowProvider.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	if s.file != nil {
		errs = append(errs, s.file.Close())
	}
	return errors.Join(errs...)
}
