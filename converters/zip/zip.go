package zip

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/darianmavgo/megasena/converters"
	"github.com/darianmavgo/megasena/converters/common"
)

func init() {
	converters.Register("zip", &zipDriver{})
}

type zipDriver struct{}

func (d *zipDriver) Open(source io.Reader, config *common.ConversionConfig) (common.RowProvider, error) {
	return NewZipConverterWithConfig(source, config)
}

// SizableReaderAt interface for inputs that support random access and size query
type SizableReaderAt interface {
	io.ReaderAt
	Size() int64
}

// ZipConverter reads draw rows from a spreadsheet stored inside a zip
// archive, such as the D_mgsasc.zip download that wraps D_MEGA.HTM.
type ZipConverter struct {
	entry string
	inner common.RowProvider
	rc    io.ReadCloser
}

// Ensure ZipConverter implements RowProvider
var _ common.RowProvider = (*ZipConverter)(nil)

// Ensure ZipConverter implements io.Closer
var _ io.Closer = (*ZipConverter)(nil)

// NewZipConverter creates a new ZipConverter from an io.Reader
func NewZipConverter(r io.Reader) (*ZipConverter, error) {
	return NewZipConverterWithConfig(r, nil)
}

// NewZipConverterWithConfig opens the configured entry, or the first entry
// in archive order that has a registered driver, and delegates to it.
func NewZipConverterWithConfig(r io.Reader, config *common.ConversionConfig) (*ZipConverter, error) {
	config = config.OrDefault()

	zr, err := newReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zip reader: %w", err)
	}

	var entry *zip.File
	var driverName string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if config.EntryName != "" && f.Name != config.EntryName && path.Base(f.Name) != config.EntryName {
			continue
		}
		name, err := converters.DriverFor(f.Name)
		if err != nil || name == "zip" {
			continue
		}
		entry, driverName = f, name
		break
	}
	if entry == nil {
		if config.EntryName != "" {
			return nil, fmt.Errorf("entry %q not found in archive", config.EntryName)
		}
		return nil, errors.New("archive holds no readable spreadsheet")
	}

	rc, err := entry.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open entry %s: %w", entry.Name, err)
	}

	inner, err := converters.Open(driverName, rc, config)
	if err != nil {
		rc.Close()
		return nil, fmt.Errorf("failed to read entry %s: %w", entry.Name, err)
	}

	return &ZipConverter{entry: entry.Name, inner: inner, rc: rc}, nil
}

func newReader(r io.Reader) (*zip.Reader, error) {
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat file: %w", err)
		}
		return zip.NewReader(f, info.Size())
	}
	if sa, ok := r.(SizableReaderAt); ok {
		return zip.NewReader(sa, sa.Size())
	}

	// Plain streams are buffered; draw archives are a few hundred KB.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}
	return zip.NewReader(bytes.NewReader(data), int64(len(data)))
}

// Entry returns the archive entry being read.
func (z *ZipConverter) Entry() string {
	return z.entry
}

// ScanRows implements RowProvider
func (z *ZipConverter) ScanRows(ctx context.Context, yield func(int, []any) error) error {
	return z.inner.ScanRows(ctx, yield)
}

// Close releases the inner provider and the entry reader.
func (z *ZipConverter) Close() error {
	var errs []error
	if c, ok := z.inner.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, z.rc.Close())
	return errors.Join(errs...)
}
