package csv

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/darianmavgo/megasena/converters"
	"github.com/darianmavgo/megasena/converters/common"
)

func init() {
	converters.Register("csv", &csvDriver{})
}

type csvDriver struct{}

func (d *csvDriver) Open(source io.Reader, config *common.ConversionConfig) (common.RowProvider, error) {
	return NewCSVConverterWithConfig(source, config)
}

const bom = "\ufeff"

// CSVConverter reads draw rows from delimited text (CSV, TSV, or the
// semicolon-separated sheets Excel writes under Brazilian locales).
type CSVConverter struct {
	csvReader *csv.Reader
	Config    common.ConversionConfig
}

// Ensure CSVConverter implements RowProvider
var _ common.RowProvider = (*CSVConverter)(nil)

// NewCSVConverter creates a new CSVConverter from an io.Reader.
// Rows are streamed, so ScanRows can only be called once.
func NewCSVConverter(r io.Reader) (*CSVConverter, error) {
	return NewCSVConverterWithConfig(r, nil)
}

// NewCSVConverterWithConfig creates a new CSVConverter from an io.Reader with optional config.
func NewCSVConverterWithConfig(r io.Reader, config *common.ConversionConfig) (*CSVConverter, error) {
	cfg := *config.OrDefault()

	br := bufio.NewReaderSize(r, 65536)

	// Detect delimiter if not set
	if cfg.Delimiter == 0 {
		peekBytes, _ := br.Peek(2048)
		sample := strings.TrimPrefix(string(peekBytes), bom)
		if idx := strings.IndexAny(sample, "\r\n"); idx != -1 {
			sample = sample[:idx]
		}
		cfg.Delimiter = common.DetectDelimiter(sample)
	}

	reader := csv.NewReader(br)
	reader.Comma = cfg.Delimiter
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	return &CSVConverter{
		csvReader: reader,
		Config:    cfg,
	}, nil
}

// ScanRows implements RowProvider.
func (c *CSVConverter) ScanRows(ctx context.Context, yield func(int, []any) error) error {
	if c.csvReader == nil {
		return fmt.Errorf("CSV reader is not initialized")
	}

	var cells []any
	rowNum := 0
	for {
		record, err := c.csvReader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row %d: %w", rowNum+1, err)
		}
		rowNum++
		if rowNum == 1 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], bom)
		}
		if rowNum <= c.Config.HeaderRows {
			continue
		}

		cells = cells[:0]
		for _, val := range record {
			cells = append(cells, val)
		}
		if err := yield(rowNum, cells); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}
