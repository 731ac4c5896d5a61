package excel

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/darianmavgo/megasena/converters"
	"github.com/darianmavgo/megasena/converters/common"

	"github.com/xuri/excelize/v2"
)

func init() {
	converters.Register("excel", &excelDriver{})
}

type excelDriver struct{}

func (d *excelDriver) Open(source io.Reader, config *common.ConversionConfig) (common.RowProvider, error) {
	return NewExcelConverterWithConfig(source, config)
}

// ExcelConverter reads draw rows from one sheet of an xlsx workbook.
type ExcelConverter struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	config   common.ConversionConfig
}

// Ensure ExcelConverter implements RowProvider
var _ common.RowProvider = (*ExcelConverter)(nil)

// Ensure ExcelConverter implements io.Closer
var _ io.Closer = (*ExcelConverter)(nil)

// NewExcelConverter creates a new ExcelConverter from an io.Reader
func NewExcelConverter(r io.Reader) (*ExcelConverter, error) {
	return NewExcelConverterWithConfig(r, nil)
}

// NewExcelConverterWithConfig creates a new ExcelConverter from an io.Reader with optional config.
// Without a configured sheet the workbook's active sheet is read.
func NewExcelConverterWithConfig(r io.Reader, config *common.ConversionConfig) (*ExcelConverter, error) {
	config = config.OrDefault()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel stream: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		f.Close()
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheet := config.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
		if sheet == "" {
			sheet = sheets[0]
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(sheets, ", "))
	}

	var date1904 bool
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	return &ExcelConverter{
		file:     f,
		sheet:    sheet,
		date1904: date1904,
		config:   *config,
	}, nil
}

// Sheet returns the name of the sheet being read.
func (e *ExcelConverter) Sheet() string {
	return e.sheet
}

// ScanRows implements RowProvider.
// Cells are read raw: numbers come back unformatted and date columns holding
// serial numbers are converted to time.Time.
func (e *ExcelConverter) ScanRows(ctx context.Context, yield func(int, []any) error) error {
	rows, err := e.file.Rows(e.sheet)
	if err != nil {
		return fmt.Errorf("failed to get rows iterator for sheet %s: %w", e.sheet, err)
	}
	defer rows.Close()

	var cells []any
	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}
		if rowNum <= e.config.HeaderRows {
			continue
		}

		cells = cells[:0]
		for i, val := range cols {
			cells = append(cells, e.cellValue(i, val))
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

	return rows.Error()
}

func (e *ExcelConverter) cellValue(col int, raw string) any {
	if raw == "" {
		return nil
	}
	if e.config.IsDateColumn(col) {
		if serial, err := strconv.ParseFloat(raw, 64); err == nil {
			if t, err := excelize.ExcelDateToTime(serial, e.date1904); err == nil {
				return t
			}
		}
	}
	return raw
}

// Close closes the underlying Excel file
func (e *ExcelConverter) Close() error {
	if e.file != nil {
		return e.file.Close()
	}
	return nil
}
