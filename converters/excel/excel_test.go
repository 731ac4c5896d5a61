package excel

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/darianmavgo/megasena/converters/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type scanned struct {
	row   int
	cells []any
}

func scanAll(t *testing.T, p common.RowProvider) []scanned {
	t.Helper()
	var out []scanned
	err := p.ScanRows(context.Background(), func(row int, cells []any) error {
		out = append(out, scanned{row: row, cells: append([]any(nil), cells...)})
		return nil
	})
	require.NoError(t, err)
	return out
}

func workbook(t *testing.T, build func(f *excelize.File)) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	build(f)
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestExcelConverter_ReadsDrawRows(t *testing.T) {
	r := workbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Concurso", "Data do Sorteio", "Bola1", "Bola2", "Bola3", "Bola4", "Bola5", "Bola6", "Ganhadores 6 acertos"}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{1, "11/03/1996", 41, 5, 4, 52, 30, 33, 0}))
		require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]any{2, time.Date(1996, 3, 18, 0, 0, 0, 0, time.UTC), 9, 39, 37, 49, 43, 41, 1}))
	})

	conv, err := NewExcelConverter(r)
	require.NoError(t, err)
	defer conv.Close()

	assert.Equal(t, "Sheet1", conv.Sheet())

	rows := scanAll(t, conv)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].row)
	assert.Equal(t, []any{"1", "11/03/1996", "41", "5", "4", "52", "30", "33", "0"}, rows[0].cells)

	assert.Equal(t, 3, rows[1].row)
	require.Len(t, rows[1].cells, 9)
	assert.Equal(t, "2", rows[1].cells[0])
	date, ok := rows[1].cells[1].(time.Time)
	require.True(t, ok, "date cell should be converted, got %T", rows[1].cells[1])
	assert.Equal(t, "1996-03-18", date.Format(time.DateOnly))
	assert.Equal(t, "9", rows[1].cells[2])
}

func TestExcelConverter_EmptyCellsAreNil(t *testing.T) {
	r := workbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "Concurso"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", 5))
		require.NoError(t, f.SetCellValue("Sheet1", "C2", 7))
	})

	conv, err := NewExcelConverter(r)
	require.NoError(t, err)
	defer conv.Close()

	rows := scanAll(t, conv)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"5", nil, "7"}, rows[0].cells)
}

func TestExcelConverter_ActiveAndNamedSheet(t *testing.T) {
	build := func(f *excelize.File) {
		idx, err := f.NewSheet("Resultados")
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "Concurso"))
		require.NoError(t, f.SetCellValue("Resultados", "A1", "Concurso"))
		require.NoError(t, f.SetCellValue("Sheet1", "A2", "ignored"))
		require.NoError(t, f.SetCellValue("Resultados", "A2", "2700"))
		f.SetActiveSheet(idx)
	}

	conv, err := NewExcelConverter(workbook(t, build))
	require.NoError(t, err)
	assert.Equal(t, "Resultados", conv.Sheet())
	rows := scanAll(t, conv)
	require.Len(t, rows, 1)
	assert.Equal(t, "2700", rows[0].cells[0])
	conv.Close()

	cfg := common.DefaultConversionConfig()
	cfg.Sheet = "Sheet1"
	conv, err = NewExcelConverterWithConfig(workbook(t, build), cfg)
	require.NoError(t, err)
	rows = scanAll(t, conv)
	require.Len(t, rows, 1)
	assert.Equal(t, "ignored", rows[0].cells[0])
	conv.Close()

	cfg.Sheet = "Missing"
	_, err = NewExcelConverterWithConfig(workbook(t, build), cfg)
	assert.ErrorContains(t, err, `sheet "Missing" not found`)
}

func TestExcelConverter_StopsOnYieldError(t *testing.T) {
	r := workbook(t, func(f *excelize.File) {
		require.NoError(t, f.SetCellValue("Sheet1", "A1", "Concurso"))
		for i := 2; i <= 5; i++ {
			cell, _ := excelize.CoordinatesToCellName(1, i)
			require.NoError(t, f.SetCellValue("Sheet1", cell, i))
		}
	})

	conv, err := NewExcelConverter(r)
	require.NoError(t, err)
	defer conv.Close()

	stop := assert.AnError
	calls := 0
	err = conv.ScanRows(context.Background(), func(int, []any) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestExcelConverter_RejectsGarbage(t *testing.T) {
	_, err := NewExcelConverter(bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}
