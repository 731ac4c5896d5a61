package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/darianmavgo/megasena/converters"
	_ "github.com/darianmavgo/megasena/converters/all"
	"github.com/darianmavgo/megasena/draw"
	"github.com/darianmavgo/megasena/export"
	"github.com/darianmavgo/megasena/stats"

	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const scenario = "Concurso,Data,Bola1,Bola2,Bola3,Bola4,Bola5,Bola6,Ganhadores\n" +
	"1,01/01/2020,1,2,3,4,5,6,0\n" +
	"2,02/01/2020,1,1,2,3,4,5,0\n"

func writeSource(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

type recorder struct {
	groups [][]draw.Record
	fail   error
}

func (r *recorder) InsertGroup(_ context.Context, recs []draw.Record) error {
	if r.fail != nil {
		return r.fail
	}
	r.groups = append(r.groups, append([]draw.Record(nil), recs...))
	return nil
}

func TestImport_Scenario(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	sink := &recorder{}

	res, err := Import(context.Background(), sink, Options{
		Source: writeSource(t, "draws.csv", scenario),
		RunID:  "run-1",
		Logger: logger,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, res.Summary.Accepted)
	assert.Equal(t, 1, res.Summary.Skipped)
	assert.Equal(t, 1, res.Summary.ByReason[draw.ErrDuplicateNumbers])
	assert.Equal(t, 1, res.Inserted)

	require.Len(t, sink.groups, 1)
	assert.Equal(t, [6]int{1, 2, 3, 4, 5, 6}, sink.groups[0][0].Numbers)

	var warn *log.Entry
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel {
			warn = e
		}
		assert.Equal(t, "run-1", e.Data["run_id"])
	}
	require.NotNil(t, warn)
	assert.Equal(t, 2, warn.Data["contest"])
	assert.Equal(t, 3, warn.Data["row"])
	assert.Equal(t, "duplicate numbers", warn.Data["reason"])
}

func TestImport_PreservesColumnOrder(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sink := &recorder{}
	src := writeSource(t, "draws.csv", "Concurso;Data;B1;B2;B3;B4;B5;B6\n7;05/03/2021;41;5;4;52;30;33\n")

	_, err := Import(context.Background(), sink, Options{Source: src, Logger: logger})
	require.NoError(t, err)
	require.Len(t, sink.groups, 1)

	rec := sink.groups[0][0]
	assert.Equal(t, [6]int{41, 5, 4, 52, 30, 33}, rec.Numbers)
	assert.Equal(t, draw.Date{Year: 2021, Month: 3, Day: 5}, rec.Date)
	assert.Zero(t, rec.Winners6)
}

func TestImport_PersistenceError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	sink := &recorder{fail: errors.New("disk full")}

	res, err := Import(context.Background(), sink, Options{
		Source: writeSource(t, "draws.csv", scenario),
		Logger: logger,
	})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, res.Inserted)
	assert.Equal(t, 1, res.Summary.Accepted)
}

func TestExport_Scenario(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	src := writeSource(t, "draws.csv", "Concurso,Data,B1,B2,B3,B4,B5,B6\n1,01/01/2020,6,5,4,3,2,1\n2,02/01/2020,1,1,2,3,4,5\n")
	files := export.DefaultFiles(t.TempDir(), export.DefaultPrefix)

	res, err := Export(context.Background(), files, Options{Source: src, Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.Accepted)
	assert.Equal(t, 1, res.Summary.Skipped)

	txt, err := os.ReadFile(files.TXT)
	require.NoError(t, err)
	assert.Equal(t, export.TXTHeader+"\n1\t01/01/2020\t1\t2\t3\t4\t5\t6\n", string(txt))
}

func TestStats_Scenario(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	src := writeSource(t, "draws.csv", scenario+"3,03/01/2020,1,2,3,10,20,30,0\n")
	files := export.DefaultStatsFiles(t.TempDir())

	res, err := Stats(context.Background(), files, stats.Options{Recent: 1, MinPairs: 2, MinTrios: 2}, Options{Source: src, Logger: logger})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Summary.Accepted)
	assert.Equal(t, 1, res.Summary.Skipped)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 2, res.Stats.History.Draws)
	assert.Equal(t, []stats.Combination{
		{Numbers: []int{1, 2}, Count: 2},
		{Numbers: []int{1, 3}, Count: 2},
		{Numbers: []int{2, 3}, Count: 2},
	}, res.Stats.Pairs)
	assert.Equal(t, []stats.Combination{{Numbers: []int{1, 2, 3}, Count: 2}}, res.Stats.Trios)

	freq, err := os.ReadFile(files.Frequency)
	require.NoError(t, err)
	assert.Contains(t, string(freq), "01,2,16.67%,0 sorteios atrás\n")

	last := hook.LastEntry()
	require.NotNil(t, last)
	assert.Equal(t, "Stats finished", last.Message)
	assert.Equal(t, res.RunID, last.Data["run_id"])
}

func TestStats_MissingSource(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	_, err := Stats(context.Background(), export.DefaultStatsFiles(t.TempDir()), stats.Options{}, Options{Source: filepath.Join(t.TempDir(), "none.csv"), Logger: logger})
	assert.Error(t, err)
}

func TestExport_Excel(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"Concurso", "Data", "Bola1", "Bola2", "Bola3", "Bola4", "Bola5", "Bola6"},
		{1, "11/03/1996", 41, 5, 4, 52, 30, 33},
		{2, "18/03/1996", 9, 39, 37, 49, 43, 61},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	dir := t.TempDir()
	require.NoError(t, f.SaveAs(filepath.Join(dir, "resultados.xlsx")))

	logger, _ := logtest.NewNullLogger()
	files := export.DefaultFiles(filepath.Join(dir, "out"), "")
	res, err := Export(context.Background(), files, Options{Source: dir, Logger: logger})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "resultados.xlsx"), res.Source)
	assert.Equal(t, 1, res.Summary.Accepted)
	assert.Equal(t, 1, res.Summary.ByReason[draw.ErrInvalidRange])

	csv, err := os.ReadFile(files.CSV)
	require.NoError(t, err)
	assert.Equal(t, "contestNumber\tdate\tnumbers\n1\t11/03/1996\t4 5 30 33 41 52\n", string(csv))
}

func TestResolveSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), nil, 0644))

	_, err := ResolveSource(dir)
	assert.ErrorIs(t, err, converters.ErrNoSpreadsheet)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.csv"), nil, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xlsx"), nil, 0644))
	got, err := ResolveSource(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "a.xlsx"), got)

	_, err = ResolveSource(filepath.Join(dir, "missing.xlsx"))
	var srcErr *converters.SourceReadError
	assert.ErrorAs(t, err, &srcErr)
}

func TestImport_Cancelled(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Import(ctx, &recorder{}, Options{
		Source: writeSource(t, "draws.csv", scenario),
		Logger: logger,
	})
	assert.ErrorIs(t, err, ErrInterrupted)
}
