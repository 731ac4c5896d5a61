// Package pipeline runs the import and export paths: read a spreadsheet,
// validate each row, and hand the accepted draws to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/darianmavgo/megasena/converters"
	"github.com/darianmavgo/megasena/converters/common"
	"github.com/darianmavgo/megasena/draw"
	"github.com/darianmavgo/megasena/export"
	"github.com/darianmavgo/megasena/stats"
	"github.com/darianmavgo/megasena/store"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrInterrupted = errors.New("operation interrupted by user")

// Options configures one run.
type Options struct {
	// Source is a spreadsheet path or a directory to search. Empty means
	// the current directory.
	Source      string
	Conversion  *common.ConversionConfig
	GroupSize   int
	CreateTable bool
	RunID       string
	Logger      *log.Logger
}

// Result describes a finished run.
type Result struct {
	RunID      string
	Source     string
	Summary    draw.Summary
	Inserted   int
	Files      export.Files
	Stats      *stats.Report
	StatsFiles export.StatsFiles
}

func (o *Options) entry() (*log.Entry, string) {
	runID := o.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logger := o.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return logger.WithField("run_id", runID), runID
}

// ResolveSource returns the spreadsheet to read: path itself, or the first
// recognized file when path is a directory or empty.
func ResolveSource(path string) (string, error) {
	if path == "" {
		path = "."
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", &converters.SourceReadError{Path: path, Err: err}
	}
	if info.IsDir() {
		return converters.FindSpreadsheet(path)
	}
	return path, nil
}

// Collect evaluates every row of provider. Rejected rows are logged and
// counted; accepted records are returned in source order.
func Collect(ctx context.Context, provider common.RowProvider, mode draw.Mode, logger *log.Entry) ([]draw.Record, draw.Summary, error) {
	var records []draw.Record
	var summary draw.Summary

	err := provider.ScanRows(ctx, func(row int, cells []any) error {
		o := draw.Evaluate(row, cells, mode)
		summary.Add(o)

		switch {
		case o.Blank:
			logger.WithField("row", row).Debug("blank row")
		case o.Err != nil:
			reason, _ := draw.ReasonOf(o.Err)
			logger.WithFields(log.Fields{
				"row":     row,
				"contest": o.Contest(),
				"reason":  string(reason),
			}).Warn(o.Err.Error())
		default:
			records = append(records, o.Record)
		}
		return nil
	})
	return records, summary, err
}

// read opens the source, collects its rows and closes it.
func read(ctx context.Context, opts *Options, mode draw.Mode, logger *log.Entry) (string, []draw.Record, draw.Summary, error) {
	path, err := ResolveSource(opts.Source)
	if err != nil {
		return "", nil, draw.Summary{}, err
	}

	src, err := converters.OpenFile(path, opts.Conversion)
	if err != nil {
		return path, nil, draw.Summary{}, err
	}
	defer src.Close()

	logger.WithFields(log.Fields{"source": path, "driver": src.Driver, "mode": mode.String()}).Info("Reading spreadsheet")

	records, summary, err := Collect(ctx, src, mode, logger)
	if err != nil {
		if ctx.Err() != nil {
			return path, nil, summary, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return path, nil, summary, &converters.SourceReadError{Path: path, Err: err}
	}
	return path, records, summary, nil
}

// Import reads the source with numbers in column order and writes the
// accepted draws to sink in groups, one transaction each.
func Import(ctx context.Context, sink store.GroupInserter, opts Options) (*Result, error) {
	logger, runID := opts.entry()
	res := &Result{RunID: runID}

	path, records, summary, err := read(ctx, &opts, draw.PreserveOrder, logger)
	res.Source, res.Summary = path, summary
	if err != nil {
		return res, err
	}

	if opts.CreateTable {
		if t, ok := sink.(interface{ EnsureTable(context.Context) error }); ok {
			if err := t.EnsureTable(ctx); err != nil {
				return res, err
			}
		}
	}

	n, err := store.Emit(ctx, sink, records, opts.GroupSize, func(group, inserted, total int) {
		logger.WithFields(log.Fields{
			"group":    group,
			"inserted": inserted,
			"total":    total,
		}).Info("Group committed")
	})
	res.Inserted = n
	if err != nil {
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}
		return res, err
	}

	logger.WithFields(log.Fields{
		"accepted": summary.Accepted,
		"skipped":  summary.Skipped,
		"inserted": n,
	}).Info("Import finished")
	return res, nil
}

// Export reads the source with numbers sorted and writes the JSON, CSV and
// TXT files from the same record list.
func Export(ctx context.Context, files export.Files, opts Options) (*Result, error) {
	logger, runID := opts.entry()
	res := &Result{RunID: runID, Files: files}

	path, records, summary, err := read(ctx, &opts, draw.SortAscending, logger)
	res.Source, res.Summary = path, summary
	if err != nil {
		return res, err
	}

	if err := export.WriteAll(files, records); err != nil {
		return res, err
	}

	logger.WithFields(log.Fields{
		"accepted": summary.Accepted,
		"skipped":  summary.Skipped,
		"json":     files.JSON,
		"csv":      files.CSV,
		"txt":      files.TXT,
	}).Info("Export finished")
	return res, nil
}

// Stats reads the source with numbers sorted, computes the number analytics
// and writes them as CSV files.
func Stats(ctx context.Context, files export.StatsFiles, statsOpts stats.Options, opts Options) (*Result, error) {
	logger, runID := opts.entry()
	res := &Result{RunID: runID, StatsFiles: files}

	path, records, summary, err := read(ctx, &opts, draw.SortAscending, logger)
	res.Source, res.Summary = path, summary
	if err != nil {
		return res, err
	}

	res.Stats = stats.Compute(records, statsOpts)
	if err := export.WriteStats(files, res.Stats); err != nil {
		return res, err
	}

	logger.WithFields(log.Fields{
		"accepted":  summary.Accepted,
		"skipped":   summary.Skipped,
		"frequency": files.Frequency,
		"gaps":      files.Gaps,
		"hot_cold":  files.HotCold,
		"pairs":     len(res.Stats.Pairs),
		"trios":     len(res.Stats.Trios),
	}).Info("Stats finished")
	return res, nil
}
