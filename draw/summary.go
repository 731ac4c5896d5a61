package draw

import (
	"errors"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
)

// Outcome is the tagged result of evaluating one source row: accepted with
// a Record, rejected with an error, or blank.
type Outcome struct {
	Row    int // 1-based row number in the source
	Record Record
	Err    error
	Blank  bool
}

// Accepted reports whether the row produced a record.
func (o Outcome) Accepted() bool { return !o.Blank && o.Err == nil }

// Contest returns the contest number when it could be read.
func (o Outcome) Contest() int {
	if o.Err != nil {
		var rej *RejectionError
		if errors.As(o.Err, &rej) {
			return rej.Contest
		}
		return 0
	}
	return o.Record.Contest
}

// Evaluate classifies one source row. Rows whose cells are all empty are
// reported as blank rather than rejected.
func Evaluate(row int, cells []any, mode Mode) Outcome {
	if IsBlank(cells) {
		return Outcome{Row: row, Blank: true}
	}
	rec, err := Normalize(cells, mode)
	if err != nil {
		return Outcome{Row: row, Err: err}
	}
	return Outcome{Row: row, Record: rec}
}

// Summary counts outcomes of a run.
type Summary struct {
	Accepted int
	Skipped  int
	Blank    int
	ByReason map[Reason]int
}

// Add records one outcome.
func (s *Summary) Add(o Outcome) {
	switch {
	case o.Blank:
		s.Blank++
	case o.Err == nil:
		s.Accepted++
	default:
		s.Skipped++
		if s.ByReason == nil {
			s.ByReason = make(map[Reason]int)
		}
		reason, ok := ReasonOf(o.Err)
		if !ok {
			reason = Reason(o.Err.Error())
		}
		s.ByReason[reason]++
	}
}

// Render writes a small aligned table of the counts to w.
func (s Summary) Render(w io.Writer) error {
	type line struct {
		label string
		n     int
	}
	lines := []line{{"accepted", s.Accepted}, {"skipped", s.Skipped}}
	for _, r := range Reasons {
		if n := s.ByReason[r]; n > 0 {
			lines = append(lines, line{"  " + string(r), n})
		}
	}
	lines = append(lines, line{"blank", s.Blank})

	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l.label))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s  %d\n", runewidth.FillRight(l.label, width), l.n); err != nil {
			return err
		}
	}
	return nil
}
