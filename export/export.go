// Package export writes validated draws to the flat files published
// alongside the database: a JSON list, a tab-delimited CSV and a TXT table.
// All three are rendered from the same record slice. The same package writes
// the comma-separated analytics files computed by package stats.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/darianmavgo/megasena/draw"
)

// DefaultPrefix is the base name of the export files.
const DefaultPrefix = "mega-sena-dados"

// TXTHeader is the fixed first line of the TXT export.
const TXTHeader = "Concurso\tData\tBola1\tBola2\tBola3\tBola4\tBola5\tBola6"

// Files holds the output paths of one export.
type Files struct {
	JSON string
	CSV  string
	TXT  string
}

// DefaultFiles returns dir/prefix.{json,csv,txt}.
func DefaultFiles(dir, prefix string) Files {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	base := filepath.Join(dir, prefix)
	return Files{JSON: base + ".json", CSV: base + ".csv", TXT: base + ".txt"}
}

type entry struct {
	ContestNumber int    `json:"contestNumber"`
	Date          string `json:"date"`
	Numbers       []int  `json:"numbers"`
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []draw.Record) error {
	list := make([]entry, len(records))
	for i, r := range records {
		list[i] = entry{
			ContestNumber: r.Contest,
			Date:          r.Date.String(),
			Numbers:       append([]int(nil), r.Numbers[:]...),
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(list); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// WriteCSV writes a tab-delimited table with the numbers space-joined in
// one column.
func WriteCSV(w io.Writer, records []draw.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	if err := cw.Write([]string{"contestNumber", "date", "numbers"}); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range records {
		rec := []string{strconv.Itoa(r.Contest), r.Date.String(), joinNumbers(r, " ")}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("failed to write csv row for contest %d: %w", r.Contest, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTXT writes TXTHeader followed by one tab-joined line per record.
func WriteTXT(w io.Writer, records []draw.Record) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(TXTHeader)
	bw.WriteByte('\n')
	for _, r := range records {
		bw.WriteString(strconv.Itoa(r.Contest))
		bw.WriteByte('\t')
		bw.WriteString(r.Date.String())
		bw.WriteByte('\t')
		bw.WriteString(joinNumbers(r, "\t"))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func joinNumbers(r draw.Record, sep string) string {
	parts := make([]string, len(r.Numbers))
	for i, n := range r.Numbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, sep)
}

// WriteAll writes all three files, replacing existing ones.
func WriteAll(files Files, records []draw.Record) error {
	writers := []struct {
		path  string
		write func(io.Writer, []draw.Record) error
	}{
		{files.JSON, WriteJSON},
		{files.CSV, WriteCSV},
		{files.TXT, WriteTXT},
	}
	for _, wr := range writers {
		err := writeFile(wr.path, func(w io.Writer) error { return wr.write(w, records) })
		if err != nil {
			return err
		}
	}
	return nil
}

// writeFile creates path, with its directory, and fills it with write.
func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := write(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
