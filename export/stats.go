package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/darianmavgo/megasena/stats"
)

// StatsFiles holds the output paths of the analytics files.
type StatsFiles struct {
	Frequency string
	Gaps      string
	HotCold   string
	Pairs     string
	Trios     string
}

// DefaultStatsFiles returns the analytics file names inside dir.
func DefaultStatsFiles(dir string) StatsFiles {
	return StatsFiles{
		Frequency: filepath.Join(dir, "frequencia-numeros.csv"),
		Gaps:      filepath.Join(dir, "analise-gaps.csv"),
		HotCold:   filepath.Join(dir, "numeros-quentes-frios.csv"),
		Pairs:     filepath.Join(dir, "duplas-frequentes.csv"),
		Trios:     filepath.Join(dir, "trios-frequentes.csv"),
	}
}

func ball(n int) string { return fmt.Sprintf("%02d", n) }

func writeRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv rows: %w", err)
	}
	return nil
}

// WriteFrequency writes one row per number, most drawn first.
func WriteFrequency(w io.Writer, freq []stats.NumberFrequency) error {
	rows := make([][]string, len(freq))
	for i, f := range freq {
		rows[i] = []string{
			ball(f.Number),
			strconv.Itoa(f.Count),
			fmt.Sprintf("%.2f%%", f.Percentage),
			fmt.Sprintf("%d sorteios atrás", f.LastSeen),
		}
	}
	return writeRows(w, []string{"Número", "Frequência", "Percentual", "Última Aparição"}, rows)
}

// WriteGaps writes the gap analysis of every number.
func WriteGaps(w io.Writer, gaps []stats.NumberGap) error {
	rows := make([][]string, len(gaps))
	for i, g := range gaps {
		overdue := "Não"
		if g.Overdue {
			overdue = "Sim"
		}
		rows[i] = []string{
			ball(g.Number),
			strconv.Itoa(g.CurrentGap),
			strconv.FormatFloat(g.AverageGap, 'f', 1, 64),
			strconv.Itoa(g.MaxGap),
			overdue,
		}
	}
	return writeRows(w, []string{"Número", "Gap Atual", "Gap Médio", "Gap Máximo", "Atrasado"}, rows)
}

var temperatures = map[stats.Temperature]string{
	stats.Hot:     "Quente",
	stats.Cold:    "Frio",
	stats.Neutral: "Neutro",
}

// WriteHotCold writes each number's temperature.
func WriteHotCold(w io.Writer, numbers []stats.HotColdNumber) error {
	rows := make([][]string, len(numbers))
	for i, h := range numbers {
		rows[i] = []string{
			ball(h.Number),
			temperatures[h.Temperature],
			strconv.Itoa(h.Frequency),
			strconv.Itoa(h.RecentAppearances),
		}
	}
	return writeRows(w, []string{"Número", "Temperatura", "Frequência Total", "Aparições Recentes"}, rows)
}

// WriteCombinations writes pairs or trios; label names the first column.
func WriteCombinations(w io.Writer, label string, combos []stats.Combination) error {
	rows := make([][]string, len(combos))
	for i, c := range combos {
		nums := make([]string, len(c.Numbers))
		for j, n := range c.Numbers {
			nums[j] = ball(n)
		}
		rows[i] = []string{strings.Join(nums, " - "), strconv.Itoa(c.Count)}
	}
	return writeRows(w, []string{label, "Frequência"}, rows)
}

// WriteStats writes the five analytics files, replacing existing ones.
func WriteStats(files StatsFiles, report *stats.Report) error {
	writers := []struct {
		path  string
		write func(io.Writer) error
	}{
		{files.Frequency, func(w io.Writer) error { return WriteFrequency(w, report.Frequency) }},
		{files.Gaps, func(w io.Writer) error { return WriteGaps(w, report.Gaps) }},
		{files.HotCold, func(w io.Writer) error { return WriteHotCold(w, report.HotCold) }},
		{files.Pairs, func(w io.Writer) error { return WriteCombinations(w, "Dupla", report.Pairs) }},
		{files.Trios, func(w io.Writer) error { return WriteCombinations(w, "Trio", report.Trios) }},
	}
	for _, wr := range writers {
		if err := writeFile(wr.path, wr.write); err != nil {
			return err
		}
	}
	return nil
}
