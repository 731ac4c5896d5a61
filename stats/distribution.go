package stats

import (
	"fmt"
	"io"

	"github.com/darianmavgo/megasena/draw"

	"github.com/mattn/go-runewidth"
)

// Distribution is the shape of one draw.
type Distribution struct {
	Even   int
	Odd    int
	Low    int // 1 to 30
	High   int // 31 to 60
	Primes int
	Sum    int
}

// Distribute describes the numbers of one draw.
func Distribute(r draw.Record) Distribution {
	var d Distribution
	for _, n := range r.Numbers {
		if n%2 == 0 {
			d.Even++
		} else {
			d.Odd++
		}
		if n <= draw.MaxBall/2 {
			d.Low++
		} else {
			d.High++
		}
		if isPrime(n) {
			d.Primes++
		}
		d.Sum += n
	}
	return d
}

// Historical holds the average draw shape over many draws.
type Historical struct {
	Draws     int
	AvgEven   float64
	AvgOdd    float64
	AvgLow    float64
	AvgHigh   float64
	AvgPrimes float64
	AvgSum    float64
	StdDevSum float64
}

// History averages Distribute over records. It is zero for no records.
func History(records []draw.Record) Historical {
	h := Historical{Draws: len(records)}
	if len(records) == 0 {
		return h
	}

	sums := make([]int, len(records))
	var even, odd, low, high, primes int
	for i, r := range records {
		d := Distribute(r)
		even += d.Even
		odd += d.Odd
		low += d.Low
		high += d.High
		primes += d.Primes
		sums[i] = d.Sum
	}

	n := float64(len(records))
	h.AvgEven = float64(even) / n
	h.AvgOdd = float64(odd) / n
	h.AvgLow = float64(low) / n
	h.AvgHigh = float64(high) / n
	h.AvgPrimes = float64(primes) / n
	h.AvgSum, h.StdDevSum = meanStdDev(sums)
	return h
}

// Render writes an aligned table of the averages to w.
func (h Historical) Render(w io.Writer) error {
	lines := [][2]string{
		{"draws", fmt.Sprint(h.Draws)},
		{"even", fmt.Sprintf("%.2f", h.AvgEven)},
		{"odd", fmt.Sprintf("%.2f", h.AvgOdd)},
		{"low (1-30)", fmt.Sprintf("%.2f", h.AvgLow)},
		{"high (31-60)", fmt.Sprintf("%.2f", h.AvgHigh)},
		{"primes", fmt.Sprintf("%.2f", h.AvgPrimes)},
		{"sum", fmt.Sprintf("%.1f ± %.1f", h.AvgSum, h.StdDevSum)},
	}

	width := 0
	for _, l := range lines {
		width = max(width, runewidth.StringWidth(l[0]))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(l[0], width), l[1]); err != nil {
			return err
		}
	}
	return nil
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for i := 3; i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
