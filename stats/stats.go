// Package stats computes number analytics over validated draws: frequency,
// gaps between appearances, hot and cold numbers, frequent pairs and trios,
// and the average shape of a draw.
//
// Every function takes draws in any order and looks at them newest first,
// by contest number, so "recent" and "ago" always count back from the
// latest contest.
package stats

import (
	"math"
	"slices"
	"sort"

	"github.com/darianmavgo/megasena/draw"
)

// Defaults used by Compute when Options leaves a field at zero.
const (
	DefaultRecent   = 100
	DefaultMinPairs = 10
	DefaultMinTrios = 5

	// TopCombinations caps the pair and trio lists.
	TopCombinations = 20
)

// NumberFrequency is how often one number was drawn.
type NumberFrequency struct {
	Number     int
	Count      int
	Percentage float64 // share of all balls drawn
	LastSeen   int     // contests since it was last drawn, 0 for the latest
}

// NumberGap describes the spacing between appearances of one number.
type NumberGap struct {
	Number     int
	CurrentGap int // contests since it was last drawn
	AverageGap float64
	MaxGap     int
	Overdue    bool
}

// Temperature classifies a number against the mean frequency.
type Temperature int

const (
	Neutral Temperature = iota
	Hot
	Cold
)

func (t Temperature) String() string {
	switch t {
	case Hot:
		return "hot"
	case Cold:
		return "cold"
	default:
		return "neutral"
	}
}

// HotColdNumber is one number's temperature.
type HotColdNumber struct {
	Number            int
	Temperature       Temperature
	Frequency         int
	RecentAppearances int
}

// Combination is a set of numbers drawn together Count times.
type Combination struct {
	Numbers []int
	Count   int
}

// newestFirst returns the sorted numbers of each draw, latest contest first.
func newestFirst(records []draw.Record) [][draw.BallCount]int {
	sorted := slices.Clone(records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Contest > sorted[j].Contest })

	out := make([][draw.BallCount]int, len(sorted))
	for i, r := range sorted {
		out[i] = r.Sorted()
	}
	return out
}

// Frequency counts every number from 1 to 60, most drawn first. Ties keep
// ascending number order.
func Frequency(records []draw.Record) []NumberFrequency {
	return frequency(newestFirst(records))
}

func frequency(draws [][draw.BallCount]int) []NumberFrequency {
	freq := make([]NumberFrequency, draw.MaxBall)
	for i := range freq {
		freq[i] = NumberFrequency{Number: i + draw.MinBall, LastSeen: len(draws)}
	}
	for idx, nums := range draws {
		for _, n := range nums {
			f := &freq[n-draw.MinBall]
			f.Count++
			f.LastSeen = min(f.LastSeen, idx)
		}
	}

	if total := len(draws) * draw.BallCount; total > 0 {
		for i := range freq {
			freq[i].Percentage = float64(freq[i].Count) / float64(total) * 100
		}
	}
	sort.SliceStable(freq, func(i, j int) bool { return freq[i].Count > freq[j].Count })
	return freq
}

// Gaps measures, for every number in ascending order, the contests between
// consecutive appearances. A number is overdue when its current gap exceeds
// the average gap by more than two standard deviations; numbers drawn fewer
// than twice have no gap history and are never overdue.
func Gaps(records []draw.Record) []NumberGap {
	draws := newestFirst(records)

	last := make([]int, draw.MaxBall)
	for i := range last {
		last[i] = -1
	}
	current := make([]int, draw.MaxBall)
	for i := range current {
		current[i] = len(draws)
	}
	gaps := make([][]int, draw.MaxBall)

	for idx, nums := range draws {
		for _, n := range nums {
			i := n - draw.MinBall
			if last[i] >= 0 {
				gaps[i] = append(gaps[i], idx-last[i])
			} else {
				current[i] = idx
			}
			last[i] = idx
		}
	}

	out := make([]NumberGap, draw.MaxBall)
	for i := range out {
		g := NumberGap{Number: i + draw.MinBall, CurrentGap: current[i]}
		if len(gaps[i]) > 0 {
			avg, sd := meanStdDev(gaps[i])
			g.AverageGap = avg
			g.MaxGap = slices.Max(gaps[i])
			g.Overdue = float64(g.CurrentGap) > avg+2*sd
		}
		out[i] = g
	}
	return out
}

// HotCold classifies numbers by total frequency: hot above one standard
// deviation over the mean, cold below one under it. RecentAppearances counts
// the latest recent draws. The order is the one Frequency returns.
func HotCold(records []draw.Record, recent int) []HotColdNumber {
	if recent <= 0 {
		recent = DefaultRecent
	}
	draws := newestFirst(records)
	all := frequency(draws)
	latest := frequency(draws[:min(recent, len(draws))])

	recentCount := make(map[int]int, len(latest))
	for _, f := range latest {
		recentCount[f.Number] = f.Count
	}
	counts := make([]int, len(all))
	for i, f := range all {
		counts[i] = f.Count
	}
	avg, sd := meanStdDev(counts)

	out := make([]HotColdNumber, len(all))
	for i, f := range all {
		t := Neutral
		switch c := float64(f.Count); {
		case c > avg+sd:
			t = Hot
		case c < avg-sd:
			t = Cold
		}
		out[i] = HotColdNumber{
			Number:            f.Number,
			Temperature:       t,
			Frequency:         f.Count,
			RecentAppearances: recentCount[f.Number],
		}
	}
	return out
}

// Pairs returns up to TopCombinations pairs drawn together at least minCount
// times, most frequent first.
func Pairs(records []draw.Record, minCount int) []Combination {
	return combinations(records, 2, minCount)
}

// Trios returns up to TopCombinations trios drawn together at least minCount
// times, most frequent first.
func Trios(records []draw.Record, minCount int) []Combination {
	return combinations(records, 3, minCount)
}

func combinations(records []draw.Record, size, minCount int) []Combination {
	counts := make(map[[3]int]int)
	for _, r := range records {
		nums := r.Sorted()
		var walk func(start, depth int, key [3]int)
		walk = func(start, depth int, key [3]int) {
			if depth == size {
				counts[key]++
				return
			}
			for i := start; i < len(nums); i++ {
				key[depth] = nums[i]
				walk(i+1, depth+1, key)
			}
		}
		walk(0, 0, [3]int{})
	}

	var out []Combination
	for key, n := range counts {
		if n >= minCount {
			out = append(out, Combination{Numbers: slices.Clone(key[:size]), Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return slices.Compare(out[i].Numbers, out[j].Numbers) < 0
	})
	if len(out) > TopCombinations {
		out = out[:TopCombinations]
	}
	return out
}

// meanStdDev returns the mean and population standard deviation of values.
func meanStdDev(values []int) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	mean := sum / float64(len(values))

	var variance float64
	for _, v := range values {
		d := float64(v) - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
