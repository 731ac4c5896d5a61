package stats

import "github.com/darianmavgo/megasena/draw"

// Options tunes Compute. Zero fields take the package defaults.
type Options struct {
	Recent   int // draws counted as recent by HotCold
	MinPairs int
	MinTrios int
}

func (o Options) withDefaults() Options {
	if o.Recent <= 0 {
		o.Recent = DefaultRecent
	}
	if o.MinPairs <= 0 {
		o.MinPairs = DefaultMinPairs
	}
	if o.MinTrios <= 0 {
		o.MinTrios = DefaultMinTrios
	}
	return o
}

// Report bundles every analysis of one record set.
type Report struct {
	Frequency []NumberFrequency
	Gaps      []NumberGap
	HotCold   []HotColdNumber
	Pairs     []Combination
	Trios     []Combination
	History   Historical
}

// Compute runs every analysis over records.
func Compute(records []draw.Record, opts Options) *Report {
	opts = opts.withDefaults()
	return &Report{
		Frequency: Frequency(records),
		Gaps:      Gaps(records),
		HotCold:   HotCold(records, opts.Recent),
		Pairs:     Pairs(records, opts.MinPairs),
		Trios:     Trios(records, opts.MinTrios),
		History:   History(records),
	}
}
