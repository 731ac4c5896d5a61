// Package draw turns raw spreadsheet rows into validated Mega-Sena draws.
package draw

import (
	"sort"
)

const (
	// BallCount is the number of balls drawn per contest.
	BallCount = 6

	MinBall = 1
	MaxBall = 60
)

// Column positions of a source row.
const (
	ColContest = 0
	ColDate    = 1
	ColBall1   = 2
	ColWinners = ColBall1 + BallCount
)

// Record is one validated draw. Records are built by Normalize and never
// mutated afterwards.
type Record struct {
	Contest  int
	Date     Date
	Numbers  [BallCount]int
	Winners6 int
	Prize    int64 // cents
}

// Sorted returns the numbers in ascending order.
func (r Record) Sorted() [BallCount]int {
	n := r.Numbers
	sort.Ints(n[:])
	return n
}

// Mode selects how Normalize orders the six numbers of an accepted record.
type Mode int

const (
	// PreserveOrder keeps the numbers in source column order. Used by the
	// database import.
	PreserveOrder Mode = iota
	// SortAscending sorts the numbers. Used by the file export.
	SortAscending
)

func (m Mode) String() string {
	switch m {
	case PreserveOrder:
		return "preserve"
	case SortAscending:
		return "sorted"
	default:
		return "unknown"
	}
}
