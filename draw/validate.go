package draw

import (
	"fmt"
)

// Normalize validates one source row and builds its Record.
//
// Checks run in a fixed order and stop at the first failure: type coercion
// (contest, date, balls, winners), then ranges, then duplicate balls. A row
// with a ball out of range and a repeated ball is therefore always reported
// as ErrInvalidRange.
func Normalize(cells []any, mode Mode) (Record, error) {
	var rec Record

	contest, ok, err := toInt(cell(cells, ColContest))
	if err != nil {
		return Record{}, reject(0, "contest", ErrTypeCoercion, "%v", err)
	}
	if !ok {
		return Record{}, reject(0, "contest", ErrTypeCoercion, "contest is missing")
	}
	rec.Contest = contest

	rec.Date, err = toDate(cell(cells, ColDate))
	if err != nil {
		return Record{}, reject(contest, "date", ErrDateParse, "%v", err)
	}

	var missing [BallCount]bool
	for i := 0; i < BallCount; i++ {
		n, ok, err := toInt(cell(cells, ColBall1+i))
		if err != nil {
			return Record{}, reject(contest, ballField(i), ErrTypeCoercion, "%v", err)
		}
		rec.Numbers[i] = n
		missing[i] = !ok
	}

	winners, _, err := toInt(cell(cells, ColWinners))
	if err != nil {
		return Record{}, reject(contest, "winners6", ErrTypeCoercion, "%v", err)
	}
	rec.Winners6 = winners

	if contest < 1 {
		return Record{}, reject(contest, "contest", ErrInvalidRange, "contest %d is not positive", contest)
	}
	for i, n := range rec.Numbers {
		if missing[i] {
			return Record{}, reject(contest, ballField(i), ErrInvalidRange, "ball is missing")
		}
		if n < MinBall || n > MaxBall {
			return Record{}, reject(contest, ballField(i), ErrInvalidRange, "%d is outside [%d,%d]", n, MinBall, MaxBall)
		}
	}
	if winners < 0 {
		return Record{}, reject(contest, "winners6", ErrInvalidRange, "%d winners is negative", winners)
	}

	seen := make(map[int]bool, BallCount)
	for i, n := range rec.Numbers {
		if seen[n] {
			return Record{}, reject(contest, ballField(i), ErrDuplicateNumbers, "%d repeats", n)
		}
		seen[n] = true
	}

	if mode == SortAscending {
		rec.Numbers = rec.Sorted()
	}
	return rec, nil
}

func ballField(i int) string {
	return fmt.Sprintf("ball%d", i+1)
}
