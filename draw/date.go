package draw

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf drops the clock part of t, keeping its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses the Brazilian DD/MM/YYYY form. The input must split on
// '/' into exactly three parts of ASCII digits forming a real calendar date.
// Only whitespace around the whole value is ignored.
func ParseDate(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%q is not DD/MM/YYYY", s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || !digits(p) {
			return Date{}, fmt.Errorf("%q is not DD/MM/YYYY: component %d is not numeric", s, i+1)
		}
		nums[i] = n
	}

	d := Date{Year: nums[2], Month: time.Month(nums[1]), Day: nums[0]}
	if !d.Valid() {
		return Date{}, fmt.Errorf("%q is not a calendar date", s)
	}
	return d, nil
}

// Valid reports whether d names an existing day.
func (d Date) Valid() bool {
	if d.Year < 1 || d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return DateOf(d.Time()) == d
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String formats d as DD/MM/YYYY.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

func digits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
