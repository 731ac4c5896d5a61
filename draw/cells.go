package draw

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// cell returns cells[i], or nil past the end of a short row.
func cell(cells []any, i int) any {
	if i < len(cells) {
		return cells[i]
	}
	return nil
}

func isEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []byte:
		return strings.TrimSpace(string(x)) == ""
	}
	return false
}

// IsBlank reports whether every cell of a row is empty.
func IsBlank(cells []any) bool {
	for _, c := range cells {
		if !isEmpty(c) {
			return false
		}
	}
	return true
}

// toInt coerces a cell to an integer. present is false for empty cells.
// Floats are accepted only when integral, so "6" and 6.0 both read as 6.
func toInt(v any) (n int, present bool, err error) {
	if isEmpty(v) {
		return 0, false, nil
	}

	switch x := v.(type) {
	case int:
		return x, true, nil
	case int8:
		return int(x), true, nil
	case int16:
		return int(x), true, nil
	case int32:
		return int(x), true, nil
	case int64:
		return int(x), true, nil
	case uint8:
		return int(x), true, nil
	case uint16:
		return int(x), true, nil
	case uint32:
		return int(x), true, nil
	case uint64:
		if x > math.MaxInt32 {
			return 0, true, fmt.Errorf("%d overflows", x)
		}
		return int(x), true, nil
	case float32:
		return floatToInt(float64(x))
	case float64:
		return floatToInt(x)
	case []byte:
		return stringToInt(string(x))
	case string:
		return stringToInt(x)
	case time.Time:
		return 0, true, fmt.Errorf("date %s is not a number", x.Format(time.DateOnly))
	}
	return 0, true, fmt.Errorf("unsupported cell type %T", v)
}

// numeric matches a plain decimal as spreadsheets print it: an optional
// leading minus, ASCII digits and an optional fraction. Signs like "+1",
// exponents and inner spaces are not numbers here.
var numeric = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

func stringToInt(s string) (int, bool, error) {
	s = strings.TrimSpace(s)
	if !numeric.MatchString(s) {
		return 0, true, fmt.Errorf("%q is not a number", s)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, fmt.Errorf("%q is not a number", s)
	}
	return floatToInt(f)
}

func floatToInt(f float64) (int, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, true, fmt.Errorf("%v is not an integer", f)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, true, fmt.Errorf("%v overflows", f)
	}
	return int(f), true, nil
}

// toDate accepts a native time value as-is or a DD/MM/YYYY string.
func toDate(v any) (Date, error) {
	switch x := v.(type) {
	case time.Time:
		return DateOf(x), nil
	case *time.Time:
		if x != nil {
			return DateOf(*x), nil
		}
	case string:
		if strings.TrimSpace(x) != "" {
			return ParseDate(x)
		}
	case []byte:
		if len(x) > 0 {
			return ParseDate(string(x))
		}
	default:
		if v != nil {
			return Date{}, fmt.Errorf("unsupported cell type %T", v)
		}
	}
	return Date{}, fmt.Errorf("date is missing")
}
