package draw

import (
	"errors"
	"fmt"
)

// Reason classifies why a row was rejected. Reasons are comparable and can
// be matched with errors.Is against a *RejectionError.
type Reason string

const (
	ErrDateParse        Reason = "date parse error"
	ErrTypeCoercion     Reason = "type coercion error"
	ErrInvalidRange     Reason = "invalid range"
	ErrDuplicateNumbers Reason = "duplicate numbers"
)

func (r Reason) Error() string { return string(r) }

// Reasons lists every rejection reason in the order a Summary displays them.
// It is not the order rows are checked in: balls are coerced after the date
// is parsed.
var Reasons = []Reason{ErrTypeCoercion, ErrDateParse, ErrInvalidRange, ErrDuplicateNumbers}

// RejectionError describes the first rule a row violated.
type RejectionError struct {
	Contest int    // zero when the contest cell itself could not be read
	Field   string // offending column, e.g. "ball3"
	Reason  Reason
	Detail  string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", e.Field, e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error { return e.Reason }

// ReasonOf extracts the rejection reason from err.
func ReasonOf(err error) (Reason, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}

func reject(contest int, field string, reason Reason, format string, args ...any) *RejectionError {
	return &RejectionError{
		Contest: contest,
		Field:   field,
		Reason:  reason,
		Detail:  fmt.Sprintf(format, args...),
	}
}
