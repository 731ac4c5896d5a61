package store

import (
	"context"
	"fmt"

	"github.com/darianmavgo/megasena/draw"
)

// DefaultGroupSize is the number of records committed per transaction.
const DefaultGroupSize = 100

// GroupInserter persists one group of records atomically.
type GroupInserter interface {
	InsertGroup(ctx context.Context, records []draw.Record) error
}

// PersistenceError reports the group whose write failed. Groups before it
// stay committed and no later group was attempted.
type PersistenceError struct {
	Group     int // 1-based
	Committed int // records committed by earlier groups
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("group %d failed after %d records committed: %v", e.Group, e.Committed, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Progress is called after each committed group.
type Progress func(group, inserted, total int)

// Emit writes records in groups of size, each group in its own transaction,
// and returns the number of records committed. It stops at the first failing
// group, or when ctx is done before a group starts; there is no retry.
func Emit(ctx context.Context, ins GroupInserter, records []draw.Record, size int, progress Progress) (int, error) {
	if size <= 0 {
		size = DefaultGroupSize
	}

	committed := 0
	for group, start := 1, 0; start < len(records); group, start = group+1, start+size {
		if err := ctx.Err(); err != nil {
			return committed, &PersistenceError{Group: group, Committed: committed, Err: err}
		}

		end := min(start+size, len(records))
		if err := ins.InsertGroup(ctx, records[start:end]); err != nil {
			return committed, &PersistenceError{Group: group, Committed: committed, Err: err}
		}
		committed = end

		if progress != nil {
			progress(group, committed, len(records))
		}
	}
	return committed, nil
}
