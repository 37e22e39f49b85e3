package xlmacro

import (
	"errors"
	"fmt"
)

// Usage errors. They are always wrapped in a *UsageError; match them with
// errors.Is.
var (
	ErrNoSelection    = errors.New("no cells selected")
	ErrMultiColumn    = errors.New("selection spans more than one column")
	ErrEmptySelection = errors.New("no data in the selected range")
)

// UsageError reports a selection the user has to fix before re-running.
// Nothing is written to the workbook when one is returned.
type UsageError struct {
	Err    error
	Detail string
}

func (e *UsageError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Detail)
}

func (e *UsageError) Unwrap() error { return e.Err }

// IsUsageError reports whether err is (or wraps) a *UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// validateSelection checks a resolved area before a macro reads it.
func validateSelection(area AreaRef, singleColumn bool) error {
	size := area.Size()
	if singleColumn && size.Width != 1 {
		return &UsageError{
			Err:    ErrMultiColumn,
			Detail: fmt.Sprintf("select only ONE column at a time; %s has %d columns", area, size.Width),
		}
	}
	if size.Height <= 0 {
		return &UsageError{Err: ErrEmptySelection, Detail: area.String()}
	}
	return nil
}
