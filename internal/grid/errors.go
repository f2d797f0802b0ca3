package grid

import "errors"

var (
	// ErrPeriodNotFound means no header cell carried a recognizable
	// month/year hint; the whole run aborts before normalization.
	ErrPeriodNotFound = errors.New("no month/year found in header row")

	// ErrEmptyDocument means extraction yielded no usable table.
	ErrEmptyDocument = errors.New("document contains no usable table")

	// ErrInvalidQuery means a swap query carried an out-of-range or
	// non-numeric day. It is returned instead of a silent empty result so
	// callers can tell "no match" from "bad request".
	ErrInvalidQuery = errors.New("invalid swap query")
)
