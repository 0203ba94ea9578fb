package nonvol

import "errors"

var (
	// ErrTruncated indicates the input ended before a value was complete.
	ErrTruncated = errors.New("truncated value")

	// ErrInvalidValue indicates bytes that cannot represent the value type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrParse indicates a textual representation that cannot be parsed.
	ErrParse = errors.New("parse error")

	// ErrGroupParse indicates a group payload that failed to parse.
	// Only surfaced in strict mode; permissive readers truncate instead.
	ErrGroupParse = errors.New("group parse error")

	// ErrNotFound indicates a dotted name that resolves to nothing.
	ErrNotFound = errors.New("no such value")
)
