package settings

import "errors"

var (
	// ErrShortRead indicates the input ended before a required field.
	ErrShortRead = errors.New("short read")

	// ErrBadMagic indicates fixed-magic bytes that do not match.
	ErrBadMagic = errors.New("bad magic")

	// ErrMissingProfile is raised on encode when no profile is associated
	// with a gwsettings container.
	ErrMissingProfile = errors.New("cannot write file without a profile")

	// ErrTooLarge indicates an input beyond any plausible nonvol
	// partition size.
	ErrTooLarge = errors.New("input exceeds size cap")

	// ErrBadKey indicates an AES key of the wrong length.
	ErrBadKey = errors.New("AES key must be 32 bytes")
)
