package dataset

import "errors"

// Common errors.
var (
	ErrBadMagic        = errors.New("invalid IDX magic number")
	ErrBadDimensions   = errors.New("unexpected image dimensions")
	ErrIndexOutOfRange = errors.New("dataset index out of range")
)
