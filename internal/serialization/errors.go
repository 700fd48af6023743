package serialization

import "errors"

// Common errors.
var (
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedDType  = errors.New("unsupported dtype")
	ErrHeaderTooLarge    = errors.New("header exceeds maximum size")
	ErrInvalidTensorName = errors.New("invalid tensor name")
)
