package codesplit

import "errors"

// Sentinel errors for conditions callers may need to handle differently.
var (
	// ErrInvalidConfig indicates a builder option is out of range.
	ErrInvalidConfig = errors.New("codesplit: invalid configuration")

	// ErrMissingImplementation indicates a HumanEval file without the
	// implementation header.
	ErrMissingImplementation = errors.New("codesplit: missing implementation section")
)
