package dashboard

import "errors"

var (
	// ErrStaleSnapshot means a newer refresh started while this one was
	// in flight; the caller should drop the result.
	ErrStaleSnapshot = errors.New("a newer dashboard refresh superseded this one")

	ErrInvalidGranularity = errors.New("unknown chart granularity")
)
