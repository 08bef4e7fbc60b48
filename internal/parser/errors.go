package parser

import "errors"

var (
	// ErrNotRecognized means the input is not an account line at all.
	ErrNotRecognized = errors.New("input is not an account line")

	// ErrMalformed means the input looked like a credential file but could
	// not be decoded.
	ErrMalformed = errors.New("malformed credential file")
)
