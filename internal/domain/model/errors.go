package model

import "errors"

// Sentinel errors for record decoding.
var (
	// ErrMalformedPayload wraps every decode failure: bad JSON, unknown or
	// missing type tag, missing fields or values that do not fit their type.
	ErrMalformedPayload = errors.New("malformed payload")
)
