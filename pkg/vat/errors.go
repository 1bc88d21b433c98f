package vat

import "errors"

var (
	ErrMalformedInput     = errors.New("vat: malformed country code or number")
	ErrServiceUnavailable = errors.New("vat: verification service unavailable")
	ErrServiceFault       = errors.New("vat: verification service returned a fault")
	ErrInvalidResponse    = errors.New("vat: invalid verification service response")
)
