package models

import "errors"

var (
	ErrUnsupportedToken      = errors.New("unsupported token")
	ErrInvalidPrice          = errors.New("invalid price")
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	ErrBoundsComputation     = errors.New("bounds computation failed")
	ErrUpstream              = errors.New("upstream request failed")
)
