package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrSourceNotFound       = errors.New("source not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnresolvableSupplier = errors.New("supplier name has no identity")
	ErrInvariant            = errors.New("invariant violated")
	ErrNotFound             = errors.New("not found")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrInvalidConfig        = errors.New("invalid configuration")
)
