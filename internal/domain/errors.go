package domain

import "errors"

var (
	// ErrPriceUnavailable means no price could be obtained from any
	// source: live providers, the in-memory cache, or the persistent
	// store. It is a normal return value, not a fault.
	ErrPriceUnavailable = errors.New("price unavailable")

	ErrInvalidSymbol = errors.New("invalid symbol")
)
