// Package domain defines domain-level errors for the ingest feature.
package domain

import "errors"

// Recoverable ingestion outcomes. A symbol that hits one of these is skipped
// and the batch continues; every other error aborts the run.
var (
	// ErrInstrumentNotFound indicates that the symbol is not part of the exchange universe.
	ErrInstrumentNotFound = errors.New("instrument not found in exchange universe")

	// ErrNoPriceData indicates that the exchange returned no price record for the symbol.
	ErrNoPriceData = errors.New("no price data returned")

	// ErrNoFundamentals indicates that the quotes provider returned no result for the symbol.
	ErrNoFundamentals = errors.New("no fundamentals returned")
)

// IsSkippable reports whether err marks a symbol to be skipped rather than a failed run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrInstrumentNotFound) ||
		errors.Is(err, ErrNoPriceData) ||
		errors.Is(err, ErrNoFundamentals)
}
