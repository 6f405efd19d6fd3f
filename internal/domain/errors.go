package domain

import "errors"

// Domain errors
var (
	// Venue zone errors
	ErrInvalidVenueZone     = errors.New("invalid venue zone")
	ErrInvalidOptionalPrice = errors.New("invalid optional price")

	// Guardrail rules, in the order they are checked
	ErrNonPositivePrice   = errors.New("new price can't be zero or negative")
	ErrExtremePriceRatio  = errors.New("the ratio between new and current price is too extreme")
	ErrInvalidGranularity = errors.New("new price granularity is not correct")

	// Recommendation errors
	ErrNoRecommendations = errors.New("no recommendations to export")
)

// IsGuardrailError checks if the error is a price update guardrail violation
func IsGuardrailError(err error) bool {
	return errors.Is(err, ErrNonPositivePrice) ||
		errors.Is(err, ErrExtremePriceRatio) ||
		errors.Is(err, ErrInvalidGranularity)
}
