// Package pricing derives zone features and turns them into price recommendations.
package pricing

// Thresholds drive the influence range and price intervention multipliers
type Thresholds struct {
	HighOccupancies     float64
	LowOccupancies      float64
	HighATPIncrease     float64
	HighSoldOutDaysDiff float64
	MedSoldOutDaysDiff  float64
	LowSoldOutDaysDiff  float64
	LargeATPDifference  float64
	SmallATPDifference  float64
}

// DefaultThresholds returns the production thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		HighOccupancies:     0.9,
		LowOccupancies:      0.5,
		HighATPIncrease:     0.1,
		HighSoldOutDaysDiff: 30,
		MedSoldOutDaysDiff:  14,
		LowSoldOutDaysDiff:  7,
		LargeATPDifference:  0.1,
		SmallATPDifference:  0.05,
	}
}

// Multiplier values
const (
	influenceDown = 0.9
	influenceUp   = 1.1
	neutral       = 1.0

	interventionLowDemand  = 0.9
	interventionHighDemand = 1.05

	// markup applied to a zone's first price when no pricier zone was observed
	superiorPriceMarkup = 1.3
)
