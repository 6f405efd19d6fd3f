package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/prohmpiriya/price-settings/internal/domain"
)

// Model turns engineered features into versioned price recommendations
type Model struct {
	version  string
	selector Selector
}

// NewModel creates a recommendation model
func NewModel(version string, selector Selector) *Model {
	return &Model{version: version, selector: selector}
}

// Version returns the tag written on every recommendation
func (m *Model) Version() string {
	return m.version
}

// GeneratePriceRecommendations produces one recommendation per feature row,
// for treatment and control venues alike
func (m *Model) GeneratePriceRecommendations(ctx context.Context, features domain.VenueZoneFeatures) (domain.VenuePriceRecommendations, error) {
	recs := make([]domain.VenueZonePriceRecommendation, 0, len(features.Features))

	for _, f := range features.Features {
		isTreatment, err := m.selector.IsTreatment(ctx, f.IDVenue)
		if err != nil {
			return domain.VenuePriceRecommendations{}, fmt.Errorf("select treatment for venue %d: %w", f.IDVenue, err)
		}

		unscaled := UnscaledPrice(f)
		recs = append(recs, domain.VenueZonePriceRecommendation{
			IDVenue:        f.IDVenue,
			DSVenue:        f.DSVenue,
			DSCityCountry:  f.DSCityCountry,
			IDCity:         f.IDCity,
			CDCity:         f.CDCity,
			DSCountry:      f.DSCountry,
			DSCity:         f.DSCity,
			IDCountry:      f.IDCountry,
			Currency:       f.Currency,
			DSSeatCategory: f.DSSeatCategory,

			RecommendedPrice:                     Prettify(unscaled * f.RelativePriceMultiplier),
			UnscaledRecommendedPrice:             unscaled,
			PreviousFirstPriceVenueZone:          f.PreviousFirstPriceVenueZone,
			PreviousOccupanciesVenue:             f.PreviousOccupanciesVenue,
			PreviousATPIncreaseVenue:             f.PreviousATPIncreaseVenue,
			PreviousATPIncreaseVenueZone:         f.PreviousATPIncreaseVenueZone,
			PreviousAvgSoldOutDaysVenue:          f.PreviousAvgSoldOutDaysVenue,
			PreviousAvgSoldOutDaysVenueZone:      f.PreviousAvgSoldOutDaysVenueZone,
			RelativePriceMultiplier:              f.RelativePriceMultiplier,
			PriceInfluenceRange:                  f.PriceInfluenceRange,
			PriceInfluenceRangeMultiplier:        f.PriceInfluenceRangeMultiplier,
			PriceInfluenceRangeAdjustedCumsumLag: f.PriceInfluenceRangeAdjustedCumsumLag,
			BookingFee:                           f.BookingFee,
			SalesTaxOutsideTicketPrice:           f.SalesTaxOutsideTicketPrice,

			Version:     m.version,
			IsTreatment: isTreatment,
		})
	}

	return domain.VenuePriceRecommendations{Recommendations: recs}, nil
}

// UnscaledPrice spreads the venue's price band over its zones. A venue whose
// adjusted band is empty gets exactly 1.
func UnscaledPrice(f domain.VenueZoneFeature) float64 {
	if f.TotalRangeAdjusted == 0 {
		return 1
	}
	return f.MinPrice + f.PriceInfluenceRangeAdjustedCumsumLag*f.TotalRange/f.TotalRangeAdjusted
}

// Prettify rounds a price to a grid that gets coarser with magnitude.
// Halfway values round to the even multiple.
func Prettify(price float64) float64 {
	step := 0.5
	switch {
	case price > 10000:
		step = 500
	case price > 1000:
		step = 50
	case price > 100:
		step = 5
	}
	return math.RoundToEven(price/step) * step
}
