package pricing

import (
	"context"
	"fmt"
	"math"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"golang.org/x/sync/errgroup"
)

// precursor holds the per-zone values computed during a venue fold
type precursor struct {
	venueID        int64
	firstPrice     float64
	influenceRange float64
	adjustedRange  float64
	cumsum         float64
	lag            float64
	superiorPrice  float64
	multiplier     float64
}

// venueSummary is the result of folding all zones of one venue
type venueSummary struct {
	minPrice           float64
	totalRange         float64
	totalRangeAdjusted float64
	zones              int
}

func (s venueSummary) with(p precursor) venueSummary {
	if s.zones == 0 {
		return venueSummary{
			minPrice:           p.firstPrice,
			totalRange:         p.influenceRange,
			totalRangeAdjusted: p.adjustedRange,
			zones:              1,
		}
	}
	return venueSummary{
		minPrice:           math.Min(s.minPrice, p.firstPrice),
		totalRange:         s.totalRange + p.influenceRange,
		totalRangeAdjusted: s.totalRangeAdjusted + p.adjustedRange,
		zones:              s.zones + 1,
	}
}

// venueGroup lists the input positions of one venue's zones, in input order
type venueGroup struct {
	venueID int64
	indices []int
}

// groupByVenue partitions zone positions by venue, venues in order of first appearance
func groupByVenue(zones []domain.VenueZone) []venueGroup {
	pos := make(map[int64]int)
	var groups []venueGroup
	for i, z := range zones {
		g, ok := pos[z.IDVenue]
		if !ok {
			g = len(groups)
			pos[z.IDVenue] = g
			groups = append(groups, venueGroup{venueID: z.IDVenue})
		}
		groups[g].indices = append(groups[g].indices, i)
	}
	return groups
}

// FeatureDeriver turns venue zone rows into engineered features
type FeatureDeriver struct {
	thresholds Thresholds
	workers    int
}

// NewFeatureDeriver creates a deriver. Venues are folded on up to workers
// goroutines; workers <= 1 folds them sequentially.
func NewFeatureDeriver(thresholds Thresholds, workers int) *FeatureDeriver {
	if workers < 1 {
		workers = 1
	}
	return &FeatureDeriver{thresholds: thresholds, workers: workers}
}

// Compute returns one feature per zone, in input order. Zones of a venue do
// not need to be contiguous: the running sum follows each venue's own order.
func (d *FeatureDeriver) Compute(ctx context.Context, zones []domain.VenueZone) (domain.VenueZoneFeatures, error) {
	for i := range zones {
		if err := zones[i].Validate(); err != nil {
			return domain.VenueZoneFeatures{}, fmt.Errorf("zone %d: %w", i, err)
		}
	}

	groups := groupByVenue(zones)
	precursors := make([]precursor, len(zones))
	summaries := make([]venueSummary, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for gi, group := range groups {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// each venue writes only its own positions of precursors
			summaries[gi] = d.foldVenue(zones, group.indices, precursors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.VenueZoneFeatures{}, err
	}

	features := make([]domain.VenueZoneFeature, len(zones))
	for gi, group := range groups {
		for _, idx := range group.indices {
			features[idx] = d.feature(zones[idx], precursors[idx], summaries[gi])
		}
	}

	return domain.VenueZoneFeatures{Features: features, Zones: zones}, nil
}

func (d *FeatureDeriver) foldVenue(zones []domain.VenueZone, indices []int, out []precursor) venueSummary {
	var summary venueSummary
	cumsum := 0.0
	for _, idx := range indices {
		p := d.precursor(zones[idx], cumsum)
		out[idx] = p
		cumsum = p.cumsum
		summary = summary.with(p)
	}
	return summary
}

func (d *FeatureDeriver) precursor(z domain.VenueZone, lag float64) precursor {
	superior := fillSuperiorPrice(z)
	multiplier := d.influenceMultiplier(z)
	influenceRange := superior - z.PreviousFirstPriceVenueZone
	adjusted := influenceRange * multiplier

	return precursor{
		venueID:        z.IDVenue,
		firstPrice:     z.PreviousFirstPriceVenueZone,
		influenceRange: influenceRange,
		adjustedRange:  adjusted,
		cumsum:         adjusted + lag,
		lag:            lag,
		superiorPrice:  superior,
		multiplier:     multiplier,
	}
}

// fillSuperiorPrice marks up the zone's own first price when no pricier zone
// was observed. A zero superior price counts as not observed.
func fillSuperiorPrice(z domain.VenueZone) float64 {
	sup := z.PreviousFirstPriceSuperiorVenueZone
	if !sup.Valid || sup.Value == 0 {
		return z.PreviousFirstPriceVenueZone * superiorPriceMarkup
	}
	return sup.Value
}

// influenceMultiplier shrinks the zone's price band when demand signals fell
// against the venue average and widens it when they rose
func (d *FeatureDeriver) influenceMultiplier(z domain.VenueZone) float64 {
	if !z.RecurrentVenue {
		return neutral
	}

	t := d.thresholds
	soldOut := z.PreviousAvgSoldOutDaysZoneDifference
	atp := z.PreviousATPIncreaseZoneDifference

	if soldOut < -t.MedSoldOutDaysDiff ||
		atp < -t.LargeATPDifference ||
		(soldOut < -t.LowSoldOutDaysDiff && atp < -t.SmallATPDifference) {
		return influenceDown
	}

	if soldOut > t.MedSoldOutDaysDiff ||
		atp > t.LargeATPDifference ||
		(soldOut > t.LowSoldOutDaysDiff && atp > t.SmallATPDifference) {
		return influenceUp
	}

	return neutral
}

// priceIntervention scales the final price by venue level demand
func (d *FeatureDeriver) priceIntervention(z domain.VenueZone) float64 {
	if !z.RecurrentVenue {
		return neutral
	}

	t := d.thresholds
	occupancy := z.PreviousOccupanciesVenue
	switch {
	case occupancy < t.LowOccupancies:
		return interventionLowDemand
	case occupancy > t.HighOccupancies &&
		(z.PreviousATPIncreaseVenue > t.HighATPIncrease || z.PreviousAvgSoldOutDaysVenue > t.HighSoldOutDaysDiff):
		return interventionHighDemand
	}
	return neutral
}

func (d *FeatureDeriver) feature(z domain.VenueZone, p precursor, s venueSummary) domain.VenueZoneFeature {
	return domain.VenueZoneFeature{
		IDVenue:        z.IDVenue,
		DSVenue:        z.DSVenue,
		DSCityCountry:  z.DSCityCountry,
		IDCity:         z.IDCity,
		CDCity:         z.CDCity,
		DSCountry:      z.DSCountry,
		DSCity:         z.DSCity,
		IDCountry:      z.IDCountry,
		Currency:       z.Currency,
		DSSeatCategory: z.SeatCategory,

		OrderPrice:                          z.OrderPrice,
		PreviousFirstPriceVenueZone:         z.PreviousFirstPriceVenueZone,
		PreviousFirstPriceSuperiorVenueZone: p.superiorPrice,

		PriceInfluenceRange:                  p.influenceRange,
		PriceInfluenceRangeMultiplier:        p.multiplier,
		PriceInfluenceRangeAdjusted:          p.adjustedRange,
		PriceInfluenceRangeAdjustedCumsum:    p.cumsum,
		PriceInfluenceRangeAdjustedCumsumLag: p.lag,

		MinPrice:           s.minPrice,
		TotalRange:         s.totalRange,
		TotalRangeAdjusted: s.totalRangeAdjusted,

		PreviousOccupanciesVenue:        z.PreviousOccupanciesVenue,
		PreviousATPIncreaseVenue:        z.PreviousATPIncreaseVenue,
		PreviousATPIncreaseVenueZone:    z.PreviousATPIncreaseVenueZone,
		PreviousAvgSoldOutDaysVenue:     z.PreviousAvgSoldOutDaysVenue,
		PreviousAvgSoldOutDaysVenueZone: z.PreviousAvgSoldOutDaysVenueZone,
		RelativePriceMultiplier:         d.priceIntervention(z),
	}
}
