package domain

// VenueZoneFeature is the engineered record for one zone: its context, its
// own precursor values and its venue's aggregates
type VenueZoneFeature struct {
	IDVenue        int64  `json:"id_venue"`
	DSVenue        string `json:"ds_venue"`
	DSCityCountry  string `json:"ds_city_country"`
	IDCity         int64  `json:"id_city"`
	CDCity         string `json:"cd_city"`
	DSCountry      string `json:"ds_country"`
	DSCity         string `json:"ds_city"`
	IDCountry      int64  `json:"id_country"`
	Currency       string `json:"currency"`
	DSSeatCategory string `json:"ds_seat_category"`

	OrderPrice                          float64 `json:"order_price"`
	PreviousFirstPriceVenueZone         float64 `json:"previous_first_price_venue_zone"`
	PreviousFirstPriceSuperiorVenueZone float64 `json:"previous_first_price_superior_venue_zone"`

	PriceInfluenceRange                  float64 `json:"price_influence_range"`
	PriceInfluenceRangeMultiplier        float64 `json:"price_influence_range_multiplier"`
	PriceInfluenceRangeAdjusted          float64 `json:"price_influence_range_adjusted"`
	PriceInfluenceRangeAdjustedCumsum    float64 `json:"price_influence_range_adjusted_cumsum"`
	PriceInfluenceRangeAdjustedCumsumLag float64 `json:"price_influence_range_adjusted_cumsum_lag"`

	// Venue aggregates, identical across a venue's zones
	MinPrice           float64 `json:"min_price"`
	TotalRange         float64 `json:"total_range"`
	TotalRangeAdjusted float64 `json:"total_range_adjusted"`

	PreviousOccupanciesVenue        float64 `json:"previous_occupancies_venue"`
	PreviousATPIncreaseVenue        float64 `json:"previous_atp_increase_venue"`
	PreviousATPIncreaseVenueZone    float64 `json:"previous_atp_increase_venue_zone"`
	PreviousAvgSoldOutDaysVenue     float64 `json:"previous_avg_sold_out_days_venue"`
	PreviousAvgSoldOutDaysVenueZone float64 `json:"previous_avg_sold_out_days_venue_zone"`
	RelativePriceMultiplier         float64 `json:"relative_price_multiplier"`

	// Not sourced yet, always nil
	BookingFee                 *float64 `json:"booking_fee"`
	SalesTaxOutsideTicketPrice *float64 `json:"sales_tax_outside_ticket_price"`
}

// VenueZoneFeatures pairs the engineered features with the rows they came from
type VenueZoneFeatures struct {
	Features []VenueZoneFeature `json:"features"`
	Zones    []VenueZone        `json:"venue_zone_data"`
}

// Len returns the number of feature rows
func (f VenueZoneFeatures) Len() int {
	return len(f.Features)
}
