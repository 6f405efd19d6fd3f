package domain

import (
	"fmt"

	"github.com/prohmpiriya/price-settings/internal/export"
)

// RecommendationsTable is the warehouse table recommendations are written to
const RecommendationsTable = "PUBLIC.PRICE_SETTINGS_RECOMMENDATIONS"

// ExportColumns is the fixed column order of the recommendations table
var ExportColumns = []string{
	"id_venue",
	"ds_venue",
	"ds_city_country",
	"ds_city",
	"id_city",
	"cd_city",
	"ds_country",
	"id_country",
	"currency",
	"ds_seat_category",
	"nm_previous_first_price_venue_zone",
	"nm_unscaled_recommended_price",
	"nm_recommended_price",
	"nm_previous_occupancies_venue",
	"nm_previous_atp_increase_venue",
	"nm_previous_atp_increase_venue_zone",
	"nm_previous_avg_sold_out_days_venue",
	"nm_previous_avg_sold_out_days_venue_zone",
	"nm_relative_price_multiplier",
	"nm_price_influence_range",
	"nm_price_influence_range_multiplier",
	"nm_booking_fee",
	"nm_sales_tax_outside_ticket_price",
	"cd_version",
	"is_treatment",
}

// VenueZonePriceRecommendation is the recommended price for one zone along
// with every input that produced it
type VenueZonePriceRecommendation struct {
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

	RecommendedPrice                     float64  `json:"nm_recommended_price"`
	UnscaledRecommendedPrice             float64  `json:"nm_unscaled_recommended_price"`
	PreviousFirstPriceVenueZone          float64  `json:"nm_previous_first_price_venue_zone"`
	PreviousOccupanciesVenue             float64  `json:"nm_previous_occupancies_venue"`
	PreviousATPIncreaseVenue             float64  `json:"nm_previous_atp_increase_venue"`
	PreviousATPIncreaseVenueZone         float64  `json:"nm_previous_atp_increase_venue_zone"`
	PreviousAvgSoldOutDaysVenue          float64  `json:"nm_previous_avg_sold_out_days_venue"`
	PreviousAvgSoldOutDaysVenueZone      float64  `json:"nm_previous_avg_sold_out_days_venue_zone"`
	RelativePriceMultiplier              float64  `json:"nm_relative_price_multiplier"`
	PriceInfluenceRange                  float64  `json:"nm_price_influence_range"`
	PriceInfluenceRangeMultiplier        float64  `json:"nm_price_influence_range_multiplier"`
	PriceInfluenceRangeAdjustedCumsumLag float64  `json:"nm_price_influence_range_adjusted_cumsum_lag"`
	BookingFee                           *float64 `json:"nm_booking_fee"`
	SalesTaxOutsideTicketPrice           *float64 `json:"nm_sales_tax_outside_ticket_price"`

	Version     string `json:"cd_version"`
	IsTreatment bool   `json:"is_treatment"`
}

// Field implements export.Record
func (r VenueZonePriceRecommendation) Field(column string) (export.Value, bool) {
	switch column {
	case "id_venue":
		return export.Int(r.IDVenue), true
	case "ds_venue":
		return export.String(r.DSVenue), true
	case "ds_city_country":
		return export.String(r.DSCityCountry), true
	case "ds_city":
		return export.String(r.DSCity), true
	case "id_city":
		return export.Int(r.IDCity), true
	case "cd_city":
		return export.String(r.CDCity), true
	case "ds_country":
		return export.String(r.DSCountry), true
	case "id_country":
		return export.Int(r.IDCountry), true
	case "currency":
		return export.String(r.Currency), true
	case "ds_seat_category":
		return export.String(r.DSSeatCategory), true
	case "nm_previous_first_price_venue_zone":
		return export.Float(r.PreviousFirstPriceVenueZone), true
	case "nm_unscaled_recommended_price":
		return export.Float(r.UnscaledRecommendedPrice), true
	case "nm_recommended_price":
		return export.Float(r.RecommendedPrice), true
	case "nm_previous_occupancies_venue":
		return export.Float(r.PreviousOccupanciesVenue), true
	case "nm_previous_atp_increase_venue":
		return export.Float(r.PreviousATPIncreaseVenue), true
	case "nm_previous_atp_increase_venue_zone":
		return export.Float(r.PreviousATPIncreaseVenueZone), true
	case "nm_previous_avg_sold_out_days_venue":
		return export.Float(r.PreviousAvgSoldOutDaysVenue), true
	case "nm_previous_avg_sold_out_days_venue_zone":
		return export.Float(r.PreviousAvgSoldOutDaysVenueZone), true
	case "nm_relative_price_multiplier":
		return export.Float(r.RelativePriceMultiplier), true
	case "nm_price_influence_range":
		return export.Float(r.PriceInfluenceRange), true
	case "nm_price_influence_range_multiplier":
		return export.Float(r.PriceInfluenceRangeMultiplier), true
	case "nm_price_influence_range_adjusted_cumsum_lag":
		return export.Float(r.PriceInfluenceRangeAdjustedCumsumLag), true
	case "nm_booking_fee":
		return export.NullableFloat(r.BookingFee), true
	case "nm_sales_tax_outside_ticket_price":
		return export.NullableFloat(r.SalesTaxOutsideTicketPrice), true
	case "cd_version":
		return export.String(r.Version), true
	case "is_treatment":
		return export.Bool(r.IsTreatment), true
	}
	return nil, false
}

// VenuePriceRecommendations is an ordered list of zone recommendations
type VenuePriceRecommendations struct {
	Recommendations []VenueZonePriceRecommendation `json:"recommendations"`
}

// ByVenue returns the recommendations of one venue, in order
func (v VenuePriceRecommendations) ByVenue(venueID int64) []VenueZonePriceRecommendation {
	var out []VenueZonePriceRecommendation
	for _, r := range v.Recommendations {
		if r.IDVenue == venueID {
			out = append(out, r)
		}
	}
	return out
}

// TreatmentCount returns how many recommendations are flagged as treatment
func (v VenuePriceRecommendations) TreatmentCount() int {
	n := 0
	for _, r := range v.Recommendations {
		if r.IsTreatment {
			n++
		}
	}
	return n
}

// InsertQuery renders the bulk INSERT for RecommendationsTable
func (v VenuePriceRecommendations) InsertQuery() (string, error) {
	if len(v.Recommendations) == 0 {
		return "", ErrNoRecommendations
	}
	stmt, err := export.InsertStatement(RecommendationsTable, ExportColumns, v.Recommendations)
	if err != nil {
		return "", fmt.Errorf("build recommendations insert: %w", err)
	}
	return stmt, nil
}
