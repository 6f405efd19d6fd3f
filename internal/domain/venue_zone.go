package domain

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultNaNSentinel is the upstream marker for "no pricier zone observed"
const DefaultNaNSentinel = "NaN"

var validate = validator.New(validator.WithRequiredStructEnabled())

// OptionalPrice is a nullable price column
type OptionalPrice struct {
	Value float64
	Valid bool
}

// SomePrice returns a present price
func SomePrice(v float64) OptionalPrice {
	return OptionalPrice{Value: v, Valid: true}
}

// ParseOptionalPrice converts a raw warehouse value. Nil, empty and the
// sentinel all mean absent.
func ParseOptionalPrice(raw *string, sentinel string) (OptionalPrice, error) {
	if raw == nil || *raw == "" || *raw == sentinel {
		return OptionalPrice{}, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return OptionalPrice{}, fmt.Errorf("%w: %q", ErrInvalidOptionalPrice, *raw)
	}
	if math.IsNaN(v) {
		return OptionalPrice{}, nil
	}
	return SomePrice(v), nil
}

// Ptr returns nil when absent
func (p OptionalPrice) Ptr() *float64 {
	if !p.Valid {
		return nil
	}
	v := p.Value
	return &v
}

// UnmarshalJSON accepts null, a number, or a string holding a number or the sentinel
func (p *OptionalPrice) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = OptionalPrice{}
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidOptionalPrice, raw)
		}
		raw = unquoted
	}
	parsed, err := ParseOptionalPrice(&raw, DefaultNaNSentinel)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalJSON writes null when absent
func (p OptionalPrice) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, p.Value, 'f', -1, 64), nil
}

// VenueZone is one historical snapshot row for a venue and seat category
type VenueZone struct {
	DSCityCountry                        string        `json:"DS_CITY_COUNTRY"`
	DSVenue                              string        `json:"DS_VENUE"`
	IDVenue                              int64         `json:"ID_VENUE"`
	SeatCategory                         string        `json:"SEAT_CATEGORY"`
	VenueLastDate                        time.Time     `json:"VENUE_LAST_DATE"`
	DSLabel                              string        `json:"DS_LABEL"`
	NLabels                              int           `json:"N_LABELS" validate:"gte=0"`
	AllLabels                            string        `json:"ALL_LABELS"`
	NConcerts                            int           `json:"N_CONCERTS" validate:"gte=0"`
	PreviousOccupanciesVenueZone         float64       `json:"PREVIOUS_OCCUPANCIES_VENUE_ZONE"`
	PreviousOccupanciesVenue             float64       `json:"PREVIOUS_OCCUPANCIES_VENUE"`
	PreviousSalesVenueZone               float64       `json:"PREVIOUS_SALES_VENUE_ZONE"`
	PreviousCapacitiesVenueZone          float64       `json:"PREVIOUS_CAPACITIES_VENUE_ZONE"`
	PreviousFirstPriceVenueZone          float64       `json:"PREVIOUS_FIRST_PRICE_VENUE_ZONE" validate:"gte=0"`
	PreviousATPVenueZone                 float64       `json:"PREVIOUS_ATP_VENUE_ZONE"`
	PreviousATPIncreaseVenueZone         float64       `json:"PREVIOUS_ATP_INCREASE_VENUE_ZONE"`
	PreviousATPIncreaseVenue             float64       `json:"PREVIOUS_ATP_INCREASE_VENUE"`
	PreviousAvgSoldOutDaysVenueZone      float64       `json:"PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE_ZONE"`
	PreviousAvgSoldOutDaysVenue          float64       `json:"PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE"`
	PreviousConcertsVenueZone            int           `json:"PREVIOUS_CONCERTS_VENUE_ZONE" validate:"gte=0"`
	RecurrentVenue                       bool          `json:"RECURRENT_VENUE"`
	AvgATPIncreaseVenue                  float64       `json:"AVG_ATP_INCREASE_VENUE"`
	PreviousATPIncreaseZoneDifference    float64       `json:"PREVIOUS_ATP_INCREASE_ZONE_DIFFERENCE"`
	AvgSoldOutDaysVenue                  float64       `json:"AVG_SOLD_OUT_DAYS_VENUE"`
	PreviousAvgSoldOutDaysZoneDifference float64       `json:"PREVIOUS_AVG_SOLD_OUT_DAYS_ZONE_DIFFERENCE"`
	PreviousSoldOutsZone                 int           `json:"PREVIOUS_SOLD_OUTS_ZONE" validate:"gte=0"`
	OrderPrice                           float64       `json:"ORDER_PRICE"`
	PreviousFirstPriceSuperiorVenueZone  OptionalPrice `json:"PREVIOUS_FIRST_PRICE_SUPERIOR_VENUE_ZONE"`
	IDCity                               int64         `json:"ID_CITY"`
	CDCity                               string        `json:"CD_CITY"`
	DSCountry                            string        `json:"DS_COUNTRY"`
	DSCity                               string        `json:"DS_CITY"`
	IDCountry                            int64         `json:"ID_COUNTRY"`
	Currency                             string        `json:"CURRENCY"`
}

// Validate checks count columns are non-negative and every metric is finite.
// Identifiers and labels may be blank; upstream emits such rows and they still
// get a recommendation.
func (z *VenueZone) Validate() error {
	if err := validate.Struct(z); err != nil {
		return fmt.Errorf("%w: venue %d: %v", ErrInvalidVenueZone, z.IDVenue, err)
	}

	metrics := []struct {
		name  string
		value float64
	}{
		{"PREVIOUS_OCCUPANCIES_VENUE_ZONE", z.PreviousOccupanciesVenueZone},
		{"PREVIOUS_OCCUPANCIES_VENUE", z.PreviousOccupanciesVenue},
		{"PREVIOUS_SALES_VENUE_ZONE", z.PreviousSalesVenueZone},
		{"PREVIOUS_CAPACITIES_VENUE_ZONE", z.PreviousCapacitiesVenueZone},
		{"PREVIOUS_FIRST_PRICE_VENUE_ZONE", z.PreviousFirstPriceVenueZone},
		{"PREVIOUS_ATP_VENUE_ZONE", z.PreviousATPVenueZone},
		{"PREVIOUS_ATP_INCREASE_VENUE_ZONE", z.PreviousATPIncreaseVenueZone},
		{"PREVIOUS_ATP_INCREASE_VENUE", z.PreviousATPIncreaseVenue},
		{"PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE_ZONE", z.PreviousAvgSoldOutDaysVenueZone},
		{"PREVIOUS_AVG_SOLD_OUT_DAYS_VENUE", z.PreviousAvgSoldOutDaysVenue},
		{"AVG_ATP_INCREASE_VENUE", z.AvgATPIncreaseVenue},
		{"PREVIOUS_ATP_INCREASE_ZONE_DIFFERENCE", z.PreviousATPIncreaseZoneDifference},
		{"AVG_SOLD_OUT_DAYS_VENUE", z.AvgSoldOutDaysVenue},
		{"PREVIOUS_AVG_SOLD_OUT_DAYS_ZONE_DIFFERENCE", z.PreviousAvgSoldOutDaysZoneDifference},
		{"ORDER_PRICE", z.OrderPrice},
	}
	if z.PreviousFirstPriceSuperiorVenueZone.Valid {
		metrics = append(metrics, struct {
			name  string
			value float64
		}{"PREVIOUS_FIRST_PRICE_SUPERIOR_VENUE_ZONE", z.PreviousFirstPriceSuperiorVenueZone.Value})
	}

	for _, m := range metrics {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) {
			return fmt.Errorf("%w: venue %d: %s is not finite", ErrInvalidVenueZone, z.IDVenue, m.name)
		}
	}
	return nil
}
