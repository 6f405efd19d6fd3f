package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/prohmpiriya/price-settings/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recommendation(venueID int64, venue, category string, price float64, treatment bool) VenueZonePriceRecommendation {
	return VenueZonePriceRecommendation{
		IDVenue:                       venueID,
		DSVenue:                       venue,
		DSCityCountry:                 "Dublin, Ireland",
		DSCity:                        "Dublin",
		IDCity:                        3,
		CDCity:                        "DUB",
		DSCountry:                     "Ireland",
		IDCountry:                     4,
		Currency:                      "EUR",
		DSSeatCategory:                category,
		PreviousFirstPriceVenueZone:   90,
		UnscaledRecommendedPrice:      price,
		RecommendedPrice:              price,
		PriceInfluenceRangeMultiplier: 1,
		RelativePriceMultiplier:       1,
		Version:                       "v1",
		IsTreatment:                   treatment,
	}
}

func TestVenuePriceRecommendations_ByVenue(t *testing.T) {
	recs := VenuePriceRecommendations{Recommendations: []VenueZonePriceRecommendation{
		recommendation(7, "Hall", "A", 90, true),
		recommendation(8, "Club", "A", 20, false),
		recommendation(7, "Hall", "B", 120, true),
	}}

	byVenue := recs.ByVenue(7)
	require.Len(t, byVenue, 2)
	assert.Equal(t, "A", byVenue[0].DSSeatCategory)
	assert.Equal(t, "B", byVenue[1].DSSeatCategory)
	assert.Empty(t, recs.ByVenue(99))
	assert.Equal(t, 2, recs.TreatmentCount())
}

func TestVenuePriceRecommendations_InsertQuery(t *testing.T) {
	recs := VenuePriceRecommendations{Recommendations: []VenueZonePriceRecommendation{
		recommendation(7, "O'Brien Hall", "A", 120, true),
		recommendation(8, "Club", "B", 54.5, false),
	}}

	query, err := recs.InsertQuery()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(query,
		"INSERT INTO PUBLIC.PRICE_SETTINGS_RECOMMENDATIONS (ID_VENUE, DS_VENUE, DS_CITY_COUNTRY, DS_CITY, "))
	assert.Contains(t, query, "CD_VERSION, IS_TREATMENT) VALUES (7, 'O''Brien Hall', 'Dublin, Ireland', 'Dublin', 3, 'DUB', 'Ireland', 4, 'EUR', 'A', 90.0, 120.0, 120.0, ")
	assert.Contains(t, query, "NULL, NULL, 'v1', TRUE), (8, 'Club'")
	assert.True(t, strings.HasSuffix(query, "NULL, NULL, 'v1', FALSE);"))
	assert.Equal(t, 2, strings.Count(query, "), (")+1)
}

func TestVenuePriceRecommendations_InsertQuery_Errors(t *testing.T) {
	_, err := VenuePriceRecommendations{}.InsertQuery()
	assert.ErrorIs(t, err, ErrNoRecommendations)

	bad := recommendation(7, "Hall", "A", math.NaN(), false)
	_, err = VenuePriceRecommendations{Recommendations: []VenueZonePriceRecommendation{bad}}.InsertQuery()
	assert.ErrorIs(t, err, export.ErrUnsupportedValue)
}

func TestRecommendation_FieldCoversExportColumns(t *testing.T) {
	r := recommendation(7, "Hall", "A", 90, false)
	for _, col := range ExportColumns {
		_, ok := r.Field(col)
		assert.True(t, ok, col)
	}
	assert.Len(t, ExportColumns, 25)

	_, ok := r.Field("nm_unknown")
	assert.False(t, ok)
}
