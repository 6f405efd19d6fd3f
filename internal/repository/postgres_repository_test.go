package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/prohmpiriya/price-settings/internal/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func venueZoneRow(venueID int64, category string, order float64, superior *string) fakeRow {
	return fakeRow{
		"Madrid, Spain", "Sala Sol", venueID, category, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		"Candlelight", 2, "Candlelight,Jazz", 40,
		0.8, 0.75,
		320.0, 400.0,
		30.0, 32.5,
		0.1, 0.12,
		12.0, 10.0,
		6, true, 0.11,
		-0.01, 11.0,
		1.0, 3,
		order, superior,
		int64(1), "MAD", "Spain", "Madrid", int64(34), "EUR",
	}
}

func TestScanVenueZone(t *testing.T) {
	t.Run("superior price present", func(t *testing.T) {
		z, err := scanVenueZone(venueZoneRow(7, "A", 1, strPtr("45.5")), "NaN")
		require.NoError(t, err)

		assert.Equal(t, int64(7), z.IDVenue)
		assert.Equal(t, "A", z.SeatCategory)
		assert.Equal(t, 40, z.NConcerts)
		assert.True(t, z.RecurrentVenue)
		assert.Equal(t, "EUR", z.Currency)
		assert.Equal(t, domain.SomePrice(45.5), z.PreviousFirstPriceSuperiorVenueZone)
	})

	t.Run("sentinel and null mean absent", func(t *testing.T) {
		z, err := scanVenueZone(venueZoneRow(7, "A", 1, strPtr("NaN")), "NaN")
		require.NoError(t, err)
		assert.False(t, z.PreviousFirstPriceSuperiorVenueZone.Valid)

		z, err = scanVenueZone(venueZoneRow(7, "A", 1, nil), "NaN")
		require.NoError(t, err)
		assert.False(t, z.PreviousFirstPriceSuperiorVenueZone.Valid)
	})

	t.Run("garbage superior price", func(t *testing.T) {
		_, err := scanVenueZone(venueZoneRow(7, "A", 1, strPtr("cheap")), "NaN")
		assert.ErrorIs(t, err, domain.ErrInvalidOptionalPrice)
	})
}

func TestPostgresVenueZoneRepository_ListVenueZones(t *testing.T) {
	q := &fakeQuerier{rows: &fakeRows{rows: []fakeRow{
		venueZoneRow(7, "A", 1, strPtr("NaN")),
		venueZoneRow(7, "B", 2, strPtr("30")),
	}}}
	repo := NewPostgresVenueZoneRepository(q, "")

	zones, err := repo.ListVenueZones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "B", zones[1].SeatCategory)
	assert.Contains(t, q.queries[0], "ORDER BY ID_VENUE, ORDER_PRICE")
	assert.Contains(t, q.queries[0], "PREVIOUS_FIRST_PRICE_SUPERIOR_VENUE_ZONE::TEXT")
}

// scenarioZoneRow is a non-recurrent zone with the given first price
func scenarioZoneRow(category string, order, firstPrice float64, superior *string) fakeRow {
	row := venueZoneRow(7, category, order, superior)
	row[13] = firstPrice
	row[20] = false
	return row
}

func TestPostgresVenueZoneRepository_ListVenueZones_OrderPriceDrivesCumsum(t *testing.T) {
	// ORDER_PRICE 1 is the priciest zone; the warehouse returns rows ascending
	q := &fakeQuerier{rows: &fakeRows{rows: []fakeRow{
		scenarioZoneRow("A", 1, 100, strPtr("NaN")),
		scenarioZoneRow("B", 2, 90, strPtr("100")),
	}}}

	zones, err := NewPostgresVenueZoneRepository(q, "").ListVenueZones(context.Background())
	require.NoError(t, err)
	assert.Contains(t, q.queries[0], "ORDER BY ID_VENUE, ORDER_PRICE")

	out, err := pricing.NewFeatureDeriver(pricing.DefaultThresholds(), 1).Compute(context.Background(), zones)
	require.NoError(t, err)
	require.Len(t, out.Features, 2)

	a, b := out.Features[0], out.Features[1]
	assert.Equal(t, "A", a.DSSeatCategory)
	assert.Equal(t, 0.0, a.PriceInfluenceRangeAdjustedCumsumLag)
	assert.InDelta(t, 30, a.PriceInfluenceRangeAdjustedCumsum, 1e-9)
	assert.Equal(t, "B", b.DSSeatCategory)
	assert.InDelta(t, 30, b.PriceInfluenceRangeAdjustedCumsumLag, 1e-9)
	assert.InDelta(t, 40, b.PriceInfluenceRangeAdjustedCumsum, 1e-9)
	assert.Equal(t, 120.0, pricing.Prettify(pricing.UnscaledPrice(b)))
}

func TestPostgresVenueZoneRepository_ListVenueZones_Errors(t *testing.T) {
	boom := errors.New("warehouse unavailable")

	_, err := NewPostgresVenueZoneRepository(&fakeQuerier{queryErr: boom}, "NaN").ListVenueZones(context.Background())
	assert.ErrorIs(t, err, boom)

	_, err = NewPostgresVenueZoneRepository(&fakeQuerier{rows: &fakeRows{err: boom}}, "NaN").ListVenueZones(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestPostgresRecommendationRepository_BulkInsert(t *testing.T) {
	recs := domain.VenuePriceRecommendations{Recommendations: []domain.VenueZonePriceRecommendation{
		{IDVenue: 7, DSSeatCategory: "A", Currency: "EUR", Version: "v1", RecommendedPrice: 45},
		{IDVenue: 7, DSSeatCategory: "B", Currency: "EUR", Version: "v1", RecommendedPrice: 30},
	}}

	q := &fakeQuerier{execTag: "INSERT 0 2"}
	n, err := NewPostgresRecommendationRepository(q).BulkInsert(context.Background(), recs)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], "INSERT INTO PUBLIC.PRICE_SETTINGS_RECOMMENDATIONS")
}

func TestPostgresRecommendationRepository_BulkInsert_Empty(t *testing.T) {
	q := &fakeQuerier{}
	_, err := NewPostgresRecommendationRepository(q).BulkInsert(context.Background(), domain.VenuePriceRecommendations{})
	assert.Error(t, err)
	assert.Empty(t, q.queries)
}

func TestPostgresInterventionRepository_ListPending(t *testing.T) {
	info := "weekly review"
	q := &fakeQuerier{rows: &fakeRows{rows: []fakeRow{
		{int64(10), int64(100), 20.0, 22.0, false, int64(100), "EUR", "1, 2", "HIGH_DEMAND", &info},
		{int64(11), int64(101), 30.0, 27.0, true, int64(1), "JPY", "3", "LOW_DEMAND", nil},
	}}}

	got, err := NewPostgresInterventionRepository(q).ListPending(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"1", "2"}, got[0].ChannelIDList())
	assert.Equal(t, &info, got[0].PriceChangeInfo)
	assert.True(t, got[1].MustUseTaxBase)
	assert.Nil(t, got[1].PriceChangeInfo)
	assert.Equal(t, []any{50}, q.args[0])
}

func TestPostgresInterventionRepository_MarkProcessed(t *testing.T) {
	q := &fakeQuerier{execTag: "UPDATE 2"}
	repo := NewPostgresInterventionRepository(q)

	require.NoError(t, repo.MarkProcessed(context.Background(), InterventionPublished, nil))
	assert.Empty(t, q.queries)

	err := repo.MarkProcessed(context.Background(), InterventionRejected, []PlanSession{
		{PlanID: 10, SessionID: 100},
		{PlanID: 11, SessionID: 101},
	})
	require.NoError(t, err)
	require.Len(t, q.args, 1)
	assert.Equal(t, []any{"REJECTED", []int64{10, 11}, []int64{100, 101}}, q.args[0])
}

func TestScanReversedZone(t *testing.T) {
	start := time.Date(2026, 11, 2, 20, 0, 0, 0, time.UTC)
	warned := start.Add(-48 * time.Hour)

	z, err := scanReversedZone(fakeRow{
		int64(42), "MAD", "Spain", start,
		[]byte(`[{"zone":"Zone A","price":40},{"zone":"Zone B","price":45}]`),
		&warned,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), z.PlanID)
	assert.Equal(t, []domain.ZonePrice{{Zone: "Zone A", Price: 40}, {Zone: "Zone B", Price: 45}}, z.ZonePrices)
	require.NotNil(t, z.LastWarnedAt)
	assert.True(t, z.IsReversed())

	_, err = scanReversedZone(fakeRow{int64(42), "MAD", "Spain", start, []byte(`{`), nil})
	assert.Error(t, err)
}

func TestPostgresReversedZoneRepository_MarkWarned_Empty(t *testing.T) {
	q := &fakeQuerier{}
	require.NoError(t, NewPostgresReversedZoneRepository(q).MarkWarned(context.Background(), nil, time.Now()))
	assert.Empty(t, q.queries)
}
