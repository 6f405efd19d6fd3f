package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/prohmpiriya/price-settings/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettify(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{12345, 12500},
		{10000, 10000},
		{10250, 10000}, // half step rounds to even multiple
		{10750, 11000},
		{1234, 1250},
		{1025, 1000},
		{150, 150},
		{123, 125},
		{57, 57},
		{54, 54},
		{54.3, 54.5},
		{54.2, 54},
		{54.25, 54}, // 108.5 rounds to 108
		{54.75, 55}, // 109.5 rounds to 110
		{100, 100},
		{0.2, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Prettify(tt.in), "Prettify(%v)", tt.in)
	}
}

func TestUnscaledPrice(t *testing.T) {
	f := domain.VenueZoneFeature{
		MinPrice:                             90,
		PriceInfluenceRangeAdjustedCumsumLag: 30,
		TotalRange:                           40,
		TotalRangeAdjusted:                   40,
	}
	assert.Equal(t, 120.0, UnscaledPrice(f))

	f.TotalRangeAdjusted = 0
	assert.Equal(t, 1.0, UnscaledPrice(f))
}

func TestGeneratePriceRecommendations_EndToEnd(t *testing.T) {
	features, err := NewFeatureDeriver(DefaultThresholds(), 1).Compute(context.Background(), venue7())
	require.NoError(t, err)

	model := NewModel("v1", NewStaticSelector(7))
	recs, err := model.GeneratePriceRecommendations(context.Background(), features)
	require.NoError(t, err)
	require.Len(t, recs.Recommendations, 2)

	a, b := recs.Recommendations[0], recs.Recommendations[1]
	assert.Equal(t, 90.0, a.UnscaledRecommendedPrice)
	assert.Equal(t, 90.0, a.RecommendedPrice)
	assert.InDelta(t, 120, b.UnscaledRecommendedPrice, 1e-9)
	assert.Equal(t, 120.0, b.RecommendedPrice)

	for _, r := range recs.Recommendations {
		assert.Equal(t, "v1", r.Version)
		assert.True(t, r.IsTreatment)
		assert.Equal(t, int64(7), r.IDVenue)
	}
	assert.Equal(t, "v1", model.Version())
}

func TestGeneratePriceRecommendations_DegenerateDenominator(t *testing.T) {
	features := domain.VenueZoneFeatures{Features: []domain.VenueZoneFeature{{
		IDVenue:                              1,
		MinPrice:                             80,
		PriceInfluenceRangeAdjustedCumsumLag: 0,
		TotalRange:                           0,
		TotalRangeAdjusted:                   0,
		RelativePriceMultiplier:              1,
	}}}

	recs, err := NewModel("v1", NewStaticSelector()).GeneratePriceRecommendations(context.Background(), features)
	require.NoError(t, err)
	assert.Equal(t, 1.0, recs.Recommendations[0].UnscaledRecommendedPrice)
	assert.Equal(t, 1.0, recs.Recommendations[0].RecommendedPrice)
	assert.False(t, recs.Recommendations[0].IsTreatment)
}

func TestGeneratePriceRecommendations_AppliesInterventionMultiplier(t *testing.T) {
	features := domain.VenueZoneFeatures{Features: []domain.VenueZoneFeature{{
		IDVenue:                              1,
		MinPrice:                             200,
		PriceInfluenceRangeAdjustedCumsumLag: 40,
		TotalRange:                           100,
		TotalRangeAdjusted:                   100,
		RelativePriceMultiplier:              1.05,
	}}}

	recs, err := NewModel("v2", NewStaticSelector()).GeneratePriceRecommendations(context.Background(), features)
	require.NoError(t, err)

	r := recs.Recommendations[0]
	assert.Equal(t, 240.0, r.UnscaledRecommendedPrice)
	// 252 rounds to the step-5 grid
	assert.Equal(t, 250.0, r.RecommendedPrice)
	assert.Equal(t, 1.05, r.RelativePriceMultiplier)
}

func TestGeneratePriceRecommendations_SelectorError(t *testing.T) {
	features, err := NewFeatureDeriver(DefaultThresholds(), 1).Compute(context.Background(), venue7())
	require.NoError(t, err)

	boom := errors.New("assignment store down")
	selector := SelectorFunc(func(ctx context.Context, venueID int64) (bool, error) {
		return false, boom
	})

	_, err = NewModel("v1", selector).GeneratePriceRecommendations(context.Background(), features)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "venue 7")
}

func TestStaticSelector(t *testing.T) {
	s := NewStaticSelector(1, 3)
	for id, want := range map[int64]bool{1: true, 2: false, 3: true} {
		got, err := s.IsTreatment(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, got, "venue %d", id)
	}
}
