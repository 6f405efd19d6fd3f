package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReversedZone_IsReversed(t *testing.T) {
	tests := []struct {
		name   string
		prices []ZonePrice
		want   bool
	}{
		{"ordered", []ZonePrice{{"VIP", 120}, {"Premium", 80}, {"General", 40}}, false},
		{"equal tiers", []ZonePrice{{"VIP", 80}, {"Premium", 80}}, false},
		{"reversed", []ZonePrice{{"VIP", 60}, {"Premium", 80}, {"General", 40}}, true},
		{"reversed at the bottom", []ZonePrice{{"VIP", 120}, {"Premium", 40}, {"General", 41}}, true},
		{"single zone", []ZonePrice{{"General", 40}}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReversedZone{ZonePrices: tt.prices}.IsReversed())
		})
	}
}

func TestReversedZone_ShouldWarn(t *testing.T) {
	now := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	week := 7 * 24 * time.Hour
	recent := now.Add(-24 * time.Hour)
	old := now.Add(-8 * 24 * time.Hour)

	assert.True(t, ReversedZone{}.ShouldWarn(now, week))
	assert.False(t, ReversedZone{LastWarnedAt: &recent}.ShouldWarn(now, week))
	assert.True(t, ReversedZone{LastWarnedAt: &old}.ShouldWarn(now, week))
}

func TestReversedZoneAlert_String(t *testing.T) {
	alert := ReversedZoneAlert{
		Zone: ReversedZone{
			PlanID:         555,
			CityCode:       "MAD",
			Country:        "Spain",
			StartTimeLocal: time.Date(2026, 6, 1, 21, 30, 0, 0, time.UTC),
			ZonePrices:     []ZonePrice{{"VIP", 50}, {"General", 65.5}},
		},
		CreatedAt: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}

	msg := alert.String()
	assert.Contains(t, msg, "*Plan ID:* 555")
	assert.Contains(t, msg, "*City:* MAD")
	assert.Contains(t, msg, "*Country:* Spain")
	assert.Contains(t, msg, "2026-06-01 21:30:00")
	assert.Contains(t, msg, "      - VIP: 50\n      - General: 65.5")
}
