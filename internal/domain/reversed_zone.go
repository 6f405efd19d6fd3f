package domain

import (
	"fmt"
	"strings"
	"time"
)

// ZonePrice is the current price of one zone of a plan
type ZonePrice struct {
	Zone  string  `json:"zone"`
	Price float64 `json:"price"`
}

// ReversedZone is a plan session whose zone prices are candidates for review.
// ZonePrices are ordered by zone tier, premium first.
type ReversedZone struct {
	PlanID         int64       `json:"id_plan"`
	CityCode       string      `json:"cd_city"`
	Country        string      `json:"ds_country"`
	StartTimeLocal time.Time   `json:"dt_start_time_local"`
	ZonePrices     []ZonePrice `json:"zone_prices"`
	LastWarnedAt   *time.Time  `json:"dt_last_time_warned,omitempty"`
}

// IsReversed reports whether a lower tier is priced above a higher one
func (z ReversedZone) IsReversed() bool {
	for i := 1; i < len(z.ZonePrices); i++ {
		if z.ZonePrices[i].Price > z.ZonePrices[i-1].Price {
			return true
		}
	}
	return false
}

// ShouldWarn is true when the plan was never warned or last warned before now-interval
func (z ReversedZone) ShouldWarn(now time.Time, interval time.Duration) bool {
	if z.LastWarnedAt == nil {
		return true
	}
	return z.LastWarnedAt.Before(now.Add(-interval))
}

// ReversedZoneAlert renders the review request for one reversed plan
type ReversedZoneAlert struct {
	Zone      ReversedZone
	CreatedAt time.Time
}

func (a ReversedZoneAlert) String() string {
	var prices strings.Builder
	for i, zp := range a.Zone.ZonePrices {
		if i > 0 {
			prices.WriteString("\n")
		}
		fmt.Fprintf(&prices, "      - %s: %v", zp.Zone, zp.Price)
	}

	return fmt.Sprintf(`⚠️ *Potential Reversed Zone Detected - Manual Review Recommended* ⚠️

Zone prices for the plan below look reversed: a lower zone costs more than the zone above it.

*   *Plan ID:* %d
*   *City:* %s
*   *Country:* %s
*   *Start Time (Local):* %s
*   *Zone Prices:*
%s

*Action Required:* check the price of every zone and update the plan pricing if needed.

*Alert Created At:* %s
`,
		a.Zone.PlanID,
		a.Zone.CityCode,
		a.Zone.Country,
		a.Zone.StartTimeLocal.Format("2006-01-02 15:04:05"),
		prices.String(),
		a.CreatedAt.Format("2006-01-02 15:04:05 MST-0700"),
	)
}
