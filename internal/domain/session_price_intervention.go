package domain

import "strings"

// SessionPriceIntervention is a warehouse row proposing a new price for a session
type SessionPriceIntervention struct {
	PlanID               int64   `json:"ID_PLAN"`
	SessionID            int64   `json:"ID_SESSION"`
	CurrentPrice         float64 `json:"CURRENT_PRICE"`
	NewPrice             float64 `json:"NEW_PRICE"`
	MustUseTaxBase       bool    `json:"MUST_USE_TAX_BASE"`
	CurrencySmallestUnit int64   `json:"NM_SMALL_UNIT_CONV"`
	Currency             string  `json:"CURRENCY"`
	ChannelIDs           string  `json:"CHANNEL_IDS"`
	InterventionLabel    string  `json:"INTERVENTION_LABEL"`
	PriceChangeInfo      *string `json:"PRICE_CHANGE_INFO"`
}

// ChannelIDList splits the comma separated channel column
func (s SessionPriceIntervention) ChannelIDList() []string {
	return splitChannelIDs(s.ChannelIDs)
}

func splitChannelIDs(column string) []string {
	var ids []string
	for _, id := range strings.Split(column, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// ToPriceUpdate runs the intervention through the guardrails
func (s SessionPriceIntervention) ToPriceUpdate() (PriceUpdate, error) {
	return NewPriceUpdate(PriceUpdateParams{
		PlanID:               s.PlanID,
		SessionID:            s.SessionID,
		InterventionLabel:    s.InterventionLabel,
		CurrentPrice:         s.CurrentPrice,
		NewPrice:             s.NewPrice,
		MustUseTaxBase:       s.MustUseTaxBase,
		Currency:             s.Currency,
		ChannelIDs:           s.ChannelIDList(),
		CurrencySmallestUnit: s.CurrencySmallestUnit,
		PriceChangeInfo:      s.PriceChangeInfo,
	})
}
