package dto

import "github.com/prohmpiriya/price-settings/internal/domain"

// ValidatePriceUpdateRequest represents a proposed session price change
type ValidatePriceUpdateRequest struct {
	PlanID               int64    `json:"id_plan" binding:"omitempty,gte=0"`
	SessionID            int64    `json:"id_session" binding:"required,gt=0"`
	InterventionLabel    string   `json:"intervention_label" binding:"omitempty,max=100"`
	CurrentPrice         *float64 `json:"current_price" binding:"required"`
	NewPrice             *float64 `json:"new_price" binding:"required"`
	MustUseTaxBase       bool     `json:"must_use_tax_base"`
	Currency             string   `json:"currency" binding:"required,len=3"`
	ChannelIDs           []string `json:"channel_ids"`
	CurrencySmallestUnit *int64   `json:"currency_smallest_unit" binding:"required"`
	PriceChangeInfo      *string  `json:"price_change_info"`
}

// ToParams converts the request to guardrail input
func (r *ValidatePriceUpdateRequest) ToParams() domain.PriceUpdateParams {
	return domain.PriceUpdateParams{
		PlanID:               r.PlanID,
		SessionID:            r.SessionID,
		InterventionLabel:    r.InterventionLabel,
		CurrentPrice:         *r.CurrentPrice,
		NewPrice:             *r.NewPrice,
		MustUseTaxBase:       r.MustUseTaxBase,
		Currency:             r.Currency,
		ChannelIDs:           r.ChannelIDs,
		CurrencySmallestUnit: *r.CurrencySmallestUnit,
		PriceChangeInfo:      r.PriceChangeInfo,
	}
}

// ValidatePriceUpdateResponse reports the guardrail outcome
type ValidatePriceUpdateResponse struct {
	Valid   bool    `json:"valid"`
	Ratio   float64 `json:"ratio,omitempty"`
	Rule    string  `json:"rule,omitempty"`
	Message string  `json:"message,omitempty"`
}
