package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Allowed band for new_price / current_price
const (
	RatioMinimum = 0.5
	RatioMaximum = 2.0
)

// PriceUpdateParams are the proposed values of a price change
type PriceUpdateParams struct {
	PlanID            int64    `json:"id_plan"`
	SessionID         int64    `json:"id_session"`
	InterventionLabel string   `json:"intervention_label"`
	CurrentPrice      float64  `json:"current_price"`
	NewPrice          float64  `json:"new_price"`
	MustUseTaxBase    bool     `json:"must_use_tax_base"`
	Currency          string   `json:"currency"`
	ChannelIDs        []string `json:"channel_ids"`

	// CurrencySmallestUnit is the number of subunits per unit: 100 for cents, 1 for yen
	CurrencySmallestUnit int64   `json:"currency_smallest_unit"`
	PriceChangeInfo      *string `json:"price_change_info,omitempty"`
}

// GuardrailError reports the first guardrail a proposed price change violates
type GuardrailError struct {
	Rule   error
	Params PriceUpdateParams
}

func (e *GuardrailError) Error() string {
	p := e.Params
	msg := fmt.Sprintf("%v: plan=%d session=%d label=%q current=%v new=%v currency=%s smallest_unit=%d tax_base=%t channels=[%s]",
		e.Rule, p.PlanID, p.SessionID, p.InterventionLabel, p.CurrentPrice, p.NewPrice,
		p.Currency, p.CurrencySmallestUnit, p.MustUseTaxBase, strings.Join(p.ChannelIDs, ","))
	if p.PriceChangeInfo != nil {
		msg += fmt.Sprintf(" info=%q", *p.PriceChangeInfo)
	}
	return msg
}

func (e *GuardrailError) Unwrap() error {
	return e.Rule
}

// RuleName is a short label for the violated rule
func (e *GuardrailError) RuleName() string {
	switch e.Rule {
	case ErrNonPositivePrice:
		return "non_positive_price"
	case ErrExtremePriceRatio:
		return "extreme_ratio"
	case ErrInvalidGranularity:
		return "granularity"
	default:
		return "unknown"
	}
}

// PriceUpdate is a price change that passed every guardrail. The zero value
// is not a valid update; use NewPriceUpdate.
type PriceUpdate struct {
	p PriceUpdateParams
}

// NewPriceUpdate validates params and returns the update, or a *GuardrailError
func NewPriceUpdate(params PriceUpdateParams) (PriceUpdate, error) {
	params.ChannelIDs = append([]string(nil), params.ChannelIDs...)

	if params.NewPrice <= 0 {
		return PriceUpdate{}, &GuardrailError{Rule: ErrNonPositivePrice, Params: params}
	}

	ratio := params.NewPrice / params.CurrentPrice
	if !(ratio >= RatioMinimum && ratio <= RatioMaximum) {
		return PriceUpdate{}, &GuardrailError{Rule: ErrExtremePriceRatio, Params: params}
	}

	if !hasValidGranularity(params.NewPrice, params.CurrencySmallestUnit) {
		return PriceUpdate{}, &GuardrailError{Rule: ErrInvalidGranularity, Params: params}
	}

	return PriceUpdate{p: params}, nil
}

// hasValidGranularity reports whether price is a whole number of subunits.
// Decimal arithmetic keeps 19.99 * 100 exact.
func hasValidGranularity(price float64, smallestUnit int64) bool {
	if smallestUnit <= 0 {
		return false
	}
	subunits := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(smallestUnit))
	return subunits.IsInteger()
}

func (u PriceUpdate) PlanID() int64               { return u.p.PlanID }
func (u PriceUpdate) SessionID() int64            { return u.p.SessionID }
func (u PriceUpdate) InterventionLabel() string   { return u.p.InterventionLabel }
func (u PriceUpdate) CurrentPrice() float64       { return u.p.CurrentPrice }
func (u PriceUpdate) NewPrice() float64           { return u.p.NewPrice }
func (u PriceUpdate) MustUseTaxBase() bool        { return u.p.MustUseTaxBase }
func (u PriceUpdate) Currency() string            { return u.p.Currency }
func (u PriceUpdate) CurrencySmallestUnit() int64 { return u.p.CurrencySmallestUnit }
func (u PriceUpdate) PriceChangeInfo() *string    { return u.p.PriceChangeInfo }

// ChannelIDs returns a copy of the channel set
func (u PriceUpdate) ChannelIDs() []string {
	return append([]string(nil), u.p.ChannelIDs...)
}

// Ratio returns new_price / current_price
func (u PriceUpdate) Ratio() float64 {
	return u.p.NewPrice / u.p.CurrentPrice
}

// Params returns a copy of the validated values
func (u PriceUpdate) Params() PriceUpdateParams {
	p := u.p
	p.ChannelIDs = u.ChannelIDs()
	return p
}
