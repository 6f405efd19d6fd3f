package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionPriceChangeEventFQN identifies the event for downstream consumers
const SessionPriceChangeEventFQN = "event.fever2.core.session_price.session_price_change_request"

// SessionChannelPriceChangeEvent asks the ticketing core to change a session's price
type SessionChannelPriceChangeEvent struct {
	ID                        string    `json:"id"`
	FQN                       string    `json:"fqn"`
	SessionID                 int64     `json:"session_id"`
	ChannelIDs                []string  `json:"channel_ids"`
	Currency                  string    `json:"currency"`
	RequesterID               int64     `json:"requester_id"`
	TicketPrice               *float64  `json:"ticket_price"`
	TicketPriceTaxBase        *float64  `json:"ticket_price_tax_base"`
	SurchargePerTicket        *float64  `json:"surcharge_per_ticket"`
	SurchargePerTicketTaxBase *float64  `json:"surcharge_per_ticket_tax_base"`
	StrikethroughPrice        *float64  `json:"strikethrough_price"`
	OccurredAt                time.Time `json:"occurred_at"`

	// Carried for logging, not serialized
	PlanID            int64  `json:"-"`
	InterventionLabel string `json:"-"`
}

// NewSessionChannelPriceChangeEvent builds the event for a validated update.
// The new price goes to the tax base field when the session is priced on tax base.
func NewSessionChannelPriceChangeEvent(update PriceUpdate, requesterID int64, now time.Time) SessionChannelPriceChangeEvent {
	price := update.NewPrice()
	evt := SessionChannelPriceChangeEvent{
		ID:                uuid.New().String(),
		FQN:               SessionPriceChangeEventFQN,
		SessionID:         update.SessionID(),
		ChannelIDs:        update.ChannelIDs(),
		Currency:          update.Currency(),
		RequesterID:       requesterID,
		OccurredAt:        now.UTC(),
		PlanID:            update.PlanID(),
		InterventionLabel: update.InterventionLabel(),
	}
	if update.MustUseTaxBase() {
		evt.TicketPriceTaxBase = &price
	} else {
		evt.TicketPrice = &price
	}
	return evt
}
