package domain

import "github.com/goccy/go-json"

// UnknownShownTicketPrice marks a revert row whose displayed price was not loaded
const UnknownShownTicketPrice int64 = -1

// RevertCampaignData is a warehouse row describing how to undo a campaign
// price on a plan. Session, original price, channels and currency may be NULL.
type RevertCampaignData struct {
	CampaignPlanID         int64    `json:"ID_CAMPAIGN_PLAN"`
	MainPlanID             int64    `json:"MAIN_PLAN_ID"`
	SessionID              *int64   `json:"SESSION_ID"`
	PartnerID              int64    `json:"PARTNER_ID"`
	OriginalTicketPrice    *float64 `json:"ORIGINAL_TICKET_PRICE"`
	ChannelIDsToApply      *string  `json:"CHANNEL_IDS_TO_APPLY"`
	MustUseTaxBase         bool     `json:"MUST_USE_TAX_BASE"`
	Currency               *string  `json:"CURRENCY"`
	IsCouponDiscount       bool     `json:"IS_COUPON_DISCOUNT"`
	OnlyRevertCustomLabels bool     `json:"ONLY_REVERT_CUSTOM_LABELS"`
	ShownTicketPrice       int64    `json:"SHOWN_TICKET_PRICE"`
}

// UnmarshalJSON defaults ShownTicketPrice to UnknownShownTicketPrice when absent
func (r *RevertCampaignData) UnmarshalJSON(data []byte) error {
	type plain RevertCampaignData
	aux := plain{ShownTicketPrice: UnknownShownTicketPrice}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = RevertCampaignData(aux)
	return nil
}

// ChannelIDList splits the channel column; a NULL column yields no channels
func (r RevertCampaignData) ChannelIDList() []string {
	if r.ChannelIDsToApply == nil {
		return nil
	}
	return splitChannelIDs(*r.ChannelIDsToApply)
}

// SessionScoped reports whether the revert targets one session rather than the whole plan
func (r RevertCampaignData) SessionScoped() bool {
	return r.SessionID != nil
}
