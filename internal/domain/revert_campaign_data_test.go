package domain

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevertCampaignData_Unmarshal(t *testing.T) {
	t.Run("nullable columns", func(t *testing.T) {
		var r RevertCampaignData
		err := json.Unmarshal([]byte(`{
			"ID_CAMPAIGN_PLAN": 31, "MAIN_PLAN_ID": 30, "SESSION_ID": null, "PARTNER_ID": 4,
			"ORIGINAL_TICKET_PRICE": null, "CHANNEL_IDS_TO_APPLY": null, "MUST_USE_TAX_BASE": true,
			"CURRENCY": null, "IS_COUPON_DISCOUNT": false, "ONLY_REVERT_CUSTOM_LABELS": true
		}`), &r)
		require.NoError(t, err)

		assert.Equal(t, int64(31), r.CampaignPlanID)
		assert.Equal(t, int64(30), r.MainPlanID)
		assert.Nil(t, r.SessionID)
		assert.Nil(t, r.OriginalTicketPrice)
		assert.Nil(t, r.Currency)
		assert.True(t, r.MustUseTaxBase)
		assert.True(t, r.OnlyRevertCustomLabels)
		assert.Equal(t, UnknownShownTicketPrice, r.ShownTicketPrice)
		assert.False(t, r.SessionScoped())
		assert.Empty(t, r.ChannelIDList())
	})

	t.Run("session scoped", func(t *testing.T) {
		var r RevertCampaignData
		err := json.Unmarshal([]byte(`{
			"ID_CAMPAIGN_PLAN": 31, "MAIN_PLAN_ID": 30, "SESSION_ID": 900, "PARTNER_ID": 4,
			"ORIGINAL_TICKET_PRICE": 24.5, "CHANNEL_IDS_TO_APPLY": "web, app,", "MUST_USE_TAX_BASE": false,
			"CURRENCY": "EUR", "IS_COUPON_DISCOUNT": true, "ONLY_REVERT_CUSTOM_LABELS": false,
			"SHOWN_TICKET_PRICE": 2450
		}`), &r)
		require.NoError(t, err)

		require.NotNil(t, r.SessionID)
		assert.Equal(t, int64(900), *r.SessionID)
		require.NotNil(t, r.OriginalTicketPrice)
		assert.Equal(t, 24.5, *r.OriginalTicketPrice)
		assert.Equal(t, "EUR", *r.Currency)
		assert.True(t, r.IsCouponDiscount)
		assert.Equal(t, int64(2450), r.ShownTicketPrice)
		assert.True(t, r.SessionScoped())
		assert.Equal(t, []string{"web", "app"}, r.ChannelIDList())
	})
}
