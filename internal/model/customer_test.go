package model_test

import (
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInternalID_Format(t *testing.T) {
	id := model.NewInternalID()
	assert.Regexp(t, `^[0-9A-F]{8}-[0-9A-F]{4}$`, id)
	assert.NotEqual(t, id, model.NewInternalID())
}

func TestCustomer_Anonymize(t *testing.T) {
	c := model.Customer{
		InternalID:   "1A2B3C4D-5E6F",
		FirstName:    "Jeanne",
		LastName:     "Martin",
		Email:        "jeanne@example.fr",
		Phone:        "0601020304",
		AddressLine1: "3 chemin des Pommiers",
		PostalCode:   "49000",
		City:         "Angers",
		IsActive:     true,
	}
	assert.Equal(t, "Jeanne Martin", c.FullName())

	c.Anonymize()

	assert.Equal(t, "ANONYME", c.FirstName)
	assert.Equal(t, "CLIENT_1A2B3C4D", c.LastName)
	assert.Equal(t, "anonymized_1A2B3C4D-5E6F@deleted.local", c.Email)
	assert.Empty(t, c.Phone)
	assert.Empty(t, c.AddressLine1)
	assert.Empty(t, c.PostalCode)
	assert.Empty(t, c.City)
	assert.True(t, c.IsAnonymized)
	assert.False(t, c.IsActive)
	assert.Equal(t, model.AnonymizedDisplayName, c.FullName())

	// the placeholder wins even if someone writes a name back
	c.FirstName = "Jeanne"
	assert.Equal(t, model.AnonymizedDisplayName, c.FullName())
}

func TestCustomer_ConsentDates(t *testing.T) {
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var c model.Customer

	c.SetMarketingConsent(true, now)
	require.NotNil(t, c.MarketingConsentDate)
	assert.Equal(t, now, *c.MarketingConsentDate)

	// already consenting: date is kept
	c.SetMarketingConsent(true, now.Add(time.Hour))
	assert.Equal(t, now, *c.MarketingConsentDate)

	c.SetMarketingConsent(false, now)
	assert.Nil(t, c.MarketingConsentDate)

	c.SetNewsletterConsent(true, now)
	assert.True(t, c.NewsletterConsent)
	assert.NotNil(t, c.NewsletterConsentDate)
}

func TestLoyaltyCard_AddAndRedeem(t *testing.T) {
	card := model.LoyaltyCard{}
	points := model.PointsFor(d("15.83"), decimal.NewFromInt(model.DefaultPointsPerCurrencyUnit))
	assert.Equal(t, 15, points)

	card.AddPoints(points)
	card.AddPoints(200)
	assert.Equal(t, 215, card.PointsBalance)
	assert.Equal(t, 215, card.TotalPointsEarned)

	discount, err := card.RedeemPoints(150, model.DefaultPointsPerDiscountUnit)
	require.NoError(t, err)
	assert.Equal(t, "15.00", discount.StringFixed(2))
	assert.Equal(t, 65, card.PointsBalance)
	assert.Equal(t, 150, card.TotalPointsSpent)
	assert.Equal(t, card.TotalPointsEarned-card.TotalPointsSpent, card.PointsBalance)
}

func TestLoyaltyCard_RedeemInsufficient(t *testing.T) {
	card := model.LoyaltyCard{PointsBalance: 40, TotalPointsEarned: 40}
	_, err := card.RedeemPoints(41, model.DefaultPointsPerDiscountUnit)
	assert.ErrorIs(t, err, model.ErrInsufficientPoints)
	assert.Equal(t, 40, card.PointsBalance)
	assert.Zero(t, card.TotalPointsSpent)
}

func TestPointsFor_Floors(t *testing.T) {
	assert.Equal(t, 9, model.PointsFor(d("9.99"), d("1")))
	assert.Equal(t, 19, model.PointsFor(d("9.99"), d("2")))
	assert.Equal(t, 0, model.PointsFor(d("0.50"), d("1")))
}

func TestCardNumberFor(t *testing.T) {
	c := model.Customer{InternalID: "ABCDEF12-3456"}
	assert.Equal(t, "VDC-ABCDEF12-3456", model.CardNumberFor(&c))
}

func TestDailyReport_CashDifference(t *testing.T) {
	r := model.DailyReport{ExpectedCash: d("120.50"), ActualCash: d("118.00")}
	assert.Equal(t, "-2.50", r.CashDifference().StringFixed(2))
}
