package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cardWithPoints(t *testing.T, e *env, amount string) uuid.UUID {
	t.Helper()
	c := e.customerRow(t, uuid.NewString()[:8]+"@example.fr")
	_, err := e.loyalty.Accrue(context.Background(), c.ID, d(amount), time.Now().UTC())
	require.NoError(t, err)
	card, err := e.cards.FindByCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	return card.ID
}

func TestRedeem_ConvertsPointsToDiscount(t *testing.T) {
	e := newEnv(t)
	id := cardWithPoints(t, e, "250")

	resp, err := e.loyalty.Redeem(context.Background(), id, dto.RedeemPointsRequest{Points: 150})
	require.NoError(t, err)
	assertMoney(t, "15.00", resp.DiscountAmount)
	assert.Equal(t, 150, resp.PointsRedeemed)
	assert.Equal(t, 100, resp.Card.PointsBalance)
	assert.Equal(t, 150, resp.Card.TotalPointsSpent)
	assert.Equal(t, 250, resp.Card.TotalPointsEarned)
}

func TestRedeem_InsufficientBalanceLeavesCardUntouched(t *testing.T) {
	e := newEnv(t)
	id := cardWithPoints(t, e, "80")

	_, err := e.loyalty.Redeem(context.Background(), id, dto.RedeemPointsRequest{Points: 81})
	require.ErrorIs(t, err, service.ErrInsufficientBalance)

	card, err := e.loyalty.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 80, card.PointsBalance)
	assert.Equal(t, 0, card.TotalPointsSpent)

	_, err = e.loyalty.Redeem(context.Background(), id, dto.RedeemPointsRequest{Points: 0})
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = e.loyalty.Redeem(context.Background(), uuid.New(), dto.RedeemPointsRequest{Points: 1})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestAccrue_UsesPolicyMultiplier(t *testing.T) {
	e := newEnv(t)
	loyalty := service.NewLoyaltyService(e.cards, e.customers, service.LoyaltyPolicy{
		PointsPerCurrencyUnit: decimal.RequireFromString("1.5"),
		PointsPerDiscountUnit: 50,
	})
	c := e.customerRow(t, "double@example.fr")

	points, err := loyalty.Accrue(context.Background(), c.ID, d("9.99"), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 14, points)

	card, err := e.cards.FindByCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	resp, err := loyalty.Redeem(context.Background(), card.ID, dto.RedeemPointsRequest{Points: 5})
	require.NoError(t, err)
	assertMoney(t, "1.00", resp.DiscountAmount)
}

func TestLoyaltyList(t *testing.T) {
	e := newEnv(t)
	cardWithPoints(t, e, "10")
	cardWithPoints(t, e, "20")

	list, err := e.loyalty.List(context.Background(), dto.Pagination{Page: 1, Limit: 1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, list.Total)
	assert.Len(t, list.Data, 1)
	assert.NotEmpty(t, list.Data[0].CustomerName)
}
