package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCustomer(t *testing.T, e *env, email string) *dto.CustomerResponse {
	t.Helper()
	c, err := e.customer.Create(context.Background(), dto.CreateCustomerRequest{
		FirstName:        "Jeanne",
		LastName:         "Martin",
		Email:            email,
		Phone:            "0601020304",
		City:             "Angers",
		MarketingConsent: true,
	})
	require.NoError(t, err)
	return c
}

func TestCustomerCreate_StampsConsentAndInternalID(t *testing.T) {
	e := newEnv(t)
	c := createCustomer(t, e, "Jeanne@Example.fr ")

	assert.Len(t, c.InternalID, 13)
	assert.Equal(t, "jeanne@example.fr", c.Email)
	assert.True(t, c.IsActive)
	assert.NotNil(t, c.MarketingConsentDate)
	assert.Nil(t, c.NewsletterConsentDate)

	_, err := e.customer.Create(context.Background(), dto.CreateCustomerRequest{
		FirstName: "Autre", LastName: "Personne", Email: "jeanne@example.fr",
	})
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestCustomerAnonymize_IsIdempotent(t *testing.T) {
	e := newEnv(t)
	c := createCustomer(t, e, "jeanne@example.fr")
	id := uuid.MustParse(c.ID)

	first, err := e.customer.Anonymize(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, first.IsAnonymized)
	assert.False(t, first.IsActive)
	assert.Equal(t, "ANONYME", first.FirstName)
	assert.Equal(t, "CLIENT_"+c.InternalID[:8], first.LastName)
	assert.Equal(t, "anonymized_"+c.InternalID+"@deleted.local", first.Email)
	assert.Empty(t, first.Phone)
	assert.Empty(t, first.City)
	assert.Equal(t, model.AnonymizedDisplayName, first.FullName)

	second, err := e.customer.Anonymize(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = e.customer.Update(context.Background(), id, dto.UpdateCustomerRequest{City: strPtr("Tours")})
	assert.ErrorIs(t, err, service.ErrConflict)

	_, err = e.customer.Anonymize(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCustomerList_HidesAnonymizedAndInactive(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	keep := createCustomer(t, e, "garde@example.fr")
	gone := createCustomer(t, e, "parti@example.fr")
	off := createCustomer(t, e, "inactif@example.fr")

	_, err := e.customer.Anonymize(ctx, uuid.MustParse(gone.ID))
	require.NoError(t, err)
	require.NoError(t, e.customer.Deactivate(ctx, uuid.MustParse(off.ID)))

	list, err := e.customer.List(ctx, dto.CustomerFilter{Pagination: dto.Pagination{Page: 1, Limit: 50}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, keep.ID, list.Data[0].ID)

	found, err := e.customer.List(ctx, dto.CustomerFilter{Search: "GARDE", Pagination: dto.Pagination{Page: 1, Limit: 50}})
	require.NoError(t, err)
	assert.Len(t, found.Data, 1)

	none, err := e.customer.List(ctx, dto.CustomerFilter{Search: "inconnu", Pagination: dto.Pagination{Page: 1, Limit: 50}})
	require.NoError(t, err)
	assert.Empty(t, none.Data)
}

func TestCustomerUpdate_ClearsConsentDate(t *testing.T) {
	e := newEnv(t)
	c := createCustomer(t, e, "jeanne@example.fr")
	off := false

	updated, err := e.customer.Update(context.Background(), uuid.MustParse(c.ID), dto.UpdateCustomerRequest{
		MarketingConsent: &off,
		City:             strPtr("Saumur"),
	})
	require.NoError(t, err)
	assert.False(t, updated.MarketingConsent)
	assert.Nil(t, updated.MarketingConsentDate)
	assert.Equal(t, "Saumur", updated.City)
}

func TestCustomerSearchByCard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := createCustomer(t, e, "jeanne@example.fr")
	points, err := e.loyalty.Accrue(ctx, uuid.MustParse(c.ID), d("42.90"), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 42, points)

	found, err := e.customer.SearchByCard(ctx, dto.SearchByCardRequest{CardNumber: "VDC-" + c.InternalID})
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.Customer.ID)
	assert.Equal(t, 42, found.LoyaltyCard.PointsBalance)
	assert.Equal(t, "Jeanne Martin", found.LoyaltyCard.CustomerName)

	_, err = e.customer.SearchByCard(ctx, dto.SearchByCardRequest{CardNumber: "VDC-NOPE"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCustomerMe_IncludesLoyaltySummary(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := createCustomer(t, e, "jeanne@example.fr")
	cid := uuid.MustParse(c.ID)

	u := &model.User{Username: "jeanne", PasswordHash: "x", Role: model.RoleCustomer, IsActive: true, CustomerID: &cid}
	require.NoError(t, e.users.Create(ctx, nil, u))

	me, err := e.customer.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jeanne Martin", me.FullName)
	assert.Equal(t, "Angers", me.City)
	assert.Nil(t, me.LoyaltyCard)

	_, err = e.loyalty.Accrue(ctx, cid, d("12.40"), time.Now().UTC())
	require.NoError(t, err)
	me, err = e.customer.Me(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, me.LoyaltyCard)
	assert.Equal(t, 12, me.LoyaltyCard.PointsBalance)

	staff := &model.User{Username: "caisse", PasswordHash: "x", Role: model.RoleCashier, IsActive: true}
	require.NoError(t, e.users.Create(ctx, nil, staff))
	me, err = e.customer.Me(ctx, staff.ID)
	require.NoError(t, err)
	assert.Nil(t, me.CustomerID)
	assert.Equal(t, model.RoleCashier, me.Role)
}
