package service_test

import (
	"context"
	"testing"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) movement(p *model.Product, typ, qty string) dto.CreateMovementRequest {
	return dto.CreateMovementRequest{
		ProductID:    p.ID.String(),
		LocationID:   e.location.ID.String(),
		MovementType: typ,
		Quantity:     d(qty),
	}
}

func TestRecordMovement_AppliesSignedDelta(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "POM-01", "3.00", "5.5")
	ctx := context.Background()

	in, err := e.inventory.RecordMovement(ctx, e.movement(p, model.MovementIn, "20"))
	require.NoError(t, err)
	stockID := uuid.MustParse(in.StockID)
	assert.True(t, d("20").Equal(e.quantity(t, stockID)))

	_, err = e.inventory.RecordMovement(ctx, e.movement(p, model.MovementOut, "3.5"))
	require.NoError(t, err)
	assert.True(t, d("16.5").Equal(e.quantity(t, stockID)))

	_, err = e.inventory.RecordMovement(ctx, e.movement(p, model.MovementAdjustment, "4"))
	require.NoError(t, err)
	assert.True(t, d("16.5").Equal(e.quantity(t, stockID)), "adjustments do not move the quantity")

	assert.EqualValues(t, 1, e.count(t, &model.Stock{}))
	assert.EqualValues(t, 3, e.count(t, &model.StockMovement{}))
}

func TestRecordMovement_CreatesStockWithThreshold(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "POM-01", "3.00", "5.5")

	req := e.movement(p, model.MovementIn, "2")
	req.LowStockThreshold = decPtr("3")
	m, err := e.inventory.RecordMovement(context.Background(), req)
	require.NoError(t, err)

	st, err := e.inventory.GetStock(context.Background(), uuid.MustParse(m.StockID))
	require.NoError(t, err)
	assert.True(t, d("3").Equal(st.LowStockThreshold))
	assert.True(t, st.IsLowStock)
	assert.Equal(t, p.Name, st.ProductName)

	low, err := e.inventory.LowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, low, 1)
}

func TestRecordMovement_RejectsBadInput(t *testing.T) {
	e := newEnv(t)
	p := e.product(t, "POM-01", "3.00", "5.5")
	ctx := context.Background()

	_, err := e.inventory.RecordMovement(ctx, e.movement(p, "LOSS", "1"))
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = e.inventory.RecordMovement(ctx, e.movement(p, model.MovementIn, "0"))
	assert.ErrorIs(t, err, service.ErrValidation)

	unknown := e.movement(p, model.MovementIn, "1")
	unknown.ProductID = uuid.NewString()
	_, err = e.inventory.RecordMovement(ctx, unknown)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.EqualValues(t, 0, e.count(t, &model.StockMovement{}))
}

func TestListMovements_Filters(t *testing.T) {
	e := newEnv(t)
	apples := e.product(t, "POM-01", "3.00", "5.5")
	pears := e.product(t, "POI-01", "3.20", "5.5")
	ctx := context.Background()

	for _, req := range []dto.CreateMovementRequest{
		e.movement(apples, model.MovementIn, "10"),
		e.movement(apples, model.MovementOut, "1"),
		e.movement(pears, model.MovementIn, "5"),
	} {
		_, err := e.inventory.RecordMovement(ctx, req)
		require.NoError(t, err)
	}

	page := dto.Pagination{Page: 1, Limit: 50}
	byProduct, err := e.inventory.ListMovements(ctx, dto.MovementFilter{ProductID: apples.ID.String(), Pagination: page})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byProduct.Total)

	byType, err := e.inventory.ListMovements(ctx, dto.MovementFilter{MovementType: model.MovementIn, Pagination: page})
	require.NoError(t, err)
	assert.EqualValues(t, 2, byType.Total)

	both, err := e.inventory.ListMovements(ctx, dto.MovementFilter{
		ProductID:    pears.ID.String(),
		LocationID:   e.location.ID.String(),
		MovementType: model.MovementIn,
		Pagination:   page,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, both.Total)

	stocks, err := e.inventory.ListStocks(ctx, dto.StockFilter{ProductID: pears.ID.String(), Pagination: page})
	require.NoError(t, err)
	require.Len(t, stocks.Data, 1)
	assert.True(t, d("5").Equal(stocks.Data[0].Quantity))
}

func TestLocations_CRUD(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	loc, err := e.inventory.CreateLocation(ctx, dto.CreateLocationRequest{Code: "MARCHE", Name: "Marché du samedi"})
	require.NoError(t, err)
	assert.True(t, loc.IsActive)

	_, err = e.inventory.CreateLocation(ctx, dto.CreateLocationRequest{Code: "MARCHE", Name: "Doublon"})
	assert.ErrorIs(t, err, service.ErrConflict)

	id := uuid.MustParse(loc.ID)
	updated, err := e.inventory.UpdateLocation(ctx, id, dto.UpdateLocationRequest{Address: strPtr("Place du Ralliement")})
	require.NoError(t, err)
	assert.Equal(t, "Place du Ralliement", updated.Address)

	require.NoError(t, e.inventory.DeactivateLocation(ctx, id))
	all, err := e.inventory.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "KIOSK1", all[0].Code)
}
