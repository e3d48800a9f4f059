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

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func TestProductService_SeasonalityAndFilters(t *testing.T) {
	e := newEnv(t)
	svc := service.NewProductService(e.products, e.categories, nil)
	ctx := context.Background()

	mk := func(code string, seasonal bool, start, end *int) {
		_, err := svc.Create(ctx, dto.CreateProductRequest{
			Code:             code,
			Name:             "Produit " + code,
			CategoryID:       e.category.ID.String(),
			BasePrice:        d("2.40"),
			Unit:             model.UnitKG,
			IsSeasonal:       boolPtr(seasonal),
			SeasonStartMonth: start,
			SeasonEndMonth:   end,
		})
		require.NoError(t, err)
	}
	mk("JUS-01", false, nil, nil)
	mk("CHA-01", true, intPtr(11), intPtr(2))
	mk("CER-01", true, intPtr(5), intPtr(7))

	december := time.Date(2026, time.December, 10, 12, 0, 0, 0, time.UTC)
	inSeason, err := svc.InSeason(ctx, december)
	require.NoError(t, err)
	codes := make([]string, 0, len(inSeason))
	for _, p := range inSeason {
		codes = append(codes, p.Code)
	}
	assert.ElementsMatch(t, []string{"JUS-01", "CHA-01"}, codes)

	list, err := svc.List(ctx, dto.ProductFilter{IsSeasonal: "true", Search: "cer", Pagination: dto.Pagination{Page: 1, Limit: 10}})
	require.NoError(t, err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "CER-01", list.Data[0].Code)
	assert.Equal(t, "Fruits", list.Data[0].CategoryName)
	assert.True(t, model.DefaultVATRate.Equal(list.Data[0].VATRate))
}

func TestProductService_RejectsHalfOpenSeason(t *testing.T) {
	e := newEnv(t)
	svc := service.NewProductService(e.products, e.categories, nil)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		Code:             "FRA-01",
		Name:             "Fraises",
		CategoryID:       e.category.ID.String(),
		BasePrice:        d("4.00"),
		Unit:             model.UnitBasket,
		SeasonStartMonth: intPtr(5),
	})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.Create(context.Background(), dto.CreateProductRequest{
		Code:       "FRA-01",
		Name:       "Fraises",
		CategoryID: uuid.NewString(),
		BasePrice:  d("4.00"),
		Unit:       model.UnitBasket,
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestProductService_LookupAndDeactivate(t *testing.T) {
	e := newEnv(t)
	svc := service.NewProductService(e.products, e.categories, nil)
	ctx := context.Background()
	p := e.product(t, "POM-01", "2.80", "5.5")

	got, err := svc.Lookup(ctx, "POM-01")
	require.NoError(t, err)
	assertMoney(t, "2.80", got.BasePrice)

	require.NoError(t, svc.Deactivate(ctx, p.ID))
	_, err = svc.Lookup(ctx, "POM-01")
	assert.ErrorIs(t, err, service.ErrNotFound)

	list, err := svc.List(ctx, dto.ProductFilter{Pagination: dto.Pagination{Page: 1, Limit: 10}})
	require.NoError(t, err)
	assert.Empty(t, list.Data)
}

func TestCategoryService_SoftDelete(t *testing.T) {
	e := newEnv(t)
	svc := service.NewCategoryService(e.categories)
	ctx := context.Background()

	c, err := svc.Create(ctx, dto.CreateCategoryRequest{Name: "Jus", DisplayOrder: 0})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateCategoryRequest{Name: "Jus"})
	assert.ErrorIs(t, err, service.ErrConflict)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Fruits", all[0].Name)

	require.NoError(t, svc.Deactivate(ctx, uuid.MustParse(c.ID)))
	all, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
