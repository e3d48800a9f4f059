package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"
	"github.com/wasssssim/verger-du-coin/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every query of a test on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), infra.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.AutoMigrate(db))
	return db
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// env wires every repository and service on one test database.
type env struct {
	db *gorm.DB

	categories repository.CategoryRepository
	products   repository.ProductRepository
	locations  repository.LocationRepository
	stocks     repository.StockRepository
	movements  repository.MovementRepository
	customers  repository.CustomerRepository
	cards      repository.LoyaltyCardRepository
	sales      repository.SaleRepository
	reports    repository.DailyReportRepository
	users      repository.UserRepository

	inventory service.InventoryService
	loyalty   service.LoyaltyService
	customer  service.CustomerService
	sale      service.SaleService
	report    service.ReportService

	location *model.StockLocation
	category *model.Category
}

type envOption func(*service.SaleDeps)

func withLoyalty(l service.LoyaltyService) envOption {
	return func(d *service.SaleDeps) { d.Loyalty = l }
}

func withReceipts(q service.ReceiptQueue) envOption {
	return func(d *service.SaleDeps) { d.Receipts = q }
}

// withSales wraps the sale repository the engine sees.
func withSales(wrap func(repository.SaleRepository) repository.SaleRepository) envOption {
	return func(d *service.SaleDeps) { d.Sales = wrap(d.Sales) }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()
	db := newTestDB(t)
	e := &env{
		db:         db,
		categories: repository.NewCategoryRepository(db),
		products:   repository.NewProductRepository(db),
		locations:  repository.NewLocationRepository(db),
		stocks:     repository.NewStockRepository(db),
		movements:  repository.NewMovementRepository(db),
		customers:  repository.NewCustomerRepository(db),
		cards:      repository.NewLoyaltyCardRepository(db),
		sales:      repository.NewSaleRepository(db),
		reports:    repository.NewDailyReportRepository(db),
		users:      repository.NewUserRepository(db),
	}
	e.inventory = service.NewInventoryService(e.locations, e.stocks, e.movements, e.products)
	e.loyalty = service.NewLoyaltyService(e.cards, e.customers, service.DefaultLoyaltyPolicy())
	e.customer = service.NewCustomerService(e.customers, e.cards, e.users)
	e.report = service.NewReportService(e.reports, e.sales, e.locations)

	deps := service.SaleDeps{
		Sales:     e.sales,
		Products:  e.products,
		Locations: e.locations,
		Customers: e.customers,
		Stocks:    e.stocks,
		Inventory: e.inventory,
		Loyalty:   e.loyalty,
	}
	for _, o := range opts {
		o(&deps)
	}
	e.sale = service.NewSaleService(deps)

	ctx := context.Background()
	e.location = &model.StockLocation{Code: "KIOSK1", Name: "Kiosque de la ferme", IsActive: true}
	require.NoError(t, e.locations.Create(ctx, nil, e.location))
	e.category = &model.Category{Name: "Fruits", IsActive: true}
	require.NoError(t, e.categories.Create(ctx, nil, e.category))
	return e
}

func (e *env) product(t *testing.T, code, price, vat string) *model.Product {
	t.Helper()
	p := &model.Product{
		Code:       code,
		Name:       "Produit " + code,
		CategoryID: e.category.ID,
		BasePrice:  d(price),
		Unit:       model.UnitKG,
		VATRate:    d(vat),
		IsActive:   true,
	}
	require.NoError(t, e.products.Create(context.Background(), nil, p))
	return p
}

func (e *env) stock(t *testing.T, p *model.Product, qty string) *model.Stock {
	t.Helper()
	s := &model.Stock{
		ProductID:         p.ID,
		LocationID:        e.location.ID,
		Quantity:          d(qty),
		LowStockThreshold: model.DefaultLowStockThreshold,
	}
	require.NoError(t, e.stocks.Create(context.Background(), nil, s))
	return s
}

func (e *env) customerRow(t *testing.T, email string) *model.Customer {
	t.Helper()
	c := &model.Customer{FirstName: "Jeanne", LastName: "Martin", Email: email, IsActive: true}
	require.NoError(t, e.customers.Create(context.Background(), nil, c))
	return c
}

func (e *env) quantity(t *testing.T, stockID uuid.UUID) decimal.Decimal {
	t.Helper()
	s, err := e.stocks.FindByID(context.Background(), stockID)
	require.NoError(t, err)
	return s.Quantity
}

func (e *env) count(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	v := d(s)
	return &v
}
