package dto

import "github.com/shopspring/decimal"

// ─── Locations ──────────────────────────────────────────────────────────────

type CreateLocationRequest struct {
	Code     string `json:"code"     validate:"required,max=20"`
	Name     string `json:"name"     validate:"required,max=100"`
	Address  string `json:"address"`
	IsActive *bool  `json:"is_active"`
}

type UpdateLocationRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=100"`
	Address  *string `json:"address"`
	IsActive *bool   `json:"is_active"`
}

type LocationResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	IsActive bool   `json:"is_active"`
}

// ─── Stocks ─────────────────────────────────────────────────────────────────

// StockFilter is bound from the query string of GET /api/inventory/stocks.
type StockFilter struct {
	ProductID  string `form:"product"  validate:"omitempty,uuid"`
	LocationID string `form:"location" validate:"omitempty,uuid"`
	Pagination
}

type StockResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name,omitempty"`
	LocationID        string          `json:"location_id"`
	LocationName      string          `json:"location_name,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	ReservedQuantity  decimal.Decimal `json:"reserved_quantity"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	IsLowStock        bool            `json:"is_low_stock"`
	LastUpdated       string          `json:"last_updated"`
}

type StockListResponse = ListResponse[StockResponse]

// ─── Movements ──────────────────────────────────────────────────────────────

// CreateMovementRequest records a ledger entry. The stock row for
// (product, location) is created on first use.
type CreateMovementRequest struct {
	ProductID         string           `json:"product_id"          validate:"required,uuid"`
	LocationID        string           `json:"location_id"         validate:"required,uuid"`
	MovementType      string           `json:"movement_type"       validate:"required,oneof=IN OUT ADJUSTMENT"`
	Quantity          decimal.Decimal  `json:"quantity"            validate:"gt=0"`
	Reference         string           `json:"reference"           validate:"max=100"`
	Note              string           `json:"note"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold" validate:"omitempty,min=0"`
}

type MovementFilter struct {
	StockID      string `form:"stock"    validate:"omitempty,uuid"`
	ProductID    string `form:"product"  validate:"omitempty,uuid"`
	LocationID   string `form:"location" validate:"omitempty,uuid"`
	MovementType string `form:"type"     validate:"omitempty,oneof=IN OUT ADJUSTMENT"`
	Pagination
}

type MovementResponse struct {
	ID           string          `json:"id"`
	StockID      string          `json:"stock_id"`
	MovementType string          `json:"movement_type"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reference    string          `json:"reference"`
	Note         string          `json:"note"`
	CreatedAt    string          `json:"created_at"`
}

type MovementListResponse = ListResponse[MovementResponse]
