package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SaleLineRequest prices from the product unless UnitPrice or VATRate override it.
type SaleLineRequest struct {
	ProductID       string           `json:"product_id"       validate:"required,uuid"`
	Quantity        decimal.Decimal  `json:"quantity"         validate:"min=0.01,max=99999999.99"`
	UnitPrice       *decimal.Decimal `json:"unit_price"       validate:"omitempty,min=0,max=999999.99"`
	VATRate         *decimal.Decimal `json:"vat_rate"         validate:"omitempty,min=0,max=100"`
	DiscountPercent *decimal.Decimal `json:"discount_percent" validate:"omitempty,min=0,max=100"`
}

// CheckScale rejects quantities and unit prices carrying more than the two
// decimals the sale_lines columns store.
func CheckScale(lines []SaleLineRequest) error {
	fields := map[string]string{}
	for i, l := range lines {
		if !l.Quantity.Equal(l.Quantity.Round(2)) {
			fields[fmt.Sprintf("lines[%d].quantity", i)] = "decimals=2"
		}
		if l.UnitPrice != nil && !l.UnitPrice.Equal(l.UnitPrice.Round(2)) {
			fields[fmt.Sprintf("lines[%d].unit_price", i)] = "decimals=2"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

type CreateSaleRequest struct {
	Channel       string            `json:"channel"        validate:"required,oneof=KIOSK MARKET WEB SUBSCRIPTION"`
	LocationID    string            `json:"location_id"    validate:"required,uuid"`
	CustomerID    *string           `json:"customer_id"    validate:"omitempty,uuid"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=CASH CARD CHECK ONLINE"`
	Lines         []SaleLineRequest `json:"lines"          validate:"required,min=1,dive"`
	CustomerNote  string            `json:"customer_note"  validate:"max=1000"`
	// OfflineCreatedAt is the till clock when the sale was rung up without connectivity
	OfflineCreatedAt *time.Time `json:"offline_created_at"`
	// OfflineID is a client idempotency token; a second submission returns the first sale
	OfflineID *string `json:"offline_id" validate:"omitempty,max=64"`
}

// SyncSalesRequest carries raw payloads so each one is validated on its own
// and a bad entry cannot reject the whole batch.
type SyncSalesRequest struct {
	Sales []json.RawMessage `json:"sales"`
}

// UpdateSaleRequest covers the only mutable parts of a sale; lines and totals are frozen.
type UpdateSaleRequest struct {
	Status        *string `json:"status"         validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	IsPaid        *bool   `json:"is_paid"`
	PaymentMethod *string `json:"payment_method" validate:"omitempty,oneof=CASH CARD CHECK ONLINE"`
	CustomerNote  *string `json:"customer_note"  validate:"omitempty,max=1000"`
}

// SaleFilter is bound from the query string of GET /api/sales.
type SaleFilter struct {
	Channel    string `form:"channel"  validate:"omitempty,oneof=KIOSK MARKET WEB SUBSCRIPTION"`
	LocationID string `form:"location" validate:"omitempty,uuid"`
	CustomerID string `form:"customer" validate:"omitempty,uuid"`
	Status     string `form:"status"   validate:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	Pagination
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SaleLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VATRate         decimal.Decimal `json:"vat_rate"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	LineVAT         decimal.Decimal `json:"line_vat"`
}

type SaleResponse struct {
	ID                  string             `json:"id"`
	SaleNumber          string             `json:"sale_number"`
	Channel             string             `json:"channel"`
	LocationID          string             `json:"location_id"`
	CustomerID          *string            `json:"customer_id"`
	CustomerName        string             `json:"customer_name"`
	Subtotal            decimal.Decimal    `json:"subtotal"`
	VATAmount           decimal.Decimal    `json:"vat_amount"`
	DiscountAmount      decimal.Decimal    `json:"discount_amount"`
	Total               decimal.Decimal    `json:"total"`
	LoyaltyPointsUsed   int                `json:"loyalty_points_used"`
	LoyaltyPointsEarned int                `json:"loyalty_points_earned,omitempty"`
	PaymentMethod       string             `json:"payment_method"`
	IsPaid              bool               `json:"is_paid"`
	Status              string             `json:"status"`
	CustomerNote        string             `json:"customer_note"`
	Synced              bool               `json:"synced"`
	OfflineID           *string            `json:"offline_id,omitempty"`
	OfflineCreatedAt    *string            `json:"offline_created_at"`
	CreatedAt           string             `json:"created_at"`
	Lines               []SaleLineResponse `json:"lines"`
}

type SaleListResponse = ListResponse[SaleResponse]

type SyncSalesResponse struct {
	SyncedCount  int            `json:"synced_count"`
	SkippedCount int            `json:"skipped_count"`
	Sales        []SaleResponse `json:"sales"`
}

type SaleStatisticsResponse struct {
	TotalSales   int64            `json:"total_sales"`
	TotalRevenue decimal.Decimal  `json:"total_revenue"`
	ByChannel    map[string]int64 `json:"by_channel"`
}
