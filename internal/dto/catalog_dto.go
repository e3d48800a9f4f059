package dto

import "github.com/shopspring/decimal"

// ─── Categories ─────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name         string `json:"name"          validate:"required,max=100"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	IsActive     *bool  `json:"is_active"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name"          validate:"omitempty,max=100"`
	Description  *string `json:"description"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	IsActive     *bool   `json:"is_active"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`
	IsActive     bool   `json:"is_active"`
}

// ─── Products ───────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Code             string           `json:"code"               validate:"required,max=50"`
	Name             string           `json:"name"               validate:"required,max=200"`
	CategoryID       string           `json:"category_id"        validate:"required,uuid"`
	Description      string           `json:"description"`
	BasePrice        decimal.Decimal  `json:"base_price"         validate:"gt=0"`
	Unit             string           `json:"unit"               validate:"required,oneof=KG UNIT BUNCH BASKET"`
	VATRate          *decimal.Decimal `json:"vat_rate"           validate:"omitempty,min=0,max=100"`
	IsSeasonal       *bool            `json:"is_seasonal"`
	SeasonStartMonth *int             `json:"season_start_month" validate:"omitempty,min=1,max=12"`
	SeasonEndMonth   *int             `json:"season_end_month"   validate:"omitempty,min=1,max=12"`
	IsActive         *bool            `json:"is_active"`
}

type UpdateProductRequest struct {
	Name             *string          `json:"name"               validate:"omitempty,max=200"`
	CategoryID       *string          `json:"category_id"        validate:"omitempty,uuid"`
	Description      *string          `json:"description"`
	BasePrice        *decimal.Decimal `json:"base_price"         validate:"omitempty,gt=0"`
	Unit             *string          `json:"unit"               validate:"omitempty,oneof=KG UNIT BUNCH BASKET"`
	VATRate          *decimal.Decimal `json:"vat_rate"           validate:"omitempty,min=0,max=100"`
	IsSeasonal       *bool            `json:"is_seasonal"`
	SeasonStartMonth *int             `json:"season_start_month" validate:"omitempty,min=1,max=12"`
	SeasonEndMonth   *int             `json:"season_end_month"   validate:"omitempty,min=1,max=12"`
	IsActive         *bool            `json:"is_active"`
}

// ProductFilter is bound from the query string of GET /api/products.
type ProductFilter struct {
	CategoryID string `form:"category"    validate:"omitempty,uuid"`
	IsSeasonal string `form:"is_seasonal" validate:"omitempty,oneof=true false"`
	Search     string `form:"search"`
	Pagination
}

type ProductResponse struct {
	ID               string          `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	CategoryID       string          `json:"category_id"`
	CategoryName     string          `json:"category_name,omitempty"`
	Description      string          `json:"description"`
	BasePrice        decimal.Decimal `json:"base_price"`
	Unit             string          `json:"unit"`
	VATRate          decimal.Decimal `json:"vat_rate"`
	IsActive         bool            `json:"is_active"`
	IsSeasonal       bool            `json:"is_seasonal"`
	SeasonStartMonth *int            `json:"season_start_month"`
	SeasonEndMonth   *int            `json:"season_end_month"`
	InSeason         bool            `json:"in_season"`
	CreatedAt        string          `json:"created_at"`
}

type ProductListResponse = ListResponse[ProductResponse]

// PriceLookupResponse is the public, cached answer to a price check by product code.
type PriceLookupResponse struct {
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	VATRate   decimal.Decimal `json:"vat_rate"`
	Unit      string          `json:"unit"`
	InSeason  bool            `json:"in_season"`
}
