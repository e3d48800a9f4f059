package dto

import "github.com/shopspring/decimal"

// DateLayout is the wire format of report dates.
const DateLayout = "2006-01-02"

type CreateReportRequest struct {
	Date            string          `json:"date"              validate:"required,datetime=2006-01-02"`
	LocationID      string          `json:"location_id"       validate:"required,uuid"`
	TotalSalesCount int             `json:"total_sales_count" validate:"min=0"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	TotalCard       decimal.Decimal `json:"total_card"`
	ExpectedCash    decimal.Decimal `json:"expected_cash"`
	ActualCash      decimal.Decimal `json:"actual_cash"`
	IsValidated     bool            `json:"is_validated"`
	Notes           string          `json:"notes"`
}

type UpdateReportRequest struct {
	TotalSalesCount *int             `json:"total_sales_count" validate:"omitempty,min=0"`
	TotalRevenue    *decimal.Decimal `json:"total_revenue"`
	TotalCash       *decimal.Decimal `json:"total_cash"`
	TotalCard       *decimal.Decimal `json:"total_card"`
	ExpectedCash    *decimal.Decimal `json:"expected_cash"`
	ActualCash      *decimal.Decimal `json:"actual_cash"`
	IsValidated     *bool            `json:"is_validated"`
	Notes           *string          `json:"notes"`
}

// GenerateReportRequest asks for the day's totals to be computed from completed sales.
type GenerateReportRequest struct {
	Date       string `json:"date"        validate:"required,datetime=2006-01-02"`
	LocationID string `json:"location_id" validate:"required,uuid"`
}

type ReportFilter struct {
	LocationID  string `form:"location"     validate:"omitempty,uuid"`
	IsValidated string `form:"is_validated" validate:"omitempty,oneof=true false"`
	Pagination
}

type DailyReportResponse struct {
	ID              string          `json:"id"`
	Date            string          `json:"date"`
	LocationID      string          `json:"location_id"`
	LocationName    string          `json:"location_name,omitempty"`
	TotalSalesCount int             `json:"total_sales_count"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCash       decimal.Decimal `json:"total_cash"`
	TotalCard       decimal.Decimal `json:"total_card"`
	ExpectedCash    decimal.Decimal `json:"expected_cash"`
	ActualCash      decimal.Decimal `json:"actual_cash"`
	CashDifference  decimal.Decimal `json:"cash_difference"`
	IsValidated     bool            `json:"is_validated"`
	Notes           string          `json:"notes"`
	CreatedAt       string          `json:"created_at"`
}

type DailyReportListResponse = ListResponse[DailyReportResponse]
