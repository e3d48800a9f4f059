package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DailyReport is the end-of-day cash reconciliation for a location.
type DailyReport struct {
	Base
	Date            time.Time       `gorm:"type:date;uniqueIndex;not null"`
	LocationID      uuid.UUID       `gorm:"type:uuid;index;not null"`
	TotalSalesCount int             `gorm:"not null"`
	TotalRevenue    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalCash       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalCard       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpectedCash    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ActualCash      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	IsValidated     bool            `gorm:"not null"`
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Location *StockLocation `gorm:"foreignKey:LocationID"`
}

func (DailyReport) TableName() string { return "daily_reports" }

// CashDifference is positive when the drawer holds more than expected.
func (r *DailyReport) CashDifference() decimal.Decimal {
	return r.ActualCash.Sub(r.ExpectedCash)
}
