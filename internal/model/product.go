package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Units a product can be sold by.
const (
	UnitKG     = "KG"
	UnitUnit   = "UNIT"
	UnitBunch  = "BUNCH"
	UnitBasket = "BASKET"
)

// DefaultVATRate is the reduced French rate applied to fresh produce.
var DefaultVATRate = decimal.RequireFromString("5.50")

// Product is a sellable item. SeasonStartMonth and SeasonEndMonth bound the
// months (1-12) a seasonal product is offered; the window may wrap past December.
type Product struct {
	Base
	Code             string    `gorm:"uniqueIndex;size:50;not null"`
	Name             string    `gorm:"index;size:200;not null"`
	CategoryID       uuid.UUID `gorm:"type:uuid;index;not null"`
	Description      string
	BasePrice        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Unit             string          `gorm:"size:10;not null"`
	VATRate          decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	IsActive         bool            `gorm:"not null"`
	IsSeasonal       bool            `gorm:"not null"`
	SeasonStartMonth *int
	SeasonEndMonth   *int
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Product) TableName() string { return "products" }

// InSeason reports whether the product is offered during month (1-12).
// Non-seasonal products, and seasonal ones missing a bound, are always in season.
func (p *Product) InSeason(month time.Month) bool {
	if !p.IsSeasonal || p.SeasonStartMonth == nil || p.SeasonEndMonth == nil {
		return true
	}
	m := int(month)
	start, end := *p.SeasonStartMonth, *p.SeasonEndMonth
	if start <= end {
		return m >= start && m <= end
	}
	return m >= start || m <= end
}
