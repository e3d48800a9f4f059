package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement types recorded in the stock ledger.
const (
	MovementIn         = "IN"
	MovementOut        = "OUT"
	MovementAdjustment = "ADJUSTMENT"
)

// DefaultLowStockThreshold applies to stock rows created without an explicit threshold.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// StockLocation is a physical place holding stock: the farm kiosk, a market stall, the cold room.
type StockLocation struct {
	Base
	Code      string `gorm:"uniqueIndex;size:20;not null"`
	Name      string `gorm:"size:100;not null"`
	Address   string
	IsActive  bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (StockLocation) TableName() string { return "stock_locations" }

// Stock is the on-hand quantity of one product at one location.
// Quantity is the source of truth; it only changes through StockMovement creation.
type Stock struct {
	Base
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location"`
	LocationID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_product_location"`
	Quantity          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ReservedQuantity  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LastUpdated       time.Time       `gorm:"autoUpdateTime"`

	Product  *Product       `gorm:"foreignKey:ProductID"`
	Location *StockLocation `gorm:"foreignKey:LocationID"`
}

func (Stock) TableName() string { return "stocks" }

// Available is quantity minus reservations, floored at zero.
func (s *Stock) Available() decimal.Decimal {
	a := s.Quantity.Sub(s.ReservedQuantity)
	if a.IsNegative() {
		return decimal.Zero
	}
	return a
}

func (s *Stock) IsLowStock() bool {
	return s.Available().LessThanOrEqual(s.LowStockThreshold)
}

// StockMovement is an append-only ledger entry. Rows are never updated or deleted.
type StockMovement struct {
	Base
	StockID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	MovementType string          `gorm:"size:20;not null"`
	Quantity     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Reference    string          `gorm:"size:100;index"`
	Note         string
	CreatedAt    time.Time `gorm:"index"`

	Stock *Stock `gorm:"foreignKey:StockID"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// Delta is the signed change the movement applies to Stock.Quantity.
// ADJUSTMENT entries are audit notes and leave the quantity as is.
func (m *StockMovement) Delta() decimal.Decimal {
	switch m.MovementType {
	case MovementIn:
		return m.Quantity.Abs()
	case MovementOut:
		return m.Quantity.Abs().Neg()
	default:
		return decimal.Zero
	}
}
