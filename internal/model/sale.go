package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sales channels.
const (
	ChannelKiosk        = "KIOSK"
	ChannelMarket       = "MARKET"
	ChannelWeb          = "WEB"
	ChannelSubscription = "SUBSCRIPTION"
)

// Channels lists every channel, in display order.
var Channels = []string{ChannelKiosk, ChannelMarket, ChannelWeb, ChannelSubscription}

// Sale statuses.
const (
	SaleStatusPending   = "PENDING"
	SaleStatusConfirmed = "CONFIRMED"
	SaleStatusCompleted = "COMPLETED"
	SaleStatusCancelled = "CANCELLED"
)

// Payment methods.
const (
	PaymentCash   = "CASH"
	PaymentCard   = "CARD"
	PaymentCheck  = "CHECK"
	PaymentOnline = "ONLINE"
)

// Sale is the header of a ticket. It owns its lines.
type Sale struct {
	Base
	SaleNumber        string          `gorm:"uniqueIndex;size:32;not null"`
	Channel           string          `gorm:"size:20;index;not null"`
	LocationID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CustomerID        *uuid.UUID      `gorm:"type:uuid;index"`
	Subtotal          decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VATAmount         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	DiscountAmount    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total             decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	LoyaltyPointsUsed int             `gorm:"not null"`
	PaymentMethod     string          `gorm:"size:20;not null"`
	IsPaid            bool            `gorm:"not null"`
	Status            string          `gorm:"size:20;index;not null"`
	CustomerNote      string
	Synced            bool    `gorm:"not null"`
	OfflineID         *string `gorm:"uniqueIndex;size:64"`
	OfflineCreatedAt  *time.Time
	CreatedAt         time.Time `gorm:"index"`
	UpdatedAt         time.Time

	Location *StockLocation `gorm:"foreignKey:LocationID"`
	Customer *Customer      `gorm:"foreignKey:CustomerID"`
	Lines    []SaleLine     `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
}

func (Sale) TableName() string { return "sales" }

// SaleLine snapshots price, VAT and discount at sale time. Later product edits never reach it.
type SaleLine struct {
	Base
	SaleID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Position        int             `gorm:"not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	VATRate         decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"`

	Product *Product `gorm:"foreignKey:ProductID"`
}

func (SaleLine) TableName() string { return "sale_lines" }

func (l *SaleLine) LineTotal() decimal.Decimal {
	return LineTotal(l.Quantity, l.UnitPrice, l.DiscountPercent)
}

func (l *SaleLine) LineVAT() decimal.Decimal {
	return LineVAT(l.LineTotal(), l.VATRate)
}

// ChannelPrefix returns the letter opening a sale number.
func ChannelPrefix(channel string) string {
	switch channel {
	case ChannelKiosk:
		return "K"
	case ChannelMarket:
		return "M"
	case ChannelWeb:
		return "W"
	case ChannelSubscription:
		return "S"
	default:
		return "X"
	}
}

// NewSaleNumber builds e.g. K20261016143005-3FA2: channel prefix, the second
// the sale was rung up, and four random hex digits against same-second collisions.
func NewSaleNumber(channel string, at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return ChannelPrefix(channel) + at.Format("20060102150405") + "-" + suffix
}
