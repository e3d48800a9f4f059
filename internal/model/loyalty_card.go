package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loyalty conversion defaults: one point per euro spent, ten euros off per hundred points.
const (
	DefaultPointsPerCurrencyUnit = 1
	DefaultPointsPerDiscountUnit = 100
	DiscountUnitValue            = 10
)

// ErrInsufficientPoints is returned when a redemption exceeds the card balance.
var ErrInsufficientPoints = errors.New("solde insuffisant")

// LoyaltyCard belongs to exactly one customer.
// PointsBalance always equals TotalPointsEarned - TotalPointsSpent.
type LoyaltyCard struct {
	Base
	CustomerID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CardNumber        string    `gorm:"uniqueIndex;size:20;not null"`
	PointsBalance     int       `gorm:"not null"`
	TotalPointsEarned int       `gorm:"not null"`
	TotalPointsSpent  int       `gorm:"not null"`
	IsActive          bool      `gorm:"not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Customer *Customer `gorm:"foreignKey:CustomerID"`
}

func (LoyaltyCard) TableName() string { return "loyalty_cards" }

// CardNumberFor derives the card number printed for a customer.
func CardNumberFor(c *Customer) string {
	return "VDC-" + c.InternalID
}

// PointsFor converts an amount spent into points, rounding down.
func PointsFor(amount, perCurrencyUnit decimal.Decimal) int {
	p := amount.Mul(perCurrencyUnit).Floor()
	if p.IsNegative() {
		return 0
	}
	return int(p.IntPart())
}

// AddPoints credits points to the balance and the lifetime total.
func (l *LoyaltyCard) AddPoints(points int) {
	if points <= 0 {
		return
	}
	l.PointsBalance += points
	l.TotalPointsEarned += points
}

// RedeemPoints debits points and returns the discount they are worth.
// The card is left untouched when the balance is too low.
func (l *LoyaltyCard) RedeemPoints(points, perDiscountUnit int) (decimal.Decimal, error) {
	if points > l.PointsBalance {
		return decimal.Zero, ErrInsufficientPoints
	}
	l.PointsBalance -= points
	l.TotalPointsSpent += points
	return DiscountFor(points, perDiscountUnit), nil
}

// DiscountFor returns (points / perDiscountUnit) * 10, rounded to cents.
func DiscountFor(points, perDiscountUnit int) decimal.Decimal {
	if perDiscountUnit <= 0 {
		perDiscountUnit = DefaultPointsPerDiscountUnit
	}
	return RoundMoney(decimal.NewFromInt(int64(points)).
		Div(decimal.NewFromInt(int64(perDiscountUnit))).
		Mul(decimal.NewFromInt(DiscountUnitValue)))
}
