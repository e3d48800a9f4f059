package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymizedDisplayName replaces the full name of an anonymized customer everywhere it is shown.
const AnonymizedDisplayName = "Client anonymisé"

// Customer is a shop client. InternalID is an opaque identifier generated on
// insert and used to derive the loyalty card number.
type Customer struct {
	Base
	InternalID            string `gorm:"uniqueIndex;size:20;not null"`
	FirstName             string `gorm:"size:100;not null"`
	LastName              string `gorm:"size:100;not null"`
	Email                 string `gorm:"uniqueIndex;size:254;not null"`
	Phone                 string `gorm:"size:20"`
	AddressLine1          string `gorm:"size:255"`
	PostalCode            string `gorm:"size:10"`
	City                  string `gorm:"size:100"`
	IsActive              bool   `gorm:"not null"`
	IsAnonymized          bool   `gorm:"not null"`
	MarketingConsent      bool   `gorm:"not null"`
	MarketingConsentDate  *time.Time
	NewsletterConsent     bool `gorm:"not null"`
	NewsletterConsentDate *time.Time
	LastPurchaseDate      *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	LoyaltyCard *LoyaltyCard `gorm:"foreignKey:CustomerID"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.InternalID == "" {
		c.InternalID = NewInternalID()
	}
	return c.Base.BeforeCreate(tx)
}

// NewInternalID returns the first 13 characters of an upper-cased UUIDv4.
func NewInternalID() string {
	return strings.ToUpper(uuid.NewString())[:13]
}

func (c *Customer) FullName() string {
	if c.IsAnonymized {
		return AnonymizedDisplayName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Anonymize overwrites identifying fields with placeholders. There is no way back.
func (c *Customer) Anonymize() {
	suffix := c.InternalID
	if len(suffix) > 8 {
		suffix = suffix[:8]
	}
	c.FirstName = "ANONYME"
	c.LastName = "CLIENT_" + suffix
	c.Email = "anonymized_" + c.InternalID + "@deleted.local"
	c.Phone = ""
	c.AddressLine1 = ""
	c.PostalCode = ""
	c.City = ""
	c.IsAnonymized = true
	c.IsActive = false
}

// SetMarketingConsent stamps the consent date when the flag turns on and clears it when it turns off.
func (c *Customer) SetMarketingConsent(v bool, at time.Time) {
	if v && !c.MarketingConsent {
		c.MarketingConsentDate = &at
	}
	if !v {
		c.MarketingConsentDate = nil
	}
	c.MarketingConsent = v
}

func (c *Customer) SetNewsletterConsent(v bool, at time.Time) {
	if v && !c.NewsletterConsent {
		c.NewsletterConsentDate = &at
	}
	if !v {
		c.NewsletterConsentDate = nil
	}
	c.NewsletterConsent = v
}
