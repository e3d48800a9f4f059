package dto

import "github.com/shopspring/decimal"

type CreateCustomerRequest struct {
	FirstName         string `json:"first_name"         validate:"required,max=100"`
	LastName          string `json:"last_name"          validate:"required,max=100"`
	Email             string `json:"email"              validate:"required,email,max=254"`
	Phone             string `json:"phone"              validate:"max=20"`
	AddressLine1      string `json:"address_line1"      validate:"max=255"`
	PostalCode        string `json:"postal_code"        validate:"max=10"`
	City              string `json:"city"               validate:"max=100"`
	MarketingConsent  bool   `json:"marketing_consent"`
	NewsletterConsent bool   `json:"newsletter_consent"`
}

type UpdateCustomerRequest struct {
	FirstName         *string `json:"first_name"         validate:"omitempty,max=100"`
	LastName          *string `json:"last_name"          validate:"omitempty,max=100"`
	Email             *string `json:"email"              validate:"omitempty,email,max=254"`
	Phone             *string `json:"phone"              validate:"omitempty,max=20"`
	AddressLine1      *string `json:"address_line1"      validate:"omitempty,max=255"`
	PostalCode        *string `json:"postal_code"        validate:"omitempty,max=10"`
	City              *string `json:"city"               validate:"omitempty,max=100"`
	MarketingConsent  *bool   `json:"marketing_consent"`
	NewsletterConsent *bool   `json:"newsletter_consent"`
}

// CustomerFilter searches first name, last name and email.
type CustomerFilter struct {
	Search string `form:"search"`
	Pagination
}

type CustomerResponse struct {
	ID                    string  `json:"id"`
	InternalID            string  `json:"internal_id"`
	FirstName             string  `json:"first_name"`
	LastName              string  `json:"last_name"`
	FullName              string  `json:"full_name"`
	Email                 string  `json:"email"`
	Phone                 string  `json:"phone"`
	AddressLine1          string  `json:"address_line1"`
	PostalCode            string  `json:"postal_code"`
	City                  string  `json:"city"`
	IsActive              bool    `json:"is_active"`
	IsAnonymized          bool    `json:"is_anonymized"`
	MarketingConsent      bool    `json:"marketing_consent"`
	MarketingConsentDate  *string `json:"marketing_consent_date"`
	NewsletterConsent     bool    `json:"newsletter_consent"`
	NewsletterConsentDate *string `json:"newsletter_consent_date"`
	LastPurchaseDate      *string `json:"last_purchase_date"`
	CreatedAt             string  `json:"created_at"`
}

type CustomerListResponse = ListResponse[CustomerResponse]

type SearchByCardRequest struct {
	CardNumber string `json:"card_number" validate:"required,max=20"`
}

type CardLookupResponse struct {
	Customer    CustomerResponse    `json:"customer"`
	LoyaltyCard LoyaltyCardResponse `json:"loyalty_card"`
}

// ─── Loyalty ────────────────────────────────────────────────────────────────

type LoyaltyCardResponse struct {
	ID                string `json:"id"`
	CustomerID        string `json:"customer_id"`
	CustomerName      string `json:"customer_name,omitempty"`
	CardNumber        string `json:"card_number"`
	PointsBalance     int    `json:"points_balance"`
	TotalPointsEarned int    `json:"total_points_earned"`
	TotalPointsSpent  int    `json:"total_points_spent"`
	IsActive          bool   `json:"is_active"`
	CreatedAt         string `json:"created_at"`
}

type LoyaltyCardListResponse = ListResponse[LoyaltyCardResponse]

type RedeemPointsRequest struct {
	Points int `json:"points" validate:"required,min=1"`
}

type RedeemPointsResponse struct {
	Card           LoyaltyCardResponse `json:"loyalty_card"`
	PointsRedeemed int                 `json:"points_redeemed"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
}

// ─── Me ─────────────────────────────────────────────────────────────────────

// MeLoyaltySummary is the short card view embedded in MeResponse.
type MeLoyaltySummary struct {
	CardNumber    string `json:"card_number"`
	PointsBalance int    `json:"points_balance"`
	TotalEarned   int    `json:"total_earned"`
}

// MeResponse describes the caller and, for web-shop accounts, their customer record.
type MeResponse struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	FullName    string            `json:"full_name"`
	Role        string            `json:"role"`
	CustomerID  *string           `json:"customer_id"`
	Phone       string            `json:"phone,omitempty"`
	Address     string            `json:"address,omitempty"`
	PostalCode  string            `json:"postal_code,omitempty"`
	City        string            `json:"city,omitempty"`
	LoyaltyCard *MeLoyaltySummary `json:"loyalty_card"`
}
