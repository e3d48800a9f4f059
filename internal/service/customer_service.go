package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomerService interface {
	Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error)
	List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// Anonymize scrubs personal data for good. Repeating it is a no-op.
	Anonymize(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error)
	SearchByCard(ctx context.Context, req dto.SearchByCardRequest) (*dto.CardLookupResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error)
}

type customerService struct {
	repo  repository.CustomerRepository
	cards repository.LoyaltyCardRepository
	users repository.UserRepository
	now   func() time.Time
}

func NewCustomerService(repo repository.CustomerRepository, cards repository.LoyaltyCardRepository, users repository.UserRepository) CustomerService {
	return &customerService{repo: repo, cards: cards, users: users, now: func() time.Time { return time.Now().UTC() }}
}

func (s *customerService) Create(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	now := s.now()
	c := &model.Customer{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		PostalCode:   req.PostalCode,
		City:         req.City,
		IsActive:     true,
	}
	c.SetMarketingConsent(req.MarketingConsent, now)
	c.SetNewsletterConsent(req.NewsletterConsent, now)

	if err := s.repo.Create(ctx, nil, c); err != nil {
		return nil, repoErr(err, "customer "+c.Email)
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context, filter dto.CustomerFilter) (*dto.CustomerListResponse, error) {
	customers, total, err := s.repo.List(ctx, repository.ListOptions{
		Scopes: []repository.Scope{
			repository.ListedCustomers,
			repository.Search(filter.Search, "first_name", "last_name", "email"),
		},
		Offset: filter.Offset(),
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.CustomerResponse, len(customers))
	for i := range customers {
		data[i] = *customerToResponse(&customers[i])
	}
	return &dto.CustomerListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *customerService) Get(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	return customerToResponse(c), nil
}

func (s *customerService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	if c.IsAnonymized {
		return nil, fmt.Errorf("%w: customer is anonymized", ErrConflict)
	}

	if req.FirstName != nil {
		c.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		c.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.AddressLine1 != nil {
		c.AddressLine1 = *req.AddressLine1
	}
	if req.PostalCode != nil {
		c.PostalCode = *req.PostalCode
	}
	if req.City != nil {
		c.City = *req.City
	}
	now := s.now()
	if req.MarketingConsent != nil {
		c.SetMarketingConsent(*req.MarketingConsent, now)
	}
	if req.NewsletterConsent != nil {
		c.SetNewsletterConsent(*req.NewsletterConsent, now)
	}

	if err := s.repo.Update(ctx, nil, c); err != nil {
		return nil, repoErr(err, "customer "+c.Email)
	}
	return customerToResponse(c), nil
}

func (s *customerService) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoErr(err, "customer")
	}
	c.IsActive = false
	return s.repo.Update(ctx, nil, c)
}

func (s *customerService) Anonymize(ctx context.Context, id uuid.UUID) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	if c.IsAnonymized {
		return customerToResponse(c), nil
	}
	c.Anonymize()
	if err := s.repo.Update(ctx, nil, c); err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) SearchByCard(ctx context.Context, req dto.SearchByCardRequest) (*dto.CardLookupResponse, error) {
	card, err := s.cards.FindByCardNumber(ctx, strings.TrimSpace(req.CardNumber))
	if err != nil {
		return nil, repoErr(err, "loyalty card "+req.CardNumber)
	}
	c, err := s.repo.FindByID(ctx, card.CustomerID)
	if err != nil {
		return nil, repoErr(err, "customer")
	}
	card.Customer = c
	return &dto.CardLookupResponse{
		Customer:    *customerToResponse(c),
		LoyaltyCard: *cardToResponse(card),
	}, nil
}

func (s *customerService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	u, err := s.users.FindByID(ctx, userID, "Customer")
	if err != nil {
		return nil, repoErr(err, "user")
	}
	resp := &dto.MeResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
		CustomerID: idPtrString(u.CustomerID),
	}
	if u.Customer == nil {
		return resp, nil
	}

	c := u.Customer
	resp.FullName = c.FullName()
	resp.Email = c.Email
	resp.Phone = c.Phone
	resp.Address = c.AddressLine1
	resp.PostalCode = c.PostalCode
	resp.City = c.City

	card, err := s.cards.FindByCustomer(ctx, c.ID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return nil, err
	default:
		resp.LoyaltyCard = &dto.MeLoyaltySummary{
			CardNumber:    card.CardNumber,
			PointsBalance: card.PointsBalance,
			TotalEarned:   card.TotalPointsEarned,
		}
	}
	return resp, nil
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:                    c.ID.String(),
		InternalID:            c.InternalID,
		FirstName:             c.FirstName,
		LastName:              c.LastName,
		FullName:              c.FullName(),
		Email:                 c.Email,
		Phone:                 c.Phone,
		AddressLine1:          c.AddressLine1,
		PostalCode:            c.PostalCode,
		City:                  c.City,
		IsActive:              c.IsActive,
		IsAnonymized:          c.IsAnonymized,
		MarketingConsent:      c.MarketingConsent,
		MarketingConsentDate:  formatTimePtr(c.MarketingConsentDate),
		NewsletterConsent:     c.NewsletterConsent,
		NewsletterConsentDate: formatTimePtr(c.NewsletterConsentDate),
		LastPurchaseDate:      formatTimePtr(c.LastPurchaseDate),
		CreatedAt:             formatTime(c.CreatedAt),
	}
}
