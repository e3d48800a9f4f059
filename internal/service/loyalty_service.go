package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LoyaltyPolicy holds the conversion rates between money and points.
type LoyaltyPolicy struct {
	PointsPerCurrencyUnit decimal.Decimal
	PointsPerDiscountUnit int
}

// DefaultLoyaltyPolicy is one point per euro and ten euros per hundred points.
func DefaultLoyaltyPolicy() LoyaltyPolicy {
	return LoyaltyPolicy{
		PointsPerCurrencyUnit: decimal.NewFromInt(model.DefaultPointsPerCurrencyUnit),
		PointsPerDiscountUnit: model.DefaultPointsPerDiscountUnit,
	}
}

type LoyaltyService interface {
	List(ctx context.Context, page dto.Pagination) (*dto.LoyaltyCardListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.LoyaltyCardResponse, error)
	Redeem(ctx context.Context, id uuid.UUID, req dto.RedeemPointsRequest) (*dto.RedeemPointsResponse, error)
	// Accrue credits points for amount spent, creating the card on first purchase,
	// and stamps the customer's last purchase date. It returns the points credited.
	Accrue(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, at time.Time) (int, error)
}

type loyaltyService struct {
	cards     repository.LoyaltyCardRepository
	customers repository.CustomerRepository
	policy    LoyaltyPolicy
}

func NewLoyaltyService(cards repository.LoyaltyCardRepository, customers repository.CustomerRepository, policy LoyaltyPolicy) LoyaltyService {
	if !policy.PointsPerCurrencyUnit.IsPositive() {
		policy.PointsPerCurrencyUnit = decimal.NewFromInt(model.DefaultPointsPerCurrencyUnit)
	}
	if policy.PointsPerDiscountUnit <= 0 {
		policy.PointsPerDiscountUnit = model.DefaultPointsPerDiscountUnit
	}
	return &loyaltyService{cards: cards, customers: customers, policy: policy}
}

func (s *loyaltyService) List(ctx context.Context, page dto.Pagination) (*dto.LoyaltyCardListResponse, error) {
	cards, total, err := s.cards.List(ctx, repository.ListOptions{
		Preload: []string{"Customer"},
		Offset:  page.Offset(),
		Limit:   page.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.LoyaltyCardResponse, len(cards))
	for i := range cards {
		data[i] = *cardToResponse(&cards[i])
	}
	return &dto.LoyaltyCardListResponse{Data: data, Total: total, Page: page.Page, Limit: page.Limit}, nil
}

func (s *loyaltyService) Get(ctx context.Context, id uuid.UUID) (*dto.LoyaltyCardResponse, error) {
	card, err := s.cards.FindByID(ctx, id, "Customer")
	if err != nil {
		return nil, repoErr(err, "loyalty card")
	}
	return cardToResponse(card), nil
}

func (s *loyaltyService) Redeem(ctx context.Context, id uuid.UUID, req dto.RedeemPointsRequest) (*dto.RedeemPointsResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	var (
		card     *model.LoyaltyCard
		discount decimal.Decimal
	)
	err := runTx(ctx, s.cards.DB(), func(tx *gorm.DB) error {
		var err error
		card, err = s.cards.LockByID(ctx, tx, id)
		if err != nil {
			return repoErr(err, "loyalty card")
		}
		discount, err = card.RedeemPoints(req.Points, s.policy.PointsPerDiscountUnit)
		if errors.Is(err, model.ErrInsufficientPoints) {
			return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientBalance, card.PointsBalance, req.Points)
		}
		if err != nil {
			return err
		}
		return s.cards.Update(ctx, tx, card)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RedeemPointsResponse{
		Card:           *cardToResponse(card),
		PointsRedeemed: req.Points,
		DiscountAmount: discount,
	}, nil
}

func (s *loyaltyService) Accrue(ctx context.Context, customerID uuid.UUID, amount decimal.Decimal, at time.Time) (int, error) {
	points := model.PointsFor(amount, s.policy.PointsPerCurrencyUnit)

	err := runTx(ctx, s.cards.DB(), func(tx *gorm.DB) error {
		customer, err := s.customers.FindByIDTx(ctx, tx, customerID)
		if err != nil {
			return repoErr(err, "customer")
		}

		card, err := s.cards.LockByCustomer(ctx, tx, customerID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			card = &model.LoyaltyCard{
				CustomerID: customerID,
				CardNumber: model.CardNumberFor(customer),
				IsActive:   true,
			}
			card.AddPoints(points)
			if err := s.cards.Create(ctx, tx, card); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			card.AddPoints(points)
			if err := s.cards.Update(ctx, tx, card); err != nil {
				return err
			}
		}

		return s.customers.TouchLastPurchase(ctx, tx, customerID, at)
	})
	if err != nil {
		return 0, err
	}
	return points, nil
}

func cardToResponse(c *model.LoyaltyCard) *dto.LoyaltyCardResponse {
	resp := &dto.LoyaltyCardResponse{
		ID:                c.ID.String(),
		CustomerID:        c.CustomerID.String(),
		CardNumber:        c.CardNumber,
		PointsBalance:     c.PointsBalance,
		TotalPointsEarned: c.TotalPointsEarned,
		TotalPointsSpent:  c.TotalPointsSpent,
		IsActive:          c.IsActive,
		CreatedAt:         formatTime(c.CreatedAt),
	}
	if c.Customer != nil {
		resp.CustomerName = c.Customer.FullName()
	}
	return resp
}
