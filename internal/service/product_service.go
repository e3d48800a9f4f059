package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const priceCacheTTL = 4 * time.Hour

func priceCacheKey(code string) string { return "price:" + code }

type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// InSeason lists active products on offer during the month of at.
	InSeason(ctx context.Context, at time.Time) ([]dto.ProductResponse, error)
	// Lookup is the public price check by product code, cached in Redis.
	Lookup(ctx context.Context, code string) (*dto.PriceLookupResponse, error)
}

type productService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	rdb        *redis.Client
}

// NewProductService builds the catalog service; rdb may be nil to run without the price cache.
func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, rdb *redis.Client) ProductService {
	return &productService{repo: repo, categories: categories, rdb: rdb}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	catID, err := parseID(req.CategoryID, "category_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, catID); err != nil {
		return nil, repoErr(err, "category")
	}
	if err := checkSeasonWindow(req.IsSeasonal, req.SeasonStartMonth, req.SeasonEndMonth); err != nil {
		return nil, err
	}

	p := &model.Product{
		Code:             req.Code,
		Name:             req.Name,
		CategoryID:       catID,
		Description:      req.Description,
		BasePrice:        model.RoundMoney(req.BasePrice),
		Unit:             req.Unit,
		VATRate:          model.DefaultVATRate,
		IsActive:         req.IsActive == nil || *req.IsActive,
		IsSeasonal:       req.IsSeasonal == nil || *req.IsSeasonal,
		SeasonStartMonth: req.SeasonStartMonth,
		SeasonEndMonth:   req.SeasonEndMonth,
	}
	if req.VATRate != nil {
		p.VATRate = req.VATRate.Round(2)
	}
	if err := s.repo.Create(ctx, nil, p); err != nil {
		return nil, repoErr(err, "product "+req.Code)
	}
	return s.Get(ctx, p.ID)
}

// checkSeasonWindow requires both bounds or none on seasonal products.
func checkSeasonWindow(seasonal *bool, start, end *int) error {
	if seasonal != nil && !*seasonal {
		return nil
	}
	if (start == nil) != (end == nil) {
		return dto.NewValidationError("season_end_month", "required_with=season_start_month")
	}
	return nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	scopes := []repository.Scope{
		repository.Eq("is_active", true),
		repository.Search(filter.Search, "name", "code"),
	}
	if filter.CategoryID != "" {
		catID, err := parseID(filter.CategoryID, "category")
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, repository.Eq("category_id", catID))
	}
	if seasonal := parseBoolFilter(filter.IsSeasonal); seasonal != nil {
		scopes = append(scopes, repository.Eq("is_seasonal", *seasonal))
	}

	products, total, err := s.repo.List(ctx, repository.ListOptions{
		Scopes:  scopes,
		Preload: []string{"Category"},
		Offset:  filter.Offset(),
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	now := time.Now()
	data := make([]dto.ProductResponse, len(products))
	for i := range products {
		data[i] = *productToResponse(&products[i], now)
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id, "Category")
	if err != nil {
		return nil, repoErr(err, "product")
	}
	return productToResponse(p, time.Now()), nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "product")
	}
	if req.CategoryID != nil {
		catID, err := parseID(*req.CategoryID, "category_id")
		if err != nil {
			return nil, err
		}
		if _, err := s.categories.FindByID(ctx, catID); err != nil {
			return nil, repoErr(err, "category")
		}
		p.CategoryID = catID
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.BasePrice != nil {
		p.BasePrice = model.RoundMoney(*req.BasePrice)
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.VATRate != nil {
		p.VATRate = req.VATRate.Round(2)
	}
	if req.IsSeasonal != nil {
		p.IsSeasonal = *req.IsSeasonal
	}
	if req.SeasonStartMonth != nil {
		p.SeasonStartMonth = req.SeasonStartMonth
	}
	if req.SeasonEndMonth != nil {
		p.SeasonEndMonth = req.SeasonEndMonth
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := checkSeasonWindow(&p.IsSeasonal, p.SeasonStartMonth, p.SeasonEndMonth); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, nil, p); err != nil {
		return nil, repoErr(err, "product "+p.Code)
	}
	s.invalidate(ctx, p.Code)
	return s.Get(ctx, p.ID)
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return repoErr(err, "product")
	}
	p.IsActive = false
	if err := s.repo.Update(ctx, nil, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.Code)
	return nil
}

func (s *productService) InSeason(ctx context.Context, at time.Time) ([]dto.ProductResponse, error) {
	products, _, err := s.repo.List(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{repository.Eq("is_active", true)},
		Preload: []string{"Category"},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		if products[i].InSeason(at.Month()) {
			out = append(out, *productToResponse(&products[i], at))
		}
	}
	return out, nil
}

func (s *productService) Lookup(ctx context.Context, code string) (*dto.PriceLookupResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, priceCacheKey(code)).Bytes(); err == nil {
			var resp dto.PriceLookupResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByCode(ctx, code)
	if err != nil || !p.IsActive {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repoErr(gorm.ErrRecordNotFound, "product "+code)
		}
		return nil, err
	}
	resp := &dto.PriceLookupResponse{
		Code:      p.Code,
		Name:      p.Name,
		BasePrice: p.BasePrice,
		VATRate:   p.VATRate,
		Unit:      p.Unit,
		InSeason:  p.InSeason(time.Now().Month()),
	}

	// Populate cache, best effort
	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, priceCacheKey(code), b, priceCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("code", code).Msg("price cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) invalidate(ctx context.Context, code string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, priceCacheKey(code)).Err(); err != nil {
		log.Warn().Err(err).Str("code", code).Msg("price cache invalidation failed")
	}
}

func productToResponse(p *model.Product, now time.Time) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:               p.ID.String(),
		Code:             p.Code,
		Name:             p.Name,
		CategoryID:       p.CategoryID.String(),
		Description:      p.Description,
		BasePrice:        p.BasePrice,
		Unit:             p.Unit,
		VATRate:          p.VATRate,
		IsActive:         p.IsActive,
		IsSeasonal:       p.IsSeasonal,
		SeasonStartMonth: p.SeasonStartMonth,
		SeasonEndMonth:   p.SeasonEndMonth,
		InSeason:         p.InSeason(now.Month()),
		CreatedAt:        formatTime(p.CreatedAt),
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	return resp
}
