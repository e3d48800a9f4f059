package service

import (
	"context"
	"errors"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService interface {
	CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error)
	ListLocations(ctx context.Context) ([]dto.LocationResponse, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error)
	UpdateLocation(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error)
	DeactivateLocation(ctx context.Context, id uuid.UUID) error

	ListStocks(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error)
	GetStock(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error)
	LowStock(ctx context.Context) ([]dto.StockResponse, error)

	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	// RecordMovement appends to the ledger and moves the stock quantity in one transaction.
	RecordMovement(ctx context.Context, req dto.CreateMovementRequest) (*dto.MovementResponse, error)
	// RecordMovementTx does the same inside the caller's transaction, for an existing stock row.
	RecordMovementTx(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
}

type inventoryService struct {
	locations repository.LocationRepository
	stocks    repository.StockRepository
	movements repository.MovementRepository
	products  repository.ProductRepository
}

func NewInventoryService(
	locations repository.LocationRepository,
	stocks repository.StockRepository,
	movements repository.MovementRepository,
	products repository.ProductRepository,
) InventoryService {
	return &inventoryService{locations: locations, stocks: stocks, movements: movements, products: products}
}

// ─── Locations ──────────────────────────────────────────────────────────────

func (s *inventoryService) CreateLocation(ctx context.Context, req dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	l := &model.StockLocation{
		Code:     req.Code,
		Name:     req.Name,
		Address:  req.Address,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := s.locations.Create(ctx, nil, l); err != nil {
		return nil, repoErr(err, "location "+req.Code)
	}
	return locationToResponse(l), nil
}

func (s *inventoryService) ListLocations(ctx context.Context) ([]dto.LocationResponse, error) {
	locs, _, err := s.locations.List(ctx, repository.ListOptions{
		Scopes: []repository.Scope{repository.Eq("is_active", true)},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.LocationResponse, len(locs))
	for i := range locs {
		out[i] = *locationToResponse(&locs[i])
	}
	return out, nil
}

func (s *inventoryService) GetLocation(ctx context.Context, id uuid.UUID) (*dto.LocationResponse, error) {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "location")
	}
	return locationToResponse(l), nil
}

func (s *inventoryService) UpdateLocation(ctx context.Context, id uuid.UUID, req dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "location")
	}
	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Address != nil {
		l.Address = *req.Address
	}
	if req.IsActive != nil {
		l.IsActive = *req.IsActive
	}
	if err := s.locations.Update(ctx, nil, l); err != nil {
		return nil, repoErr(err, "location "+l.Code)
	}
	return locationToResponse(l), nil
}

func (s *inventoryService) DeactivateLocation(ctx context.Context, id uuid.UUID) error {
	l, err := s.locations.FindByID(ctx, id)
	if err != nil {
		return repoErr(err, "location")
	}
	l.IsActive = false
	return s.locations.Update(ctx, nil, l)
}

// ─── Stocks ─────────────────────────────────────────────────────────────────

func (s *inventoryService) ListStocks(ctx context.Context, filter dto.StockFilter) (*dto.StockListResponse, error) {
	var scopes []repository.Scope
	if filter.ProductID != "" {
		id, err := parseID(filter.ProductID, "product")
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, repository.Eq("product_id", id))
	}
	if filter.LocationID != "" {
		id, err := parseID(filter.LocationID, "location")
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, repository.Eq("location_id", id))
	}

	stocks, total, err := s.stocks.List(ctx, repository.ListOptions{
		Scopes:  scopes,
		Preload: []string{"Product", "Location"},
		Offset:  filter.Offset(),
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.StockResponse, len(stocks))
	for i := range stocks {
		data[i] = *stockToResponse(&stocks[i])
	}
	return &dto.StockListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) GetStock(ctx context.Context, id uuid.UUID) (*dto.StockResponse, error) {
	st, err := s.stocks.FindByID(ctx, id, "Product", "Location")
	if err != nil {
		return nil, repoErr(err, "stock")
	}
	return stockToResponse(st), nil
}

func (s *inventoryService) LowStock(ctx context.Context) ([]dto.StockResponse, error) {
	stocks, _, err := s.stocks.List(ctx, repository.ListOptions{
		Scopes:  []repository.Scope{repository.LowStockScope},
		Preload: []string{"Product", "Location"},
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockResponse, len(stocks))
	for i := range stocks {
		out[i] = *stockToResponse(&stocks[i])
	}
	return out, nil
}

// ─── Movements ──────────────────────────────────────────────────────────────

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	var (
		scopes              []repository.Scope
		productID, location *uuid.UUID
	)
	if filter.StockID != "" {
		id, err := parseID(filter.StockID, "stock")
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, repository.Eq("stock_id", id))
	}
	if filter.ProductID != "" {
		id, err := parseID(filter.ProductID, "product")
		if err != nil {
			return nil, err
		}
		productID = &id
	}
	if filter.LocationID != "" {
		id, err := parseID(filter.LocationID, "location")
		if err != nil {
			return nil, err
		}
		location = &id
	}
	if filter.MovementType != "" {
		scopes = append(scopes, repository.Eq("movement_type", filter.MovementType))
	}
	scopes = append(scopes, repository.StockOf(productID, location))

	moves, total, err := s.movements.List(ctx, repository.ListOptions{
		Scopes: scopes,
		Offset: filter.Offset(),
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, len(moves))
	for i := range moves {
		data[i] = *movementToResponse(&moves[i])
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *inventoryService) RecordMovement(ctx context.Context, req dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	productID, err := parseID(req.ProductID, "product_id")
	if err != nil {
		return nil, err
	}
	locationID, err := parseID(req.LocationID, "location_id")
	if err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, repoErr(err, "product")
	}
	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	m := &model.StockMovement{
		MovementType: req.MovementType,
		Quantity:     req.Quantity.Round(2),
		Reference:    req.Reference,
		Note:         req.Note,
	}
	err = runTx(ctx, s.stocks.DB(), func(tx *gorm.DB) error {
		stock, err := s.stocks.FindByProductLocation(ctx, tx, productID, locationID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			stock = &model.Stock{
				ProductID:         productID,
				LocationID:        locationID,
				LowStockThreshold: model.DefaultLowStockThreshold,
			}
			if req.LowStockThreshold != nil {
				stock.LowStockThreshold = req.LowStockThreshold.Round(2)
			}
			err = s.stocks.Create(ctx, tx, stock)
		}
		if err != nil {
			return err
		}
		m.StockID = stock.ID
		return s.RecordMovementTx(ctx, tx, m)
	})
	if err != nil {
		return nil, err
	}
	return movementToResponse(m), nil
}

func (s *inventoryService) RecordMovementTx(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error {
	if err := s.movements.Create(ctx, tx, m); err != nil {
		return err
	}
	if delta := m.Delta(); !delta.IsZero() {
		return s.stocks.ApplyDelta(ctx, tx, m.StockID, delta)
	}
	return nil
}

func locationToResponse(l *model.StockLocation) *dto.LocationResponse {
	return &dto.LocationResponse{
		ID:       l.ID.String(),
		Code:     l.Code,
		Name:     l.Name,
		Address:  l.Address,
		IsActive: l.IsActive,
	}
}

func stockToResponse(st *model.Stock) *dto.StockResponse {
	resp := &dto.StockResponse{
		ID:                st.ID.String(),
		ProductID:         st.ProductID.String(),
		LocationID:        st.LocationID.String(),
		Quantity:          st.Quantity,
		ReservedQuantity:  st.ReservedQuantity,
		AvailableQuantity: st.Available(),
		LowStockThreshold: st.LowStockThreshold,
		IsLowStock:        st.IsLowStock(),
		LastUpdated:       formatTime(st.LastUpdated),
	}
	if st.Product != nil {
		resp.ProductName = st.Product.Name
	}
	if st.Location != nil {
		resp.LocationName = st.Location.Name
	}
	return resp
}

func movementToResponse(m *model.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:           m.ID.String(),
		StockID:      m.StockID.String(),
		MovementType: m.MovementType,
		Quantity:     m.Quantity,
		Reference:    m.Reference,
		Note:         m.Note,
		CreatedAt:    formatTime(m.CreatedAt),
	}
}
