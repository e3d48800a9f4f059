package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/dto"
	"github.com/wasssssim/verger-du-coin/internal/metrics"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceiptQueue hands a committed sale to the background receipt pipeline.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, saleID uuid.UUID, email string) error
}

type SaleService interface {
	Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	Sync(ctx context.Context, req dto.SyncSalesRequest) (*dto.SyncSalesResponse, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Statistics(ctx context.Context) (*dto.SaleStatisticsResponse, error)
}

// SaleDeps groups the collaborators of the sale engine.
type SaleDeps struct {
	Sales     repository.SaleRepository
	Products  repository.ProductRepository
	Locations repository.LocationRepository
	Customers repository.CustomerRepository
	Stocks    repository.StockRepository
	Inventory InventoryService
	Loyalty   LoyaltyService
	Receipts  ReceiptQueue // optional
}

type saleService struct {
	repo      repository.SaleRepository
	products  repository.ProductRepository
	locations repository.LocationRepository
	customers repository.CustomerRepository
	stocks    repository.StockRepository
	inventory InventoryService
	loyalty   LoyaltyService
	receipts  ReceiptQueue
	now       func() time.Time
}

func NewSaleService(d SaleDeps) SaleService {
	return &saleService{
		repo:      d.Sales,
		products:  d.Products,
		locations: d.Locations,
		customers: d.Customers,
		stocks:    d.Stocks,
		inventory: d.Inventory,
		loyalty:   d.Loyalty,
		receipts:  d.Receipts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ── Create ───────────────────────────────────────────────────────────────────
//   1. Validate, dedupe on offline_id
//   2. BEGIN TX: resolve products, insert header + line snapshots,
//      OUT movements where a stock row exists, persist rounded totals
//   3. COMMIT
//   4. Loyalty accrual in its own transaction (failure logged, never returned)
//   5. Receipt job (best-effort)

func (s *saleService) Create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	return s.create(ctx, req)
}

// resolvedLine is a request line with its effective price and VAT.
type resolvedLine struct {
	product  *model.Product
	quantity decimal.Decimal
	price    decimal.Decimal
	vat      decimal.Decimal
	discount decimal.Decimal
}

func (s *saleService) create(ctx context.Context, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := dto.CheckScale(req.Lines); err != nil {
		return nil, err
	}
	if req.OfflineID != nil && *req.OfflineID == "" {
		req.OfflineID = nil
	}

	if req.OfflineID != nil {
		existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID)
		if err == nil {
			return saleToResponse(existing, 0), nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	locationID, err := parseID(req.LocationID, "location_id")
	if err != nil {
		return nil, err
	}
	var customerID *uuid.UUID
	if req.CustomerID != nil && *req.CustomerID != "" {
		id, err := parseID(*req.CustomerID, "customer_id")
		if err != nil {
			return nil, err
		}
		customerID = &id
	}
	productIDs := make([]uuid.UUID, len(req.Lines))
	for i, l := range req.Lines {
		if productIDs[i], err = parseID(l.ProductID, fmt.Sprintf("lines[%d].product_id", i)); err != nil {
			return nil, err
		}
	}

	if _, err := s.locations.FindByID(ctx, locationID); err != nil {
		return nil, repoErr(err, "location")
	}

	now := s.now()
	sale := &model.Sale{
		SaleNumber:     model.NewSaleNumber(req.Channel, now),
		Channel:        req.Channel,
		LocationID:     locationID,
		CustomerID:     customerID,
		Subtotal:       decimal.Zero,
		VATAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          decimal.Zero,
		PaymentMethod:  req.PaymentMethod,
		IsPaid:         true,
		Status:         model.SaleStatusCompleted,
		CustomerNote:   req.CustomerNote,
		Synced:         true,
		OfflineID:      req.OfflineID,
		CreatedAt:      now,
	}
	if req.OfflineCreatedAt != nil {
		t := req.OfflineCreatedAt.UTC()
		sale.OfflineCreatedAt = &t
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if customerID != nil {
			c, err := s.customers.FindByIDTx(ctx, tx, *customerID)
			if err != nil {
				return repoErr(err, "customer")
			}
			sale.Customer = c
		}

		// Every product resolves before the first write
		products, err := s.products.FindByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}
		resolved := make([]resolvedLine, len(req.Lines))
		for i, l := range req.Lines {
			p, ok := products[productIDs[i]]
			if !ok {
				return fmt.Errorf("%w: product %s", ErrNotFound, l.ProductID)
			}
			r := resolvedLine{
				product:  p,
				quantity: l.Quantity,
				price:    p.BasePrice,
				vat:      p.VATRate,
				discount: decimal.Zero,
			}
			if l.UnitPrice != nil {
				r.price = *l.UnitPrice
			}
			if l.VATRate != nil {
				r.vat = l.VATRate.Round(2)
			}
			if l.DiscountPercent != nil {
				r.discount = l.DiscountPercent.Round(2)
			}
			resolved[i] = r
		}

		if err := s.repo.Create(ctx, tx, sale); err != nil {
			return repoErr(err, "sale "+sale.SaleNumber)
		}

		subtotal, vat := decimal.Zero, decimal.Zero
		lines := make([]model.SaleLine, len(resolved))
		for i, r := range resolved {
			lines[i] = model.SaleLine{
				SaleID:          sale.ID,
				ProductID:       r.product.ID,
				Position:        i + 1,
				Quantity:        r.quantity,
				UnitPrice:       r.price,
				VATRate:         r.vat,
				DiscountPercent: r.discount,
			}
			lineTotal := lines[i].LineTotal()
			subtotal = subtotal.Add(lineTotal)
			vat = vat.Add(model.LineVAT(lineTotal, r.vat))
		}
		if err := s.repo.CreateLines(ctx, tx, lines); err != nil {
			return err
		}

		for i := range lines {
			stock, err := s.stocks.FindByProductLocation(ctx, tx, lines[i].ProductID, locationID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			m := &model.StockMovement{
				StockID:      stock.ID,
				MovementType: model.MovementOut,
				Quantity:     lines[i].Quantity,
				Reference:    sale.SaleNumber,
				Note:         "Sale " + sale.Channel,
			}
			if err := s.inventory.RecordMovementTx(ctx, tx, m); err != nil {
				return fmt.Errorf("stock movement for %s: %w", resolved[i].product.Code, err)
			}
		}

		sale.Subtotal = model.RoundMoney(subtotal)
		sale.VATAmount = model.RoundMoney(vat)
		sale.Total = sale.Subtotal.Add(sale.VATAmount)
		if err := s.repo.UpdateTotals(ctx, tx, sale); err != nil {
			return err
		}

		for i := range lines {
			lines[i].Product = resolved[i].product
		}
		sale.Lines = lines
		return nil
	})
	if txErr != nil {
		// A concurrent submission of the same offline ticket won the unique index
		if req.OfflineID != nil && errors.Is(txErr, ErrConflict) {
			if existing, err := s.repo.FindByOfflineID(ctx, *req.OfflineID); err == nil {
				return saleToResponse(existing, 0), nil
			}
		}
		return nil, txErr
	}
	metrics.SalesCreated.WithLabelValues(sale.Channel).Inc()

	earned := s.accrueLoyalty(ctx, sale)
	s.enqueueReceipt(ctx, sale)

	return saleToResponse(sale, earned), nil
}

// accrueLoyalty runs after commit. The sale stands whatever happens here.
func (s *saleService) accrueLoyalty(ctx context.Context, sale *model.Sale) int {
	if sale.CustomerID == nil || s.loyalty == nil {
		return 0
	}
	points, err := s.loyalty.Accrue(ctx, *sale.CustomerID, sale.Total, sale.CreatedAt)
	if err != nil {
		metrics.LoyaltyAccrualFailures.Inc()
		log.Warn().Err(err).
			Str("sale_number", sale.SaleNumber).
			Str("customer_id", sale.CustomerID.String()).
			Msg("loyalty accrual failed")
		return 0
	}
	return points
}

func (s *saleService) enqueueReceipt(ctx context.Context, sale *model.Sale) {
	if s.receipts == nil || sale.Customer == nil {
		return
	}
	c := sale.Customer
	if c.IsAnonymized || c.Email == "" {
		return
	}
	if err := s.receipts.EnqueueReceipt(ctx, sale.ID, c.Email); err != nil {
		log.Warn().Err(err).Str("sale_number", sale.SaleNumber).Msg("receipt enqueue failed")
	}
}

// ── Sync ─────────────────────────────────────────────────────────────────────
// Offline tills push the sales they rang up while disconnected. Entries that
// do not decode, fail validation, reference unknown rows or hit a unique key
// are skipped; the rest are created.

func (s *saleService) Sync(ctx context.Context, req dto.SyncSalesRequest) (*dto.SyncSalesResponse, error) {
	resp := &dto.SyncSalesResponse{Sales: make([]dto.SaleResponse, 0, len(req.Sales))}
	for i, raw := range req.Sales {
		var entry dto.CreateSaleRequest
		if err := json.Unmarshal(raw, &entry); err != nil {
			s.skip(resp, i, err)
			continue
		}
		sale, err := s.create(ctx, entry)
		if errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) {
			s.skip(resp, i, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("sync entry %d: %w", i, err)
		}
		resp.Sales = append(resp.Sales, *sale)
		resp.SyncedCount++
	}
	return resp, nil
}

func (s *saleService) skip(resp *dto.SyncSalesResponse, index int, err error) {
	resp.SkippedCount++
	metrics.SyncSkipped.Inc()
	log.Warn().Err(err).Int("index", index).Msg("offline sale skipped")
}

// ── Queries and admin edits ──────────────────────────────────────────────────

func (s *saleService) List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	var locationID, customerID *uuid.UUID
	if filter.LocationID != "" {
		id, err := parseID(filter.LocationID, "location")
		if err != nil {
			return nil, err
		}
		locationID = &id
	}
	if filter.CustomerID != "" {
		id, err := parseID(filter.CustomerID, "customer")
		if err != nil {
			return nil, err
		}
		customerID = &id
	}

	sales, total, err := s.repo.List(ctx, repository.ListOptions{
		Scopes:  repository.SaleFilters(filter.Channel, filter.Status, locationID, customerID),
		Preload: repository.SalePreloads,
		Offset:  filter.Offset(),
		Limit:   filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, len(sales))
	for i := range sales {
		data[i] = *saleToResponse(&sales[i], 0)
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) Get(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id, repository.SalePreloads...)
	if err != nil {
		return nil, repoErr(err, "sale")
	}
	return saleToResponse(sale, 0), nil
}

// Update touches status, payment and note only. Lines and totals are frozen.
func (s *saleService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repoErr(err, "sale")
	}
	if req.Status != nil {
		sale.Status = *req.Status
	}
	if req.IsPaid != nil {
		sale.IsPaid = *req.IsPaid
	}
	if req.PaymentMethod != nil {
		sale.PaymentMethod = *req.PaymentMethod
	}
	if req.CustomerNote != nil {
		sale.CustomerNote = *req.CustomerNote
	}
	if err := s.repo.Update(ctx, nil, sale); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *saleService) Delete(ctx context.Context, id uuid.UUID) error {
	return repoErr(s.repo.DeleteWithLines(ctx, id), "sale")
}

func (s *saleService) Statistics(ctx context.Context) (*dto.SaleStatisticsResponse, error) {
	rows, err := s.repo.CompletedByChannel(ctx)
	if err != nil {
		return nil, err
	}
	resp := &dto.SaleStatisticsResponse{
		TotalRevenue: decimal.Zero,
		ByChannel:    make(map[string]int64, len(model.Channels)),
	}
	for _, ch := range model.Channels {
		resp.ByChannel[ch] = 0
	}
	for _, r := range rows {
		resp.ByChannel[r.Channel] = r.Count
		resp.TotalSales += r.Count
		resp.TotalRevenue = resp.TotalRevenue.Add(r.Revenue)
	}
	resp.TotalRevenue = model.RoundMoney(resp.TotalRevenue)
	return resp, nil
}

// anonymousCustomerName labels walk-in sales.
const anonymousCustomerName = "Client anonyme"

func saleToResponse(s *model.Sale, pointsEarned int) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:                  s.ID.String(),
		SaleNumber:          s.SaleNumber,
		Channel:             s.Channel,
		LocationID:          s.LocationID.String(),
		CustomerID:          idPtrString(s.CustomerID),
		CustomerName:        anonymousCustomerName,
		Subtotal:            s.Subtotal,
		VATAmount:           s.VATAmount,
		DiscountAmount:      s.DiscountAmount,
		Total:               s.Total,
		LoyaltyPointsUsed:   s.LoyaltyPointsUsed,
		LoyaltyPointsEarned: pointsEarned,
		PaymentMethod:       s.PaymentMethod,
		IsPaid:              s.IsPaid,
		Status:              s.Status,
		CustomerNote:        s.CustomerNote,
		Synced:              s.Synced,
		OfflineID:           s.OfflineID,
		OfflineCreatedAt:    formatTimePtr(s.OfflineCreatedAt),
		CreatedAt:           formatTime(s.CreatedAt),
		Lines:               make([]dto.SaleLineResponse, len(s.Lines)),
	}
	if s.Customer != nil {
		resp.CustomerName = s.Customer.FullName()
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		lr := dto.SaleLineResponse{
			ID:              l.ID.String(),
			ProductID:       l.ProductID.String(),
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			VATRate:         l.VATRate,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       model.RoundMoney(l.LineTotal()),
			LineVAT:         model.RoundMoney(l.LineVAT()),
		}
		if l.Product != nil {
			lr.ProductName = l.Product.Name
		}
		resp.Lines[i] = lr
	}
	return resp
}
