package repository

import (
	"context"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type LocationRepository interface {
	CRUD[model.StockLocation]
	FindByCode(ctx context.Context, code string) (*model.StockLocation, error)
}

type locationRepo struct{ *crudRepo[model.StockLocation] }

func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepo{newCRUD[model.StockLocation](db, "code ASC")}
}

func (r *locationRepo) FindByCode(ctx context.Context, code string) (*model.StockLocation, error) {
	var l model.StockLocation
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

// StockRepository is read-mostly: quantity only moves through ApplyDelta,
// which MovementRepository callers run in the same transaction as the ledger insert.
type StockRepository interface {
	List(ctx context.Context, opts ListOptions) ([]model.Stock, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, preload ...string) (*model.Stock, error)
	FindByProductLocation(ctx context.Context, tx *gorm.DB, productID, locationID uuid.UUID) (*model.Stock, error)
	Create(ctx context.Context, tx *gorm.DB, s *model.Stock) error
	ApplyDelta(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, delta decimal.Decimal) error
	DB() *gorm.DB
}

type stockRepo struct{ *crudRepo[model.Stock] }

func NewStockRepository(db *gorm.DB) StockRepository {
	return &stockRepo{newCRUD[model.Stock](db, "last_updated DESC")}
}

func (r *stockRepo) FindByProductLocation(ctx context.Context, tx *gorm.DB, productID, locationID uuid.UUID) (*model.Stock, error) {
	var s model.Stock
	err := r.conn(ctx, tx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDelta adds delta to the quantity in a single UPDATE so concurrent
// sales on the same row serialize on the row lock instead of losing writes.
func (r *stockRepo) ApplyDelta(ctx context.Context, tx *gorm.DB, stockID uuid.UUID, delta decimal.Decimal) error {
	res := r.conn(ctx, tx).Model(&model.Stock{}).
		Where("id = ?", stockID).
		UpdateColumns(map[string]interface{}{
			"quantity":     gorm.Expr("quantity + ?", delta),
			"last_updated": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LowStockScope keeps rows whose available quantity is at or under the threshold.
func LowStockScope(db *gorm.DB) *gorm.DB {
	return db.Where("quantity - reserved_quantity <= low_stock_threshold")
}

// MovementRepository exposes no update or delete: the ledger is append-only.
type MovementRepository interface {
	List(ctx context.Context, opts ListOptions) ([]model.StockMovement, int64, error)
	FindByID(ctx context.Context, id uuid.UUID, preload ...string) (*model.StockMovement, error)
	Create(ctx context.Context, tx *gorm.DB, m *model.StockMovement) error
}

type movementRepo struct{ *crudRepo[model.StockMovement] }

func NewMovementRepository(db *gorm.DB) MovementRepository {
	return &movementRepo{newCRUD[model.StockMovement](db, "created_at DESC")}
}

// StockOf restricts movements to stock rows of a product and/or location.
func StockOf(productID, locationID *uuid.UUID) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if productID == nil && locationID == nil {
			return db
		}
		sub := db.Session(&gorm.Session{NewDB: true}).Model(&model.Stock{}).Select("id")
		if productID != nil {
			sub = sub.Where("product_id = ?", *productID)
		}
		if locationID != nil {
			sub = sub.Where("location_id = ?", *locationID)
		}
		return db.Where("stock_id IN (?)", sub)
	}
}
