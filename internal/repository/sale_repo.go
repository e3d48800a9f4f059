package repository

import (
	"context"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ChannelTotals is one row of the completed-sales statistics.
type ChannelTotals struct {
	Channel string
	Count   int64
	Revenue decimal.Decimal
}

// DayTotals aggregates completed sales of one location over one day.
type DayTotals struct {
	Count   int64
	Revenue decimal.Decimal
	Cash    decimal.Decimal
	Card    decimal.Decimal
}

type SaleRepository interface {
	CRUD[model.Sale]
	FindByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error)
	CreateLines(ctx context.Context, tx *gorm.DB, lines []model.SaleLine) error
	UpdateTotals(ctx context.Context, tx *gorm.DB, s *model.Sale) error
	DeleteWithLines(ctx context.Context, id uuid.UUID) error
	CompletedByChannel(ctx context.Context) ([]ChannelTotals, error)
	CompletedForDay(ctx context.Context, locationID uuid.UUID, from, to time.Time) (DayTotals, error)
}

type saleRepo struct{ *crudRepo[model.Sale] }

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepo{newCRUD[model.Sale](db, "created_at DESC")}
}

// SalePreloads loads what a sale response needs, lines in till order.
var SalePreloads = []string{"Lines", "Lines.Product", "Customer"}

func (r *saleRepo) FindByOfflineID(ctx context.Context, offlineID string) (*model.Sale, error) {
	var s model.Sale
	q := withPreloads(r.db.WithContext(ctx), SalePreloads)
	if err := q.Where("offline_id = ?", offlineID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) CreateLines(ctx context.Context, tx *gorm.DB, lines []model.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	return r.conn(ctx, tx).Omit("Product").Create(&lines).Error
}

func (r *saleRepo) UpdateTotals(ctx context.Context, tx *gorm.DB, s *model.Sale) error {
	return r.conn(ctx, tx).Model(&model.Sale{}).Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"subtotal":   s.Subtotal,
			"vat_amount": s.VATAmount,
			"total":      s.Total,
		}).Error
}

// DeleteWithLines removes the sale and its lines together. Stock is not restored.
func (r *saleRepo) DeleteWithLines(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", id).Delete(&model.SaleLine{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Sale{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *saleRepo) CompletedByChannel(ctx context.Context) ([]ChannelTotals, error) {
	var rows []ChannelTotals
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select("channel, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue").
		Where("status = ?", model.SaleStatusCompleted).
		Group("channel").
		Scan(&rows).Error
	return rows, err
}

func (r *saleRepo) CompletedForDay(ctx context.Context, locationID uuid.UUID, from, to time.Time) (DayTotals, error) {
	var t DayTotals
	err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Select(`COUNT(*) AS count,
			COALESCE(SUM(total), 0) AS revenue,
			COALESCE(SUM(CASE WHEN payment_method = ? THEN total ELSE 0 END), 0) AS cash,
			COALESCE(SUM(CASE WHEN payment_method = ? THEN total ELSE 0 END), 0) AS card`,
			model.PaymentCash, model.PaymentCard).
		Where("status = ? AND location_id = ? AND created_at >= ? AND created_at < ?",
			model.SaleStatusCompleted, locationID, from, to).
		Scan(&t).Error
	return t, err
}

// SaleFilters turns optional filters into scopes.
func SaleFilters(channel, status string, locationID, customerID *uuid.UUID) []Scope {
	var scopes []Scope
	if channel != "" {
		scopes = append(scopes, Eq("channel", channel))
	}
	if status != "" {
		scopes = append(scopes, Eq("status", status))
	}
	if locationID != nil {
		scopes = append(scopes, Eq("location_id", *locationID))
	}
	if customerID != nil {
		scopes = append(scopes, Eq("customer_id", *customerID))
	}
	return scopes
}
