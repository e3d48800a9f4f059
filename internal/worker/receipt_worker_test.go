package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/model"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSender struct {
	enabled  bool
	failures int // first n sends fail
	calls    int
	to       string
	subject  string
	pdfPath  string
}

func (f *fakeSender) Enabled() bool { return f.enabled }

func (f *fakeSender) SendReceipt(to, subject, _ string, pdfPath string) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp: connection refused")
	}
	f.to, f.subject, f.pdfPath = to, subject, pdfPath
	return nil
}

func newWorkerDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), infra.GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, infra.AutoMigrate(db))
	return db
}

func seedSale(t *testing.T, db *gorm.DB) *model.Sale {
	t.Helper()
	loc := &model.StockLocation{Code: "KIOSK1", Name: "Kiosque de la ferme", IsActive: true}
	require.NoError(t, db.Create(loc).Error)
	cat := &model.Category{Name: "Fruits", IsActive: true}
	require.NoError(t, db.Create(cat).Error)
	p := &model.Product{
		Code: "POM-RR", Name: "Pommes Reine des Reinettes", CategoryID: cat.ID,
		Unit: model.UnitKG, BasePrice: decimal.RequireFromString("3.00"),
		VATRate: decimal.RequireFromString("5.5"), IsActive: true,
	}
	require.NoError(t, db.Create(p).Error)

	s := &model.Sale{
		SaleNumber: "K20261016143005-3FA2", Channel: model.ChannelKiosk, LocationID: loc.ID,
		Subtotal: decimal.RequireFromString("6.00"), VATAmount: decimal.RequireFromString("0.33"),
		Total: decimal.RequireFromString("6.33"), PaymentMethod: model.PaymentCard,
		IsPaid: true, Status: model.SaleStatusCompleted,
	}
	require.NoError(t, db.Omit("Lines").Create(s).Error)
	line := &model.SaleLine{
		SaleID: s.ID, ProductID: p.ID, Position: 1, Quantity: decimal.NewFromInt(2),
		UnitPrice: p.BasePrice, VATRate: p.VATRate,
	}
	require.NoError(t, db.Omit("Product").Create(line).Error)
	return s
}

func receiptJob(t *testing.T, saleID uuid.UUID, email string) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(ReceiptJobPayload{SaleID: saleID.String(), Email: email})
	require.NoError(t, err)
	return raw
}

func newTestWorker(db *gorm.DB, sender ReceiptSender, dir string) *ReceiptWorker {
	w := NewReceiptWorker(repository.NewSaleRepository(db), sender, "Verger du Coin", dir)
	w.retryBase = time.Millisecond
	return w
}

func TestReceiptWorker_SendsRenderedPDF(t *testing.T) {
	db := newWorkerDB(t)
	sale := seedSale(t, db)
	sender := &fakeSender{enabled: true}
	w := newTestWorker(db, sender, t.TempDir())

	require.NoError(t, w.Process(context.Background(), receiptJob(t, sale.ID, "elise@example.fr")))

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "elise@example.fr", sender.to)
	assert.Contains(t, sender.subject, sale.SaleNumber)
	_, err := os.Stat(sender.pdfPath)
	assert.NoError(t, err)
}

func TestReceiptWorker_RetriesThenSucceeds(t *testing.T) {
	db := newWorkerDB(t)
	sale := seedSale(t, db)
	sender := &fakeSender{enabled: true, failures: 2}
	w := newTestWorker(db, sender, t.TempDir())

	require.NoError(t, w.Process(context.Background(), receiptJob(t, sale.ID, "elise@example.fr")))
	assert.Equal(t, 3, sender.calls)
}

func TestReceiptWorker_ReturnsErrorWhenEveryAttemptFails(t *testing.T) {
	db := newWorkerDB(t)
	sale := seedSale(t, db)
	sender := &fakeSender{enabled: true, failures: receiptAttempts}
	w := newTestWorker(db, sender, t.TempDir())

	err := w.Process(context.Background(), receiptJob(t, sale.ID, "elise@example.fr"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), sale.SaleNumber)
	assert.Equal(t, receiptAttempts, sender.calls)
}

func TestReceiptWorker_DropsWithoutSending(t *testing.T) {
	db := newWorkerDB(t)
	sale := seedSale(t, db)

	tests := []struct {
		name    string
		enabled bool
		raw     json.RawMessage
	}{
		{"smtp disabled", false, receiptJob(t, sale.ID, "elise@example.fr")},
		{"unknown sale", true, receiptJob(t, uuid.New(), "elise@example.fr")},
		{"missing email", true, receiptJob(t, sale.ID, "")},
		{"garbage payload", true, json.RawMessage(`"not an object"`)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sender := &fakeSender{enabled: tc.enabled}
			w := newTestWorker(db, sender, t.TempDir())
			assert.NoError(t, w.Process(context.Background(), tc.raw))
			assert.Zero(t, sender.calls)
		})
	}
}

func TestWithRetry_StopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := withRetry(ctx, 5, time.Hour, func(int) error {
		calls++
		cancel()
		return errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
