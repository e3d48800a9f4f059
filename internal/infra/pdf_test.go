package infra

import (
	"os"
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceiptPDF(t *testing.T) {
	sale := &model.Sale{
		SaleNumber:    "K20261016143005-3FA2",
		PaymentMethod: model.PaymentCash,
		Subtotal:      decimal.RequireFromString("15.00"),
		VATAmount:     decimal.RequireFromString("0.83"),
		Total:         decimal.RequireFromString("15.83"),
		CreatedAt:     time.Date(2026, 10, 16, 14, 30, 5, 0, time.UTC),
		Customer:      &model.Customer{FirstName: "Élise", LastName: "Rousseau"},
		Lines: []model.SaleLine{
			{
				ProductID: uuid.New(),
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("3.00"),
				VATRate:   decimal.RequireFromString("5.5"),
				Product:   &model.Product{Name: "Pommes Reine des Reinettes"},
			},
			{
				ProductID:       uuid.New(),
				Quantity:        decimal.NewFromInt(1),
				UnitPrice:       decimal.RequireFromString("10.00"),
				VATRate:         decimal.RequireFromString("5.5"),
				DiscountPercent: decimal.NewFromInt(10),
			},
		},
	}

	path, err := RenderReceiptPDF(sale, "Verger du Coin", t.TempDir())
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(500))
	assert.Contains(t, path, "receipt_K20261016143005-3FA2.pdf")
}
