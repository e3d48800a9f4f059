package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/metrics"
	"github.com/wasssssim/verger-du-coin/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const receiptAttempts = 3

// ReceiptSender delivers a rendered receipt. *infra.Mailer satisfies it.
type ReceiptSender interface {
	Enabled() bool
	SendReceipt(to, subject, body, pdfPath string) error
}

// ReceiptWorker renders the PDF receipt of a sale and mails it to the
// customer address captured at enqueue time.
type ReceiptWorker struct {
	sales      repository.SaleRepository
	sender     ReceiptSender
	shopName   string
	storageDir string
	retryBase  time.Duration
}

func NewReceiptWorker(sales repository.SaleRepository, sender ReceiptSender, shopName, storageDir string) *ReceiptWorker {
	return &ReceiptWorker{
		sales:      sales,
		sender:     sender,
		shopName:   shopName,
		storageDir: storageDir,
		retryBase:  time.Second,
	}
}

// Process handles one receipt job. Undecodable payloads and deleted sales are
// dropped; a send that keeps failing is returned so the pool dead-letters it.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil || payload.Email == "" {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: incomplete payload")
		return nil
	}
	if !w.sender.Enabled() {
		log.Debug().Str("sale_id", payload.SaleID).Msg("receipt_worker: SMTP not configured, skipping")
		return nil
	}

	sale, err := w.sales.FindByID(ctx, saleID, repository.SalePreloads...)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Str("sale_id", payload.SaleID).Msg("receipt_worker: sale no longer exists")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load sale: %w", err)
	}

	pdfPath, err := infra.RenderReceiptPDF(sale, w.shopName, w.storageDir)
	if err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}

	subject := fmt.Sprintf("%s - ticket %s", w.shopName, sale.SaleNumber)
	body := fmt.Sprintf("Merci pour votre achat !\nVotre ticket est en pièce jointe.\nTotal TTC : %s EUR", sale.Total.StringFixed(2))

	err = withRetry(ctx, receiptAttempts, w.retryBase, func(attempt int) error {
		if err := w.sender.SendReceipt(payload.Email, subject, body, pdfPath); err != nil {
			metrics.ReceiptJobs.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Int("attempt", attempt+1).Str("sale_number", sale.SaleNumber).
				Msg("receipt_worker: send failed")
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("send receipt %s: %w", sale.SaleNumber, err)
	}

	metrics.ReceiptJobs.WithLabelValues("sent").Inc()
	log.Info().Str("sale_number", sale.SaleNumber).Msg("receipt_worker: receipt sent")
	return nil
}

// withRetry calls fn up to maxAttempts times, waiting base, 2*base, 4*base…
// between attempts. Returns the last error when every attempt fails.
func withRetry(ctx context.Context, maxAttempts int, base time.Duration, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(base << uint(i-1)):
			}
		}
		if lastErr = fn(i); lastErr == nil {
			return nil
		}
	}
	return lastErr
}
