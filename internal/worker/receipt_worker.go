package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipt: renders the PDF receipt of a
// recorded payment and hands it to QueueEmail for delivery.

import (
	"context"
	"encoding/json"
	"fmt"

	"bistro/internal/infra"
	"bistro/internal/model"
	"bistro/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type emailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

// ReceiptWorker builds receipts from the payments and menu collections.
type ReceiptWorker struct {
	payments    repository.PaymentRepository
	menu        repository.MenuRepository
	emails      emailEnqueuer
	storagePath string
}

func NewReceiptWorker(payments repository.PaymentRepository, menu repository.MenuRepository, emails emailEnqueuer, storagePath string) *ReceiptWorker {
	return &ReceiptWorker{payments: payments, menu: menu, emails: emails, storagePath: storagePath}
}

// Process handles a single receipt job:
//  1. Load the payment
//  2. Resolve its menu item ids (unknown ids are skipped)
//  3. Render the PDF
//  4. Enqueue the email job
//
// A payload that can never succeed is logged and acknowledged.
func (w *ReceiptWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return nil
	}
	id, err := repository.ParseID(payload.PaymentID)
	if err != nil {
		log.Error().Str("payment_id", payload.PaymentID).Msg("receipt_worker: invalid payment_id")
		return nil
	}

	payment, err := w.payments.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("receipt_worker: load payment %s: %w", payload.PaymentID, err)
	}

	items, err := w.menu.FindByIDs(ctx, payment.MenuItemIDs)
	if err != nil {
		return fmt.Errorf("receipt_worker: load menu items: %w", err)
	}

	path, err := infra.GenerateReceiptPDF(payment, receiptLines(payment.MenuItemIDs, items), w.storagePath)
	if err != nil {
		return err
	}

	err = w.emails.EnqueueEmail(ctx, EmailJobPayload{
		ToEmail: payment.Email,
		Subject: "Your Bistro Boss receipt",
		Body:    fmt.Sprintf("Thanks for your order! Transaction %s, total $%s.", payment.TransactionID, decimal.NewFromFloat(payment.Price).StringFixed(2)),
		PDFPath: path,
	})
	if err != nil {
		return fmt.Errorf("receipt_worker: enqueue email: %w", err)
	}
	log.Info().Str("payment_id", payload.PaymentID).Str("pdf", path).Msg("receipt_worker: receipt generated")
	return nil
}

// receiptLines keeps purchase order and repeats; ids without a menu document are dropped.
func receiptLines(ids []primitive.ObjectID, items []model.MenuItem) []infra.ReceiptLine {
	byID := make(map[primitive.ObjectID]model.MenuItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	lines := make([]infra.ReceiptLine, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			continue
		}
		lines = append(lines, infra.ReceiptLine{Name: it.Name, Price: decimal.NewFromFloat(it.Price)})
	}
	return lines
}
