package service

import (
	"context"
	"fmt"
	"time"

	"bistro/internal/dto"
	"bistro/internal/infra"
	"bistro/internal/model"
	"bistro/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const paymentCurrency = "usd"

// ReceiptQueue schedules receipt generation for a recorded payment.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, paymentID string) error
}

type PaymentService interface {
	History(ctx context.Context, actor, email string) ([]model.Payment, error)
	CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
	Record(ctx context.Context, actor string, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
}

type paymentService struct {
	payments  repository.PaymentRepository
	carts     repository.CartRepository
	processor infra.PaymentProcessor
	receipts  ReceiptQueue // nil when no worker pool runs
	now       func() time.Time
}

func NewPaymentService(
	payments repository.PaymentRepository,
	carts repository.CartRepository,
	processor infra.PaymentProcessor,
	receipts ReceiptQueue,
) PaymentService {
	return &paymentService{
		payments:  payments,
		carts:     carts,
		processor: processor,
		receipts:  receipts,
		now:       time.Now,
	}
}

// History always requires the caller to be the owner of email.
func (s *paymentService) History(ctx context.Context, actor, email string) ([]model.Payment, error) {
	if actor != email {
		return nil, ErrForbidden
	}
	return s.payments.ListByEmail(ctx, email)
}

// CreateIntent charges price in USD; fractional cents are truncated.
func (s *paymentService) CreateIntent(ctx context.Context, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	amount, err := MinorUnits(req.Price)
	if err != nil {
		return nil, err
	}
	secret, err := s.processor.CreateIntent(ctx, amount, paymentCurrency)
	if err != nil {
		return nil, err
	}
	return &dto.PaymentIntentResponse{ClientSecret: secret}, nil
}

// MaxIntentMinorUnits is the largest amount Stripe accepts for one intent.
const MaxIntentMinorUnits = 99_999_999

var maxIntentCents = decimal.NewFromInt(MaxIntentMinorUnits)

// MinorUnits converts a currency amount to cents, truncating toward zero.
// Amounts that truncate below one cent or exceed MaxIntentMinorUnits are
// rejected with ErrAmountOutOfRange.
func MinorUnits(price decimal.Decimal) (int64, error) {
	cents := price.Mul(decimal.NewFromInt(100)).Truncate(0)
	if cents.LessThan(decimal.NewFromInt(1)) || cents.GreaterThan(maxIntentCents) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOutOfRange, price.String())
	}
	return cents.IntPart(), nil
}

// Record runs the two-step checkout write: insert the payment, then delete the
// paid cart entries. There is no compensation: when the delete fails the
// payment stays recorded and the error is returned.
func (s *paymentService) Record(ctx context.Context, actor string, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if err := checkOwner(actor, req.Email); err != nil {
		return nil, err
	}
	cartIDs, err := repository.ParseIDs(req.CartIDs)
	if err != nil {
		return nil, err
	}
	menuIDs, err := repository.ParseIDs(req.MenuItemIDs)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		Email:         req.Email,
		Price:         req.Price.InexactFloat64(),
		TransactionID: req.TransactionID,
		Date:          s.now().UTC(),
		CartIDs:       cartIDs,
		MenuItemIDs:   menuIDs,
		Status:        req.Status,
	}
	if req.Date != nil {
		p.Date = req.Date.UTC()
	}

	id, err := s.payments.Insert(ctx, p)
	if err != nil {
		return nil, err
	}

	deleted, err := s.carts.DeleteMany(ctx, cartIDs)
	if err != nil {
		log.Error().Err(err).
			Str("payment_id", id.Hex()).
			Int("cart_ids", len(cartIDs)).
			Msg("payment recorded but cart cleanup failed")
		return nil, fmt.Errorf("payment %s recorded, cart cleanup failed: %w", id.Hex(), err)
	}

	s.enqueueReceipt(ctx, id.Hex())

	return &dto.PaymentResponse{
		PaymentResult: insertResult(id),
		DeleteResult:  deleteResult(deleted),
	}, nil
}

func (s *paymentService) enqueueReceipt(ctx context.Context, paymentID string) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.EnqueueReceipt(context.WithoutCancel(ctx), paymentID); err != nil {
		log.Warn().Err(err).Str("payment_id", paymentID).Msg("failed to enqueue receipt job")
	}
}
