package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type PaymentIntentRequest struct {
	Price decimal.Decimal `json:"price" validate:"required,gt=0"`
}

// CreatePaymentRequest is posted by the client after the processor confirmed the charge.
type CreatePaymentRequest struct {
	Email         string          `json:"email"         validate:"required,email"`
	Price         decimal.Decimal `json:"price"         validate:"gte=0"`
	TransactionID string          `json:"transactionId" validate:"required"`
	Date          *time.Time      `json:"date"`
	CartIDs       []string        `json:"cartIds"       validate:"required"`
	MenuItemIDs   []string        `json:"menuItemIds"`
	Status        string          `json:"status"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type PaymentResponse struct {
	PaymentResult InsertResult `json:"paymentResult"`
	DeleteResult  DeleteResult `json:"deleteResult"`
}
