package dto

import "github.com/shopspring/decimal"

type CartItemRequest struct {
	Email  string          `json:"email"  validate:"required,email"`
	MenuID string          `json:"menuId" validate:"required"`
	Name   string          `json:"name"`
	Image  string          `json:"image"`
	Price  decimal.Decimal `json:"price"  validate:"gte=0"`
}
