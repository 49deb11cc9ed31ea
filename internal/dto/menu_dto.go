package dto

import "github.com/shopspring/decimal"

// MenuItemRequest is used for both create and full-field update.
type MenuItemRequest struct {
	Name     string          `json:"name"     validate:"required,min=1,max=120"`
	Price    decimal.Decimal `json:"price"    validate:"required,gt=0"`
	Category string          `json:"category" validate:"required,min=1,max=50"`
	Recipe   string          `json:"recipe"`
	Image    string          `json:"image"    validate:"omitempty,url"`
}
