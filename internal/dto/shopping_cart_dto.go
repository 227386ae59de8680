package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// ShoppingCartRequest names one purchasable item: a dish (optionally with a
// flavour) or a setmeal. The owner always comes from the token, never the body.
type ShoppingCartRequest struct {
	DishID     *int64  `json:"dish_id"     validate:"omitempty,gt=0"`
	SetmealID  *int64  `json:"setmeal_id"  validate:"omitempty,gt=0"`
	DishFlavor *string `json:"dish_flavor" validate:"omitempty,max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ShoppingCartResponse struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Image      string          `json:"image"`
	DishID     *int64          `json:"dish_id"`
	SetmealID  *int64          `json:"setmeal_id"`
	DishFlavor *string         `json:"dish_flavor"`
	Number     int             `json:"number"`
	Amount     decimal.Decimal `json:"amount"`
	CreateTime time.Time       `json:"create_time"`
}
