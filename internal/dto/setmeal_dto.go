package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

// SetmealDishRequest is one dish of a setmeal. Name and price are snapshotted
// from the dish table when the setmeal is saved.
type SetmealDishRequest struct {
	DishID int64 `json:"dish_id" validate:"required,gt=0"`
	Copies int   `json:"copies"  validate:"required,min=1"`
}

// SetmealRequest is used for both create and full update.
type SetmealRequest struct {
	CategoryID    int64                `json:"category_id"    validate:"required,gt=0"`
	Name          string               `json:"name"           validate:"required,min=2,max=64"`
	Price         decimal.Decimal      `json:"price"          validate:"min=0"`
	Status        *int                 `json:"status"         validate:"omitempty,oneof=0 1"`
	Description   *string              `json:"description"    validate:"omitempty,max=255"`
	Image         string               `json:"image"          validate:"max=255"`
	SetmealDishes []SetmealDishRequest `json:"setmeal_dishes" validate:"dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type SetmealFilter struct {
	Name       string `form:"name"`
	CategoryID int64  `form:"category_id"`
	Status     *int   `form:"status"           validate:"omitempty,oneof=0 1"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SetmealDishResponse struct {
	ID        int64           `json:"id"`
	SetmealID int64           `json:"setmeal_id"`
	DishID    int64           `json:"dish_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Copies    int             `json:"copies"`
}

type SetmealResponse struct {
	ID            int64                 `json:"id"`
	CategoryID    int64                 `json:"category_id"`
	Name          string                `json:"name"`
	Price         decimal.Decimal       `json:"price"`
	Status        int                   `json:"status"`
	Description   *string               `json:"description"`
	Image         string                `json:"image"`
	UpdateTime    time.Time             `json:"update_time"`
	SetmealDishes []SetmealDishResponse `json:"setmeal_dishes,omitempty"`
}

type SetmealListResponse struct {
	Data       []SetmealResponse `json:"data"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}
