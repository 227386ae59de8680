package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type DishRequest struct {
	CategoryID  int64           `json:"category_id" validate:"required,gt=0"`
	Name        string          `json:"name"        validate:"required,min=2,max=64"`
	Price       decimal.Decimal `json:"price"       validate:"min=0"`
	Image       string          `json:"image"       validate:"max=255"`
	Description *string         `json:"description" validate:"omitempty,max=255"`
	Status      *int            `json:"status"      validate:"omitempty,oneof=0 1"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type DishFilter struct {
	Name       string `form:"name"`
	CategoryID int64  `form:"category_id"`
	Status     *int   `form:"status"           validate:"omitempty,oneof=0 1"`
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DishResponse struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"category_id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description *string         `json:"description"`
	Status      int             `json:"status"`
	UpdateTime  time.Time       `json:"update_time"`
}

type DishListResponse struct {
	Data       []DishResponse `json:"data"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}
