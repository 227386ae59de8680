package dto

import "time"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Type int    `json:"type" validate:"required,oneof=1 2"`
	Name string `json:"name" validate:"required,min=2,max=32"`
	Sort int    `json:"sort" validate:"min=0"`
}

type UpdateCategoryRequest struct {
	Name   *string `json:"name"   validate:"omitempty,min=2,max=32"`
	Sort   *int    `json:"sort"   validate:"omitempty,min=0"`
	Status *int    `json:"status" validate:"omitempty,oneof=0 1"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoryResponse struct {
	ID         int64     `json:"id"`
	Type       int       `json:"type"`
	Name       string    `json:"name"`
	Sort       int       `json:"sort"`
	Status     int       `json:"status"`
	UpdateTime time.Time `json:"update_time"`
}
