package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShoppingCart is one aggregated line of a user's cart.
// Exactly one of DishID / SetmealID is set. Amount is the unit price captured
// on the first add and is never refreshed afterwards.
type ShoppingCart struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"size:64;not null" json:"name"`
	Image      string          `gorm:"size:255" json:"image"`
	UserID     int64           `gorm:"index;not null" json:"user_id"`
	DishID     *int64          `gorm:"index" json:"dish_id"`
	SetmealID  *int64          `gorm:"index" json:"setmeal_id"`
	DishFlavor *string         `gorm:"size:64" json:"dish_flavor"`
	Number     int             `gorm:"not null" json:"number"`
	Amount     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreateTime time.Time       `json:"create_time"`
}

func (ShoppingCart) TableName() string { return "shopping_cart" }

// CartKey identifies a cart line. Nil fields match SQL NULL, so a dish line
// and a setmeal line with the same numeric id are distinct.
type CartKey struct {
	UserID     int64
	DishID     *int64
	SetmealID  *int64
	DishFlavor *string
}
