package model

import "github.com/shopspring/decimal"

// Dish is a standalone menu item.
type Dish struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	CategoryID  int64           `gorm:"index;not null"`
	Name        string          `gorm:"size:64;uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Image       string          `gorm:"size:255"`
	Description *string         `gorm:"size:255"`
	Status      int             `gorm:"not null"`
	Audit
}

func (Dish) TableName() string { return "dish" }
