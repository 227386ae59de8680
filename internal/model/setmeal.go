package model

import "github.com/shopspring/decimal"

// Setmeal is a sellable combo. Its dishes live in SetmealDish rows and are
// always written as a complete set.
type Setmeal struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	CategoryID  int64           `gorm:"index;not null"`
	Name        string          `gorm:"size:64;uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      int             `gorm:"not null"`
	Description *string         `gorm:"size:255"`
	Image       string          `gorm:"size:255"`
	Audit
}

func (Setmeal) TableName() string { return "setmeal" }

// SetmealDish links one dish to a setmeal. Name and Price are a snapshot taken
// when the setmeal was saved.
type SetmealDish struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	SetmealID int64           `gorm:"index;not null"`
	DishID    int64           `gorm:"index;not null"`
	Name      string          `gorm:"size:64"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2)"`
	Copies    int             `gorm:"not null"`
}

func (SetmealDish) TableName() string { return "setmeal_dish" }
