package model

// Category types.
const (
	CategoryTypeDish    = 1
	CategoryTypeSetmeal = 2
)

// Category groups dishes or setmeals on the menu.
type Category struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Type   int    `gorm:"index;not null"`
	Name   string `gorm:"size:32;uniqueIndex;not null"`
	Sort   int    `gorm:"not null;default:0"`
	Status int    `gorm:"not null"`
	Audit
}

func (Category) TableName() string { return "category" }
