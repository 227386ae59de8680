package dto

import "github.com/shopspring/decimal"

// CatalogItem is the read-only snapshot the cart needs from the catalog.
type CatalogItem struct {
	ID     int64           `json:"id"`
	Name   string          `json:"name"`
	Image  string          `json:"image"`
	Price  decimal.Decimal `json:"price"`
	Status int             `json:"status"`
}
