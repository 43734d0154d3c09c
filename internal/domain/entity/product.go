package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo. El stock se maneja por almacén en InventoryRow.
type Product struct {
	ID            string
	Name          string
	CategoryID    *string
	UnitID        *string
	PurchasePrice decimal.Decimal
	SalePrice     decimal.Decimal
	MinStock      decimal.Decimal
	MaxStock      decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ProductListItem producto con datos de catálogo resueltos y cantidad en stock (por almacén o total).
type ProductListItem struct {
	Product
	CategoryName string
	UnitName     string
	UnitAbbrev   string
	Quantity     decimal.Decimal
}
