package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRow cantidad de un producto en un almacén. Como máximo una fila por (producto, almacén).
// Es un total derivado; la fuente de verdad es el ledger de movimientos.
type InventoryRow struct {
	ID        string
	ProductID string
	StoreID   string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}

// LowStockItem producto por debajo de su stock mínimo en un almacén.
type LowStockItem struct {
	ProductID   string
	ProductName string
	StoreID     string
	StoreName   string
	Quantity    decimal.Decimal
	MinStock    decimal.Decimal
	MaxStock    decimal.Decimal
}
