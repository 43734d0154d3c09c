package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rangos de tiempo para reportes de ventas.
const (
	RangeDaily   = "daily"
	RangeWeekly  = "weekly"
	RangeMonthly = "monthly"
)

// TopSellingProduct producto con su cantidad vendida e ingresos en un período.
type TopSellingProduct struct {
	ProductID string
	Name      string
	Quantity  decimal.Decimal
	Revenue   decimal.Decimal
}

// SalesWindow período y almacén (opcional) de un reporte.
type SalesWindow struct {
	From    time.Time
	To      time.Time
	StoreID *string
}
