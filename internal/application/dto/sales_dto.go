package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopSellingProductResponse producto más vendido en el período.
type TopSellingProductResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TopSellingResponse ranking para el gráfico de ventas.
type TopSellingResponse struct {
	Range   string                      `json:"range"`
	StoreID *string                     `json:"store_id"`
	From    time.Time                   `json:"from"`
	To      time.Time                   `json:"to"`
	Items   []TopSellingProductResponse `json:"items"`
}

// SalesSummaryResponse totales del período.
type SalesSummaryResponse struct {
	Range      string          `json:"range"`
	StoreID    *string         `json:"store_id"`
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	SalesCount int64           `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	ItemsSold  decimal.Decimal `json:"items_sold"`
	AvgTicket  decimal.Decimal `json:"avg_ticket"`
}
