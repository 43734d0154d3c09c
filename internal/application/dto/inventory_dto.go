package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/notify"
)

// AddStockRequest body para POST /api/inventory/stock.
type AddStockRequest struct {
	ProductID string          `json:"product_id"`
	StoreID   string          `json:"store_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// InventoryRowResponse fila de inventario.
type InventoryRowResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	StoreID   string          `json:"store_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// MovementResponse entrada del ledger.
type MovementResponse struct {
	ID                 string          `json:"id"`
	Type               string          `json:"type"`
	ProductID          string          `json:"product_id"`
	Quantity           decimal.Decimal `json:"quantity"`
	SourceStoreID      *string         `json:"source_store_id,omitempty"`
	DestinationStoreID *string         `json:"destination_store_id,omitempty"`
	Notes              string          `json:"notes"`
	CreatedBy          *string         `json:"created_by,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
}

// AddStockResponse resultado de la secuencia de stock: fila resultante y movimiento registrado.
type AddStockResponse struct {
	Inventory InventoryRowResponse `json:"inventory"`
	Movement  MovementResponse     `json:"movement"`
	Outcomes  []notify.Outcome     `json:"outcomes"`
}

// MovementListResponse ledger paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// LowStockItemResponse producto bajo mínimo con cantidad sugerida hasta el máximo.
type LowStockItemResponse struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	StoreID      string          `json:"store_id"`
	StoreName    string          `json:"store_name"`
	Quantity     decimal.Decimal `json:"quantity"`
	MinStock     decimal.Decimal `json:"min_stock"`
	MaxStock     decimal.Decimal `json:"max_stock"`
	SuggestedQty decimal.Decimal `json:"suggested_qty"`
}
