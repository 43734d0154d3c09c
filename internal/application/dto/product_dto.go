package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/notify"
)

// CreateProductRequest entrada para crear un producto, con stock inicial opcional.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	CategoryID    *string         `json:"category_id"`
	UnitID        *string         `json:"unit_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	MinStock      decimal.Decimal `json:"min_stock"`
	MaxStock      decimal.Decimal `json:"max_stock"`
	InitialStock  decimal.Decimal `json:"initial_stock"`
	StoreID       string          `json:"store_id"`
}

// UpdateProductRequest entrada para actualizar un producto (campos nil no se tocan).
type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	CategoryID    *string          `json:"category_id"`
	UnitID        *string          `json:"unit_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SalePrice     *decimal.Decimal `json:"sale_price"`
	MinStock      *decimal.Decimal `json:"min_stock"`
	MaxStock      *decimal.Decimal `json:"max_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	CategoryID    *string          `json:"category_id"`
	CategoryName  string           `json:"category_name,omitempty"`
	UnitID        *string          `json:"unit_id"`
	UnitName      string           `json:"unit_name,omitempty"`
	UnitAbbrev    string           `json:"unit_abbrev,omitempty"`
	PurchasePrice decimal.Decimal  `json:"purchase_price"`
	SalePrice     decimal.Decimal  `json:"sale_price"`
	MinStock      decimal.Decimal  `json:"min_stock"`
	MaxStock      decimal.Decimal  `json:"max_stock"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ProductMutationResponse producto creado o actualizado más los resultados.
type ProductMutationResponse struct {
	Product  ProductResponse  `json:"product"`
	Outcomes []notify.Outcome `json:"outcomes"`
}

// ProductListRequest filtros del listado.
type ProductListRequest struct {
	StoreID    string `query:"store_id"`
	CategoryID string `query:"category_id"`
	Search     string `query:"search"`
	PageRequest
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
