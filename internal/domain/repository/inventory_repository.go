package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// InventoryRepository puerto de las filas de inventario (producto, almacén) -> cantidad.
// Usado dentro de transacciones para garantizar consistencia con el ledger.
type InventoryRepository interface {
	// GetForUpdate devuelve la fila bloqueada (SELECT FOR UPDATE) o nil si no existe.
	GetForUpdate(ctx context.Context, productID, storeID string) (*entity.InventoryRow, error)
	// Upsert inserta la fila o, si otra transacción ya la creó, le suma row.Quantity.
	// Deja en row el id, la cantidad y la fecha resultantes.
	Upsert(ctx context.Context, row *entity.InventoryRow) error
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
	ListBelowMinimum(ctx context.Context, storeID string) ([]entity.LowStockItem, error)
}
