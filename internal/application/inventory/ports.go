package inventory

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la fila de inventario y su movimiento en el ledger se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}
