package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// MovementRepository puerto del ledger de movimientos (append-only).
type MovementRepository interface {
	Create(ctx context.Context, m *entity.Movement) error
	List(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, int, error)
}
