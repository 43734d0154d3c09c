package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo ledger de movimientos (append-only) sobre PostgreSQL.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create registra un movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (id, tipo, producto_id, cantidad, almacen_origen_id, almacen_destino_id, notas, usuario_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Type, m.ProductID, m.Quantity, m.SourceStoreID, m.DestinationStoreID,
		m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// List movimientos más recientes primero, con el total para paginar. productID vacío = todos.
func (r *MovementRepo) List(ctx context.Context, productID string, limit, offset int) ([]*entity.Movement, int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM movements WHERE ($1 = '' OR producto_id::text = $1)`, productID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", err)
	}

	query := `
		SELECT id, tipo, producto_id, cantidad, almacen_origen_id, almacen_destino_id, notas, usuario_id, created_at
		FROM movements
		WHERE ($1 = '' OR producto_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.Movement
	for rows.Next() {
		var m entity.Movement
		if err := rows.Scan(
			&m.ID, &m.Type, &m.ProductID, &m.Quantity, &m.SourceStoreID, &m.DestinationStoreID,
			&m.Notes, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, total, rows.Err()
}
