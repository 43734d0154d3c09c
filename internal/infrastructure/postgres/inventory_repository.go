package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo filas (producto, almacén) -> cantidad sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// GetForUpdate obtiene la fila y la bloquea (SELECT FOR UPDATE). Nil si no existe.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, storeID string) (*entity.InventoryRow, error) {
	query := `
		SELECT id, producto_id, almacen_id, cantidad, updated_at
		FROM inventory WHERE producto_id = $1 AND almacen_id = $2
		FOR UPDATE`
	var row entity.InventoryRow
	err := r.q.QueryRow(ctx, query, productID, storeID).Scan(
		&row.ID, &row.ProductID, &row.StoreID, &row.Quantity, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory for update: %w", err)
	}
	return &row, nil
}

// Upsert crea la fila del par (producto, almacén). Si una transacción concurrente la creó
// después del GetForUpdate, suma la cantidad a la existente en lugar de fallar.
func (r *InventoryRepo) Upsert(ctx context.Context, row *entity.InventoryRow) error {
	query := `
		INSERT INTO inventory (id, producto_id, almacen_id, cantidad, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (producto_id, almacen_id) DO UPDATE
		SET cantidad = inventory.cantidad + EXCLUDED.cantidad, updated_at = now()
		RETURNING id, cantidad, updated_at`
	err := r.q.QueryRow(ctx, query, row.ID, row.ProductID, row.StoreID, row.Quantity, row.UpdatedAt).
		Scan(&row.ID, &row.Quantity, &row.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto o almacén: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

// UpdateQuantity fija la cantidad de la fila.
func (r *InventoryRepo) UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET cantidad = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProduct borra todas las filas del producto y devuelve cuántas se borraron.
func (r *InventoryRepo) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE producto_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete inventory: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListBelowMinimum filas con cantidad menor al stock mínimo del producto. storeID vacío = todos.
func (r *InventoryRepo) ListBelowMinimum(ctx context.Context, storeID string) ([]entity.LowStockItem, error) {
	query := `
		SELECT p.id, p.nombre, s.id, s.nombre, i.cantidad, p.stock_minimo, p.stock_maximo
		FROM inventory i
		JOIN products p ON p.id = i.producto_id
		JOIN stores s ON s.id = i.almacen_id
		WHERE i.cantidad < p.stock_minimo
		  AND ($1 = '' OR i.almacen_id::text = $1)
		ORDER BY s.nombre, p.nombre`
	rows, err := r.q.Query(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	var out []entity.LowStockItem
	for rows.Next() {
		var it entity.LowStockItem
		if err := rows.Scan(&it.ProductID, &it.ProductName, &it.StoreID, &it.StoreName, &it.Quantity, &it.MinStock, &it.MaxStock); err != nil {
			return nil, fmt.Errorf("scan low stock: %w", err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
