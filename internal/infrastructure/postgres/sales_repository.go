package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo consultas de lectura sobre sales y sale_items.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de ventas.
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// Filtro de período y almacén común. $1 desde, $2 hasta, $3 almacén (NULL = todos).
const salesWindowFilter = `
	v.created_at >= $1 AND v.created_at <= $2
	AND ($3::uuid IS NULL OR v.almacen_id = $3::uuid)`

// TopSelling productos con mayor cantidad vendida en el período.
func (r *SalesRepo) TopSelling(ctx context.Context, w entity.SalesWindow, limit int) ([]entity.TopSellingProduct, error) {
	query := `
		SELECT d.producto_id, COALESCE(p.nombre, ''), SUM(d.cantidad), SUM(d.subtotal)
		FROM sale_items d
		JOIN sales v ON v.id = d.venta_id
		LEFT JOIN products p ON p.id = d.producto_id
		WHERE ` + salesWindowFilter + `
		GROUP BY d.producto_id, p.nombre
		ORDER BY SUM(d.cantidad) DESC, p.nombre
		LIMIT $4`
	rows, err := r.q.Query(ctx, query, w.From, w.To, w.StoreID, limit)
	if err != nil {
		return nil, fmt.Errorf("top selling: %w", err)
	}
	defer rows.Close()

	out := make([]entity.TopSellingProduct, 0, limit)
	for rows.Next() {
		var t entity.TopSellingProduct
		if err := rows.Scan(&t.ProductID, &t.Name, &t.Quantity, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top selling: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// CountSales cantidad de ventas del período.
func (r *SalesRepo) CountSales(ctx context.Context, w entity.SalesWindow) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sales v WHERE `+salesWindowFilter, w.From, w.To, w.StoreID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count sales: %w", err)
	}
	return n, nil
}

// Revenue suma de totales del período.
func (r *SalesRepo) Revenue(ctx context.Context, w entity.SalesWindow) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(v.total), 0) FROM sales v WHERE `+salesWindowFilter, w.From, w.To, w.StoreID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sales revenue: %w", err)
	}
	return total, nil
}

// ItemsSold unidades vendidas en el período.
func (r *SalesRepo) ItemsSold(ctx context.Context, w entity.SalesWindow) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := `
		SELECT COALESCE(SUM(d.cantidad), 0)
		FROM sale_items d
		JOIN sales v ON v.id = d.venta_id
		WHERE ` + salesWindowFilter
	if err := r.q.QueryRow(ctx, query, w.From, w.To, w.StoreID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("items sold: %w", err)
	}
	return total, nil
}
