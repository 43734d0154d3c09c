package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, nombre, categoria_id, unidad_id, precio_compra, precio_venta,
	stock_minimo, stock_maximo, created_at, updated_at`

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CategoryID, p.UnitID, p.PurchasePrice, p.SalePrice,
		p.MinStock, p.MaxStock, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.Invalid("Categoría o unidad inexistente")
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CategoryID, &p.UnitID, &p.PurchasePrice, &p.SalePrice,
		&p.MinStock, &p.MaxStock, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza los datos de catálogo del producto.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET nombre = $2, categoria_id = $3, unidad_id = $4, precio_compra = $5, precio_venta = $6,
		    stock_minimo = $7, stock_maximo = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.CategoryID, p.UnitID, p.PurchasePrice, p.SalePrice,
		p.MinStock, p.MaxStock, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) || isInvalidUUID(err) {
			return domain.Invalid("Categoría o unidad inexistente")
		}
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el producto. Las filas de inventario deben borrarse antes.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List productos con categoría, unidad y cantidad. Con StoreID solo los que tienen fila
// de inventario en ese almacén; sin StoreID la cantidad es la suma de todos los almacenes.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.ProductListItem, error) {
	var (
		query string
		args  []any
	)
	if f.StoreID != "" {
		query = `
			SELECT p.id, p.nombre, p.categoria_id, p.unidad_id, p.precio_compra, p.precio_venta,
			       p.stock_minimo, p.stock_maximo, p.created_at, p.updated_at,
			       COALESCE(c.nombre, ''), COALESCE(u.nombre, ''), COALESCE(u.abreviatura, ''), i.cantidad
			FROM products p
			JOIN inventory i ON i.producto_id = p.id AND i.almacen_id = $1
			LEFT JOIN categories c ON c.id = p.categoria_id
			LEFT JOIN units u ON u.id = p.unidad_id
			WHERE ($2 = '' OR p.categoria_id::text = $2)
			ORDER BY p.nombre`
		args = []any{f.StoreID, f.CategoryID}
	} else {
		query = `
			SELECT p.id, p.nombre, p.categoria_id, p.unidad_id, p.precio_compra, p.precio_venta,
			       p.stock_minimo, p.stock_maximo, p.created_at, p.updated_at,
			       COALESCE(c.nombre, ''), COALESCE(u.nombre, ''), COALESCE(u.abreviatura, ''),
			       COALESCE((SELECT SUM(i.cantidad) FROM inventory i WHERE i.producto_id = p.id), 0)
			FROM products p
			LEFT JOIN categories c ON c.id = p.categoria_id
			LEFT JOIN units u ON u.id = p.unidad_id
			WHERE ($1 = '' OR p.categoria_id::text = $1)
			ORDER BY p.nombre`
		args = []any{f.CategoryID}
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.ProductListItem
	for rows.Next() {
		var it entity.ProductListItem
		if err := rows.Scan(
			&it.ID, &it.Name, &it.CategoryID, &it.UnitID, &it.PurchasePrice, &it.SalePrice,
			&it.MinStock, &it.MaxStock, &it.CreatedAt, &it.UpdatedAt,
			&it.CategoryName, &it.UnitName, &it.UnitAbbrev, &it.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
