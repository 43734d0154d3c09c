package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var (
	_ repository.StoreRepository    = (*StoreRepo)(nil)
	_ repository.UnitRepository     = (*UnitRepo)(nil)
	_ repository.CategoryRepository = (*CategoryRepo)(nil)
)

// StoreRepo almacenes.
type StoreRepo struct {
	q Querier
}

// NewStoreRepository construye el adaptador de almacenes.
func NewStoreRepository(q Querier) *StoreRepo {
	return &StoreRepo{q: q}
}

// List almacenes ordenados por nombre.
func (r *StoreRepo) List(ctx context.Context) ([]*entity.Store, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, COALESCE(direccion, ''), created_at FROM stores ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()
	var list []*entity.Store
	for rows.Next() {
		var s entity.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// GetByID almacén por ID. Nil si no existe o el ID no es un uuid.
func (r *StoreRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	var s entity.Store
	err := r.q.QueryRow(ctx,
		`SELECT id, nombre, COALESCE(direccion, ''), created_at FROM stores WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Address, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get store: %w", err)
	}
	return &s, nil
}

// UnitRepo unidades de medida.
type UnitRepo struct {
	q Querier
}

// NewUnitRepository construye el adaptador de unidades.
func NewUnitRepository(q Querier) *UnitRepo {
	return &UnitRepo{q: q}
}

// List unidades ordenadas por nombre.
func (r *UnitRepo) List(ctx context.Context) ([]*entity.Unit, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre, abreviatura FROM units ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()
	var list []*entity.Unit
	for rows.Next() {
		var u entity.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.Abbrev); err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// CategoryRepo categorías.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de categorías.
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// List categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT id, nombre FROM categories ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
