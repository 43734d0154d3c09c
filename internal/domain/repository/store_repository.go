package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// StoreRepository lectura de almacenes.
type StoreRepository interface {
	List(ctx context.Context) ([]*entity.Store, error)
	GetByID(ctx context.Context, id string) (*entity.Store, error)
}

// UnitRepository lectura de unidades de medida.
type UnitRepository interface {
	List(ctx context.Context) ([]*entity.Unit, error)
}
