package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// CategoryRepository lectura de categorías.
type CategoryRepository interface {
	List(ctx context.Context) ([]*entity.Category, error)
}
