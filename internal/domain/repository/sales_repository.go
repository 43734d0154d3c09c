package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// SalesRepository consultas de lectura sobre ventas.
type SalesRepository interface {
	TopSelling(ctx context.Context, w entity.SalesWindow, limit int) ([]entity.TopSellingProduct, error)
	CountSales(ctx context.Context, w entity.SalesWindow) (int64, error)
	Revenue(ctx context.Context, w entity.SalesWindow) (decimal.Decimal, error)
	ItemsSold(ctx context.Context, w entity.SalesWindow) (decimal.Decimal, error)
}
