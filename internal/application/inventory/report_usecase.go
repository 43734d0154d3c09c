package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// ReportUseCase consultas de solo lectura: productos bajo mínimo y ledger de movimientos.
type ReportUseCase struct {
	invRepo repository.InventoryRepository
	movRepo repository.MovementRepository
}

// NewReportUseCase construye el caso de uso de reportes de inventario.
func NewReportUseCase(invRepo repository.InventoryRepository, movRepo repository.MovementRepository) *ReportUseCase {
	return &ReportUseCase{invRepo: invRepo, movRepo: movRepo}
}

// LowStock productos por debajo de su stock mínimo. storeID vacío = todos los almacenes.
// La cantidad sugerida es la necesaria para llegar al stock máximo.
func (uc *ReportUseCase) LowStock(ctx context.Context, storeID string) ([]dto.LowStockItemResponse, error) {
	items, err := uc.invRepo.ListBelowMinimum(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockItemResponse, 0, len(items))
	for _, it := range items {
		suggested := it.MaxStock.Sub(it.Quantity)
		if suggested.LessThan(decimal.Zero) {
			suggested = decimal.Zero
		}
		out = append(out, dto.LowStockItemResponse{
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			StoreID:      it.StoreID,
			StoreName:    it.StoreName,
			Quantity:     it.Quantity,
			MinStock:     it.MinStock,
			MaxStock:     it.MaxStock,
			SuggestedQty: suggested,
		})
	}
	return out, nil
}

// Movements ledger paginado, opcionalmente filtrado por producto.
func (uc *ReportUseCase) Movements(ctx context.Context, productID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.Normalize()
	list, total, err := uc.movRepo.List(ctx, productID, page.PageSize, page.Offset())
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}
