package usecase

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// CatalogUseCase lectura de almacenes, unidades y categorías para los selectores.
type CatalogUseCase struct {
	stores     repository.StoreRepository
	units      repository.UnitRepository
	categories repository.CategoryRepository
}

// NewCatalogUseCase construye el caso de uso. Los repos pueden venir envueltos en caché.
func NewCatalogUseCase(stores repository.StoreRepository, units repository.UnitRepository, categories repository.CategoryRepository) *CatalogUseCase {
	return &CatalogUseCase{stores: stores, units: units, categories: categories}
}

// ListStores lista los almacenes.
func (uc *CatalogUseCase) ListStores(ctx context.Context) ([]dto.StoreResponse, error) {
	list, err := uc.stores.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StoreResponse{ID: s.ID, Name: s.Name, Address: s.Address})
	}
	return out, nil
}

// ListUnits lista las unidades de medida.
func (uc *CatalogUseCase) ListUnits(ctx context.Context) ([]dto.UnitResponse, error) {
	list, err := uc.units.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UnitResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.UnitResponse{ID: u.ID, Name: u.Name, Abbrev: u.Abbrev})
	}
	return out, nil
}

// ListCategories lista las categorías.
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name})
	}
	return out, nil
}
