package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. El stock se maneja vía inventario y movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, now: time.Now}
}

// Create crea un producto. Con stock inicial > 0 registra la entrada "Stock inicial"
// en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, userID string, n notify.Notifier) (*dto.ProductMutationResponse, error) {
	n = notify.OrDiscard(n)
	if err := validateCreate(in); err != nil {
		n.Notify(ctx, notify.Error("Error", err.Error()))
		return nil, err
	}

	now := uc.now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		CategoryID:    emptyToNil(in.CategoryID),
		UnitID:        emptyToNil(in.UnitID),
		PurchasePrice: in.PurchasePrice,
		SalePrice:     in.SalePrice,
		MinStock:      in.MinStock,
		MaxStock:      in.MaxStock,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	var initial *inventory.EntryResult
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := productRepo.Create(ctx, product); err != nil {
			return err
		}
		if !in.InitialStock.GreaterThan(decimal.Zero) {
			return nil
		}
		var err error
		initial, err = inventory.ApplyEntryInTx(ctx, invRepo, movRepo, inventory.EntryInput{
			ProductID: product.ID,
			StoreID:   in.StoreID,
			Quantity:  in.InitialStock,
			Notes:     entity.NoteInitialStock,
			UserID:    userID,
			Now:       now,
		})
		return err
	})
	if err != nil {
		n.Notify(ctx, notify.Error("Error", "No se pudo agregar el producto. Intente nuevamente."))
		return nil, err
	}

	n.Notify(ctx, notify.Success("Producto agregado", "El producto ha sido agregado correctamente."))
	resp := toProductResponse(product)
	if initial != nil {
		q := initial.Row.Quantity
		resp.Quantity = &q
	}
	return &dto.ProductMutationResponse{Product: *resp}, nil
}

func validateCreate(in dto.CreateProductRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.Invalid("El nombre del producto es requerido.")
	}
	if err := validatePrices(in.PurchasePrice, in.SalePrice); err != nil {
		return err
	}
	if err := validateStockBounds(in.MinStock, in.MaxStock); err != nil {
		return err
	}
	if in.InitialStock.IsNegative() {
		return domain.Invalid("El stock inicial no puede ser negativo.")
	}
	if in.InitialStock.IsPositive() && in.StoreID == "" {
		return domain.Invalid(inventory.MsgInvalidStockInput)
	}
	return nil
}

func validatePrices(purchase, sale decimal.Decimal) error {
	if purchase.IsNegative() || sale.IsNegative() {
		return domain.Invalid("Los precios no pueden ser negativos.")
	}
	return nil
}

func validateStockBounds(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return domain.Invalid("Los límites de stock no pueden ser negativos.")
	}
	if maxStock.IsPositive() && minStock.GreaterThan(maxStock) {
		return domain.Invalid("El stock mínimo no puede superar al máximo.")
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. Las cantidades no se tocan (van por movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest, n notify.Notifier) (*dto.ProductMutationResponse, error) {
	n = notify.OrDiscard(n)
	failed := notify.Error("Error", "No se pudo actualizar el producto. Intente nuevamente.")

	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		n.Notify(ctx, failed)
		return nil, err
	}
	if product == nil {
		n.Notify(ctx, failed)
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		product.CategoryID = emptyToNil(in.CategoryID)
	}
	if in.UnitID != nil {
		product.UnitID = emptyToNil(in.UnitID)
	}
	if in.PurchasePrice != nil {
		product.PurchasePrice = *in.PurchasePrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}

	verr := validatePrices(product.PurchasePrice, product.SalePrice)
	if verr == nil {
		verr = validateStockBounds(product.MinStock, product.MaxStock)
	}
	if verr == nil && product.Name == "" {
		verr = domain.Invalid("El nombre del producto es requerido.")
	}
	if verr != nil {
		n.Notify(ctx, notify.Error("Error", verr.Error()))
		return nil, verr
	}

	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		n.Notify(ctx, failed)
		return nil, err
	}
	n.Notify(ctx, notify.Success("Producto actualizado", "El producto ha sido actualizado correctamente."))
	return &dto.ProductMutationResponse{Product: *toProductResponse(product)}, nil
}

// Delete elimina las filas de inventario del producto y luego el producto, en una transacción.
// El ledger de movimientos se conserva.
func (uc *ProductUseCase) Delete(ctx context.Context, id string, n notify.Notifier) error {
	n = notify.OrDiscard(n)
	err := uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if _, err := invRepo.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return productRepo.Delete(ctx, id)
	})
	if err != nil {
		n.Notify(ctx, notify.Error("Error", "No se pudo eliminar el producto. Intente nuevamente."))
		return err
	}
	n.Notify(ctx, notify.Success("Producto eliminado", "El producto ha sido eliminado correctamente."))
	return nil
}

// List lista productos con filtros de almacén y categoría (en BD) y búsqueda por nombre
// sin distinguir mayúsculas ni acentos. Paginado por página.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{StoreID: in.StoreID, CategoryID: in.CategoryID})
	if err != nil {
		return nil, err
	}
	if q := foldText(in.Search); q != "" {
		filtered := list[:0]
		for _, p := range list {
			if strings.Contains(foldText(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		list = filtered
	}

	page := in.PageRequest
	page.Normalize()
	total := len(list)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.PageSize
	if end > total {
		end = total
	}

	items := make([]dto.ProductResponse, 0, end-start)
	for _, p := range list[start:end] {
		items = append(items, toProductListResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(page, total)}, nil
}

// Categories nombres de categoría distintos entre los productos, ordenados.
// Los productos sin categoría aparecen como "Sin categoría".
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range list {
		name := p.CategoryName
		if p.CategoryID == nil || name == "" {
			name = entity.UncategorizedName
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		CategoryID:    p.CategoryID,
		UnitID:        p.UnitID,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		MinStock:      p.MinStock,
		MaxStock:      p.MaxStock,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toProductListResponse(p *entity.ProductListItem) dto.ProductResponse {
	r := toProductResponse(&p.Product)
	r.CategoryName = p.CategoryName
	if p.CategoryID == nil {
		r.CategoryName = entity.UncategorizedName
	}
	r.UnitName = p.UnitName
	r.UnitAbbrev = p.UnitAbbrev
	q := p.Quantity
	r.Quantity = &q
	return *r
}
