package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductCreate_ConStockInicialMismaTransaccion(t *testing.T) {
	b := newProductBackend()
	uc := usecase.NewProductUseCase(b.products, b.tx)
	rec := notify.NewRecorder()

	out, err := uc.Create(context.Background(), dto.CreateProductRequest{
		Name:         "Aceite 1L",
		SalePrice:    decimal.NewFromInt(12000),
		InitialStock: decimal.NewFromInt(8),
		StoreID:      "store-1",
	}, "user-1", rec)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"tx.begin", "product.create", "inventory.get", "inventory.insert", "movement.create", "tx.commit",
	}, b.log.all())
	require.Len(t, b.mov.created, 1)
	assert.Equal(t, entity.NoteInitialStock, b.mov.created[0].Notes)
	assert.Equal(t, entity.MovementTypeEntrada, b.mov.created[0].Type)
	require.NotNil(t, out.Product.Quantity)
	assert.True(t, decimal.NewFromInt(8).Equal(*out.Product.Quantity))
	assert.Equal(t, []notify.Outcome{notify.Success("Producto agregado", "El producto ha sido agregado correctamente.")}, rec.Outcomes())
}

func TestProductCreate_SinStockInicialNoTocaInventario(t *testing.T) {
	b := newProductBackend()
	uc := usecase.NewProductUseCase(b.products, b.tx)

	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "Sal"}, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, b.log.count("inventory.insert"))
	assert.Equal(t, 0, b.log.count("movement.create"))
}

func TestProductCreate_Validaciones(t *testing.T) {
	cases := map[string]dto.CreateProductRequest{
		"sin nombre":                {Name: "  "},
		"precio negativo":           {Name: "X", SalePrice: decimal.NewFromInt(-1)},
		"mínimo mayor que máximo":   {Name: "X", MinStock: decimal.NewFromInt(10), MaxStock: decimal.NewFromInt(5)},
		"stock inicial sin almacén": {Name: "X", InitialStock: decimal.NewFromInt(3)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			b := newProductBackend()
			uc := usecase.NewProductUseCase(b.products, b.tx)
			rec := notify.NewRecorder()

			_, err := uc.Create(context.Background(), in, "", rec)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, b.log.all())
			require.Len(t, rec.Outcomes(), 1)
			assert.Equal(t, notify.LevelError, rec.Outcomes()[0].Level)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Update / Delete
// ──────────────────────────────────────────────────────────────────────────────

func TestProductUpdate_CamposParciales(t *testing.T) {
	b := newProductBackend()
	b.products.products["p-1"] = &entity.Product{ID: "p-1", Name: "Viejo", SalePrice: decimal.NewFromInt(5)}
	uc := usecase.NewProductUseCase(b.products, b.tx)
	rec := notify.NewRecorder()

	price := decimal.NewFromInt(7)
	out, err := uc.Update(context.Background(), "p-1", dto.UpdateProductRequest{SalePrice: &price}, rec)
	require.NoError(t, err)
	assert.Equal(t, "Viejo", out.Product.Name)
	assert.True(t, price.Equal(out.Product.SalePrice))
	assert.Equal(t, notify.LevelSuccess, rec.Outcomes()[0].Level)
}

func TestProductUpdate_NoExiste(t *testing.T) {
	b := newProductBackend()
	uc := usecase.NewProductUseCase(b.products, b.tx)

	_, err := uc.Update(context.Background(), "nada", dto.UpdateProductRequest{Name: strPtr("x")}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, b.log.count("product.update"))
}

func TestProductDelete_InventarioAntesQueProducto(t *testing.T) {
	b := newProductBackend()
	b.products.products["p-1"] = &entity.Product{ID: "p-1", Name: "Azúcar"}
	b.inv.rows = []*entity.InventoryRow{
		{ID: "i-1", ProductID: "p-1", StoreID: "s-1"},
		{ID: "i-2", ProductID: "p-1", StoreID: "s-2"},
		{ID: "i-3", ProductID: "p-2", StoreID: "s-1"},
	}
	uc := usecase.NewProductUseCase(b.products, b.tx)
	rec := notify.NewRecorder()

	require.NoError(t, uc.Delete(context.Background(), "p-1", rec))

	assert.Equal(t, []string{"tx.begin", "product.get", "inventory.delete", "product.delete", "tx.commit"}, b.log.all())
	assert.Len(t, b.inv.rows, 1)
	assert.Equal(t, []notify.Outcome{notify.Success("Producto eliminado", "El producto ha sido eliminado correctamente.")}, rec.Outcomes())
}

func TestProductDelete_NoExisteNoBorraInventario(t *testing.T) {
	b := newProductBackend()
	uc := usecase.NewProductUseCase(b.products, b.tx)
	rec := notify.NewRecorder()

	err := uc.Delete(context.Background(), "nada", rec)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, b.log.count("inventory.delete"))
	assert.Equal(t, []notify.Outcome{notify.Error("Error", "No se pudo eliminar el producto. Intente nuevamente.")}, rec.Outcomes())
}

// ──────────────────────────────────────────────────────────────────────────────
// List / Categories
// ──────────────────────────────────────────────────────────────────────────────

func listItem(id, name string, category *string, categoryName string) *entity.ProductListItem {
	return &entity.ProductListItem{
		Product:      entity.Product{ID: id, Name: name, CategoryID: category},
		CategoryName: categoryName,
		Quantity:     decimal.NewFromInt(1),
	}
}

func TestProductList_BusquedaSinAcentosNiMayusculas(t *testing.T) {
	b := newProductBackend()
	b.products.items = []*entity.ProductListItem{
		listItem("1", "Café Molido", nil, ""),
		listItem("2", "Arroz", nil, ""),
		listItem("3", "CAFETERA", nil, ""),
	}
	uc := usecase.NewProductUseCase(b.products, b.tx)

	out, err := uc.List(context.Background(), dto.ProductListRequest{Search: "cafe", StoreID: "s-1"})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "1", out.Items[0].ID)
	assert.Equal(t, "3", out.Items[1].ID)
	assert.Equal(t, entity.UncategorizedName, out.Items[0].CategoryName)
	assert.Equal(t, "s-1", b.products.filters[0].StoreID, "el filtro de almacén se resuelve en la BD")
}

func TestProductList_Paginacion(t *testing.T) {
	b := newProductBackend()
	for i := 0; i < 120; i++ {
		b.products.items = append(b.products.items, listItem(string(rune('A'+i%26)), "p", nil, ""))
	}
	uc := usecase.NewProductUseCase(b.products, b.tx)

	out, err := uc.List(context.Background(), dto.ProductListRequest{PageRequest: dto.PageRequest{Page: 3}})
	require.NoError(t, err)
	assert.Len(t, out.Items, 20)
	assert.Equal(t, 120, out.Page.Total)
	assert.Equal(t, 3, out.Page.TotalPages)
	assert.Equal(t, dto.DefaultPageSize, out.Page.PageSize)

	out, err = uc.List(context.Background(), dto.ProductListRequest{PageRequest: dto.PageRequest{Page: 9}})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestProductCategories_DistintasConSinCategoria(t *testing.T) {
	b := newProductBackend()
	b.products.items = []*entity.ProductListItem{
		listItem("1", "a", strPtr("c-2"), "Lácteos"),
		listItem("2", "b", nil, ""),
		listItem("3", "c", strPtr("c-1"), "Bebidas"),
		listItem("4", "d", strPtr("c-2"), "Lácteos"),
	}
	uc := usecase.NewProductUseCase(b.products, b.tx)

	out, err := uc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bebidas", "Lácteos", "Sin categoría"}, out)
}
