package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// MsgInvalidStockInput mensaje de validación de la carga de stock.
const MsgInvalidStockInput = "Por favor ingrese una cantidad válida y seleccione un almacén."

// StockUseCase aplica entradas de stock: fila de inventario + movimiento en el ledger.
type StockUseCase struct {
	txRunner  TxRunner
	storeRepo repository.StoreRepository
	now       func() time.Time
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(txRunner TxRunner, storeRepo repository.StoreRepository) *StockUseCase {
	return &StockUseCase{txRunner: txRunner, storeRepo: storeRepo, now: time.Now}
}

// EntryResult fila resultante y movimiento registrado por ApplyEntryInTx.
type EntryResult struct {
	Row      *entity.InventoryRow
	Movement *entity.Movement
}

// ValidateEntry rechaza cantidades no positivas o almacén vacío, sin tocar la BD.
func ValidateEntry(storeID string, qty decimal.Decimal) error {
	if storeID == "" || !qty.GreaterThan(decimal.Zero) {
		return domain.Invalid(MsgInvalidStockInput)
	}
	return nil
}

// AddStock suma qty al producto en el almacén y registra la entrada en el ledger.
func (uc *StockUseCase) AddStock(ctx context.Context, in dto.AddStockRequest, userID string, n notify.Notifier) (*dto.AddStockResponse, error) {
	n = notify.OrDiscard(n)

	if err := ValidateEntry(in.StoreID, in.Quantity); err != nil {
		n.Notify(ctx, notify.Error("Error", MsgInvalidStockInput))
		return nil, err
	}
	if in.ProductID == "" {
		n.Notify(ctx, notify.Error("Error", "Producto requerido."))
		return nil, domain.Invalid("product_id es requerido")
	}

	store, err := uc.storeRepo.GetByID(ctx, in.StoreID)
	if err != nil {
		n.Notify(ctx, stockFailed())
		return nil, err
	}
	if store == nil {
		n.Notify(ctx, stockFailed())
		return nil, fmt.Errorf("almacén: %w", domain.ErrNotFound)
	}

	var res *EntryResult
	err = uc.txRunner.Run(ctx, func(
		invRepo repository.InventoryRepository,
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("producto: %w", domain.ErrNotFound)
		}
		res, err = ApplyEntryInTx(ctx, invRepo, movRepo, EntryInput{
			ProductID: in.ProductID,
			StoreID:   in.StoreID,
			Quantity:  in.Quantity,
			Notes:     entity.NoteManualAdjustment,
			UserID:    userID,
			Now:       uc.now(),
		})
		return err
	})
	if err != nil {
		n.Notify(ctx, stockFailed())
		return nil, err
	}

	n.Notify(ctx, notify.Success("Stock actualizado", "El inventario ha sido actualizado correctamente."))
	return &dto.AddStockResponse{
		Inventory: ToInventoryRowResponse(res.Row),
		Movement:  ToMovementResponse(res.Movement),
	}, nil
}

func stockFailed() notify.Outcome {
	return notify.Error("Error", "No se pudo actualizar el inventario. Intente nuevamente.")
}

// EntryInput datos de una entrada de stock.
type EntryInput struct {
	ProductID string
	StoreID   string
	Quantity  decimal.Decimal
	Notes     string
	UserID    string
	Now       time.Time
}

// ApplyEntryInTx ejecuta la secuencia de entrada con los repositorios del caller (misma transacción):
// busca la fila (FOR UPDATE), la incrementa o la inserta (sumando si otra tx la creó antes),
// y agrega un movimiento "entrada".
// Se reutiliza para el stock inicial al crear productos.
func ApplyEntryInTx(
	ctx context.Context,
	invRepo repository.InventoryRepository,
	movRepo repository.MovementRepository,
	in EntryInput,
) (*EntryResult, error) {
	if err := ValidateEntry(in.StoreID, in.Quantity); err != nil {
		return nil, err
	}
	if in.Now.IsZero() {
		in.Now = time.Now()
	}

	row, err := invRepo.GetForUpdate(ctx, in.ProductID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		row.Quantity = row.Quantity.Add(in.Quantity)
		row.UpdatedAt = in.Now
		if err := invRepo.UpdateQuantity(ctx, row.ID, row.Quantity); err != nil {
			return nil, err
		}
	} else {
		row = &entity.InventoryRow{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			StoreID:   in.StoreID,
			Quantity:  in.Quantity,
			UpdatedAt: in.Now,
		}
		if err := invRepo.Upsert(ctx, row); err != nil {
			return nil, err
		}
	}

	storeID := in.StoreID
	mov := &entity.Movement{
		ID:                 uuid.New().String(),
		Type:               entity.MovementTypeEntrada,
		ProductID:          in.ProductID,
		Quantity:           in.Quantity,
		DestinationStoreID: &storeID,
		Notes:              in.Notes,
		CreatedAt:          in.Now,
	}
	if in.UserID != "" {
		uid := in.UserID
		mov.CreatedBy = &uid
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return &EntryResult{Row: row, Movement: mov}, nil
}

// ToInventoryRowResponse mapea la fila a DTO.
func ToInventoryRowResponse(r *entity.InventoryRow) dto.InventoryRowResponse {
	return dto.InventoryRowResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		StoreID:   r.StoreID,
		Quantity:  r.Quantity,
		UpdatedAt: r.UpdatedAt,
	}
}

// ToMovementResponse mapea el movimiento a DTO.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:                 m.ID,
		Type:               m.Type,
		ProductID:          m.ProductID,
		Quantity:           m.Quantity,
		SourceStoreID:      m.SourceStoreID,
		DestinationStoreID: m.DestinationStoreID,
		Notes:              m.Notes,
		CreatedBy:          m.CreatedBy,
		CreatedAt:          m.CreatedAt,
	}
}
