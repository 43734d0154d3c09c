package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger.
const (
	MovementTypeEntrada  = "entrada"
	MovementTypeSalida   = "salida"
	MovementTypeTraslado = "traslado"
	MovementTypeAjuste   = "ajuste"
)

// Notas estándar de los movimientos de entrada.
const (
	NoteManualAdjustment = "Actualización manual de inventario"
	NoteInitialStock     = "Stock inicial"
)

// Movement entrada del ledger de inventario. Append-only: nunca se actualiza ni se borra.
type Movement struct {
	ID                 string
	Type               string
	ProductID          string
	Quantity           decimal.Decimal
	SourceStoreID      *string
	DestinationStoreID *string
	Notes              string
	CreatedBy          *string
	CreatedAt          time.Time
}
