package repository

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// RoleRepository puerto de user_roles. No hay constraint único: la unicidad se verifica con Find.
type RoleRepository interface {
	// Find busca una asignación exacta (storeID nil = sin almacén). Nil si no existe.
	Find(ctx context.Context, userID, role string, storeID *string) (*entity.RoleAssignment, error)
	Create(ctx context.Context, a *entity.RoleAssignment) error
	GetByID(ctx context.Context, id string) (*entity.RoleAssignment, error)
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]entity.RoleAssignment, error)
	ListAll(ctx context.Context) ([]entity.RoleAssignment, error)
}
