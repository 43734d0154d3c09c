package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

// UserUpdateNotifier avisa a las sesiones abiertas de un usuario que sus roles cambiaron.
type UserUpdateNotifier interface {
	NotifyUserUpdated(ctx context.Context, userID string)
}

// RoleUseCase administración de roles. También es la fuente de roles del resolver de sesión.
type RoleUseCase struct {
	roles   repository.RoleRepository
	users   repository.UserRepository
	updates UserUpdateNotifier
	now     func() time.Time
}

// NewRoleUseCase construye el caso de uso. updates puede ser nil.
func NewRoleUseCase(roles repository.RoleRepository, users repository.UserRepository, updates UserUpdateNotifier) *RoleUseCase {
	return &RoleUseCase{roles: roles, users: users, updates: updates, now: time.Now}
}

// SetUpdateNotifier conecta el registro de sesiones después de construirlo.
// El registro depende de RolesOf, así que se enlazan en dos pasos.
func (uc *RoleUseCase) SetUpdateNotifier(updates UserUpdateNotifier) {
	uc.updates = updates
}

// RolesOf devuelve las asignaciones del usuario.
func (uc *RoleUseCase) RolesOf(ctx context.Context, userID string) ([]entity.RoleAssignment, error) {
	return uc.roles.ListByUser(ctx, userID)
}

func validateAssign(in *dto.AssignRoleRequest) error {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return domain.Invalid("ID de usuario con formato inválido")
	}
	if !entity.IsValidRole(in.Role) {
		return domain.Invalid(fmt.Sprintf("Rol inválido: %q", in.Role))
	}
	if !entity.RoleRequiresStore(in.Role) {
		in.StoreID = nil
		return nil
	}
	if in.StoreID == nil || *in.StoreID == "" {
		return domain.Invalid("El rol de ventas requiere un almacén")
	}
	return nil
}

// Assign asigna un rol. Si el usuario ya lo tiene no inserta y reporta un resultado informativo.
func (uc *RoleUseCase) Assign(ctx context.Context, in dto.AssignRoleRequest, n notify.Notifier) (*dto.AssignRoleResponse, error) {
	n = notify.OrDiscard(n)
	if err := validateAssign(&in); err != nil {
		n.Notify(ctx, notify.Error("Error al asignar rol", err.Error()))
		return nil, err
	}

	existing, err := uc.roles.Find(ctx, in.UserID, in.Role, in.StoreID)
	if err != nil {
		n.Notify(ctx, notify.Error("Error al asignar rol", err.Error()))
		return nil, err
	}
	if existing != nil {
		return alreadyAssigned(ctx, existing, n), nil
	}

	a := &entity.RoleAssignment{
		ID:        uuid.New().String(),
		UserID:    in.UserID,
		Role:      in.Role,
		StoreID:   in.StoreID,
		CreatedAt: uc.now(),
	}
	if err := uc.roles.Create(ctx, a); err != nil {
		// otra petición la insertó entre Find y Create
		if errors.Is(err, domain.ErrDuplicate) {
			existing, _ := uc.roles.Find(ctx, in.UserID, in.Role, in.StoreID)
			return alreadyAssigned(ctx, existing, n), nil
		}
		n.Notify(ctx, notify.Error("Error al asignar rol", err.Error()))
		return nil, err
	}

	n.Notify(ctx, notify.Success("Rol asignado correctamente", ""))
	uc.userUpdated(ctx, a.UserID)
	resp := ToRoleAssignmentResponse(*a)
	return &dto.AssignRoleResponse{Created: true, Assignment: &resp}, nil
}

func alreadyAssigned(ctx context.Context, existing *entity.RoleAssignment, n notify.Notifier) *dto.AssignRoleResponse {
	n.Notify(ctx, notify.Info("El usuario ya tiene este rol asignado", ""))
	out := &dto.AssignRoleResponse{Created: false}
	if existing != nil {
		resp := ToRoleAssignmentResponse(*existing)
		out.Assignment = &resp
	}
	return out
}

// Remove elimina una asignación y avisa a las sesiones del usuario.
func (uc *RoleUseCase) Remove(ctx context.Context, id string, n notify.Notifier) error {
	n = notify.OrDiscard(n)
	a, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		n.Notify(ctx, notify.Error("Error al eliminar rol", err.Error()))
		return err
	}
	if a == nil {
		err := fmt.Errorf("rol %s: %w", id, domain.ErrNotFound)
		n.Notify(ctx, notify.Error("Error al eliminar rol", err.Error()))
		return err
	}
	if err := uc.roles.Delete(ctx, id); err != nil {
		n.Notify(ctx, notify.Error("Error al eliminar rol", err.Error()))
		return err
	}
	n.Notify(ctx, notify.Success("Rol eliminado correctamente", ""))
	uc.userUpdated(ctx, a.UserID)
	return nil
}

func (uc *RoleUseCase) userUpdated(ctx context.Context, userID string) {
	if uc.updates != nil {
		uc.updates.NotifyUserUpdated(ctx, userID)
	}
}

// ListUsers usuarios con sus asignaciones de rol (incluye nombre del almacén).
func (uc *RoleUseCase) ListUsers(ctx context.Context) ([]dto.UserWithRolesResponse, error) {
	users, err := uc.users.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := uc.roles.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string][]dto.RoleAssignmentResponse, len(users))
	for _, a := range all {
		byUser[a.UserID] = append(byUser[a.UserID], ToRoleAssignmentResponse(a))
	}
	out := make([]dto.UserWithRolesResponse, 0, len(users))
	for _, u := range users {
		roles := byUser[u.ID]
		if roles == nil {
			roles = []dto.RoleAssignmentResponse{}
		}
		out = append(out, dto.UserWithRolesResponse{UserResponse: *toUserResponse(u), Roles: roles})
	}
	return out, nil
}

// ToRoleAssignmentResponse convierte una asignación a su DTO.
func ToRoleAssignmentResponse(a entity.RoleAssignment) dto.RoleAssignmentResponse {
	return dto.RoleAssignmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		Role:      a.Role,
		StoreID:   a.StoreID,
		StoreName: a.StoreName,
		CreatedAt: a.CreatedAt,
	}
}
