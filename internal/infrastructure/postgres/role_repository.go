package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo asignaciones de user_roles sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador de roles.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

const roleSelect = `
	SELECT ur.id, ur.user_id, ur.role, ur.almacen_id, COALESCE(s.nombre, ''), ur.created_at
	FROM user_roles ur
	LEFT JOIN stores s ON s.id = ur.almacen_id`

func scanRole(row pgx.Row) (*entity.RoleAssignment, error) {
	var a entity.RoleAssignment
	if err := row.Scan(&a.ID, &a.UserID, &a.Role, &a.StoreID, &a.StoreName, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// Find asignación exacta (usuario, rol, almacén). storeID nil busca almacen_id IS NULL.
func (r *RoleRepo) Find(ctx context.Context, userID, role string, storeID *string) (*entity.RoleAssignment, error) {
	query := roleSelect + `
		WHERE ur.user_id = $1 AND ur.role = $2 AND ur.almacen_id IS NOT DISTINCT FROM $3::uuid
		LIMIT 1`
	a, err := scanRole(r.q.QueryRow(ctx, query, userID, role, storeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return a, nil
}

// Create inserta la asignación. Una asignación igual creada en paralelo devuelve ErrDuplicate.
func (r *RoleRepo) Create(ctx context.Context, a *entity.RoleAssignment) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO user_roles (id, user_id, role, almacen_id, created_at) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.UserID, a.Role, a.StoreID, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("usuario o almacén: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetByID asignación por ID. Nil si no existe.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*entity.RoleAssignment, error) {
	a, err := scanRole(r.q.QueryRow(ctx, roleSelect+` WHERE ur.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidUUID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return a, nil
}

// Delete elimina la asignación.
func (r *RoleRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser asignaciones del usuario. Es la consulta que repite el resolver.
func (r *RoleRepo) ListByUser(ctx context.Context, userID string) ([]entity.RoleAssignment, error) {
	return r.list(ctx, roleSelect+` WHERE ur.user_id = $1 ORDER BY ur.created_at`, userID)
}

// ListAll todas las asignaciones (administración).
func (r *RoleRepo) ListAll(ctx context.Context) ([]entity.RoleAssignment, error) {
	return r.list(ctx, roleSelect+` ORDER BY ur.user_id, ur.created_at`)
}

func (r *RoleRepo) list(ctx context.Context, query string, args ...any) ([]entity.RoleAssignment, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()
	out := make([]entity.RoleAssignment, 0)
	for rows.Next() {
		a, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
