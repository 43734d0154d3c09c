package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/session"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// Locals keys que deja RequireRole.
const (
	LocalRole     = "role"
	LocalSnapshot = "role_snapshot"
)

// ResolverSource contrato mínimo para obtener el resolver de una sesión.
// Lo implementa *session.Registry; el uso de interfaz evita el import circular.
type ResolverSource interface {
	Open(sessionID string) *session.Resolver
}

// RequireRole devuelve un middleware que exige uno de los roles dados.
// Debe usarse DESPUÉS de AuthMiddleware (necesita LocalSessionID).
//
// Comportamiento:
//   - Espera hasta settle a que el resolver de la sesión salga de "resolving".
//   - 401 si la sesión no quedó autenticada.
//   - admin pasa siempre.
//   - 403 FORBIDDEN si ninguna asignación coincide.
func RequireRole(src ResolverSource, settle time.Duration, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := GetSessionID(c)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no encontrada en el contexto"})
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), settle)
		defer cancel()
		snap, err := src.Open(sessionID).AwaitSettled(ctx)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ROLES_PENDING", Message: "los roles de la sesión aún se están cargando, intente de nuevo"})
		}
		if snap.State != session.StateAuthenticated {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión no autenticada"})
		}

		role, ok := matchRole(snap, roles)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "no tiene permisos para este recurso"})
		}
		c.Locals(LocalRole, role)
		c.Locals(LocalSnapshot, snap)
		return c.Next()
	}
}

func matchRole(snap session.Snapshot, roles []string) (string, bool) {
	if snap.IsAdmin() {
		return entity.RoleAdmin, true
	}
	for _, r := range roles {
		if snap.HasRole(r) {
			return r, true
		}
	}
	return "", false
}

// GetRole rol con el que RequireRole autorizó la petición.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

// CanAccessStore indica si la petición puede operar sobre el almacén.
// Los roles globales ven todos; sales solo los suyos.
func CanAccessStore(c *fiber.Ctx, storeID string) bool {
	snap, ok := c.Locals(LocalSnapshot).(session.Snapshot)
	if !ok {
		return false
	}
	if snap.IsAdmin() || snap.HasRole(entity.RoleManager) {
		return true
	}
	for _, id := range snap.StoreIDs() {
		if id == storeID {
			return true
		}
	}
	return false
}
