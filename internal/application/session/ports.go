package session

import (
	"context"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// RoleFetcher consulta las asignaciones de rol de un usuario.
type RoleFetcher interface {
	RolesOf(ctx context.Context, userID string) ([]entity.RoleAssignment, error)
}

// SessionLookup verificación de "sesión existente" que hace el resolver al arrancar.
// Devuelve nil, nil si la sesión no existe o expiró.
type SessionLookup interface {
	CurrentSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

// EventSource flujo de eventos de autenticación de una sesión.
// La función devuelta cancela la suscripción y cierra el canal.
type EventSource interface {
	Subscribe(sessionID string) (<-chan entity.AuthEvent, func())
}

// EventPublisher publica eventos de autenticación.
type EventPublisher interface {
	Publish(ctx context.Context, ev entity.AuthEvent) error
}

// EventBus fuente y publicador a la vez (bus en proceso).
type EventBus interface {
	EventSource
	EventPublisher
}
