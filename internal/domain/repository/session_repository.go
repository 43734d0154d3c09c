package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// SessionRepository almacén de sesiones (Redis o memoria). Get devuelve nil si no existe o expiró.
type SessionRepository interface {
	Save(ctx context.Context, s *entity.Session, ttl time.Duration) error
	Get(ctx context.Context, id string) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
