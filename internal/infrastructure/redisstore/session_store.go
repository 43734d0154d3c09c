package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

const sessionKeyPrefix = "session:"

// SessionStore sesiones serializadas en JSON con TTL nativo de Redis.
type SessionStore struct {
	rdb redis.Cmdable
}

// NewSessionStore construye el almacén de sesiones.
func NewSessionStore(rdb redis.Cmdable) *SessionStore {
	return &SessionStore{rdb: rdb}
}

func sessionKey(id string) string { return sessionKeyPrefix + id }

// Save guarda la sesión. ttl <= 0 = sin expiración.
func (s *SessionStore) Save(ctx context.Context, sess *entity.Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := s.rdb.Set(ctx, sessionKey(sess.ID), b, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get devuelve la sesión o nil si no existe o expiró.
func (s *SessionStore) Get(ctx context.Context, id string) (*entity.Session, error) {
	b, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	var sess entity.Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete elimina la sesión.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
