package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
)

var _ repository.SessionRepository = (*SessionStore)(nil)

type sessionEntry struct {
	s         entity.Session
	expiresAt time.Time
}

// SessionStore almacén de sesiones en proceso con TTL. Se usa cuando no hay Redis configurado.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]sessionEntry
	now     func() time.Time
}

// NewSessionStore construye el almacén vacío.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]sessionEntry), now: time.Now}
}

// Save guarda una copia de la sesión. ttl <= 0 = sin expiración.
func (m *SessionStore) Save(_ context.Context, s *entity.Session, ttl time.Duration) error {
	e := sessionEntry{s: *s}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[s.ID] = e
	m.mu.Unlock()
	return nil
}

// Get devuelve una copia o nil si no existe o expiró.
func (m *SessionStore) Get(_ context.Context, id string) (*entity.Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt) {
		m.mu.Lock()
		if cur, ok := m.entries[id]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(m.entries, id)
		}
		m.mu.Unlock()
		return nil, nil
	}
	s := e.s
	return &s, nil
}

// Delete elimina la sesión. No falla si no existe.
func (m *SessionStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}
