package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/pkg/retry"
)

// Registry mantiene un Resolver por sesión abierta y despacha los eventos de autenticación.
type Registry struct {
	fetcher  RoleFetcher
	sessions SessionLookup
	bus      EventBus
	policy   retry.Policy
	log      zerolog.Logger

	mu        sync.Mutex
	resolvers map[string]*Resolver
	closed    bool
}

// NewRegistry construye el registro de resolvers.
func NewRegistry(fetcher RoleFetcher, sessions SessionLookup, bus EventBus, policy retry.Policy, log zerolog.Logger) *Registry {
	return &Registry{
		fetcher:   fetcher,
		sessions:  sessions,
		bus:       bus,
		policy:    policy,
		log:       log,
		resolvers: make(map[string]*Resolver),
	}
}

func (g *Registry) newResolver(sessionID string) *Resolver {
	return NewResolver(sessionID, Deps{
		Fetcher:  g.fetcher,
		Sessions: g.sessions,
		Events:   g.bus,
		Policy:   g.policy,
		Log:      g.log,
	})
}

// Open devuelve el resolver de la sesión, creándolo y arrancándolo si no existe.
// Un resolver nuevo hace la verificación de sesión existente.
func (g *Registry) Open(sessionID string) *Resolver {
	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.resolvers[sessionID]; ok {
		return r
	}
	if g.closed {
		return g.stoppedResolver(sessionID)
	}
	r := g.newResolver(sessionID)
	g.resolvers[sessionID] = r
	r.Start()
	return r
}

// stoppedResolver resolver sin identidad y ya detenido, para peticiones que llegan tras CloseAll.
func (g *Registry) stoppedResolver(sessionID string) *Resolver {
	r := g.newResolver(sessionID)
	r.clear()
	r.Stop()
	return r
}

// Get devuelve el resolver si la sesión está abierta.
func (g *Registry) Get(sessionID string) (*Resolver, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.resolvers[sessionID]
	return r, ok
}

// SignedIn abre el resolver con SIGNED_IN como primer evento o lo publica si ya estaba abierto.
func (g *Registry) SignedIn(ctx context.Context, s *entity.Session) error {
	ev := entity.AuthEvent{Type: entity.AuthSignedIn, SessionID: s.ID, Session: s}

	g.mu.Lock()
	if _, ok := g.resolvers[s.ID]; ok {
		g.mu.Unlock()
		return g.bus.Publish(ctx, ev)
	}
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	r := g.newResolver(s.ID)
	g.resolvers[s.ID] = r
	r.startWith(ev)
	g.mu.Unlock()
	return nil
}

// TokenRefreshed publica TOKEN_REFRESHED. Si la sesión no estaba abierta, la abre.
func (g *Registry) TokenRefreshed(ctx context.Context, s *entity.Session) error {
	if _, ok := g.Get(s.ID); !ok {
		g.Open(s.ID)
		return nil
	}
	return g.bus.Publish(ctx, entity.AuthEvent{Type: entity.AuthTokenRefreshed, SessionID: s.ID, Session: s})
}

// SignedOut publica SIGNED_OUT y cierra el resolver de la sesión.
func (g *Registry) SignedOut(ctx context.Context, sessionID string) error {
	err := g.bus.Publish(ctx, entity.AuthEvent{Type: entity.AuthSignedOut, SessionID: sessionID})
	g.Close(sessionID)
	return err
}

// NotifyUserUpdated publica USER_UPDATED a todas las sesiones abiertas del usuario.
func (g *Registry) NotifyUserUpdated(ctx context.Context, userID string) {
	g.mu.Lock()
	targets := make([]*Resolver, 0, 1)
	for _, r := range g.resolvers {
		if s := r.Session(); s != nil && s.UserID == userID {
			targets = append(targets, r)
		}
	}
	g.mu.Unlock()

	for _, r := range targets {
		s := r.Session()
		if s == nil {
			continue
		}
		ev := entity.AuthEvent{Type: entity.AuthUserUpdated, SessionID: s.ID, Session: s}
		if err := g.bus.Publish(ctx, ev); err != nil {
			g.log.Warn().Err(err).Str("session_id", s.ID).Msg("publicar USER_UPDATED")
		}
	}
}

// Close detiene y elimina el resolver de la sesión.
func (g *Registry) Close(sessionID string) {
	g.mu.Lock()
	r, ok := g.resolvers[sessionID]
	delete(g.resolvers, sessionID)
	g.mu.Unlock()
	if ok {
		r.Stop()
	}
}

// CloseAll detiene todos los resolvers. Usado en el apagado.
func (g *Registry) CloseAll() {
	g.mu.Lock()
	all := g.resolvers
	g.resolvers = make(map[string]*Resolver)
	g.closed = true
	g.mu.Unlock()

	var wg sync.WaitGroup
	for _, r := range all {
		wg.Add(1)
		go func(r *Resolver) {
			defer wg.Done()
			r.Stop()
		}(r)
	}
	wg.Wait()
}

// Len cantidad de sesiones abiertas.
func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.resolvers)
}
