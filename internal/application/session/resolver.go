// Package session mantiene, por sesión, la identidad autenticada y su conjunto de roles,
// sincronizados con el flujo de eventos de autenticación.
package session

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/pkg/retry"
)

// State estado del resolver.
type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateResolving       State = "resolving"
	StateAuthenticated   State = "authenticated"
)

// Snapshot copia inmutable del estado del resolver.
type Snapshot struct {
	SessionID    string                  `json:"session_id"`
	State        State                   `json:"state"`
	UserID       string                  `json:"user_id,omitempty"`
	Email        string                  `json:"email,omitempty"`
	Roles        []entity.RoleAssignment `json:"roles"`
	RetryAttempt int                     `json:"retry_attempt"`
	LastError    string                  `json:"last_error,omitempty"`
}

// HasRole indica si alguna asignación tiene uno de los roles dados.
func (s Snapshot) HasRole(roles ...string) bool {
	for _, a := range s.Roles {
		for _, r := range roles {
			if a.Role == r {
				return true
			}
		}
	}
	return false
}

// IsAdmin indica si la sesión tiene el rol admin.
func (s Snapshot) IsAdmin() bool {
	return s.HasRole(entity.RoleAdmin)
}

// StoreIDs almacenes a los que el rol sales da acceso.
func (s Snapshot) StoreIDs() []string {
	var ids []string
	for _, a := range s.Roles {
		if a.Role == entity.RoleSales && a.StoreID != nil {
			ids = append(ids, *a.StoreID)
		}
	}
	return ids
}

// Deps dependencias del resolver.
type Deps struct {
	Fetcher  RoleFetcher
	Sessions SessionLookup
	Events   EventSource
	Policy   retry.Policy
	Log      zerolog.Logger
}

// Resolver resuelve la identidad de una sesión a sus roles.
// Se construye explícitamente, se arranca con Start y se detiene con Stop.
type Resolver struct {
	sessionID string
	deps      Deps
	log       zerolog.Logger

	mu            sync.RWMutex
	state         State
	session       *entity.Session
	roles         []entity.RoleAssignment
	lastErr       error
	attempt       int
	settled       chan struct{}
	settledClosed bool
	publishedSeq  int64
	reloadGen     int64

	group   singleflight.Group
	loadSeq atomic.Int64
	fetches atomic.Int64

	ctx         context.Context
	cancel      context.CancelFunc
	seed        *entity.AuthEvent
	unsubscribe func()
	loopDone    chan struct{}
	loads       sync.WaitGroup
	startOnce   sync.Once
	stopOnce    sync.Once
}

// NewResolver construye un resolver en estado resolving. No se suscribe hasta Start.
func NewResolver(sessionID string, deps Deps) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		sessionID: sessionID,
		deps:      deps,
		log:       deps.Log.With().Str("session_id", sessionID).Logger(),
		state:     StateResolving,
		settled:   make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
		loopDone:  make(chan struct{}),
	}
}

// Start se suscribe a los eventos de la sesión, hace la verificación de sesión existente
// y procesa eventos en segundo plano hasta Stop.
func (r *Resolver) Start() {
	r.startOnce.Do(func() {
		ch, unsub := r.deps.Events.Subscribe(r.sessionID)
		r.unsubscribe = unsub
		go r.run(ch)
	})
}

// startWith arranca usando ev como primer evento en lugar de la verificación inicial.
func (r *Resolver) startWith(ev entity.AuthEvent) {
	r.seed = &ev
	r.Start()
}

// Stop cancela la suscripción, procesa los eventos pendientes y espera las cargas en curso.
func (r *Resolver) Stop() {
	r.stopOnce.Do(func() {
		// sin Start previo no hay ciclo que esperar
		r.startOnce.Do(func() { close(r.loopDone) })
		if r.unsubscribe != nil {
			r.unsubscribe()
		}
		<-r.loopDone
		r.cancel()
		r.loads.Wait()
	})
}

func (r *Resolver) run(ch <-chan entity.AuthEvent) {
	defer close(r.loopDone)

	if r.seed != nil {
		r.handle(*r.seed)
	} else {
		r.initialize()
	}

	for ev := range ch {
		r.handle(ev)
	}
}

// initialize verificación de "sesión existente" al arrancar.
func (r *Resolver) initialize() {
	s, err := r.deps.Sessions.CurrentSession(r.ctx, r.sessionID)
	if err != nil {
		r.log.Error().Err(err).Msg("verificación inicial de sesión")
		r.clear()
		return
	}
	if s == nil {
		r.clear()
		return
	}
	r.setSession(s)
	r.reload(s.UserID, true)
}

func (r *Resolver) handle(ev entity.AuthEvent) {
	r.log.Debug().Str("event", string(ev.Type)).Msg("evento de autenticación")

	if ev.Type == entity.AuthSignedOut || ev.Session == nil || ev.Session.UserID == "" {
		r.clear()
		return
	}

	switch ev.Type {
	case entity.AuthSignedIn:
		r.setSession(ev.Session)
		r.reload(ev.Session.UserID, true)
	case entity.AuthTokenRefreshed:
		r.setSession(ev.Session)
		r.mu.Lock()
		hasRoles := len(r.roles) > 0
		if hasRoles {
			r.setStateLocked(StateAuthenticated)
		}
		r.mu.Unlock()
		if !hasRoles {
			r.reload(ev.Session.UserID, true)
		}
	default:
		r.setSession(ev.Session)
		r.reload(ev.Session.UserID, false)
	}
}

// reload entra en resolving y dispara la carga sin bloquear el ciclo de eventos.
func (r *Resolver) reload(userID string, force bool) {
	r.mu.Lock()
	if r.state != StateAuthenticated || force {
		r.setStateLocked(StateResolving)
	}
	r.reloadGen++
	gen := r.reloadGen
	r.mu.Unlock()

	r.loads.Add(1)
	go func() {
		defer r.loads.Done()
		// Los errores del flujo automático ya quedaron en el log y en un conjunto vacío.
		<-r.loadChan(userID, force)
		r.finishResolving(userID, gen)
	}()
}

// finishResolving pasa a authenticated solo si gen es la última recarga disparada;
// una recarga reemplazada deja el estado a cargo de la más reciente.
func (r *Resolver) finishResolving(userID string, gen int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.reloadGen {
		return
	}
	if r.session != nil && r.session.UserID == userID && r.state == StateResolving {
		r.setStateLocked(StateAuthenticated)
	}
}

// LoadRoles carga los roles del usuario. Con force=false se une a la carga en curso si existe;
// con force=true siempre inicia una nueva. La carga no se cancela si ctx termina: el llamador
// deja de esperar y el resultado igual se publica.
func (r *Resolver) LoadRoles(ctx context.Context, userID string, force bool) ([]entity.RoleAssignment, error) {
	select {
	case res := <-r.loadChan(userID, force):
		roles, _ := res.Val.([]entity.RoleAssignment)
		return roles, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (r *Resolver) loadChan(userID string, force bool) <-chan singleflight.Result {
	if force {
		r.group.Forget(userID)
	}
	return r.group.DoChan(userID, func() (interface{}, error) {
		return r.load(userID)
	})
}

func (r *Resolver) load(userID string) ([]entity.RoleAssignment, error) {
	seq := r.loadSeq.Add(1)

	roles, attempts, err := retry.Do(r.ctx, r.deps.Policy,
		func(ctx context.Context, attempt int) ([]entity.RoleAssignment, error) {
			r.mu.Lock()
			r.attempt = attempt
			r.mu.Unlock()
			r.fetches.Add(1)
			r.log.Debug().Str("user_id", userID).Int("attempt", attempt).Msg("consultando roles")
			return r.deps.Fetcher.RolesOf(ctx, userID)
		},
		func(rs []entity.RoleAssignment) bool { return len(rs) > 0 },
	)
	if err != nil {
		r.log.Warn().Err(err).Str("user_id", userID).Int("attempts", attempts).Msg("error cargando roles")
		r.publish(seq, userID, []entity.RoleAssignment{}, err)
		return []entity.RoleAssignment{}, err
	}
	if roles == nil {
		roles = []entity.RoleAssignment{}
	}
	if len(roles) == 0 {
		r.log.Warn().Str("user_id", userID).Int("attempts", attempts).Msg("usuario sin roles asignados")
	} else {
		r.log.Info().Str("user_id", userID).Int("roles", len(roles)).Int("attempts", attempts).Msg("roles cargados")
	}
	r.publish(seq, userID, roles, nil)
	return roles, nil
}

// publish aplica el resultado si la identidad no cambió y no hay uno más reciente publicado.
func (r *Resolver) publish(seq int64, userID string, roles []entity.RoleAssignment, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil || r.session.UserID != userID {
		r.log.Debug().Str("user_id", userID).Msg("resultado de roles descartado: la identidad cambió")
		return
	}
	if seq < r.publishedSeq {
		return
	}
	r.publishedSeq = seq
	r.roles = roles
	r.lastErr = err
	r.attempt = 0
}

// RefreshRoles refresco manual. Solo con force=true reporta el resultado al notifier.
func (r *Resolver) RefreshRoles(ctx context.Context, force bool, n notify.Notifier) ([]entity.RoleAssignment, error) {
	r.mu.RLock()
	s := r.session
	r.mu.RUnlock()
	if s == nil {
		return nil, domain.ErrSessionNotFound
	}

	roles, err := r.LoadRoles(ctx, s.UserID, force)
	if !force {
		return roles, err
	}
	n = notify.OrDiscard(n)
	if err != nil {
		n.Notify(ctx, notify.Error("Error al actualizar roles", "Intenta nuevamente más tarde"))
		return nil, err
	}
	if len(roles) == 0 {
		n.Notify(ctx, notify.Warning("No se encontraron roles", "No tienes ningún rol asignado en el sistema"))
	} else {
		n.Notify(ctx, notify.Success(fmt.Sprintf("%d roles cargados correctamente", len(roles)), ""))
	}
	return roles, nil
}

// Snapshot devuelve una copia del estado actual.
func (r *Resolver) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *Resolver) snapshotLocked() Snapshot {
	snap := Snapshot{
		SessionID:    r.sessionID,
		State:        r.state,
		Roles:        append([]entity.RoleAssignment{}, r.roles...),
		RetryAttempt: r.attempt,
	}
	if r.session != nil {
		snap.UserID = r.session.UserID
		snap.Email = r.session.Email
	}
	if r.lastErr != nil {
		snap.LastError = r.lastErr.Error()
	}
	return snap
}

// Session devuelve una copia de la sesión actual o nil.
func (r *Resolver) Session() *entity.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.session == nil {
		return nil
	}
	s := *r.session
	return &s
}

// AwaitSettled espera a que el estado deje de ser resolving y devuelve el snapshot.
func (r *Resolver) AwaitSettled(ctx context.Context) (Snapshot, error) {
	for {
		r.mu.RLock()
		if r.state != StateResolving {
			snap := r.snapshotLocked()
			r.mu.RUnlock()
			return snap, nil
		}
		ch := r.settled
		r.mu.RUnlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return r.Snapshot(), ctx.Err()
		}
	}
}

// Fetches cantidad de consultas de roles realizadas (incluye reintentos).
func (r *Resolver) Fetches() int64 {
	return r.fetches.Load()
}

func (r *Resolver) setSession(s *entity.Session) {
	cp := *s
	r.mu.Lock()
	if r.session != nil && r.session.UserID != cp.UserID {
		r.roles = nil
		r.lastErr = nil
	}
	r.session = &cp
	r.mu.Unlock()
}

func (r *Resolver) clear() {
	r.mu.Lock()
	r.session = nil
	r.roles = nil
	r.lastErr = nil
	r.attempt = 0
	r.setStateLocked(StateUnauthenticated)
	r.mu.Unlock()
}

func (r *Resolver) setStateLocked(s State) {
	r.state = s
	if s == StateResolving {
		if r.settledClosed {
			r.settled = make(chan struct{})
			r.settledClosed = false
		}
		return
	}
	if !r.settledClosed {
		close(r.settled)
		r.settledClosed = true
	}
}
