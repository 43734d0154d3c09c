package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/session"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/eventbus"
	apphttp "github.com/jhoicas/inventario-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-pos/pkg/jwt"
	"github.com/jhoicas/inventario-pos/pkg/retry"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "inventario-pos-test"
	testExpMin    = 60
	testSettle    = 2 * time.Second
	storeA        = "00000000-0000-0000-0000-00000000000a"
	storeB        = "00000000-0000-0000-0000-00000000000b"
)

// fakeBackend sesiones y roles en memoria. Implementa SessionChecker y RoleFetcher.
type fakeBackend struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	roles    map[string][]entity.RoleAssignment
	block    chan struct{}
}

func (b *fakeBackend) CurrentSession(_ context.Context, id string) (*entity.Session, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (b *fakeBackend) RolesOf(ctx context.Context, userID string) ([]entity.RoleAssignment, error) {
	if b.block != nil {
		select {
		case <-b.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]entity.RoleAssignment{}, b.roles[userID]...), nil
}

type testEnv struct {
	backend  *fakeBackend
	registry *session.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := &fakeBackend{
		sessions: make(map[string]*entity.Session),
		roles:    make(map[string][]entity.RoleAssignment),
	}
	bus := eventbus.New(zerolog.Nop(), 16)
	reg := session.NewRegistry(backend, backend, bus, retry.Fixed(1, 0), zerolog.Nop())
	t.Cleanup(func() {
		reg.CloseAll()
		bus.Close()
	})
	return &testEnv{backend: backend, registry: reg}
}

func roleOf(userID, role string, storeID *string) entity.RoleAssignment {
	return entity.RoleAssignment{ID: uuid.NewString(), UserID: userID, Role: role, StoreID: storeID}
}

// login crea una sesión viva con los roles dados y devuelve el header Authorization.
func (e *testEnv) login(t *testing.T, roles ...entity.RoleAssignment) (header, userID, sessionID string) {
	t.Helper()
	userID = uuid.NewString()
	sessionID = uuid.NewString()
	tok, exp, err := pkgjwt.Generate(pkgjwt.Params{
		Secret:     testJWTSecret,
		Issuer:     testIssuer,
		UserID:     userID,
		SessionID:  sessionID,
		Email:      "user@test.com",
		TokenType:  pkgjwt.TypeAccess,
		ExpMinutes: testExpMin,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")

	for i := range roles {
		roles[i].UserID = userID
	}
	e.backend.mu.Lock()
	e.backend.sessions[sessionID] = &entity.Session{ID: sessionID, UserID: userID, Email: "user@test.com", AccessToken: tok, ExpiresAt: exp}
	e.backend.roles[userID] = roles
	e.backend.mu.Unlock()
	return "Bearer " + tok, userID, sessionID
}

func (e *testEnv) authConfig() apphttp.AuthConfig {
	return apphttp.AuthConfig{JWTSecret: testJWTSecret, Sessions: e.backend, Resolvers: e.registry}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y la sesión
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func (e *testEnv) buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(e.authConfig()),
		apphttp.RequireRole(e.registry, testSettle, allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// doRequest lanza una petición GET a path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func bodyString(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(entity.RoleAdmin)
	header, _, _ := env.login(t, roleOf("", entity.RoleAdmin, nil))

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a ruta restringida a admin")
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestRequireRole_AdminPasaSiempre(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(entity.RoleManager)
	header, _, _ := env.login(t, roleOf("", entity.RoleAdmin, nil))

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin pasa aunque la ruta no lo liste")
}

func TestRequireRole_ManagerAccedeRutaMultiRol(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(entity.RoleManager, entity.RoleViewer)
	header, _, _ := env.login(t, roleOf("", entity.RoleManager, nil))

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, entity.RoleManager, body["role"])
}

func TestRequireRole_ViewerBloqueadoEnRutaAdmin(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(entity.RoleAdmin)
	header, _, _ := env.login(t, roleOf("", entity.RoleViewer, nil))

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "FORBIDDEN", "la respuesta de error debe incluir el código FORBIDDEN")
}

func TestRequireRole_UsuarioSinRoles_Retorna403(t *testing.T) {
	env := newTestEnv(t)
	app := env.buildTestApp(entity.RoleManager)
	header, _, _ := env.login(t)

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "autenticado sin roles no pasa")
}

func TestRequireRole_RolesPendientes_Retorna503(t *testing.T) {
	env := newTestEnv(t)
	env.backend.block = make(chan struct{})
	t.Cleanup(func() { close(env.backend.block) })

	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(env.authConfig()),
		apphttp.RequireRole(env.registry, 50*time.Millisecond, entity.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	header, _, _ := env.login(t, roleOf("", entity.RoleAdmin, nil))

	resp := doRequest(t, app, "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "ROLES_PENDING")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(entity.RoleAdmin), "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	resp := doRequest(t, env.buildTestApp(entity.RoleAdmin), "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "INVALID_TOKEN")
}

func TestAuthMiddleware_RefreshTokenNoSirveComoAccess(t *testing.T) {
	env := newTestEnv(t)
	tok, _, err := pkgjwt.Generate(pkgjwt.Params{
		Secret:     testJWTSecret,
		Issuer:     testIssuer,
		UserID:     uuid.NewString(),
		SessionID:  uuid.NewString(),
		TokenType:  pkgjwt.TypeRefresh,
		ExpMinutes: testExpMin,
	})
	require.NoError(t, err)

	resp := doRequest(t, env.buildTestApp(entity.RoleAdmin), "/protected", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SesionCerrada_Retorna401(t *testing.T) {
	env := newTestEnv(t)
	header, _, sid := env.login(t, roleOf("", entity.RoleAdmin, nil))
	env.backend.mu.Lock()
	delete(env.backend.sessions, sid)
	env.backend.mu.Unlock()

	resp := doRequest(t, env.buildTestApp(entity.RoleAdmin), "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, bodyString(t, resp), "SESSION_EXPIRED")
	assert.Equal(t, 0, env.registry.Len(), "no se abre resolver para una sesión inexistente")
}

func TestAuthMiddleware_AccessTokenRotadoYaNoSirve(t *testing.T) {
	env := newTestEnv(t)
	header, _, sid := env.login(t, roleOf("", entity.RoleAdmin, nil))
	env.backend.mu.Lock()
	env.backend.sessions[sid].AccessToken = "otro-token"
	env.backend.mu.Unlock()

	resp := doRequest(t, env.buildTestApp(entity.RoleAdmin), "/protected", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeSesion(t *testing.T) {
	env := newTestEnv(t)
	header, userID, sid := env.login(t)

	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(env.authConfig()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"session_id": apphttp.GetSessionID(c),
		})
	})

	resp := doRequest(t, app, "/me", header)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, userID, body["user_id"])
	assert.Equal(t, sid, body["session_id"])

	_, open := env.registry.Get(sid)
	assert.True(t, open, "el middleware abre el resolver de la sesión")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests CanAccessStore
// ──────────────────────────────────────────────────────────────────────────────

func storeApp(env *testEnv) *fiber.App {
	app := fiber.New()
	app.Get("/stores/:id",
		apphttp.AuthMiddleware(env.authConfig()),
		apphttp.RequireRole(env.registry, testSettle, entity.RoleManager, entity.RoleSales),
		func(c *fiber.Ctx) error {
			if !apphttp.CanAccessStore(c, c.Params("id")) {
				return c.SendStatus(fiber.StatusForbidden)
			}
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestCanAccessStore_SalesSoloSusAlmacenes(t *testing.T) {
	env := newTestEnv(t)
	a := storeA
	header, _, _ := env.login(t, roleOf("", entity.RoleSales, &a))
	app := storeApp(env)

	resp := doRequest(t, app, "/stores/"+storeA, header)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, "/stores/"+storeB, header)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCanAccessStore_ManagerVeTodos(t *testing.T) {
	env := newTestEnv(t)
	header, _, _ := env.login(t, roleOf("", entity.RoleManager, nil))

	resp := doRequest(t, storeApp(env), "/stores/"+storeB, header)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
