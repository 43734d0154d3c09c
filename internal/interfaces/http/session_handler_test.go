package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/notify"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	apphttp "github.com/jhoicas/inventario-pos/internal/interfaces/http"
)

func sessionApp(env *testEnv) *fiber.App {
	h := apphttp.NewSessionHandler(env.registry, testSettle, zerolog.Nop())
	app := fiber.New()
	protected := app.Group("/api", apphttp.AuthMiddleware(env.authConfig()))
	protected.Get("/session", h.Get)
	protected.Post("/session/roles/refresh", h.RefreshRoles)
	return app
}

func TestSessionHandler_GetEsperaLosRoles(t *testing.T) {
	env := newTestEnv(t)
	a := storeA
	header, userID, sid := env.login(t, roleOf("", entity.RoleSales, &a))

	resp := doRequest(t, sessionApp(env), "/api/session?wait=true", header)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.SessionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, sid, body.SessionID)
	assert.Equal(t, userID, body.UserID)
	assert.Equal(t, "authenticated", body.State)
	require.Len(t, body.Roles, 1)
	assert.Equal(t, entity.RoleSales, body.Roles[0].Role)
	assert.Equal(t, []string{storeA}, body.StoreIDs)
	assert.False(t, body.IsAdmin)
}

func TestSessionHandler_RefreshForzadoReportaResultado(t *testing.T) {
	env := newTestEnv(t)
	header, _, _ := env.login(t, roleOf("", entity.RoleAdmin, nil))
	app := sessionApp(env)

	// primero se espera la carga inicial
	resp := doRequest(t, app, "/api/session?wait=true", header)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/session/roles/refresh?force=true", nil)
	req.Header.Set("Authorization", header)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.RefreshRolesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Roles, 1)
	require.Len(t, body.Outcomes, 1)
	assert.Equal(t, notify.LevelSuccess, body.Outcomes[0].Level)
	assert.Equal(t, "1 roles cargados correctamente", body.Outcomes[0].Title)
}

func TestSessionHandler_RefreshSinRolesAdvierte(t *testing.T) {
	env := newTestEnv(t)
	header, _, _ := env.login(t)
	app := sessionApp(env)

	resp := doRequest(t, app, "/api/session?wait=true", header)
	resp.Body.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/session/roles/refresh?force=true", nil)
	req.Header.Set("Authorization", header)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.RefreshRolesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Roles)
	require.Len(t, body.Outcomes, 1)
	assert.Equal(t, notify.LevelWarning, body.Outcomes[0].Level)
}
