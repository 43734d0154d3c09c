package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/session"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// SessionHandler expone el estado de roles de la sesión actual.
type SessionHandler struct {
	resolvers ResolverSource
	settle    time.Duration
	log       zerolog.Logger
}

// NewSessionHandler construye el handler.
func NewSessionHandler(resolvers ResolverSource, settle time.Duration, log zerolog.Logger) *SessionHandler {
	return &SessionHandler{resolvers: resolvers, settle: settle, log: log}
}

// Get godoc
// @Summary      Estado de la sesión
// @Description  Snapshot del resolver. Con wait=true espera a que termine de cargar roles.
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Param        wait  query  bool  false  "esperar a que la carga termine"
// @Success      200   {object}  dto.SessionResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/session [get]
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	r := h.resolvers.Open(GetSessionID(c))
	snap := r.Snapshot()
	if c.QueryBool("wait") {
		ctx, cancel := context.WithTimeout(c.UserContext(), h.settle)
		defer cancel()
		// con timeout se devuelve el snapshot en "resolving"
		snap, _ = r.AwaitSettled(ctx)
	}
	return c.JSON(toSessionResponse(snap))
}

// RefreshRoles godoc
// @Summary      Recargar roles de la sesión
// @Description  Con force=true ignora la carga en curso y reporta el resultado en outcomes.
// @Tags         session
// @Security     Bearer
// @Produce      json
// @Param        force  query  bool  false  "forzar una consulta nueva"
// @Success      200    {object}  dto.RefreshRolesResponse
// @Failure      401    {object}  dto.ErrorResponse
// @Failure      500    {object}  dto.ErrorResponse
// @Router       /api/session/roles/refresh [post]
func (h *SessionHandler) RefreshRoles(c *fiber.Ctx) error {
	rec, n := newOutcomes(h.log)
	roles, err := h.resolvers.Open(GetSessionID(c)).RefreshRoles(c.UserContext(), c.QueryBool("force"), n)
	if err != nil {
		return respondError(c, err, rec.Outcomes())
	}
	return c.JSON(dto.RefreshRolesResponse{Roles: toRoleResponses(roles), Outcomes: rec.Outcomes()})
}

func toRoleResponses(roles []entity.RoleAssignment) []dto.RoleAssignmentResponse {
	out := make([]dto.RoleAssignmentResponse, 0, len(roles))
	for _, a := range roles {
		out = append(out, usecase.ToRoleAssignmentResponse(a))
	}
	return out
}

func toSessionResponse(s session.Snapshot) dto.SessionResponse {
	return dto.SessionResponse{
		SessionID:    s.SessionID,
		State:        string(s.State),
		UserID:       s.UserID,
		Email:        s.Email,
		Roles:        toRoleResponses(s.Roles),
		IsAdmin:      s.IsAdmin(),
		StoreIDs:     s.StoreIDs(),
		RetryAttempt: s.RetryAttempt,
		LastError:    s.LastError,
	}
}
