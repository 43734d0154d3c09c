package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
)

// UserHandler administración de usuarios y sus roles.
type UserHandler struct {
	users *usecase.UserUseCase
	roles *usecase.RoleUseCase
	log   zerolog.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserUseCase, roles *usecase.RoleUseCase, log zerolog.Logger) *UserHandler {
	return &UserHandler{users: users, roles: roles, log: log}
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/me [get]
func (h *UserHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar usuarios con sus roles
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserWithRolesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	out, err := h.roles.ListUsers(c.UserContext())
	if err != nil {
		return respondError(c, err, nil)
	}
	return c.JSON(out)
}

// AssignRole godoc
// @Summary      Asignar rol a un usuario
// @Description  sales requiere store_id; para los demás roles se ignora. Si el usuario ya
//
//	tiene la asignación no se inserta nada y created=false.
//
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AssignRoleRequest  true  "user_id, role, store_id"
// @Success      201   {object}  dto.AssignRoleResponse
// @Success      200   {object}  dto.AssignRoleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/users/roles [post]
func (h *UserHandler) AssignRole(c *fiber.Ctx) error {
	var in dto.AssignRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	rec, n := newOutcomes(h.log)
	out, err := h.roles.Assign(c.UserContext(), in, n)
	if err != nil {
		return respondError(c, err, rec.Outcomes())
	}
	out.Outcomes = rec.Outcomes()
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// RemoveRole godoc
// @Summary      Quitar una asignación de rol
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la asignación"
// @Success      200  {object}  dto.OutcomeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/roles/{id} [delete]
func (h *UserHandler) RemoveRole(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id requerido"})
	}
	rec, n := newOutcomes(h.log)
	if err := h.roles.Remove(c.UserContext(), id, n); err != nil {
		return respondError(c, err, rec.Outcomes())
	}
	return c.JSON(dto.OutcomeResponse{Outcomes: rec.Outcomes()})
}
