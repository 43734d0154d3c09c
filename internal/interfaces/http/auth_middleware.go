package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/pkg/jwt"
)

// Locals keys de la sesión autenticada en Fiber.
const (
	LocalUserID    = "user_id"
	LocalSessionID = "session_id"
	LocalEmail     = "email"
)

// SessionChecker verifica que la sesión del token siga viva. Lo implementa *auth.AuthUseCase.
type SessionChecker interface {
	CurrentSession(ctx context.Context, sessionID string) (*entity.Session, error)
}

// AuthConfig dependencias del middleware de autenticación.
type AuthConfig struct {
	JWTSecret string
	Sessions  SessionChecker
	// Resolvers opcional: si está, se abre el resolver de la sesión en cada request.
	Resolvers ResolverSource
}

// AuthMiddleware valida el Bearer Token JWT, comprueba que la sesión exista y deja
// UserID, SessionID y Email en c.Locals.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(cfg.JWTSecret, tokenString, jwt.TypeAccess)
		if err != nil || claims.SessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}

		s, err := cfg.Sessions.CurrentSession(c.UserContext(), claims.SessionID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
		}
		if s == nil || s.AccessToken != tokenString {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "SESSION_EXPIRED", Message: "la sesión no existe o expiró"})
		}
		if cfg.Resolvers != nil {
			cfg.Resolvers.Open(s.ID)
		}

		c.Locals(LocalUserID, s.UserID)
		c.Locals(LocalSessionID, s.ID)
		c.Locals(LocalEmail, s.Email)
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetSessionID devuelve el SessionID del contexto (después del middleware de auth).
func GetSessionID(c *fiber.Ctx) string {
	return localString(c, LocalSessionID)
}
