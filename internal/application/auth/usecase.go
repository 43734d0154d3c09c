package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-pos/internal/application/dto"
	"github.com/jhoicas/inventario-pos/internal/domain"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/pkg/jwt"
)

// MinPasswordLength largo mínimo de contraseña en el registro.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret            string
	ExpMinutes        int
	RefreshExpMinutes int
	Issuer            string
}

// SessionEvents recibe los eventos de autenticación (el registro de resolvers).
type SessionEvents interface {
	SignedIn(ctx context.Context, s *entity.Session) error
	TokenRefreshed(ctx context.Context, s *entity.Session) error
	SignedOut(ctx context.Context, sessionID string) error
}

// AuthUseCase casos de uso de autenticación: registro, login, refresh y logout.
// Es la fuente de eventos de sesión.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	events      SessionEvents
	jwtCfg      JWTConfig
	log         zerolog.Logger
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. events puede ser nil y conectarse con SetEvents.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	events SessionEvents,
	jwtCfg JWTConfig,
	log zerolog.Logger,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		events:      events,
		jwtCfg:      jwtCfg,
		log:         log,
		now:         time.Now,
	}
}

// SetEvents conecta el registro de sesiones. El registro usa CurrentSession de este caso de uso,
// así que se enlazan en dos pasos.
func (uc *AuthUseCase) SetEvents(events SessionEvents) {
	uc.events = events
}

// RegisterUser crea un usuario con password bcrypt. El usuario nace sin roles.
// Devuelve ErrEmailAlreadyExists si el email ya existe.
func (uc *AuthUseCase) RegisterUser(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Invalid("Email inválido")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, domain.Invalid(fmt.Sprintf("La contraseña debe tener al menos %d caracteres", MinPasswordLength))
	}
	existing, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Login verifica email/password, abre una sesión y emite SIGNED_IN.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	s := &entity.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: uc.now(),
	}
	if err := uc.issue(ctx, s); err != nil {
		return nil, err
	}
	if uc.events == nil {
		return tokenResponse(s, user), nil
	}
	if err := uc.events.SignedIn(ctx, s); err != nil {
		uc.log.Warn().Err(err).Str("session_id", s.ID).Msg("publicar SIGNED_IN")
	}
	return tokenResponse(s, user), nil
}

// Refresh valida el refresh token contra la sesión guardada, rota ambos tokens y emite TOKEN_REFRESHED.
// Un refresh token ya rotado no vuelve a servir.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.TokenResponse, error) {
	claims, err := jwt.Parse(uc.jwtCfg.Secret, in.RefreshToken, jwt.TypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", domain.ErrUnauthorized)
	}
	s, err := uc.sessionRepo.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}
	if s == nil || s.RefreshToken != in.RefreshToken {
		return nil, domain.ErrSessionNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	s.Email = user.Email
	if err := uc.issue(ctx, s); err != nil {
		return nil, err
	}
	if uc.events == nil {
		return tokenResponse(s, user), nil
	}
	if err := uc.events.TokenRefreshed(ctx, s); err != nil {
		uc.log.Warn().Err(err).Str("session_id", s.ID).Msg("publicar TOKEN_REFRESHED")
	}
	return tokenResponse(s, user), nil
}

// Logout borra la sesión y emite SIGNED_OUT (el resolver limpia y se cierra).
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if err := uc.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	if uc.events == nil {
		return nil
	}
	if err := uc.events.SignedOut(ctx, sessionID); err != nil {
		uc.log.Warn().Err(err).Str("session_id", sessionID).Msg("publicar SIGNED_OUT")
	}
	return nil
}

// CurrentSession verificación de sesión existente. Nil si no existe o expiró.
func (uc *AuthUseCase) CurrentSession(ctx context.Context, sessionID string) (*entity.Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	s, err := uc.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil || (!s.ExpiresAt.IsZero() && uc.now().After(s.ExpiresAt)) {
		return nil, nil
	}
	return s, nil
}

// issue firma access y refresh token para la sesión y la guarda con el TTL del refresh.
func (uc *AuthUseCase) issue(ctx context.Context, s *entity.Session) error {
	access, exp, err := jwt.Generate(jwt.Params{
		Secret:     uc.jwtCfg.Secret,
		Issuer:     uc.jwtCfg.Issuer,
		UserID:     s.UserID,
		SessionID:  s.ID,
		Email:      s.Email,
		TokenType:  jwt.TypeAccess,
		ExpMinutes: uc.jwtCfg.ExpMinutes,
	})
	if err != nil {
		return err
	}
	refresh, refreshExp, err := jwt.Generate(jwt.Params{
		Secret:     uc.jwtCfg.Secret,
		Issuer:     uc.jwtCfg.Issuer,
		UserID:     s.UserID,
		SessionID:  s.ID,
		TokenType:  jwt.TypeRefresh,
		ExpMinutes: uc.jwtCfg.RefreshExpMinutes,
	})
	if err != nil {
		return err
	}
	s.AccessToken = access
	s.RefreshToken = refresh
	s.ExpiresAt = exp
	if err := uc.sessionRepo.Save(ctx, s, time.Until(refreshExp)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func tokenResponse(s *entity.Session, u *entity.User) *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		SessionID:    s.ID,
		User:         *toUserResponse(u),
	}
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
