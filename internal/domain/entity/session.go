package entity

import "time"

// Session sesión autenticada. Se crea en el login, se reemplaza en el refresh y se borra en el logout.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthEventType tipo de evento del flujo de autenticación.
type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "SIGNED_IN"
	AuthSignedOut      AuthEventType = "SIGNED_OUT"
	AuthTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	AuthUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent cambio de estado de autenticación de una sesión. Session es nil cuando no hay identidad.
type AuthEvent struct {
	Type      AuthEventType
	SessionID string
	Session   *Session
}
