package dto

import "github.com/jhoicas/inventario-pos/internal/application/notify"

// SessionResponse estado del resolver de la sesión actual.
type SessionResponse struct {
	SessionID    string                   `json:"session_id"`
	State        string                   `json:"state"`
	UserID       string                   `json:"user_id,omitempty"`
	Email        string                   `json:"email,omitempty"`
	Roles        []RoleAssignmentResponse `json:"roles"`
	IsAdmin      bool                     `json:"is_admin"`
	StoreIDs     []string                 `json:"store_ids,omitempty"`
	RetryAttempt int                      `json:"retry_attempt"`
	LastError    string                   `json:"last_error,omitempty"`
}

// RefreshRolesResponse resultado del refresco manual de roles.
type RefreshRolesResponse struct {
	Roles    []RoleAssignmentResponse `json:"roles"`
	Outcomes []notify.Outcome         `json:"outcomes"`
}
