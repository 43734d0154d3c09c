package dto

import (
	"time"

	"github.com/jhoicas/inventario-pos/internal/application/notify"
)

// AssignRoleRequest body para POST /api/users/roles.
type AssignRoleRequest struct {
	UserID  string  `json:"user_id"`
	Role    string  `json:"role"`
	StoreID *string `json:"store_id"`
}

// RoleAssignmentResponse asignación de rol.
type RoleAssignmentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	StoreID   *string   `json:"store_id"`
	StoreName string    `json:"store_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AssignRoleResponse Created=false cuando el usuario ya tenía el rol.
type AssignRoleResponse struct {
	Created    bool                    `json:"created"`
	Assignment *RoleAssignmentResponse `json:"assignment,omitempty"`
	Outcomes   []notify.Outcome        `json:"outcomes"`
}

// UserWithRolesResponse usuario con sus roles (administración).
type UserWithRolesResponse struct {
	UserResponse
	Roles []RoleAssignmentResponse `json:"roles"`
}
