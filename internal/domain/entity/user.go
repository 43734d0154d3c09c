package entity

import "time"

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User usuario del sistema. Los roles viven en RoleAssignment.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserWithRoles usuario con sus asignaciones de rol (vista de administración).
type UserWithRoles struct {
	User
	Roles []RoleAssignment
}
