package entity

import "time"

// Roles válidos. La enumeración es cerrada.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSales   = "sales"
	RoleViewer  = "viewer"
)

// IsValidRole indica si r pertenece a la enumeración de roles.
func IsValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSales, RoleViewer:
		return true
	}
	return false
}

// RoleRequiresStore indica si el rol debe ir acotado a un almacén.
func RoleRequiresStore(r string) bool {
	return r == RoleSales
}

// RoleAssignment asignación (usuario, rol, almacén opcional).
// Solo "sales" lleva StoreID; la unicidad se verifica antes de insertar.
type RoleAssignment struct {
	ID        string
	UserID    string
	Role      string
	StoreID   *string
	StoreName string
	CreatedAt time.Time
}
