package entity

import "time"

// Roles válidos para User.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleOwner      = "OWNER"
	RoleManager    = "MANAGER"
	RoleCashier    = "CASHIER"
	RoleWarehouse  = "WAREHOUSE"
)

// User representa un usuario del sistema. SUPERADMIN no pertenece a ningún tenant.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Role         string
	TenantID     *string
	BranchID     *string
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidRole indica si el rol existe.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleOwner, RoleManager, RoleCashier, RoleWarehouse:
		return true
	}
	return false
}
