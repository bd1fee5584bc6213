package entity

// Actor es el contexto de quien ejecuta una operación (construido desde el JWT).
// Se pasa explícitamente a cada caso de uso; ninguna regla de alcance depende de estado global.
type Actor struct {
	UserID   string
	Username string
	Role     string
	TenantID string
	BranchID string
}

// IsSuperAdmin opera sin tenant fijo.
func (a Actor) IsSuperAdmin() bool { return a.Role == RoleSuperAdmin }

// IsCashier solo ve los datos de su sucursal.
func (a Actor) IsCashier() bool { return a.Role == RoleCashier }

// ScopeBranch devuelve la sucursal efectiva para un filtro: el cajero queda forzado a la suya.
func (a Actor) ScopeBranch(requested string) string {
	if a.IsCashier() {
		return a.BranchID
	}
	return requested
}
