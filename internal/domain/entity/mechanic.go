package entity

import "time"

// Mechanic trabajador de un tenant (opcionalmente asignado a una sucursal); recibe comisión por línea.
type Mechanic struct {
	ID        string
	TenantID  string
	BranchID  *string
	Name      string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
