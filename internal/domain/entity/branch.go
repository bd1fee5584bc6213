package entity

import "time"

// Branch sucursal física de un Tenant; dueña de filas de inventario, mecánicos y cajeros.
type Branch struct {
	ID        string
	TenantID  string
	Name      string
	Address   *string
	Phone     *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
