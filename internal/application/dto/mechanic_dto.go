package dto

import "time"

// CreateMechanicRequest entrada para crear un mecánico.
type CreateMechanicRequest struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone"`
	BranchID *string `json:"branchId"`
}

// UpdateMechanicRequest campos opcionales.
type UpdateMechanicRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	BranchID *string `json:"branchId"`
	IsActive *bool   `json:"isActive"`
}

// MechanicResponse salida de un mecánico.
type MechanicResponse struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	BranchID  *string   `json:"branchId"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
