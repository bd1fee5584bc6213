package dto

import "time"

// CreateUserRequest entrada para crear un usuario.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenantId"`
	BranchID *string `json:"branchId"`
}

// UpdateUserRequest campos opcionales; Password se vuelve a hashear.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	BranchID *string `json:"branchId"`
}

// UserResponse salida de un usuario (sin hash).
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Role      string     `json:"role"`
	TenantID  *string    `json:"tenantId"`
	BranchID  *string    `json:"branchId"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}
