package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthUser datos públicos del usuario autenticado.
type AuthUser struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenantId"`
	BranchID *string `json:"branchId"`
}

// LoginResponse token de acceso + usuario.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	User        AuthUser `json:"user"`
}
