package dto

import "time"

// CreateTenantRequest entrada para crear un tenant.
type CreateTenantRequest struct {
	BusinessName     string `json:"businessName"`
	SubscriptionPlan string `json:"subscriptionPlan"`
}

// UpdateTenantRequest campos opcionales.
type UpdateTenantRequest struct {
	BusinessName     *string `json:"businessName"`
	SubscriptionPlan *string `json:"subscriptionPlan"`
	IsActive         *bool   `json:"isActive"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID               string    `json:"id"`
	BusinessName     string    `json:"businessName"`
	SubscriptionPlan string    `json:"subscriptionPlan"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
