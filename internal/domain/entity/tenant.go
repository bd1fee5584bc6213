package entity

import "time"

// Planes de suscripción de un Tenant.
const (
	PlanLite       = "LITE"
	PlanPro        = "PRO"
	PlanEnterprise = "ENTERPRISE"
)

// Tenant representa una cuenta de negocio (bengkel). Es el límite de aislamiento de todas las consultas.
type Tenant struct {
	ID               string
	BusinessName     string
	SubscriptionPlan string // LITE, PRO, ENTERPRISE
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ValidPlan indica si el plan es uno de los soportados.
func ValidPlan(plan string) bool {
	switch plan {
	case PlanLite, PlanPro, PlanEnterprise:
		return true
	}
	return false
}
