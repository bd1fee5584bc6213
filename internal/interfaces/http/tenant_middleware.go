package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// tenantChecker contrato mínimo para verificar el estado del tenant.
// Lo implementa repository.TenantRepository.
type tenantChecker interface {
	IsActive(ctx context.Context, id string) (bool, error)
}

// RequireActiveTenant rechaza peticiones de usuarios cuyo tenant está inactivo o no existe.
// Debe usarse DESPUÉS de AuthMiddleware. SUPERADMIN queda exento.
//
// Comportamiento:
//   - 401 → usuario de tenant sin tenantId en el token.
//   - 403 TENANT_INACTIVE → tenant desactivado o eliminado.
//   - 503 → fallo al consultar el estado.
func RequireActiveTenant(checker tenantChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == entity.RoleSuperAdmin {
			return c.Next()
		}
		tenantID := GetTenantID(c)
		if tenantID == "" {
			return noTenant(c)
		}
		active, err := checker.IsActive(c.UserContext(), tenantID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "TENANT_CHECK_FAILED",
				Message: "no se pudo verificar el tenant, intente más tarde",
			})
		}
		if !active {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "TENANT_INACTIVE",
				Message: "el tenant está inactivo",
			})
		}
		return c.Next()
	}
}
