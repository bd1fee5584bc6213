package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso añaden detalle con fmt.Errorf("%w: ...") para que errors.Is siga funcionando.
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrDuplicate      = errors.New("recurso duplicado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrTenantInactive = errors.New("tenant inactivo")

	// Reglas de negocio (HTTP 400).
	ErrInsufficientStock       = errors.New("stock insuficiente")
	ErrSameBranch              = errors.New("la sucursal de origen y destino no pueden ser la misma")
	ErrNotStockable            = errors.New("los servicios no manejan inventario")
	ErrReturnExceedsAvailable  = errors.New("la cantidad a devolver supera lo disponible")
	ErrTransactionCancelled    = errors.New("la transacción está cancelada")
	ErrInvalidStatusTransition = errors.New("transición de estado inválida")
)
