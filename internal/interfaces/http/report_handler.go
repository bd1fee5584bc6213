package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/analytics"
)

// ReportHandler reportes de solo lectura.
type ReportHandler struct {
	uc *analytics.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Daily godoc
// @Summary      Reporte diario (solo PAID)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date      query  string  false  "YYYY-MM-DD (hoy por defecto)"
// @Param        branchId  query  string  false  "Sucursal"
// @Success      200  {object}  dto.DailyReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.Daily(c.UserContext(), actor, c.Query("date"), c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MechanicCommission godoc
// @Summary      Comisiones por mecánico
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month     query  string  false  "YYYY-MM (mes en curso por defecto)"
// @Param        branchId  query  string  false  "Sucursal"
// @Success      200  {object}  dto.MechanicCommissionResponse
// @Router       /api/reports/mechanic-commission [get]
func (h *ReportHandler) MechanicCommission(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.MechanicCommission(c.UserContext(), actor, c.Query("month"), c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        month     query  string  false  "YYYY-MM"
// @Param        branchId  query  string  false  "Sucursal"
// @Param        limit     query  int     false  "Tamaño del ranking"  default(10)
// @Success      200  {object}  dto.TopProductsResponse
// @Router       /api/reports/top-products [get]
func (h *ReportHandler) TopProducts(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.TopProducts(c.UserContext(), actor, c.Query("month"), c.Query("branchId"), c.QueryInt("limit", analytics.DefaultTopProducts))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// VehicleHistory godoc
// @Summary      Historial de servicio por placa
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        plate  path  string  true  "Placa"
// @Success      200  {object}  dto.VehicleHistoryResponse
// @Router       /api/reports/vehicle-history/{plate} [get]
func (h *ReportHandler) VehicleHistory(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.VehicleHistory(c.UserContext(), actor, c.Params("plate"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos bajo su umbral de stock
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Sucursal"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.LowStock(c.UserContext(), actor, c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Dashboard godoc
// @Summary      Resumen del día y del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Sucursal"
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.Dashboard(c.UserContext(), actor, c.Query("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
