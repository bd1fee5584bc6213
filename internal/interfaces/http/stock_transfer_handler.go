package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
)

// StockTransferHandler movimientos entre sucursales.
type StockTransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewStockTransferHandler construye el handler.
func NewStockTransferHandler(uc *inventory.TransferUseCase) *StockTransferHandler {
	return &StockTransferHandler{uc: uc}
}

// Create godoc
// @Summary      Transferir stock entre sucursales
// @Tags         stock-transfer
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockTransferRequest  true  "Producto, origen, destino y cantidad"
// @Success      201   {object}  dto.StockTransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock-transfer [post]
func (h *StockTransferHandler) Create(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.CreateStockTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), actor, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Libro de transferencias
// @Tags         stock-transfer
// @Security     Bearer
// @Produce      json
// @Param        branchId   query  string  false  "Sucursal (origen o destino)"
// @Param        productId  query  string  false  "Producto"
// @Success      200  {array}  dto.StockTransferResponse
// @Router       /api/stock-transfer [get]
func (h *StockTransferHandler) List(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.List(c.UserContext(), actor, c.Query("branchId"), c.Query("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener transferencia
// @Tags         stock-transfer
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.StockTransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-transfer/{id} [get]
func (h *StockTransferHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.GetByID(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
