package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
)

// ReturnHandler devoluciones.
type ReturnHandler struct {
	uc *sales.ReturnUseCase
}

// NewReturnHandler construye el handler.
func NewReturnHandler(uc *sales.ReturnUseCase) *ReturnHandler {
	return &ReturnHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar devolución
// @Tags         returns
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReturnRequest  true  "Línea, cantidad y motivo"
// @Success      201   {object}  dto.ReturnResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/returns [post]
func (h *ReturnHandler) Create(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.CreateReturnRequest
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
// @Summary      Listar devoluciones
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        transactionId  query  string  false  "Transacción"
// @Success      200  {array}  dto.ReturnResponse
// @Router       /api/returns [get]
func (h *ReturnHandler) List(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.List(c.UserContext(), actor, c.Query("transactionId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByTransaction godoc
// @Summary      Devoluciones de una transacción
// @Tags         returns
// @Security     Bearer
// @Produce      json
// @Param        transactionId  path  string  true  "Transacción"
// @Success      200  {array}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/returns/by-transaction/{transactionId} [get]
func (h *ReturnHandler) ByTransaction(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.ByTransaction(c.UserContext(), actor, c.Params("transactionId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
