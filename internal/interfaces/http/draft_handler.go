package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
)

// DraftHandler carritos guardados.
type DraftHandler struct {
	uc *sales.DraftUseCase
}

// NewDraftHandler construye el handler.
func NewDraftHandler(uc *sales.DraftUseCase) *DraftHandler {
	return &DraftHandler{uc: uc}
}

// Create godoc
// @Summary      Guardar borrador
// @Tags         draft-transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveDraftRequest  true  "Placa e ítems"
// @Success      201   {object}  dto.DraftResponse
// @Router       /api/draft-transactions [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.SaveDraftRequest
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
// @Summary      Listar borradores
// @Tags         draft-transactions
// @Security     Bearer
// @Produce      json
// @Param        branchId  query  string  false  "Sucursal"
// @Param        userId    query  string  false  "Creador"
// @Success      200  {array}  dto.DraftResponse
// @Router       /api/draft-transactions [get]
func (h *DraftHandler) List(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.List(c.UserContext(), actor, c.Query("branchId"), c.Query("userId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener borrador
// @Tags         draft-transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/draft-transactions/{id} [get]
func (h *DraftHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.Get(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Reemplazar borrador
// @Tags         draft-transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del borrador"
// @Param        body  body  dto.SaveDraftRequest  true  "Placa e ítems"
// @Success      200   {object}  dto.DraftResponse
// @Router       /api/draft-transactions/{id} [put]
func (h *DraftHandler) Update(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.SaveDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), actor, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Descartar borrador
// @Tags         draft-transactions
// @Security     Bearer
// @Param        id   path  string  true  "ID del borrador"
// @Success      204
// @Router       /api/draft-transactions/{id} [delete]
func (h *DraftHandler) Delete(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	if err := h.uc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Convert godoc
// @Summary      Convertir borrador en venta PAID
// @Tags         draft-transactions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del borrador"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/draft-transactions/{id}/convert [post]
func (h *DraftHandler) Convert(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.Convert(c.UserContext(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
