package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
)

// MechanicHandler mecánicos del tenant.
type MechanicHandler struct {
	uc *usecase.MechanicUseCase
}

// NewMechanicHandler construye el handler.
func NewMechanicHandler(uc *usecase.MechanicUseCase) *MechanicHandler {
	return &MechanicHandler{uc: uc}
}

// Create godoc
// @Summary      Crear mecánico
// @Tags         mechanics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMechanicRequest  true  "Datos del mecánico"
// @Success      201   {object}  dto.MechanicResponse
// @Router       /api/mechanics [post]
func (h *MechanicHandler) Create(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.CreateMechanicRequest
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
// @Summary      Listar mecánicos
// @Tags         mechanics
// @Security     Bearer
// @Produce      json
// @Param        branchId    query  string  false  "Sucursal"
// @Param        activeOnly  query  bool    false  "Solo activos"  default(true)
// @Success      200  {array}  dto.MechanicResponse
// @Router       /api/mechanics [get]
func (h *MechanicHandler) List(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	out, err := h.uc.List(c.UserContext(), actor, c.Query("branchId"), c.QueryBool("activeOnly", true))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener mecánico
// @Tags         mechanics
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del mecánico"
// @Success      200  {object}  dto.MechanicResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/mechanics/{id} [get]
func (h *MechanicHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar mecánico
// @Tags         mechanics
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del mecánico"
// @Param        body  body  dto.UpdateMechanicRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.MechanicResponse
// @Router       /api/mechanics/{id} [patch]
func (h *MechanicHandler) Update(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	var in dto.UpdateMechanicRequest
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
// @Summary      Eliminar mecánico
// @Tags         mechanics
// @Security     Bearer
// @Param        id   path  string  true  "ID del mecánico"
// @Success      204
// @Router       /api/mechanics/{id} [delete]
func (h *MechanicHandler) Delete(c *fiber.Ctx) error {
	actor, ok := tenantActor(c)
	if !ok {
		return noTenant(c)
	}
	if err := h.uc.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
