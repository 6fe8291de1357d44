package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
)

// AdjustmentHandler maneja el flujo de ajuste de stock: recálculo del
// triángulo cantidad/unitario/total mientras el usuario edita, y el envío
// transaccional del ajuste.
type AdjustmentHandler struct {
	uc *inventory.SubmitAdjustmentUseCase
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc *inventory.SubmitAdjustmentUseCase) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// Recalculate godoc
// @Summary      Recalcular borrador de ajuste
// @Description  Aplica la edición de un campo al borrador y devuelve el
// @Description  borrador resultante con el triángulo total = cantidad ×
// @Description  unitario reconciliado. Operación pura: no toca la DB.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecalculateRequest  true  "Borrador + campo editado"
// @Success      200   {object}  dto.RecalculateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments/recalculate [post]
func (h *AdjustmentHandler) Recalculate(c *fiber.Ctx) error {
	var in dto.RecalculateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	switch in.EditedField {
	case "quantity", "unit_price", "total_price":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "edited_field debe ser quantity, unit_price o total_price"})
	}
	return c.JSON(h.uc.Recalculate(in))
}

// Submit godoc
// @Summary      Aplicar ajuste de stock
// @Description  Valida el borrador completo y, si pasa, crea la transacción y
// @Description  actualiza el stock de forma atómica. Los errores de
// @Description  validación se devuelven por campo (422) con el borrador del
// @Description  cliente intacto.
// @Tags         adjustments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del artículo"
// @Param        body  body  dto.AdjustmentDraftRequest  true  "Borrador del ajuste"
// @Success      201   {object}  dto.SubmitAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.FieldErrorResponse
// @Router       /api/items/{id}/adjustments [post]
func (h *AdjustmentHandler) Submit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	itemID := c.Params("id")

	var in dto.AdjustmentDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	out, fieldErrs, err := h.uc.Submit(c.Context(), companyID, userID, itemID, in)
	if err != nil {
		return errorToResponse(c, err)
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.FieldErrorResponse{
			Code:    "VALIDATION",
			Message: "el ajuste tiene errores de validación",
			Fields:  fieldErrs,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
