package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/inventory"
	"github.com/farmatic/botica-api/internal/domain"
)

// BatchHandler maneja las peticiones HTTP de lotes y disponibilidad (protegido).
type BatchHandler struct {
	uc *inventory.BatchUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *inventory.BatchUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// ListByProduct godoc
// @Summary      Listar lotes de un producto
// @Description  Incluye lotes vencidos y agotados; el estado EXPIRED se deriva
//
//	de la fecha de vencimiento al momento de la lectura.
//
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {array}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *BatchHandler) ListByProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.ListByProduct(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(resp)
}

// Availability godoc
// @Summary      Disponibilidad FEFO de un producto
// @Description  Devuelve los lotes elegibles en orden FEFO y, si quantity > 0,
//
//	la partición sugerida entre lotes (primero el de vencimiento más próximo).
//
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID del producto"
// @Param        quantity  query  string  false  "Cantidad a asignar"
// @Success      200  {object}  dto.AvailabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches/available [get]
func (h *BatchHandler) Availability(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	quantity := decimal.Zero
	if q := c.Query("quantity"); q != "" {
		var err error
		quantity, err = decimal.NewFromString(q)
		if err != nil || quantity.IsNegative() {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
		}
	}
	resp, err := h.uc.Availability(c.Context(), companyID, c.Params("id"), quantity)
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(resp)
}

// SetStatus godoc
// @Summary      Cambiar estado de un lote
// @Description  RECALLED y QUARANTINED exigen reason; volver a ACTIVE limpia
//
//	los metadatos. EXPIRED no es asignable: se deriva del vencimiento.
//
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del lote"
// @Param        body  body  dto.SetBatchStatusRequest  true  "status, reason"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/status [patch]
func (h *BatchHandler) SetStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.SetBatchStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.SetStatus(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return batchError(c, err)
	}
	return c.JSON(resp)
}

func batchError(c *fiber.Ctx, err error) error {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":       "INSUFFICIENT_STOCK",
			"message":    "stock insuficiente",
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto o lote no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
