package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/domain"
)

// PaymentHandler maneja las peticiones HTTP de pagos y créditos (protegido).
type PaymentHandler struct {
	uc *payments.PaymentUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *payments.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar pago
// @Description  Abona contra una compra, venta o crédito. Rechaza sobrepagos;
//
//	el saldo del padre queda recalculado al confirmar.
//
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "parent_type, parent_id, amount, payment_method_id"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.Record(c.Context(), companyID, userID, in)
	if err != nil {
		return paymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Delete godoc
// @Summary      Eliminar pago
// @Description  Rechazado cuando el padre ya cerró su ciclo (compra o venta
//
//	COMPLETED, crédito saldado). Al eliminar, el saldo se recalcula.
//
// @Tags         payments
// @Security     Bearer
// @Param        id  path  string  true  "ID del pago"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/payments/{id} [delete]
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if err := h.uc.Delete(c.Context(), companyID, c.Params("id")); err != nil {
		return paymentError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByParent godoc
// @Summary      Listar pagos de un padre
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        parent_type  query  string  true  "PURCHASE, SALE o CREDIT"
// @Param        parent_id    query  string  true  "ID del padre"
// @Success      200  {array}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments [get]
func (h *PaymentHandler) ListByParent(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.ListByParent(c.Context(), companyID, c.Query("parent_type"), c.Query("parent_id"))
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(resp)
}

// CreateCredit godoc
// @Summary      Otorgar crédito a un cliente
// @Tags         credits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCreditRequest  true  "customer_id, total_amount"
// @Success      201   {object}  dto.CreditResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/credits [post]
func (h *PaymentHandler) CreateCredit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCreditRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateCredit(c.Context(), companyID, in)
	if err != nil {
		return paymentError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// GetCredit godoc
// @Summary      Obtener crédito por ID
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del crédito"
// @Success      200  {object}  dto.CreditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits/{id} [get]
func (h *PaymentHandler) GetCredit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.GetCredit(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(resp)
}

// ListCredits godoc
// @Summary      Listar créditos de un cliente
// @Tags         credits
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true   "ID del cliente"
// @Param        limit        query  int     false  "Límite (por defecto 20)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.CreditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/credits [get]
func (h *PaymentHandler) ListCredits(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.ListCredits(c.Context(), companyID, c.Query("customer_id"), page.Limit, page.Offset)
	if err != nil {
		return paymentError(c, err)
	}
	return c.JSON(resp)
}

func paymentError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos o monto excede el saldo"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pago, padre o cliente no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	if errors.Is(err, domain.ErrInvalidState) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "el padre no admite pagos en su estado actual"})
	}
	if errors.Is(err, domain.ErrDeleteRestricted) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DELETE_RESTRICTED", Message: "el padre ya cerró su ciclo de pago"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
