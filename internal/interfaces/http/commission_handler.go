package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/farmatic/botica-api/internal/application/commissions"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/domain"
)

// CommissionHandler maneja las peticiones HTTP de comisiones (protegido).
type CommissionHandler struct {
	uc *commissions.CommissionUseCase
}

// NewCommissionHandler construye el handler.
func NewCommissionHandler(uc *commissions.CommissionUseCase) *CommissionHandler {
	return &CommissionHandler{uc: uc}
}

// List godoc
// @Summary      Listar comisiones
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        status          query  string  false  "PENDING, PAID, CANCELLED"
// @Param        salesperson_id  query  string  false  "Filtrar por vendedor"
// @Param        limit           query  int     false  "Límite (por defecto 20)"
// @Param        offset          query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.CommissionResponse
// @Router       /api/commissions [get]
func (h *CommissionHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.List(c.Context(), companyID, c.Query("status"), c.Query("salesperson_id"), page.Limit, page.Offset)
	if err != nil {
		return commissionError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener comisión por ID
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la comisión"
// @Success      200  {object}  dto.CommissionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/commissions/{id} [get]
func (h *CommissionHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := h.uc.Get(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return commissionError(c, err)
	}
	return c.JSON(resp)
}

// Pay godoc
// @Summary      Pagar comisión
// @Description  Solo una comisión PENDING admite la transición a PAID.
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la comisión"
// @Param        body  body  dto.PayCommissionRequest  false  "paid_date, notes"
// @Success      200   {object}  dto.CommissionResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/commissions/{id}/pay [patch]
func (h *CommissionHandler) Pay(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.PayCommissionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	resp, err := h.uc.Pay(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return commissionError(c, err)
	}
	return c.JSON(resp)
}

// CreateConfig godoc
// @Summary      Crear configuración de comisión
// @Description  salesperson_id y category_id acotan el alcance; ambos vacíos
//
//	definen la regla global. La resolución elige siempre el alcance
//	más específico.
//
// @Tags         commissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCommissionConfigRequest  true  "type, rate, alcance"
// @Success      201   {object}  dto.CommissionConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/commission-configs [post]
func (h *CommissionHandler) CreateConfig(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateCommissionConfigRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	resp, err := h.uc.CreateConfig(c.Context(), companyID, in)
	if err != nil {
		return commissionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListConfigs godoc
// @Summary      Listar configuraciones de comisión
// @Tags         commissions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (por defecto 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}  dto.CommissionConfigResponse
// @Router       /api/commission-configs [get]
func (h *CommissionHandler) ListConfigs(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := h.uc.ListConfigs(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return commissionError(c, err)
	}
	return c.JSON(resp)
}

func commissionError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "comisión, vendedor o categoría no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	if errors.Is(err, domain.ErrInvalidState) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_STATE", Message: "la comisión no está pendiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
