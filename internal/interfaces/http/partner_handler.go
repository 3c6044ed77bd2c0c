package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/farmatic/botica-api/internal/application/dto"
	"github.com/farmatic/botica-api/internal/application/usecase"
	"github.com/farmatic/botica-api/internal/domain"
)

// PartnerHandler maneja las peticiones HTTP del catálogo de terceros:
// proveedores, clientes, vendedores, métodos de pago y categorías (protegido).
type PartnerHandler struct {
	uc *usecase.PartnerUseCase
}

// NewPartnerHandler construye el handler.
func NewPartnerHandler(uc *usecase.PartnerUseCase) *PartnerHandler {
	return &PartnerHandler{uc: uc}
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "name, tax_id"
// @Success      201   {object}  dto.PartnerResponse
// @Router       /api/suppliers [post]
func (h *PartnerHandler) CreateSupplier(c *fiber.Ctx) error {
	return h.create(c, func(companyID string) (any, error) {
		var in dto.CreatePartnerRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, domain.ErrInvalidInput
		}
		return h.uc.CreateSupplier(companyID, in)
	})
}

// ListSuppliers godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartnerResponse
// @Router       /api/suppliers [get]
func (h *PartnerHandler) ListSuppliers(c *fiber.Ctx) error {
	return h.list(c, func(companyID string, limit, offset int) (any, error) {
		return h.uc.ListSuppliers(companyID, limit, offset)
	})
}

// CreateCustomer godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePartnerRequest  true  "name, tax_id"
// @Success      201   {object}  dto.PartnerResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *PartnerHandler) CreateCustomer(c *fiber.Ctx) error {
	return h.create(c, func(companyID string) (any, error) {
		var in dto.CreatePartnerRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, domain.ErrInvalidInput
		}
		return h.uc.CreateCustomer(companyID, in)
	})
}

// ListCustomers godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PartnerResponse
// @Router       /api/customers [get]
func (h *PartnerHandler) ListCustomers(c *fiber.Ctx) error {
	return h.list(c, func(companyID string, limit, offset int) (any, error) {
		return h.uc.ListCustomers(companyID, limit, offset)
	})
}

// CreateSalesperson godoc
// @Summary      Crear vendedor
// @Tags         salespersons
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalespersonRequest  true  "name, code"
// @Success      201   {object}  dto.SalespersonResponse
// @Router       /api/salespersons [post]
func (h *PartnerHandler) CreateSalesperson(c *fiber.Ctx) error {
	return h.create(c, func(companyID string) (any, error) {
		var in dto.CreateSalespersonRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, domain.ErrInvalidInput
		}
		return h.uc.CreateSalesperson(companyID, in)
	})
}

// ListSalespersons godoc
// @Summary      Listar vendedores
// @Tags         salespersons
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.SalespersonResponse
// @Router       /api/salespersons [get]
func (h *PartnerHandler) ListSalespersons(c *fiber.Ctx) error {
	return h.list(c, func(companyID string, limit, offset int) (any, error) {
		return h.uc.ListSalespersons(companyID, limit, offset)
	})
}

// CreatePaymentMethod godoc
// @Summary      Crear método de pago
// @Tags         payment-methods
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentMethodRequest  true  "name, kind"
// @Success      201   {object}  dto.PaymentMethodResponse
// @Router       /api/payment-methods [post]
func (h *PartnerHandler) CreatePaymentMethod(c *fiber.Ctx) error {
	return h.create(c, func(companyID string) (any, error) {
		var in dto.CreatePaymentMethodRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, domain.ErrInvalidInput
		}
		return h.uc.CreatePaymentMethod(companyID, in)
	})
}

// ListPaymentMethods godoc
// @Summary      Listar métodos de pago
// @Tags         payment-methods
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PaymentMethodResponse
// @Router       /api/payment-methods [get]
func (h *PartnerHandler) ListPaymentMethods(c *fiber.Ctx) error {
	return h.list(c, func(companyID string, limit, offset int) (any, error) {
		return h.uc.ListPaymentMethods(companyID, limit, offset)
	})
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "name, code"
// @Success      201   {object}  dto.CategoryResponse
// @Router       /api/categories [post]
func (h *PartnerHandler) CreateCategory(c *fiber.Ctx) error {
	return h.create(c, func(companyID string) (any, error) {
		var in dto.CreateCategoryRequest
		if err := c.BodyParser(&in); err != nil {
			return nil, domain.ErrInvalidInput
		}
		return h.uc.CreateCategory(companyID, in)
	})
}

// ListCategories godoc
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryResponse
// @Router       /api/categories [get]
func (h *PartnerHandler) ListCategories(c *fiber.Ctx) error {
	return h.list(c, func(companyID string, limit, offset int) (any, error) {
		return h.uc.ListCategories(companyID, limit, offset)
	})
}

func (h *PartnerHandler) create(c *fiber.Ctx, fn func(companyID string) (any, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	resp, err := fn(companyID)
	if err != nil {
		return partnerError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *PartnerHandler) list(c *fiber.Ctx, fn func(companyID string, limit, offset int) (any, error)) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()
	resp, err := fn(companyID, page.Limit, page.Offset)
	if err != nil {
		return partnerError(c, err)
	}
	return c.JSON(resp)
}

func partnerError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	}
	if errors.Is(err, domain.ErrForbidden) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	if errors.Is(err, domain.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "registro duplicado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
