package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInvalidState      = errors.New("operación no permitida en el estado actual")
	ErrDeleteRestricted  = errors.New("eliminación restringida: cancele primero la transacción padre")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// InsufficientStockError lleva el faltante exacto para que el caller pueda
// mostrar un mensaje específico o reintentar con una asignación fresca.
// Compatible con errors.Is(err, ErrInsufficientStock).
type InsufficientStockError struct {
	ProductID string
	BatchID   string // vacío si el faltante es a nivel producto (asignación FEFO)
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	if e.BatchID != "" {
		return fmt.Sprintf("stock insuficiente en lote %s: solicitado %s, disponible %s",
			e.BatchID, e.Requested.String(), e.Available.String())
	}
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %s, disponible %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

// Is permite errors.Is(err, ErrInsufficientStock) sobre el error tipado.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// Shortfall devuelve la cantidad que faltó para satisfacer la solicitud.
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}
