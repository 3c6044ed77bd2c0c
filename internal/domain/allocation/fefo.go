package allocation

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

// Line es la porción de la cantidad solicitada asignada a un lote.
type Line struct {
	BatchID  string
	Quantity decimal.Decimal
}

// Allocate reparte requested entre los lotes elegibles en orden FEFO
// (First-Expired-First-Out): recorre los lotes por fecha de vencimiento
// ascendente tomando min(restante, lote.Quantity) de cada uno. El desempate
// entre lotes con el mismo vencimiento es por CreatedAt ascendente, para que
// llamadas repetidas sobre el mismo estado produzcan la misma asignación.
//
// Si la suma de lotes elegibles no alcanza, retorna InsufficientStockError con
// el faltante y ninguna asignación parcial. No muta los lotes: la elegibilidad
// se revalida en el decremento real, que es el punto de verdad.
func Allocate(productID string, requested decimal.Decimal, batches []*entity.Batch, now time.Time) ([]Line, error) {
	if !requested.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	eligible := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.IsEligible(now) {
			eligible = append(eligible, b)
		}
	}
	// El repositorio ya entrega orden FEFO; se reordena por si el caller pasó
	// lotes sin ordenar (p. ej. fakes de test).
	sort.SliceStable(eligible, func(i, j int) bool {
		if !eligible[i].ExpiryDate.Equal(eligible[j].ExpiryDate) {
			return eligible[i].ExpiryDate.Before(eligible[j].ExpiryDate)
		}
		return eligible[i].CreatedAt.Before(eligible[j].CreatedAt)
	})

	available := decimal.Zero
	for _, b := range eligible {
		available = available.Add(b.Quantity)
	}
	if available.LessThan(requested) {
		return nil, &domain.InsufficientStockError{
			ProductID: productID,
			Requested: requested,
			Available: available,
		}
	}

	var lines []Line
	remaining := requested
	for _, b := range eligible {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		take := decimal.Min(remaining, b.Quantity)
		lines = append(lines, Line{BatchID: b.ID, Quantity: take})
		remaining = remaining.Sub(take)
	}
	return lines, nil
}
