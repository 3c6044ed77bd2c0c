package commission

import (
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/domain/entity"
)

// ItemAmount monto de una línea de venta con la categoría de su producto,
// entrada para la aplicación de configuraciones con alcance por categoría.
type ItemAmount struct {
	CategoryID string
	Amount     decimal.Decimal
}

// Result snapshot del cálculo: tasa aplicada y monto resultante.
// En modo por categoría la tasa es la efectiva (monto/venta*100).
type Result struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// scope define una dimensión de especificidad. La resolución evalúa la lista
// ordenada de más específico a menos específico; así agregar una dimensión
// nueva no obliga a reescribir condicionales anidados.
type scope struct {
	bySalesperson bool
	byCategory    bool
}

var scopeOrder = []scope{
	{bySalesperson: true, byCategory: true},
	{bySalesperson: true, byCategory: false},
	{bySalesperson: false, byCategory: true},
	{bySalesperson: false, byCategory: false},
}

// resolveScope devuelve las configuraciones activas del alcance más específico
// que tenga al menos una coincidencia para (salespersonID, categoryID).
func resolveScope(salespersonID, categoryID string, configs []*entity.CommissionConfig) []*entity.CommissionConfig {
	for _, s := range scopeOrder {
		if s.byCategory && categoryID == "" {
			continue
		}
		var matched []*entity.CommissionConfig
		for _, cfg := range configs {
			if !cfg.Active {
				continue
			}
			if s.bySalesperson != (cfg.SalespersonID != "") || (s.bySalesperson && cfg.SalespersonID != salespersonID) {
				continue
			}
			if s.byCategory != (cfg.CategoryID != "") || (s.byCategory && cfg.CategoryID != categoryID) {
				continue
			}
			matched = append(matched, cfg)
		}
		if len(matched) > 0 {
			return matched
		}
	}
	return nil
}

// apply aplica las configuraciones de un alcance resuelto sobre un monto.
// PERCENTAGE: monto*tasa/100. FIXED: tasa plana. TIERED: entre las
// configuraciones del alcance gana el umbral MinSaleAmount más alto que el
// monto alcance, y su tasa se aplica como porcentaje. MinSaleAmount en
// configuraciones no escalonadas actúa como piso de calificación.
// El resultado se recorta a MaxCommission si está definido.
func apply(configs []*entity.CommissionConfig, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal, bool) {
	if len(configs) == 0 {
		return decimal.Zero, decimal.Zero, false
	}

	var tiered []*entity.CommissionConfig
	for _, cfg := range configs {
		if cfg.Type == entity.CommissionTypeTiered {
			tiered = append(tiered, cfg)
		}
	}
	var winner *entity.CommissionConfig
	if len(tiered) > 0 {
		for _, cfg := range tiered {
			min := decimal.Zero
			if cfg.MinSaleAmount != nil {
				min = *cfg.MinSaleAmount
			}
			if amount.LessThan(min) {
				continue
			}
			if winner == nil || minOf(cfg).GreaterThan(minOf(winner)) {
				winner = cfg
			}
		}
		if winner == nil {
			return decimal.Zero, decimal.Zero, false // ningún escalón alcanzado
		}
	} else {
		winner = configs[0]
		if winner.MinSaleAmount != nil && amount.LessThan(*winner.MinSaleAmount) {
			return decimal.Zero, decimal.Zero, false
		}
	}

	var value decimal.Decimal
	switch winner.Type {
	case entity.CommissionTypeFixed:
		value = winner.Rate
	default: // PERCENTAGE y TIERED aplican la tasa como porcentaje
		value = amount.Mul(winner.Rate).Div(decimal.NewFromInt(100))
	}
	if winner.MaxCommission != nil && value.GreaterThan(*winner.MaxCommission) {
		value = *winner.MaxCommission
	}
	return winner.Rate, value, true
}

func minOf(cfg *entity.CommissionConfig) decimal.Decimal {
	if cfg.MinSaleAmount == nil {
		return decimal.Zero
	}
	return *cfg.MinSaleAmount
}

// Calculate resuelve la comisión de una venta completada. Si existe alguna
// configuración con alcance por categoría aplicable al vendedor, las tasas se
// aplican línea por línea según la categoría del producto y se suman; si no,
// una sola configuración (vendedor > global) se aplica al total de la venta.
// Retorna nil si ninguna configuración aplica o el monto resultante es cero.
func Calculate(salespersonID string, saleAmount decimal.Decimal, items []ItemAmount, configs []*entity.CommissionConfig) *Result {
	if saleAmount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	categoryScoped := false
	for _, cfg := range configs {
		if !cfg.Active || cfg.CategoryID == "" {
			continue
		}
		if cfg.SalespersonID != "" && cfg.SalespersonID != salespersonID {
			continue
		}
		for _, it := range items {
			if it.CategoryID == cfg.CategoryID {
				categoryScoped = true
				break
			}
		}
	}

	if !categoryScoped {
		scoped := resolveScope(salespersonID, "", configs)
		rate, value, ok := apply(scoped, saleAmount)
		if !ok || value.LessThanOrEqual(decimal.Zero) {
			return nil
		}
		return &Result{Rate: rate, Amount: value}
	}

	total := decimal.Zero
	for _, it := range items {
		scoped := resolveScope(salespersonID, it.CategoryID, configs)
		_, value, ok := apply(scoped, it.Amount)
		if !ok {
			continue
		}
		total = total.Add(value)
	}
	if total.LessThanOrEqual(decimal.Zero) {
		return nil
	}
	effectiveRate := total.Div(saleAmount).Mul(decimal.NewFromInt(100)).Round(4)
	return &Result{Rate: effectiveRate, Amount: total}
}
