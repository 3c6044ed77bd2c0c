package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/farmatic/botica-api/internal/domain/entity"
)

var now = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

// El vencimiento compara por fecha calendario, no por instante: un lote que
// vence hoy sigue vigente hasta el final del día.
func TestBatch_IsExpired_LimiteDeFecha(t *testing.T) {
	cases := []struct {
		name    string
		expiry  time.Time
		expired bool
	}{
		{"vence ayer", now.AddDate(0, 0, -1), true},
		{"vence hoy a medianoche", time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), false},
		{"vence hoy mas tarde", time.Date(2025, 6, 15, 23, 59, 0, 0, time.UTC), false},
		{"vence mañana", now.AddDate(0, 0, 1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &entity.Batch{ExpiryDate: tc.expiry}
			assert.Equal(t, tc.expired, b.IsExpired(now))
		})
	}
}

// EXPIRED se deriva en lectura; los estados explícitos tienen precedencia.
func TestBatch_EffectiveStatus(t *testing.T) {
	activeVigente := &entity.Batch{Status: entity.BatchStatusActive, ExpiryDate: now.AddDate(0, 6, 0)}
	assert.Equal(t, entity.BatchStatusActive, activeVigente.EffectiveStatus(now))

	activeVencido := &entity.Batch{Status: entity.BatchStatusActive, ExpiryDate: now.AddDate(0, 0, -1)}
	assert.Equal(t, entity.BatchStatusExpired, activeVencido.EffectiveStatus(now))

	// Un lote RECALLED vencido se reporta RECALLED, no EXPIRED.
	recalledVencido := &entity.Batch{Status: entity.BatchStatusRecalled, ExpiryDate: now.AddDate(0, 0, -30)}
	assert.Equal(t, entity.BatchStatusRecalled, recalledVencido.EffectiveStatus(now))

	quarantined := &entity.Batch{Status: entity.BatchStatusQuarantined, ExpiryDate: now.AddDate(0, 6, 0)}
	assert.Equal(t, entity.BatchStatusQuarantined, quarantined.EffectiveStatus(now))
}

// Elegibilidad FEFO: ACTIVE, no vencido y con cantidad positiva.
func TestBatch_IsEligible(t *testing.T) {
	base := entity.Batch{
		Status:     entity.BatchStatusActive,
		ExpiryDate: now.AddDate(0, 3, 0),
		Quantity:   decimal.NewFromInt(10),
	}
	assert.True(t, base.IsEligible(now))

	sinStock := base
	sinStock.Quantity = decimal.Zero
	assert.False(t, sinStock.IsEligible(now))

	vencido := base
	vencido.ExpiryDate = now.AddDate(0, 0, -1)
	assert.False(t, vencido.IsEligible(now))

	dañado := base
	dañado.Status = entity.BatchStatusDamaged
	assert.False(t, dañado.IsEligible(now))
}
