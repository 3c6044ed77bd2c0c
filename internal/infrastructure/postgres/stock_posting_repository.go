package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.StockPostingRepository = (*StockPostingRepo)(nil)

// StockPostingRepo implementación de StockPostingRepository sobre PostgreSQL.
// La tabla stock_postings es el registro durable de idempotencia: la unicidad
// de (transaction_id, reference_id, kind) garantiza efecto único por reintento.
type StockPostingRepo struct {
	q Querier
}

// NewStockPostingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockPostingRepository(q Querier) *StockPostingRepo {
	return &StockPostingRepo{q: q}
}

// TryInsert registra la clave de idempotencia; devuelve false, sin error, si
// el efecto ya estaba contabilizado (ON CONFLICT DO NOTHING).
func (r *StockPostingRepo) TryInsert(p *entity.StockPosting) (bool, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_postings (id, transaction_id, reference_id, kind, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (transaction_id, reference_id, kind) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.TransactionID, p.ReferenceID, p.Kind, p.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert stock posting: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Exists verifica si un efecto de inventario ya fue contabilizado.
func (r *StockPostingRepo) Exists(transactionID, referenceID, kind string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_postings
			WHERE transaction_id = $1 AND reference_id = $2 AND kind = $3
		)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, transactionID, referenceID, kind).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check stock posting: %w", err)
	}
	return exists, nil
}
