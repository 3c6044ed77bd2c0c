package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador de pagos. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create persiste un pago.
func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, company_id, parent_type, parent_id, amount, date,
			reference_number, payment_method_id, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.ParentType, p.ParentID, p.Amount, p.Date,
		nullIfEmpty(p.ReferenceNumber), p.PaymentMethodID, nullIfEmpty(p.Notes),
		nullIfEmpty(p.CreatedBy), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago por ID.
func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	query := `
		SELECT id, company_id, parent_type, parent_id, amount, date,
			reference_number, payment_method_id, notes, created_by, created_at
		FROM payments WHERE id = $1`
	p, err := scanPayment(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// Delete elimina un pago. La restricción de negocio (padre cerrado) se valida
// en el caso de uso antes de llegar aquí.
func (r *PaymentRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete payment: no existe %s", id)
	}
	return nil
}

// SumByParent recalcula la suma de pagos vigentes del padre.
func (r *PaymentRepo) SumByParent(parentType, parentID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE parent_type = $1 AND parent_id = $2`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, parentType, parentID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum payments: %w", err)
	}
	return sum, nil
}

// ListByParent lista los pagos de un padre, del más reciente al más antiguo.
func (r *PaymentRepo) ListByParent(parentType, parentID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, company_id, parent_type, parent_id, amount, date,
			reference_number, payment_method_id, notes, created_by, created_at
		FROM payments WHERE parent_type = $1 AND parent_id = $2
		ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(context.Background(), query, parentType, parentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	var refNumber, notes, createdBy *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.ParentType, &p.ParentID, &p.Amount, &p.Date,
		&refNumber, &p.PaymentMethodID, &notes, &createdBy, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if refNumber != nil {
		p.ReferenceNumber = *refNumber
	}
	if notes != nil {
		p.Notes = *notes
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}
