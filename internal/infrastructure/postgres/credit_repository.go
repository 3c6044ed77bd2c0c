package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.CreditRepository = (*CreditRepo)(nil)

const creditColumns = `id, company_id, customer_id, date, total_amount, paid_amount,
		status, notes, created_at, updated_at`

// CreditRepo implementación de CreditRepository sobre PostgreSQL (usable con pool o tx).
type CreditRepo struct {
	q Querier
}

// NewCreditRepository construye el adaptador de créditos. Pasar pool o tx (Querier).
func NewCreditRepository(q Querier) *CreditRepo {
	return &CreditRepo{q: q}
}

// Create persiste un crédito nuevo.
func (r *CreditRepo) Create(c *entity.Credit) error {
	query := `
		INSERT INTO credits (id, company_id, customer_id, date, total_amount, paid_amount,
			status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.CustomerID, c.Date, c.TotalAmount, c.PaidAmount,
		c.Status, nullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create credit: %w", err)
	}
	return nil
}

// GetByID obtiene un crédito por ID.
func (r *CreditRepo) GetByID(id string) (*entity.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE id = $1`
	return scanCreditOne(r.q.QueryRow(context.Background(), query, id), "get credit")
}

// GetForUpdate bloquea la fila del crédito para conciliación de pagos.
func (r *CreditRepo) GetForUpdate(id string) (*entity.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits WHERE id = $1 FOR UPDATE`
	return scanCreditOne(r.q.QueryRow(context.Background(), query, id), "get credit for update")
}

// Update persiste saldo y estado.
func (r *CreditRepo) Update(c *entity.Credit) error {
	query := `
		UPDATE credits SET paid_amount = $2, status = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.PaidAmount, c.Status, nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update credit: no existe %s", c.ID)
	}
	return nil
}

// ListByCustomer lista los créditos de un cliente.
func (r *CreditRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Credit, error) {
	query := `SELECT ` + creditColumns + ` FROM credits
		WHERE customer_id = $1 ORDER BY date DESC, created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer rows.Close()
	var list []*entity.Credit
	for rows.Next() {
		c, err := scanCredit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan credit: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCreditOne(row pgx.Row, op string) (*entity.Credit, error) {
	c, err := scanCredit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCredit(row pgx.Row) (*entity.Credit, error) {
	var c entity.Credit
	var notes *string
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.CustomerID, &c.Date, &c.TotalAmount, &c.PaidAmount,
		&c.Status, &notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		c.Notes = *notes
	}
	return &c, nil
}
