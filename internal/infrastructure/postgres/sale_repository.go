package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, company_id, customer_id, salesperson_id, date, status,
		total_amount, paid_amount, payment_method_id, notes, created_by, created_at, updated_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la cabecera y sus líneas.
func (r *SaleRepo) Create(s *entity.Sale, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sales (id, company_id, customer_id, salesperson_id, date, status,
			total_amount, paid_amount, payment_method_id, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CompanyID, s.CustomerID, nullIfEmpty(s.SalespersonID), s.Date, s.Status,
		s.TotalAmount, s.PaidAmount, nullIfEmpty(s.PaymentMethodID), nullIfEmpty(s.Notes),
		nullIfEmpty(s.CreatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return r.insertItems(s.ID, items)
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return scanSaleOne(r.q.QueryRow(context.Background(), query, id), "get sale")
}

// GetForUpdate bloquea la cabecera para transiciones de estado y pagos.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return scanSaleOne(r.q.QueryRow(context.Background(), query, id), "get sale for update")
}

// GetItems devuelve las líneas de una venta.
func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	query := `
		SELECT id, sale_id, product_id, batch_id, quantity, unit_price, discount, total
		FROM sale_items WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale items: %w", err)
	}
	defer rows.Close()
	var list []*entity.SaleItem
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.BatchID,
			&it.Quantity, &it.UnitPrice, &it.Discount, &it.Total); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update persiste cabecera: estado, montos, vendedor, notas.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales SET customer_id = $2, salesperson_id = $3, date = $4, status = $5,
			total_amount = $6, paid_amount = $7, payment_method_id = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		s.ID, s.CustomerID, nullIfEmpty(s.SalespersonID), s.Date, s.Status,
		s.TotalAmount, s.PaidAmount, nullIfEmpty(s.PaymentMethodID), nullIfEmpty(s.Notes), s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sale: no existe %s", s.ID)
	}
	return nil
}

// ReplaceItems reemplaza las líneas de una venta PENDING.
func (r *SaleRepo) ReplaceItems(saleID string, items []*entity.SaleItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM sale_items WHERE sale_id = $1`, saleID); err != nil {
		return fmt.Errorf("delete sale items: %w", err)
	}
	return r.insertItems(saleID, items)
}

// ListByCompany lista ventas de la empresa con filtro opcional por estado.
func (r *SaleRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *SaleRepo) insertItems(saleID string, items []*entity.SaleItem) error {
	query := `
		INSERT INTO sale_items (id, sale_id, product_id, batch_id, quantity, unit_price, discount, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = saleID
		if _, err := r.q.Exec(context.Background(), query,
			it.ID, it.SaleID, it.ProductID, it.BatchID,
			it.Quantity, it.UnitPrice, it.Discount, it.Total,
		); err != nil {
			return fmt.Errorf("create sale item: %w", err)
		}
	}
	return nil
}

func scanSaleOne(row pgx.Row, op string) (*entity.Sale, error) {
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var salespersonID, methodID, notes, createdBy *string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.CustomerID, &salespersonID, &s.Date, &s.Status,
		&s.TotalAmount, &s.PaidAmount, &methodID, &notes, &createdBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if salespersonID != nil {
		s.SalespersonID = *salespersonID
	}
	if methodID != nil {
		s.PaymentMethodID = *methodID
	}
	if notes != nil {
		s.Notes = *notes
	}
	if createdBy != nil {
		s.CreatedBy = *createdBy
	}
	return &s, nil
}
