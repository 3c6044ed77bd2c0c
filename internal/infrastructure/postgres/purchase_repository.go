package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

const purchaseColumns = `id, company_id, supplier_id, invoice_number, date, status,
		total_amount, paid_amount, payment_method_id, notes, created_by, created_at, updated_at`

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL (usable con pool o tx).
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create persiste la cabecera y sus líneas. La unicidad de invoice_number por
// empresa se respalda en un índice único: una carrera entre dos altas con la
// misma factura termina en ErrDuplicate para la segunda.
func (r *PurchaseRepo) Create(p *entity.Purchase, items []*entity.PurchaseItem) error {
	query := `
		INSERT INTO purchases (id, company_id, supplier_id, invoice_number, date, status,
			total_amount, paid_amount, payment_method_id, notes, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.SupplierID, p.InvoiceNumber, p.Date, p.Status,
		p.TotalAmount, p.PaidAmount, nullIfEmpty(p.PaymentMethodID), nullIfEmpty(p.Notes),
		nullIfEmpty(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create purchase: %w", err)
	}
	return r.insertItems(p.ID, items)
}

// GetByID obtiene una compra por ID.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	return scanPurchaseOne(r.q.QueryRow(context.Background(), query, id), "get purchase")
}

// GetForUpdate bloquea la cabecera para transiciones de estado y pagos.
func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`
	return scanPurchaseOne(r.q.QueryRow(context.Background(), query, id), "get purchase for update")
}

// GetByInvoiceNumber busca una compra por número de factura dentro de la empresa.
func (r *PurchaseRepo) GetByInvoiceNumber(companyID, invoiceNumber string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases
		WHERE company_id = $1 AND invoice_number = $2`
	return scanPurchaseOne(r.q.QueryRow(context.Background(), query, companyID, invoiceNumber), "get purchase by invoice")
}

// GetItems devuelve las líneas de una compra.
func (r *PurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	query := `
		SELECT id, purchase_id, product_id, batch_number, expiry_date, manufacturing_date,
			quantity, unit_cost, selling_price, total_cost
		FROM purchase_items WHERE purchase_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("get purchase items: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseItem
	for rows.Next() {
		var it entity.PurchaseItem
		if err := rows.Scan(&it.ID, &it.PurchaseID, &it.ProductID, &it.BatchNumber,
			&it.ExpiryDate, &it.ManufacturingDate, &it.Quantity, &it.UnitCost,
			&it.SellingPrice, &it.TotalCost); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// Update persiste cabecera: estado, montos, notas.
func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	query := `
		UPDATE purchases SET supplier_id = $2, date = $3, status = $4, total_amount = $5,
			paid_amount = $6, payment_method_id = $7, notes = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.SupplierID, p.Date, p.Status, p.TotalAmount,
		p.PaidAmount, nullIfEmpty(p.PaymentMethodID), nullIfEmpty(p.Notes), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update purchase: no existe %s", p.ID)
	}
	return nil
}

// ReplaceItems reemplaza las líneas de una compra no terminal.
func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []*entity.PurchaseItem) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM purchase_items WHERE purchase_id = $1`, purchaseID); err != nil {
		return fmt.Errorf("delete purchase items: %w", err)
	}
	return r.insertItems(purchaseID, items)
}

// ListByCompany lista compras de la empresa con filtro opcional por estado.
func (r *PurchaseRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE company_id = $1`
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
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()
	var list []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PurchaseRepo) insertItems(purchaseID string, items []*entity.PurchaseItem) error {
	query := `
		INSERT INTO purchase_items (id, purchase_id, product_id, batch_number, expiry_date,
			manufacturing_date, quantity, unit_cost, selling_price, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, it := range items {
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.PurchaseID = purchaseID
		if _, err := r.q.Exec(context.Background(), query,
			it.ID, it.PurchaseID, it.ProductID, it.BatchNumber, it.ExpiryDate,
			it.ManufacturingDate, it.Quantity, it.UnitCost, it.SellingPrice, it.TotalCost,
		); err != nil {
			return fmt.Errorf("create purchase item: %w", err)
		}
	}
	return nil
}

func scanPurchaseOne(row pgx.Row, op string) (*entity.Purchase, error) {
	p, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	var methodID, notes, createdBy *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SupplierID, &p.InvoiceNumber, &p.Date, &p.Status,
		&p.TotalAmount, &p.PaidAmount, &methodID, &notes, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if methodID != nil {
		p.PaymentMethodID = *methodID
	}
	if notes != nil {
		p.Notes = *notes
	}
	if createdBy != nil {
		p.CreatedBy = *createdBy
	}
	return &p, nil
}
