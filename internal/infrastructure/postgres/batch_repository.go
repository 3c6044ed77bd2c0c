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

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, company_id, product_id, supplier_id, batch_number,
		manufacturing_date, expiry_date, quantity, purchase_price, selling_price,
		status, recall_date, recall_reason, recall_reference,
		quarantine_date, quarantine_reason, created_at, updated_at`

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *BatchRepo) Create(b *entity.Batch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	query := `
		INSERT INTO batches (id, company_id, product_id, supplier_id, batch_number,
			manufacturing_date, expiry_date, quantity, purchase_price, selling_price,
			status, recall_date, recall_reason, recall_reference,
			quarantine_date, quarantine_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		b.ID, b.CompanyID, b.ProductID, nullIfEmpty(b.SupplierID), b.BatchNumber,
		b.ManufacturingDate, b.ExpiryDate, b.Quantity, b.PurchasePrice, b.SellingPrice,
		b.Status, b.RecallDate, nullIfEmpty(b.RecallReason), nullIfEmpty(b.RecallReference),
		b.QuarantineDate, nullIfEmpty(b.QuarantineReason), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get batch")
}

// GetForUpdate obtiene un lote y bloquea la fila (SELECT FOR UPDATE).
func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id), "get batch for update")
}

// GetByProductAndNumberForUpdate bloquea el lote (producto, número de lote) si existe.
func (r *BatchRepo) GetByProductAndNumberForUpdate(productID, batchNumber string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1 AND batch_number = $2 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, productID, batchNumber), "get batch by number")
}

// Update persiste cantidad, precios, estado y metadatos de recall/cuarentena.
func (r *BatchRepo) Update(b *entity.Batch) error {
	query := `
		UPDATE batches SET quantity = $2, purchase_price = $3, selling_price = $4,
			expiry_date = $5, manufacturing_date = $6, status = $7,
			recall_date = $8, recall_reason = $9, recall_reference = $10,
			quarantine_date = $11, quarantine_reason = $12, updated_at = $13
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		b.ID, b.Quantity, b.PurchasePrice, b.SellingPrice,
		b.ExpiryDate, b.ManufacturingDate, b.Status,
		b.RecallDate, nullIfEmpty(b.RecallReason), nullIfEmpty(b.RecallReference),
		b.QuarantineDate, nullIfEmpty(b.QuarantineReason), b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch: no existe %s", b.ID)
	}
	return nil
}

// ListEligible devuelve los lotes asignables de un producto en orden FEFO:
// ACTIVE, no vencidos y con cantidad > 0, por vencimiento y luego creación.
func (r *BatchRepo) ListEligible(productID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1 AND status = $2 AND quantity > 0 AND expiry_date >= CURRENT_DATE
		ORDER BY expiry_date ASC, created_at ASC`
	return r.list(query, productID, entity.BatchStatusActive)
}

// ListByProduct lista todos los lotes de un producto (incluye vencidos y agotados).
func (r *BatchRepo) ListByProduct(productID string) ([]*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches
		WHERE product_id = $1
		ORDER BY expiry_date ASC, created_at ASC`
	return r.list(query, productID)
}

func (r *BatchRepo) list(query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *BatchRepo) scanOne(row pgx.Row, op string) (*entity.Batch, error) {
	b, err := scanBatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return b, nil
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	var supplierID, recallReason, recallRef, quarantineReason *string
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &supplierID, &b.BatchNumber,
		&b.ManufacturingDate, &b.ExpiryDate, &b.Quantity, &b.PurchasePrice, &b.SellingPrice,
		&b.Status, &b.RecallDate, &recallReason, &recallRef,
		&b.QuarantineDate, &quarantineReason, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		b.SupplierID = *supplierID
	}
	if recallReason != nil {
		b.RecallReason = *recallReason
	}
	if recallRef != nil {
		b.RecallReference = *recallRef
	}
	if quarantineReason != nil {
		b.QuarantineReason = *quarantineReason
	}
	return &b, nil
}
