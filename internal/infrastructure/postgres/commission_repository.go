package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.CommissionRepository = (*CommissionRepo)(nil)
var _ repository.CommissionConfigRepository = (*CommissionConfigRepo)(nil)

const commissionColumns = `id, company_id, sale_id, salesperson_id, sale_amount,
		rate, amount, status, paid_date, notes, created_at, updated_at`

// CommissionRepo implementación de CommissionRepository sobre PostgreSQL (usable con pool o tx).
type CommissionRepo struct {
	q Querier
}

// NewCommissionRepository construye el adaptador de comisiones. Pasar pool o tx (Querier).
func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

// CreateIfAbsent inserta la comisión salvo que ya exista una para la misma
// venta. El índice único sobre sale_id hace el alta idempotente: el reintento
// de completar una venta no genera una segunda comisión.
func (r *CommissionRepo) CreateIfAbsent(c *entity.Commission) (bool, error) {
	query := `
		INSERT INTO commissions (id, company_id, sale_id, salesperson_id, sale_amount,
			rate, amount, status, paid_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sale_id) DO NOTHING`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.CompanyID, c.SaleID, c.SalespersonID, c.SaleAmount,
		c.Rate, c.Amount, c.Status, c.PaidDate, nullIfEmpty(c.Notes), c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create commission: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID obtiene una comisión por ID.
func (r *CommissionRepo) GetByID(id string) (*entity.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE id = $1`
	return scanCommissionOne(r.q.QueryRow(context.Background(), query, id), "get commission")
}

// GetBySaleID obtiene la comisión de una venta, si existe.
func (r *CommissionRepo) GetBySaleID(saleID string) (*entity.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE sale_id = $1`
	return scanCommissionOne(r.q.QueryRow(context.Background(), query, saleID), "get commission by sale")
}

// Update persiste estado, fecha de pago y notas.
func (r *CommissionRepo) Update(c *entity.Commission) error {
	query := `
		UPDATE commissions SET status = $2, paid_date = $3, notes = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.Status, c.PaidDate, nullIfEmpty(c.Notes), c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update commission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update commission: no existe %s", c.ID)
	}
	return nil
}

// ListByCompany lista comisiones con filtros opcionales por estado y vendedor.
func (r *CommissionRepo) ListByCompany(companyID, status, salespersonID string, limit, offset int) ([]*entity.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE company_id = $1`
	args := []any{companyID}
	pos := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, status)
		pos++
	}
	if salespersonID != "" {
		query += fmt.Sprintf(" AND salesperson_id = $%d", pos)
		args = append(args, salespersonID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Commission
	for rows.Next() {
		c, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func scanCommissionOne(row pgx.Row, op string) (*entity.Commission, error) {
	c, err := scanCommission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func scanCommission(row pgx.Row) (*entity.Commission, error) {
	var c entity.Commission
	var notes *string
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.SaleID, &c.SalespersonID, &c.SaleAmount,
		&c.Rate, &c.Amount, &c.Status, &c.PaidDate, &notes, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		c.Notes = *notes
	}
	return &c, nil
}

// CommissionConfigRepo implementación de CommissionConfigRepository sobre PostgreSQL.
type CommissionConfigRepo struct {
	q Querier
}

// NewCommissionConfigRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCommissionConfigRepository(q Querier) *CommissionConfigRepo {
	return &CommissionConfigRepo{q: q}
}

const configColumns = `id, company_id, salesperson_id, category_id, type, rate,
		min_sale_amount, max_commission, active, created_at, updated_at`

// Create persiste una configuración de comisión.
func (r *CommissionConfigRepo) Create(cfg *entity.CommissionConfig) error {
	query := `
		INSERT INTO commission_configs (id, company_id, salesperson_id, category_id, type,
			rate, min_sale_amount, max_commission, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		cfg.ID, cfg.CompanyID, nullIfEmpty(cfg.SalespersonID), nullIfEmpty(cfg.CategoryID),
		cfg.Type, cfg.Rate, cfg.MinSaleAmount, cfg.MaxCommission, cfg.Active,
		cfg.CreatedAt, cfg.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create commission config: %w", err)
	}
	return nil
}

// GetByID obtiene una configuración por ID.
func (r *CommissionConfigRepo) GetByID(id string) (*entity.CommissionConfig, error) {
	query := `SELECT ` + configColumns + ` FROM commission_configs WHERE id = $1`
	cfg, err := scanConfig(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get commission config: %w", err)
	}
	return cfg, nil
}

// ListActiveByCompany devuelve las configuraciones activas de la empresa.
func (r *CommissionConfigRepo) ListActiveByCompany(companyID string) ([]*entity.CommissionConfig, error) {
	query := `SELECT ` + configColumns + ` FROM commission_configs
		WHERE company_id = $1 AND active ORDER BY created_at`
	return r.list(query, companyID)
}

// ListByCompany lista todas las configuraciones de la empresa.
func (r *CommissionConfigRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.CommissionConfig, error) {
	query := `SELECT ` + configColumns + ` FROM commission_configs
		WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, companyID, limit, offset)
}

func (r *CommissionConfigRepo) list(query string, args ...any) ([]*entity.CommissionConfig, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commission configs: %w", err)
	}
	defer rows.Close()
	var list []*entity.CommissionConfig
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("scan commission config: %w", err)
		}
		list = append(list, cfg)
	}
	return list, rows.Err()
}

func scanConfig(row pgx.Row) (*entity.CommissionConfig, error) {
	var cfg entity.CommissionConfig
	var salespersonID, categoryID *string
	err := row.Scan(
		&cfg.ID, &cfg.CompanyID, &salespersonID, &categoryID, &cfg.Type, &cfg.Rate,
		&cfg.MinSaleAmount, &cfg.MaxCommission, &cfg.Active, &cfg.CreatedAt, &cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if salespersonID != nil {
		cfg.SalespersonID = *salespersonID
	}
	if categoryID != nil {
		cfg.CategoryID = *categoryID
	}
	return &cfg, nil
}
