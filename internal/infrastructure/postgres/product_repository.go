package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, company_id, sku, name, description, category_id,
		price, unit_measure, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto nuevo.
func (r *ProductRepo) Create(p *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, sku, name, description, category_id,
			price, unit_measure, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.SKU, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.CategoryID),
		p.Price, nullIfEmpty(p.UnitMeasure), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProductOne(r.q.QueryRow(context.Background(), query, id), "get product")
}

// GetByCompanyAndSKU busca un producto por SKU dentro de la empresa.
func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND sku = $2`
	return scanProductOne(r.q.QueryRow(context.Background(), query, companyID, sku), "get product by sku")
}

// Update persiste nombre, descripción, categoría, precio y unidad.
func (r *ProductRepo) Update(p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, category_id = $4,
			price = $5, unit_measure = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		p.ID, p.Name, nullIfEmpty(p.Description), nullIfEmpty(p.CategoryID),
		p.Price, nullIfEmpty(p.UnitMeasure), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product: no existe %s", p.ID)
	}
	return nil
}

// ListByCompany lista los productos de la empresa.
func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products
		WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// GetCategoryIDs devuelve la categoría de cada producto; productos sin
// categoría no aparecen en el mapa.
func (r *ProductRepo) GetCategoryIDs(productIDs []string) (map[string]string, error) {
	if len(productIDs) == 0 {
		return map[string]string{}, nil
	}
	query := `SELECT id, category_id FROM products WHERE id = ANY($1) AND category_id IS NOT NULL`
	rows, err := r.q.Query(context.Background(), query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("get category ids: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string, len(productIDs))
	for rows.Next() {
		var id, categoryID string
		if err := rows.Scan(&id, &categoryID); err != nil {
			return nil, fmt.Errorf("scan category id: %w", err)
		}
		out[id] = categoryID
	}
	return out, rows.Err()
}

func scanProductOne(row pgx.Row, op string) (*entity.Product, error) {
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var description, categoryID, unitMeasure *string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &description, &categoryID,
		&p.Price, &unitMeasure, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	if categoryID != nil {
		p.CategoryID = *categoryID
	}
	if unitMeasure != nil {
		p.UnitMeasure = *unitMeasure
	}
	return &p, nil
}
