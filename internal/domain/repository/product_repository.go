package repository

import "github.com/farmatic/botica-api/internal/domain/entity"

// ProductRepository define el puerto para productos.
type ProductRepository interface {
	Create(p *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error)
	Update(p *entity.Product) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// GetCategoryIDs devuelve la categoría de cada producto (para el cálculo
	// de comisiones por categoría sin cargar los productos completos).
	GetCategoryIDs(productIDs []string) (map[string]string, error)
}
