// Package apptest provee repositorios en memoria y un TxRunner con
// snapshot/restauración para probar los casos de uso sin base de datos.
// La semántica imita a la capa postgres: los getters devuelven copias (como
// un scan de fila) y un error dentro del runner revierte todos los efectos.
package apptest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/farmatic/botica-api/internal/application/payments"
	"github.com/farmatic/botica-api/internal/application/purchasing"
	"github.com/farmatic/botica-api/internal/application/sales"
	"github.com/farmatic/botica-api/internal/domain"
	"github.com/farmatic/botica-api/internal/domain/entity"
	"github.com/farmatic/botica-api/internal/domain/repository"
)

// Store estado compartido de todos los repositorios fake.
type Store struct {
	Sales         map[string]*entity.Sale
	SaleItems     map[string][]*entity.SaleItem
	Purchases     map[string]*entity.Purchase
	PurchaseItems map[string][]*entity.PurchaseItem
	Batches       map[string]*entity.Batch
	Commissions   map[string]*entity.Commission
	Configs       map[string]*entity.CommissionConfig
	Postings      map[string]bool
	Payments      map[string]*entity.Payment
	Credits       map[string]*entity.Credit
	Customers     map[string]*entity.Customer
	Salespersons  map[string]*entity.Salesperson
	Products      map[string]*entity.Product
	Suppliers     map[string]*entity.Supplier
	Methods       map[string]*entity.PaymentMethod
	Categories    map[string]*entity.Category
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{
		Sales:         map[string]*entity.Sale{},
		SaleItems:     map[string][]*entity.SaleItem{},
		Purchases:     map[string]*entity.Purchase{},
		PurchaseItems: map[string][]*entity.PurchaseItem{},
		Batches:       map[string]*entity.Batch{},
		Commissions:   map[string]*entity.Commission{},
		Configs:       map[string]*entity.CommissionConfig{},
		Postings:      map[string]bool{},
		Payments:      map[string]*entity.Payment{},
		Credits:       map[string]*entity.Credit{},
		Customers:     map[string]*entity.Customer{},
		Salespersons:  map[string]*entity.Salesperson{},
		Products:      map[string]*entity.Product{},
		Suppliers:     map[string]*entity.Supplier{},
		Methods:       map[string]*entity.PaymentMethod{},
		Categories:    map[string]*entity.Category{},
	}
}

func (s *Store) clone() *Store {
	c := NewStore()
	for k, v := range s.Sales {
		cp := *v
		c.Sales[k] = &cp
	}
	for k, v := range s.SaleItems {
		c.SaleItems[k] = copySaleItems(v)
	}
	for k, v := range s.Purchases {
		cp := *v
		c.Purchases[k] = &cp
	}
	for k, v := range s.PurchaseItems {
		c.PurchaseItems[k] = copyPurchaseItems(v)
	}
	for k, v := range s.Batches {
		cp := *v
		c.Batches[k] = &cp
	}
	for k, v := range s.Commissions {
		cp := *v
		c.Commissions[k] = &cp
	}
	for k, v := range s.Configs {
		cp := *v
		c.Configs[k] = &cp
	}
	for k, v := range s.Postings {
		c.Postings[k] = v
	}
	for k, v := range s.Payments {
		cp := *v
		c.Payments[k] = &cp
	}
	for k, v := range s.Credits {
		cp := *v
		c.Credits[k] = &cp
	}
	for k, v := range s.Customers {
		cp := *v
		c.Customers[k] = &cp
	}
	for k, v := range s.Salespersons {
		cp := *v
		c.Salespersons[k] = &cp
	}
	for k, v := range s.Products {
		cp := *v
		c.Products[k] = &cp
	}
	for k, v := range s.Suppliers {
		cp := *v
		c.Suppliers[k] = &cp
	}
	for k, v := range s.Methods {
		cp := *v
		c.Methods[k] = &cp
	}
	for k, v := range s.Categories {
		cp := *v
		c.Categories[k] = &cp
	}
	return c
}

func copySaleItems(items []*entity.SaleItem) []*entity.SaleItem {
	out := make([]*entity.SaleItem, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}

func copyPurchaseItems(items []*entity.PurchaseItem) []*entity.PurchaseItem {
	out := make([]*entity.PurchaseItem, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}

func postingKey(transactionID, referenceID, kind string) string {
	return transactionID + "|" + referenceID + "|" + kind
}

// ──────────────────────────────────────────────────────────────────────────────
// TxRunner
// ──────────────────────────────────────────────────────────────────────────────

// TxRunner ejecuta el callback contra el Store y restaura el snapshot previo
// si el callback falla, imitando el rollback de la transacción real.
type TxRunner struct{ S *Store }

var (
	_ sales.TxRunner      = (*TxRunner)(nil)
	_ purchasing.TxRunner = (*TxRunner)(nil)
	_ payments.TxRunner   = (*TxRunner)(nil)
)

func (t *TxRunner) run(fn func() error) error {
	snap := t.S.clone()
	if err := fn(); err != nil {
		*t.S = *snap
		return err
	}
	return nil
}

func (t *TxRunner) RunSale(ctx context.Context, fn func(
	saleRepo repository.SaleRepository,
	batchRepo repository.BatchRepository,
	commissionRepo repository.CommissionRepository,
	configRepo repository.CommissionConfigRepository,
	postingRepo repository.StockPostingRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return t.run(func() error {
		return fn(&SaleRepo{t.S}, &BatchRepo{t.S}, &CommissionRepo{t.S},
			&ConfigRepo{t.S}, &PostingRepo{t.S}, &PaymentRepo{t.S})
	})
}

func (t *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	batchRepo repository.BatchRepository,
	postingRepo repository.StockPostingRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return t.run(func() error {
		return fn(&PurchaseRepo{t.S}, &BatchRepo{t.S}, &PostingRepo{t.S}, &PaymentRepo{t.S})
	})
}

func (t *TxRunner) RunPayment(ctx context.Context, fn func(
	paymentRepo repository.PaymentRepository,
	purchaseRepo repository.PurchaseRepository,
	saleRepo repository.SaleRepository,
	creditRepo repository.CreditRepository,
) error) error {
	return t.run(func() error {
		return fn(&PaymentRepo{t.S}, &PurchaseRepo{t.S}, &SaleRepo{t.S}, &CreditRepo{t.S})
	})
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

// SaleRepo fake en memoria de repository.SaleRepository.
type SaleRepo struct{ S *Store }

var _ repository.SaleRepository = (*SaleRepo)(nil)

func (r *SaleRepo) Create(s *entity.Sale, items []*entity.SaleItem) error {
	if _, ok := r.S.Sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *s
	r.S.Sales[s.ID] = &cp
	r.S.SaleItems[s.ID] = copySaleItems(items)
	return nil
}

func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	v, ok := r.S.Sales[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) { return r.GetByID(id) }

func (r *SaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	return copySaleItems(r.S.SaleItems[saleID]), nil
}

func (r *SaleRepo) Update(s *entity.Sale) error {
	if _, ok := r.S.Sales[s.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *s
	r.S.Sales[s.ID] = &cp
	return nil
}

func (r *SaleRepo) ReplaceItems(saleID string, items []*entity.SaleItem) error {
	r.S.SaleItems[saleID] = copySaleItems(items)
	return nil
}

func (r *SaleRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, v := range r.S.Sales {
		if v.CompanyID != companyID || (status != "" && v.Status != status) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// PurchaseRepo fake en memoria de repository.PurchaseRepository.
type PurchaseRepo struct{ S *Store }

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

func (r *PurchaseRepo) Create(p *entity.Purchase, items []*entity.PurchaseItem) error {
	if _, ok := r.S.Purchases[p.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, v := range r.S.Purchases {
		if v.CompanyID == p.CompanyID && v.InvoiceNumber == p.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *p
	r.S.Purchases[p.ID] = &cp
	r.S.PurchaseItems[p.ID] = copyPurchaseItems(items)
	return nil
}

func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	v, ok := r.S.Purchases[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *PurchaseRepo) GetForUpdate(id string) (*entity.Purchase, error) { return r.GetByID(id) }

func (r *PurchaseRepo) GetByInvoiceNumber(companyID, invoiceNumber string) (*entity.Purchase, error) {
	for _, v := range r.S.Purchases {
		if v.CompanyID == companyID && v.InvoiceNumber == invoiceNumber {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *PurchaseRepo) GetItems(purchaseID string) ([]*entity.PurchaseItem, error) {
	return copyPurchaseItems(r.S.PurchaseItems[purchaseID]), nil
}

func (r *PurchaseRepo) Update(p *entity.Purchase) error {
	if _, ok := r.S.Purchases[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.S.Purchases[p.ID] = &cp
	return nil
}

func (r *PurchaseRepo) ReplaceItems(purchaseID string, items []*entity.PurchaseItem) error {
	r.S.PurchaseItems[purchaseID] = copyPurchaseItems(items)
	return nil
}

func (r *PurchaseRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.Purchase, error) {
	var out []*entity.Purchase
	for _, v := range r.S.Purchases {
		if v.CompanyID != companyID || (status != "" && v.Status != status) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// BatchRepo fake en memoria de repository.BatchRepository.
type BatchRepo struct{ S *Store }

var _ repository.BatchRepository = (*BatchRepo)(nil)

func (r *BatchRepo) Create(b *entity.Batch) error {
	if _, ok := r.S.Batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, v := range r.S.Batches {
		if v.ProductID == b.ProductID && v.BatchNumber == b.BatchNumber {
			return domain.ErrDuplicate
		}
	}
	cp := *b
	r.S.Batches[b.ID] = &cp
	return nil
}

func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	v, ok := r.S.Batches[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *BatchRepo) GetForUpdate(id string) (*entity.Batch, error) { return r.GetByID(id) }

func (r *BatchRepo) GetByProductAndNumberForUpdate(productID, batchNumber string) (*entity.Batch, error) {
	for _, v := range r.S.Batches {
		if v.ProductID == productID && v.BatchNumber == batchNumber {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *BatchRepo) Update(b *entity.Batch) error {
	if _, ok := r.S.Batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *b
	r.S.Batches[b.ID] = &cp
	return nil
}

func (r *BatchRepo) ListEligible(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, v := range r.S.Batches {
		if v.ProductID != productID || v.Status != entity.BatchStatusActive ||
			!v.Quantity.GreaterThan(decimal.Zero) || v.IsExpired(time.Now()) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiryDate.Equal(out[j].ExpiryDate) {
			return out[i].ExpiryDate.Before(out[j].ExpiryDate)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *BatchRepo) ListByProduct(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, v := range r.S.Batches {
		if v.ProductID != productID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

// CommissionRepo fake en memoria de repository.CommissionRepository.
type CommissionRepo struct{ S *Store }

var _ repository.CommissionRepository = (*CommissionRepo)(nil)

func (r *CommissionRepo) CreateIfAbsent(c *entity.Commission) (bool, error) {
	for _, v := range r.S.Commissions {
		if v.SaleID == c.SaleID {
			return false, nil
		}
	}
	cp := *c
	r.S.Commissions[c.ID] = &cp
	return true, nil
}

func (r *CommissionRepo) GetByID(id string) (*entity.Commission, error) {
	v, ok := r.S.Commissions[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *CommissionRepo) GetBySaleID(saleID string) (*entity.Commission, error) {
	for _, v := range r.S.Commissions {
		if v.SaleID == saleID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CommissionRepo) Update(c *entity.Commission) error {
	if _, ok := r.S.Commissions[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.S.Commissions[c.ID] = &cp
	return nil
}

func (r *CommissionRepo) ListByCompany(companyID, status, salespersonID string, limit, offset int) ([]*entity.Commission, error) {
	var out []*entity.Commission
	for _, v := range r.S.Commissions {
		if v.CompanyID != companyID ||
			(status != "" && v.Status != status) ||
			(salespersonID != "" && v.SalespersonID != salespersonID) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// ConfigRepo fake en memoria de repository.CommissionConfigRepository.
type ConfigRepo struct{ S *Store }

var _ repository.CommissionConfigRepository = (*ConfigRepo)(nil)

func (r *ConfigRepo) Create(cfg *entity.CommissionConfig) error {
	cp := *cfg
	r.S.Configs[cfg.ID] = &cp
	return nil
}

func (r *ConfigRepo) GetByID(id string) (*entity.CommissionConfig, error) {
	v, ok := r.S.Configs[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *ConfigRepo) ListActiveByCompany(companyID string) ([]*entity.CommissionConfig, error) {
	var out []*entity.CommissionConfig
	for _, v := range r.S.Configs {
		if v.CompanyID != companyID || !v.Active {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *ConfigRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.CommissionConfig, error) {
	var out []*entity.CommissionConfig
	for _, v := range r.S.Configs {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// PostingRepo fake en memoria de repository.StockPostingRepository.
type PostingRepo struct{ S *Store }

var _ repository.StockPostingRepository = (*PostingRepo)(nil)

func (r *PostingRepo) TryInsert(p *entity.StockPosting) (bool, error) {
	key := postingKey(p.TransactionID, p.ReferenceID, p.Kind)
	if r.S.Postings[key] {
		return false, nil
	}
	r.S.Postings[key] = true
	return true, nil
}

func (r *PostingRepo) Exists(transactionID, referenceID, kind string) (bool, error) {
	return r.S.Postings[postingKey(transactionID, referenceID, kind)], nil
}

// PaymentRepo fake en memoria de repository.PaymentRepository.
type PaymentRepo struct{ S *Store }

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

func (r *PaymentRepo) Create(p *entity.Payment) error {
	if _, ok := r.S.Payments[p.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *p
	r.S.Payments[p.ID] = &cp
	return nil
}

func (r *PaymentRepo) GetByID(id string) (*entity.Payment, error) {
	v, ok := r.S.Payments[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *PaymentRepo) Delete(id string) error {
	if _, ok := r.S.Payments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.S.Payments, id)
	return nil
}

func (r *PaymentRepo) SumByParent(parentType, parentID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range r.S.Payments {
		if v.ParentType == parentType && v.ParentID == parentID {
			sum = sum.Add(v.Amount)
		}
	}
	return sum, nil
}

func (r *PaymentRepo) ListByParent(parentType, parentID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, v := range r.S.Payments {
		if v.ParentType != parentType || v.ParentID != parentID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// CreditRepo fake en memoria de repository.CreditRepository.
type CreditRepo struct{ S *Store }

var _ repository.CreditRepository = (*CreditRepo)(nil)

func (r *CreditRepo) Create(c *entity.Credit) error {
	if _, ok := r.S.Credits[c.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *c
	r.S.Credits[c.ID] = &cp
	return nil
}

func (r *CreditRepo) GetByID(id string) (*entity.Credit, error) {
	v, ok := r.S.Credits[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *CreditRepo) GetForUpdate(id string) (*entity.Credit, error) { return r.GetByID(id) }

func (r *CreditRepo) Update(c *entity.Credit) error {
	if _, ok := r.S.Credits[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.S.Credits[c.ID] = &cp
	return nil
}

func (r *CreditRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Credit, error) {
	var out []*entity.Credit
	for _, v := range r.S.Credits {
		if v.CustomerID != customerID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

// CustomerRepo fake en memoria de repository.CustomerRepository.
type CustomerRepo struct{ S *Store }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(c *entity.Customer) error {
	cp := *c
	r.S.Customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	v, ok := r.S.Customers[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *CustomerRepo) GetByCompanyAndTaxID(companyID, taxID string) (*entity.Customer, error) {
	for _, v := range r.S.Customers {
		if v.CompanyID == companyID && v.TaxID == taxID {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, v := range r.S.Customers {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// SalespersonRepo fake en memoria de repository.SalespersonRepository.
type SalespersonRepo struct{ S *Store }

var _ repository.SalespersonRepository = (*SalespersonRepo)(nil)

func (r *SalespersonRepo) Create(s *entity.Salesperson) error {
	cp := *s
	r.S.Salespersons[s.ID] = &cp
	return nil
}

func (r *SalespersonRepo) GetByID(id string) (*entity.Salesperson, error) {
	v, ok := r.S.Salespersons[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *SalespersonRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Salesperson, error) {
	var out []*entity.Salesperson
	for _, v := range r.S.Salespersons {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// ProductRepo fake en memoria de repository.ProductRepository.
type ProductRepo struct{ S *Store }

var _ repository.ProductRepository = (*ProductRepo)(nil)

func (r *ProductRepo) Create(p *entity.Product) error {
	cp := *p
	r.S.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	v, ok := r.S.Products[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, v := range r.S.Products {
		if v.CompanyID == companyID && v.SKU == sku {
			cp := *v
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(p *entity.Product) error {
	if _, ok := r.S.Products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	r.S.Products[p.ID] = &cp
	return nil
}

func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, v := range r.S.Products {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r *ProductRepo) GetCategoryIDs(productIDs []string) (map[string]string, error) {
	out := make(map[string]string, len(productIDs))
	for _, id := range productIDs {
		if p, ok := r.S.Products[id]; ok && p.CategoryID != "" {
			out[id] = p.CategoryID
		}
	}
	return out, nil
}

// SupplierRepo fake en memoria de repository.SupplierRepository.
type SupplierRepo struct{ S *Store }

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

func (r *SupplierRepo) Create(s *entity.Supplier) error {
	cp := *s
	r.S.Suppliers[s.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	v, ok := r.S.Suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *SupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, v := range r.S.Suppliers {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// MethodRepo fake en memoria de repository.PaymentMethodRepository.
type MethodRepo struct{ S *Store }

var _ repository.PaymentMethodRepository = (*MethodRepo)(nil)

func (r *MethodRepo) Create(m *entity.PaymentMethod) error {
	cp := *m
	r.S.Methods[m.ID] = &cp
	return nil
}

func (r *MethodRepo) GetByID(id string) (*entity.PaymentMethod, error) {
	v, ok := r.S.Methods[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *MethodRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.PaymentMethod, error) {
	var out []*entity.PaymentMethod
	for _, v := range r.S.Methods {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

// CategoryRepo fake en memoria de repository.CategoryRepository.
type CategoryRepo struct{ S *Store }

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(c *entity.Category) error {
	cp := *c
	r.S.Categories[c.ID] = &cp
	return nil
}

func (r *CategoryRepo) GetByID(id string) (*entity.Category, error) {
	v, ok := r.S.Categories[id]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *CategoryRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Category, error) {
	var out []*entity.Category
	for _, v := range r.S.Categories {
		if v.CompanyID != companyID {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func page[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
