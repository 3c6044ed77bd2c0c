package entity

import "time"

// Salesperson representa un vendedor. Sale y Commission lo referencian solo
// por ID (clave foránea), nunca como puntero embebido, para evitar ciclos de
// propiedad Sale <-> Commission <-> Salesperson.
type Salesperson struct {
	ID        string
	CompanyID string
	Name      string
	Code      string // código único por empresa
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
