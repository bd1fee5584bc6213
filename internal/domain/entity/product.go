package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto. Solo GOODS maneja inventario.
const (
	ProductTypeGoods   = "GOODS"
	ProductTypeService = "SERVICE"
)

// DefaultMinStock umbral de alerta por defecto para productos nuevos.
const DefaultMinStock = 5

// Product entrada del catálogo de un tenant. SKU único por tenant.
type Product struct {
	ID              string
	TenantID        string
	SKU             string
	Name            string
	Type            string
	BasePrice       decimal.Decimal
	SellPrice       *decimal.Decimal
	IsFlexiblePrice bool // el precio se fija al momento de la venta
	ImageURL        *string
	MinStock        int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsGoods indica si el producto lleva stock.
func (p *Product) IsGoods() bool { return p.Type == ProductTypeGoods }

// ValidProductType indica si el tipo existe.
func ValidProductType(t string) bool {
	return t == ProductTypeGoods || t == ProductTypeService
}
