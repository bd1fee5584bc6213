package entity

import "time"

// Inventory una fila por (tenant, sucursal, producto GOODS). Qty nunca es negativo.
type Inventory struct {
	ID            string
	TenantID      string
	BranchID      string
	ProductID     string
	Qty           int
	MinStockAlert int
	UpdatedAt     time.Time
}

// IsLow indica si la fila está en o bajo su umbral de alerta.
func (i *Inventory) IsLow() bool { return i.Qty <= i.MinStockAlert }
