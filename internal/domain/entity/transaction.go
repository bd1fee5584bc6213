package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de TransactionHeader.
const (
	TransactionPending   = "PENDING"
	TransactionPaid      = "PAID"
	TransactionCancelled = "CANCELLED"
)

// ValidTransactionStatus indica si el estado existe.
func ValidTransactionStatus(s string) bool {
	switch s {
	case TransactionPending, TransactionPaid, TransactionCancelled:
		return true
	}
	return false
}

// TransactionHeader una venta. TotalAmount = Σ subtotal de sus detalles.
type TransactionHeader struct {
	ID            string
	TenantID      string
	BranchID      string
	CustomerPlate *string
	TotalAmount   decimal.Decimal
	Status        string
	CreatedBy     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TransactionDetail línea de venta. PriceAtMoment es una foto del precio, desacoplada del catálogo.
type TransactionDetail struct {
	ID            string
	TransactionID string
	ProductID     string
	Qty           int
	PriceAtMoment decimal.Decimal
	Subtotal      decimal.Decimal
	MechanicID    *string
	MechanicFee   decimal.Decimal
	CreatedAt     time.Time
}
