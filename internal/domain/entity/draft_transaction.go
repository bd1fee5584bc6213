package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftItem línea de un carrito sin confirmar.
type DraftItem struct {
	ProductID     string           `json:"productId"`
	MechanicID    *string          `json:"mechanicId,omitempty"`
	Qty           int              `json:"qty"`
	PriceAtMoment decimal.Decimal  `json:"priceAtMoment"`
	MechanicFee   *decimal.Decimal `json:"mechanicFee,omitempty"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
}

// DraftTransaction carrito sin confirmar. Items se persiste como JSON opaco (DraftData).
type DraftTransaction struct {
	ID            string
	TenantID      string
	BranchID      string
	CustomerPlate *string
	TotalAmount   decimal.Decimal
	DraftData     []byte
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
