package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftItemRequest línea de borrador. El subtotal lo calcula el servidor.
type DraftItemRequest struct {
	ProductID     string           `json:"productId"`
	MechanicID    *string          `json:"mechanicId"`
	Qty           int              `json:"qty"`
	PriceAtMoment decimal.Decimal  `json:"priceAtMoment"`
	MechanicFee   *decimal.Decimal `json:"mechanicFee"`
}

// SaveDraftRequest entrada para crear o reemplazar un borrador.
// BranchID solo se usa si el usuario no tiene sucursal en su token.
type SaveDraftRequest struct {
	BranchID      string             `json:"branchId,omitempty"`
	CustomerPlate *string            `json:"customerPlate"`
	Items         []DraftItemRequest `json:"items"`
}

// DraftItemResponse línea guardada.
type DraftItemResponse struct {
	ProductID     string           `json:"productId"`
	MechanicID    *string          `json:"mechanicId,omitempty"`
	Qty           int              `json:"qty"`
	PriceAtMoment decimal.Decimal  `json:"priceAtMoment"`
	MechanicFee   *decimal.Decimal `json:"mechanicFee,omitempty"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
}

// DraftResponse borrador con sus líneas decodificadas.
type DraftResponse struct {
	ID            string              `json:"id"`
	BranchID      string              `json:"branchId"`
	CustomerPlate *string             `json:"customerPlate"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Items         []DraftItemResponse `json:"items"`
	CreatedBy     string              `json:"createdBy"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}
