package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	SellPrice       *decimal.Decimal `json:"sellPrice"`
	IsFlexiblePrice bool             `json:"isFlexiblePrice"`
	ImageURL        *string          `json:"imageUrl"`
	MinStock        *int             `json:"minStock"`
}

// UpdateProductRequest campos opcionales.
type UpdateProductRequest struct {
	SKU             *string          `json:"sku"`
	Name            *string          `json:"name"`
	Type            *string          `json:"type"`
	BasePrice       *decimal.Decimal `json:"basePrice"`
	SellPrice       *decimal.Decimal `json:"sellPrice"`
	IsFlexiblePrice *bool            `json:"isFlexiblePrice"`
	ImageURL        *string          `json:"imageUrl"`
	MinStock        *int             `json:"minStock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID              string           `json:"id"`
	TenantID        string           `json:"tenantId"`
	SKU             string           `json:"sku"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	BasePrice       decimal.Decimal  `json:"basePrice"`
	SellPrice       *decimal.Decimal `json:"sellPrice"`
	IsFlexiblePrice bool             `json:"isFlexiblePrice"`
	ImageURL        *string          `json:"imageUrl"`
	MinStock        int              `json:"minStock"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
