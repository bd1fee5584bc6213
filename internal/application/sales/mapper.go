package sales

import (
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// ToTransactionResponse convierte la vista completa (cabecera + líneas) al DTO de salida.
func ToTransactionResponse(v *repository.TransactionView) *dto.TransactionResponse {
	details := make([]dto.TransactionDetailResponse, 0, len(v.Details))
	for _, d := range v.Details {
		details = append(details, dto.TransactionDetailResponse{
			ID:            d.ID,
			ProductID:     d.ProductID,
			ProductName:   d.ProductName,
			ProductSKU:    d.ProductSKU,
			ProductType:   d.ProductType,
			Qty:           d.Qty,
			PriceAtMoment: d.PriceAtMoment,
			Subtotal:      d.Subtotal,
			MechanicID:    d.MechanicID,
			MechanicName:  d.MechanicName,
			MechanicFee:   d.MechanicFee,
			ReturnedQty:   d.ReturnedQty,
		})
	}
	return &dto.TransactionResponse{
		ID:            v.ID,
		TenantID:      v.TenantID,
		BranchID:      v.BranchID,
		BranchName:    v.BranchName,
		CustomerPlate: v.CustomerPlate,
		TotalAmount:   v.TotalAmount,
		Status:        v.Status,
		CreatedBy:     v.CreatedBy,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
		Details:       details,
	}
}

func toSummaryResponse(s repository.TransactionSummary) dto.TransactionSummaryResponse {
	return dto.TransactionSummaryResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		BranchName:    s.BranchName,
		CustomerPlate: s.CustomerPlate,
		TotalAmount:   s.TotalAmount,
		Status:        s.Status,
		DetailCount:   s.DetailCount,
		CreatedAt:     s.CreatedAt,
	}
}
