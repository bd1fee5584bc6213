package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/pkg/metrics"
	"github.com/rs/zerolog"
)

// InventoryUseCase alta, consulta y ajuste manual de existencias por sucursal.
type InventoryUseCase struct {
	repo        repository.InventoryRepository
	productRepo repository.ProductRepository
	branchRepo  repository.BranchRepository
	log         zerolog.Logger
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	repo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	log zerolog.Logger,
) *InventoryUseCase {
	return &InventoryUseCase{repo: repo, productRepo: productRepo, branchRepo: branchRepo, log: log}
}

// Create registra la fila de un producto GOODS en una sucursal. minStockAlert por defecto = product.MinStock.
func (uc *InventoryUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if in.BranchID == "" || in.ProductID == "" {
		return nil, fmt.Errorf("%w: branchId y productId son obligatorios", domain.ErrInvalidInput)
	}
	if in.Qty < 0 {
		return nil, fmt.Errorf("%w: qty no puede ser negativo", domain.ErrInvalidInput)
	}
	branch, err := uc.branchRepo.GetByID(ctx, actor.TenantID, in.BranchID)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	product, err := uc.productRepo.GetByID(ctx, actor.TenantID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto", domain.ErrNotFound)
	}
	if !product.IsGoods() {
		metrics.RejectInventory(metrics.ReasonNotStockable)
		return nil, fmt.Errorf("%w: %s", domain.ErrNotStockable, product.Name)
	}
	minAlert := product.MinStock
	if in.MinStockAlert != nil {
		if *in.MinStockAlert < 0 {
			return nil, fmt.Errorf("%w: minStockAlert no puede ser negativo", domain.ErrInvalidInput)
		}
		minAlert = *in.MinStockAlert
	}
	inv := &entity.Inventory{
		ID:            uuid.New().String(),
		TenantID:      actor.TenantID,
		BranchID:      branch.ID,
		ProductID:     product.ID,
		Qty:           in.Qty,
		MinStockAlert: minAlert,
		UpdatedAt:     time.Now(),
	}
	if err := uc.repo.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("%w: ya existe inventario de %s en %s", domain.ErrDuplicate, product.Name, branch.Name)
		}
		return nil, err
	}
	return &dto.InventoryResponse{
		ID:            inv.ID,
		BranchID:      inv.BranchID,
		BranchName:    branch.Name,
		ProductID:     inv.ProductID,
		SKU:           product.SKU,
		ProductName:   product.Name,
		ProductType:   product.Type,
		Qty:           inv.Qty,
		MinStockAlert: inv.MinStockAlert,
		IsLow:         inv.IsLow(),
		UpdatedAt:     inv.UpdatedAt,
	}, nil
}

// List existencias del tenant; el cajero queda limitado a su sucursal.
func (uc *InventoryUseCase) List(ctx context.Context, actor entity.Actor, branchID string) ([]dto.InventoryResponse, error) {
	rows, err := uc.repo.List(ctx, actor.TenantID, actor.ScopeBranch(branchID))
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(rows), nil
}

// LowStock filas con qty <= minStockAlert.
func (uc *InventoryUseCase) LowStock(ctx context.Context, actor entity.Actor, branchID string) ([]dto.InventoryResponse, error) {
	rows, err := uc.repo.ListLowStock(ctx, actor.TenantID, actor.ScopeBranch(branchID))
	if err != nil {
		return nil, err
	}
	return toInventoryResponses(rows), nil
}

func (uc *InventoryUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.InventoryResponse, error) {
	inv, err := uc.repo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || (actor.IsCashier() && inv.BranchID != actor.BranchID) {
		return nil, fmt.Errorf("%w: inventario", domain.ErrNotFound)
	}
	return toInventoryResponse(inv), nil
}

// Adjust isAdjustment=true suma un delta con signo; false fija la cantidad. Nunca deja qty < 0.
func (uc *InventoryUseCase) Adjust(ctx context.Context, actor entity.Actor, id string, in dto.AdjustInventoryRequest) (*dto.InventoryResponse, error) {
	if !in.IsAdjustment && in.Qty < 0 {
		return nil, fmt.Errorf("%w: qty no puede ser negativo", domain.ErrInvalidInput)
	}
	inv, err := uc.repo.Adjust(ctx, actor.TenantID, id, in.Qty, in.IsAdjustment)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			metrics.RejectInventory(metrics.ReasonInsufficientStock)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: inventario", domain.ErrNotFound)
		}
		return nil, err
	}
	uc.log.Info().
		Str("tenant_id", actor.TenantID).
		Str("inventory_id", id).
		Int("qty", inv.Qty).
		Bool("delta", in.IsAdjustment).
		Str("user_id", actor.UserID).
		Msg("inventario ajustado")
	return toInventoryResponse(inv), nil
}

func toInventoryResponse(inv *entity.Inventory) *dto.InventoryResponse {
	return &dto.InventoryResponse{
		ID:            inv.ID,
		BranchID:      inv.BranchID,
		ProductID:     inv.ProductID,
		Qty:           inv.Qty,
		MinStockAlert: inv.MinStockAlert,
		IsLow:         inv.IsLow(),
		UpdatedAt:     inv.UpdatedAt,
	}
}

func toInventoryResponses(rows []repository.InventoryRow) []dto.InventoryResponse {
	out := make([]dto.InventoryResponse, 0, len(rows))
	for _, r := range rows {
		resp := toInventoryResponse(&r.Inventory)
		resp.BranchName = r.BranchName
		resp.SKU = r.SKU
		resp.ProductName = r.ProductName
		resp.ProductType = r.ProductType
		out = append(out, *resp)
	}
	return out
}
