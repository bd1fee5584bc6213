package inventory

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

// TransferUseCase mueve stock entre sucursales del mismo tenant.
type TransferUseCase struct {
	txRunner     TxRunner
	invRepo      repository.InventoryRepository
	transferRepo repository.StockTransferRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	log          zerolog.Logger
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	invRepo repository.InventoryRepository,
	transferRepo repository.StockTransferRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	log zerolog.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		txRunner:     txRunner,
		invRepo:      invRepo,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		log:          log,
	}
}

func (uc *TransferUseCase) branch(ctx context.Context, tenantID, id, label string) (*entity.Branch, error) {
	b, err := uc.branchRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, fmt.Errorf("%w: sucursal de %s", domain.ErrNotFound, label)
	}
	return b, nil
}

// Create valida en orden (misma sucursal, sucursales, producto, tipo, stock de origen)
// y luego descuenta origen, suma en destino y asienta el movimiento en una sola unidad.
func (uc *TransferUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateStockTransferRequest) (*dto.StockTransferResponse, error) {
	if in.ProductID == "" || in.FromBranchID == "" || in.ToBranchID == "" {
		return nil, fmt.Errorf("%w: productId, fromBranchId y toBranchId son obligatorios", domain.ErrInvalidInput)
	}
	if in.Qty < 1 {
		return nil, fmt.Errorf("%w: qty debe ser al menos 1", domain.ErrInvalidInput)
	}
	if in.FromBranchID == in.ToBranchID {
		metrics.RejectInventory(metrics.ReasonSameBranch)
		return nil, domain.ErrSameBranch
	}
	from, err := uc.branch(ctx, actor.TenantID, in.FromBranchID, "origen")
	if err != nil {
		return nil, err
	}
	to, err := uc.branch(ctx, actor.TenantID, in.ToBranchID, "destino")
	if err != nil {
		return nil, err
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
		return nil, domain.ErrNotStockable
	}
	src, err := uc.invRepo.Get(ctx, actor.TenantID, from.ID, product.ID)
	if err != nil {
		return nil, err
	}
	available := 0
	if src != nil {
		available = src.Qty
	}
	if available < in.Qty {
		metrics.RejectInventory(metrics.ReasonInsufficientStock)
		return nil, fmt.Errorf("%w en %s. Disponible: %d", domain.ErrInsufficientStock, from.Name, available)
	}

	now := time.Now()
	transfer := &entity.StockTransfer{
		ID:            uuid.New().String(),
		TenantID:      actor.TenantID,
		ProductID:     product.ID,
		FromBranchID:  from.ID,
		ToBranchID:    to.ID,
		Qty:           in.Qty,
		Notes:         in.Notes,
		TransferredBy: actor.UserID,
		CreatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(invRepo repository.InventoryRepository, transferRepo repository.StockTransferRepository) error {
		if err := invRepo.DecrementQty(ctx, actor.TenantID, from.ID, product.ID, in.Qty); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = fmt.Errorf("%w en %s. Disponible: 0", domain.ErrInsufficientStock, from.Name)
			}
			if errors.Is(err, domain.ErrInsufficientStock) {
				metrics.RejectInventory(metrics.ReasonInsufficientStock)
			}
			return err
		}
		if err := invRepo.AddOrCreate(ctx, &entity.Inventory{
			ID:            uuid.New().String(),
			TenantID:      actor.TenantID,
			BranchID:      to.ID,
			ProductID:     product.ID,
			Qty:           in.Qty,
			MinStockAlert: product.MinStock,
			UpdatedAt:     now,
		}); err != nil {
			return err
		}
		return transferRepo.Create(ctx, transfer)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", actor.TenantID).
		Str("transfer_id", transfer.ID).
		Str("product_id", product.ID).
		Str("from", from.ID).
		Str("to", to.ID).
		Int("qty", in.Qty).
		Msg("transferencia de stock registrada")

	return &dto.StockTransferResponse{
		ID:             transfer.ID,
		ProductID:      product.ID,
		ProductName:    product.Name,
		ProductSKU:     product.SKU,
		FromBranchID:   from.ID,
		FromBranchName: from.Name,
		ToBranchID:     to.ID,
		ToBranchName:   to.Name,
		Qty:            transfer.Qty,
		Notes:          transfer.Notes,
		TransferredBy:  transfer.TransferredBy,
		CreatedAt:      transfer.CreatedAt,
	}, nil
}

// GetByID un movimiento del libro.
func (uc *TransferUseCase) GetByID(ctx context.Context, actor entity.Actor, id string) (*dto.StockTransferResponse, error) {
	v, err := uc.transferRepo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: transferencia", domain.ErrNotFound)
	}
	r := toTransferResponse(*v)
	return &r, nil
}

// List filtra por sucursal (origen o destino) y producto.
func (uc *TransferUseCase) List(ctx context.Context, actor entity.Actor, branchID, productID string) ([]dto.StockTransferResponse, error) {
	list, err := uc.transferRepo.List(ctx, repository.StockTransferFilter{
		TenantID:  actor.TenantID,
		BranchID:  branchID,
		ProductID: productID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockTransferResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toTransferResponse(v))
	}
	return out, nil
}

func toTransferResponse(v repository.StockTransferView) dto.StockTransferResponse {
	return dto.StockTransferResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		ProductName:    v.ProductName,
		ProductSKU:     v.ProductSKU,
		FromBranchID:   v.FromBranchID,
		FromBranchName: v.FromBranchName,
		ToBranchID:     v.ToBranchID,
		ToBranchName:   v.ToBranchName,
		Qty:            v.Qty,
		Notes:          v.Notes,
		TransferredBy:  v.TransferredBy,
		CreatedAt:      v.CreatedAt,
	}
}
