package sales

import (
	"context"
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

// ReturnUseCase devoluciones contra líneas de venta.
type ReturnUseCase struct {
	txRunner   TxRunner
	returnRepo repository.ReturnRepository
	txnRepo    repository.TransactionRepository
	log        zerolog.Logger
}

// NewReturnUseCase construye el caso de uso.
func NewReturnUseCase(
	txRunner TxRunner,
	returnRepo repository.ReturnRepository,
	txnRepo repository.TransactionRepository,
	log zerolog.Logger,
) *ReturnUseCase {
	return &ReturnUseCase{txRunner: txRunner, returnRepo: returnRepo, txnRepo: txnRepo, log: log}
}

// Create registra la devolución con la línea bloqueada y repone stock si es GOODS.
func (uc *ReturnUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	if in.TransactionDetailID == "" {
		return nil, fmt.Errorf("%w: transactionDetailId es obligatorio", domain.ErrInvalidInput)
	}
	if in.Qty < 1 {
		return nil, fmt.Errorf("%w: qty debe ser al menos 1", domain.ErrInvalidInput)
	}
	if !entity.ValidReturnReason(in.Reason) {
		return nil, fmt.Errorf("%w: motivo %q no soportado", domain.ErrInvalidInput, in.Reason)
	}

	ret := &entity.TransactionReturn{
		ID:                  uuid.New().String(),
		TransactionDetailID: in.TransactionDetailID,
		Qty:                 in.Qty,
		Reason:              in.Reason,
		Notes:               in.Notes,
		ReturnedBy:          actor.UserID,
		CreatedAt:           time.Now(),
	}
	var (
		detail   *repository.DetailForReturn
		restored *bool
	)
	err := uc.txRunner.RunSales(ctx, func(
		txnRepo repository.TransactionRepository,
		invRepo repository.InventoryRepository,
		returnRepo repository.ReturnRepository,
		_ repository.DraftTransactionRepository,
	) error {
		var err error
		detail, err = txnRepo.GetDetailForUpdate(ctx, actor.TenantID, in.TransactionDetailID)
		if err != nil {
			return err
		}
		if detail == nil || (actor.IsCashier() && detail.BranchID != actor.BranchID) {
			return fmt.Errorf("%w: línea de transacción", domain.ErrNotFound)
		}
		if detail.TransactionStatus == entity.TransactionCancelled {
			return domain.ErrTransactionCancelled
		}
		returned, err := returnRepo.SumQtyByDetail(ctx, detail.ID)
		if err != nil {
			return err
		}
		available := detail.Qty - returned
		if in.Qty > available {
			metrics.RejectInventory(metrics.ReasonReturnExceeds)
			return fmt.Errorf("%w. Disponible: %d", domain.ErrReturnExceedsAvailable, available)
		}
		if err := returnRepo.Create(ctx, ret); err != nil {
			return err
		}
		if detail.ProductType != entity.ProductTypeGoods {
			return nil
		}
		found, err := invRepo.IncrementQty(ctx, detail.TenantID, detail.BranchID, detail.ProductID, in.Qty)
		if err != nil {
			return err
		}
		restored = &found
		return nil
	})
	if err != nil {
		return nil, err
	}

	if restored != nil && !*restored {
		uc.log.Warn().
			Str("tenant_id", actor.TenantID).
			Str("detail_id", detail.ID).
			Str("product_id", detail.ProductID).
			Str("branch_id", detail.BranchID).
			Msg("devolución sin fila de inventario; stock no repuesto")
	}
	uc.log.Info().
		Str("tenant_id", actor.TenantID).
		Str("return_id", ret.ID).
		Str("transaction_id", detail.TransactionID).
		Int("qty", ret.Qty).
		Str("reason", ret.Reason).
		Msg("devolución registrada")

	return &dto.ReturnResponse{
		ID:                  ret.ID,
		TransactionDetailID: ret.TransactionDetailID,
		TransactionID:       detail.TransactionID,
		ProductID:           detail.ProductID,
		Qty:                 ret.Qty,
		Reason:              ret.Reason,
		Notes:               ret.Notes,
		ReturnedBy:          ret.ReturnedBy,
		InventoryRestored:   restored,
		CreatedAt:           ret.CreatedAt,
	}, nil
}

// List devoluciones del tenant, opcionalmente de una transacción.
func (uc *ReturnUseCase) List(ctx context.Context, actor entity.Actor, transactionID string) ([]dto.ReturnResponse, error) {
	list, err := uc.returnRepo.List(ctx, actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	return toReturnResponses(list), nil
}

// ByTransaction devoluciones de una transacción que debe pertenecer al tenant.
func (uc *ReturnUseCase) ByTransaction(ctx context.Context, actor entity.Actor, transactionID string) ([]dto.ReturnResponse, error) {
	view, err := uc.txnRepo.GetByID(ctx, actor.TenantID, transactionID)
	if err != nil {
		return nil, err
	}
	if view == nil || (actor.IsCashier() && view.BranchID != actor.BranchID) {
		return nil, fmt.Errorf("%w: transacción", domain.ErrNotFound)
	}
	return uc.List(ctx, actor, transactionID)
}

func toReturnResponses(list []repository.ReturnView) []dto.ReturnResponse {
	out := make([]dto.ReturnResponse, 0, len(list))
	for _, r := range list {
		out = append(out, dto.ReturnResponse{
			ID:                  r.ID,
			TransactionDetailID: r.TransactionDetailID,
			TransactionID:       r.TransactionID,
			ProductID:           r.ProductID,
			ProductName:         r.ProductName,
			ProductSKU:          r.ProductSKU,
			Qty:                 r.Qty,
			Reason:              r.Reason,
			Notes:               r.Notes,
			ReturnedBy:          r.ReturnedBy,
			CreatedAt:           r.CreatedAt,
		})
	}
	return out
}
