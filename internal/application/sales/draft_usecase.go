package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/pos"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DraftUseCase carritos sin confirmar y su conversión a venta.
type DraftUseCase struct {
	txRunner     TxRunner
	draftRepo    repository.DraftTransactionRepository
	txnRepo      repository.TransactionRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	mechanicRepo repository.MechanicRepository
	log          zerolog.Logger
}

// NewDraftUseCase construye el caso de uso.
func NewDraftUseCase(
	txRunner TxRunner,
	draftRepo repository.DraftTransactionRepository,
	txnRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	mechanicRepo repository.MechanicRepository,
	log zerolog.Logger,
) *DraftUseCase {
	return &DraftUseCase{
		txRunner:     txRunner,
		draftRepo:    draftRepo,
		txnRepo:      txnRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		mechanicRepo: mechanicRepo,
		log:          log,
	}
}

// buildItems valida las líneas y recalcula subtotales y total en el servidor.
func (uc *DraftUseCase) buildItems(ctx context.Context, tenantID string, in []dto.DraftItemRequest) ([]entity.DraftItem, decimal.Decimal, error) {
	items := make([]entity.DraftItem, 0, len(in))
	lines := make([]pos.Line, 0, len(in))
	for i, it := range in {
		if it.Qty < 1 {
			return nil, decimal.Zero, fmt.Errorf("%w: ítem %d: qty debe ser al menos 1", domain.ErrInvalidInput, i+1)
		}
		if it.PriceAtMoment.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: ítem %d: priceAtMoment no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		if !pos.FitsMoneyScale(it.PriceAtMoment) {
			return nil, decimal.Zero, fmt.Errorf("%w: ítem %d: priceAtMoment admite como máximo %d decimales", domain.ErrInvalidInput, i+1, pos.MoneyScale)
		}
		if it.MechanicFee != nil && it.MechanicFee.IsNegative() {
			return nil, decimal.Zero, fmt.Errorf("%w: ítem %d: mechanicFee no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		if it.MechanicFee != nil && !pos.FitsMoneyScale(*it.MechanicFee) {
			return nil, decimal.Zero, fmt.Errorf("%w: ítem %d: mechanicFee admite como máximo %d decimales", domain.ErrInvalidInput, i+1, pos.MoneyScale)
		}
		p, err := uc.productRepo.GetByID(ctx, tenantID, it.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if p == nil {
			return nil, decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		mechanicID := it.MechanicID
		if mechanicID != nil && *mechanicID == "" {
			mechanicID = nil
		}
		if mechanicID != nil {
			m, err := uc.mechanicRepo.GetByID(ctx, tenantID, *mechanicID)
			if err != nil {
				return nil, decimal.Zero, err
			}
			if m == nil {
				return nil, decimal.Zero, fmt.Errorf("%w: mecánico %s", domain.ErrNotFound, *mechanicID)
			}
		}
		items = append(items, entity.DraftItem{
			ProductID:     it.ProductID,
			MechanicID:    mechanicID,
			Qty:           it.Qty,
			PriceAtMoment: it.PriceAtMoment,
			MechanicFee:   it.MechanicFee,
		})
		lines = append(lines, pos.Line{Qty: it.Qty, PriceAtMoment: it.PriceAtMoment})
	}
	subtotals, total := pos.Totals(lines)
	for i := range items {
		items[i].Subtotal = subtotals[i]
	}
	return items, total, nil
}

// load borrador del tenant; el cajero solo ve los de su sucursal.
func (uc *DraftUseCase) load(ctx context.Context, actor entity.Actor, id string) (*entity.DraftTransaction, error) {
	d, err := uc.draftRepo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if d == nil || (actor.IsCashier() && d.BranchID != actor.BranchID) {
		return nil, fmt.Errorf("%w: borrador", domain.ErrNotFound)
	}
	return d, nil
}

// Create guarda un carrito nuevo en la sucursal del token.
func (uc *DraftUseCase) Create(ctx context.Context, actor entity.Actor, in dto.SaveDraftRequest) (*dto.DraftResponse, error) {
	requested := in.BranchID
	if actor.BranchID != "" {
		requested = actor.BranchID
	}
	branch, err := resolveBranch(ctx, uc.branchRepo, actor, requested)
	if err != nil {
		return nil, err
	}
	items, total, err := uc.buildItems(ctx, actor.TenantID, in.Items)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("serializar borrador: %w", err)
	}
	now := time.Now()
	d := &entity.DraftTransaction{
		ID:            uuid.New().String(),
		TenantID:      actor.TenantID,
		BranchID:      branch.ID,
		CustomerPlate: pos.NormalizePlatePtr(in.CustomerPlate),
		TotalAmount:   total,
		DraftData:     data,
		CreatedBy:     actor.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.draftRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDraftResponse(d)
}

// Get devuelve el borrador con sus líneas.
func (uc *DraftUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.DraftResponse, error) {
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return toDraftResponse(d)
}

// List más recientes primero.
func (uc *DraftUseCase) List(ctx context.Context, actor entity.Actor, branchID, userID string) ([]*dto.DraftResponse, error) {
	list, err := uc.draftRepo.List(ctx, repository.DraftFilter{
		TenantID:  actor.TenantID,
		BranchID:  actor.ScopeBranch(branchID),
		CreatedBy: userID,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DraftResponse, 0, len(list))
	for _, d := range list {
		r, err := toDraftResponse(d)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Update reemplaza placa y líneas.
func (uc *DraftUseCase) Update(ctx context.Context, actor entity.Actor, id string, in dto.SaveDraftRequest) (*dto.DraftResponse, error) {
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	items, total, err := uc.buildItems(ctx, actor.TenantID, in.Items)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("serializar borrador: %w", err)
	}
	d.CustomerPlate = pos.NormalizePlatePtr(in.CustomerPlate)
	d.TotalAmount = total
	d.DraftData = data
	d.UpdatedAt = time.Now()
	if err := uc.draftRepo.Update(ctx, d); err != nil {
		return nil, err
	}
	return toDraftResponse(d)
}

// Delete descarta el borrador.
func (uc *DraftUseCase) Delete(ctx context.Context, actor entity.Actor, id string) error {
	if _, err := uc.load(ctx, actor, id); err != nil {
		return err
	}
	return uc.draftRepo.Delete(ctx, actor.TenantID, id)
}

// Convert crea una venta PAID a partir del borrador, descuenta stock y borra el borrador en una sola unidad.
// Las líneas GOODS sin fila de inventario en la sucursal se omiten con un aviso.
func (uc *DraftUseCase) Convert(ctx context.Context, actor entity.Actor, id string) (*dto.TransactionResponse, error) {
	d, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	var items []entity.DraftItem
	if err := json.Unmarshal(d.DraftData, &items); err != nil {
		return nil, fmt.Errorf("%w: contenido del borrador ilegible", domain.ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: el borrador no tiene ítems", domain.ErrInvalidInput)
	}
	products := make(map[string]*entity.Product, len(items))
	for _, it := range items {
		if _, ok := products[it.ProductID]; ok {
			continue
		}
		p, err := uc.productRepo.GetByID(ctx, actor.TenantID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		products[it.ProductID] = p
	}
	checked := make(map[string]bool)
	for _, it := range items {
		if it.MechanicID == nil || checked[*it.MechanicID] {
			continue
		}
		m, err := uc.mechanicRepo.GetByID(ctx, actor.TenantID, *it.MechanicID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: mecánico %s", domain.ErrNotFound, *it.MechanicID)
		}
		checked[*it.MechanicID] = true
	}

	now := time.Now()
	createdBy := actor.UserID
	header := &entity.TransactionHeader{
		ID:            uuid.New().String(),
		TenantID:      d.TenantID,
		BranchID:      d.BranchID,
		CustomerPlate: d.CustomerPlate,
		TotalAmount:   d.TotalAmount,
		Status:        entity.TransactionPaid,
		CreatedBy:     &createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	details := make([]*entity.TransactionDetail, len(items))
	for i, it := range items {
		fee := decimal.Zero
		if it.MechanicFee != nil {
			fee = *it.MechanicFee
		}
		details[i] = &entity.TransactionDetail{
			ID:            uuid.New().String(),
			TransactionID: header.ID,
			ProductID:     it.ProductID,
			Qty:           it.Qty,
			PriceAtMoment: it.PriceAtMoment,
			Subtotal:      it.Subtotal,
			MechanicID:    it.MechanicID,
			MechanicFee:   fee,
			CreatedAt:     now,
		}
	}

	err = uc.txRunner.RunSales(ctx, func(
		txnRepo repository.TransactionRepository,
		invRepo repository.InventoryRepository,
		_ repository.ReturnRepository,
		draftRepo repository.DraftTransactionRepository,
	) error {
		if err := txnRepo.CreateHeader(ctx, header); err != nil {
			return err
		}
		if err := txnRepo.CreateDetails(ctx, details); err != nil {
			return err
		}
		for _, it := range items {
			p := products[it.ProductID]
			if !p.IsGoods() {
				continue
			}
			err := invRepo.DecrementQty(ctx, d.TenantID, d.BranchID, p.ID, it.Qty)
			switch {
			case err == nil:
			case errors.Is(err, domain.ErrNotFound):
				uc.log.Warn().
					Str("draft_id", d.ID).
					Str("product_id", p.ID).
					Str("branch_id", d.BranchID).
					Msg("producto sin fila de inventario; se omite el descuento")
			case errors.Is(err, domain.ErrInsufficientStock):
				metrics.RejectInventory(metrics.ReasonInsufficientStock)
				return fmt.Errorf("%w (%s)", err, p.Name)
			default:
				return err
			}
		}
		return draftRepo.Delete(ctx, d.TenantID, d.ID)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", d.TenantID).
		Str("draft_id", d.ID).
		Str("transaction_id", header.ID).
		Str("total", header.TotalAmount.String()).
		Msg("borrador convertido en venta")

	view, err := uc.txnRepo.GetByID(ctx, actor.TenantID, header.ID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("%w: transacción", domain.ErrNotFound)
	}
	return ToTransactionResponse(view), nil
}

func toDraftResponse(d *entity.DraftTransaction) (*dto.DraftResponse, error) {
	var items []entity.DraftItem
	if len(d.DraftData) > 0 {
		if err := json.Unmarshal(d.DraftData, &items); err != nil {
			return nil, fmt.Errorf("leer borrador %s: %w", d.ID, err)
		}
	}
	out := make([]dto.DraftItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.DraftItemResponse{
			ProductID:     it.ProductID,
			MechanicID:    it.MechanicID,
			Qty:           it.Qty,
			PriceAtMoment: it.PriceAtMoment,
			MechanicFee:   it.MechanicFee,
			Subtotal:      it.Subtotal,
		})
	}
	return &dto.DraftResponse{
		ID:            d.ID,
		BranchID:      d.BranchID,
		CustomerPlate: d.CustomerPlate,
		TotalAmount:   d.TotalAmount,
		Items:         out,
		CreatedBy:     d.CreatedBy,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}, nil
}
