package sales

import (
	"context"
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

// MaxListLimit tope de filas en el listado de transacciones.
const MaxListLimit = 100

// TransactionUseCase motor de ventas: registro, consulta y cambio de estado con reposición de stock.
type TransactionUseCase struct {
	txRunner     TxRunner
	txnRepo      repository.TransactionRepository
	invRepo      repository.InventoryRepository
	productRepo  repository.ProductRepository
	branchRepo   repository.BranchRepository
	mechanicRepo repository.MechanicRepository
	log          zerolog.Logger
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	txRunner TxRunner,
	txnRepo repository.TransactionRepository,
	invRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
	branchRepo repository.BranchRepository,
	mechanicRepo repository.MechanicRepository,
	log zerolog.Logger,
) *TransactionUseCase {
	return &TransactionUseCase{
		txRunner:     txRunner,
		txnRepo:      txnRepo,
		invRepo:      invRepo,
		productRepo:  productRepo,
		branchRepo:   branchRepo,
		mechanicRepo: mechanicRepo,
		log:          log,
	}
}

// resolveBranch el cajero vende solo en su sucursal; si no indica ninguna se usa la suya.
func resolveBranch(ctx context.Context, branchRepo repository.BranchRepository, actor entity.Actor, requested string) (*entity.Branch, error) {
	if actor.IsCashier() {
		if requested == "" {
			requested = actor.BranchID
		} else if requested != actor.BranchID {
			return nil, fmt.Errorf("%w: el cajero solo opera en su sucursal", domain.ErrForbidden)
		}
	}
	if requested == "" {
		return nil, fmt.Errorf("%w: branchId es obligatorio", domain.ErrInvalidInput)
	}
	branch, err := branchRepo.GetByID(ctx, actor.TenantID, requested)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, fmt.Errorf("%w: sucursal", domain.ErrNotFound)
	}
	return branch, nil
}

// line ítem validado, listo para persistir.
type line struct {
	product     *entity.Product
	qty         int
	price       decimal.Decimal
	mechanicID  *string
	mechanicFee decimal.Decimal
}

func (uc *TransactionUseCase) validateItems(ctx context.Context, tenantID string, items []dto.TransactionItemRequest) ([]line, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: la venta necesita al menos un ítem", domain.ErrInvalidInput)
	}
	lines := make([]line, 0, len(items))
	for i, it := range items {
		if it.Qty < 1 {
			return nil, fmt.Errorf("%w: ítem %d: qty debe ser al menos 1", domain.ErrInvalidInput, i+1)
		}
		if it.PriceAtMoment.IsNegative() {
			return nil, fmt.Errorf("%w: ítem %d: priceAtMoment no puede ser negativo", domain.ErrInvalidInput, i+1)
		}
		if !pos.FitsMoneyScale(it.PriceAtMoment) {
			return nil, fmt.Errorf("%w: ítem %d: priceAtMoment admite como máximo %d decimales", domain.ErrInvalidInput, i+1, pos.MoneyScale)
		}
		fee := decimal.Zero
		if it.MechanicFee != nil {
			if it.MechanicFee.IsNegative() {
				return nil, fmt.Errorf("%w: ítem %d: mechanicFee no puede ser negativo", domain.ErrInvalidInput, i+1)
			}
			if !pos.FitsMoneyScale(*it.MechanicFee) {
				return nil, fmt.Errorf("%w: ítem %d: mechanicFee admite como máximo %d decimales", domain.ErrInvalidInput, i+1, pos.MoneyScale)
			}
			fee = *it.MechanicFee
		}
		product, err := uc.productRepo.GetByID(ctx, tenantID, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
		}
		mechanicID := it.MechanicID
		if mechanicID != nil && *mechanicID == "" {
			mechanicID = nil
		}
		if mechanicID != nil {
			m, err := uc.mechanicRepo.GetByID(ctx, tenantID, *mechanicID)
			if err != nil {
				return nil, err
			}
			if m == nil {
				return nil, fmt.Errorf("%w: mecánico %s", domain.ErrNotFound, *mechanicID)
			}
		}
		lines = append(lines, line{product: product, qty: it.Qty, price: it.PriceAtMoment, mechanicID: mechanicID, mechanicFee: fee})
	}
	return lines, nil
}

// checkStock verificación previa por producto (suma de líneas) contra la fila de la sucursal.
// La garantía real es el decremento condicional dentro de la transacción.
func (uc *TransactionUseCase) checkStock(ctx context.Context, tenantID, branchID string, lines []line) error {
	need := map[string]int{}
	byID := map[string]*entity.Product{}
	var order []string
	for _, l := range lines {
		if !l.product.IsGoods() {
			continue
		}
		if _, ok := need[l.product.ID]; !ok {
			order = append(order, l.product.ID)
		}
		need[l.product.ID] += l.qty
		byID[l.product.ID] = l.product
	}
	for _, productID := range order {
		inv, err := uc.invRepo.Get(ctx, tenantID, branchID, productID)
		if err != nil {
			return err
		}
		available := 0
		if inv != nil {
			available = inv.Qty
		}
		if available < need[productID] {
			metrics.RejectInventory(metrics.ReasonInsufficientStock)
			return fmt.Errorf("%w para %s. Disponible: %d", domain.ErrInsufficientStock, byID[productID].Name, available)
		}
	}
	return nil
}

// Create registra una venta PENDING y descuenta el stock de cada línea GOODS en una sola unidad atómica.
func (uc *TransactionUseCase) Create(ctx context.Context, actor entity.Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	branch, err := resolveBranch(ctx, uc.branchRepo, actor, in.BranchID)
	if err != nil {
		return nil, err
	}
	lines, err := uc.validateItems(ctx, actor.TenantID, in.Items)
	if err != nil {
		return nil, err
	}
	if err := uc.checkStock(ctx, actor.TenantID, branch.ID, lines); err != nil {
		return nil, err
	}

	posLines := make([]pos.Line, len(lines))
	for i, l := range lines {
		posLines[i] = pos.Line{Qty: l.qty, PriceAtMoment: l.price, MechanicFee: l.mechanicFee}
	}
	subtotals, total := pos.Totals(posLines)

	now := time.Now()
	createdBy := actor.UserID
	header := &entity.TransactionHeader{
		ID:            uuid.New().String(),
		TenantID:      actor.TenantID,
		BranchID:      branch.ID,
		CustomerPlate: pos.NormalizePlatePtr(in.CustomerPlate),
		TotalAmount:   total,
		Status:        entity.TransactionPending,
		CreatedBy:     &createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	details := make([]*entity.TransactionDetail, len(lines))
	for i, l := range lines {
		details[i] = &entity.TransactionDetail{
			ID:            uuid.New().String(),
			TransactionID: header.ID,
			ProductID:     l.product.ID,
			Qty:           l.qty,
			PriceAtMoment: l.price,
			Subtotal:      subtotals[i],
			MechanicID:    l.mechanicID,
			MechanicFee:   l.mechanicFee,
			CreatedAt:     now,
		}
	}

	err = uc.txRunner.RunSales(ctx, func(
		txnRepo repository.TransactionRepository,
		invRepo repository.InventoryRepository,
		_ repository.ReturnRepository,
		_ repository.DraftTransactionRepository,
	) error {
		if err := txnRepo.CreateHeader(ctx, header); err != nil {
			return err
		}
		if err := txnRepo.CreateDetails(ctx, details); err != nil {
			return err
		}
		for _, l := range lines {
			if !l.product.IsGoods() {
				continue
			}
			if err := decrement(ctx, invRepo, actor.TenantID, branch.ID, l.product, l.qty); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("tenant_id", actor.TenantID).
		Str("transaction_id", header.ID).
		Str("branch_id", branch.ID).
		Str("total", total.String()).
		Int("items", len(details)).
		Msg("transacción registrada")
	return uc.Get(ctx, actor, header.ID)
}

// decrement descuenta stock; una fila inexistente cuenta como stock 0.
func decrement(ctx context.Context, invRepo repository.InventoryRepository, tenantID, branchID string, product *entity.Product, qty int) error {
	err := invRepo.DecrementQty(ctx, tenantID, branchID, product.ID, qty)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		metrics.RejectInventory(metrics.ReasonInsufficientStock)
		return fmt.Errorf("%w para %s. Disponible: 0", domain.ErrInsufficientStock, product.Name)
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		metrics.RejectInventory(metrics.ReasonInsufficientStock)
		return fmt.Errorf("%w (%s)", err, product.Name)
	}
	return err
}

// Get transacción completa; fuera del alcance del actor se responde como inexistente.
func (uc *TransactionUseCase) Get(ctx context.Context, actor entity.Actor, id string) (*dto.TransactionResponse, error) {
	view, err := uc.txnRepo.GetByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, err
	}
	if view == nil || (actor.IsCashier() && view.BranchID != actor.BranchID) {
		return nil, fmt.Errorf("%w: transacción", domain.ErrNotFound)
	}
	return ToTransactionResponse(view), nil
}

// List más recientes primero; límite por defecto y máximo 100.
func (uc *TransactionUseCase) List(ctx context.Context, actor entity.Actor, branchID, status string, limit int) ([]dto.TransactionSummaryResponse, error) {
	if status != "" && !entity.ValidTransactionStatus(status) {
		return nil, fmt.Errorf("%w: estado %q no soportado", domain.ErrInvalidInput, status)
	}
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	list, err := uc.txnRepo.List(ctx, repository.TransactionFilter{
		TenantID: actor.TenantID,
		BranchID: actor.ScopeBranch(branchID),
		Status:   status,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSummaryResponse(s))
	}
	return out, nil
}

// UpdateStatus cambia el estado bajo bloqueo de la cabecera. Repetir el mismo estado no hace nada;
// al cancelar se devuelve al inventario lo vendido menos lo ya devuelto.
func (uc *TransactionUseCase) UpdateStatus(ctx context.Context, actor entity.Actor, id, status string) (*dto.TransactionResponse, error) {
	if !entity.ValidTransactionStatus(status) {
		return nil, fmt.Errorf("%w: estado %q no soportado", domain.ErrInvalidInput, status)
	}
	var previous string
	err := uc.txRunner.RunSales(ctx, func(
		txnRepo repository.TransactionRepository,
		invRepo repository.InventoryRepository,
		_ repository.ReturnRepository,
		_ repository.DraftTransactionRepository,
	) error {
		header, err := txnRepo.GetHeaderForUpdate(ctx, actor.TenantID, id)
		if err != nil {
			return err
		}
		if header == nil || (actor.IsCashier() && header.BranchID != actor.BranchID) {
			return fmt.Errorf("%w: transacción", domain.ErrNotFound)
		}
		previous = header.Status
		if header.Status == status {
			return nil
		}
		if header.Status == entity.TransactionCancelled {
			return domain.ErrTransactionCancelled
		}
		if header.Status == entity.TransactionPaid && status == entity.TransactionPending {
			return fmt.Errorf("%w: PAID no puede volver a PENDING", domain.ErrInvalidStatusTransition)
		}
		if err := txnRepo.UpdateStatus(ctx, actor.TenantID, id, status); err != nil {
			return err
		}
		if status != entity.TransactionCancelled {
			return nil
		}
		return uc.restock(ctx, txnRepo, invRepo, header)
	})
	if err != nil {
		return nil, err
	}
	if previous != status {
		uc.log.Info().
			Str("tenant_id", actor.TenantID).
			Str("transaction_id", id).
			Str("from", previous).
			Str("to", status).
			Str("user_id", actor.UserID).
			Msg("estado de transacción actualizado")
	}
	return uc.Get(ctx, actor, id)
}

// restock repone cada línea GOODS (qty - devuelto). Si la fila desapareció se vuelve a crear.
func (uc *TransactionUseCase) restock(
	ctx context.Context,
	txnRepo repository.TransactionRepository,
	invRepo repository.InventoryRepository,
	header *entity.TransactionHeader,
) error {
	details, err := txnRepo.ListDetails(ctx, header.ID)
	if err != nil {
		return err
	}
	for _, d := range details {
		if d.ProductType != entity.ProductTypeGoods {
			continue
		}
		n := d.Qty - d.ReturnedQty
		if n <= 0 {
			continue
		}
		found, err := invRepo.IncrementQty(ctx, header.TenantID, header.BranchID, d.ProductID, n)
		if err != nil {
			return err
		}
		if found {
			continue
		}
		minAlert := entity.DefaultMinStock
		if p, err := uc.productRepo.GetByID(ctx, header.TenantID, d.ProductID); err == nil && p != nil {
			minAlert = p.MinStock
		}
		if err := invRepo.AddOrCreate(ctx, &entity.Inventory{
			ID:            uuid.New().String(),
			TenantID:      header.TenantID,
			BranchID:      header.BranchID,
			ProductID:     d.ProductID,
			Qty:           n,
			MinStockAlert: minAlert,
			UpdatedAt:     time.Now(),
		}); err != nil {
			return err
		}
		uc.log.Warn().
			Str("transaction_id", header.ID).
			Str("product_id", d.ProductID).
			Int("qty", n).
			Msg("fila de inventario recreada al cancelar")
	}
	return nil
}
