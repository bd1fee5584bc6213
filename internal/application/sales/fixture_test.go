package sales_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/memory"
)

// fixture tenant con dos sucursales, un repuesto con stock 10 en la principal, un servicio y un mecánico.
type fixture struct {
	store    *memory.Store
	tenantID string
	mainID   string
	otherID  string
	oil      *entity.Product
	service  *entity.Product
	mechanic *entity.Mechanic
	owner    entity.Actor
	cashier  entity.Actor

	txUC     *sales.TransactionUseCase
	draftUC  *sales.DraftUseCase
	returnUC *sales.ReturnUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	now := time.Now()

	f := &fixture{store: s, tenantID: uuid.New().String(), mainID: uuid.New().String(), otherID: uuid.New().String()}
	require.NoError(t, s.Tenants().Create(ctx, &entity.Tenant{
		ID: f.tenantID, BusinessName: "Bengkel Test", SubscriptionPlan: entity.PlanPro, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	for id, name := range map[string]string{f.mainID: "Cabang Utama", f.otherID: "Cabang Dua"} {
		require.NoError(t, s.Branches().Create(ctx, &entity.Branch{
			ID: id, TenantID: f.tenantID, Name: name, IsActive: true, CreatedAt: now, UpdatedAt: now,
		}))
	}

	f.oil = &entity.Product{
		ID: uuid.New().String(), TenantID: f.tenantID, SKU: "OLI001", Name: "Oli Mesin",
		Type: entity.ProductTypeGoods, BasePrice: decimal.NewFromInt(50000), MinStock: 3, CreatedAt: now, UpdatedAt: now,
	}
	f.service = &entity.Product{
		ID: uuid.New().String(), TenantID: f.tenantID, SKU: "SVC001", Name: "Servis Ringan",
		Type: entity.ProductTypeService, BasePrice: decimal.NewFromInt(100000), IsFlexiblePrice: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Products().Create(ctx, f.oil))
	require.NoError(t, s.Products().Create(ctx, f.service))

	f.mechanic = &entity.Mechanic{ID: uuid.New().String(), TenantID: f.tenantID, Name: "Budi", IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.Mechanics().Create(ctx, f.mechanic))

	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{
		ID: uuid.New().String(), TenantID: f.tenantID, BranchID: f.mainID, ProductID: f.oil.ID, Qty: 10, MinStockAlert: 3, UpdatedAt: now,
	}))

	f.owner = entity.Actor{UserID: uuid.New().String(), Username: "owner", Role: entity.RoleOwner, TenantID: f.tenantID}
	f.cashier = entity.Actor{UserID: uuid.New().String(), Username: "kasir", Role: entity.RoleCashier, TenantID: f.tenantID, BranchID: f.mainID}

	log := zerolog.Nop()
	f.txUC = sales.NewTransactionUseCase(s, s.Transactions(), s.Inventory(), s.Products(), s.Branches(), s.Mechanics(), log)
	f.draftUC = sales.NewDraftUseCase(s, s.Drafts(), s.Transactions(), s.Products(), s.Branches(), s.Mechanics(), log)
	f.returnUC = sales.NewReturnUseCase(s, s.Returns(), s.Transactions(), log)
	return f
}

// stock cantidad actual del producto en la sucursal; -1 si no hay fila.
func (f *fixture) stock(t *testing.T, branchID, productID string) int {
	t.Helper()
	inv, err := f.store.Inventory().Get(context.Background(), f.tenantID, branchID, productID)
	require.NoError(t, err)
	if inv == nil {
		return -1
	}
	return inv.Qty
}

func (f *fixture) oilItem(qty int) dto.TransactionItemRequest {
	return dto.TransactionItemRequest{ProductID: f.oil.ID, Qty: qty, PriceAtMoment: decimal.NewFromInt(50000)}
}

func (f *fixture) sell(t *testing.T, qty int) *dto.TransactionResponse {
	t.Helper()
	res, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{f.oilItem(qty)},
	})
	require.NoError(t, err)
	return res
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
