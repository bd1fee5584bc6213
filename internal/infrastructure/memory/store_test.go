package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

func seededStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Tenants().Create(ctx, &entity.Tenant{ID: "t", BusinessName: "T", SubscriptionPlan: entity.PlanLite, IsActive: true}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: "b", TenantID: "t", Name: "B"}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p", TenantID: "t", SKU: "P", Name: "P", Type: entity.ProductTypeGoods}))
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{ID: "i", TenantID: "t", BranchID: "b", ProductID: "p", Qty: 10, MinStockAlert: 2}))
	return s
}

func qty(t *testing.T, s *Store) int {
	t.Helper()
	inv, err := s.Inventory().Get(context.Background(), "t", "b", "p")
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.Qty
}

func TestRunSales_ErrorDescartaTodasLasEscrituras(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.RunSales(ctx, func(txnRepo repository.TransactionRepository, invRepo repository.InventoryRepository, _ repository.ReturnRepository, _ repository.DraftTransactionRepository) error {
		require.NoError(t, txnRepo.CreateHeader(ctx, &entity.TransactionHeader{ID: "h", TenantID: "t", BranchID: "b", Status: entity.TransactionPending, CreatedAt: time.Now()}))
		require.NoError(t, invRepo.DecrementQty(ctx, "t", "b", "p", 4))
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, 10, qty(t, s))
	h, err := s.Transactions().GetByID(ctx, "t", "h")
	require.NoError(t, err)
	assert.Nil(t, h, "la cabecera no debe quedar visible")
}

func TestRun_ExitoPublicaCambios(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	err := s.Run(ctx, func(invRepo repository.InventoryRepository, transferRepo repository.StockTransferRepository) error {
		if err := invRepo.DecrementQty(ctx, "t", "b", "p", 3); err != nil {
			return err
		}
		return transferRepo.Create(ctx, &entity.StockTransfer{ID: "x", TenantID: "t", ProductID: "p", FromBranchID: "b", ToBranchID: "b2", Qty: 3})
	})
	require.NoError(t, err)
	assert.Equal(t, 7, qty(t, s))

	v, err := s.StockTransfers().GetByID(ctx, "t", "x")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, 3, v.Qty)
}

func TestDecrementQty_Condicional(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	err := s.Inventory().DecrementQty(ctx, "t", "b", "p", 11)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Disponible: 10")
	assert.Equal(t, 10, qty(t, s))

	assert.ErrorIs(t, s.Inventory().DecrementQty(ctx, "t", "otra", "p", 1), domain.ErrNotFound)

	require.NoError(t, s.Inventory().DecrementQty(ctx, "t", "b", "p", 10))
	assert.Equal(t, 0, qty(t, s))
}

func TestTenantDelete_Cascada(t *testing.T) {
	s := seededStore(t)
	ctx := context.Background()

	require.NoError(t, s.Tenants().Delete(ctx, "t"))

	b, err := s.Branches().GetByID(ctx, "t", "b")
	require.NoError(t, err)
	assert.Nil(t, b)
	inv, err := s.Inventory().Get(ctx, "t", "b", "p")
	require.NoError(t, err)
	assert.Nil(t, inv)
	active, err := s.Tenants().IsActive(ctx, "t")
	require.NoError(t, err)
	assert.False(t, active)
}
