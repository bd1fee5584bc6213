package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/pkg/config"
)

type pgFixture struct {
	runner    *TxRunner
	tenants   *TenantRepo
	inventory *InventoryRepo
	products  *ProductRepo
	tenantID  string
	branchID  string
	productID string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	databaseURL := os.Getenv("BENGKEL_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("definir BENGKEL_TEST_DATABASE_URL para correr la prueba de integración con postgres")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: databaseURL, MaxConns: 8})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool, zerolog.Nop()))

	f := &pgFixture{
		runner:    NewTxRunner(pool),
		tenants:   NewTenantRepository(pool),
		inventory: NewInventoryRepository(pool),
		products:  NewProductRepository(pool),
		tenantID:  uuid.NewString(),
		branchID:  uuid.NewString(),
		productID: uuid.NewString(),
	}
	now := time.Now()
	require.NoError(t, f.tenants.Create(ctx, &entity.Tenant{
		ID: f.tenantID, BusinessName: "Bengkel IT", SubscriptionPlan: entity.PlanLite, IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	t.Cleanup(func() { _ = f.tenants.Delete(context.Background(), f.tenantID) })

	require.NoError(t, NewBranchRepository(pool).Create(ctx, &entity.Branch{
		ID: f.branchID, TenantID: f.tenantID, Name: "Cabang IT", IsActive: true, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.products.Create(ctx, &entity.Product{
		ID: f.productID, TenantID: f.tenantID, SKU: "IT-OLI", Name: "Oli IT", Type: entity.ProductTypeGoods,
		BasePrice: decimal.RequireFromString("45000.50"), MinStock: 2, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, f.inventory.Create(ctx, &entity.Inventory{
		ID: uuid.NewString(), TenantID: f.tenantID, BranchID: f.branchID, ProductID: f.productID, Qty: 5, MinStockAlert: 2, UpdatedAt: now,
	}))
	return f
}

func (f *pgFixture) qty(t *testing.T) int {
	t.Helper()
	inv, err := f.inventory.Get(context.Background(), f.tenantID, f.branchID, f.productID)
	require.NoError(t, err)
	require.NotNil(t, inv)
	return inv.Qty
}

func TestIntegration_NumericConservaDecimales(t *testing.T) {
	f := newPGFixture(t)

	p, err := f.products.GetByID(context.Background(), f.tenantID, f.productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.BasePrice.Equal(decimal.RequireFromString("45000.50")), "got %s", p.BasePrice)
}

func TestIntegration_DecrementoConcurrenteNuncaNegativo(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	const workers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		short     int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.runner.RunSales(ctx, func(_ repository.TransactionRepository, invRepo repository.InventoryRepository, _ repository.ReturnRepository, _ repository.DraftTransactionRepository) error {
				return invRepo.DecrementQty(ctx, f.tenantID, f.branchID, f.productID, 3)
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, short)
	assert.Equal(t, 2, f.qty(t))
}

func TestIntegration_RollbackDescartaDecremento(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.runner.RunSales(ctx, func(_ repository.TransactionRepository, invRepo repository.InventoryRepository, _ repository.ReturnRepository, _ repository.DraftTransactionRepository) error {
		if err := invRepo.DecrementQty(ctx, f.tenantID, f.branchID, f.productID, 4); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 5, f.qty(t))
}

func TestIntegration_AddOrCreateSumaSobreFilaExistente(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()

	inv := &entity.Inventory{
		ID: uuid.NewString(), TenantID: f.tenantID, BranchID: f.branchID, ProductID: f.productID, Qty: 7, MinStockAlert: 9, UpdatedAt: time.Now(),
	}
	require.NoError(t, f.inventory.AddOrCreate(ctx, inv))
	assert.Equal(t, 12, inv.Qty)
	assert.Equal(t, 2, inv.MinStockAlert, "el umbral existente no cambia")

	found, err := f.inventory.IncrementQty(ctx, f.tenantID, uuid.NewString(), f.productID, 1)
	require.NoError(t, err)
	assert.False(t, found)
}
