package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/memory"
)

type transferFixture struct {
	store    *memory.Store
	uc       *inventory.TransferUseCase
	actor    entity.Actor
	fromID   string
	toID     string
	tire     string
	service  string
	tenantID string
}

func newTransferFixture(t *testing.T) *transferFixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	now := time.Now()
	f := &transferFixture{
		store:    s,
		tenantID: uuid.New().String(),
		fromID:   uuid.New().String(),
		toID:     uuid.New().String(),
		tire:     uuid.New().String(),
		service:  uuid.New().String(),
	}
	require.NoError(t, s.Tenants().Create(ctx, &entity.Tenant{ID: f.tenantID, BusinessName: "Bengkel", SubscriptionPlan: entity.PlanLite, IsActive: true}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: f.fromID, TenantID: f.tenantID, Name: "Gudang", IsActive: true}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: f.toID, TenantID: f.tenantID, Name: "Toko", IsActive: true}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: f.tire, TenantID: f.tenantID, SKU: "BAN001", Name: "Ban Tubeless", Type: entity.ProductTypeGoods,
		BasePrice: decimal.NewFromInt(250000), MinStock: 4, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{
		ID: f.service, TenantID: f.tenantID, SKU: "SVC002", Name: "Spooring", Type: entity.ProductTypeService,
		BasePrice: decimal.NewFromInt(150000), CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{
		ID: uuid.New().String(), TenantID: f.tenantID, BranchID: f.fromID, ProductID: f.tire, Qty: 20, MinStockAlert: 4, UpdatedAt: now,
	}))

	f.actor = entity.Actor{UserID: uuid.New().String(), Username: "gudang", Role: entity.RoleWarehouse, TenantID: f.tenantID}
	f.uc = inventory.NewTransferUseCase(s, s.Inventory(), s.StockTransfers(), s.Products(), s.Branches(), zerolog.Nop())
	return f
}

func (f *transferFixture) qty(t *testing.T, branchID string) (int, *entity.Inventory) {
	t.Helper()
	inv, err := f.store.Inventory().Get(context.Background(), f.tenantID, branchID, f.tire)
	require.NoError(t, err)
	if inv == nil {
		return -1, nil
	}
	return inv.Qty, inv
}

func TestTransfer_CreaFilaDestinoYAsientaMovimiento(t *testing.T) {
	f := newTransferFixture(t)
	ctx := context.Background()
	notes := "reposición semanal"

	out, err := f.uc.Create(ctx, f.actor, dto.CreateStockTransferRequest{
		ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 8, Notes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gudang", out.FromBranchName)
	assert.Equal(t, "Toko", out.ToBranchName)
	assert.Equal(t, f.actor.UserID, out.TransferredBy)

	src, _ := f.qty(t, f.fromID)
	assert.Equal(t, 12, src)
	dst, row := f.qty(t, f.toID)
	assert.Equal(t, 8, dst)
	require.NotNil(t, row)
	assert.Equal(t, 4, row.MinStockAlert, "la fila nueva hereda el mínimo del producto")

	_, err = f.uc.Create(ctx, f.actor, dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 2})
	require.NoError(t, err)
	dst, _ = f.qty(t, f.toID)
	assert.Equal(t, 10, dst, "la segunda transferencia suma a la fila existente")

	list, err := f.uc.List(ctx, f.actor, f.toID, "")
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := f.uc.GetByID(ctx, f.actor, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.Qty)
}

func TestTransfer_Rechazos(t *testing.T) {
	f := newTransferFixture(t)
	ghost := uuid.New().String()

	tests := []struct {
		name string
		in   dto.CreateStockTransferRequest
		want error
	}{
		{"misma sucursal", dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.fromID, Qty: 1}, domain.ErrSameBranch},
		{"servicio", dto.CreateStockTransferRequest{ProductID: f.service, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 1}, domain.ErrNotStockable},
		{"stock insuficiente", dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 21}, domain.ErrInsufficientStock},
		{"origen sin fila", dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.toID, ToBranchID: f.fromID, Qty: 1}, domain.ErrInsufficientStock},
		{"sucursal inexistente", dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: ghost, Qty: 1}, domain.ErrNotFound},
		{"producto inexistente", dto.CreateStockTransferRequest{ProductID: ghost, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 1}, domain.ErrNotFound},
		{"qty cero", dto.CreateStockTransferRequest{ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.toID}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Create(context.Background(), f.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	src, _ := f.qty(t, f.fromID)
	assert.Equal(t, 20, src, "ningún rechazo mueve stock")
	dst, _ := f.qty(t, f.toID)
	assert.Equal(t, -1, dst)
	list, err := f.uc.List(context.Background(), f.actor, "", "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransfer_MensajeDeStockIncluyeDisponible(t *testing.T) {
	f := newTransferFixture(t)
	_, err := f.uc.Create(context.Background(), f.actor, dto.CreateStockTransferRequest{
		ProductID: f.tire, FromBranchID: f.fromID, ToBranchID: f.toID, Qty: 25,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Disponible: 20")
}
