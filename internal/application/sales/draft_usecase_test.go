package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

func (f *fixture) draft(t *testing.T, branchID string, items ...dto.DraftItemRequest) *dto.DraftResponse {
	t.Helper()
	plate := "d 4321 xy"
	res, err := f.draftUC.Create(context.Background(), f.owner, dto.SaveDraftRequest{BranchID: branchID, CustomerPlate: &plate, Items: items})
	require.NoError(t, err)
	return res
}

func TestDraft_CrudCalculaSubtotales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fee := dec("20000")

	d := f.draft(t, f.mainID,
		dto.DraftItemRequest{ProductID: f.oil.ID, Qty: 2, PriceAtMoment: dec("50000")},
		dto.DraftItemRequest{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("90000"), MechanicID: &f.mechanic.ID, MechanicFee: &fee},
	)
	assert.Equal(t, f.mainID, d.BranchID)
	assert.True(t, d.TotalAmount.Equal(dec("190000")), "total = %s", d.TotalAmount)
	require.Len(t, d.Items, 2)
	assert.True(t, d.Items[0].Subtotal.Equal(dec("100000")))
	require.NotNil(t, d.CustomerPlate)
	assert.Equal(t, "D 4321 XY", *d.CustomerPlate)

	got, err := f.draftUC.Get(ctx, f.owner, d.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)

	updated, err := f.draftUC.Update(ctx, f.owner, d.ID, dto.SaveDraftRequest{
		Items: []dto.DraftItemRequest{{ProductID: f.oil.ID, Qty: 1, PriceAtMoment: dec("55000")}},
	})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("55000")))
	assert.Nil(t, updated.CustomerPlate)

	list, err := f.draftUC.List(ctx, f.owner, f.mainID, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.draftUC.Delete(ctx, f.owner, d.ID))
	_, err = f.draftUC.Get(ctx, f.owner, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID), "los borradores no reservan stock")
}

func TestDraft_RechazaMontosConMasDeDosDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	halfCent := dec("0.005")

	_, err := f.draftUC.Create(ctx, f.owner, dto.SaveDraftRequest{
		BranchID: f.mainID,
		Items:    []dto.DraftItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: halfCent}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.draftUC.Create(ctx, f.owner, dto.SaveDraftRequest{
		BranchID: f.mainID,
		Items:    []dto.DraftItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("1"), MechanicFee: &halfCent}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDraft_CajeroUsaSuSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.draftUC.Create(ctx, f.cashier, dto.SaveDraftRequest{BranchID: f.otherID})
	require.NoError(t, err, "un borrador vacío es válido")
	assert.Equal(t, f.mainID, d.BranchID, "la sucursal del token manda")

	other := f.draft(t, f.otherID)
	_, err = f.draftUC.Get(ctx, f.cashier, other.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraft_ConvertirCreaVentaPagadaYBorraBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.draft(t, f.mainID,
		dto.DraftItemRequest{ProductID: f.oil.ID, Qty: 2, PriceAtMoment: dec("50000")},
		dto.DraftItemRequest{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("90000")},
	)

	txn, err := f.draftUC.Convert(ctx, f.owner, d.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionPaid, txn.Status)
	assert.True(t, txn.TotalAmount.Equal(dec("190000")))
	assert.Len(t, txn.Details, 2)
	require.NotNil(t, txn.CustomerPlate)
	assert.Equal(t, "D 4321 XY", *txn.CustomerPlate)
	assert.Equal(t, 8, f.stock(t, f.mainID, f.oil.ID))

	_, err = f.draftUC.Get(ctx, f.owner, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDraft_ConvertirSinStockConservaBorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.draft(t, f.mainID, dto.DraftItemRequest{ProductID: f.oil.ID, Qty: 11, PriceAtMoment: dec("50000")})

	_, err := f.draftUC.Convert(ctx, f.owner, d.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.draftUC.Get(ctx, f.owner, d.ID)
	assert.NoError(t, err, "el borrador sobrevive a una conversión fallida")
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
	list, err := f.txUC.List(ctx, f.owner, "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDraft_ConvertirOmiteProductoSinFila(t *testing.T) {
	f := newFixture(t)
	d := f.draft(t, f.otherID, dto.DraftItemRequest{ProductID: f.oil.ID, Qty: 3, PriceAtMoment: dec("50000")})

	txn, err := f.draftUC.Convert(context.Background(), f.owner, d.ID)
	require.NoError(t, err)
	assert.Equal(t, f.otherID, txn.BranchID)
	assert.Equal(t, -1, f.stock(t, f.otherID, f.oil.ID))
}

func TestDraft_ConvertirConMecanicoBorradoEsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fee := dec("10000")

	d := f.draft(t, f.mainID,
		dto.DraftItemRequest{ProductID: f.oil.ID, Qty: 1, PriceAtMoment: dec("50000")},
		dto.DraftItemRequest{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("60000"), MechanicID: &f.mechanic.ID, MechanicFee: &fee},
	)
	require.NoError(t, f.store.Mechanics().Delete(ctx, f.tenantID, f.mechanic.ID))

	_, err := f.draftUC.Convert(ctx, f.owner, d.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "mecánico")

	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
	_, err = f.draftUC.Get(ctx, f.owner, d.ID)
	assert.NoError(t, err, "el borrador se conserva")
}

func TestDraft_ConvertirVacioEsInvalido(t *testing.T) {
	f := newFixture(t)
	d := f.draft(t, f.mainID)

	_, err := f.draftUC.Convert(context.Background(), f.owner, d.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
