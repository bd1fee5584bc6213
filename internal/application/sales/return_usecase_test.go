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

func TestReturn_RespetaCantidadDisponible(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.sell(t, 4)
	detailID := res.Details[0].ID

	out, err := f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: detailID, Qty: 3, Reason: entity.ReturnReasonCustomerRequest})
	require.NoError(t, err)
	require.NotNil(t, out.InventoryRestored)
	assert.True(t, *out.InventoryRestored)
	assert.Equal(t, res.ID, out.TransactionID)
	assert.Equal(t, 9, f.stock(t, f.mainID, f.oil.ID))

	_, err = f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: detailID, Qty: 2, Reason: entity.ReturnReasonOther})
	require.ErrorIs(t, err, domain.ErrReturnExceedsAvailable)
	assert.Contains(t, err.Error(), "Disponible: 1")
	assert.Equal(t, 9, f.stock(t, f.mainID, f.oil.ID))

	_, err = f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: detailID, Qty: 1, Reason: entity.ReturnReasonOther})
	require.NoError(t, err)

	view, err := f.txUC.Get(ctx, f.owner, res.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, view.Details[0].ReturnedQty)

	list, err := f.returnUC.ByTransaction(ctx, f.owner, res.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestReturn_ServicioNoTocaInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.txUC.Create(ctx, f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("80000")}},
	})
	require.NoError(t, err)

	out, err := f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: res.Details[0].ID, Qty: 1, Reason: entity.ReturnReasonWrongItem})
	require.NoError(t, err)
	assert.Nil(t, out.InventoryRestored, "un servicio no informa reposición")
}

func TestReturn_SinFilaDeInventarioSeRegistraSinReponer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// la conversión omite el descuento en una sucursal sin fila
	draft, err := f.draftUC.Create(ctx, f.owner, dto.SaveDraftRequest{
		BranchID: f.otherID,
		Items:    []dto.DraftItemRequest{{ProductID: f.oil.ID, Qty: 2, PriceAtMoment: dec("50000")}},
	})
	require.NoError(t, err)
	txn, err := f.draftUC.Convert(ctx, f.owner, draft.ID)
	require.NoError(t, err)

	out, err := f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: txn.Details[0].ID, Qty: 1, Reason: entity.ReturnReasonDefective})
	require.NoError(t, err)
	require.NotNil(t, out.InventoryRestored)
	assert.False(t, *out.InventoryRestored)
	assert.Equal(t, -1, f.stock(t, f.otherID, f.oil.ID), "no se crea fila al devolver")
}

func TestReturn_TransaccionCancelada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.sell(t, 2)
	_, err := f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionCancelled)
	require.NoError(t, err)

	_, err = f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: res.Details[0].ID, Qty: 1, Reason: entity.ReturnReasonOther})
	assert.ErrorIs(t, err, domain.ErrTransactionCancelled)
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
}

func TestReturn_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := f.sell(t, 1)

	_, err := f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: res.Details[0].ID, Qty: 1, Reason: "BROKEN"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: res.Details[0].ID, Qty: 0, Reason: entity.ReturnReasonOther})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{TransactionDetailID: "no-existe", Qty: 1, Reason: entity.ReturnReasonOther})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
