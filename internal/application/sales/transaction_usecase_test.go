package sales_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

func detailFor(t *testing.T, res *dto.TransactionResponse, productID string) dto.TransactionDetailResponse {
	t.Helper()
	for _, d := range res.Details {
		if d.ProductID == productID {
			return d
		}
	}
	t.Fatalf("la transacción %s no tiene línea para %s", res.ID, productID)
	return dto.TransactionDetailResponse{}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotalesExactosYDescuentaStock(t *testing.T) {
	f := newFixture(t)
	plate := "  b 1234   abc "
	fee := dec("25000")

	res, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID:      f.mainID,
		CustomerPlate: &plate,
		Items: []dto.TransactionItemRequest{
			{ProductID: f.oil.ID, Qty: 3, PriceAtMoment: dec("45000.50")},
			{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("100000"), MechanicID: &f.mechanic.ID, MechanicFee: &fee},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.TransactionPending, res.Status)
	assert.True(t, res.TotalAmount.Equal(dec("235001.50")), "total = %s", res.TotalAmount)
	require.NotNil(t, res.CustomerPlate)
	assert.Equal(t, "B 1234 ABC", *res.CustomerPlate, "la placa se guarda normalizada")
	assert.Equal(t, "Cabang Utama", res.BranchName)
	require.Len(t, res.Details, 2)

	oil := detailFor(t, res, f.oil.ID)
	assert.True(t, oil.Subtotal.Equal(dec("135001.50")))
	svc := detailFor(t, res, f.service.ID)
	assert.True(t, svc.MechanicFee.Equal(fee))
	require.NotNil(t, svc.MechanicName)
	assert.Equal(t, "Budi", *svc.MechanicName)

	assert.Equal(t, 7, f.stock(t, f.mainID, f.oil.ID), "solo las líneas GOODS descuentan stock")
}

func TestCreate_StockInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.txUC.Create(ctx, f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{f.oilItem(11)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Disponible: 10")

	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
	list, err := f.txUC.List(ctx, f.owner, "", "", 0)
	require.NoError(t, err)
	assert.Empty(t, list, "no debe quedar cabecera de una venta rechazada")
}

func TestCreate_LineasRepetidasSumanCantidad(t *testing.T) {
	f := newFixture(t)

	_, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{f.oilItem(6), f.oilItem(6)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
}

func TestCreate_SinFilaDeInventarioEsStockCero(t *testing.T) {
	f := newFixture(t)

	_, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID: f.otherID,
		Items:    []dto.TransactionItemRequest{f.oilItem(1)},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "Disponible: 0")
}

func TestCreate_ServicioNoNecesitaInventario(t *testing.T) {
	f := newFixture(t)

	res, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID: f.otherID,
		Items:    []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 2, PriceAtMoment: dec("75000")}},
	})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.Equal(dec("150000")))
}

func TestCreate_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	negative := dec("-1")

	tests := []struct {
		name  string
		items []dto.TransactionItemRequest
	}{
		{"sin ítems", nil},
		{"qty cero", []dto.TransactionItemRequest{f.oilItem(0)}},
		{"precio negativo", []dto.TransactionItemRequest{{ProductID: f.oil.ID, Qty: 1, PriceAtMoment: negative}}},
		{"comisión negativa", []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("1"), MechanicFee: &negative}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{BranchID: f.mainID, Items: tt.items})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))
}

// Las columnas de montos guardan 2 decimales; medio centavo rompería total == Σ subtotal al persistir.
func TestCreate_RechazaMontosConMasDeDosDecimales(t *testing.T) {
	f := newFixture(t)
	halfCent := dec("0.005")

	tests := []struct {
		name  string
		items []dto.TransactionItemRequest
	}{
		{"precio", []dto.TransactionItemRequest{
			{ProductID: f.service.ID, Qty: 1, PriceAtMoment: halfCent},
			{ProductID: f.service.ID, Qty: 1, PriceAtMoment: halfCent},
		}},
		{"comisión", []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("10000"), MechanicFee: &halfCent}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{BranchID: f.mainID, Items: tt.items})
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	res, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 3, PriceAtMoment: dec("0.05")}},
	})
	require.NoError(t, err)
	assert.True(t, res.TotalAmount.Equal(dec("0.15")))
}

func TestCreate_ProductoOMecanicoDeOtroTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ghost := "00000000-0000-0000-0000-00000000dead"

	_, err := f.txUC.Create(ctx, f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{{ProductID: ghost, Qty: 1, PriceAtMoment: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.txUC.Create(ctx, f.owner, dto.CreateTransactionRequest{
		BranchID: f.mainID,
		Items:    []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("1"), MechanicID: &ghost}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreate_CajeroSoloEnSuSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.txUC.Create(ctx, f.cashier, dto.CreateTransactionRequest{
		BranchID: f.otherID,
		Items:    []dto.TransactionItemRequest{f.oilItem(1)},
	})
	require.ErrorIs(t, err, domain.ErrForbidden)

	res, err := f.txUC.Create(ctx, f.cashier, dto.CreateTransactionRequest{Items: []dto.TransactionItemRequest{f.oilItem(1)}})
	require.NoError(t, err, "sin branchId el cajero vende en su sucursal")
	assert.Equal(t, f.mainID, res.BranchID)
	require.NotNil(t, res.CreatedBy)
	assert.Equal(t, f.cashier.UserID, *res.CreatedBy)
}

func TestCreate_VentasConcurrentesNoSobrevenden(t *testing.T) {
	f := newFixture(t)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.txUC.Create(context.Background(), f.owner, dto.CreateTransactionRequest{
				BranchID: f.mainID,
				Items:    []dto.TransactionItemRequest{f.oilItem(3)},
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, successes, "con stock 10 solo caben tres ventas de 3")
	assert.Equal(t, 1, f.stock(t, f.mainID, f.oil.ID))
}

// ──────────────────────────────────────────────────────────────────────────────
// Get / List
// ──────────────────────────────────────────────────────────────────────────────

func TestGet_CajeroNoVeOtraSucursal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.txUC.Create(ctx, f.owner, dto.CreateTransactionRequest{
		BranchID: f.otherID,
		Items:    []dto.TransactionItemRequest{{ProductID: f.service.ID, Qty: 1, PriceAtMoment: dec("50000")}},
	})
	require.NoError(t, err)

	_, err = f.txUC.Get(ctx, f.cashier, res.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.txUC.List(ctx, f.cashier, f.otherID, "", 0)
	require.NoError(t, err)
	assert.Empty(t, list, "el filtro de sucursal del cajero se fuerza a la suya")

	list, err = f.txUC.List(ctx, f.owner, "", entity.TransactionPending, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestList_EstadoInvalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.txUC.List(context.Background(), f.owner, "", "REFUNDED", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateStatus
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateStatus_CancelarReponeStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.sell(t, 4)
	assert.Equal(t, 6, f.stock(t, f.mainID, f.oil.ID))

	out, err := f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionCancelled, out.Status)
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID))

	_, err = f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionCancelled)
	require.NoError(t, err, "cancelar de nuevo no es error")
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID), "la segunda cancelación no repone otra vez")

	_, err = f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionPaid)
	assert.ErrorIs(t, err, domain.ErrTransactionCancelled)
}

func TestUpdateStatus_CancelarDescuentaLoYaDevuelto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.sell(t, 4)
	_, err := f.returnUC.Create(ctx, f.owner, dto.CreateReturnRequest{
		TransactionDetailID: res.Details[0].ID,
		Qty:                 1,
		Reason:              entity.ReturnReasonDefective,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, f.stock(t, f.mainID, f.oil.ID))

	_, err = f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionCancelled)
	require.NoError(t, err)
	assert.Equal(t, 10, f.stock(t, f.mainID, f.oil.ID), "se repone qty - devuelto")
}

func TestUpdateStatus_PagadaNoVuelveAPendiente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := f.sell(t, 1)
	_, err := f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionPaid)
	require.NoError(t, err)

	_, err = f.txUC.UpdateStatus(ctx, f.owner, res.ID, entity.TransactionPending)
	assert.ErrorIs(t, err, domain.ErrInvalidStatusTransition)

	_, err = f.txUC.UpdateStatus(ctx, f.owner, res.ID, "VOID")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.txUC.UpdateStatus(ctx, f.owner, "no-existe", entity.TransactionPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
