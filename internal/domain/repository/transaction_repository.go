package repository

import (
	"context"

	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
)

// TransactionFilter filtros para listar transacciones.
type TransactionFilter struct {
	TenantID string
	BranchID string
	Status   string
	Limit    int
}

// TransactionSummary fila de listado con nombre de sucursal y cantidad de líneas.
type TransactionSummary struct {
	entity.TransactionHeader
	BranchName  string
	DetailCount int
}

// DetailView línea con datos de producto, mecánico y cantidad ya devuelta.
type DetailView struct {
	entity.TransactionDetail
	ProductName  string
	ProductSKU   string
	ProductType  string
	MechanicName *string
	ReturnedQty  int
}

// TransactionView transacción completa (cabecera + líneas).
type TransactionView struct {
	entity.TransactionHeader
	BranchName string
	Details    []DetailView
}

// DetailForReturn línea bloqueada para devolución con su contexto de transacción.
type DetailForReturn struct {
	entity.TransactionDetail
	TenantID          string
	BranchID          string
	TransactionStatus string
	ProductType       string
}

// TransactionRepository define el puerto de persistencia para ventas.
type TransactionRepository interface {
	CreateHeader(ctx context.Context, header *entity.TransactionHeader) error
	CreateDetails(ctx context.Context, details []*entity.TransactionDetail) error
	GetByID(ctx context.Context, tenantID, id string) (*TransactionView, error)
	// GetHeaderForUpdate bloquea la cabecera (SELECT FOR UPDATE); nil, nil si no existe.
	GetHeaderForUpdate(ctx context.Context, tenantID, id string) (*entity.TransactionHeader, error)
	ListDetails(ctx context.Context, transactionID string) ([]DetailView, error)
	// GetDetailForUpdate bloquea la línea para validar devoluciones concurrentes.
	GetDetailForUpdate(ctx context.Context, tenantID, detailID string) (*DetailForReturn, error)
	UpdateStatus(ctx context.Context, tenantID, id, status string) error
	List(ctx context.Context, filter TransactionFilter) ([]TransactionSummary, error)
}
