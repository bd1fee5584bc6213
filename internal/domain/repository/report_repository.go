package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ReportScope tenant, sucursal opcional y rango [From, To).
type ReportScope struct {
	TenantID string
	BranchID string
	From     time.Time
	To       time.Time
}

// MechanicCommissionRow agregado crudo por mecánico (solo transacciones PAID).
type MechanicCommissionRow struct {
	MechanicID      string
	MechanicName    string
	BranchName      *string // nil = mecánico de todas las sucursales
	TotalJobs       int
	TotalCommission decimal.Decimal
}

// TopProductRow agregado crudo por producto (solo transacciones PAID).
type TopProductRow struct {
	ProductID        string
	SKU              string
	Name             string
	Type             string
	TotalQty         int
	TotalRevenue     decimal.Decimal
	TransactionCount int
}

// ReportRepository consultas de solo lectura para reportes. No modifican datos.
type ReportRepository interface {
	// PaidTransactions devuelve transacciones PAID del rango con sus líneas.
	PaidTransactions(ctx context.Context, scope ReportScope) ([]TransactionView, error)
	MechanicCommissions(ctx context.Context, scope ReportScope) ([]MechanicCommissionRow, error)
	TopProducts(ctx context.Context, scope ReportScope, limit int) ([]TopProductRow, error)
	// VehicleHistory devuelve todas las transacciones de una placa normalizada, más recientes primero.
	VehicleHistory(ctx context.Context, tenantID, plate string) ([]TransactionView, error)
}
