// Package analytics contiene los reportes de solo lectura del tenant.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/domain"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/pos"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DefaultTopProducts tamaño del ranking si no se indica limit.
	DefaultTopProducts = 10
	maxTopProducts     = 100
	dashboardTop       = 5
	allBranchesLabel   = "Todas las sucursales"
	dateLayout         = "2006-01-02"
	monthLayout        = "2006-01"
)

// ReportUseCase reportes de ventas, comisiones, productos, historial por placa y stock bajo.
type ReportUseCase struct {
	reportRepo repository.ReportRepository
	invRepo    repository.InventoryRepository
	loc        *time.Location
	now        func() time.Time
	log        zerolog.Logger
}

// NewReportUseCase construye el caso de uso. Las fechas se interpretan en loc (nil = hora local).
func NewReportUseCase(reportRepo repository.ReportRepository, invRepo repository.InventoryRepository, loc *time.Location, log zerolog.Logger) *ReportUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &ReportUseCase{reportRepo: reportRepo, invRepo: invRepo, loc: loc, now: time.Now, log: log}
}

// dayRange [00:00, 00:00 del día siguiente) de date (YYYY-MM-DD); vacío = hoy.
func (uc *ReportUseCase) dayRange(date string) (time.Time, time.Time, error) {
	var day time.Time
	if date == "" {
		n := uc.now().In(uc.loc)
		day = time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, uc.loc)
	} else {
		d, err := time.ParseInLocation(dateLayout, date, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date debe tener formato YYYY-MM-DD", domain.ErrInvalidInput)
		}
		day = d
	}
	return day, day.AddDate(0, 0, 1), nil
}

// monthRange [día 1, día 1 del mes siguiente) de month (YYYY-MM); vacío = mes en curso.
func (uc *ReportUseCase) monthRange(month string) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		n := uc.now().In(uc.loc)
		start = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, uc.loc)
	} else {
		m, err := time.ParseInLocation(monthLayout, month, uc.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month debe tener formato YYYY-MM", domain.ErrInvalidInput)
		}
		start = m
	}
	return start, start.AddDate(0, 1, 0), nil
}

func period(from, to time.Time) dto.PeriodDTO {
	return dto.PeriodDTO{StartDate: from.Format(dateLayout), EndDate: to.AddDate(0, 0, -1).Format(dateLayout)}
}

// Daily ventas PAID de un día: ingresos, comisiones y neto.
func (uc *ReportUseCase) Daily(ctx context.Context, actor entity.Actor, date, branchID string) (*dto.DailyReportResponse, error) {
	from, to, err := uc.dayRange(date)
	if err != nil {
		return nil, err
	}
	views, err := uc.reportRepo.PaidTransactions(ctx, repository.ReportScope{
		TenantID: actor.TenantID,
		BranchID: actor.ScopeBranch(branchID),
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, fmt.Errorf("reporte diario: %w", err)
	}
	revenue, fees := sumViews(views)
	txs := make([]dto.TransactionResponse, 0, len(views))
	for i := range views {
		txs = append(txs, *sales.ToTransactionResponse(&views[i]))
	}
	return &dto.DailyReportResponse{
		Date:              from.Format(dateLayout),
		TotalRevenue:      revenue,
		TotalTransactions: len(views),
		TotalMechanicFee:  fees,
		NetRevenue:        revenue.Sub(fees),
		Transactions:      txs,
	}, nil
}

func sumViews(views []repository.TransactionView) (decimal.Decimal, decimal.Decimal) {
	revenue, fees := decimal.Zero, decimal.Zero
	for _, v := range views {
		revenue = revenue.Add(v.TotalAmount)
		lines := make([]pos.Line, 0, len(v.Details))
		for _, d := range v.Details {
			lines = append(lines, pos.Line{Qty: d.Qty, PriceAtMoment: d.PriceAtMoment, MechanicFee: d.MechanicFee})
		}
		fees = fees.Add(pos.MechanicFees(lines))
	}
	return revenue, fees
}

// MechanicCommission comisiones del mes por mecánico, mayor comisión primero.
func (uc *ReportUseCase) MechanicCommission(ctx context.Context, actor entity.Actor, month, branchID string) (*dto.MechanicCommissionResponse, error) {
	from, to, err := uc.monthRange(month)
	if err != nil {
		return nil, err
	}
	rows, err := uc.reportRepo.MechanicCommissions(ctx, repository.ReportScope{
		TenantID: actor.TenantID,
		BranchID: actor.ScopeBranch(branchID),
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, fmt.Errorf("reporte de comisiones: %w", err)
	}
	out := &dto.MechanicCommissionResponse{
		Period:          period(from, to),
		TotalCommission: decimal.Zero,
		Mechanics:       make([]dto.MechanicCommissionDTO, 0, len(rows)),
	}
	for _, r := range rows {
		if r.TotalJobs == 0 {
			continue
		}
		branch := allBranchesLabel
		if r.BranchName != nil {
			branch = *r.BranchName
		}
		out.Mechanics = append(out.Mechanics, dto.MechanicCommissionDTO{
			MechanicID:      r.MechanicID,
			MechanicName:    r.MechanicName,
			BranchName:      branch,
			TotalJobs:       r.TotalJobs,
			TotalCommission: r.TotalCommission,
		})
		out.TotalJobs += r.TotalJobs
		out.TotalCommission = out.TotalCommission.Add(r.TotalCommission)
	}
	return out, nil
}

// TopProducts ranking del mes por cantidad vendida.
func (uc *ReportUseCase) TopProducts(ctx context.Context, actor entity.Actor, month, branchID string, limit int) (*dto.TopProductsResponse, error) {
	from, to, err := uc.monthRange(month)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultTopProducts
	}
	if limit > maxTopProducts {
		limit = maxTopProducts
	}
	rows, err := uc.reportRepo.TopProducts(ctx, repository.ReportScope{
		TenantID: actor.TenantID,
		BranchID: actor.ScopeBranch(branchID),
		From:     from,
		To:       to,
	}, limit)
	if err != nil {
		return nil, fmt.Errorf("reporte de productos: %w", err)
	}
	return &dto.TopProductsResponse{Period: period(from, to), Products: toTopProducts(rows)}, nil
}

func toTopProducts(rows []repository.TopProductRow) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.TopProductDTO{
			ProductID:        r.ProductID,
			ProductName:      r.Name,
			SKU:              r.SKU,
			Type:             r.Type,
			TotalQty:         r.TotalQty,
			TotalRevenue:     r.TotalRevenue,
			TransactionCount: r.TransactionCount,
		})
	}
	return out
}

// VehicleHistory visitas de una placa (normalizada). TotalSpent excluye canceladas.
func (uc *ReportUseCase) VehicleHistory(ctx context.Context, actor entity.Actor, plate string) (*dto.VehicleHistoryResponse, error) {
	plate = pos.NormalizePlate(plate)
	if plate == "" {
		return nil, fmt.Errorf("%w: placa vacía", domain.ErrInvalidInput)
	}
	views, err := uc.reportRepo.VehicleHistory(ctx, actor.TenantID, plate)
	if err != nil {
		return nil, fmt.Errorf("historial de vehículo: %w", err)
	}
	out := &dto.VehicleHistoryResponse{
		CustomerPlate: plate,
		TotalSpent:    decimal.Zero,
		History:       make([]dto.VehicleVisit, 0, len(views)),
	}
	for _, v := range views {
		if actor.IsCashier() && v.BranchID != actor.BranchID {
			continue
		}
		items := make([]dto.VehicleHistoryItem, 0, len(v.Details))
		for _, d := range v.Details {
			items = append(items, dto.VehicleHistoryItem{
				Product:  d.ProductName,
				Type:     d.ProductType,
				Qty:      d.Qty,
				Price:    d.PriceAtMoment,
				Mechanic: d.MechanicName,
			})
		}
		out.History = append(out.History, dto.VehicleVisit{
			ID:     v.ID,
			Date:   v.CreatedAt,
			Branch: v.BranchName,
			Total:  v.TotalAmount,
			Status: v.Status,
			Items:  items,
		})
		if v.Status != entity.TransactionCancelled {
			out.TotalSpent = out.TotalSpent.Add(v.TotalAmount)
		}
	}
	out.TotalVisits = len(out.History)
	return out, nil
}

// LowStock filas en o bajo su umbral; deficit = mínimo - actual.
func (uc *ReportUseCase) LowStock(ctx context.Context, actor entity.Actor, branchID string) (*dto.LowStockResponse, error) {
	rows, err := uc.invRepo.ListLowStock(ctx, actor.TenantID, actor.ScopeBranch(branchID))
	if err != nil {
		return nil, fmt.Errorf("reporte de stock bajo: %w", err)
	}
	return toLowStock(rows), nil
}

func toLowStock(rows []repository.InventoryRow) *dto.LowStockResponse {
	items := make([]dto.LowStockItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, dto.LowStockItem{
			ID:           r.ID,
			SKU:          r.SKU,
			Name:         r.ProductName,
			BranchID:     r.BranchID,
			BranchName:   r.BranchName,
			MinStock:     r.MinStockAlert,
			CurrentStock: r.Qty,
			Deficit:      r.MinStockAlert - r.Qty,
		})
	}
	return &dto.LowStockResponse{Count: len(items), Items: items}
}
