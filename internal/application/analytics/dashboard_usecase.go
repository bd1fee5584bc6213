package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// Dashboard resumen del día y del mes en curso.
//
// Cuatro consultas en paralelo:
//  1. PaidTransactions(hoy)     → TodayRevenue + TodayTransactions
//  2. PaidTransactions(mes)     → MonthRevenue
//  3. MechanicCommissions(mes)  → MonthCommission
//  4. TopProducts(mes, top 5) + ListLowStock
func (uc *ReportUseCase) Dashboard(ctx context.Context, actor entity.Actor, branchID string) (*dto.DashboardResponse, error) {
	dayFrom, dayTo, _ := uc.dayRange("")
	monthFrom, monthTo, _ := uc.monthRange("")
	branchID = actor.ScopeBranch(branchID)
	dayScope := repository.ReportScope{TenantID: actor.TenantID, BranchID: branchID, From: dayFrom, To: dayTo}
	monthScope := repository.ReportScope{TenantID: actor.TenantID, BranchID: branchID, From: monthFrom, To: monthTo}

	type viewsResult struct {
		views []repository.TransactionView
		err   error
	}
	type commissionResult struct {
		rows []repository.MechanicCommissionRow
		err  error
	}
	type topResult struct {
		rows     []repository.TopProductRow
		lowCount int
		err      error
	}

	todayCh := make(chan viewsResult, 1)
	monthCh := make(chan viewsResult, 1)
	commCh := make(chan commissionResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		v, err := uc.reportRepo.PaidTransactions(ctx, dayScope)
		todayCh <- viewsResult{v, err}
	}()
	go func() {
		v, err := uc.reportRepo.PaidTransactions(ctx, monthScope)
		monthCh <- viewsResult{v, err}
	}()
	go func() {
		rows, err := uc.reportRepo.MechanicCommissions(ctx, monthScope)
		commCh <- commissionResult{rows, err}
	}()
	go func() {
		rows, err := uc.reportRepo.TopProducts(ctx, monthScope, dashboardTop)
		if err != nil {
			topCh <- topResult{err: err}
			return
		}
		low, err := uc.invRepo.ListLowStock(ctx, actor.TenantID, branchID)
		topCh <- topResult{rows: rows, lowCount: len(low), err: err}
	}()

	today := <-todayCh
	month := <-monthCh
	comm := <-commCh
	top := <-topCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if comm.err != nil {
		return nil, fmt.Errorf("dashboard: comisiones: %w", comm.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: productos y stock: %w", top.err)
	}

	todayRevenue, _ := sumViews(today.views)
	monthRevenue, _ := sumViews(month.views)
	commission := decimal.Zero
	for _, r := range comm.rows {
		commission = commission.Add(r.TotalCommission)
	}

	return &dto.DashboardResponse{
		Date:              dayFrom.Format(dateLayout),
		DateLabel:         monthLabel(dayFrom),
		TodayRevenue:      todayRevenue,
		TodayTransactions: len(today.views),
		MonthRevenue:      monthRevenue,
		MonthCommission:   commission,
		TopProducts:       toTopProducts(top.rows),
		LowStockCount:     top.lowCount,
	}, nil
}

// monthLabel etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
