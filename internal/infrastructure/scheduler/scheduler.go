// Package scheduler tareas periódicas del servicio (gocron).
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/pkg/metrics"
	"github.com/rs/zerolog"
)

const scanTimeout = 2 * time.Minute

// LowStockScanner recorre los tenants activos y reporta filas en o bajo su umbral.
type LowStockScanner struct {
	tenantRepo repository.TenantRepository
	invRepo    repository.InventoryRepository
	log        zerolog.Logger
}

// NewLowStockScanner construye el escáner.
func NewLowStockScanner(tenantRepo repository.TenantRepository, invRepo repository.InventoryRepository, log zerolog.Logger) *LowStockScanner {
	return &LowStockScanner{tenantRepo: tenantRepo, invRepo: invRepo, log: log}
}

// Scan ejecuta un escaneo completo. Devuelve el total de filas bajas por tenant.
func (s *LowStockScanner) Scan(ctx context.Context) (map[string]int, error) {
	tenants, err := s.tenantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("scheduler: listar tenants: %w", err)
	}
	out := make(map[string]int, len(tenants))
	for _, t := range tenants {
		if !t.IsActive {
			continue
		}
		rows, err := s.invRepo.ListLowStock(ctx, t.ID, "")
		if err != nil {
			s.log.Error().Err(err).Str("tenant_id", t.ID).Msg("escaneo de stock bajo falló")
			continue
		}
		perBranch := map[string]int{}
		names := map[string]string{}
		for _, r := range rows {
			perBranch[r.BranchID]++
			names[r.BranchID] = r.BranchName
		}
		for branchID, n := range perBranch {
			s.log.Warn().
				Str("tenant_id", t.ID).
				Str("branch_id", branchID).
				Str("branch", names[branchID]).
				Int("items", n).
				Msg("productos en stock bajo")
		}
		metrics.LowStockItems.WithLabelValues(t.ID).Set(float64(len(rows)))
		out[t.ID] = len(rows)
	}
	return out, nil
}

func (s *LowStockScanner) run() {
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()
	if _, err := s.Scan(ctx); err != nil {
		s.log.Error().Err(err).Msg("escaneo de stock bajo")
	}
}

// Start programa el escaneo con una expresión cron y arranca el scheduler en segundo plano.
// El llamador debe invocar Stop() del scheduler devuelto al apagar.
func Start(cronExpr string, loc *time.Location, scanner *LowStockScanner) (*gocron.Scheduler, error) {
	if loc == nil {
		loc = time.Local
	}
	s := gocron.NewScheduler(loc)
	if _, err := s.Cron(cronExpr).Do(scanner.run); err != nil {
		return nil, fmt.Errorf("scheduler: programar escaneo %q: %w", cronExpr, err)
	}
	s.StartAsync()
	return s, nil
}
