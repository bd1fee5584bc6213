// seed crea datos de demostración en PostgreSQL. Es idempotente: lo que ya existe se reutiliza.
//
// Uso: go run ./cmd/seed
// La contraseña de los usuarios demo se toma de SEED_PASSWORD (por defecto "password123").
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/bengkel-pos/pkg/config"
	"github.com/jhoicas/bengkel-pos/pkg/logger"
)

const (
	demoTenant   = "Bengkel Demo"
	demoBranch   = "Cabang Utama"
	demoMechanic = "Budi Mekanik"
)

type seedProduct struct {
	sku      string
	name     string
	typ      string
	price    string
	flexible bool
	stock    int
}

var demoProducts = []seedProduct{
	{sku: "OLI001", name: "Oli Mesin 1L", typ: entity.ProductTypeGoods, price: "55000", stock: 50},
	{sku: "BAN001", name: "Ban Motor 80/90-17", typ: entity.ProductTypeGoods, price: "250000", stock: 20},
	{sku: "AKI001", name: "Aki Motor 12V", typ: entity.ProductTypeGoods, price: "300000", stock: 10},
	{sku: "SVC001", name: "Servis Ringan", typ: entity.ProductTypeService, price: "0", flexible: true},
	{sku: "SVC002", name: "Ganti Oli", typ: entity.ProductTypeService, price: "15000"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "password123"
	}
	if err := seed(ctx, pool, password, log); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	log.Info().Msg("seed completado")
}

func seed(ctx context.Context, q postgres.Querier, password string, log *logger.Logger) error {
	tenants := postgres.NewTenantRepository(q)
	branches := postgres.NewBranchRepository(q)
	users := postgres.NewUserRepository(q)
	mechanics := postgres.NewMechanicRepository(q)
	products := postgres.NewProductRepository(q)
	inventory := postgres.NewInventoryRepository(q)

	hash, err := usecase.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash: %w", err)
	}
	now := time.Now()

	// Tenant
	var tenant *entity.Tenant
	list, err := tenants.List(ctx)
	if err != nil {
		return err
	}
	for _, t := range list {
		if t.BusinessName == demoTenant {
			tenant = t
			break
		}
	}
	if tenant == nil {
		tenant = &entity.Tenant{
			ID:               uuid.New().String(),
			BusinessName:     demoTenant,
			SubscriptionPlan: entity.PlanPro,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := tenants.Create(ctx, tenant); err != nil {
			return fmt.Errorf("tenant: %w", err)
		}
		log.Info().Str("id", tenant.ID).Msg("tenant creado")
	}

	// Sucursal
	var branch *entity.Branch
	bs, err := branches.ListByTenant(ctx, tenant.ID)
	if err != nil {
		return err
	}
	for _, b := range bs {
		if b.Name == demoBranch {
			branch = b
			break
		}
	}
	if branch == nil {
		branch = &entity.Branch{
			ID:        uuid.New().String(),
			TenantID:  tenant.ID,
			Name:      demoBranch,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := branches.Create(ctx, branch); err != nil {
			return fmt.Errorf("sucursal: %w", err)
		}
		log.Info().Str("id", branch.ID).Msg("sucursal creada")
	}

	// Usuarios
	demoUsers := []struct {
		username string
		role     string
		tenantID *string
		branchID *string
	}{
		{"superadmin", entity.RoleSuperAdmin, nil, nil},
		{"owner_demo", entity.RoleOwner, &tenant.ID, nil},
		{"cashier_demo", entity.RoleCashier, &tenant.ID, &branch.ID},
	}
	for _, du := range demoUsers {
		existing, err := users.GetByUsername(ctx, du.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if err := users.Create(ctx, &entity.User{
			ID:           uuid.New().String(),
			Username:     du.username,
			PasswordHash: hash,
			Role:         du.role,
			TenantID:     du.tenantID,
			BranchID:     du.branchID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return fmt.Errorf("usuario %s: %w", du.username, err)
		}
		log.Info().Str("username", du.username).Str("role", du.role).Msg("usuario creado")
	}

	// Productos e inventario
	for _, sp := range demoProducts {
		p, err := products.GetBySKU(ctx, tenant.ID, sp.sku)
		if err != nil {
			return err
		}
		if p == nil {
			p = &entity.Product{
				ID:              uuid.New().String(),
				TenantID:        tenant.ID,
				SKU:             sp.sku,
				Name:            sp.name,
				Type:            sp.typ,
				BasePrice:       decimal.RequireFromString(sp.price),
				IsFlexiblePrice: sp.flexible,
				MinStock:        entity.DefaultMinStock,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := products.Create(ctx, p); err != nil {
				return fmt.Errorf("producto %s: %w", sp.sku, err)
			}
			log.Info().Str("sku", sp.sku).Msg("producto creado")
		}
		if !p.IsGoods() {
			continue
		}
		inv, err := inventory.Get(ctx, tenant.ID, branch.ID, p.ID)
		if err != nil {
			return err
		}
		if inv != nil {
			continue
		}
		if err := inventory.Create(ctx, &entity.Inventory{
			ID:            uuid.New().String(),
			TenantID:      tenant.ID,
			BranchID:      branch.ID,
			ProductID:     p.ID,
			Qty:           sp.stock,
			MinStockAlert: p.MinStock,
			UpdatedAt:     now,
		}); err != nil {
			return fmt.Errorf("inventario %s: %w", sp.sku, err)
		}
	}

	// Mecánico
	ms, err := mechanics.List(ctx, repository.MechanicFilter{TenantID: tenant.ID})
	if err != nil {
		return err
	}
	for _, m := range ms {
		if m.Name == demoMechanic {
			return nil
		}
	}
	if err := mechanics.Create(ctx, &entity.Mechanic{
		ID:        uuid.New().String(),
		TenantID:  tenant.ID,
		BranchID:  &branch.ID,
		Name:      demoMechanic,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("mecánico: %w", err)
	}
	log.Info().Str("name", demoMechanic).Msg("mecánico creado")
	return nil
}
