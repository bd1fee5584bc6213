package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/bengkel-pos/internal/application/analytics"
	"github.com/jhoicas/bengkel-pos/internal/application/auth"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/cache"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/memory"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/scheduler"
	httpRouter "github.com/jhoicas/bengkel-pos/internal/interfaces/http"
	"github.com/jhoicas/bengkel-pos/pkg/config"
	"github.com/jhoicas/bengkel-pos/pkg/logger"
	"github.com/jhoicas/bengkel-pos/pkg/metrics"
)

// txRunner une los dos puertos transaccionales; lo cumplen postgres.TxRunner y memory.Store.
type txRunner interface {
	inventory.TxRunner
	sales.TxRunner
}

// storage repositorios del driver elegido.
type storage struct {
	tenants      repository.TenantRepository
	branches     repository.BranchRepository
	users        repository.UserRepository
	mechanics    repository.MechanicRepository
	products     repository.ProductRepository
	inventory    repository.InventoryRepository
	transactions repository.TransactionRepository
	returns      repository.ReturnRepository
	drafts       repository.DraftTransactionRepository
	transfers    repository.StockTransferRepository
	reports      repository.ReportRepository
	tx           txRunner
	pinger       httpRouter.Pinger
	close        func()
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) storage {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		log.Warn().Msg("STORAGE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.New()
		return storage{
			tenants:      s.Tenants(),
			branches:     s.Branches(),
			users:        s.Users(),
			mechanics:    s.Mechanics(),
			products:     s.Products(),
			inventory:    s.Inventory(),
			transactions: s.Transactions(),
			returns:      s.Returns(),
			drafts:       s.Drafts(),
			transfers:    s.StockTransfers(),
			reports:      s.Reports(),
			tx:           s,
			pinger:       s,
			close:        func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	return storage{
		tenants:      postgres.NewTenantRepository(pool),
		branches:     postgres.NewBranchRepository(pool),
		users:        postgres.NewUserRepository(pool),
		mechanics:    postgres.NewMechanicRepository(pool),
		products:     postgres.NewProductRepository(pool),
		inventory:    postgres.NewInventoryRepository(pool),
		transactions: postgres.NewTransactionRepository(pool),
		returns:      postgres.NewReturnRepository(pool),
		drafts:       postgres.NewDraftRepository(pool),
		transfers:    postgres.NewStockTransferRepository(pool),
		reports:      postgres.NewReportRepository(pool),
		tx:           postgres.NewTxRunner(pool),
		pinger:       pool,
		close:        pool.Close,
	}
}

// openCache Redis si REDIS_ADDR está definido y responde; si no, caché noop.
func openCache(ctx context.Context, cfg config.RedisConfig, log *logger.Logger) (repository.ProductCache, string, func()) {
	if cfg.Addr == "" {
		log.Info().Msg("REDIS_ADDR vacío: caché de productos deshabilitada")
		return cache.NoopProductCache{}, "noop", func() {}
	}
	rc := cache.NewRedisProductCache(cfg.Addr, cfg.Password, cfg.DB, time.Duration(cfg.ProductCacheTTL)*time.Second)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Addr).Msg("Redis no responde: caché de productos deshabilitada")
		_ = rc.Close()
		return cache.NoopProductCache{}, "noop", func() {}
	}
	return rc, "redis", func() { _ = rc.Close() }
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("zona horaria")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Str("timezone", loc.String()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store := openStorage(ctx, cfg, log)
	defer store.close()

	productCache, cacheMode, closeCache := openCache(ctx, cfg.Redis, log)
	defer closeCache()

	metrics.Register()

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))
	tenantUC := usecase.NewTenantUseCase(store.tenants, productCache, log.Component("tenants"))
	branchUC := usecase.NewBranchUseCase(store.branches)
	userUC := usecase.NewUserUseCase(store.users, store.tenants, store.branches)
	mechanicUC := usecase.NewMechanicUseCase(store.mechanics, store.branches)
	productUC := usecase.NewProductUseCase(store.products, productCache, log.Component("products"))
	inventoryUC := usecase.NewInventoryUseCase(store.inventory, store.products, store.branches, log.Component("inventory"))
	transactionUC := sales.NewTransactionUseCase(
		store.tx, store.transactions, store.inventory, store.products, store.branches, store.mechanics,
		log.Component("transactions"),
	)
	draftUC := sales.NewDraftUseCase(
		store.tx, store.drafts, store.transactions, store.products, store.branches, store.mechanics,
		log.Component("drafts"),
	)
	returnUC := sales.NewReturnUseCase(store.tx, store.returns, store.transactions, log.Component("returns"))
	transferUC := inventory.NewTransferUseCase(
		store.tx, store.inventory, store.transfers, store.products, store.branches,
		log.Component("stock_transfer"),
	)
	reportUC := analytics.NewReportUseCase(store.reports, store.inventory, loc, log.Component("reports"))

	if cfg.Scheduler.Enabled {
		scanner := scheduler.NewLowStockScanner(store.tenants, store.inventory, log.Component("scheduler"))
		sched, err := scheduler.Start(cfg.Scheduler.LowStockScanCron, loc, scanner)
		if err != nil {
			log.Fatal().Err(err).Msg("scheduler")
		}
		defer sched.Stop()
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(httpRouter.MetricsMiddleware())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bengkel POS API",
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		TenantUC:      tenantUC,
		BranchUC:      branchUC,
		UserUC:        userUC,
		MechanicUC:    mechanicUC,
		ProductUC:     productUC,
		InventoryUC:   inventoryUC,
		TransactionUC: transactionUC,
		DraftUC:       draftUC,
		ReturnUC:      returnUC,
		TransferUC:    transferUC,
		ReportUC:      reportUC,
		TenantRepo:    store.tenants,
		Storage:       store.pinger,
		CacheMode:     cacheMode,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
