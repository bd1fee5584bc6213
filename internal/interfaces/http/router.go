package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/bengkel-pos/internal/application/analytics"
	"github.com/jhoicas/bengkel-pos/internal/application/auth"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
	"github.com/jhoicas/bengkel-pos/internal/domain/repository"
)

// Pinger verifica que el almacenamiento responde.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	TenantUC      *usecase.TenantUseCase
	BranchUC      *usecase.BranchUseCase
	UserUC        *usecase.UserUseCase
	MechanicUC    *usecase.MechanicUseCase
	ProductUC     *usecase.ProductUseCase
	InventoryUC   *usecase.InventoryUseCase
	TransactionUC *sales.TransactionUseCase
	DraftUC       *sales.DraftUseCase
	ReturnUC      *sales.ReturnUseCase
	TransferUC    *inventory.TransferUseCase
	ReportUC      *analytics.ReportUseCase
	TenantRepo    repository.TenantRepository
	Storage       Pinger
	CacheMode     string // redis | noop
	JWTSecret     string
}

// Roles abreviados para las rutas.
const (
	owner     = "OWNER"
	manager   = "MANAGER"
	cashier   = "CASHIER"
	warehouse = "WAREHOUSE"
)

// Router registra las rutas de la API. SUPERADMIN pasa todos los RequireRole.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Storage, deps.CacheMode))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (Bearer Token + tenant activo)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RequireActiveTenant(deps.TenantRepo))
	protected.Get("/auth/me", authHandler.Me)

	// Tenants (solo SUPERADMIN)
	tenants := protected.Group("/tenants", RequireRole())
	tenantHandler := NewTenantHandler(deps.TenantUC)
	tenants.Post("/", tenantHandler.Create)
	tenants.Get("/", tenantHandler.List)
	tenants.Get("/:id", tenantHandler.GetByID)
	tenants.Patch("/:id", tenantHandler.Update)
	tenants.Delete("/:id", tenantHandler.Delete)

	// Branches
	branches := protected.Group("/branches")
	branchHandler := NewBranchHandler(deps.BranchUC)
	branches.Post("/", RequireRole(owner), branchHandler.Create)
	branches.Get("/", RequireRole(owner, manager, cashier), branchHandler.List)
	branches.Get("/:id", RequireRole(owner, manager, cashier), branchHandler.GetByID)
	branches.Patch("/:id", RequireRole(owner, manager), branchHandler.Update)
	branches.Delete("/:id", RequireRole(owner), branchHandler.Delete)

	// Users
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", RequireRole(owner), userHandler.Create)
	users.Get("/", RequireRole(owner, manager), userHandler.List)
	users.Get("/:id", RequireRole(owner, manager), userHandler.GetByID)
	users.Patch("/:id", RequireRole(owner), userHandler.Update)
	users.Delete("/:id", RequireRole(owner), userHandler.Delete)

	// Mechanics
	mechanics := protected.Group("/mechanics")
	mechanicHandler := NewMechanicHandler(deps.MechanicUC)
	mechanics.Post("/", RequireRole(owner, manager), mechanicHandler.Create)
	mechanics.Get("/", RequireRole(owner, manager, cashier), mechanicHandler.List)
	mechanics.Get("/:id", RequireRole(owner, manager, cashier), mechanicHandler.GetByID)
	mechanics.Patch("/:id", RequireRole(owner, manager), mechanicHandler.Update)
	mechanics.Delete("/:id", RequireRole(owner, manager), mechanicHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	anyStaff := RequireRole(owner, manager, cashier, warehouse)
	products.Get("/search", anyStaff, productHandler.Search)
	products.Get("/scan/:sku", anyStaff, productHandler.Scan)
	products.Post("/", RequireRole(owner, manager), productHandler.Create)
	products.Get("/", anyStaff, productHandler.List)
	products.Get("/:id", anyStaff, productHandler.GetByID)
	products.Patch("/:id", RequireRole(owner, manager), productHandler.Update)
	products.Delete("/:id", RequireRole(owner, manager), productHandler.Delete)

	// Inventory
	inv := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	inv.Get("/low-stock", anyStaff, inventoryHandler.LowStock)
	inv.Post("/", RequireRole(owner, manager, warehouse), inventoryHandler.Create)
	inv.Get("/", anyStaff, inventoryHandler.List)
	inv.Get("/:id", anyStaff, inventoryHandler.GetByID)
	inv.Patch("/:id", RequireRole(owner, manager, warehouse), inventoryHandler.Adjust)

	// Transactions
	pos := RequireRole(owner, manager, cashier)
	txs := protected.Group("/transactions", pos)
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	txs.Post("/", transactionHandler.Create)
	txs.Get("/", transactionHandler.List)
	txs.Get("/:id", transactionHandler.GetByID)
	txs.Patch("/:id/status", transactionHandler.UpdateStatus)

	// Draft transactions
	drafts := protected.Group("/draft-transactions", pos)
	draftHandler := NewDraftHandler(deps.DraftUC)
	drafts.Post("/", draftHandler.Create)
	drafts.Get("/", draftHandler.List)
	drafts.Get("/:id", draftHandler.GetByID)
	drafts.Put("/:id", draftHandler.Update)
	drafts.Delete("/:id", draftHandler.Delete)
	drafts.Post("/:id/convert", draftHandler.Convert)

	// Returns
	returns := protected.Group("/returns")
	returnHandler := NewReturnHandler(deps.ReturnUC)
	returns.Post("/", pos, returnHandler.Create)
	returns.Get("/", RequireRole(owner, manager), returnHandler.List)
	returns.Get("/by-transaction/:transactionId", pos, returnHandler.ByTransaction)

	// Stock transfer
	transfers := protected.Group("/stock-transfer", RequireRole(owner, manager, warehouse))
	transferHandler := NewStockTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)

	// Reports
	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.ReportUC)
	management := RequireRole(owner, manager)
	reports.Get("/daily", management, reportHandler.Daily)
	reports.Get("/mechanic-commission", management, reportHandler.MechanicCommission)
	reports.Get("/top-products", management, reportHandler.TopProducts)
	reports.Get("/vehicle-history/:plate", pos, reportHandler.VehicleHistory)
	reports.Get("/low-stock", management, reportHandler.LowStock)
	reports.Get("/dashboard", management, reportHandler.Dashboard)
}

// healthHandler responde 200 si el almacenamiento responde, 503 si no.
func healthHandler(storage Pinger, cacheMode string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if storage != nil {
			if err := storage.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "storage": err.Error(), "cache": cacheMode})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "cache": cacheMode})
	}
}
