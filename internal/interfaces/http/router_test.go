package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bengkel-pos/internal/application/analytics"
	"github.com/jhoicas/bengkel-pos/internal/application/auth"
	"github.com/jhoicas/bengkel-pos/internal/application/dto"
	"github.com/jhoicas/bengkel-pos/internal/application/inventory"
	"github.com/jhoicas/bengkel-pos/internal/application/sales"
	"github.com/jhoicas/bengkel-pos/internal/application/usecase"
	"github.com/jhoicas/bengkel-pos/internal/domain/entity"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/cache"
	"github.com/jhoicas/bengkel-pos/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/bengkel-pos/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	apiTenant  = "11111111-1111-1111-1111-111111111111"
	apiBranch  = "22222222-2222-2222-2222-222222222222"
	apiOil     = "33333333-3333-3333-3333-333333333333"
	apiService = "44444444-4444-4444-4444-444444444444"
	apiPass    = "password123"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	now := time.Now()
	log := zerolog.Nop()

	require.NoError(t, s.Tenants().Create(ctx, &entity.Tenant{ID: apiTenant, BusinessName: "Bengkel Demo", SubscriptionPlan: entity.PlanPro, IsActive: true, CreatedAt: now}))
	require.NoError(t, s.Branches().Create(ctx, &entity.Branch{ID: apiBranch, TenantID: apiTenant, Name: "Cabang Utama", IsActive: true, CreatedAt: now}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: apiOil, TenantID: apiTenant, SKU: "OLI001", Name: "Oli Mesin", Type: entity.ProductTypeGoods, BasePrice: decimal.NewFromInt(50000), MinStock: 2}))
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: apiService, TenantID: apiTenant, SKU: "SVC001", Name: "Servis", Type: entity.ProductTypeService, BasePrice: decimal.NewFromInt(100000)}))
	require.NoError(t, s.Inventory().Create(ctx, &entity.Inventory{ID: "inv-oil", TenantID: apiTenant, BranchID: apiBranch, ProductID: apiOil, Qty: 5, MinStockAlert: 2}))

	hash, err := usecase.HashPassword(apiPass)
	require.NoError(t, err)
	tenantID, branchID := apiTenant, apiBranch
	for _, u := range []entity.User{
		{ID: "u-root", Username: "root", Role: entity.RoleSuperAdmin},
		{ID: "u-owner", Username: "owner", Role: entity.RoleOwner, TenantID: &tenantID},
		{ID: "u-kasir", Username: "kasir", Role: entity.RoleCashier, TenantID: &tenantID, BranchID: &branchID},
		{ID: "u-gudang", Username: "gudang", Role: entity.RoleWarehouse, TenantID: &tenantID},
	} {
		u := u
		u.PasswordHash = hash
		require.NoError(t, s.Users().Create(ctx, &u))
	}

	noCache := cache.NoopProductCache{}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:        auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer}, log),
		TenantUC:      usecase.NewTenantUseCase(s.Tenants(), noCache, log),
		BranchUC:      usecase.NewBranchUseCase(s.Branches()),
		UserUC:        usecase.NewUserUseCase(s.Users(), s.Tenants(), s.Branches()),
		MechanicUC:    usecase.NewMechanicUseCase(s.Mechanics(), s.Branches()),
		ProductUC:     usecase.NewProductUseCase(s.Products(), noCache, log),
		InventoryUC:   usecase.NewInventoryUseCase(s.Inventory(), s.Products(), s.Branches(), log),
		TransactionUC: sales.NewTransactionUseCase(s, s.Transactions(), s.Inventory(), s.Products(), s.Branches(), s.Mechanics(), log),
		DraftUC:       sales.NewDraftUseCase(s, s.Drafts(), s.Transactions(), s.Products(), s.Branches(), s.Mechanics(), log),
		ReturnUC:      sales.NewReturnUseCase(s, s.Returns(), s.Transactions(), log),
		TransferUC:    inventory.NewTransferUseCase(s, s.Inventory(), s.StockTransfers(), s.Products(), s.Branches(), log),
		ReportUC:      analytics.NewReportUseCase(s.Reports(), s.Inventory(), time.UTC, log),
		TenantRepo:    s.Tenants(),
		Storage:       s,
		CacheMode:     "noop",
		JWTSecret:     testJWTSecret,
	})
	return &apiFixture{app: app, store: s}
}

func (a *apiFixture) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out.Bytes()
}

func (a *apiFixture) login(t *testing.T, username string) string {
	t.Helper()
	status, body := a.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: username, Password: apiPass})
	require.Equal(t, http.StatusOK, status, string(body))
	var res dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &res))
	require.NotEmpty(t, res.AccessToken)
	return res.AccessToken
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_Health(t *testing.T) {
	a := newAPI(t)
	status, body := a.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"cache":"noop"`)
}

func TestAPI_LoginFallido(t *testing.T) {
	a := newAPI(t)
	status, body := a.call(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "kasir", Password: "salah"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestAPI_FlujoDeVentaDelCajero(t *testing.T) {
	a := newAPI(t)
	token := a.login(t, "kasir")

	status, body := a.call(t, http.MethodPost, "/api/transactions", token, dto.CreateTransactionRequest{
		Items: []dto.TransactionItemRequest{
			{ProductID: apiOil, Qty: 2, PriceAtMoment: decimal.NewFromInt(50000)},
			{ProductID: apiService, Qty: 1, PriceAtMoment: decimal.NewFromInt(120000)},
		},
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	var txn dto.TransactionResponse
	require.NoError(t, json.Unmarshal(body, &txn))
	assert.Equal(t, apiBranch, txn.BranchID)
	assert.True(t, txn.TotalAmount.Equal(decimal.NewFromInt(220000)))

	status, body = a.call(t, http.MethodPost, "/api/transactions", token, dto.CreateTransactionRequest{
		Items: []dto.TransactionItemRequest{{ProductID: apiOil, Qty: 4, PriceAtMoment: decimal.NewFromInt(50000)}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, body))
	assert.Contains(t, string(body), "Disponible: 3")

	status, body = a.call(t, http.MethodPatch, "/api/transactions/"+txn.ID+"/status", token, dto.UpdateTransactionStatusRequest{Status: entity.TransactionCancelled})
	require.Equal(t, http.StatusOK, status, string(body))

	inv, err := a.store.Inventory().Get(context.Background(), apiTenant, apiBranch, apiOil)
	require.NoError(t, err)
	assert.Equal(t, 5, inv.Qty, "cancelar repone el stock")

	status, body = a.call(t, http.MethodPatch, "/api/transactions/"+txn.ID+"/status", token, dto.UpdateTransactionStatusRequest{Status: entity.TransactionPaid})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "TRANSACTION_CANCELLED", errorCode(t, body))
}

func TestAPI_PermisosPorRol(t *testing.T) {
	a := newAPI(t)
	kasir := a.login(t, "kasir")
	gudang := a.login(t, "gudang")

	status, body := a.call(t, http.MethodGet, "/api/reports/daily", kasir, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	status, _ = a.call(t, http.MethodPost, "/api/transactions", gudang, dto.CreateTransactionRequest{})
	assert.Equal(t, http.StatusForbidden, status, "el almacén no vende")

	status, _ = a.call(t, http.MethodGet, "/api/tenants", a.login(t, "owner"), nil)
	assert.Equal(t, http.StatusForbidden, status, "tenants es exclusivo de SUPERADMIN")

	status, _ = a.call(t, http.MethodGet, "/api/branches", gudang, nil)
	assert.Equal(t, http.StatusForbidden, status, "sucursales: OWNER, MANAGER o CASHIER")

	status, _ = a.call(t, http.MethodGet, "/api/branches/"+apiBranch, kasir, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.call(t, http.MethodGet, "/api/products/scan/OLI001", kasir, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = a.call(t, http.MethodGet, "/api/products/search?q=oli", kasir, nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "OLI001")
}

func TestAPI_SuperAdminNecesitaTenantParaDatosDelNegocio(t *testing.T) {
	a := newAPI(t)
	root := a.login(t, "root")

	status, body := a.call(t, http.MethodGet, "/api/products", root, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer "+root)
	req.Header.Set(apphttp.HeaderTenantID, apiTenant)
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	status, _ = a.call(t, http.MethodGet, "/api/tenants", root, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_TenantInactivoBloquea(t *testing.T) {
	a := newAPI(t)
	owner := a.login(t, "owner")

	tenant, err := a.store.Tenants().GetByID(context.Background(), apiTenant)
	require.NoError(t, err)
	tenant.IsActive = false
	require.NoError(t, a.store.Tenants().Update(context.Background(), tenant))

	status, body := a.call(t, http.MethodGet, "/api/products", owner, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "TENANT_INACTIVE", errorCode(t, body))
}

func TestAPI_TransferenciaMismaSucursal(t *testing.T) {
	a := newAPI(t)
	gudang := a.login(t, "gudang")

	status, body := a.call(t, http.MethodPost, "/api/stock-transfer", gudang, dto.CreateStockTransferRequest{
		ProductID: apiOil, FromBranchID: apiBranch, ToBranchID: apiBranch, Qty: 1,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "SAME_BRANCH", errorCode(t, body))
}
