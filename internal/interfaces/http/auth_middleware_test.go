package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/bengkel-pos/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/bengkel-pos/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testTenantID  = "00000000-0000-0000-0000-000000000002"
	testBranchID  = "00000000-0000-0000-0000-000000000003"
	testIssuer    = "bengkel-pos-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol indicado en el tenant de prueba.
func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{
		UserID:   testUserID,
		Username: "tester",
		Role:     role,
		TenantID: testTenantID,
		BranchID: testBranchID,
	}, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET a path y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, path, authHeader string, headers ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_OwnerAccedeRutaOwner(t *testing.T) {
	app := buildTestApp("OWNER")
	resp := doRequest(t, app, "/protected", tokenFor(t, "OWNER"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "OWNER", body["role"])
}

func TestRequireRole_CajeroAccedeRutaMultiRol(t *testing.T) {
	app := buildTestApp("OWNER", "MANAGER", "CASHIER")
	resp := doRequest(t, app, "/protected", tokenFor(t, "CASHIER"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CajeroBloqueadoEnRutaOwner(t *testing.T) {
	app := buildTestApp("OWNER")
	resp := doRequest(t, app, "/protected", tokenFor(t, "CASHIER"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireRole_SuperAdminPasaSiempre(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/protected", tokenFor(t, "SUPERADMIN"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "SUPERADMIN está implícitamente permitido")
}

func TestRequireRole_OwnerBloqueadoEnRutaSoloSuperAdmin(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "/protected", tokenFor(t, "OWNER"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("OWNER")
	resp := doRequest(t, app, "/protected", tokenFor(t, ""))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestRequireRole_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("OWNER")
	resp := doRequest(t, app, "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestRequireRole_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("OWNER")
	resp := doRequest(t, app, "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware — extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func claimsApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		a := apphttp.GetActor(c)
		return c.JSON(fiber.Map{
			"user_id":   a.UserID,
			"username":  a.Username,
			"tenant_id": a.TenantID,
			"branch_id": a.BranchID,
			"role":      a.Role,
		})
	})
	return app
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := doRequest(t, claimsApp(), "/me", tokenFor(t, "CASHIER"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "tester", body["username"])
	assert.Equal(t, testTenantID, body["tenant_id"])
	assert.Equal(t, testBranchID, body["branch_id"])
	assert.Equal(t, "CASHIER", body["role"])
}

func TestAuthMiddleware_SuperAdminEligeTenantPorHeader(t *testing.T) {
	other := "00000000-0000-0000-0000-0000000000ff"
	resp := doRequest(t, claimsApp(), "/me", tokenFor(t, "SUPERADMIN"), apphttp.HeaderTenantID, other)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, other, body["tenant_id"])
}

func TestAuthMiddleware_HeaderTenantIgnoradoParaOtrosRoles(t *testing.T) {
	resp := doRequest(t, claimsApp(), "/me", tokenFor(t, "OWNER"), apphttp.HeaderTenantID, "otro-tenant")
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testTenantID, body["tenant_id"], "un OWNER no puede cambiar de tenant")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireActiveTenant
// ──────────────────────────────────────────────────────────────────────────────

type fakeTenants struct {
	active bool
	err    error
}

func (f fakeTenants) IsActive(_ context.Context, _ string) (bool, error) { return f.active, f.err }

func tenantApp(checker fakeTenants) *fiber.App {
	app := fiber.New()
	app.Get("/t",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireActiveTenant(checker),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)
	return app
}

func TestRequireActiveTenant(t *testing.T) {
	tests := []struct {
		name    string
		checker fakeTenants
		role    string
		status  int
	}{
		{"tenant activo", fakeTenants{active: true}, "OWNER", http.StatusOK},
		{"tenant inactivo", fakeTenants{active: false}, "OWNER", http.StatusForbidden},
		{"superadmin exento", fakeTenants{active: false}, "SUPERADMIN", http.StatusOK},
		{"fallo de consulta", fakeTenants{err: errors.New("db caída")}, "CASHIER", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, tenantApp(tt.checker), "/t", tokenFor(t, tt.role))
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
