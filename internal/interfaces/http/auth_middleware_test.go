package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/inventario-ledger/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testBranchID  = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "inventario-ledger-test"
	testExpMin    = 60
)

func signedToken(t *testing.T, secret string, id pkgjwt.Identity, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, id, testIssuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole genera un JWT de la sucursal de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return signedToken(t, testJWTSecret, pkgjwt.Identity{UserID: testUserID, BranchID: testBranchID, Role: role}, testExpMin)
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	code, _ := body["code"].(string)
	return code
}

// ──────────────────────────────────────────────────────────────────────────────
// Matriz de roles sobre las rutas reales del ledger
// ──────────────────────────────────────────────────────────────────────────────

func TestRoles_MatrizPorRuta(t *testing.T) {
	app := newAPI(t)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"bodeguero consulta bodegas", http.MethodGet, "/api/warehouses", apphttp.RoleBodeguero, fiber.StatusOK},
		{"bodeguero no crea bodegas", http.MethodPost, "/api/warehouses", apphttp.RoleBodeguero, fiber.StatusForbidden},
		{"bodeguero consulta diario", http.MethodGet, "/api/inventory/movements", apphttp.RoleBodeguero, fiber.StatusOK},
		{"bodeguero no ve aprobaciones", http.MethodGet, "/api/approvals", apphttp.RoleBodeguero, fiber.StatusForbidden},
		{"supervisor ve aprobaciones", http.MethodGet, "/api/approvals", apphttp.RoleSupervisor, fiber.StatusOK},
		{"admin ve aprobaciones", http.MethodGet, "/api/approvals", apphttp.RoleAdmin, fiber.StatusOK},
		{"supervisor aprueba solicitud inexistente", http.MethodPost, "/api/approvals/no-existe/approve", apphttp.RoleSupervisor, fiber.StatusNotFound},
		{"bodeguero no revierte ajustes", http.MethodPost, "/api/inventory/adjustments/no-existe/reverse", apphttp.RoleBodeguero, fiber.StatusForbidden},
		{"supervisor postea en lote", http.MethodPost, "/api/inventory/adjustments/mass-post", apphttp.RoleSupervisor, fiber.StatusOK},
		{"rol desconocido", http.MethodGet, "/api/inventory/movements", "cajero", fiber.StatusForbidden},
		{"rol en mayúsculas", http.MethodGet, "/api/approvals", "SUPERVISOR", fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := call(t, app, tc.method, tc.path, tc.role, nil)
			assert.Equal(t, tc.want, resp.StatusCode, body)
			if tc.want == fiber.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", body["code"])
			}
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Token: ausente, malformado, vencido, otra firma, sin rol
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	app := newAPI(t)
	valid := pkgjwt.Identity{UserID: testUserID, BranchID: testBranchID, Role: apphttp.RoleAdmin}

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"vencido", signedToken(t, testJWTSecret, valid, -5), "INVALID_TOKEN"},
		{"otra firma", signedToken(t, "otro-secreto", valid, testExpMin), "INVALID_TOKEN"},
		{"sin rol", signedToken(t, testJWTSecret, pkgjwt.Identity{UserID: testUserID, BranchID: testBranchID}, testExpMin), "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/inventory/movements", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}
}

func TestAuthMiddleware_EsquemaSinDistinguirMayusculas(t *testing.T) {
	app := newAPI(t)
	tok, err := pkgjwt.Generate(testJWTSecret, pkgjwt.Identity{UserID: testUserID, BranchID: testBranchID, Role: apphttp.RoleBodeguero}, testIssuer, testExpMin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/warehouses", nil)
	req.Header.Set("Authorization", "bearer "+tok)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// La identidad del token llega a los documentos: el ajuste toma la sucursal de la bodega
// y queda a nombre del usuario del token.
func TestAuthMiddleware_IdentidadLlegaAlDocumento(t *testing.T) {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodPost, "/api/inventory/adjustments", apphttp.RoleBodeguero, map[string]any{
		"warehouse_id": apiWarehouse,
		"reason":       "Conteo",
		"items":        []map[string]any{{"product_id": apiProduct, "quantity": "1", "type": "RELATIVE"}},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body)
	assert.Equal(t, testUserID, body["created_by_id"])
	assert.Equal(t, testBranchID, body["branch_id"])
}

func TestAuthMiddleware_ExponeIdentidadEnLocals(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequireRole(apphttp.RoleSupervisor), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":   apphttp.GetUserID(c),
			"branch_id": apphttp.GetBranchID(c),
			"role":      apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, apphttp.RoleSupervisor))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testBranchID, body["branch_id"])
	assert.Equal(t, apphttp.RoleSupervisor, body["role"])
}
