//go:build integration

package e2e

// End-to-end integration tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./tests/e2e/... -v
//
// Covered flows:
//   - login → barrio context → access resolution → register acta → list
//   - FIN JORNADA terminates the session server-side
//   - a view-only guard cannot register even with a forged request

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"actalibro/internal/config"
	"actalibro/internal/infra"
	"actalibro/internal/metrics"
	"actalibro/internal/model"
	"actalibro/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const demoPassword = "actalibro123"

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	db     *gorm.DB

	barrio *model.Barrio
	garita *model.Puesto
	porton *model.Puesto
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("actalibro_test"),
		tcPostgres.WithUsername("actalibro"),
		tcPostgres.WithPassword("actalibro"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		UploadDir:          t.TempDir(),
		MaxUploadMB:        5,
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	env := &testEnv{db: db}
	seedBase(t, env)

	storage, err := infra.NewAdjuntoStorage(cfg.UploadDir, cfg.MaxUploadMB)
	require.NoError(t, err)

	r := router.New(cfg, db, rdb, storage, metrics.NewRegistry())
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)

	return env
}

func seedBase(t *testing.T, env *testEnv) {
	t.Helper()

	plan := model.Plan{Nombre: "Completo", Precio: decimal.NewFromInt(50), PuedeCrearPuestos: true}
	require.NoError(t, env.db.Create(&plan).Error)

	barrio := model.Barrio{Nombre: "Cadaqués"}
	require.NoError(t, env.db.Create(&barrio).Error)
	env.barrio = &barrio

	garita := model.Puesto{Nombre: "Garita Norte", BarrioID: barrio.ID}
	porton := model.Puesto{Nombre: "Portón de Servicio", BarrioID: barrio.ID}
	require.NoError(t, env.db.Create(&garita).Error)
	require.NoError(t, env.db.Create(&porton).Error)
	env.garita = &garita
	env.porton = &porton

	org := model.Organizacion{Nombre: "Seguridad Cadaqués SL", PlanID: plan.ID}
	require.NoError(t, env.db.Create(&org).Error)

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), 12)
	require.NoError(t, err)
	email := "admin@e2e.test"
	admin := model.Usuario{
		DNI: "11111111", NombreCompleto: "Marta Ferrer", Email: &email,
		PasswordHash: string(hash), Rol: model.RolAdministrador,
		OrganizacionID: org.ID, BarrioAdminID: &barrio.ID, Activo: true,
	}
	require.NoError(t, env.db.Create(&admin).Error)
}

func login(t *testing.T, env *testEnv, dni string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"dni": dni, "password": demoPassword}), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestE2E_RegistroYListado(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env, "11111111")

	// Barrio context
	resp := do(t, env.server, "GET", "/v1/barrios", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var barrios []struct {
		ID     string `json:"id"`
		Nombre string `json:"nombre"`
	}
	decodeJSON(t, resp, &barrios)
	require.Len(t, barrios, 1)

	// Access resolution: the admin sees and edits the whole barrio
	resp = do(t, env.server, "GET", "/v1/barrios/"+env.barrio.ID.String()+"/acceso", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var acceso struct {
		PuestosVisibles  []any `json:"puestos_visibles"`
		PuestosEditables []any `json:"puestos_editables"`
		PuedeRegistrar   bool  `json:"puede_registrar"`
	}
	decodeJSON(t, resp, &acceso)
	assert.Len(t, acceso.PuestosVisibles, 2)
	assert.Len(t, acceso.PuestosEditables, 2)
	assert.True(t, acceso.PuedeRegistrar)

	// Register an acta
	resp = do(t, env.server, "POST", "/v1/actas", jsonBody(t, map[string]any{
		"barrio_id":     env.barrio.ID.String(),
		"puesto_id":     env.garita.ID.String(),
		"clasificacion": "Ronda de Seguridad",
		"cuerpo":        "Perímetro revisado, sin novedades.",
		"fecha_evento":  "2026-08-30",
		"hora_evento":   "22:15",
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var creada struct {
		Acta            map[string]any `json:"acta"`
		SesionTerminada bool           `json:"sesion_terminada"`
	}
	decodeJSON(t, resp, &creada)
	assert.False(t, creada.SesionTerminada)

	// List it back
	resp = do(t, env.server, "GET",
		"/v1/actas?barrio_id="+env.barrio.ID.String()+"&puesto_id="+env.garita.ID.String(), nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listado struct {
		Actas []map[string]any `json:"actas"`
		Total int64            `json:"total"`
	}
	decodeJSON(t, resp, &listado)
	assert.Equal(t, int64(1), listado.Total)
}

func TestE2E_FinJornadaTerminaSesion(t *testing.T) {
	env := setupTestEnv(t)
	token := login(t, env, "11111111")

	resp := do(t, env.server, "POST", "/v1/actas", jsonBody(t, map[string]any{
		"barrio_id":     env.barrio.ID.String(),
		"puesto_id":     env.garita.ID.String(),
		"clasificacion": "FIN JORNADA",
		"cuerpo":        "Fin del turno de noche, relevo entregado.",
		"fecha_evento":  "2026-08-30",
		"hora_evento":   "06:00",
	}), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var creada struct {
		SesionTerminada bool `json:"sesion_terminada"`
	}
	decodeJSON(t, resp, &creada)
	assert.True(t, creada.SesionTerminada)

	// The token is dead from the next request on
	resp = do(t, env.server, "GET", "/v1/auth/me", nil, token)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestE2E_GuardiaSoloLecturaNoRegistra(t *testing.T) {
	env := setupTestEnv(t)
	adminToken := login(t, env, "11111111")

	// Admin creates a guard with view-only access on the portón
	resp := do(t, env.server, "POST", "/v1/usuarios", jsonBody(t, map[string]any{
		"dni":             "22222222",
		"nombre_completo": "Jordi Puig",
		"password":        demoPassword,
		"permisos": []map[string]any{
			{"puesto_id": env.porton.ID.String(), "puede_ver": true, "puede_editar": false},
		},
	}), adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	guardToken := login(t, env, "22222222")

	// Forged request straight at the API — must be refused server-side
	resp = do(t, env.server, "POST", "/v1/actas", jsonBody(t, map[string]any{
		"barrio_id":     env.barrio.ID.String(),
		"puesto_id":     env.porton.ID.String(),
		"clasificacion": "Ronda de Seguridad",
		"cuerpo":        "Este registro no debería existir.",
		"fecha_evento":  "2026-08-30",
		"hora_evento":   "12:00",
	}), guardToken)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
