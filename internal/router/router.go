package router

import (
	"time"

	"actalibro/internal/config"
	"actalibro/internal/handler"
	"actalibro/internal/infra"
	"actalibro/internal/metrics"
	"actalibro/internal/middleware"
	"actalibro/internal/model"
	"actalibro/internal/repository"
	"actalibro/internal/service"
	"actalibro/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, storage *infra.AdjuntoStorage, reg *metrics.Registry) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics(reg))
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	sesiones := infra.NewSessionStore(rdb)
	catalogo := cache.New(30*time.Second, time.Minute)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	barrioRepo := repository.NewBarrioRepository(db)
	permisoRepo := repository.NewPermisoRepository(db)
	actaRepo := repository.NewActaRepository(db)
	orgRepo := repository.NewOrganizacionRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	accesoSvc := service.NewAccesoService(barrioRepo, permisoRepo, catalogo)
	authSvc := service.NewAuthService(usuarioRepo, accesoSvc, sesiones, cfg)
	usuarioSvc := service.NewUsuarioService(usuarioRepo, permisoRepo, barrioRepo, actaRepo)
	puestoSvc := service.NewPuestoService(barrioRepo, orgRepo, actaRepo, catalogo)
	orgSvc := service.NewOrganizacionService(orgRepo, barrioRepo)
	exportSvc := service.NewExportService(actaRepo, barrioRepo, accesoSvc)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	actaSvc := service.NewActaService(actaRepo, barrioRepo, usuarioRepo, accesoSvc, sesiones, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, reg)
	actasH := handler.NewActasHandler(actaSvc, reg)
	adjuntosH := handler.NewAdjuntosHandler(storage, actaSvc)
	usuariosH := handler.NewUsuariosHandler(usuarioSvc)
	barriosH := handler.NewBarriosHandler(accesoSvc)
	puestosH := handler.NewPuestosHandler(puestoSvc)
	orgsH := handler.NewOrganizacionesHandler(orgSvc)
	exportH := handler.NewExportHandler(exportSvc, reg)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret, sesiones)
	userMW := middleware.CargarUsuario(usuarioRepo)
	v1 := r.Group("/v1", jwtMW, userMW)
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.PUT("/auth/password", authH.CambiarPassword)
		v1.GET("/auth/me", authH.Me)

		// Barrio context and access resolution — any authenticated role; the
		// resolver itself decides what each user sees.
		v1.GET("/barrios", barriosH.Listar)
		v1.GET("/barrios/:id/acceso", barriosH.Acceso)

		// Ledger
		v1.POST("/actas", actasH.Registrar)
		v1.GET("/actas", actasH.Listar)
		v1.GET("/actas/clasificaciones", actasH.Clasificaciones)
		v1.GET("/actas/export/pdf", exportH.PDF)
		v1.GET("/actas/export/xlsx", exportH.XLSX)

		// Attachments
		v1.POST("/adjuntos", adjuntosH.Subir)
		v1.GET("/adjuntos/:archivo", adjuntosH.Descargar)

		// Per-barrio administration
		adminMW := middleware.RequireRol(string(model.RolAdministrador), string(model.RolSuperAdmin))
		usuarios := v1.Group("/usuarios", adminMW)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Eliminar)
		}
		v1.GET("/barrios/:id/puestos", adminMW, puestosH.Listar)
		v1.POST("/barrios/:id/puestos", adminMW, puestosH.Crear)
		v1.PUT("/puestos/:id", adminMW, puestosH.Renombrar)
		v1.DELETE("/puestos/:id", adminMW, puestosH.Eliminar)

		// Super-admin provisioning panel
		superMW := middleware.RequireRol(string(model.RolSuperAdmin))
		orgs := v1.Group("/organizaciones", superMW)
		{
			orgs.POST("", orgsH.Crear)
			orgs.GET("", orgsH.Listar)
			orgs.POST("/barrios", orgsH.CrearBarrio)
		}
		v1.GET("/planes", superMW, orgsH.ListarPlanes)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
