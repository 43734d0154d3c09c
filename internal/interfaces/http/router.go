package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/inventario-pos/internal/application/auth"
	"github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC    *auth.AuthUseCase
	ProductUC *usecase.ProductUseCase
	StockUC   *inventory.StockUseCase
	ReportUC  *inventory.ReportUseCase
	CatalogUC *usecase.CatalogUseCase
	RoleUC    *usecase.RoleUseCase
	UserUC    *usecase.UserUseCase
	SalesUC   *usecase.SalesUseCase
	Resolvers ResolverSource
	// AuthLimiter nil = rutas públicas sin límite.
	AuthLimiter   *limiter.Limiter
	JWTSecret     string
	SettleTimeout time.Duration
	Log           zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	role := func(roles ...string) fiber.Handler {
		return RequireRole(deps.Resolvers, deps.SettleTimeout, roles...)
	}

	// Auth (público, con rate limit)
	authGroup := api.Group("/auth")
	if deps.AuthLimiter != nil {
		authGroup.Use(RateLimit(deps.AuthLimiter, "auth", deps.Log))
	}
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token y sesión viva)
	protected := api.Group("/", AuthMiddleware(AuthConfig{
		JWTSecret: deps.JWTSecret,
		Sessions:  deps.AuthUC,
		Resolvers: deps.Resolvers,
	}))
	protected.Post("/auth/logout", authHandler.Logout)

	// Session
	sessionHandler := NewSessionHandler(deps.Resolvers, deps.SettleTimeout, deps.Log)
	protected.Get("/session", sessionHandler.Get)
	protected.Post("/session/roles/refresh", sessionHandler.RefreshRoles)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Get("/categories", productHandler.Categories)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", role(entity.RoleManager), productHandler.Create)
	products.Put("/:id", role(entity.RoleManager), productHandler.Update)
	products.Delete("/:id", role(entity.RoleAdmin), productHandler.Delete)

	// Inventory
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReportUC, deps.Log)
	invGroup.Post("/stock", role(entity.RoleManager, entity.RoleSales), inventoryHandler.AddStock)
	invGroup.Get("/low-stock", role(entity.RoleManager), inventoryHandler.LowStock)
	invGroup.Get("/movements", role(entity.RoleManager), inventoryHandler.Movements)

	// Catálogos
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	protected.Get("/stores", catalogHandler.Stores)
	protected.Get("/units", catalogHandler.Units)
	protected.Get("/categories", catalogHandler.Categories)

	// Users y roles
	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC, deps.RoleUC, deps.Log)
	users.Get("/me", userHandler.Me)
	users.Get("/", role(entity.RoleAdmin), userHandler.List)
	users.Post("/roles", role(entity.RoleAdmin), userHandler.AssignRole)
	users.Delete("/roles/:id", role(entity.RoleAdmin), userHandler.RemoveRole)

	// Sales
	sales := protected.Group("/sales", role(entity.RoleManager, entity.RoleViewer))
	salesHandler := NewSalesHandler(deps.SalesUC)
	sales.Get("/top-products", salesHandler.TopProducts)
	sales.Get("/summary", salesHandler.Summary)
}
