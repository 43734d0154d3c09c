package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jhoicas/inventario-pos/internal/application/auth"
	"github.com/jhoicas/inventario-pos/internal/application/inventory"
	"github.com/jhoicas/inventario-pos/internal/application/session"
	"github.com/jhoicas/inventario-pos/internal/application/usecase"
	"github.com/jhoicas/inventario-pos/internal/domain/repository"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/eventbus"
	infmemory "github.com/jhoicas/inventario-pos/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-pos/internal/infrastructure/redisstore"
	httpRouter "github.com/jhoicas/inventario-pos/internal/interfaces/http"
	"github.com/jhoicas/inventario-pos/pkg/config"
	"github.com/jhoicas/inventario-pos/pkg/logger"
	"github.com/jhoicas/inventario-pos/pkg/retry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Redis es opcional: sin REDIS_ADDR se usan sesiones y rate limit en memoria.
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redisstore.NewClient(ctx, cfg.Redis, log.Component("redis"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	txRunner := postgres.NewTxRunner(pool, log.Component("postgres"))

	var (
		storeRepo    repository.StoreRepository    = postgres.NewStoreRepository(pool)
		unitRepo     repository.UnitRepository     = postgres.NewUnitRepository(pool)
		categoryRepo repository.CategoryRepository = postgres.NewCategoryRepository(pool)
		sessionRepo  repository.SessionRepository  = infmemory.NewSessionStore()
		limiterStore limiter.Store                 = memory.NewStore()
	)
	if rdb != nil {
		cache := redisstore.NewCatalogCache(rdb, cfg.Redis.CacheTTL(), log.Component("catalog_cache"))
		// Los catálogos se editan directo en la BD; al arrancar se descarta lo cacheado.
		if err := cache.Invalidate(ctx); err != nil {
			log.Warn().Err(err).Msg("invalidar caché de catálogo")
		}
		storeRepo = cache.Stores(storeRepo)
		unitRepo = cache.Units(unitRepo)
		categoryRepo = cache.Categories(categoryRepo)
		sessionRepo = redisstore.NewSessionStore(rdb)
		limiterStore, err = redisstore.NewLimiterStore(rdb)
		if err != nil {
			log.Fatal().Err(err).Msg("store del rate limiter")
		}
	}

	authLimiter, err := httpRouter.NewLimiter(limiterStore, cfg.RateLimit.Auth)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.RateLimit.Auth).Msg("RATE_LIMIT_AUTH inválido")
	}

	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	catalogUC := usecase.NewCatalogUseCase(storeRepo, unitRepo, categoryRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	salesUC := usecase.NewSalesUseCase(salesRepo)
	stockUC := inventory.NewStockUseCase(txRunner, storeRepo)
	reportUC := inventory.NewReportUseCase(inventoryRepo, movementRepo)

	// Registro de sesiones: consulta roles con RoleUseCase y verifica sesiones con AuthUseCase,
	// y ambos le avisan de vuelta, así que se enlazan en dos pasos.
	bus := eventbus.New(log.Component("eventbus"), 16)
	roleUC := usecase.NewRoleUseCase(roleRepo, userRepo, nil)
	authUC := auth.NewAuthUseCase(userRepo, sessionRepo, nil, auth.JWTConfig{
		Secret:            cfg.JWT.Secret,
		ExpMinutes:        cfg.JWT.Expiration,
		RefreshExpMinutes: cfg.JWT.RefreshExpiration,
		Issuer:            cfg.JWT.Issuer,
	}, log.Component("auth"))
	registry := session.NewRegistry(
		roleUC, authUC, bus,
		retry.Fixed(cfg.Roles.MaxAttempts, cfg.Roles.RetryDelay()),
		log.Component("session"),
	)
	authUC.SetEvents(registry)
	roleUC.SetUpdateNotifier(registry)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario POS API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "sessions": registry.Len()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		StockUC:       stockUC,
		ReportUC:      reportUC,
		CatalogUC:     catalogUC,
		RoleUC:        roleUC,
		UserUC:        userUC,
		SalesUC:       salesUC,
		Resolvers:     registry,
		AuthLimiter:   authLimiter,
		JWTSecret:     cfg.JWT.Secret,
		SettleTimeout: cfg.Roles.SettleTimeout(),
		Log:           log.Component("http"),
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
	registry.CloseAll()
	bus.Close()

	log.Info().Msg("aplicación detenida")
}
