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

	"github.com/jhoicas/Pintureria-api/internal/application/analytics"
	"github.com/jhoicas/Pintureria-api/internal/application/auth"
	"github.com/jhoicas/Pintureria-api/internal/application/inventory"
	"github.com/jhoicas/Pintureria-api/internal/application/usecase"
	"github.com/jhoicas/Pintureria-api/internal/domain/repository"
	infracache "github.com/jhoicas/Pintureria-api/internal/infrastructure/cache"
	"github.com/jhoicas/Pintureria-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/Pintureria-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pintureria-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pintureria-api/internal/interfaces/http"
	"github.com/jhoicas/Pintureria-api/pkg/config"
	"github.com/jhoicas/Pintureria-api/pkg/logger"
)

// backend agrupa los repositorios y el TxRunner del almacenamiento elegido.
type backend struct {
	movements    repository.StockMovementRepository
	transactions repository.TransactionRepository
	products     repository.ProductRepository
	users        repository.UserRepository
	txRunner     inventory.TxRunner
	close        func()
}

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
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Backend de almacenamiento: PostgreSQL en producción, memoria en modo
	// demo. Se elige solo por configuración explícita.
	var be backend
	switch cfg.App.StorageDriver {
	case config.StorageDriverMemory:
		store := memory.NewStore()
		be = backend{
			movements:    store.Movements(),
			transactions: store.Transactions(),
			products:     store.Products(),
			users:        store.Users(),
			txRunner:     memory.NewTxRunner(store),
			close:        func() {},
		}
		log.Warn().Msg("backend en memoria: los datos se pierden al apagar el proceso")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		be = backend{
			movements:    postgres.NewStockMovementRepository(pool),
			transactions: postgres.NewTransactionRepository(pool),
			products:     postgres.NewProductRepository(pool),
			users:        postgres.NewUserRepository(pool),
			txRunner:     postgres.NewTxRunner(pool),
			close:        pool.Close,
		}
	}
	defer be.close()

	// Caché Redis opcional para el resumen del dashboard.
	var summaryCache *infracache.RedisCache
	if cfg.Redis.Addr != "" {
		summaryCache, err = infracache.NewRedisCache(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer summaryCache.Close()
	}
	// Interfaces con nil tipado explícito: un *RedisCache nil dentro de una
	// interfaz no sería nil para los casos de uso.
	var invalidator inventory.LevelsInvalidator
	var dashCache analytics.SummaryCache
	if summaryCache != nil {
		invalidator = summaryCache
		dashCache = summaryCache
	}

	createTransactionUC := inventory.NewCreateTransactionUseCase(be.txRunner, invalidator)
	transactionQueryUC := inventory.NewTransactionQueryUseCase(be.transactions, be.movements)
	stockQueryUC := inventory.NewStockQueryUseCase(be.movements, be.products)
	productUC := usecase.NewProductUseCase(be.products, be.movements)
	dashboardUC := analytics.NewDashboardUseCase(be.products, be.movements, dashCache)
	authUC := auth.NewAuthUseCase(be.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	kardexPDF := infrapdf.NewMarotoKardexGenerator()

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
		Title:    "Pinturería Stock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:         productUC,
		CreateTransaction: createTransactionUC,
		TransactionQuery:  transactionQueryUC,
		StockQuery:        stockQueryUC,
		KardexPDF:         kardexPDF,
		DashboardUC:       dashboardUC,
		AuthUC:            authUC,
		JWTSecret:         cfg.JWT.Secret,
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
