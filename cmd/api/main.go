package main

import (
	"context"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/approval"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/cache"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/events"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventario-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// persistence puertos resueltos según STORAGE_DRIVER.
type persistence struct {
	txRunner   inventory.TxRunner
	repos      inventory.TxRepos
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	levels     repository.InventoryLevelRepository
	audit      repository.AuditLogRepository
	close      func()
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
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar persistencia")
	}
	defer store.close()

	// Catálogo: Redis delante del repositorio si REDIS_ADDR está definido
	var (
		catalog     inventory.Catalog = inventory.RepositoryCatalog{Products: store.products}
		invalidator usecase.CatalogInvalidator
	)
	if cfg.Redis.Addr != "" {
		client := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no responde; el catálogo seguirá intentando")
		}
		redisCatalog := cache.NewRedisCatalog(client, catalog, time.Duration(cfg.Redis.CatalogTTLSeconds)*time.Second, log.Component("catalog-cache"))
		catalog = redisCatalog
		invalidator = redisCatalog
	}

	// Eventos de posteo: Kafka si hay brokers, log en otro caso
	var publisher inventory.EventPublisher = events.NewLogPublisher(log.Component("events"))
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(events.KafkaConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			Acks:    cfg.Kafka.Acks,
			Retries: cfg.Kafka.Retries,
		}, log.Component("kafka"))
		if err != nil {
			log.Fatal().Err(err).Msg("productor Kafka")
		}
		defer kafka.Close()
		publisher = kafka
	}

	var (
		postingMetrics inventory.PostingMetrics
		metricsHandler nethttp.Handler
	)
	if cfg.Metrics.Enabled {
		m := metrics.NewPostingMetrics(cfg.Metrics.Namespace)
		postingMetrics = m
		metricsHandler = m.Handler()
	}

	var policy inventory.ApprovalPolicy
	if len(cfg.Approval.RequiredKinds) > 0 {
		policy = approval.NewThresholdPolicy(cfg.Approval.RequiredKinds, cfg.Approval.QuantityThreshold)
	}

	// Comprobantes PDF; se archivan en S3 si S3_BUCKET está definido
	var archiver inventory.SlipArchiver
	if cfg.S3.Bucket != "" {
		s3, err := storage.NewS3Archiver(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			PathStyle:       cfg.S3.PathStyle,
			Prefix:          cfg.S3.Prefix,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("archivo S3")
		}
		archiver = s3
	}
	slips := inventory.NewSlipService(infrapdf.NewMarotoSlipGenerator(), archiver, store.repos, catalog, log.Component("slips"))

	deps := inventory.Dependencies{
		TxRunner:   store.txRunner,
		Repos:      store.repos,
		Catalog:    catalog,
		Warehouses: store.warehouses,
		Ledger:     inventory.NewLedger(cfg.Inventory.AllowNegativeStock),
		Policy:     policy,
		Events:     publisher,
		Metrics:    postingMetrics,
		Audit:      store.audit,
		Slips:      slips,
		Logger:     log.Component("inventory"),
	}
	approvalUC := inventory.NewApprovalUseCase(deps)
	deps.Approvals = approvalUC
	adjustmentUC := inventory.NewAdjustmentUseCase(deps)
	transferUC := inventory.NewTransferUseCase(deps)
	approvalUC.Bind(adjustmentUC, transferUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en /docs cuando HTTP_SWAGGER_PATH apunta a un swagger.json
	if cfg.HTTP.SwaggerPath != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Inventario Ledger API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:      usecase.NewWarehouseUseCase(store.warehouses),
		ProductUC:        usecase.NewProductUseCase(store.products, invalidator, log.Component("catalog")),
		RegisterMovement: inventory.NewRegisterMovementUseCase(deps),
		Query:            inventory.NewQueryUseCase(deps),
		Replenishment:    inventory.NewReplenishmentUseCase(store.levels),
		Adjustments:      adjustmentUC,
		Transfers:        transferUC,
		Approvals:        approvalUC,
		Slips:            slips,
		MetricsHandler:   metricsHandler,
		JWTSecret:        cfg.JWT.Secret,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*persistence, error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn().Msg("persistencia en memoria: los datos se pierden al reiniciar")
		store := memory.NewStore()
		return &persistence{
			txRunner:   store,
			repos:      store.Repos(),
			products:   store.Products(),
			warehouses: store.Warehouses(),
			levels:     store.Levels(),
			audit:      store.AuditLogs(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Msg("esquema de base de datos aplicado")
	}
	return &persistence{
		txRunner:   postgres.NewTxRunner(pool),
		repos:      postgres.NewRepos(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		levels:     postgres.NewInventoryLevelRepository(pool),
		audit:      postgres.NewAuditLogRepository(pool),
		close:      pool.Close,
	}, nil
}
