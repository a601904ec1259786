package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	appanalytics "github.com/umkmhub/umkm-api/internal/application/analytics"
	"github.com/umkmhub/umkm-api/internal/application/auth"
	"github.com/umkmhub/umkm-api/internal/application/backup"
	"github.com/umkmhub/umkm-api/internal/application/dto"
	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/application/ports"
	"github.com/umkmhub/umkm-api/internal/application/sales"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	infraai "github.com/umkmhub/umkm-api/internal/infrastructure/ai"
	"github.com/umkmhub/umkm-api/internal/infrastructure/export"
	"github.com/umkmhub/umkm-api/internal/infrastructure/postgres"
	httpRouter "github.com/umkmhub/umkm-api/internal/interfaces/http"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/internal/scheduler"
	"github.com/umkmhub/umkm-api/pkg/config"
	"github.com/umkmhub/umkm-api/pkg/logger"
	"github.com/umkmhub/umkm-api/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

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
		Str("ai_provider", cfg.AI.Provider).
		Msg("iniciando aplicación")

	// appCtx vive lo que vive el proceso: listener, agendador y streams SSE cuelgan de él.
	appCtx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DB.MigrationsAuto {
		if err := postgres.Migrate(cfg.DB.ConnectionString(), log.Named("migrate")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	pool, err := postgres.NewPool(appCtx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	m := metrics.New(cfg.Metrics.Prefix)
	loc := cfg.App.Location()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	salesRepo := postgres.NewSalesRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	genRepo := postgres.NewAIGenerationRepository(pool)
	txRunner := postgres.NewTxRunner(pool, m)

	// Change feed: LISTEN/NOTIFY → hub → stores de cada sesión.
	hub := realtime.NewHub(log, realtime.WithMetrics(m))
	listener := postgres.NewListener(pool, time.Duration(cfg.Realtime.ReconnectSeconds)*time.Second, hub, log)
	go listener.Run(appCtx)

	threshold := cfg.Inventory.LowStockThreshold
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := usecase.NewProductUseCase(productRepo)
	notificationUC := usecase.NewNotificationUseCase(notificationRepo)
	salesUC := sales.NewUseCase(txRunner, productRepo, salesRepo, notificationRepo, threshold, log, m)
	aiUC := usecase.NewAIUseCase(newLLM(cfg.AI), genRepo, productRepo, cfg.AI.Timeout(), log, m)
	dashboardUC := appanalytics.NewDashboardUseCase(productRepo, salesRepo, genRepo, threshold, loc)
	backupUC := backup.NewUseCase(userRepo, productRepo, salesRepo, notificationRepo, export.NewRenderer(), threshold, loc, log)
	adminUC := usecase.NewAdminUseCase(userRepo, genRepo, usecase.HealthProbe{
		Metrics:       m,
		Ping:          pool.Ping,
		PoolStats:     func() dto.DBPoolStats { return postgres.StatsOf(pool) },
		Subscriptions: hub.Len,
	}, log)

	// Resumen diario de stock bajo.
	digest := scheduler.NewLowStockDigestService(productRepo, notificationRepo, cfg.Inventory, loc, log)
	if err := digest.Start(appCtx); err != nil {
		log.Error().Err(err).Msg("no se pudo agendar el resumen de stock bajo")
	}

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		JSONEncoder: json.Marshal,
		JSONDecoder: json.Unmarshal,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: los streams SSE escriben durante toda la sesión.
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(m.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "UMKM API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		ProductUC:      productUC,
		SalesUC:        salesUC,
		NotificationUC: notificationUC,
		AIUC:           aiUC,
		DashboardUC:    dashboardUC,
		BackupUC:       backupUC,
		AdminUC:        adminUC,
		Digest:         digest,
		Hub:            hub,
		Streamer:       httpRouter.NewStreamer(appCtx, cfg.Realtime.KeepAlive(), m, log),
		LiveSources: livesync.DashboardSources{
			Products:      productRepo,
			Sales:         salesRepo,
			AIGenerations: genRepo,
		},
		Notifications:     notificationRepo,
		LowStockThreshold: threshold,
		DashboardResync:   cfg.Realtime.Resync(),
		JWTSecret:         cfg.JWT.Secret,
		Log:               log,
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

	// Primero los streams y el listener, para que el apagado HTTP no espere conexiones abiertas.
	stop()
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// newLLM elige el proveedor según AI_PROVIDER (validado en config.Load).
func newLLM(cfg config.AIConfig) ports.LLMService {
	if cfg.Provider == "anthropic" {
		return infraai.NewAnthropicService(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	}
	return infraai.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
}
