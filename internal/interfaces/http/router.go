package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umkmhub/umkm-api/internal/application/analytics"
	"github.com/umkmhub/umkm-api/internal/application/auth"
	"github.com/umkmhub/umkm-api/internal/application/backup"
	"github.com/umkmhub/umkm-api/internal/application/livesync"
	"github.com/umkmhub/umkm-api/internal/application/sales"
	"github.com/umkmhub/umkm-api/internal/application/usecase"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/internal/realtime"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	SalesUC        *sales.UseCase
	NotificationUC *usecase.NotificationUseCase
	AIUC           *usecase.AIUseCase
	DashboardUC    *analytics.DashboardUseCase
	BackupUC       *backup.UseCase
	AdminUC        *usecase.AdminUseCase
	Digest         DigestScheduler

	// Sesiones en vivo
	Hub               *realtime.Hub
	Streamer          *Streamer
	LiveSources       livesync.DashboardSources
	Notifications     repository.NotificationRepository
	LowStockThreshold int
	DashboardResync   time.Duration // 0 desactiva el refetch periódico del dashboard en vivo

	JWTSecret string
	Log       *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	salesGroup := protected.Group("/sales")
	salesHandler := NewSalesHandler(deps.SalesUC)
	salesGroup.Post("/", salesHandler.Record)
	salesGroup.Get("/", salesHandler.List)
	salesGroup.Put("/:id", salesHandler.Update)
	salesGroup.Delete("/:id", salesHandler.Delete)

	realtimeHandler := NewRealtimeHandler(deps.Hub, deps.Notifications, deps.Streamer, deps.Log)
	protected.Get("/realtime/stream", realtimeHandler.Stream)

	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/unread-count", notificationHandler.UnreadCount)
	notifications.Get("/stream", realtimeHandler.Notifications)
	notifications.Post("/", notificationHandler.Create)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Delete("/:id", notificationHandler.Delete)

	ai := protected.Group("/ai")
	aiHandler := NewAIHandler(deps.AIUC)
	ai.Post("/generate", aiHandler.Generate)
	ai.Post("/suggest-price", aiHandler.SuggestPrice)
	ai.Get("/generations", aiHandler.ListGenerations)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.LiveSources, deps.LowStockThreshold, deps.DashboardResync, deps.Hub, deps.Streamer, deps.Log)
	protected.Get("/dashboard/stats", dashboardHandler.GetStats)
	protected.Get("/dashboard/live", dashboardHandler.Live)

	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.DashboardUC)
	analyticsGroup.Get("/categories", analyticsHandler.Categories)
	analyticsGroup.Get("/ai-usage", analyticsHandler.AIUsage)
	analyticsGroup.Get("/sales", analyticsHandler.Sales)

	backupHandler := NewBackupHandler(deps.BackupUC)
	protected.Get("/backup", backupHandler.Export)
	protected.Post("/backup/restore", backupHandler.Restore)
	protected.Get("/export/excel", backupHandler.Excel)
	protected.Get("/export/report.txt", backupHandler.TextReport)
	protected.Get("/export/report.pdf", backupHandler.PDFReport)

	// Admin (rol admin)
	admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
	adminHandler := NewAdminHandler(deps.AdminUC, deps.Digest)
	admin.Post("/update-user", adminHandler.UpdateUser)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/ai-generations", adminHandler.ListAIGenerations)
	admin.Get("/system-health", adminHandler.SystemHealth)
	admin.Get("/scheduler", adminHandler.SchedulerStatus)
	admin.Post("/scheduler/run", adminHandler.RunScheduler)
}
