// Package scheduler contiene los trabajos periódicos del servicio.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"github.com/umkmhub/umkm-api/internal/domain/entity"
	"github.com/umkmhub/umkm-api/internal/domain/repository"
	"github.com/umkmhub/umkm-api/pkg/config"
	"github.com/umkmhub/umkm-api/pkg/logger"
)

// maxListed productos nombrados en el mensaje; el resto se resume como "dan N lainnya".
const maxListed = 5

// LowStockDigestConfig programación del resumen diario de stock bajo.
type LowStockDigestConfig struct {
	CronSchedule string
	SyncEnabled  bool
	Threshold    int
}

// DigestResult resultado de una corrida.
type DigestResult struct {
	Users         int `json:"users"`
	Products      int `json:"products"`
	Notifications int `json:"notifications"`
	Failed        int `json:"failed"`
}

// DigestStatus estado del agendador.
type DigestStatus struct {
	SyncEnabled         bool          `json:"sync_enabled"`
	CronSchedule        string        `json:"sync_cron"`
	Running             bool          `json:"running"`
	LastSyncStartedAt   time.Time     `json:"last_sync_started_at"`
	LastSyncCompletedAt time.Time     `json:"last_sync_completed_at"`
	LastResult          *DigestResult `json:"last_result,omitempty"`
}

// LowStockDigestService crea una notificación por usuario con sus productos en o bajo el umbral.
type LowStockDigestService struct {
	scheduler     *gocron.Scheduler
	products      repository.ProductRepository
	notifications repository.NotificationRepository
	config        LowStockDigestConfig
	log           *logger.Logger

	mu                  sync.Mutex
	running             bool
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastResult          *DigestResult
}

// NewLowStockDigestService construye el servicio a partir de la configuración de inventario.
func NewLowStockDigestService(
	products repository.ProductRepository,
	notifications repository.NotificationRepository,
	cfg config.InventoryConfig,
	loc *time.Location,
	log *logger.Logger,
) *LowStockDigestService {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = logger.Nop()
	}
	digestCfg := LowStockDigestConfig{
		CronSchedule: cfg.LowStockCron,
		SyncEnabled:  cfg.LowStockSyncEnabled,
		Threshold:    cfg.LowStockThreshold,
	}
	log = log.Named("low_stock_digest")
	log.Info().Str("cron_schedule", digestCfg.CronSchedule).Int("threshold", digestCfg.Threshold).
		Msg("configuración del resumen de stock bajo cargada")

	return &LowStockDigestService{
		scheduler:     gocron.NewScheduler(loc),
		products:      products,
		notifications: notifications,
		config:        digestCfg,
		log:           log,
	}
}

// Start agenda el trabajo y lo detiene cuando ctx se cancela.
func (s *LowStockDigestService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		s.log.Info().Msg("resumen de stock bajo deshabilitado por configuración")
		return nil
	}

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.Run(ctx); err != nil {
			s.log.Error().Err(err).Msg("error en el resumen de stock bajo")
		}
	})
	if err != nil {
		return fmt.Errorf("agendar resumen de stock bajo: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info().Str("cron", s.config.CronSchedule).Msg("resumen de stock bajo agendado")

	go func() {
		<-ctx.Done()
		s.log.Info().Msg("deteniendo resumen de stock bajo")
		s.scheduler.Stop()
	}()
	return nil
}

// ErrAlreadyRunning una corrida ya está en curso.
var ErrAlreadyRunning = errors.New("resumen de stock bajo ya en ejecución")

// Run ejecuta una corrida. Si ya hay otra en curso devuelve ErrAlreadyRunning sin esperar.
func (s *LowStockDigestService) Run(ctx context.Context) (DigestResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.log.Warn().Msg("resumen de stock bajo ya en ejecución")
		return DigestResult{}, ErrAlreadyRunning
	}
	s.running = true
	s.lastSyncStartedAt = time.Now()
	s.mu.Unlock()

	res, err := s.run(ctx)

	s.mu.Lock()
	s.running = false
	s.lastSyncCompletedAt = time.Now()
	if err == nil {
		s.lastResult = &res
	}
	s.mu.Unlock()
	return res, err
}

func (s *LowStockDigestService) run(ctx context.Context) (DigestResult, error) {
	var res DigestResult
	products, err := s.products.ListLowStock(ctx, s.config.Threshold)
	if err != nil {
		return res, fmt.Errorf("listar stock bajo: %w", err)
	}

	byUser := make(map[string][]*entity.Product)
	for _, p := range products {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}
	res.Users = len(byUser)
	res.Products = len(products)

	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		n := DigestNotification(userID, byUser[userID], time.Now())
		if err := s.notifications.Create(ctx, n); err != nil {
			res.Failed++
			s.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo crear el resumen de stock bajo")
			continue
		}
		res.Notifications++
	}

	s.log.Info().
		Int("users", res.Users).
		Int("products", res.Products).
		Int("notifications", res.Notifications).
		Int("failed", res.Failed).
		Msg("resumen de stock bajo completado")
	return res, nil
}

// TriggerManualSync lanza una corrida en segundo plano; devuelve false si ya hay una en curso.
func (s *LowStockDigestService) TriggerManualSync(ctx context.Context) bool {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		return false
	}
	go func() {
		if _, err := s.Run(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.log.Error().Err(err).Msg("error en el resumen manual de stock bajo")
		}
	}()
	return true
}

// Status estado actual del agendador.
func (s *LowStockDigestService) Status() DigestStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DigestStatus{
		SyncEnabled:         s.config.SyncEnabled,
		CronSchedule:        s.config.CronSchedule,
		Running:             s.running,
		LastSyncStartedAt:   s.lastSyncStartedAt,
		LastSyncCompletedAt: s.lastSyncCompletedAt,
		LastResult:          s.lastResult,
	}
}

// DigestNotification arma el aviso de un usuario; products ya viene ordenado por stock ascendente.
func DigestNotification(userID string, products []*entity.Product, now time.Time) *entity.Notification {
	names := make([]string, 0, maxListed)
	for i, p := range products {
		if i == maxListed {
			break
		}
		names = append(names, fmt.Sprintf("%s (%d)", p.Name, p.Stock))
	}
	msg := fmt.Sprintf("%d produk perlu diisi ulang: %s", len(products), strings.Join(names, ", "))
	if extra := len(products) - maxListed; extra > 0 {
		msg += fmt.Sprintf(" dan %d lainnya", extra)
	}
	return &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     "Ringkasan stok menipis",
		Message:   msg,
		Type:      entity.NotificationLowStock,
		CreatedAt: now,
	}
}
