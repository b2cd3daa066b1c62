package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// SessionSweeper сбрасывает диалоги, не обновлявшиеся дольше ttl
type SessionSweeper interface {
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sessions SessionSweeper
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
	cron     gocron.Scheduler
	started  bool
}

// NewScheduler создаёт новый планировщик
func NewScheduler(sessions SessionSweeper, ttl, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sweep interval must be positive, got %s", interval)
	}

	cron, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	return &Scheduler{
		sessions: sessions,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		cron:     cron,
	}, nil
}

// Start запускает фоновые задачи. Без SESSION_TTL очистка не нужна.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.ttl <= 0 {
		s.logger.Info("Session sweeping disabled")
		return nil
	}

	_, err := s.cron.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.sweepSessions, ctx),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register session sweep: %w", err)
	}

	s.logger.Info("Starting background scheduler",
		zap.Duration("session_ttl", s.ttl),
		zap.Duration("interval", s.interval),
	)
	s.cron.Start()
	s.started = true
	return nil
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	s.logger.Info("Stopping background scheduler")
	if err := s.cron.Shutdown(); err != nil {
		s.logger.Error("Failed to stop scheduler", zap.Error(err))
	}
}

// sweepSessions сбрасывает брошенные диалоги
func (s *Scheduler) sweepSessions(ctx context.Context) {
	reset, err := s.sessions.Sweep(ctx, s.ttl)
	if err != nil {
		s.logger.Error("Failed to sweep sessions", zap.Error(err))
		return
	}
	if reset > 0 {
		s.logger.Info("Idle sessions reset", zap.Int("count", reset))
	}
}
