package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionCompleter переводит прошедшие запланированные занятия в completed.
type SessionCompleter interface {
	CompletePast(ctx context.Context, now time.Time) (int64, error)
}

// Sweeper управляет фоновой задачей завершения занятий
type Sweeper struct {
	sessions SessionCompleter
	interval time.Duration
	logger   *zap.Logger
	stopChan chan struct{}
}

// NewSweeper создаёт новый свипер
func NewSweeper(sessions SessionCompleter, interval time.Duration, logger *zap.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start запускает фоновую задачу
func (s *Sweeper) Start(ctx context.Context) {
	s.logger.Info("Starting session sweeper")

	go s.run(ctx)
}

// Stop останавливает фоновую задачу
func (s *Sweeper) Stop() {
	s.logger.Info("Stopping session sweeper")
	close(s.stopChan)
}

// run периодически завершает прошедшие занятия
func (s *Sweeper) run(ctx context.Context) {
	// Первый запуск сразу при старте
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Session sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Session sweeper cancelled")
			return
		}
	}
}

// sweep помечает завершённые занятия
func (s *Sweeper) sweep(ctx context.Context) {
	completed, err := s.sessions.CompletePast(ctx, time.Now())
	if err != nil {
		s.logger.Error("Failed to complete past sessions", zap.Error(err))
		return
	}

	if completed > 0 {
		s.logger.Info("Past sessions completed", zap.Int64("count", completed))
	}
}
