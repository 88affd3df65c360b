package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/solarsite/backend/internal/domain"
	"go.uber.org/zap"
)

// HealthMonitor periodically pings the location store and keeps the last result
type HealthMonitor struct {
	repo      LocationRepository
	scheduler *gocron.Scheduler
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger

	mu     sync.RWMutex
	status domain.HealthStatus
}

// NewHealthMonitor creates a monitor; call Start to begin checking
func NewHealthMonitor(repo LocationRepository, interval time.Duration, logger *zap.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthMonitor{
		repo:      repo,
		scheduler: gocron.NewScheduler(time.UTC),
		interval:  interval,
		timeout:   5 * time.Second,
		logger:    logger,
		status:    domain.HealthStatus{Backend: repo.Backend()},
	}
}

// Start schedules the periodic check; the first one runs immediately
func (m *HealthMonitor) Start() error {
	_, err := m.scheduler.Every(m.interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		m.Check(ctx)
	})
	if err != nil {
		return err
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (m *HealthMonitor) Stop() {
	m.scheduler.Stop()
}

// Check pings the store once and records the outcome
func (m *HealthMonitor) Check(ctx context.Context) domain.HealthStatus {
	status := domain.HealthStatus{
		Healthy:   true,
		Backend:   m.repo.Backend(),
		CheckedAt: time.Now().UTC(),
	}
	if err := m.repo.Health(ctx); err != nil {
		status.Healthy = false
		status.Error = err.Error()
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if prev.Healthy != status.Healthy && !prev.CheckedAt.IsZero() {
		m.logger.Warn("location store health changed",
			zap.String("backend", status.Backend),
			zap.Bool("healthy", status.Healthy),
			zap.String("error", status.Error),
		)
	}

	return status
}

// Status returns the last recorded check
func (m *HealthMonitor) Status() domain.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
