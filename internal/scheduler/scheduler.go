// Package scheduler runs the periodic escalation sweep.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/example/taskboard/internal/ports/primary"
)

// DefaultCronExpr runs the sweep at the top of every hour.
const DefaultCronExpr = "0 * * * *"

// sweepTimeout bounds one scheduled sweep. A sweep that runs long gets
// cancelled rather than piling up behind the next tick.
const sweepTimeout = 10 * time.Minute

// Scheduler triggers an unscoped sweep on a cron schedule. A failed sweep is
// logged and retried on the next tick, never fatal.
type Scheduler struct {
	cron       *cron.Cron
	escalation primary.EscalationService
	cronExpr   string
	logger     *zap.SugaredLogger
	mu         sync.Mutex
	running    bool
}

// New creates a scheduler. An empty cronExpr falls back to DefaultCronExpr.
func New(escalation primary.EscalationService, cronExpr string, logger *zap.SugaredLogger) *Scheduler {
	if cronExpr == "" {
		cronExpr = DefaultCronExpr
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		cron:       cron.New(),
		escalation: escalation,
		cronExpr:   cronExpr,
		logger:     logger,
	}
}

// Start registers the sweep job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := s.cron.AddFunc(s.cronExpr, s.RunOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	s.logger.Infow("sweep scheduler started", "cron", s.cronExpr)
	return nil
}

// Stop halts the cron loop and waits for a running sweep job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Infow("sweep scheduler stopped")
}

// RunOnce executes one unscoped sweep with the scheduler's timeout. It is the
// body of the cron job and is also callable directly.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	summary, err := s.escalation.Sweep(ctx, primary.SweepScope{})
	if err != nil {
		s.logger.Errorw("scheduled sweep failed", "error", err)
		return
	}

	s.logger.Infow("scheduled sweep finished",
		"tasksChecked", summary.TasksChecked,
		"escalationsTriggered", summary.EscalationsTriggered)
}
