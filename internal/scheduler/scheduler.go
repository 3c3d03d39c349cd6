package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"CedearScan/internal/domain/models"
	"CedearScan/internal/session"
	"CedearScan/internal/usecase"
	xlogger "CedearScan/pkg/logger"
)

// Scheduler refreshes every strategy ranking on a cron spec so the first
// request of a trading cycle never pays the full computation latency.
// Jobs run in exchange-local time and no-op while the session is closed.
type Scheduler struct {
	cron     *cron.Cron
	screener *usecase.Screener
	calendar *session.Calendar
	clock    session.Clock
	logger   *xlogger.Logger
	timeout  time.Duration
}

func New(screener *usecase.Screener, calendar *session.Calendar, clock session.Clock, logger *xlogger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(calendar.Location())),
		screener: screener,
		calendar: calendar,
		clock:    clock,
		logger:   logger,
		timeout:  5 * time.Minute,
	}
}

// Register installs the refresh job. spec uses the standard 5-field cron
// syntax, evaluated in the exchange time zone.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.refreshAll); err != nil {
		return fmt.Errorf("register refresh job: %w", err)
	}
	return nil
}

func (s *Scheduler) refreshAll() {
	if !s.calendar.IsOpen(s.clock.Now()) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	// Concrete strategies first; the forced global pass then reuses
	// their just-written cache entries.
	for _, strategy := range append(append([]models.Strategy{}, models.Strategies...), models.StrategyGlobal) {
		if _, err := s.screener.FullRanking(ctx, strategy, true); err != nil {
			s.logger.Warn("scheduled refresh failed",
				xlogger.Error(err), xlogger.String("strategy", string(strategy)))
			continue
		}
		s.logger.Debug("scheduled refresh done", xlogger.String("strategy", string(strategy)))
	}
}

// Start begins scheduling. Safe to call once.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts scheduling and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
