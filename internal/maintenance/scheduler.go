// Package maintenance runs periodic SQLite housekeeping.
package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/isdelr/yoga-collections-be/internal/database"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultTimeout bounds a single housekeeping run.
const DefaultTimeout = time.Minute

var statements = []string{
	"PRAGMA optimize",
	"PRAGMA wal_checkpoint(TRUNCATE)",
}

// Scheduler runs the housekeeping job on a cron schedule.
type Scheduler struct {
	db       database.DBTX
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
}

// NewScheduler validates the cron schedule and returns a scheduler for db. An empty schedule
// returns a scheduler whose Start and Stop do nothing.
func NewScheduler(db database.DBTX, schedule string, timeout time.Duration) (*Scheduler, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &Scheduler{db: db, schedule: strings.TrimSpace(schedule), timeout: timeout}
	if s.schedule == "" {
		return s, nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", s.schedule, err)
	}
	return s, nil
}

// Enabled reports whether a schedule is configured.
func (s *Scheduler) Enabled() bool {
	return s.cron != nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	if s.cron == nil {
		log.Info().Msg("Store maintenance disabled")
		return
	}
	log.Info().Str("schedule", s.schedule).Msg("Starting store maintenance scheduler")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	log.Info().Msg("Stopped store maintenance scheduler")
}

// RunOnce executes the housekeeping statements in order and stops at the
// first failure.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("Store maintenance failed")
		return
	}
	log.Info().Dur("took", time.Since(start)).Msg("Store maintenance completed")
}
