// Package scheduler runs the periodic cache warm.
package scheduler

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron instance with a single registered warm job.
type Scheduler struct {
	cron *cron.Cron
}

// New registers warm under the given cron spec (standard 5-field syntax).
func New(spec string, warm func()) (*Scheduler, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, warm); err != nil {
		return nil, fmt.Errorf("register refresh job: %w", err)
	}
	return &Scheduler{cron: c}, nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	slog.Info("refresh scheduler stopped")
}
