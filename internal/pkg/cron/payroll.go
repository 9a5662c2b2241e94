package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	recomputer payroll.DraftRecomputer
	interval   time.Duration
	now        func() time.Time
}

func NewPayrollJobs(recomputer payroll.DraftRecomputer, interval time.Duration) *PayrollJobs {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &PayrollJobs{
		recomputer: recomputer,
		interval:   interval,
		now:        time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("recompute_payroll_drafts", j.interval, j.RecomputeCurrentPeriod)
}

// RecomputeCurrentPeriod refreshes the drafts of the current month from the
// attendance stored right now. Paid records are never touched.
func (j *PayrollJobs) RecomputeCurrentPeriod(ctx context.Context) error {
	period := payroll.PeriodOf(j.now().UTC())
	slog.Info("Cron: Starting payroll draft recompute", "period", period.String())

	count, err := j.recomputer.RecomputeDrafts(ctx, period)
	if err != nil {
		return fmt.Errorf("failed to recompute payroll drafts for %s: %w", period, err)
	}

	slog.Info("Cron: Payroll draft recompute finished", "period", period.String(), "recomputed", count)
	return nil
}
