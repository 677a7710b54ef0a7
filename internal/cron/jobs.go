package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/innovativehub/storefront/pkg/logger"
)

type sessionSweeper interface {
	Sweep(ctx context.Context) int
}

// SessionSweepJob drops idle sessions held by this instance.
type SessionSweepJob struct {
	sessions sessionSweeper
}

func NewSessionSweepJob(sessions sessionSweeper) (*SessionSweepJob, error) {
	if sessions == nil {
		return nil, fmt.Errorf("session registry required")
	}
	return &SessionSweepJob{sessions: sessions}, nil
}

func (j *SessionSweepJob) Name() string { return "session-sweep" }

func (j *SessionSweepJob) Run(ctx context.Context) error {
	j.sessions.Sweep(ctx)
	return nil
}

type slotPurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type SlotRetentionJobParams struct {
	Logger    *logger.Logger
	Slots     slotPurger
	Retention time.Duration
	Now       func() time.Time
}

// SlotRetentionJob removes durable guest slots untouched for the retention
// window. Slots live in the shared store, so one instance runs it per cycle.
type SlotRetentionJob struct {
	logg      *logger.Logger
	slots     slotPurger
	retention time.Duration
	now       func() time.Time
}

func NewSlotRetentionJob(params SlotRetentionJobParams) (*SlotRetentionJob, error) {
	if params.Slots == nil {
		return nil, fmt.Errorf("slot repository required")
	}
	if params.Retention <= 0 {
		return nil, fmt.Errorf("slot retention must be positive")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &SlotRetentionJob{
		logg:      params.Logger,
		slots:     params.Slots,
		retention: params.Retention,
		now:       now,
	}, nil
}

func (j *SlotRetentionJob) Name() string { return "slot-retention" }

func (j *SlotRetentionJob) Shared() bool { return true }

func (j *SlotRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.slots.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("slot retention: %w", err)
	}
	if deleted > 0 {
		j.logg.Info(j.logg.WithFields(ctx, map[string]any{
			"cutoff":       cutoff,
			"rows_deleted": deleted,
		}), "stale guest slots purged")
	}
	return nil
}
