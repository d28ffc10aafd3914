// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Job names
const (
	JobSessionSweep = "session-sweep"
	JobEventPrune   = "event-prune"
)

// Sweeper removes idle sessions.
type Sweeper interface {
	Sweep(ttl time.Duration) int
}

// EventPruner deletes events older than a cutoff.
type EventPruner interface {
	DeleteEventsBefore(ctx context.Context, t time.Time) (int64, error)
}

// SessionSweepJob expires sessions idle for longer than ttl.
func SessionSweepJob(schedule string, sweeper Sweeper, ttl time.Duration) Job {
	return Job{
		Name:        JobSessionSweep,
		Description: "Close form sessions idle for longer than " + ttl.String(),
		Schedule:    schedule,
		Run: func(context.Context) error {
			sweeper.Sweep(ttl)
			return nil
		},
	}
}

// EventPruneJob deletes events older than retention, once an hour.
func EventPruneJob(pruner EventPruner, retention time.Duration, logger *slog.Logger) Job {
	return Job{
		Name:        JobEventPrune,
		Description: "Delete events older than " + retention.String(),
		Schedule:    "@hourly",
		Run: func(ctx context.Context) error {
			n, err := pruner.DeleteEventsBefore(ctx, time.Now().Add(-retention))
			if err != nil {
				return fmt.Errorf("pruning events: %w", err)
			}
			if n > 0 && logger != nil {
				logger.Info("old events pruned", "count", n)
			}
			return nil
		},
	}
}
