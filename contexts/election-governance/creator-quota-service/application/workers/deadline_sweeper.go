package workers

import (
	"context"
	"log/slog"
	"time"

	application "agora/contexts/election-governance/creator-quota-service/application"
	"agora/contexts/election-governance/creator-quota-service/ports"
)

// DeadlineSweeper releases quota windows whose elections have ended. Runs on
// the worker loop so quota frees even when nobody touches the election
// again.
type DeadlineSweeper struct {
	Service   *application.Service
	Windows   ports.WindowRepository
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

// RunOnce releases a bounded batch of expired, unreleased windows. A failed
// release stops the cycle; the next cycle retries the same rows.
func (s DeadlineSweeper) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(s.Logger)
	limit := s.BatchSize
	if limit <= 0 {
		limit = 100
	}

	now := time.Now().UTC()
	if s.Clock != nil {
		now = s.Clock.Now().UTC()
	}

	expired, err := s.Windows.ListExpiredUnreleased(ctx, now, limit)
	if err != nil {
		logger.Error("quota sweep list failed",
			"event", "quota_sweep_list_failed",
			"module", "election-governance/creator-quota-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	for _, window := range expired {
		if err := s.Service.ReleaseElection(ctx, window.ElectionID); err != nil {
			logger.Error("quota sweep release failed",
				"event", "quota_sweep_release_failed",
				"module", "election-governance/creator-quota-service",
				"layer", "worker",
				"election_id", window.ElectionID,
				"error", err.Error(),
			)
			return err
		}
	}

	logger.Info("quota sweep cycle completed",
		"event", "quota_sweep_completed",
		"module", "election-governance/creator-quota-service",
		"layer", "worker",
		"released_count", len(expired),
	)
	return nil
}
