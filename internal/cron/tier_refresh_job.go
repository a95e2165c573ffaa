package cron

import (
	"context"
	"fmt"

	"github.com/loomery-io/loomery-backend/internal/tiers"
	"github.com/loomery-io/loomery-backend/pkg/logger"
)

// TierRefreshJob recomputes every active party's volume tier nightly so
// discounts for parties that stopped ordering decay on schedule.
type TierRefreshJob struct {
	maintainer tiers.Maintainer
	logg       *logger.Logger
}

// NewTierRefreshJob builds the nightly tier refresh job.
func NewTierRefreshJob(maintainer tiers.Maintainer, logg *logger.Logger) (*TierRefreshJob, error) {
	if maintainer == nil {
		return nil, fmt.Errorf("tier maintainer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &TierRefreshJob{maintainer: maintainer, logg: logg}, nil
}

// Name identifies the job in logs and metrics.
func (j *TierRefreshJob) Name() string {
	return "tier_refresh"
}

// Run executes one batch recompute. Per-party failures are already
// aggregated by the maintainer; the job only fails when the batch itself
// cannot run.
func (j *TierRefreshJob) Run(ctx context.Context) error {
	result, err := j.maintainer.BatchRecompute(ctx)
	if err != nil {
		return err
	}

	ctx = j.logg.WithFields(ctx, map[string]any{
		"processed": result.Processed,
		"updated":   result.Updated,
		"failed":    result.Failed,
	})
	if result.Err != nil {
		j.logg.Warn(ctx, "tier refresh finished with partial failures")
		return nil
	}
	j.logg.Info(ctx, "tier refresh finished")
	return nil
}
