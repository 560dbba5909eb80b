package scheduler

import (
	"context"
	"time"

	marketplaceapp "github.com/repairpos/backend/internal/application/marketplace"
	"go.uber.org/zap"
)

// JobListingSync pushes stale marketplace listings again
const JobListingSync = "listing_sync"

// ListingSyncer is satisfied by the marketplace ListingService
type ListingSyncer interface {
	SyncStale(ctx context.Context, staleAfter time.Duration, limit int) (marketplaceapp.SyncSummary, error)
}

// ListingSyncExecutor runs JobListingSync
type ListingSyncExecutor struct {
	syncer     ListingSyncer
	staleAfter time.Duration
	batch      int
	logger     *zap.Logger
}

// NewListingSyncExecutor syncs up to batch listings older than staleAfter per run
func NewListingSyncExecutor(syncer ListingSyncer, staleAfter time.Duration, batch int, logger *zap.Logger) *ListingSyncExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if batch <= 0 {
		batch = 50
	}
	return &ListingSyncExecutor{syncer: syncer, staleAfter: staleAfter, batch: batch, logger: logger}
}

func (e *ListingSyncExecutor) Execute(ctx context.Context, job *Job) error {
	summary, err := e.syncer.SyncStale(ctx, e.staleAfter, e.batch)
	e.logger.Info("Listing sync run",
		zap.String("job_id", job.ID.String()),
		zap.Int("checked", summary.Checked),
		zap.Int("synced", summary.Synced),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	)
	return err
}
