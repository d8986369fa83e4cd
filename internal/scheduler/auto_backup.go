package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/resnav/internal/logger"
	"github.com/MrSnakeDoc/resnav/internal/webdav"
)

// AutoBackup runs periodic WebDAV backups of all three buckets.
type AutoBackup struct {
	sync          *webdav.Service
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewAutoBackup creates a new periodic backup runner. manualTrigger may
// be nil when only the ticker should drive backups.
func NewAutoBackup(
	syncService *webdav.Service,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *AutoBackup {
	return &AutoBackup{
		sync:          syncService,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic backup loop. Unlike the initial data load,
// no backup runs at startup; the first one fires after one interval.
func (ab *AutoBackup) Start(ctx context.Context) {
	ticker := time.NewTicker(ab.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ab.run(ctx)
			case <-ab.manualTrigger:
				ab.logger.Info("manual backup triggered")
				ab.run(ctx)
			case <-ab.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the runner.
func (ab *AutoBackup) Stop() {
	close(ab.stopCh)
}

func (ab *AutoBackup) run(ctx context.Context) {
	result := ab.sync.Backup(ctx)
	if !result.Success {
		ab.logger.Error("scheduled backup failed",
			logger.String("message", result.Message))
		return
	}
	ab.logger.Info("scheduled backup completed",
		logger.String("message", result.Message))
}
