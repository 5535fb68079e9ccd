package jobs

import (
	"fmt"
	"log/slog"

	"production/internal/pkg/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	bufferReconciliationJob *BufferReconciliationJob
}

func NewJobManager(
	reconcileBufferHandler ReconcileBufferHandler,
	reconcileSchedule string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		bufferReconciliationJob: NewBufferReconciliationJob(reconcileBufferHandler, reconcileSchedule, m, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.bufferReconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start buffer reconciliation job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.bufferReconciliationJob.Stop()
}
