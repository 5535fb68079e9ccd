package jobs

import (
	"context"
	"log/slog"

	"production/internal/core/application/usecases/commands"
	"production/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const bufferReconciliationJobName = "buffer_reconciliation"

// ReconcileBufferHandler repairs buffer cells whose stored load drifted.
type ReconcileBufferHandler interface {
	Handle(ctx context.Context, command commands.ReconcileBufferCommand) (commands.ReconcileResult, error)
}

// BufferReconciliationJob periodically rewrites the stored load and status of
// buffer cells from their open placements.
type BufferReconciliationJob struct {
	handler  ReconcileBufferHandler
	schedule string
	cron     *cron.Cron
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewBufferReconciliationJob(
	handler ReconcileBufferHandler,
	schedule string,
	m *metrics.Metrics,
	logger *slog.Logger,
) *BufferReconciliationJob {
	return &BufferReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		metrics:  m,
		logger:   logger.With("component", "buffer_reconciliation_job"),
	}
}

func (j *BufferReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Buffer reconciliation job started", "schedule", j.schedule)
	return nil
}

// Run performs one reconciliation pass.
func (j *BufferReconciliationJob) Run(ctx context.Context) {
	result, err := j.handler.Handle(ctx, commands.NewReconcileBufferCommand())
	if j.metrics != nil {
		j.metrics.RecordJobRun(bufferReconciliationJobName, err == nil)
	}
	if err != nil {
		j.logger.ErrorContext(ctx, "Buffer reconciliation job failed", "error", err)
		return
	}

	if result.Repaired > 0 {
		if j.metrics != nil {
			j.metrics.RecordCellsRepaired(result.Repaired)
		}
		j.logger.WarnContext(ctx, "Buffer cells repaired",
			"checked", result.Checked, "repaired", result.Repaired)
	}
}

func (j *BufferReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Buffer reconciliation job stopped")
}
