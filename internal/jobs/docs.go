// Package jobs provides scheduled background tasks for the production service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds-resolution specs) and
// are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(reconcileBufferHandler, "0 */5 * * * *", metrics, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// BufferReconciliationJob rewrites the stored load and status of every buffer
// cell from its open placements. Routing operations keep the stored counters
// current inside their own transactions; the job only repairs drift left by
// manual data fixes. A run that is still going when the next one is due is
// skipped.
//
// Jobs never schedule production work: they only repair derived state.
package jobs
