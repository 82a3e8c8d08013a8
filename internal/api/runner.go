package api

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/workflow"
	"github.com/banerRana/docpipe/pkg/lifecycle"
)

// Runner launches batch workflows in the background and drains them on
// shutdown. In-flight workflows observe the lifecycle context, checkpoint
// their position, and resume on the next request with the same instance ID.
type Runner struct {
	rt     *workflow.Runtime
	lc     *lifecycle.Coordinator
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewRunner creates a Runner bound to the lifecycle coordinator.
func NewRunner(lc *lifecycle.Coordinator, rt *workflow.Runtime, logger *slog.Logger) *Runner {
	r := &Runner{
		rt:     rt,
		lc:     lc,
		logger: logger.With("system", "runner"),
	}

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		r.logger.Info("draining workflows")
		r.wg.Wait()
		r.logger.Info("workflows drained")
	})

	return r
}

// Launch starts a batch workflow for the request and returns its instance
// ID immediately.
func (r *Runner) Launch(req documents.BatchRequest) uuid.UUID {
	instanceID := uuid.New()

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		result, err := workflow.RunBatch(r.lc.Context(), r.rt, instanceID, req)
		if err != nil {
			r.logger.Error("batch workflow interrupted", "instance_id", instanceID, "error", err)
			return
		}

		r.logger.Info(
			"batch workflow completed",
			"instance_id", instanceID,
			"valid", result.IsValid,
			"folders", len(result.ActivityResults),
		)
	}()

	return instanceID
}
