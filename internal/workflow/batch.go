package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/reports"
	"github.com/banerRana/docpipe/pkg/results"
)

// batchScratch carries the discovered folder set so a resumed batch does
// not re-list the container.
type batchScratch struct {
	Folders *documents.DocumentFolders `json:"folders,omitempty"`
}

type batchRun struct {
	rt         *Runtime
	instanceID uuid.UUID
	req        documents.BatchRequest

	step    Step
	result  *results.WorkflowResult
	folders *documents.DocumentFolders
}

// RunBatch processes every document folder in the requested container,
// fanning out one document workflow per folder with bounded concurrency.
// Child instance IDs are derived deterministically from the batch ID and
// folder name, so a resumed batch re-attaches to its children's
// checkpoints instead of starting them over. The batch result is valid
// when the batch itself ran to completion; per-folder failures live in
// the nested activity results.
func RunBatch(ctx context.Context, rt *Runtime, instanceID uuid.UUID, req documents.BatchRequest) (*results.WorkflowResult, error) {
	run := &batchRun{
		rt:         rt,
		instanceID: instanceID,
		req:        req,
		step:       StepValidate,
		result:     results.NewWorkflowResult(BatchWorkflowName),
	}

	if err := run.restore(ctx); err != nil {
		return nil, err
	}

	for run.step != StepDone {
		if err := ctx.Err(); err != nil {
			return run.result, err
		}

		run.advance(ctx)

		if err := run.checkpoint(ctx); err != nil {
			rt.Logger.Error("checkpoint save failed", "instance_id", run.instanceID, "step", run.step, "error", err)
		}
	}

	return run.result, nil
}

func (b *batchRun) advance(ctx context.Context) {
	switch b.step {
	case StepValidate:
		b.validateRequest()
	case StepDiscover:
		b.discover(ctx)
	case StepFanOut:
		b.fanOut(ctx)
	case StepReport:
		b.report(ctx)
	default:
		b.result.AddError(BatchWorkflowName, fmt.Sprintf("Unknown workflow step %s.", b.step))
		b.step = StepDone
	}
}

func (b *batchRun) validateRequest() {
	validation := b.req.Validate()
	if !validation.IsValid {
		b.result.Merge(validation)
		b.step = StepDone
		return
	}
	b.step = StepDiscover
}

func (b *batchRun) discover(ctx context.Context) {
	folders, err := b.rt.getDocumentFolders(ctx, b.req.ContainerName)
	if err != nil {
		b.result.AddError(ActivityGetDocumentFolders, fmt.Sprintf("Failed to retrieve document folders for container %s.", b.req.ContainerName))
		b.rt.Logger.Error("folder discovery failed", "container", b.req.ContainerName, "error", err)
		b.step = StepDone
		return
	}

	b.result.AddMessage(ActivityGetDocumentFolders, fmt.Sprintf("Retrieved %d document folders.", len(folders.Folders)))
	b.folders = folders
	b.step = StepFanOut
}

func (b *batchRun) fanOut(ctx context.Context) {
	folders := b.folders.Folders
	children := make([]*results.WorkflowResult, len(folders))

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(max(b.rt.Config.MaxConcurrency, 1))

	for i, folder := range folders {
		group.Go(func() error {
			childID := uuid.NewSHA1(b.instanceID, []byte(folder.Name))

			child, err := RunDocument(gctx, b.rt, childID, folder)
			if err != nil {
				if child == nil {
					child = results.NewWorkflowResult(folder.Name)
				}
				child.AddError(DocumentWorkflowName, fmt.Sprintf("Workflow aborted: %v.", err))
			}

			children[i] = child
			return nil
		})
	}
	group.Wait()

	for _, child := range children {
		b.result.AddActivityResult(child)
		b.rt.Logger.Info("processed document folder", "folder", child.Name, "valid", child.IsValid)
	}

	b.step = StepReport
}

// report writes the batch summary workbook next to the source documents.
// The report is best-effort: a failure is recorded but does not mark the
// completed batch invalid.
func (b *batchRun) report(ctx context.Context) {
	b.step = StepDone

	name := fmt.Sprintf("%s.Report.xlsx", b.instanceID)

	data, err := reports.Build(b.result)
	if err != nil {
		b.rt.Logger.Error("batch report build failed", "instance_id", b.instanceID, "error", err)
		b.result.AddMessage(ActivityWriteBlob, fmt.Sprintf("Skipped batch report %s.", name))
		return
	}

	if !b.rt.writeBlob(ctx, b.req.ContainerName, name, data) {
		b.result.AddMessage(ActivityWriteBlob, fmt.Sprintf("Failed to store batch report %s.", name))
		return
	}

	b.result.AddMessage(ActivityWriteBlob, fmt.Sprintf("Stored batch report %s.", name))
}

func (b *batchRun) checkpoint(ctx context.Context) error {
	resultData, err := json.Marshal(b.result)
	if err != nil {
		return fmt.Errorf("encode workflow result: %w", err)
	}

	scratchData, err := json.Marshal(batchScratch{Folders: b.folders})
	if err != nil {
		return fmt.Errorf("encode workflow scratch: %w", err)
	}

	return b.rt.Checkpoints.Save(ctx, &checkpoints.Snapshot{
		InstanceID: b.instanceID,
		Workflow:   BatchWorkflowName,
		Step:       string(b.step),
		Result:     resultData,
		Scratch:    scratchData,
	})
}

func (b *batchRun) restore(ctx context.Context) error {
	snap, err := b.rt.Checkpoints.Load(ctx, b.instanceID)
	if errors.Is(err, checkpoints.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	var result results.WorkflowResult
	if err := json.Unmarshal(snap.Result, &result); err != nil {
		return fmt.Errorf("decode checkpointed result: %w", err)
	}

	var scratch batchScratch
	if len(snap.Scratch) > 0 {
		if err := json.Unmarshal(snap.Scratch, &scratch); err != nil {
			return fmt.Errorf("decode checkpointed scratch: %w", err)
		}
	}

	b.step = Step(snap.Step)
	b.result = &result
	b.folders = scratch.Folders

	b.rt.Logger.Info("workflow resumed", "instance_id", b.instanceID, "workflow", BatchWorkflowName, "step", b.step)
	return nil
}
