package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/banerRana/docpipe/internal/checkpoints"
	"github.com/banerRana/docpipe/internal/documents"
	"github.com/banerRana/docpipe/internal/imaging"
	"github.com/banerRana/docpipe/internal/invoices"
	"github.com/banerRana/docpipe/pkg/confidence"
	"github.com/banerRana/docpipe/pkg/results"
)

// documentScratch carries the step-local state a resumed document
// workflow needs: the serialized classification and extraction results
// that downstream steps of the current cursor position consume.
type documentScratch struct {
	Classification json.RawMessage  `json:"classification,omitempty"`
	Extraction     json.RawMessage  `json:"extraction,omitempty"`
	Validation     *invoices.Result `json:"validation,omitempty"`
}

type documentRun struct {
	rt         *Runtime
	instanceID uuid.UUID
	folder     documents.DocumentFolder

	step   Step
	doc    int
	seg    int
	result *results.WorkflowResult

	classification *confidence.Result[documents.Classifications]
	extraction     *confidence.Result[invoices.Invoice]
	validation     *invoices.Result
}

// RunDocument processes one document folder: each document is classified
// into page-ranged segments, target segments have their invoice data
// extracted and validated, and every stage's output is persisted beside
// the source document. The run checkpoints after every step transition
// under instanceID; invoking it again with the same ID resumes from the
// last completed step. Per-document and per-segment failures are recorded
// in the returned result and do not stop the remaining work; the only
// error returns are context cancellation and checkpoint restore failure.
func RunDocument(ctx context.Context, rt *Runtime, instanceID uuid.UUID, folder documents.DocumentFolder) (*results.WorkflowResult, error) {
	run := &documentRun{
		rt:         rt,
		instanceID: instanceID,
		folder:     folder,
		step:       StepValidate,
		result:     results.NewWorkflowResult(folder.Name),
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

func (r *documentRun) advance(ctx context.Context) {
	switch r.step {
	case StepValidate:
		r.validateFolder()
	case StepClassify:
		r.classify(ctx)
	case StepPersistClassification:
		r.persistClassification(ctx)
	case StepGateClassification:
		r.gateClassification()
	case StepExtract:
		r.extract(ctx)
	case StepPersistExtraction:
		r.persistExtraction(ctx)
	case StepGateExtraction:
		r.gateExtraction()
	case StepValidateInvoice:
		r.validateInvoice()
	case StepPersistValidation:
		r.persistValidation(ctx)
	default:
		r.result.AddError(DocumentWorkflowName, fmt.Sprintf("Unknown workflow step %s.", r.step))
		r.step = StepDone
	}
}

func (r *documentRun) validateFolder() {
	validation := r.folder.Validate()
	if !validation.IsValid {
		r.result.Merge(validation)
		r.step = StepDone
		return
	}

	if len(r.folder.DocumentFileNames) == 0 {
		r.step = StepDone
		return
	}
	r.step = StepClassify
}

func (r *documentRun) classify(ctx context.Context) {
	name := r.documentName()

	classification := r.rt.classifyDocument(ctx, r.folder.ContainerName, name)
	if classification == nil {
		r.result.AddError(ActivityClassifyDocument, fmt.Sprintf("Failed to classify document %s.", name))
		r.nextDocument()
		return
	}

	r.classification = classification
	r.step = StepPersistClassification
}

func (r *documentRun) persistClassification(ctx context.Context) {
	name := r.documentName()

	data, err := confidence.Encode(r.classification)
	if err != nil {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store classification for %s.", name))
		r.rt.Logger.Error("encode classification failed", "document", name, "error", err)
		r.nextDocument()
		return
	}

	if !r.rt.writeBlob(ctx, r.folder.ContainerName, fmt.Sprintf("%s.Classification.json", name), data) {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store classification for %s.", name))
		r.nextDocument()
		return
	}

	r.step = StepGateClassification
}

func (r *documentRun) gateClassification() {
	name := r.documentName()
	overall := r.classification.OverallConfidence

	if overall < r.rt.Config.ConfidenceThreshold {
		r.result.AddError(ActivityClassifyDocument, fmt.Sprintf("Document %s classified with low confidence %v.", name, overall))
		r.nextDocument()
		return
	}

	r.result.AddMessage(ActivityClassifyDocument, fmt.Sprintf("Document %s classified with confidence %v.", name, overall))

	if len(r.segments()) == 0 {
		r.result.AddMessage(ActivityClassifyDocument, fmt.Sprintf("Document %s has no valid classifications.", name))
		r.nextDocument()
		return
	}

	r.seg = 0
	r.step = StepExtract
}

func (r *documentRun) extract(ctx context.Context) {
	name := r.documentName()
	segment := r.segments()[r.seg]
	label := segment.Label()

	if label != r.rt.Config.TargetClassification {
		r.result.AddMessage(ActivityExtractInvoice, fmt.Sprintf("Skipping %s document %s.", label, name))
		r.nextSegment()
		return
	}

	start, end, ok := segment.PageRange()
	if !ok {
		r.result.AddError(ActivityExtractInvoice, fmt.Sprintf("Document %s segment %d has an invalid page range.", name, r.seg))
		r.nextSegment()
		return
	}

	r.result.AddMessage(ActivityClassifyDocument, fmt.Sprintf("Document %s classified as %s from page %d to %d.", name, label, start, end))

	extraction := r.rt.extractInvoice(ctx, r.folder.ContainerName, name, imaging.Range{Start: start, End: end})
	if extraction == nil {
		r.result.AddError(ActivityExtractInvoice, fmt.Sprintf("Failed to extract invoice data for %s from page %d to %d.", name, start, end))
		r.nextSegment()
		return
	}

	r.extraction = extraction
	r.step = StepPersistExtraction
}

func (r *documentRun) persistExtraction(ctx context.Context) {
	name := r.documentName()
	start, end, _ := r.segments()[r.seg].PageRange()

	data, err := confidence.Encode(r.extraction)
	if err != nil {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store invoice data for %s from page %d to %d.", name, start, end))
		r.rt.Logger.Error("encode extraction failed", "document", name, "error", err)
		r.nextSegment()
		return
	}

	if !r.rt.writeBlob(ctx, r.folder.ContainerName, fmt.Sprintf("%s.%d-%d.Data.json", name, start, end), data) {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store invoice data for %s from page %d to %d.", name, start, end))
		r.nextSegment()
		return
	}

	r.step = StepGateExtraction
}

func (r *documentRun) gateExtraction() {
	name := r.documentName()
	start, end, _ := r.segments()[r.seg].PageRange()
	overall := r.extraction.OverallConfidence

	if overall < r.rt.Config.ConfidenceThreshold {
		r.result.AddError(ActivityExtractInvoice, fmt.Sprintf("Invoice data for %s from page %d to %d extracted with low confidence %v.", name, start, end, overall))
		r.nextSegment()
		return
	}

	r.result.AddMessage(ActivityExtractInvoice, fmt.Sprintf("Invoice data for %s from page %d to %d extracted with confidence %v.", name, start, end, overall))
	r.step = StepValidateInvoice
}

func (r *documentRun) validateInvoice() {
	r.validation = invoices.Validate(r.documentName(), r.extraction.Data)
	r.result.Merge(&r.validation.ValidationResult)
	r.step = StepPersistValidation
}

func (r *documentRun) persistValidation(ctx context.Context) {
	name := r.documentName()
	start, end, _ := r.segments()[r.seg].PageRange()

	data, err := json.Marshal(r.validation)
	if err != nil {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store validation for %s from page %d to %d.", name, start, end))
		r.rt.Logger.Error("encode validation failed", "document", name, "error", err)
		r.nextSegment()
		return
	}

	if !r.rt.writeBlob(ctx, r.folder.ContainerName, fmt.Sprintf("%s.%d-%d.Validation.json", name, start, end), data) {
		r.result.AddError(ActivityWriteBlob, fmt.Sprintf("Failed to store validation for %s from page %d to %d.", name, start, end))
	}

	r.nextSegment()
}

func (r *documentRun) documentName() string {
	return r.folder.DocumentFileNames[r.doc]
}

func (r *documentRun) segments() []documents.Classification {
	if r.classification == nil || r.classification.Data == nil {
		return nil
	}
	return r.classification.Data.PageClassifications
}

func (r *documentRun) nextSegment() {
	r.extraction = nil
	r.validation = nil

	r.seg++
	if r.seg >= len(r.segments()) {
		r.nextDocument()
		return
	}
	r.step = StepExtract
}

func (r *documentRun) nextDocument() {
	r.classification = nil
	r.extraction = nil
	r.validation = nil
	r.seg = 0

	r.doc++
	if r.doc >= len(r.folder.DocumentFileNames) {
		r.step = StepDone
		return
	}
	r.step = StepClassify
}

func (r *documentRun) checkpoint(ctx context.Context) error {
	resultData, err := json.Marshal(r.result)
	if err != nil {
		return fmt.Errorf("encode workflow result: %w", err)
	}

	var scratch documentScratch
	if r.classification != nil {
		if scratch.Classification, err = confidence.Encode(r.classification); err != nil {
			return err
		}
	}
	if r.extraction != nil {
		if scratch.Extraction, err = confidence.Encode(r.extraction); err != nil {
			return err
		}
	}
	scratch.Validation = r.validation

	scratchData, err := json.Marshal(scratch)
	if err != nil {
		return fmt.Errorf("encode workflow scratch: %w", err)
	}

	return r.rt.Checkpoints.Save(ctx, &checkpoints.Snapshot{
		InstanceID: r.instanceID,
		Workflow:   DocumentWorkflowName,
		Step:       string(r.step),
		Document:   r.doc,
		Segment:    r.seg,
		Result:     resultData,
		Scratch:    scratchData,
	})
}

func (r *documentRun) restore(ctx context.Context) error {
	snap, err := r.rt.Checkpoints.Load(ctx, r.instanceID)
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

	var scratch documentScratch
	if len(snap.Scratch) > 0 {
		if err := json.Unmarshal(snap.Scratch, &scratch); err != nil {
			return fmt.Errorf("decode checkpointed scratch: %w", err)
		}
	}

	if len(scratch.Classification) > 0 {
		if r.classification, err = confidence.Decode[documents.Classifications](scratch.Classification); err != nil {
			return err
		}
	}
	if len(scratch.Extraction) > 0 {
		if r.extraction, err = confidence.Decode[invoices.Invoice](scratch.Extraction); err != nil {
			return err
		}
	}
	r.validation = scratch.Validation

	r.step = Step(snap.Step)
	r.doc = snap.Document
	r.seg = snap.Segment
	r.result = &result

	r.rt.Logger.Info("workflow resumed", "instance_id", r.instanceID, "workflow", DocumentWorkflowName, "step", r.step, "document", r.doc, "segment", r.seg)
	return nil
}
