package workflow

// Step identifies a workflow state machine position. Steps are persisted
// in checkpoint snapshots, so their string values are part of the durable
// format and must not be repurposed.
type Step string

// Document workflow steps, in progression order. The extract through
// persist_validation steps repeat per classified segment; classify through
// persist_validation repeat per document in the folder.
const (
	StepValidate              Step = "validate"
	StepClassify              Step = "classify"
	StepPersistClassification Step = "persist_classification"
	StepGateClassification    Step = "gate_classification"
	StepExtract               Step = "extract"
	StepPersistExtraction     Step = "persist_extraction"
	StepGateExtraction        Step = "gate_extraction"
	StepValidateInvoice       Step = "validate_invoice"
	StepPersistValidation     Step = "persist_validation"
	StepDone                  Step = "done"
)

// Batch workflow steps. The batch shares StepValidate and StepDone with
// the document workflow.
const (
	StepDiscover Step = "discover"
	StepFanOut   Step = "fan_out"
	StepReport   Step = "report"
)

// Workflow names recorded in checkpoints and result messages.
const (
	DocumentWorkflowName = "ProcessDocumentWorkflow"
	BatchWorkflowName    = "ProcessDocumentBatchWorkflow"
)
