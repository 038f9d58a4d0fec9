package constants

// RunStatus is the canonical status recorded for a processed document.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusExtractOK   RunStatus = "EXTRACT_OK"   // stage 1 completed (text extracted)
	RunStatusAnalyzed    RunStatus = "ANALYZED"     // stage 2 completed (structured JSON produced)
	RunStatusReconciled  RunStatus = "RECONCILED"   // stage 3 completed (report generated)
	RunStatusFailed      RunStatus = "FAILED"       // terminal failure for this document
	RunStatusInvalidJSON RunStatus = "INVALID_JSON" // model output failed shape validation
)
