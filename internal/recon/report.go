package recon

// Report field names follow the JSON layout the downstream consumers of the
// enriched invoice artifact already read; do not rename tags casually.

// LineItemIssue records one line item whose stated total disagrees with
// quantity × unit price.
type LineItemIssue struct {
	Index            int     `json:"index"`
	ItemName         string  `json:"item_name"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unit_price"`
	ExpectedTotal    float64 `json:"expected_total"`
	ActualTotal      float64 `json:"actual_total"`
	DeviationAmount  float64 `json:"deviation_amount"`
	DeviationPercent float64 `json:"deviation_percent"`
	Severity         string  `json:"severity"`
}

// TotalIssue records one totals-level mismatch (subtotal or VAT).
type TotalIssue struct {
	Type      string  `json:"type"`
	Expected  float64 `json:"expected"`
	Actual    float64 `json:"actual"`
	Deviation float64 `json:"deviation"`
	RateUsed  float64 `json:"rate_used,omitempty"`
}

// TotalConsistency is the result of recomputing the invoice totals from its
// line items.
type TotalConsistency struct {
	SubtotalCorrect bool         `json:"subtotal_correct"`
	VATCorrect      bool         `json:"vat_correct"`
	TotalCorrect    bool         `json:"total_correct"`
	Issues          []TotalIssue `json:"issues"`
}

// PriceAccuracy aggregates the line-item and totals checks into percentages
// scored against the configured threshold.
type PriceAccuracy struct {
	LineItemAccuracy         float64 `json:"line_item_accuracy"`
	TotalCalculationAccuracy float64 `json:"total_calculation_accuracy"`
	OverallPriceAccuracy     float64 `json:"overall_price_accuracy"`
	MeetsRequirement         bool    `json:"meets_requirement"`
	Threshold                float64 `json:"threshold"`
}

// FoundPOs lists where PO numbers were actually present on the invoice.
type FoundPOs struct {
	InvoiceLevel *string  `json:"invoice_level"`
	LineLevel    []string `json:"line_level"`
}

// POPresence reports PO coverage across the invoice header and every line
// item.
type POPresence struct {
	Status           string   `json:"po_number_status"`
	MissingLocations int      `json:"missing_locations"`
	TotalLocations   int      `json:"total_locations"`
	CoveragePercent  float64  `json:"coverage_percent"`
	FoundPOs         FoundPOs `json:"found_pos"`
}

// PODetails carries the raw PO sets behind the detection metrics.
type PODetails struct {
	GroundTruth []string `json:"ground_truth"`
	Detected    []string `json:"detected"`
	Correct     []string `json:"correct"`
}

// PODetection scores the detected PO numbers against the ground truth list.
type PODetection struct {
	POAccuracy        float64    `json:"po_accuracy"`
	MeetsRequirement  bool       `json:"meets_requirement"`
	Threshold         float64    `json:"threshold"`
	Scenario          string     `json:"scenario"`
	Note              string     `json:"note,omitempty"`
	GroundTruthCount  int        `json:"ground_truth_count"`
	DetectedCount     int        `json:"detected_count"`
	CorrectDetections int        `json:"correct_detections"`
	MissedPOs         []string   `json:"missed_pos"`
	FalseDetections   []string   `json:"false_detections"`
	Details           *PODetails `json:"details,omitempty"`
}

// Detection scenarios.
const (
	ScenarioNormal           = "normal_po_detection"
	ScenarioNoPONoneDetected = "no_po_expected_none_detected"
	ScenarioNoPOButDetected  = "no_po_expected_but_detected"
)

// PO presence statuses.
const (
	POStatusComplete = "complete"
	POStatusPartial  = "partial"
	POStatusMissing  = "missing"
)

// Metadata identifies the report run.
type Metadata struct {
	Filename            string `json:"filename"`
	ValidationTimestamp string `json:"validation_timestamp"`
}

// Summary is the top-level pass/fail view plus the composite health score.
type Summary struct {
	PriceAccuracyStatus string `json:"price_accuracy_status"`
	PODetectionStatus   string `json:"po_detection_status"`
	HealthScore         int    `json:"health_score"`
}

// PriceValidation groups the price-side findings.
type PriceValidation struct {
	AccuracyMetrics        PriceAccuracy    `json:"accuracy_metrics"`
	LineItemIssues         []LineItemIssue  `json:"line_item_issues"`
	TotalCalculationIssues TotalConsistency `json:"total_calculation_issues"`
}

// POValidation groups the PO-side findings.
type POValidation struct {
	DetectionMetrics PODetection `json:"detection_metrics"`
	PresenceAnalysis POPresence  `json:"presence_analysis"`
}

// Report is the full validation report embedded into the enriched invoice
// under the "validation_report" key.
type Report struct {
	Metadata        Metadata        `json:"metadata"`
	Summary         Summary         `json:"summary"`
	PriceValidation PriceValidation `json:"price_validation"`
	POValidation    POValidation    `json:"po_validation"`
}
