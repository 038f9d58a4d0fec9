package recon

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/ecetin/invoice-audit/internal/common"
	"github.com/ecetin/invoice-audit/internal/llm"
)

// Reconciler recomputes invoice arithmetic and PO coverage and scores the
// result. Every check reads the invoice without mutating it, so one
// Reconciler is safe to reuse across documents.
type Reconciler struct {
	thresholds Thresholds
	logger     *slog.Logger
	now        func() time.Time
}

func New(thresholds Thresholds, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{
		thresholds: thresholds,
		logger:     logger,
		now:        time.Now,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// cents compares money after 2-decimal rounding without float equality.
func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// poString reports whether v is a usable PO value. Null markers the model
// emits as literal strings count as absent.
func poString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || s == "" || s == "null" {
		return "", false
	}
	return s, true
}

// CheckLineItemConsistency flags every line item whose stated total_price
// disagrees with quantity × unit_price after 2-decimal rounding. Missing
// numeric fields default to zero so a sparse item still gets checked.
func (r *Reconciler) CheckLineItemConsistency(inv llm.Invoice) []LineItemIssue {
	issues := []LineItemIssue{}
	for i, item := range inv.LineItems() {
		quantity := common.FloatOrZero(item["quantity"])
		unitPrice := common.FloatOrZero(item["unit_price"])
		totalPrice := common.FloatOrZero(item["total_price"])

		expected := round2(quantity * unitPrice)
		actual := round2(totalPrice)
		if cents(expected) == cents(actual) {
			continue
		}

		deviation := math.Abs(expected - actual)
		deviationPercent := deviation / math.Max(expected, 0.01) * 100

		severity := "low"
		if deviationPercent > r.thresholds.SeverityPercent {
			severity = "high"
		}

		name, _ := item["item_name"].(string)
		if name == "" {
			name = "Unknown"
		}

		issues = append(issues, LineItemIssue{
			Index:            i,
			ItemName:         name,
			Quantity:         quantity,
			UnitPrice:        unitPrice,
			ExpectedTotal:    expected,
			ActualTotal:      actual,
			DeviationAmount:  round2(deviation),
			DeviationPercent: round2(deviationPercent),
			Severity:         severity,
		})
	}
	return issues
}

// CheckTotalConsistency recomputes the subtotal from line items and the VAT
// from the rate embedded in the VAT key's label, comparing both against the
// stated totals.
func (r *Reconciler) CheckTotalConsistency(inv llm.Invoice) TotalConsistency {
	result := TotalConsistency{
		SubtotalCorrect: true,
		VATCorrect:      true,
		TotalCorrect:    true,
		Issues:          []TotalIssue{},
	}
	totals := inv.TotalDetails()

	var sum float64
	for _, item := range inv.LineItems() {
		sum += common.FloatOrZero(item["total_price"])
	}
	expectedSubtotal := round2(sum)
	actualSubtotal := round2(common.FloatOrZero(totals["subtotal"]))

	if cents(expectedSubtotal) != cents(actualSubtotal) {
		result.SubtotalCorrect = false
		result.Issues = append(result.Issues, TotalIssue{
			Type:      "subtotal_mismatch",
			Expected:  expectedSubtotal,
			Actual:    actualSubtotal,
			Deviation: round2(math.Abs(expectedSubtotal - actualSubtotal)),
		})
	}

	if vatKey, ok := llm.VATKey(totals); ok {
		rate := llm.ParseVATRate(vatKey)
		expectedVAT := round2(expectedSubtotal * rate)
		actualVAT := round2(common.FloatOrZero(totals[vatKey]))

		if cents(expectedVAT) != cents(actualVAT) {
			result.VATCorrect = false
			result.Issues = append(result.Issues, TotalIssue{
				Type:      "vat_mismatch",
				Expected:  expectedVAT,
				Actual:    actualVAT,
				Deviation: round2(math.Abs(expectedVAT - actualVAT)),
				RateUsed:  rate,
			})
		}
	}

	return result
}

// CalculatePriceAccuracy folds the line-item and totals checks into
// percentage scores. An invoice with no line items scores 100 on the line
// side: there is nothing to get wrong.
func (r *Reconciler) CalculatePriceAccuracy(inv llm.Invoice) PriceAccuracy {
	lineIssues := r.CheckLineItemConsistency(inv)
	totals := r.CheckTotalConsistency(inv)

	totalItems := len(inv.LineItems())
	lineAccuracy := 100.0
	if totalItems > 0 {
		correct := totalItems - len(lineIssues)
		lineAccuracy = float64(correct) / float64(totalItems) * 100
	}

	correctTotals := 0
	for _, ok := range []bool{totals.SubtotalCorrect, totals.VATCorrect, totals.TotalCorrect} {
		if ok {
			correctTotals++
		}
	}
	totalAccuracy := float64(correctTotals) / 3 * 100
	overall := (lineAccuracy + totalAccuracy) / 2

	return PriceAccuracy{
		LineItemAccuracy:         round2(lineAccuracy),
		TotalCalculationAccuracy: round2(totalAccuracy),
		OverallPriceAccuracy:     round2(overall),
		MeetsRequirement:         overall >= r.thresholds.PriceAccuracy,
		Threshold:                r.thresholds.PriceAccuracy,
	}
}

// invoicePO returns the invoice-level PO number, if present.
func invoicePO(inv llm.Invoice) (string, bool) {
	details, _ := inv["invoice_details"].(map[string]any)
	return poString(details["po_number"])
}

// ReportPOPresence surveys where PO numbers appear: the invoice header plus
// one slot per line item.
func (r *Reconciler) ReportPOPresence(inv llm.Invoice) POPresence {
	items := inv.LineItems()
	totalLocations := 1 + len(items)
	missing := 0

	var invoiceLevel *string
	if po, ok := invoicePO(inv); ok {
		invoiceLevel = &po
	} else {
		missing++
	}

	lineLevel := []string{}
	for _, item := range items {
		if po, ok := poString(item["po_number"]); ok {
			lineLevel = append(lineLevel, po)
		} else {
			missing++
		}
	}

	status := POStatusPartial
	switch missing {
	case totalLocations:
		status = POStatusMissing
	case 0:
		status = POStatusComplete
	}

	return POPresence{
		Status:           status,
		MissingLocations: missing,
		TotalLocations:   totalLocations,
		CoveragePercent:  round2(float64(totalLocations-missing) / float64(totalLocations) * 100),
		FoundPOs: FoundPOs{
			InvoiceLevel: invoiceLevel,
			LineLevel:    lineLevel,
		},
	}
}

// detectedPOs collects the unique PO numbers found anywhere on the invoice,
// preserving first-seen order so reports stay deterministic.
func detectedPOs(inv llm.Invoice) []string {
	seen := map[string]bool{}
	pos := []string{}
	add := func(po string) {
		if !seen[po] {
			seen[po] = true
			pos = append(pos, po)
		}
	}
	if po, ok := invoicePO(inv); ok {
		add(po)
	}
	for _, item := range inv.LineItems() {
		if po, ok := poString(item["po_number"]); ok {
			add(po)
		}
	}
	return pos
}

// CalculatePODetectionAccuracy scores the detected PO set against the ground
// truth list. An empty ground truth is meaningful: it asserts the document
// carries no PO, so any detection is a false positive.
func (r *Reconciler) CalculatePODetectionAccuracy(inv llm.Invoice, groundTruth []string) PODetection {
	detected := detectedPOs(inv)

	if len(groundTruth) == 0 {
		if len(detected) == 0 {
			return PODetection{
				POAccuracy:       100.0,
				MeetsRequirement: true,
				Threshold:        r.thresholds.POAccuracy,
				Scenario:         ScenarioNoPONoneDetected,
				Note:             "No PO numbers expected (ground truth empty) and none detected - Perfect match",
				MissedPOs:        []string{},
				FalseDetections:  []string{},
			}
		}
		return PODetection{
			POAccuracy:       0.0,
			MeetsRequirement: false,
			Threshold:        r.thresholds.POAccuracy,
			Scenario:         ScenarioNoPOButDetected,
			Note:             fmt.Sprintf("No PO numbers expected but %d were detected - False positives", len(detected)),
			DetectedCount:    len(detected),
			MissedPOs:        []string{},
			FalseDetections:  detected,
		}
	}

	truth := map[string]bool{}
	for _, po := range groundTruth {
		truth[po] = true
	}
	detectedSet := map[string]bool{}
	for _, po := range detected {
		detectedSet[po] = true
	}

	correct := []string{}
	falseDetections := []string{}
	for _, po := range detected {
		if truth[po] {
			correct = append(correct, po)
		} else {
			falseDetections = append(falseDetections, po)
		}
	}
	missed := []string{}
	for _, po := range groundTruth {
		if !detectedSet[po] {
			missed = append(missed, po)
		}
	}

	accuracy := float64(len(correct)) / float64(len(groundTruth)) * 100

	return PODetection{
		POAccuracy:        round2(accuracy),
		MeetsRequirement:  accuracy >= r.thresholds.POAccuracy,
		Threshold:         r.thresholds.POAccuracy,
		Scenario:          ScenarioNormal,
		GroundTruthCount:  len(groundTruth),
		DetectedCount:     len(detected),
		CorrectDetections: len(correct),
		MissedPOs:         missed,
		FalseDetections:   falseDetections,
		Details: &PODetails{
			GroundTruth: groundTruth,
			Detected:    detected,
			Correct:     correct,
		},
	}
}

// healthScore condenses the report into one 0-100 integer. A failed PO check
// is not penalized when the ground truth expected no PO and none was found.
func (r *Reconciler) healthScore(price PriceAccuracy, po PODetection, anomalyCount int) int {
	score := 100.0

	if !price.MeetsRequirement {
		score -= (100 - price.OverallPriceAccuracy) * r.thresholds.HealthWeight
	}
	if !po.MeetsRequirement && po.Scenario != ScenarioNoPONoneDetected {
		score -= (100 - po.POAccuracy) * r.thresholds.HealthWeight
	}

	penalty := anomalyCount * r.thresholds.AnomalyPenalty
	if penalty > r.thresholds.AnomalyCap {
		penalty = r.thresholds.AnomalyCap
	}
	score -= float64(penalty)

	if score < 0 {
		return 0
	}
	return int(score)
}

// GenerateReport runs every check, assembles the validation report, and
// returns a copy of the invoice with the report embedded under
// "validation_report". The input invoice is never mutated.
func (r *Reconciler) GenerateReport(inv llm.Invoice, groundTruth []string, filename string) llm.Invoice {
	lineIssues := r.CheckLineItemConsistency(inv)
	totalConsistency := r.CheckTotalConsistency(inv)
	priceAccuracy := r.CalculatePriceAccuracy(inv)
	poDetection := r.CalculatePODetectionAccuracy(inv, groundTruth)
	poPresence := r.ReportPOPresence(inv)
	health := r.healthScore(priceAccuracy, poDetection, len(lineIssues))

	summary := Summary{
		PriceAccuracyStatus: passFail(priceAccuracy.MeetsRequirement),
		PODetectionStatus:   passFail(poDetection.MeetsRequirement),
		HealthScore:         health,
	}

	report := Report{
		Metadata: Metadata{
			Filename:            filename,
			ValidationTimestamp: r.now().Format(time.RFC3339),
		},
		Summary: summary,
		PriceValidation: PriceValidation{
			AccuracyMetrics:        priceAccuracy,
			LineItemIssues:         lineIssues,
			TotalCalculationIssues: totalConsistency,
		},
		POValidation: POValidation{
			DetectionMetrics: poDetection,
			PresenceAnalysis: poPresence,
		},
	}

	r.logger.Info("recon.report.generated",
		"filename", filename,
		"health_score", health,
		"price_status", summary.PriceAccuracyStatus,
		"po_status", summary.PODetectionStatus,
		"line_item_issues", len(lineIssues),
	)

	enriched := make(llm.Invoice, len(inv)+1)
	for k, v := range inv {
		enriched[k] = v
	}
	enriched["validation_report"] = report
	return enriched
}

func passFail(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
