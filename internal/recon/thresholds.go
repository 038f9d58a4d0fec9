package recon

// Thresholds are the tunable business limits the reconciliation checks score
// against. They are configuration, not structural invariants.
type Thresholds struct {
	// PriceAccuracy is the minimum overall price accuracy percent for a PASS.
	PriceAccuracy float64
	// POAccuracy is the minimum PO detection accuracy percent for a PASS.
	POAccuracy float64
	// SeverityPercent separates "low" from "high" line-item deviations.
	SeverityPercent float64
	// HealthWeight scales the accuracy shortfall subtracted from the health
	// score for each failed requirement.
	HealthWeight float64
	// AnomalyPenalty is the health-score cost per line-item inconsistency.
	AnomalyPenalty int
	// AnomalyCap bounds the total anomaly penalty.
	AnomalyCap int
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceAccuracy:   95.0,
		POAccuracy:      90.0,
		SeverityPercent: 5.0,
		HealthWeight:    0.4,
		AnomalyPenalty:  5,
		AnomalyCap:      20,
	}
}
