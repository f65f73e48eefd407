// Package alerting holds the fixed clinical threshold rules and the pure
// evaluator that turns one vital-sign reading into zero or more alerts.
// Thresholds are policy constants, not per-user configuration.
package alerting

import (
	"fmt"
	"time"

	"adaptiv/internal/domain/entity"

	"github.com/google/uuid"
)

// Clinical thresholds.
const (
	// HighHeartRateThreshold is the tachycardia ceiling in BPM.
	HighHeartRateThreshold = 180.0
	// LowSpO2Threshold is the blood oxygen floor in percent.
	LowSpO2Threshold = 90.0
	// HighSystolicThreshold is the hypertension ceiling in mmHg.
	HighSystolicThreshold = 160.0
)

// Evaluate applies every threshold rule to one reading and returns an alert
// for each rule that fires. It is pure: persistence, deduplication and
// transactional semantics belong to the caller, which must store the whole
// batch atomically.
func Evaluate(accountID uuid.UUID, reading *entity.VitalSign, now time.Time) []*entity.Alert {
	var alerts []*entity.Alert

	if float64(reading.HeartRate) > HighHeartRateThreshold {
		alerts = append(alerts, &entity.Alert{
			AccountID:      accountID,
			Type:           entity.AlertHighHeartRate,
			Severity:       entity.SeverityCritical,
			Title:          "High Heart Rate",
			Message:        fmt.Sprintf("Heart rate of %d BPM exceeds the safe threshold of %.0f BPM.", reading.HeartRate, HighHeartRateThreshold),
			ActionRequired: "Stop activity and rest. Seek medical attention if the rate does not drop.",
			TriggerValue:   float64(reading.HeartRate),
			ThresholdValue: HighHeartRateThreshold,
			CreatedAt:      now,
		})
	}

	if reading.SpO2 != nil && *reading.SpO2 < LowSpO2Threshold {
		alerts = append(alerts, &entity.Alert{
			AccountID:      accountID,
			Type:           entity.AlertLowSpO2,
			Severity:       entity.SeverityCritical,
			Title:          "Low Blood Oxygen",
			Message:        fmt.Sprintf("SpO2 of %.1f%% is below the safe floor of %.0f%%.", *reading.SpO2, LowSpO2Threshold),
			ActionRequired: "Sit down and breathe slowly. Contact your care team if the level stays low.",
			TriggerValue:   *reading.SpO2,
			ThresholdValue: LowSpO2Threshold,
			CreatedAt:      now,
		})
	}

	if reading.SystolicBP != nil && float64(*reading.SystolicBP) > HighSystolicThreshold {
		alerts = append(alerts, &entity.Alert{
			AccountID:      accountID,
			Type:           entity.AlertHighBloodPressure,
			Severity:       entity.SeverityWarning,
			Title:          "High Blood Pressure",
			Message:        fmt.Sprintf("Systolic pressure of %d mmHg exceeds the threshold of %.0f mmHg.", *reading.SystolicBP, HighSystolicThreshold),
			ActionRequired: "Rest and re-measure in 15 minutes. Contact your clinician if readings stay elevated.",
			TriggerValue:   float64(*reading.SystolicBP),
			ThresholdValue: HighSystolicThreshold,
			CreatedAt:      now,
		})
	}

	return alerts
}
