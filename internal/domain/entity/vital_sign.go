// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Sanity bounds for heart-rate readings. Readings outside this range are
// rejected as sensor noise before they reach the alert engine.
const (
	MinPlausibleHeartRate = 30
	MaxPlausibleHeartRate = 250
)

// VitalSign is a single telemetry reading submitted for a patient, usually
// relayed from a wearable device.
type VitalSign struct {
	ID          uuid.UUID
	AccountID   uuid.UUID // The patient this reading belongs to.
	HeartRate   int       // Beats per minute.
	SpO2        *float64  // Blood oxygen saturation, percent. Optional per device.
	SystolicBP  *int      // Systolic blood pressure, mmHg. Optional per device.
	DiastolicBP *int      // Diastolic blood pressure, mmHg. Optional per device.
	DeviceID    string    // Identifier of the source wearable.
	RecordedAt  time.Time // When the device captured the reading.
	CreatedAt   time.Time
}

// Plausible reports whether the reading passes basic sensor sanity checks.
func (v *VitalSign) Plausible() bool {
	return v.HeartRate >= MinPlausibleHeartRate && v.HeartRate <= MaxPlausibleHeartRate
}

// VitalsSummary aggregates readings over a period for dashboards.
type VitalsSummary struct {
	From          time.Time
	To            time.Time
	TotalReadings int
	AvgHeartRate  *float64
	MinHeartRate  *int
	MaxHeartRate  *int
	AvgSpO2       *float64
	MinSpO2       *float64
}
