package models

import (
	"time"
)

// AppointmentType categorizes an appointment on the calendar.
type AppointmentType string

const (
	TypeEvaluation   AppointmentType = "evaluation"
	TypeTreatment    AppointmentType = "treatment"
	TypeReEvaluation AppointmentType = "re_evaluation"
	TypeDischarge    AppointmentType = "discharge"
	TypeTimeBlock    AppointmentType = "time_block"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled clinic appointment or a time block.
// Occurrences generated from the same recurrence definition share RecurringID.
type Appointment struct {
	BaseModel
	TenantID    string            `gorm:"size:36;index" json:"tenantId"`
	RecurringID string            `gorm:"size:36;index" json:"recurringId,omitempty"`
	PatientID   string            `gorm:"size:36;index" json:"patientId,omitempty"` // empty for time blocks
	TherapistID string            `gorm:"size:36;index" json:"therapistId"`
	Title       string            `gorm:"size:255" json:"title"`
	StartTime   time.Time         `json:"start"`
	EndTime     time.Time         `json:"end"`
	Type        AppointmentType   `gorm:"size:20;default:'treatment'" json:"type"`
	Status      AppointmentStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	Notes       string            `gorm:"type:text" json:"notes,omitempty"`
}

// IsTimeBlock reports whether the appointment is a non-patient time block.
func (a Appointment) IsTimeBlock() bool {
	return a.Type == TypeTimeBlock
}

// IsRecurring reports whether the appointment belongs to a series.
func (a Appointment) IsRecurring() bool {
	return a.RecurringID != ""
}

// Overlaps reports whether two appointments share any time, using half-open
// [start, end) semantics: an appointment ending at T does not overlap one
// starting at T.
func (a Appointment) Overlaps(b Appointment) bool {
	return a.StartTime.Before(b.EndTime) && b.StartTime.Before(a.EndTime)
}

// Active reports whether the status still occupies calendar time for
// conflict purposes (completed and cancelled appointments do not).
func (s AppointmentStatus) Active() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress:
		return true
	}
	return false
}
