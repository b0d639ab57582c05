package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// ValidationError describes a malformed command rejected before it reaches
// persistence.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// NotFoundError describes a mutation targeting a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// CreateCommand creates a new appointment. All required fields must be set;
// there is no partial-merge create.
type CreateCommand struct {
	TenantID    string
	TherapistID string
	PatientID   string
	Title       string
	Start       time.Time
	End         time.Time
	Type        models.AppointmentType
	Notes       string
}

// Validate checks the command's required-field contract.
func (c CreateCommand) Validate() error {
	if c.TenantID == "" {
		return &ValidationError{Field: "tenantId", Reason: "is required"}
	}
	if c.TherapistID == "" {
		return &ValidationError{Field: "therapistId", Reason: "is required"}
	}
	if c.Start.IsZero() {
		return &ValidationError{Field: "start", Reason: "is required"}
	}
	if c.End.IsZero() {
		return &ValidationError{Field: "end", Reason: "is required"}
	}
	if !c.End.After(c.Start) {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	if c.PatientID == "" && c.Type != models.TypeTimeBlock {
		return &ValidationError{Field: "patientId", Reason: "is required for non time-block appointments"}
	}
	return nil
}

// UpdateCommand merges the set fields over an existing appointment. Nil
// pointers leave the field untouched; id and tenant are immutable. Status is
// deliberately absent: status changes go through the state machine.
type UpdateCommand struct {
	ID          string
	TherapistID *string
	PatientID   *string
	Title       *string
	Start       *time.Time
	End         *time.Time
	Type        *models.AppointmentType
	Notes       *string
}

// Validate checks the command's field contract. Start/end consistency against
// the stored record is re-checked at apply time.
func (c UpdateCommand) Validate() error {
	if c.ID == "" {
		return &ValidationError{Field: "id", Reason: "is required"}
	}
	if c.Start != nil && c.End != nil && !c.End.After(*c.Start) {
		return &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return nil
}

// apply merges the command into a copy of the appointment and validates the
// resulting interval.
func (c UpdateCommand) apply(a models.Appointment) (models.Appointment, error) {
	if c.TherapistID != nil {
		a.TherapistID = *c.TherapistID
	}
	if c.PatientID != nil {
		a.PatientID = *c.PatientID
	}
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Start != nil {
		a.StartTime = *c.Start
	}
	if c.End != nil {
		a.EndTime = *c.End
	}
	if c.Type != nil {
		a.Type = *c.Type
	}
	if c.Notes != nil {
		a.Notes = *c.Notes
	}
	if !a.EndTime.After(a.StartTime) {
		return a, &ValidationError{Field: "end", Reason: "must be after start"}
	}
	return a, nil
}

// Store holds the appointment collection and the reminder overlays. All reads
// and writes are scoped by tenant.
type Store interface {
	// List returns every appointment for the tenant ordered by start time.
	List(ctx context.Context, tenantID string) ([]models.Appointment, error)
	// Get returns a single appointment or NotFoundError.
	Get(ctx context.Context, tenantID, id string) (models.Appointment, error)
	// Create inserts a one-off appointment with status scheduled.
	Create(ctx context.Context, cmd CreateCommand) (models.Appointment, error)
	// CreateSeries inserts one occurrence per date, preserving the command's
	// time-of-day and duration, all sharing a freshly assigned recurring id.
	CreateSeries(ctx context.Context, cmd CreateCommand, dates []time.Time) ([]models.Appointment, error)
	// Update merges the command's set fields over the existing record.
	Update(ctx context.Context, tenantID string, cmd UpdateCommand) (models.Appointment, error)
	// UpdateStatus persists a status value already validated by the state machine.
	UpdateStatus(ctx context.Context, tenantID, id string, status models.AppointmentStatus) (models.Appointment, error)
	// Remove deletes one appointment. Unknown ids are a no-op so deletes stay
	// idempotent.
	Remove(ctx context.Context, tenantID, id string) error
	// RemoveSeries deletes every occurrence of the series starting at or after
	// from. Past occurrences are preserved as historical record.
	RemoveSeries(ctx context.Context, tenantID, recurringID string, from time.Time) error
	// Conflicts returns active-status appointments of the therapist overlapping
	// [start, end), excluding excludeID. Used for the soft double-booking
	// warning; overlapping saves are never rejected.
	Conflicts(ctx context.Context, tenantID, therapistID string, start, end time.Time, excludeID string) ([]models.Appointment, error)

	// ListReminders returns reminders dated within [from, to).
	ListReminders(ctx context.Context, tenantID string, from, to time.Time) ([]models.Reminder, error)
	// CreateReminder inserts a reminder overlay.
	CreateReminder(ctx context.Context, reminder models.Reminder) (models.Reminder, error)
}

// occurrenceAt places the command's time-of-day and duration on the given
// calendar date.
func occurrenceAt(cmd CreateCommand, date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(),
		cmd.Start.Hour(), cmd.Start.Minute(), cmd.Start.Second(), 0, cmd.Start.Location())
	return start, start.Add(cmd.End.Sub(cmd.Start))
}
