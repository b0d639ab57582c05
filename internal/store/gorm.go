package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// GormStore is the MySQL-backed Store implementation.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a Store backed by the given gorm connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) List(ctx context.Context, tenantID string) ([]models.Appointment, error) {
	var out []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_time asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) Get(ctx context.Context, tenantID, id string) (models.Appointment, error) {
	var a models.Appointment
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Appointment{}, &NotFoundError{Resource: "appointment", ID: id}
	}
	return a, err
}

func (s *GormStore) Create(ctx context.Context, cmd CreateCommand) (models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return models.Appointment{}, err
	}

	a := newAppointment(cmd, cmd.Start, cmd.End, "")
	if err := s.DB.WithContext(ctx).Create(&a).Error; err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

func (s *GormStore) CreateSeries(ctx context.Context, cmd CreateCommand, dates []time.Time) ([]models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, &ValidationError{Field: "dates", Reason: "must not be empty"}
	}

	recurringID := uuid.New().String()
	out := make([]models.Appointment, 0, len(dates))
	for _, d := range dates {
		start, end := occurrenceAt(cmd, d)
		out = append(out, newAppointment(cmd, start, end, recurringID))
	}
	if err := s.DB.WithContext(ctx).Create(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func newAppointment(cmd CreateCommand, start, end time.Time, recurringID string) models.Appointment {
	typ := cmd.Type
	if typ == "" {
		typ = models.TypeTreatment
	}
	return models.Appointment{
		TenantID:    cmd.TenantID,
		RecurringID: recurringID,
		PatientID:   cmd.PatientID,
		TherapistID: cmd.TherapistID,
		Title:       cmd.Title,
		StartTime:   start,
		EndTime:     end,
		Type:        typ,
		Status:      models.StatusScheduled,
	}
}

func (s *GormStore) Update(ctx context.Context, tenantID string, cmd UpdateCommand) (models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return models.Appointment{}, err
	}

	existing, err := s.Get(ctx, tenantID, cmd.ID)
	if err != nil {
		return models.Appointment{}, err
	}
	merged, err := cmd.apply(existing)
	if err != nil {
		return models.Appointment{}, err
	}
	if err := s.DB.WithContext(ctx).Save(&merged).Error; err != nil {
		return models.Appointment{}, err
	}
	return merged, nil
}

func (s *GormStore) UpdateStatus(ctx context.Context, tenantID, id string, st models.AppointmentStatus) (models.Appointment, error) {
	a, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return models.Appointment{}, err
	}
	a.Status = st
	if err := s.DB.WithContext(ctx).Save(&a).Error; err != nil {
		return models.Appointment{}, err
	}
	return a, nil
}

func (s *GormStore) Remove(ctx context.Context, tenantID, id string) error {
	// Unknown ids delete zero rows, keeping removal idempotent.
	return s.DB.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.Appointment{}).Error
}

func (s *GormStore) RemoveSeries(ctx context.Context, tenantID, recurringID string, from time.Time) error {
	if recurringID == "" {
		return nil
	}
	return s.DB.WithContext(ctx).
		Where("tenant_id = ? AND recurring_id = ? AND start_time >= ?", tenantID, recurringID, from).
		Delete(&models.Appointment{}).Error
}

func (s *GormStore) Conflicts(ctx context.Context, tenantID, therapistID string, start, end time.Time, excludeID string) ([]models.Appointment, error) {
	active := []models.AppointmentStatus{models.StatusScheduled, models.StatusConfirmed, models.StatusInProgress}

	var out []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND therapist_id = ? AND id <> ? AND status IN ? AND start_time < ? AND end_time > ?",
			tenantID, therapistID, excludeID, active, end, start).
		Order("start_time asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) ListReminders(ctx context.Context, tenantID string, from, to time.Time) ([]models.Reminder, error) {
	var out []models.Reminder
	err := s.DB.WithContext(ctx).
		Where("tenant_id = ? AND date >= ? AND date < ?", tenantID, from, to).
		Order("date asc").
		Find(&out).Error
	return out, err
}

func (s *GormStore) CreateReminder(ctx context.Context, reminder models.Reminder) (models.Reminder, error) {
	if reminder.TenantID == "" {
		return models.Reminder{}, &ValidationError{Field: "tenantId", Reason: "is required"}
	}
	if reminder.Date.IsZero() {
		return models.Reminder{}, &ValidationError{Field: "date", Reason: "is required"}
	}
	if err := s.DB.WithContext(ctx).Create(&reminder).Error; err != nil {
		return models.Reminder{}, err
	}
	return reminder, nil
}
