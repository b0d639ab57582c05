package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// MemoryStore is an in-memory Store implementation. It backs tests and
// embedded use; the gorm store is the production implementation.
type MemoryStore struct {
	mu           sync.RWMutex
	appointments map[string]models.Appointment
	reminders    map[string]models.Reminder
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		appointments: make(map[string]models.Appointment),
		reminders:    make(map[string]models.Reminder),
	}
}

func (s *MemoryStore) List(_ context.Context, tenantID string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Appointment, 0)
	for _, a := range s.appointments {
		if a.TenantID == tenantID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, tenantID, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.appointments[id]
	if !ok || a.TenantID != tenantID {
		return models.Appointment{}, &NotFoundError{Resource: "appointment", ID: id}
	}
	return a, nil
}

func (s *MemoryStore) Create(ctx context.Context, cmd CreateCommand) (models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return models.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(cmd, cmd.Start, cmd.End, ""), nil
}

func (s *MemoryStore) CreateSeries(ctx context.Context, cmd CreateCommand, dates []time.Time) ([]models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, &ValidationError{Field: "dates", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recurringID := uuid.New().String()
	out := make([]models.Appointment, 0, len(dates))
	for _, d := range dates {
		start, end := occurrenceAt(cmd, d)
		out = append(out, s.insert(cmd, start, end, recurringID))
	}
	return out, nil
}

// insert assumes the lock is held.
func (s *MemoryStore) insert(cmd CreateCommand, start, end time.Time, recurringID string) models.Appointment {
	now := time.Now()
	typ := cmd.Type
	if typ == "" {
		typ = models.TypeTreatment
	}
	a := models.Appointment{
		BaseModel:   models.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		TenantID:    cmd.TenantID,
		RecurringID: recurringID,
		PatientID:   cmd.PatientID,
		TherapistID: cmd.TherapistID,
		Title:       cmd.Title,
		StartTime:   start,
		EndTime:     end,
		Type:        typ,
		Status:      models.StatusScheduled,
		Notes:       cmd.Notes,
	}
	s.appointments[a.ID] = a
	return a
}

func (s *MemoryStore) Update(_ context.Context, tenantID string, cmd UpdateCommand) (models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return models.Appointment{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.appointments[cmd.ID]
	if !ok || existing.TenantID != tenantID {
		return models.Appointment{}, &NotFoundError{Resource: "appointment", ID: cmd.ID}
	}
	merged, err := cmd.apply(existing)
	if err != nil {
		return models.Appointment{}, err
	}
	merged.UpdatedAt = time.Now()
	s.appointments[merged.ID] = merged
	return merged, nil
}

func (s *MemoryStore) UpdateStatus(_ context.Context, tenantID, id string, st models.AppointmentStatus) (models.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.appointments[id]
	if !ok || a.TenantID != tenantID {
		return models.Appointment{}, &NotFoundError{Resource: "appointment", ID: id}
	}
	a.Status = st
	a.UpdatedAt = time.Now()
	s.appointments[id] = a
	return a, nil
}

func (s *MemoryStore) Remove(_ context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.appointments[id]; ok && a.TenantID == tenantID {
		delete(s.appointments, id)
	}
	return nil
}

func (s *MemoryStore) RemoveSeries(_ context.Context, tenantID, recurringID string, from time.Time) error {
	if recurringID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, a := range s.appointments {
		if a.TenantID == tenantID && a.RecurringID == recurringID && !a.StartTime.Before(from) {
			delete(s.appointments, id)
		}
	}
	return nil
}

func (s *MemoryStore) Conflicts(_ context.Context, tenantID, therapistID string, start, end time.Time, excludeID string) ([]models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	probe := models.Appointment{StartTime: start, EndTime: end}
	var out []models.Appointment
	for _, a := range s.appointments {
		if a.TenantID != tenantID || a.TherapistID != therapistID || a.ID == excludeID {
			continue
		}
		if a.Status.Active() && a.Overlaps(probe) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (s *MemoryStore) ListReminders(_ context.Context, tenantID string, from, to time.Time) ([]models.Reminder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Reminder
	for _, r := range s.reminders {
		if r.TenantID == tenantID && !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemoryStore) CreateReminder(_ context.Context, reminder models.Reminder) (models.Reminder, error) {
	if reminder.TenantID == "" {
		return models.Reminder{}, &ValidationError{Field: "tenantId", Reason: "is required"}
	}
	if reminder.Date.IsZero() {
		return models.Reminder{}, &ValidationError{Field: "date", Reason: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	reminder.ID = uuid.New().String()
	reminder.CreatedAt = now
	reminder.UpdatedAt = now
	s.reminders[reminder.ID] = reminder
	return reminder, nil
}
