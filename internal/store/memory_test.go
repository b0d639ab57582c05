package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

func validCreate() CreateCommand {
	return CreateCommand{
		TenantID:    "t1",
		TherapistID: "th1",
		PatientID:   "p1",
		Title:       "Knee evaluation",
		Start:       time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		End:         time.Date(2026, 3, 10, 9, 45, 0, 0, time.UTC),
	}
}

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestCreate_Defaults(t *testing.T) {
	s := NewMemoryStore()

	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, models.StatusScheduled, a.Status)
	assert.Equal(t, models.TypeTreatment, a.Type)
	assert.Empty(t, a.RecurringID)
}

func TestCreate_Validation(t *testing.T) {
	s := NewMemoryStore()

	cases := []struct {
		name   string
		mutate func(*CreateCommand)
		field  string
	}{
		{"missing tenant", func(c *CreateCommand) { c.TenantID = "" }, "tenantId"},
		{"missing therapist", func(c *CreateCommand) { c.TherapistID = "" }, "therapistId"},
		{"missing start", func(c *CreateCommand) { c.Start = time.Time{} }, "start"},
		{"missing end", func(c *CreateCommand) { c.End = time.Time{} }, "end"},
		{"end before start", func(c *CreateCommand) { c.End = c.Start.Add(-time.Hour) }, "end"},
		{"end equals start", func(c *CreateCommand) { c.End = c.Start }, "end"},
		{"missing patient", func(c *CreateCommand) { c.PatientID = "" }, "patientId"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd := validCreate()
			tc.mutate(&cmd)

			_, err := s.Create(context.Background(), cmd)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestCreate_TimeBlockNeedsNoPatient(t *testing.T) {
	s := NewMemoryStore()
	cmd := validCreate()
	cmd.PatientID = ""
	cmd.Type = models.TypeTimeBlock
	cmd.Title = "Lunch"

	a, err := s.Create(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, a.IsTimeBlock())
	assert.Empty(t, a.PatientID)
}

func TestList_SortedByStart(t *testing.T) {
	s := NewMemoryStore()
	late := validCreate()
	late.Start = late.Start.Add(3 * time.Hour)
	late.End = late.End.Add(3 * time.Hour)

	_, err := s.Create(context.Background(), late)
	require.NoError(t, err)
	early, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	// A second tenant's data must never leak into the listing.
	other := validCreate()
	other.TenantID = "t2"
	_, err = s.Create(context.Background(), other)
	require.NoError(t, err)

	got, err := s.List(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
}

func TestGet_WrongTenantIsNotFound(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "t2", a.ID)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, a.ID, nfe.ID)

	got, err := s.Get(context.Background(), "t1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
}

func TestUpdate_MergesOnlySetFields(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	newStart := a.StartTime.Add(time.Hour)
	updated, err := s.Update(context.Background(), "t1", UpdateCommand{
		ID:    a.ID,
		Title: strPtr("Knee re-check"),
		Start: timePtr(newStart),
		End:   timePtr(newStart.Add(30 * time.Minute)),
	})
	require.NoError(t, err)

	assert.Equal(t, "Knee re-check", updated.Title)
	assert.True(t, updated.StartTime.Equal(newStart))
	// Untouched fields survive the merge.
	assert.Equal(t, a.PatientID, updated.PatientID)
	assert.Equal(t, a.TherapistID, updated.TherapistID)
	assert.Equal(t, a.Status, updated.Status)
}

func TestUpdate_RejectsInvertedIntervalAgainstStored(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	// Only Start moves; merged against the stored End it inverts the interval.
	_, err = s.Update(context.Background(), "t1", UpdateCommand{
		ID:    a.ID,
		Start: timePtr(a.EndTime.Add(time.Hour)),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// The stored record is untouched after the rejection.
	stored, err := s.Get(context.Background(), "t1", a.ID)
	require.NoError(t, err)
	assert.True(t, stored.StartTime.Equal(a.StartTime))
}

func TestUpdate_UnknownID(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Update(context.Background(), "t1", UpdateCommand{ID: "nope", Title: strPtr("x")})
	var nfe *NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestRemove_Idempotent(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "t1", a.ID))
	require.NoError(t, s.Remove(context.Background(), "t1", a.ID))
	require.NoError(t, s.Remove(context.Background(), "t1", "never-existed"))

	got, err := s.List(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemove_WrongTenantLeavesRecord(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, s.Remove(context.Background(), "t2", a.ID))

	_, err = s.Get(context.Background(), "t1", a.ID)
	assert.NoError(t, err)
}

func TestCreateSeries_PreservesTimeOfDayAndDuration(t *testing.T) {
	s := NewMemoryStore()
	cmd := validCreate()
	dates := []time.Time{
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC),
	}

	created, err := s.CreateSeries(context.Background(), cmd, dates)
	require.NoError(t, err)
	require.Len(t, created, 3)

	recurringID := created[0].RecurringID
	require.NotEmpty(t, recurringID)
	for i, a := range created {
		assert.Equal(t, recurringID, a.RecurringID)
		assert.Equal(t, dates[i].Day(), a.StartTime.Day())
		assert.Equal(t, 9, a.StartTime.Hour())
		assert.Equal(t, 45*time.Minute, a.EndTime.Sub(a.StartTime))
	}
}

func TestCreateSeries_EmptyDates(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.CreateSeries(context.Background(), validCreate(), nil)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestRemoveSeries_FutureOnly(t *testing.T) {
	s := NewMemoryStore()
	dates := []time.Time{
		time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
	}
	created, err := s.CreateSeries(context.Background(), validCreate(), dates)
	require.NoError(t, err)

	cutoff := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.RemoveSeries(context.Background(), "t1", created[0].RecurringID, cutoff))

	got, err := s.List(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, created[0].ID, got[0].ID)
}

func TestRemoveSeries_EmptyRecurringIDIsNoOp(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	require.NoError(t, s.RemoveSeries(context.Background(), "t1", "", time.Time{}))

	got, err := s.List(context.Background(), "t1")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestConflicts(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)

	probe := func(start, end time.Time, exclude string) []models.Appointment {
		t.Helper()
		out, cerr := s.Conflicts(context.Background(), "t1", "th1", start, end, exclude)
		require.NoError(t, cerr)
		return out
	}

	// Overlapping window reports the appointment.
	assert.Len(t, probe(a.StartTime.Add(15*time.Minute), a.EndTime.Add(15*time.Minute), ""), 1)
	// Half-open: touching at the boundary is not a conflict.
	assert.Empty(t, probe(a.EndTime, a.EndTime.Add(time.Hour), ""))
	// The appointment being edited never conflicts with itself.
	assert.Empty(t, probe(a.StartTime, a.EndTime, a.ID))

	// A different therapist's calendar is unaffected.
	out, err := s.Conflicts(context.Background(), "t1", "th2", a.StartTime, a.EndTime, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConflicts_IgnoresCancelled(t *testing.T) {
	s := NewMemoryStore()
	a, err := s.Create(context.Background(), validCreate())
	require.NoError(t, err)
	_, err = s.UpdateStatus(context.Background(), "t1", a.ID, models.StatusCancelled)
	require.NoError(t, err)

	out, err := s.Conflicts(context.Background(), "t1", "th1", a.StartTime, a.EndTime, "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReminders(t *testing.T) {
	s := NewMemoryStore()
	mar10 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	_, err := s.CreateReminder(context.Background(), models.Reminder{
		TenantID: "t1", Date: mar10, Title: "Order supplies",
	})
	require.NoError(t, err)
	_, err = s.CreateReminder(context.Background(), models.Reminder{
		TenantID: "t1", Date: mar10.AddDate(0, 0, 20), Title: "Equipment service",
	})
	require.NoError(t, err)

	// [from, to) keeps the first and excludes the second.
	got, err := s.ListReminders(context.Background(), "t1", mar10, mar10.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Order supplies", got[0].Title)
}

func TestCreateReminder_Validation(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.CreateReminder(context.Background(), models.Reminder{Date: time.Now()})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tenantId", verr.Field)

	_, err = s.CreateReminder(context.Background(), models.Reminder{TenantID: "t1"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "date", verr.Field)
}
