package status

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/notify"
)

// mockCreator records transaction creations and signals each call.
type mockCreator struct {
	mu    sync.Mutex
	calls []models.Transaction
	err   error
	done  chan struct{}
}

func newMockCreator(err error) *mockCreator {
	return &mockCreator{err: err, done: make(chan struct{}, 8)}
}

func (m *mockCreator) Create(_ context.Context, tx models.Transaction) error {
	m.mu.Lock()
	m.calls = append(m.calls, tx)
	m.mu.Unlock()
	m.done <- struct{}{}
	return m.err
}

func (m *mockCreator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockNotifier records emitted notifications and signals each call.
type mockNotifier struct {
	mu     sync.Mutex
	levels []notify.Level
	done   chan struct{}
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{done: make(chan struct{}, 8)}
}

func (m *mockNotifier) Emit(level notify.Level, _, _ string) {
	m.mu.Lock()
	m.levels = append(m.levels, level)
	m.mu.Unlock()
	m.done <- struct{}{}
}

func waitSignal(t *testing.T, ch chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

var allowedTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusScheduled:  {models.StatusConfirmed, models.StatusInProgress, models.StatusCancelled},
	models.StatusConfirmed:  {models.StatusInProgress, models.StatusCancelled},
	models.StatusInProgress: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

func TestTransitionTable_Exhaustive(t *testing.T) {
	all := []models.AppointmentStatus{
		models.StatusScheduled, models.StatusConfirmed, models.StatusInProgress,
		models.StatusCompleted, models.StatusCancelled,
	}
	machine := NewMachine(nil, nil)

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, ok := range allowedTransitions[from] {
				if ok == to {
					expected = true
				}
			}

			assert.Equal(t, expected, CanTransition(from, to), "%s -> %s", from, to)

			a := models.Appointment{Status: from}
			err := machine.Apply(context.Background(), &a, to)
			if expected {
				require.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, a.Status)
			} else {
				var ite *InvalidTransitionError
				require.ErrorAs(t, err, &ite, "%s -> %s", from, to)
				assert.Equal(t, from, ite.From)
				assert.Equal(t, to, ite.To)
				assert.Equal(t, from, a.Status, "rejected transition must not mutate")
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.True(t, Terminal(models.StatusCompleted))
	assert.True(t, Terminal(models.StatusCancelled))
	assert.False(t, Terminal(models.StatusScheduled))
	assert.False(t, Terminal(models.StatusConfirmed))
	assert.False(t, Terminal(models.StatusInProgress))
}

func TestApply_MutatesOnlyStatus(t *testing.T) {
	machine := NewMachine(nil, nil)
	a := models.Appointment{
		BaseModel:   models.BaseModel{ID: "a1"},
		TenantID:    "t1",
		TherapistID: "th1",
		PatientID:   "p1",
		Title:       "Session",
		Status:      models.StatusScheduled,
	}
	before := a

	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusConfirmed))

	before.Status = models.StatusConfirmed
	assert.Equal(t, before, a)
}

func TestScheduledToCompleted_Rejected(t *testing.T) {
	machine := NewMachine(nil, nil)
	a := models.Appointment{Status: models.StatusScheduled}

	err := machine.Apply(context.Background(), &a, models.StatusCompleted)

	var ite *InvalidTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, models.StatusScheduled, a.Status)
}

func TestCompletion_CreatesTransaction(t *testing.T) {
	creator := newMockCreator(nil)
	machine := NewMachine(creator, nil)
	a := models.Appointment{
		BaseModel:   models.BaseModel{ID: "a1"},
		TenantID:    "t1",
		PatientID:   "p1",
		Title:       "Shoulder treatment",
		Status:      models.StatusInProgress,
	}

	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusCompleted))
	waitSignal(t, creator.done, "transaction creation")

	creator.mu.Lock()
	defer creator.mu.Unlock()
	require.Len(t, creator.calls, 1)
	tx := creator.calls[0]
	assert.Equal(t, "t1", tx.TenantID)
	assert.Equal(t, "a1", tx.AppointmentID)
	assert.Equal(t, "p1", tx.PatientID)
	assert.Equal(t, models.TransactionPending, tx.Status)
}

func TestCompletion_BillingFailureOnlyNotifies(t *testing.T) {
	creator := newMockCreator(errors.New("billing down"))
	notifier := newMockNotifier()
	machine := NewMachine(creator, notifier)
	a := models.Appointment{Status: models.StatusInProgress}

	// The failure must not surface from Apply; the status change stands.
	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusCompleted))
	assert.Equal(t, models.StatusCompleted, a.Status)

	waitSignal(t, notifier.done, "billing failure notification")
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.levels, 1)
	assert.Equal(t, notify.LevelError, notifier.levels[0])
}

func TestNonCompletionTransitions_NoTransaction(t *testing.T) {
	creator := newMockCreator(nil)
	machine := NewMachine(creator, nil)

	a := models.Appointment{Status: models.StatusScheduled}
	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusConfirmed))
	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusInProgress))
	require.NoError(t, machine.Apply(context.Background(), &a, models.StatusCancelled))

	// Give any stray goroutine a moment before asserting.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, creator.callCount())
}
