// Package status governs appointment status transitions.
package status

import (
	"context"
	"fmt"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/billing"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/notify"
)

// InvalidTransitionError rejects a status change not present in the
// transition table.
type InvalidTransitionError struct {
	From models.AppointmentStatus
	To   models.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

// transitions is the directed transition table. Completed and cancelled are
// terminal.
var transitions = map[models.AppointmentStatus]map[models.AppointmentStatus]bool{
	models.StatusScheduled: {
		models.StatusConfirmed:  true,
		models.StatusInProgress: true,
		models.StatusCancelled:  true,
	},
	models.StatusConfirmed: {
		models.StatusInProgress: true,
		models.StatusCancelled:  true,
	},
	models.StatusInProgress: {
		models.StatusCompleted: true,
		models.StatusCancelled: true,
	},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to models.AppointmentStatus) bool {
	return transitions[from][to]
}

// Terminal reports whether the status permits no outbound transitions.
func Terminal(s models.AppointmentStatus) bool {
	return len(transitions[s]) == 0
}

// Machine applies validated status transitions and runs their side effects.
type Machine struct {
	billing  billing.Creator
	notifier notify.Notifier
}

// NewMachine creates a Machine. Both collaborators may be nil.
func NewMachine(billing billing.Creator, notifier notify.Notifier) *Machine {
	return &Machine{billing: billing, notifier: notifier}
}

// Apply mutates only the appointment's status. Entering completed triggers
// transaction creation fire-and-forget: Apply returns without waiting and a
// creation failure surfaces as a notification, never as an error here.
func (m *Machine) Apply(ctx context.Context, a *models.Appointment, to models.AppointmentStatus) error {
	if !CanTransition(a.Status, to) {
		return &InvalidTransitionError{From: a.Status, To: to}
	}
	a.Status = to

	if to == models.StatusCompleted && m.billing != nil {
		go m.createTransaction(context.WithoutCancel(ctx), *a)
	}
	return nil
}

func (m *Machine) createTransaction(ctx context.Context, a models.Appointment) {
	tx := models.Transaction{
		TenantID:      a.TenantID,
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		Description:   a.Title,
		Status:        models.TransactionPending,
	}
	if err := m.billing.Create(ctx, tx); err != nil && m.notifier != nil {
		m.notifier.Emit(notify.LevelError, "Billing",
			fmt.Sprintf("failed to create transaction for appointment %s: %v", a.ID, err))
	}
}
