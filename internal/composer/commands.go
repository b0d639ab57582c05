package composer

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/notify"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/recurrence"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
)

// CreateAppointment creates a one-off appointment, or a weekly series when
// weeklyCount > 1. Double-booking is permissive: conflicts only raise a
// warning notification, never a rejection.
func (c *Composer) CreateAppointment(ctx context.Context, cmd store.CreateCommand, weeklyCount int) ([]models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	c.warnOnConflict(ctx, cmd.TenantID, cmd.TherapistID, cmd, "")

	if weeklyCount > 1 {
		dates, err := recurrence.ExpandWeekly(cmd.Start, weeklyCount)
		if err != nil {
			return nil, err
		}
		created, err := c.store.CreateSeries(ctx, cmd, dates)
		if err != nil {
			return nil, c.storeFailure("Appointment", err)
		}
		return created, nil
	}

	created, err := c.store.Create(ctx, cmd)
	if err != nil {
		return nil, c.storeFailure("Appointment", err)
	}
	return []models.Appointment{created}, nil
}

// UpdateAppointment merges the set fields over the existing record.
func (c *Composer) UpdateAppointment(ctx context.Context, tenantID string, cmd store.UpdateCommand) (models.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return models.Appointment{}, err
	}
	updated, err := c.store.Update(ctx, tenantID, cmd)
	if err != nil {
		return models.Appointment{}, c.storeFailure("Appointment", err)
	}
	if updated.Status.Active() {
		conflicts, cerr := c.store.Conflicts(ctx, tenantID, updated.TherapistID, updated.StartTime, updated.EndTime, updated.ID)
		if cerr == nil && len(conflicts) > 0 {
			c.notifier.Emit(notify.LevelWarning, "Schedule conflict",
				fmt.Sprintf("therapist %s has %d overlapping appointment(s)", updated.TherapistID, len(conflicts)))
		}
	}
	return updated, nil
}

// ChangeStatus validates and applies a status transition, then persists it.
// Completion side effects run fire-and-forget inside the state machine.
func (c *Composer) ChangeStatus(ctx context.Context, tenantID, id string, to models.AppointmentStatus) (models.Appointment, error) {
	a, err := c.store.Get(ctx, tenantID, id)
	if err != nil {
		return models.Appointment{}, c.storeFailure("Appointment", err)
	}
	if err := c.machine.Apply(ctx, &a, to); err != nil {
		return models.Appointment{}, err
	}
	persisted, err := c.store.UpdateStatus(ctx, tenantID, id, a.Status)
	if err != nil {
		return models.Appointment{}, c.storeFailure("Appointment", err)
	}
	return persisted, nil
}

// deleteKey scopes pending delete confirmations to one appointment of one
// tenant. Confirmations for different appointments never contend, and a scope
// choice can only ever resolve the appointment it was requested for.
func deleteKey(tenantID, id string) string {
	return tenantID + "/" + id
}

// RequestDelete starts the delete-confirmation flow for one appointment.
// One-off appointments are removed immediately; recurring ones wait for a
// scope choice. Repeating the request for an already-pending appointment is
// a no-op that re-reports scopeRequired.
func (c *Composer) RequestDelete(ctx context.Context, tenantID, id string) (scopeRequired bool, err error) {
	a, err := c.store.Get(ctx, tenantID, id)
	if err != nil {
		return false, c.storeFailure("Appointment", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	key := deleteKey(tenantID, id)
	flow, ok := c.deleteFlows[key]
	if !ok {
		flow = recurrence.NewDeleteFlow(c.resolver)
	}
	scopeRequired, err = flow.Request(ctx, a)
	if err != nil {
		return false, c.storeFailure("Appointment", err)
	}
	if scopeRequired {
		c.deleteFlows[key] = flow
	} else {
		delete(c.deleteFlows, key)
	}
	return scopeRequired, nil
}

// ResolveDelete applies the chosen scope to the delete pending for exactly the
// named appointment. Resolving an appointment with no pending delete fails
// without touching anything.
func (c *Composer) ResolveDelete(ctx context.Context, tenantID, id string, scope recurrence.Scope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := deleteKey(tenantID, id)
	flow, ok := c.deleteFlows[key]
	if !ok {
		return fmt.Errorf("no delete awaiting a scope choice for appointment %s", id)
	}
	if err := flow.Resolve(ctx, scope); err != nil {
		return c.storeFailure("Appointment", err)
	}
	delete(c.deleteFlows, key)
	return nil
}

// CancelDelete abandons the named appointment's pending scope choice without
// mutation.
func (c *Composer) CancelDelete(tenantID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := deleteKey(tenantID, id)
	if flow, ok := c.deleteFlows[key]; ok {
		flow.Cancel()
		delete(c.deleteFlows, key)
	}
}

// DeleteFlowState exposes the confirmation flow state for one appointment.
func (c *Composer) DeleteFlowState(tenantID, id string) recurrence.FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if flow, ok := c.deleteFlows[deleteKey(tenantID, id)]; ok {
		return flow.State()
	}
	return recurrence.FlowIdle
}

func (c *Composer) warnOnConflict(ctx context.Context, tenantID, therapistID string, cmd store.CreateCommand, excludeID string) {
	conflicts, err := c.store.Conflicts(ctx, tenantID, therapistID, cmd.Start, cmd.End, excludeID)
	if err != nil || len(conflicts) == 0 {
		return
	}
	c.notifier.Emit(notify.LevelWarning, "Schedule conflict",
		fmt.Sprintf("therapist %s has %d overlapping appointment(s)", therapistID, len(conflicts)))
}

// storeFailure converts a store-layer failure into a user-visible
// notification and passes the typed error through. Validation errors surface
// inline on the form instead and never reach here.
func (c *Composer) storeFailure(title string, err error) error {
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.notifier.Emit(notify.LevelError, title, nf.Error()+"; refreshing list")
		return err
	}
	var ve *store.ValidationError
	if !errors.As(err, &ve) {
		c.notifier.Emit(notify.LevelError, title, err.Error())
	}
	return err
}
