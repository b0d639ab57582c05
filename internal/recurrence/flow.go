package recurrence

import (
	"context"
	"fmt"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// FlowState is the delete-confirmation flow state.
type FlowState int

const (
	// FlowIdle means no delete is in flight.
	FlowIdle FlowState = iota
	// FlowAwaitingScope means a series delete needs a scope choice.
	FlowAwaitingScope
	// FlowResolved means the last delete completed.
	FlowResolved
)

// DeleteFlow drives the delete-confirmation state machine:
//
//	Idle -> AwaitingScopeChoice -> Resolved   (recurring appointment)
//	Idle -> Resolved                          (one-off appointment)
//
// Cancelling from AwaitingScopeChoice returns to Idle without mutation.
// DeleteFlow is not safe for concurrent use; callers serialize access.
type DeleteFlow struct {
	resolver *Resolver
	state    FlowState
	pending  *models.Appointment
}

// NewDeleteFlow creates an idle flow.
func NewDeleteFlow(resolver *Resolver) *DeleteFlow {
	return &DeleteFlow{resolver: resolver}
}

// State returns the current flow state.
func (f *DeleteFlow) State() FlowState {
	return f.state
}

// Pending returns the appointment awaiting a scope choice, if any.
func (f *DeleteFlow) Pending() *models.Appointment {
	return f.pending
}

// Request starts a delete. One-off appointments are removed immediately and
// the flow resolves; recurring appointments park in AwaitingScopeChoice and
// scopeRequired is true. Re-requesting the appointment already pending is a
// no-op; requesting a different appointment while one is pending fails.
func (f *DeleteFlow) Request(ctx context.Context, a models.Appointment) (scopeRequired bool, err error) {
	if f.state == FlowAwaitingScope {
		if f.pending != nil && f.pending.ID == a.ID {
			return true, nil
		}
		return false, fmt.Errorf("a delete is already awaiting a scope choice")
	}

	if ClassifyDelete(a) == DeleteSeriesEligible {
		f.pending = &a
		f.state = FlowAwaitingScope
		return true, nil
	}

	if err := f.resolver.ResolveDelete(ctx, a, ScopeSingle); err != nil {
		f.state = FlowIdle
		return false, err
	}
	f.state = FlowResolved
	return false, nil
}

// Resolve applies the chosen scope to the pending delete.
func (f *DeleteFlow) Resolve(ctx context.Context, scope Scope) error {
	if f.state != FlowAwaitingScope || f.pending == nil {
		return fmt.Errorf("no delete awaiting a scope choice")
	}

	if err := f.resolver.ResolveDelete(ctx, *f.pending, scope); err != nil {
		return err
	}
	f.pending = nil
	f.state = FlowResolved
	return nil
}

// Cancel abandons a pending scope choice without mutation.
func (f *DeleteFlow) Cancel() {
	if f.state == FlowAwaitingScope {
		f.pending = nil
		f.state = FlowIdle
	}
}
