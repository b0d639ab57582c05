// Package recurrence resolves series-scoped operations on recurring
// appointments and expands recurrence definitions into concrete dates.
package recurrence

import (
	"context"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
)

// Scope selects how far a delete reaches.
type Scope string

const (
	// ScopeSingle removes only the one occurrence.
	ScopeSingle Scope = "single"
	// ScopeAll removes every future occurrence of the series.
	ScopeAll Scope = "all"
)

// ParseScope validates a scope string.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case ScopeSingle, ScopeAll:
		return Scope(s), nil
	}
	return "", fmt.Errorf("unknown delete scope %q", s)
}

// DeleteClass classifies a delete request.
type DeleteClass string

const (
	DeleteSingle         DeleteClass = "single"
	DeleteSeriesEligible DeleteClass = "series-eligible"
)

// ClassifyDelete reports whether the appointment can be deleted as a series.
func ClassifyDelete(a models.Appointment) DeleteClass {
	if a.IsRecurring() {
		return DeleteSeriesEligible
	}
	return DeleteSingle
}

// Resolver executes scoped deletes against the store.
type Resolver struct {
	store store.Store
	clk   clock.Clock
}

// NewResolver creates a Resolver. A nil clock falls back to the system clock.
func NewResolver(s store.Store, clk clock.Clock) *Resolver {
	if clk == nil {
		clk = clock.System()
	}
	return &Resolver{store: s, clk: clk}
}

// ResolveDelete removes either the one occurrence or, for ScopeAll, every
// occurrence of the series starting at or after now. A series-scoped delete
// of a non-recurring appointment degrades to a single delete.
func (r *Resolver) ResolveDelete(ctx context.Context, a models.Appointment, scope Scope) error {
	if scope == ScopeAll && a.IsRecurring() {
		return r.store.RemoveSeries(ctx, a.TenantID, a.RecurringID, r.clk.Now())
	}
	return r.store.Remove(ctx, a.TenantID, a.ID)
}

// maxWeeklyOccurrences caps server-side series generation; one year of
// weekly sessions.
const maxWeeklyOccurrences = 52

// ExpandWeekly generates count weekly occurrence dates starting at start,
// preserving start's time-of-day and weekday.
func ExpandWeekly(start time.Time, count int) ([]time.Time, error) {
	if count < 1 {
		return nil, fmt.Errorf("occurrence count must be at least 1, got %d", count)
	}
	if count > maxWeeklyOccurrences {
		return nil, fmt.Errorf("occurrence count %d exceeds maximum of %d", count, maxWeeklyOccurrences)
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.WEEKLY,
		Count:   count,
		Dtstart: start,
	})
	if err != nil {
		return nil, fmt.Errorf("build weekly rule: %w", err)
	}
	return r.All(), nil
}
