// Package composer assembles calendar grids per view and routes commands from
// the rendering surface into the store, the status machine and the recurrence
// resolver. It is the error boundary: store failures become notifications and
// typed errors, never uncaught panics toward the surface.
package composer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/layout"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/notify"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/recurrence"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/status"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
)

// View is the active calendar view.
type View string

const (
	ViewDay    View = "day"
	ViewWeek   View = "week"
	ViewMonth  View = "month"
	ViewAgenda View = "agenda"
)

// ParseView validates a view string.
func ParseView(s string) (View, error) {
	switch View(s) {
	case ViewDay, ViewWeek, ViewMonth, ViewAgenda:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q", s)
}

// Direction is a navigation step.
type Direction string

const (
	DirPrev  Direction = "prev"
	DirNext  Direction = "next"
	DirToday Direction = "today"
)

// FilterAll passes every therapist through the resource filter.
const FilterAll = "all"

// Cell is one renderable calendar cell.
type Cell struct {
	Date         time.Time            `json:"date"`
	InMonth      bool                 `json:"inMonth"`
	Appointments []models.Appointment `json:"appointments"`
	Layout       []layout.Box         `json:"layout,omitempty"`
	Reminders    []models.Reminder    `json:"reminders,omitempty"`
}

// Grid is the full render model for one (view, reference, filter) tuple.
type Grid struct {
	View      View      `json:"view"`
	Reference time.Time `json:"reference"`
	Now       time.Time `json:"now"`
	Cells     []Cell    `json:"cells"`
}

// Config wires a Composer.
type Config struct {
	Store     store.Store
	Clock     clock.Clock
	Window    layout.Window
	WeekStart time.Weekday
	Notifier  notify.Notifier
	Machine   *status.Machine
}

// Composer orchestrates the scheduling engine for the rendering surface.
type Composer struct {
	store     store.Store
	clk       clock.Clock
	window    layout.Window
	weekStart time.Weekday
	notifier  notify.Notifier
	machine   *status.Machine
	resolver  *recurrence.Resolver

	mu          sync.Mutex
	deleteFlows map[string]*recurrence.DeleteFlow
	lastTick    time.Time
}

// New creates a Composer. Omitted config fields fall back to defaults.
func New(cfg Config) *Composer {
	if cfg.Clock == nil {
		cfg.Clock = clock.System()
	}
	if cfg.Window.TotalMinutes() <= 0 {
		cfg.Window = layout.DefaultWindow()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.Noop{}
	}
	if cfg.Machine == nil {
		cfg.Machine = status.NewMachine(nil, cfg.Notifier)
	}
	return &Composer{
		store:       cfg.Store,
		clk:         cfg.Clock,
		window:      cfg.Window,
		weekStart:   cfg.WeekStart,
		notifier:    cfg.Notifier,
		machine:     cfg.Machine,
		resolver:    recurrence.NewResolver(cfg.Store, cfg.Clock),
		deleteFlows: make(map[string]*recurrence.DeleteFlow),
	}
}

// RefreshNow records a wall-clock tick. It only updates the cached now
// indicator; nothing else is mutated.
func (c *Composer) RefreshNow(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastTick = t
}

func (c *Composer) now() time.Time {
	c.mu.Lock()
	tick := c.lastTick
	c.mu.Unlock()
	if !tick.IsZero() {
		return tick
	}
	return c.clk.Now()
}

// GridFor computes the cells and per-cell layout for the given view. The
// resource filter is applied before layout so filtered-out therapists never
// produce phantom columns.
func (c *Composer) GridFor(ctx context.Context, tenantID string, view View, ref time.Time, therapistFilter string) (Grid, error) {
	appointments, err := c.store.List(ctx, tenantID)
	if err != nil {
		return Grid{}, c.storeFailure("Schedule", err)
	}
	appointments = filterByTherapist(appointments, therapistFilter)

	now := c.now()
	grid := Grid{View: view, Reference: ref, Now: now}

	switch view {
	case ViewDay:
		grid.Cells = c.dateCells(appointments, dateOnly(ref), 1, true, ref.Month())
	case ViewWeek:
		grid.Cells = c.dateCells(appointments, c.weekStartOf(ref), 7, true, ref.Month())
	case ViewMonth:
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		grid.Cells = c.dateCells(appointments, c.weekStartOf(first), 42, false, ref.Month())
	case ViewAgenda:
		grid.Cells = agendaCells(appointments, now)
	default:
		return Grid{}, fmt.Errorf("unknown view %q", view)
	}

	if err := c.mergeReminders(ctx, tenantID, grid.Cells); err != nil {
		return Grid{}, c.storeFailure("Reminders", err)
	}
	return grid, nil
}

// dateCells builds count consecutive day cells starting at start. Layout is
// only computed for time-grid views (day/week); month cells carry lists only.
func (c *Composer) dateCells(appointments []models.Appointment, start time.Time, count int, withLayout bool, month time.Month) []Cell {
	cells := make([]Cell, 0, count)
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, i)
		dayAppts := appointmentsOn(appointments, date)
		cell := Cell{
			Date:         date,
			InMonth:      date.Month() == month,
			Appointments: dayAppts,
		}
		if withLayout {
			cell.Layout = layout.ComputeDayLayout(dayAppts, date, c.window)
		}
		cells = append(cells, cell)
	}
	return cells
}

// agendaCells groups future appointments by calendar date ascending. The
// agenda always runs from now forward and has no navigation.
func agendaCells(appointments []models.Appointment, now time.Time) []Cell {
	var cells []Cell
	byDate := make(map[time.Time]int)
	for _, a := range appointments {
		if a.StartTime.Before(now) {
			continue
		}
		date := dateOnly(a.StartTime)
		idx, ok := byDate[date]
		if !ok {
			idx = len(cells)
			byDate[date] = idx
			cells = append(cells, Cell{Date: date, InMonth: true})
		}
		cells[idx].Appointments = append(cells[idx].Appointments, a)
	}
	// Store.List is start-ordered, so cells come out date-ordered already.
	return cells
}

func (c *Composer) mergeReminders(ctx context.Context, tenantID string, cells []Cell) error {
	if len(cells) == 0 {
		return nil
	}
	from := cells[0].Date
	to := cells[len(cells)-1].Date.AddDate(0, 0, 1)
	reminders, err := c.store.ListReminders(ctx, tenantID, from, to)
	if err != nil {
		return err
	}
	for i := range cells {
		for _, r := range reminders {
			if sameDay(r.Date, cells[i].Date) {
				cells[i].Reminders = append(cells[i].Reminders, r)
			}
		}
	}
	return nil
}

// Navigate shifts the reference date by one grid unit of the active view.
// The agenda view does not navigate.
func (c *Composer) Navigate(view View, ref time.Time, dir Direction) time.Time {
	if dir == DirToday {
		return dateOnly(c.clk.Now())
	}
	step := 1
	if dir == DirPrev {
		step = -1
	}
	switch view {
	case ViewDay:
		return ref.AddDate(0, 0, step)
	case ViewWeek:
		return ref.AddDate(0, 0, 7*step)
	case ViewMonth:
		return ref.AddDate(0, step, 0)
	}
	return ref
}

func (c *Composer) weekStartOf(t time.Time) time.Time {
	d := dateOnly(t)
	diff := (int(d.Weekday()) - int(c.weekStart) + 7) % 7
	return d.AddDate(0, 0, -diff)
}

func filterByTherapist(appointments []models.Appointment, filter string) []models.Appointment {
	if filter == "" || filter == FilterAll {
		return appointments
	}
	out := make([]models.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if a.TherapistID == filter {
			out = append(out, a)
		}
	}
	return out
}

func appointmentsOn(appointments []models.Appointment, date time.Time) []models.Appointment {
	var out []models.Appointment
	for _, a := range appointments {
		if sameDay(a.StartTime, date) {
			out = append(out, a)
		}
	}
	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
