// Package layout converts a day's appointments into non-overlapping rendering
// rectangles for the calendar grid. All functions are pure: geometry is fully
// determined by the appointments and the visible window.
package layout

import (
	"sort"
	"time"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/models"
)

// Window bounds the visible hour range of the day grid.
type Window struct {
	StartHour int
	EndHour   int
	// MinBlockMinutes floors the rendered height so near-zero-duration blocks
	// remain clickable. Zero means DefaultMinBlockMinutes.
	MinBlockMinutes int
	// GutterPct is subtracted from each column's width to visually separate
	// columns. Zero means no gutter.
	GutterPct float64
}

// DefaultMinBlockMinutes is the smallest duration an appointment renders as.
const DefaultMinBlockMinutes = 15

// DefaultWindow is the clinic's standard visible range.
func DefaultWindow() Window {
	return Window{StartHour: 7, EndHour: 20, MinBlockMinutes: DefaultMinBlockMinutes}
}

// TotalMinutes is the length of the visible window.
func (w Window) TotalMinutes() int {
	return (w.EndHour - w.StartHour) * 60
}

// Box is one appointment's rendering rectangle. Top, Height, Left and Width
// are percentages of the day cell; Column and Columns describe the overlap
// cluster the appointment landed in.
type Box struct {
	AppointmentID string
	Top           float64
	Height        float64
	Left          float64
	Width         float64
	Column        int
	Columns       int
	// Clipped is set when the appointment was truncated to the window.
	Clipped bool

	startMin int
	endMin   int
}

// ComputeDayLayout assigns every appointment intersecting day's visible window
// to a column and computes its normalized geometry.
//
// Appointments are sorted by start ascending (end descending on ties, so
// longer appointments take the left-most column), then scanned once keeping
// the set of columns still occupied. Overlap uses half-open [start, end)
// semantics: an appointment ending at T never shares a column cluster with one
// starting at T. Each maximal cluster of transitively overlapping
// appointments shares a column count, which is the maximum number of
// appointments active at any single instant within it.
func ComputeDayLayout(appointments []models.Appointment, day time.Time, w Window) []Box {
	if w.EndHour <= w.StartHour {
		return nil
	}
	minBlock := w.MinBlockMinutes
	if minBlock <= 0 {
		minBlock = DefaultMinBlockMinutes
	}
	total := w.TotalMinutes()

	winStart := time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, 0, 0, 0, day.Location())
	winEnd := time.Date(day.Year(), day.Month(), day.Day(), w.EndHour, 0, 0, 0, day.Location())

	boxes := make([]Box, 0, len(appointments))
	for _, a := range appointments {
		if !visible(a, winStart, winEnd) {
			continue
		}
		startMin := int(a.StartTime.Sub(winStart).Minutes())
		endMin := int(a.EndTime.Sub(winStart).Minutes())

		b := Box{AppointmentID: a.ID, startMin: startMin, endMin: endMin}
		if startMin < 0 {
			b.startMin = 0
			b.Clipped = true
		}
		if endMin > total {
			b.endMin = total
			b.Clipped = true
		}
		boxes = append(boxes, b)
	}

	sort.Slice(boxes, func(i, j int) bool {
		if boxes[i].startMin != boxes[j].startMin {
			return boxes[i].startMin < boxes[j].startMin
		}
		if boxes[i].endMin != boxes[j].endMin {
			return boxes[i].endMin > boxes[j].endMin
		}
		return boxes[i].AppointmentID < boxes[j].AppointmentID
	})

	assignColumns(boxes)

	for i := range boxes {
		b := &boxes[i]
		b.Top = float64(b.startMin) / float64(total) * 100
		b.Height = float64(b.endMin-b.startMin) / float64(total) * 100

		minHeight := float64(minBlock) / float64(total) * 100
		if b.Height < minHeight {
			b.Height = minHeight
		}
		if b.Top+b.Height > 100 {
			b.Top = 100 - b.Height
		}

		b.Left = float64(b.Column) / float64(b.Columns) * 100
		b.Width = 100/float64(b.Columns) - w.GutterPct
	}

	return boxes
}

// visible reports whether the appointment intersects [winStart, winEnd) under
// half-open semantics. Zero-duration blocks count as visible when their
// instant falls inside the window.
func visible(a models.Appointment, winStart, winEnd time.Time) bool {
	if a.StartTime.Equal(a.EndTime) {
		return !a.StartTime.Before(winStart) && a.StartTime.Before(winEnd)
	}
	return a.StartTime.Before(winEnd) && a.EndTime.After(winStart)
}

type activeColumn struct {
	endMin int
	col    int
}

// assignColumns runs the active-column scan over boxes, which must already be
// sorted, filling Column and Columns in place.
func assignColumns(boxes []Box) {
	active := make([]activeColumn, 0, 4)
	clusterStart := 0
	clusterCols := 0

	for i := range boxes {
		b := &boxes[i]

		// Expire columns whose occupant ended at or before this start.
		keep := active[:0]
		for _, e := range active {
			if e.endMin > b.startMin {
				keep = append(keep, e)
			}
		}
		active = keep

		// An empty active set closes the previous cluster.
		if len(active) == 0 && i > clusterStart {
			for j := clusterStart; j < i; j++ {
				boxes[j].Columns = clusterCols
			}
			clusterStart = i
			clusterCols = 0
		}

		b.Column = lowestFreeColumn(active)
		if b.Column+1 > clusterCols {
			clusterCols = b.Column + 1
		}
		active = append(active, activeColumn{endMin: b.endMin, col: b.Column})
	}

	for j := clusterStart; j < len(boxes); j++ {
		boxes[j].Columns = clusterCols
	}
}

func lowestFreeColumn(active []activeColumn) int {
	for col := 0; ; col++ {
		used := false
		for _, e := range active {
			if e.col == col {
				used = true
				break
			}
		}
		if !used {
			return col
		}
	}
}

// Overlaps reports half-open interval overlap between two time ranges.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
