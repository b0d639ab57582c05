package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/clock"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/composer"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/middleware"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// ScheduleHandler serves the computed calendar grid.
type ScheduleHandler struct {
	Composer *composer.Composer
	Clock    clock.Clock
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(comp *composer.Composer, clk clock.Clock) *ScheduleHandler {
	if clk == nil {
		clk = clock.System()
	}
	return &ScheduleHandler{Composer: comp, Clock: clk}
}

const dateLayout = "2006-01-02"

// GetGrid returns the cells and per-cell layout for one view.
// Query: view=day|week|month|agenda, date=YYYY-MM-DD, therapistId=<id>|all.
func (h *ScheduleHandler) GetGrid(c *gin.Context) {
	view, err := composer.ParseView(c.DefaultQuery("view", string(composer.ViewWeek)))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ref := h.Clock.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		ref, err = time.ParseInLocation(dateLayout, dateParam, time.Local)
		if err != nil {
			utils.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	tenantID, _ := middleware.GetTenantIDFromContext(c)
	filter := c.DefaultQuery("therapistId", composer.FilterAll)

	grid, err := h.Composer.GridFor(c.Request.Context(), tenantID, view, ref, filter)
	if err != nil {
		respondEngineError(c, err)
		return
	}
	utils.Success(c, "Grid computed successfully", grid)
}

// Navigate shifts a reference date by one grid unit of the given view.
// Query: view, date, dir=prev|next|today.
func (h *ScheduleHandler) Navigate(c *gin.Context) {
	view, err := composer.ParseView(c.DefaultQuery("view", string(composer.ViewWeek)))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	ref := h.Clock.Now()
	if dateParam := c.Query("date"); dateParam != "" {
		ref, err = time.ParseInLocation(dateLayout, dateParam, time.Local)
		if err != nil {
			utils.BadRequest(c, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	dir := composer.Direction(c.DefaultQuery("dir", string(composer.DirToday)))
	switch dir {
	case composer.DirPrev, composer.DirNext, composer.DirToday:
	default:
		utils.BadRequest(c, "invalid dir, expected prev|next|today")
		return
	}

	next := h.Composer.Navigate(view, ref, dir)
	utils.Success(c, "Reference date computed", gin.H{"date": next.Format(dateLayout)})
}
