package studio

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"theroom/internal/auth"
	"theroom/internal/logger"

	"github.com/gin-gonic/gin"
)

const upcomingScheduleLimit = 50

// BookedLookup reports which of the given schedule entries the member
// already holds a confirmed booking for. Satisfied by booking.Repository.
type BookedLookup interface {
	BookedScheduleIDs(ctx context.Context, userID int, scheduleIDs []int) (map[int]bool, error)
}

type Handler struct {
	repo   Repository
	booked BookedLookup
}

func NewHandler(repo Repository, booked BookedLookup) *Handler {
	return &Handler{repo: repo, booked: booked}
}

// GetSchedule godoc
// @Summary      Day schedule
// @Description  Schedule entries for one calendar day with class details and a per-member booked flag.
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Param        date  query     string  false  "Day in YYYY-MM-DD, defaults to today"
// @Success      200   {array}   ScheduleEntryWithClass
// @Failure      400   {object}  gin.H
// @Failure      500   {object}  gin.H
// @Router       /schedule [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dateStr, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	from, to := DayBounds(day, time.Local)

	entries, err := h.repo.ListEntriesForDay(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule"})
		return
	}

	if userID, ok := auth.GetUserID(c); ok && len(entries) > 0 {
		ids := make([]int, 0, len(entries))
		for _, e := range entries {
			ids = append(ids, e.ID)
		}

		booked, err := h.booked.BookedScheduleIDs(c.Request.Context(), userID, ids)
		if err != nil {
			// Degrade to an unmarked schedule rather than failing the view.
			logger.Error("failed to load booked schedule entries", "user_id", userID, "error", err)
		} else {
			for i := range entries {
				entries[i].Booked = booked[entries[i].ID]
			}
		}
	}

	c.JSON(http.StatusOK, entries)
}

// ListClasses godoc
// @Summary      Class catalog
// @Tags         schedule
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   Class
// @Failure      500  {object}  gin.H
// @Router       /classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.repo.ListClasses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load classes"})
		return
	}

	c.JSON(http.StatusOK, classes)
}

// CreateClass godoc
// @Summary      Create class definition
// @Description  Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateClassRequest  true  "Class data"
// @Success      201      {object}  Class
// @Failure      400      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, err := h.repo.CreateClass(c.Request.Context(), req.Name, req.Description, req.Capacity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}

	c.JSON(http.StatusCreated, class)
}

// ListUpcoming godoc
// @Summary      Upcoming schedule entries
// @Description  Next 50 entries from now. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   ScheduleEntryWithClass
// @Failure      500  {object}  gin.H
// @Router       /admin/schedule [get]
func (h *Handler) ListUpcoming(c *gin.Context) {
	entries, err := h.repo.ListUpcomingEntries(c.Request.Context(), upcomingScheduleLimit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load schedule"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// CreateScheduleEntry godoc
// @Summary      Create schedule entry
// @Description  Admin only. Start time in RFC3339.
// @Tags         admin
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateScheduleEntryRequest  true  "Schedule entry data"
// @Success      201      {object}  ScheduleEntry
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /admin/schedule [post]
func (h *Handler) CreateScheduleEntry(c *gin.Context) {
	var req CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	startTime, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be RFC3339"})
		return
	}

	if _, err := h.repo.GetClassByID(c.Request.Context(), req.ClassID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
		return
	}

	entry, err := h.repo.CreateEntry(c.Request.Context(), req.ClassID, startTime, req.InstructorName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create schedule entry"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// DeleteScheduleEntry godoc
// @Summary      Delete schedule entry
// @Description  Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID  path      int  true  "Schedule entry ID"
// @Success      200         {object}  gin.H
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /admin/schedule/{scheduleID} [delete]
func (h *Handler) DeleteScheduleEntry(c *gin.Context) {
	entryID, err := strconv.Atoi(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule entry ID"})
		return
	}

	if err := h.repo.DeleteEntry(c.Request.Context(), entryID); err != nil {
		if err == ErrEntryNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete schedule entry"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule entry deleted"})
}
