package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

// TimeEntryHandler serves manual reports, time reports, the day lock and
// the reminder trigger.
type TimeEntryHandler struct {
	projectSvc  service.ProjectService
	reportSvc   service.ReportService
	reminderSvc service.ReminderService
}

// NewTimeEntryHandler creates a TimeEntryHandler.
func NewTimeEntryHandler(
	projectSvc service.ProjectService,
	reportSvc service.ReportService,
	reminderSvc service.ReminderService,
) *TimeEntryHandler {
	return &TimeEntryHandler{
		projectSvc:  projectSvc,
		reportSvc:   reportSvc,
		reminderSvc: reminderSvc,
	}
}

// Report logs hours and parts against a project.
// POST /api/time-entries/report
func (h *TimeEntryHandler) Report(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.projectSvc.SubmitReport(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.Created(c, result)
}

// Daily lists the caller's entries for today.
// GET /api/time-entries/daily
func (h *TimeEntryHandler) Daily(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.reportSvc.Daily(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ByPeriod aggregates hours per technician.
// GET /api/time-entries/reports/:period
func (h *TimeEntryHandler) ByPeriod(c *gin.Context) {
	report, err := h.reportSvc.ByPeriod(c.Request.Context(), c.Param("period"))
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, report)
}

// ByProject lists every entry logged on a project.
// GET /api/time-entries/project/:id
func (h *TimeEntryHandler) ByProject(c *gin.Context) {
	items, err := h.reportSvc.ByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// Calendar returns the caller's entries as an iCalendar feed.
// GET /api/time-entries/calendar.ics
func (h *TimeEntryHandler) Calendar(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	body, err := h.reportSvc.Calendar(c.Request.Context(), userID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=time-entries.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", body)
}

// DayStatus
// GET /api/time-entries/day-status
func (h *TimeEntryHandler) DayStatus(c *gin.Context) {
	status, err := h.reportSvc.DayStatus(c.Request.Context())
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, status)
}

// CloseDay
// POST /api/time-entries/close-day
func (h *TimeEntryHandler) CloseDay(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	status, err := h.reportSvc.CloseDay(c.Request.Context(), callerID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, status)
}

// OpenDay
// POST /api/time-entries/open-day
func (h *TimeEntryHandler) OpenDay(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	status, err := h.reportSvc.OpenDay(c.Request.Context(), callerID)
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, status)
}

// SendReminder runs the reminder sweep immediately.
// POST /api/time-entries/send-reminder
func (h *TimeEntryHandler) SendReminder(c *gin.Context) {
	result, err := h.reminderSvc.Sweep(c.Request.Context())
	if err != nil {
		h.handleTimeEntryError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *TimeEntryHandler) handleTimeEntryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "project not found")
	case errors.Is(err, service.ErrProjectCompleted):
		response.Conflict(c, 13003, "project already completed")
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 13006, "project was modified concurrently, retry")
	case errors.Is(err, service.ErrInvalidPeriod):
		response.BadRequest(c, 15001, "unknown report period")
	case errors.Is(err, service.ErrDayAlreadyOpen):
		response.Conflict(c, 15002, "day is not closed")
	case errors.Is(err, service.ErrDayClosed):
		response.Conflict(c, 15003, "day already closed")
	case errors.Is(err, service.ErrInvalidValue):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid value", err.Error())
	default:
		response.InternalError(c)
	}
}
