package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

const defaultRecentLimit = 20

// AttendanceHandler serves check-in, check-out and presence queries.
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler creates an AttendanceHandler.
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// CheckIn
// POST /api/time-entries/check-in
func (h *AttendanceHandler) CheckIn(c *gin.Context) {
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.CheckIn(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, result)
}

// CheckOut
// POST /api/time-entries/check-out
func (h *AttendanceHandler) CheckOut(c *gin.Context) {
	var req dto.CheckOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.attendanceSvc.CheckOut(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// CurrentStatus
// GET /api/attendance/current-status
func (h *AttendanceHandler) CurrentStatus(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	status, err := h.attendanceSvc.CurrentStatus(c.Request.Context(), userID)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, status)
}

// Recent lists the latest check-in and check-out events.
// GET /api/attendance/recent?limit=20
func (h *AttendanceHandler) Recent(c *gin.Context) {
	var req dto.RecentActivityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultRecentLimit
	}

	items, err := h.attendanceSvc.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.Conflict(c, 12001, "already checked in")
	case errors.Is(err, service.ErrInvalidPhoto):
		response.BadRequest(c, 12002, "photo is not a valid image")
	case errors.Is(err, service.ErrPhotoTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, 12003, "photo too large")
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "project not found")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11002, "user not found")
	default:
		response.InternalError(c)
	}
}
