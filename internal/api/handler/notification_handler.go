package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

// NotificationHandler serves the caller's reminders.
type NotificationHandler struct {
	reminderSvc service.ReminderService
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(reminderSvc service.ReminderService) *NotificationHandler {
	return &NotificationHandler{reminderSvc: reminderSvc}
}

// List
// GET /api/notifications?unread_only=true
func (h *NotificationHandler) List(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	items, err := h.reminderSvc.List(c.Request.Context(), userID, req.UnreadOnly)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// MarkRead
// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.reminderSvc.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 17001, "notification not found")
	default:
		response.InternalError(c)
	}
}
