package handler

import (
	"go.uber.org/zap"

	"fieldtrack/internal/service"
)

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth         *AuthHandler
	Attendance   *AttendanceHandler
	TimeEntry    *TimeEntryHandler
	Project      *ProjectHandler
	Battery      *BatteryHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		TimeEntry:    NewTimeEntryHandler(svc.Project, svc.Report, svc.Reminder),
		Project:      NewProjectHandler(svc.Project),
		Battery:      NewBatteryHandler(svc.Battery),
		Notification: NewNotificationHandler(svc.Reminder),
		Export:       NewExportHandler(svc.Export, logger),
	}
}
