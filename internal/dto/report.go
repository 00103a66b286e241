package dto

// ── time entry reads ──

// TimeEntryResponse time entry; durations are hours.
type TimeEntryResponse struct {
	ID             string   `json:"id"`
	UserID         string   `json:"user_id"`
	UserName       string   `json:"user_name,omitempty"`
	ProjectID      *string  `json:"project_id,omitempty"`
	ProjectName    string   `json:"project_name,omitempty"`
	Description    string   `json:"description"`
	Notes          string   `json:"notes"`
	StartTime      string   `json:"start_time"`
	EndTime        *string  `json:"end_time"`
	Duration       *float64 `json:"duration"`
	PartsCompleted int      `json:"parts_completed"`
	EntryType      string   `json:"entry_type"`
}

// UserHoursSummary aggregated hours per user.
type UserHoursSummary struct {
	UserID     string  `json:"user_id"`
	UserName   string  `json:"user_name"`
	TotalHours float64 `json:"total_hours"`
	TotalParts int     `json:"total_parts"`
	Entries    int     `json:"entries"`
}

// PeriodReportResponse GET /api/time-entries/reports/:period
type PeriodReportResponse struct {
	Period     string              `json:"period"`
	From       string              `json:"from"`
	To         string              `json:"to"`
	TotalHours float64             `json:"total_hours"`
	TotalParts int                 `json:"total_parts"`
	ByUser     []UserHoursSummary  `json:"by_user"`
	Entries    []TimeEntryResponse `json:"entries"`
}

// ── day status ──

// DayStatusResponse day close/open state.
type DayStatusResponse struct {
	Day      string  `json:"day"`
	IsClosed bool    `json:"is_closed"`
	ClosedBy *string `json:"closed_by,omitempty"`
	ClosedAt *string `json:"closed_at,omitempty"`
	OpenedBy *string `json:"opened_by,omitempty"`
	OpenedAt *string `json:"opened_at,omitempty"`
}

// ── reminders & notifications ──

// ReminderResult outcome of a reminder sweep.
type ReminderResult struct {
	Checked  int `json:"checked"`
	Notified int `json:"notified"`
}

// NotificationResponse in-app notification.
type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NotificationListRequest query for GET /api/notifications
type NotificationListRequest struct {
	UnreadOnly bool `form:"unread_only"`
}
