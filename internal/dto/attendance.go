package dto

// ── check-in / check-out ──

// CheckInRequest POST /api/time-entries/check-in
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Status    *string  `json:"status"    binding:"omitempty,user_status_hint"`
	Photo     *string  `json:"photo"`
	ProjectID *string  `json:"projectId" binding:"omitempty,uuid"`
}

// CheckInResponse check-in outcome.
type CheckInResponse struct {
	Message       string  `json:"message"`
	AttendanceID  string  `json:"attendance_id"`
	TimeEntryID   *string `json:"time_entry_id"`
	UserStatus    string  `json:"user_status"`
	ProjectStatus *string `json:"project_status"`
	CheckIn       string  `json:"check_in"`
}

// CheckOutRequest POST /api/time-entries/check-out
type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"  binding:"required,latitude"`
	Longitude *float64 `json:"longitude" binding:"required,longitude"`
	Photo     *string  `json:"photo"`
	ProjectID *string  `json:"projectId" binding:"omitempty,uuid"`
}

// CheckOutResponse check-out outcome. Duration is in hours.
type CheckOutResponse struct {
	Message       string   `json:"message"`
	TimeEntryID   *string  `json:"time_entry_id"`
	AttendanceID  *string  `json:"attendance_id"`
	Duration      *float64 `json:"duration"`
	UserStatus    string   `json:"user_status"`
	ProjectStatus *string  `json:"project_status"`
}

// ── manual report ──

// ReportRequest POST /api/time-entries/report
type ReportRequest struct {
	ProjectID      string  `json:"projectId"      binding:"required,uuid"`
	Hours          float64 `json:"hours"          binding:"required,gt=0,lte=24"`
	PartsCompleted int     `json:"partsCompleted" binding:"min=0"`
	Description    string  `json:"description"    binding:"max=2000"`
	Notes          string  `json:"notes"          binding:"max=2000"`
}

// ReportResponse manual report outcome.
type ReportResponse struct {
	Message         string  `json:"message"`
	TimeEntryID     string  `json:"time_entry_id"`
	ProjectProgress float64 `json:"project_progress"`
}

// ── status & activity ──

// CurrentStatusResponse GET /api/attendance/current-status
type CurrentStatusResponse struct {
	UserID          string  `json:"user_id"`
	Status          string  `json:"status"`
	CheckedIn       bool    `json:"checked_in"`
	AttendanceID    *string `json:"attendance_id"`
	CheckIn         *string `json:"check_in"`
	OpenTimeEntryID *string `json:"open_time_entry_id"`
	ProjectID       *string `json:"project_id"`
}

// RecentActivityResponse one check-in or check-out event.
type RecentActivityResponse struct {
	AttendanceID string   `json:"attendance_id"`
	UserID       string   `json:"user_id"`
	UserName     string   `json:"user_name"`
	Type         string   `json:"type"` // check-in | check-out
	Timestamp    string   `json:"timestamp"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}

// RecentActivityRequest query for GET /api/attendance/recent
type RecentActivityRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}

// GetLimit returns the limit with its default.
func (r *RecentActivityRequest) GetLimit() int {
	if r.Limit <= 0 {
		return 20
	}
	return r.Limit
}
