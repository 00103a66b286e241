package model

import "time"

// Attendance one check-in, closed in place at check-out — attendances
type Attendance struct {
	AttendanceID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"attendance_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	CheckIn           time.Time  `gorm:"not null"                                       json:"check_in"`
	CheckOut          *time.Time `                                                      json:"check_out,omitempty"`
	CheckInLatitude   float64    `gorm:"not null"                                       json:"check_in_latitude"`
	CheckInLongitude  float64    `gorm:"not null"                                       json:"check_in_longitude"`
	CheckOutLatitude  *float64   `                                                      json:"check_out_latitude,omitempty"`
	CheckOutLongitude *float64   `                                                      json:"check_out_longitude,omitempty"`
	PhotoCheckIn      *string    `gorm:"type:text"                                      json:"-"`
	PhotoCheckOut     *string    `gorm:"type:text"                                      json:"-"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName table name.
func (Attendance) TableName() string { return "attendances" }

// TimeEntry tracked span of work — time_entries
type TimeEntry struct {
	TimeEntryID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_entry_id"`
	UserID          string     `gorm:"type:uuid;not null"                             json:"user_id"`
	ProjectID       *string    `gorm:"type:uuid"                                      json:"project_id,omitempty"`
	AttendanceID    *string    `gorm:"type:uuid"                                      json:"attendance_id,omitempty"`
	Description     string     `gorm:"type:text;not null;default:''"                  json:"description"`
	Notes           string     `gorm:"type:text;not null;default:''"                  json:"notes"`
	StartTime       time.Time  `gorm:"not null"                                       json:"start_time"`
	EndTime         *time.Time `                                                      json:"end_time,omitempty"`
	DurationSeconds *int64     `                                                      json:"duration_seconds,omitempty"`
	PartsCompleted  int        `gorm:"not null;default:0"                             json:"parts_completed"`
	EntryType       string     `gorm:"type:varchar(20);not null;default:'manual'"     json:"entry_type"` // manual | automatic
	BaseModel

	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"user,omitempty"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"project,omitempty"`
}

// TableName table name.
func (TimeEntry) TableName() string { return "time_entries" }

// Close stamps end time and duration.
func (e *TimeEntry) Close(at time.Time) {
	e.EndTime = &at
	secs := int64(at.Sub(e.StartTime).Seconds())
	if secs < 0 {
		secs = 0
	}
	e.DurationSeconds = &secs
}

// DayStatus per-day close/open flag — day_statuses
type DayStatus struct {
	Day       time.Time  `gorm:"type:date;primaryKey"               json:"day"`
	IsClosed  bool       `gorm:"not null;default:false"             json:"is_closed"`
	ClosedBy  *string    `gorm:"type:uuid"                          json:"closed_by,omitempty"`
	ClosedAt  *time.Time `                                          json:"closed_at,omitempty"`
	OpenedBy  *string    `gorm:"type:uuid"                          json:"opened_by,omitempty"`
	OpenedAt  *time.Time `                                          json:"opened_at,omitempty"`
	UpdatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName table name.
func (DayStatus) TableName() string { return "day_statuses" }
