package model

import (
	"time"

	"gorm.io/datatypes"
)

// ScannedCode generic scan log — scanned_codes
type ScannedCode struct {
	ScannedCodeID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code          string    `gorm:"type:varchar(255);not null"                     json:"code"`
	Type          string    `gorm:"type:varchar(20);not null"                      json:"type"`   // barcode | qrcode
	Source        string    `gorm:"type:varchar(20);not null"                      json:"source"` // camera | usb_scanner
	ProjectID     *string   `gorm:"type:uuid"                                      json:"project_id,omitempty"`
	UserID        string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Latitude      *float64  `                                                      json:"latitude,omitempty"`
	Longitude     *float64  `                                                      json:"longitude,omitempty"`
	Status        string    `gorm:"type:varchar(50);not null;default:'ok'"         json:"status"`
	Timestamp     time.Time `gorm:"not null"                                       json:"timestamp"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"-"`
}

// TableName table name.
func (ScannedCode) TableName() string { return "scanned_codes" }

// BatteryFlow box/battery code pairing — battery_flows
type BatteryFlow struct {
	FlowID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID    *string    `gorm:"type:varchar(100)"                              json:"session_id,omitempty"`
	BoxCode      string     `gorm:"type:varchar(255);not null"                     json:"boxcode"`
	BoxCode2     *string    `gorm:"column:box_code2;type:varchar(255)"             json:"boxcode2,omitempty"`
	BatteryCode  string     `gorm:"type:varchar(255);not null"                     json:"batterycode"`
	BatteryCode2 *string    `gorm:"column:battery_code2;type:varchar(255)"         json:"batterycode2,omitempty"`
	BatteryCode3 *string    `gorm:"column:battery_code3;type:varchar(255)"         json:"batterycode3,omitempty"`
	BatteryCode4 *string    `gorm:"column:battery_code4;type:varchar(255)"         json:"batterycode4,omitempty"`
	ProjectID    string     `gorm:"type:uuid;not null"                             json:"project_id"`
	UserID       string     `gorm:"type:uuid;not null"                             json:"user_id"`
	Latitude     float64    `gorm:"not null"                                       json:"latitude"`
	Longitude    float64    `gorm:"not null"                                       json:"longitude"`
	Lat2         *float64   `gorm:"column:lat2"                                    json:"lat2,omitempty"`
	Lon2         *float64   `gorm:"column:lon2"                                    json:"lon2,omitempty"`
	Lat3         *float64   `gorm:"column:lat3"                                    json:"lat3,omitempty"`
	Lon3         *float64   `gorm:"column:lon3"                                    json:"lon3,omitempty"`
	Lat4         *float64   `gorm:"column:lat4"                                    json:"lat4,omitempty"`
	Lon4         *float64   `gorm:"column:lon4"                                    json:"lon4,omitempty"`
	Status       string     `gorm:"type:varchar(50);not null;default:'ok'"         json:"status"`
	Categorie    string     `gorm:"type:varchar(100);not null;default:''"          json:"categorie"`
	Timestamp    time.Time  `gorm:"not null"                                       json:"timestamp"`
	BoxTimestamp *time.Time `                                                      json:"boxtimestamp,omitempty"`
	BaseModel
}

// TableName table name.
func (BatteryFlow) TableName() string { return "battery_flows" }

// CheckpointEvent one physical scan at a named station — checkpoint_events
type CheckpointEvent struct {
	EventID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID        string    `gorm:"type:varchar(100);not null"                     json:"session_id"`
	CheckpointName   string    `gorm:"type:varchar(50);not null"                      json:"checkpoint_name"`
	CheckpointNumber int       `gorm:"not null"                                       json:"checkpoint_number"`
	ScannedCode      string    `gorm:"type:varchar(255);not null"                     json:"scanned_code"`
	ScanOrder        *int      `                                                      json:"scan_order,omitempty"`
	Latitude         float64   `gorm:"not null"                                       json:"latitude"`
	Longitude        float64   `gorm:"not null"                                       json:"longitude"`
	Accuracy         *float64  `                                                      json:"accuracy,omitempty"`
	Phase            string    `gorm:"type:varchar(20);not null"                      json:"phase"`
	Status           string    `gorm:"type:varchar(50);not null;default:'ok'"         json:"status"`
	Categorie        *string   `gorm:"type:varchar(100)"                              json:"categorie,omitempty"`
	UserID           string    `gorm:"type:uuid;not null"                             json:"user_id"`
	ProjectID        string    `gorm:"type:uuid;not null"                             json:"project_id"`
	Timestamp        time.Time `gorm:"not null"                                       json:"timestamp"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"-"`
}

// TableName table name.
func (CheckpointEvent) TableName() string { return "checkpoint_events" }

// QualityCheck categorization questionnaire, one per session — quality_checks
type QualityCheck struct {
	QualityCheckID   string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID        string            `gorm:"type:varchar(100);not null"                     json:"session_id"`
	UserID           string            `gorm:"type:uuid;not null"                             json:"user_id"`
	ProjectID        string            `gorm:"type:uuid;not null"                             json:"project_id"`
	Phase            string            `gorm:"type:varchar(20);not null"                      json:"phase"` // categorizacion | reempacado
	Answers          datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"               json:"answers"`
	Battery1Code     *string           `gorm:"column:battery1_code;type:varchar(255)"         json:"battery1_code,omitempty"`
	Battery1Category *string           `gorm:"column:battery1_category;type:varchar(10)"      json:"battery1_category,omitempty"`
	Battery2Code     *string           `gorm:"column:battery2_code;type:varchar(255)"         json:"battery2_code,omitempty"`
	Battery2Category *string           `gorm:"column:battery2_category;type:varchar(10)"      json:"battery2_category,omitempty"`
	AvgBoxTime       *float64          `                                                      json:"avg_box_time,omitempty"`
	Timestamp        time.Time         `gorm:"not null"                                       json:"timestamp"`
	BaseModel

	User    *User    `gorm:"foreignKey:UserID;references:UserID"       json:"-"`
	Project *Project `gorm:"foreignKey:ProjectID;references:ProjectID" json:"-"`
}

// TableName table name.
func (QualityCheck) TableName() string { return "quality_checks" }
