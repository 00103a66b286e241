package model

import "time"

// BaseModel audit timestamps embedded by mutable tables.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VersionedModel adds an optimistic-lock counter.
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

// ── enumerations ──

// Project status.
const (
	ProjectStatusActive     = "activo"
	ProjectStatusInProgress = "en-progreso"
	ProjectStatusCompleted  = "completado"
)

// Project type.
const (
	ProjectTypeBench  = "bench"
	ProjectTypePatios = "patios"
)

// User role.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "tecnico"
	RoleClient     = "client"
	RoleDRE        = "dre"
)

// User status.
const (
	UserStatusPresent   = "presente"
	UserStatusAbsent    = "ausente"
	UserStatusEnRoute   = "en-ruta"
	UserStatusVacation  = "vacaciones"
	UserStatusSickLeave = "incapacidad"
)

// Time entry type.
const (
	EntryTypeManual    = "manual"
	EntryTypeAutomatic = "automatic"
)

// Quality check phase.
const (
	PhaseCategorization = "categorizacion"
	PhaseRepack         = "reempacado"
)

// Notification type.
const (
	NotificationReminder = "reminder"
	NotificationAlert    = "alert"
	NotificationInfo     = "info"
)

// Last-technician audit actions.
const (
	ActionAssigned = "asignado"
	ActionCheckIn  = "check-in"
	ActionCheckOut = "check-out"
	ActionReport   = "reporte"
	ActionComplete = "completado"
)
