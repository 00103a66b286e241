package model

import "time"

// Project field engagement — projects
type Project struct {
	ProjectID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"project_id"`
	Name                 string     `gorm:"type:varchar(200);not null"                     json:"name"`
	Description          string     `gorm:"type:text;not null;default:''"                  json:"description"`
	Client               string     `gorm:"type:varchar(200);not null;default:''"          json:"client"`
	Status               string     `gorm:"type:varchar(20);not null;default:'activo'"     json:"status"`       // activo | en-progreso | completado
	ProjectType          string     `gorm:"type:varchar(10);not null"                      json:"project_type"` // bench | patios
	CompanyID            *string    `gorm:"type:uuid"                                      json:"company_id,omitempty"`
	StartDate            *time.Time `                                                      json:"start_date,omitempty"`
	EndDate              *time.Time `                                                      json:"end_date,omitempty"`
	TotalParts           int        `gorm:"not null"                                       json:"total_parts"`
	CompletedParts       int        `gorm:"not null;default:0"                             json:"completed_parts"`
	Progress             float64    `gorm:"not null;default:0"                             json:"progress"`
	LastTechnicianName   *string    `gorm:"type:varchar(255)"                              json:"last_technician_name,omitempty"`
	LastTechnicianDate   *time.Time `                                                      json:"last_technician_date,omitempty"`
	LastTechnicianAction *string    `gorm:"type:varchar(255)"                              json:"last_technician_action,omitempty"`
	CreatedBy            *string    `gorm:"type:uuid"                                      json:"created_by,omitempty"`
	VersionedModel

	Location    *ProjectLocation    `gorm:"foreignKey:ProjectID;references:ProjectID" json:"location,omitempty"`
	Equipment   []ProjectEquipment  `gorm:"foreignKey:ProjectID;references:ProjectID" json:"equipment,omitempty"`
	Documents   []ProjectDocument   `gorm:"foreignKey:ProjectID;references:ProjectID" json:"documents,omitempty"`
	Assignments []ProjectAssignment `gorm:"foreignKey:ProjectID;references:ProjectID" json:"assignments,omitempty"`
}

// TableName table name.
func (Project) TableName() string { return "projects" }

// IsCompleted reports the terminal state.
func (p *Project) IsCompleted() bool { return p.Status == ProjectStatusCompleted }

// StampTechnician records the most recent technician action.
func (p *Project) StampTechnician(name, action string, at time.Time) {
	p.LastTechnicianName = &name
	p.LastTechnicianAction = &action
	p.LastTechnicianDate = &at
}

// ProjectLocation site of a project — project_locations (1:1)
type ProjectLocation struct {
	LocationID string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	ProjectID  string   `gorm:"type:uuid;not null"                             json:"project_id"`
	Name       string   `gorm:"type:varchar(200);not null;default:''"          json:"name"`
	Address    string   `gorm:"type:varchar(300);not null;default:''"          json:"address"`
	Latitude   *float64 `                                                      json:"latitude,omitempty"`
	Longitude  *float64 `                                                      json:"longitude,omitempty"`
	BaseModel
}

// TableName table name.
func (ProjectLocation) TableName() string { return "project_locations" }

// ProjectEquipment equipment on site — project_equipment
type ProjectEquipment struct {
	EquipmentID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"equipment_id"`
	ProjectID    string `gorm:"type:uuid;not null"                             json:"project_id"`
	Name         string `gorm:"type:varchar(200);not null"                     json:"name"`
	Type         string `gorm:"type:varchar(100);not null;default:''"          json:"type"`
	SerialNumber string `gorm:"type:varchar(100);not null;default:''"          json:"serial_number"`
	Status       string `gorm:"type:varchar(50);not null;default:'operativo'"  json:"status"`
	BaseModel
}

// TableName table name.
func (ProjectEquipment) TableName() string { return "project_equipment" }

// ProjectDocument document reference — project_documents
type ProjectDocument struct {
	DocumentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	ProjectID  string  `gorm:"type:uuid;not null"                             json:"project_id"`
	Name       string  `gorm:"type:varchar(255);not null"                     json:"name"`
	URL        string  `gorm:"type:text;not null"                             json:"url"`
	Type       string  `gorm:"type:varchar(50);not null;default:''"           json:"type"`
	UploadedBy *string `gorm:"type:uuid"                                      json:"uploaded_by,omitempty"`
	BaseModel
}

// TableName table name.
func (ProjectDocument) TableName() string { return "project_documents" }

// ProjectAssignment technician ↔ project — project_assignments
type ProjectAssignment struct {
	AssignmentID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ProjectID    string  `gorm:"type:uuid;not null"                             json:"project_id"`
	UserID       string  `gorm:"type:uuid;not null"                             json:"user_id"`
	AssignedBy   *string `gorm:"type:uuid"                                      json:"assigned_by,omitempty"`
	BaseModel

	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName table name.
func (ProjectAssignment) TableName() string { return "project_assignments" }
