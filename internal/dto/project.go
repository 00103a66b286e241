package dto

import "time"

// ── project create ──

// ProjectLocationInput initial site.
type ProjectLocationInput struct {
	Name      string   `json:"name"      binding:"max=200"`
	Address   string   `json:"address"   binding:"max=300"`
	Latitude  *float64 `json:"latitude"  binding:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" binding:"omitempty,longitude"`
}

// EquipmentInput initial equipment item.
type EquipmentInput struct {
	Name         string `json:"name"          binding:"required,max=200"`
	Type         string `json:"type"          binding:"max=100"`
	SerialNumber string `json:"serial_number" binding:"max=100"`
	Status       string `json:"status"        binding:"max=50"`
}

// DocumentInput document reference; storage is external.
type DocumentInput struct {
	Name string `json:"name" binding:"required,max=255"`
	URL  string `json:"url"  binding:"required,url"`
	Type string `json:"type" binding:"max=50"`
}

// CreateProjectRequest POST /api/projects
type CreateProjectRequest struct {
	Name          string                `json:"name"           binding:"required,min=2,max=200"`
	Description   string                `json:"description"    binding:"max=5000"`
	Client        string                `json:"client"         binding:"max=200"`
	ProjectType   string                `json:"project_type"   binding:"required,project_type"`
	CompanyID     *string               `json:"company_id"     binding:"omitempty,uuid"`
	StartDate     *time.Time            `json:"start_date"`
	EndDate       *time.Time            `json:"end_date"`
	TotalParts    int                   `json:"total_parts"    binding:"required,gt=0"`
	Location      *ProjectLocationInput `json:"location"`
	Equipment     []EquipmentInput      `json:"equipment"      binding:"omitempty,dive"`
	Documents     []DocumentInput       `json:"documents"      binding:"omitempty,dive"`
	TechnicianIDs []string              `json:"technician_ids" binding:"omitempty,dive,uuid"`
}

// ── project read ──

// TechnicianBrief assigned technician.
type TechnicianBrief struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// ProjectResponse project with children.
type ProjectResponse struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	Description          string                `json:"description"`
	Client               string                `json:"client"`
	Status               string                `json:"status"`
	ProjectType          string                `json:"project_type"`
	CompanyID            *string               `json:"company_id,omitempty"`
	StartDate            *string               `json:"start_date,omitempty"`
	EndDate              *string               `json:"end_date,omitempty"`
	TotalParts           int                   `json:"total_parts"`
	CompletedParts       int                   `json:"completed_parts"`
	Progress             float64               `json:"progress"`
	LastTechnicianName   *string               `json:"last_technician_name,omitempty"`
	LastTechnicianDate   *string               `json:"last_technician_date,omitempty"`
	LastTechnicianAction *string               `json:"last_technician_action,omitempty"`
	Location             *ProjectLocationInput `json:"location,omitempty"`
	Equipment            []EquipmentInput      `json:"equipment,omitempty"`
	Documents            []DocumentInput       `json:"documents,omitempty"`
	Technicians          []TechnicianBrief     `json:"technicians,omitempty"`
	CreatedAt            string                `json:"created_at"`
}

// ── progress ──

// ListProjectsQuery GET /api/projects
type ListProjectsQuery struct {
	Status string `form:"status" binding:"omitempty,project_status"`
}

// UpdatePartsRequest PUT /api/projects/:id/update-parts
type UpdatePartsRequest struct {
	PartsCompleted *int `json:"parts_completed" binding:"required,min=0"`
}

// UpdatePartsResponse absolute part count outcome.
type UpdatePartsResponse struct {
	ProjectID      string  `json:"project_id"`
	CompletedParts int     `json:"completed_parts"`
	Progress       float64 `json:"progress"`
}

// RecalculateResponse bulk progress recompute outcome.
type RecalculateResponse struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
}

// ── assignments ──

// AssignmentRequest POST /api/projects/:id/assignments
type AssignmentRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Action string `json:"action"  binding:"required,oneof=assign unassign"`
}

// AssignmentResponse assignment outcome. Changed is false for no-ops.
type AssignmentResponse struct {
	Message   string `json:"message"`
	ProjectID string `json:"project_id"`
	UserID    string `json:"user_id"`
	Changed   bool   `json:"changed"`
}
