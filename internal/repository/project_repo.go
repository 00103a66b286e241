package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
	pkgerrors "fieldtrack/pkg/errors"
)

// ProjectFilter narrows List by visibility. Empty fields do not filter.
type ProjectFilter struct {
	CompanyID      string
	AssignedUserID string
	Status         string
}

// ProjectRepository project aggregate data access.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	GetByID(ctx context.Context, id string) (*model.Project, error)
	// GetByIDForUpdate locks the project row without preloading children.
	GetByIDForUpdate(ctx context.Context, id string) (*model.Project, error)
	// GetByIDForShare holds a shared lock so the row cannot be deleted while
	// children referencing it are written.
	GetByIDForShare(ctx context.Context, id string) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]model.Project, error)
	// Update writes mutable state guarded by the version column.
	Update(ctx context.Context, project *model.Project) error
	// UpdateProgress writes progress only if completed_parts still equals expectCompleted.
	UpdateProgress(ctx context.Context, id string, expectCompleted int, progress float64) (bool, error)
	Delete(ctx context.Context, id string) error

	CreateLocation(ctx context.Context, loc *model.ProjectLocation) error
	CreateEquipment(ctx context.Context, items []model.ProjectEquipment) error
	CreateDocuments(ctx context.Context, docs []model.ProjectDocument) error
	DeleteLocation(ctx context.Context, projectID string) error
	DeleteEquipment(ctx context.Context, projectID string) error
	DeleteDocuments(ctx context.Context, projectID string) error
}

type projectRepo struct {
	db *gorm.DB
}

// NewProjectRepo creates a ProjectRepository.
func NewProjectRepo(db *gorm.DB) ProjectRepository {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Preload("Location").
		Preload("Equipment").
		Preload("Documents").
		Preload("Assignments.User").
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) GetByIDForShare(ctx context.Context, id string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("project_id = ?", id).
		First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) List(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	var projects []model.Project
	db := r.db.WithContext(ctx).Preload("Location")

	if filter.CompanyID != "" {
		db = db.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.AssignedUserID != "" {
		db = db.Where("project_id IN (?)",
			r.db.Model(&model.ProjectAssignment{}).
				Select("project_id").
				Where("user_id = ?", filter.AssignedUserID),
		)
	}

	err := db.Order("created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *projectRepo) Update(ctx context.Context, project *model.Project) error {
	oldVersion := project.Version
	result := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ? AND version = ?", project.ProjectID, oldVersion).
		Updates(map[string]interface{}{
			"status":                 project.Status,
			"completed_parts":        project.CompletedParts,
			"progress":               project.Progress,
			"last_technician_name":   project.LastTechnicianName,
			"last_technician_date":   project.LastTechnicianDate,
			"last_technician_action": project.LastTechnicianAction,
			"updated_at":             gorm.Expr("NOW()"),
			"version":                oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	project.Version = oldVersion + 1
	return nil
}

func (r *projectRepo) UpdateProgress(ctx context.Context, id string, expectCompleted int, progress float64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Project{}).
		Where("project_id = ? AND completed_parts = ?", id, expectCompleted).
		Updates(map[string]interface{}{
			"progress":   progress,
			"updated_at": gorm.Expr("NOW()"),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", id).
		Delete(&model.Project{}).Error
}

// ── children ──

func (r *projectRepo) CreateLocation(ctx context.Context, loc *model.ProjectLocation) error {
	return r.db.WithContext(ctx).Create(loc).Error
}

func (r *projectRepo) CreateEquipment(ctx context.Context, items []model.ProjectEquipment) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *projectRepo) CreateDocuments(ctx context.Context, docs []model.ProjectDocument) error {
	if len(docs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&docs).Error
}

func (r *projectRepo) DeleteLocation(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectLocation{}).Error
}

func (r *projectRepo) DeleteEquipment(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectEquipment{}).Error
}

func (r *projectRepo) DeleteDocuments(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).Where("project_id = ?", projectID).Delete(&model.ProjectDocument{}).Error
}
