package repository

import (
	"context"

	"gorm.io/gorm"

	"fieldtrack/internal/model"
)

// AssignmentRepository technician assignment data access.
type AssignmentRepository interface {
	Create(ctx context.Context, a *model.ProjectAssignment) error
	Get(ctx context.Context, projectID, userID string) (*model.ProjectAssignment, error)
	ListByProject(ctx context.Context, projectID string) ([]model.ProjectAssignment, error)
	Delete(ctx context.Context, projectID, userID string) (int64, error)
	DeleteByProject(ctx context.Context, projectID string) error
	// CountOtherPresent counts assignees of projectID, excluding one user,
	// whose status is presente.
	CountOtherPresent(ctx context.Context, projectID, excludeUserID string) (int64, error)
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo creates an AssignmentRepository.
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, a *model.ProjectAssignment) error {
	return r.db.WithContext(ctx).Omit("User").Create(a).Error
}

func (r *assignmentRepo) Get(ctx context.Context, projectID, userID string) (*model.ProjectAssignment, error) {
	var a model.ProjectAssignment
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *assignmentRepo) ListByProject(ctx context.Context, projectID string) ([]model.ProjectAssignment, error) {
	var list []model.ProjectAssignment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *assignmentRepo) Delete(ctx context.Context, projectID, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectAssignment{})
	return result.RowsAffected, result.Error
}

func (r *assignmentRepo) DeleteByProject(ctx context.Context, projectID string) error {
	return r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&model.ProjectAssignment{}).Error
}

func (r *assignmentRepo) CountOtherPresent(ctx context.Context, projectID, excludeUserID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.ProjectAssignment{}).
		Joins("JOIN users ON users.user_id = project_assignments.user_id").
		Where("project_assignments.project_id = ?", projectID).
		Where("project_assignments.user_id <> ?", excludeUserID).
		Where("users.status = ?", model.UserStatusPresent).
		Count(&n).Error
	return n, err
}
