package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
)

// TimeEntryFilter narrows List. Zero values do not filter; the range is [From, To).
type TimeEntryFilter struct {
	UserID    string
	ProjectID string
	From      *time.Time
	To        *time.Time
}

// TimeEntryRepository time entry data access.
type TimeEntryRepository interface {
	Create(ctx context.Context, e *model.TimeEntry) error
	Update(ctx context.Context, e *model.TimeEntry) error
	// GetOpenByUser returns the most recent entry with no end time.
	GetOpenByUser(ctx context.Context, userID string) (*model.TimeEntry, error)
	List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error)
}

type timeEntryRepo struct {
	db *gorm.DB
}

// NewTimeEntryRepo creates a TimeEntryRepository.
func NewTimeEntryRepo(db *gorm.DB) TimeEntryRepository {
	return &timeEntryRepo{db: db}
}

func (r *timeEntryRepo) Create(ctx context.Context, e *model.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *timeEntryRepo) Update(ctx context.Context, e *model.TimeEntry) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *timeEntryRepo) GetOpenByUser(ctx context.Context, userID string) (*model.TimeEntry, error) {
	var e model.TimeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		Order("start_time DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *timeEntryRepo) List(ctx context.Context, filter TimeEntryFilter) ([]model.TimeEntry, error) {
	var list []model.TimeEntry
	db := r.db.WithContext(ctx).Preload("User").Preload("Project")

	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.ProjectID != "" {
		db = db.Where("project_id = ?", filter.ProjectID)
	}
	if filter.From != nil {
		db = db.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		db = db.Where("start_time < ?", *filter.To)
	}

	err := db.Order("start_time DESC").Find(&list).Error
	return list, err
}
