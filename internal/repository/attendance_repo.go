package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
)

// AttendanceRepository attendance data access.
type AttendanceRepository interface {
	Create(ctx context.Context, a *model.Attendance) error
	Update(ctx context.Context, a *model.Attendance) error
	// GetOpenByUser returns the most recent attendance with no check-out.
	GetOpenByUser(ctx context.Context, userID string) (*model.Attendance, error)
	ListRecent(ctx context.Context, limit int) ([]model.Attendance, error)
	// UserIDsOnShiftSince lists users with a check-in at or after since or
	// an attendance still open.
	UserIDsOnShiftSince(ctx context.Context, since time.Time) ([]string, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo creates an AttendanceRepository.
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("User").Create(a).Error
}

func (r *attendanceRepo) Update(ctx context.Context, a *model.Attendance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

func (r *attendanceRepo) GetOpenByUser(ctx context.Context, userID string) (*model.Attendance, error) {
	var a model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND check_out IS NULL", userID).
		Order("created_at DESC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attendanceRepo) ListRecent(ctx context.Context, limit int) ([]model.Attendance, error) {
	var list []model.Attendance
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("GREATEST(check_in, COALESCE(check_out, check_in)) DESC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *attendanceRepo) UserIDsOnShiftSince(ctx context.Context, since time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Distinct("user_id").
		Where("check_in >= ? OR check_out IS NULL", since).
		Pluck("user_id", &ids).Error
	return ids, err
}
