package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
)

// NotificationRepository notification data access.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, list []model.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (int64, error)
	// UserIDsNotifiedSince lists recipients of notifType created at or after since.
	UserIDsNotifiedSince(ctx context.Context, notifType string, since time.Time) ([]string, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo creates a NotificationRepository.
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) CreateBatch(ctx context.Context, list []model.Notification) error {
	if len(list) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&list, 200).Error
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var list []model.Notification
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		db = db.Where("read = ?", false)
	}
	err := db.Order("created_at DESC").Limit(100).Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ? AND user_id = ?", id, userID).
		Update("read", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepo) UserIDsNotifiedSince(ctx context.Context, notifType string, since time.Time) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Distinct("user_id").
		Where("type = ? AND created_at >= ?", notifType, since).
		Pluck("user_id", &ids).Error
	return ids, err
}

// DayStatusRepository day close/open data access.
type DayStatusRepository interface {
	// Get returns the row for day, or gorm.ErrRecordNotFound.
	Get(ctx context.Context, day time.Time) (*model.DayStatus, error)
	Upsert(ctx context.Context, ds *model.DayStatus) error
}

type dayStatusRepo struct {
	db *gorm.DB
}

// NewDayStatusRepo creates a DayStatusRepository.
func NewDayStatusRepo(db *gorm.DB) DayStatusRepository {
	return &dayStatusRepo{db: db}
}

func (r *dayStatusRepo) Get(ctx context.Context, day time.Time) (*model.DayStatus, error) {
	var ds model.DayStatus
	err := r.db.WithContext(ctx).
		Where("day = ?", day.Format("2006-01-02")).
		First(&ds).Error
	if err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *dayStatusRepo) Upsert(ctx context.Context, ds *model.DayStatus) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "day"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_closed", "closed_by", "closed_at", "opened_by", "opened_at", "updated_at"}),
		}).
		Create(ds).Error
}
