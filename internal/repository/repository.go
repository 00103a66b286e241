package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository aggregates every data-access interface.
type Repository struct {
	db *gorm.DB

	User         UserRepository
	Project      ProjectRepository
	Assignment   AssignmentRepository
	Attendance   AttendanceRepository
	TimeEntry    TimeEntryRepository
	DayStatus    DayStatusRepository
	Notification NotificationRepository
	ScannedCode  ScannedCodeRepository
	BatteryFlow  BatteryFlowRepository
	Checkpoint   CheckpointRepository
	QualityCheck QualityCheckRepository
}

// NewRepository builds the aggregate over db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:           db,
		User:         NewUserRepo(db),
		Project:      NewProjectRepo(db),
		Assignment:   NewAssignmentRepo(db),
		Attendance:   NewAttendanceRepo(db),
		TimeEntry:    NewTimeEntryRepo(db),
		DayStatus:    NewDayStatusRepo(db),
		Notification: NewNotificationRepo(db),
		ScannedCode:  NewScannedCodeRepo(db),
		BatteryFlow:  NewBatteryFlowRepo(db),
		Checkpoint:   NewCheckpointRepo(db),
		QualityCheck: NewQualityCheckRepo(db),
	}
}

// BeginTx opens a transaction. It returns nil when the aggregate has no
// database handle, which is the case for in-memory test doubles.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns an aggregate bound to tx. A nil tx returns r unchanged.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// RunInTx runs fn in one transaction. Any error or panic rolls back.
func (r *Repository) RunInTx(ctx context.Context, fn func(txRepo *Repository) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		if tx != nil {
			tx.Rollback()
		}
		return err
	}

	if tx != nil {
		return tx.Commit().Error
	}
	return nil
}
