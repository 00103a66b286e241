package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fieldtrack/internal/model"
)

// ── scanned codes ──

// ScannedCodeRepository generic scan log data access.
type ScannedCodeRepository interface {
	Create(ctx context.Context, sc *model.ScannedCode) error
	List(ctx context.Context, projectID string) ([]model.ScannedCode, error)
}

type scannedCodeRepo struct {
	db *gorm.DB
}

// NewScannedCodeRepo creates a ScannedCodeRepository.
func NewScannedCodeRepo(db *gorm.DB) ScannedCodeRepository {
	return &scannedCodeRepo{db: db}
}

func (r *scannedCodeRepo) Create(ctx context.Context, sc *model.ScannedCode) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(sc).Error
}

func (r *scannedCodeRepo) List(ctx context.Context, projectID string) ([]model.ScannedCode, error) {
	var list []model.ScannedCode
	db := r.db.WithContext(ctx).Preload("Project")
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}
	err := db.Order("timestamp DESC").Limit(500).Find(&list).Error
	return list, err
}

// ── battery flows ──

// FlowKey is the natural key of a battery flow.
type FlowKey struct {
	BatteryCode  string
	BatteryCode2 string
	ProjectID    string
	UserID       string
}

// BatteryFlowRepository battery flow data access.
type BatteryFlowRepository interface {
	Create(ctx context.Context, f *model.BatteryFlow) error
	// GetByKeyForUpdate locks the flow matching the natural key.
	GetByKeyForUpdate(ctx context.Context, key FlowKey) (*model.BatteryFlow, error)
	UpdateCategorie(ctx context.Context, flowID, categorie string) error
	List(ctx context.Context, projectID string) ([]model.BatteryFlow, error)
}

type batteryFlowRepo struct {
	db *gorm.DB
}

// NewBatteryFlowRepo creates a BatteryFlowRepository.
func NewBatteryFlowRepo(db *gorm.DB) BatteryFlowRepository {
	return &batteryFlowRepo{db: db}
}

func (r *batteryFlowRepo) Create(ctx context.Context, f *model.BatteryFlow) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *batteryFlowRepo) GetByKeyForUpdate(ctx context.Context, key FlowKey) (*model.BatteryFlow, error) {
	var f model.BatteryFlow
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("battery_code = ?", key.BatteryCode).
		Where("COALESCE(battery_code2, '') = ?", key.BatteryCode2).
		Where("project_id = ? AND user_id = ?", key.ProjectID, key.UserID).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *batteryFlowRepo) UpdateCategorie(ctx context.Context, flowID, categorie string) error {
	return r.db.WithContext(ctx).
		Model(&model.BatteryFlow{}).
		Where("flow_id = ?", flowID).
		Updates(map[string]interface{}{
			"categorie":  categorie,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *batteryFlowRepo) List(ctx context.Context, projectID string) ([]model.BatteryFlow, error) {
	var list []model.BatteryFlow
	db := r.db.WithContext(ctx)
	if projectID != "" {
		db = db.Where("project_id = ?", projectID)
	}
	err := db.Order("timestamp DESC").Find(&list).Error
	return list, err
}

// ── checkpoint events ──

// CheckpointRepository checkpoint event log data access.
type CheckpointRepository interface {
	CreateBatch(ctx context.Context, events []model.CheckpointEvent) error
	ListBySession(ctx context.Context, sessionID string) ([]model.CheckpointEvent, error)
	// ListByProject returns events with User and Project preloaded.
	ListByProject(ctx context.Context, projectID string) ([]model.CheckpointEvent, error)
}

type checkpointRepo struct {
	db *gorm.DB
}

// NewCheckpointRepo creates a CheckpointRepository.
func NewCheckpointRepo(db *gorm.DB) CheckpointRepository {
	return &checkpointRepo{db: db}
}

func (r *checkpointRepo) CreateBatch(ctx context.Context, events []model.CheckpointEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&events).Error
}

func (r *checkpointRepo) ListBySession(ctx context.Context, sessionID string) ([]model.CheckpointEvent, error) {
	var list []model.CheckpointEvent
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC, checkpoint_number ASC").
		Find(&list).Error
	return list, err
}

func (r *checkpointRepo) ListByProject(ctx context.Context, projectID string) ([]model.CheckpointEvent, error) {
	var list []model.CheckpointEvent
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("project_id = ?", projectID).
		Order("timestamp ASC").
		Find(&list).Error
	return list, err
}

// ── quality checks ──

// QualityCheckRepository questionnaire data access.
type QualityCheckRepository interface {
	Create(ctx context.Context, qc *model.QualityCheck) error
	Update(ctx context.Context, qc *model.QualityCheck) error
	GetBySession(ctx context.Context, sessionID string) (*model.QualityCheck, error)
	// GetBySessionForUpdate locks the session's row.
	GetBySessionForUpdate(ctx context.Context, sessionID string) (*model.QualityCheck, error)
	// ListByProject returns checks with User and Project preloaded.
	ListByProject(ctx context.Context, projectID string) ([]model.QualityCheck, error)
}

type qualityCheckRepo struct {
	db *gorm.DB
}

// NewQualityCheckRepo creates a QualityCheckRepository.
func NewQualityCheckRepo(db *gorm.DB) QualityCheckRepository {
	return &qualityCheckRepo{db: db}
}

func (r *qualityCheckRepo) Create(ctx context.Context, qc *model.QualityCheck) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(qc).Error
}

func (r *qualityCheckRepo) Update(ctx context.Context, qc *model.QualityCheck) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(qc).Error
}

func (r *qualityCheckRepo) GetBySession(ctx context.Context, sessionID string) (*model.QualityCheck, error) {
	var qc model.QualityCheck
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("session_id = ?", sessionID).
		First(&qc).Error
	if err != nil {
		return nil, err
	}
	return &qc, nil
}

func (r *qualityCheckRepo) GetBySessionForUpdate(ctx context.Context, sessionID string) (*model.QualityCheck, error) {
	var qc model.QualityCheck
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("session_id = ?", sessionID).
		First(&qc).Error
	if err != nil {
		return nil, err
	}
	return &qc, nil
}

func (r *qualityCheckRepo) ListByProject(ctx context.Context, projectID string) ([]model.QualityCheck, error) {
	var list []model.QualityCheck
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Project").
		Where("project_id = ?", projectID).
		Order("timestamp DESC").
		Find(&list).Error
	return list, err
}
