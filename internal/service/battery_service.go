package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldtrack/internal/checkpoint"
	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
	pkgerrors "fieldtrack/pkg/errors"
)

// ── battery pipeline errors ──

var (
	ErrFlowNotFound         = errors.New("battery flow not found")
	ErrFlowExists           = errors.New("battery flow already registered")
	ErrUnknownStation       = errors.New("unknown checkpoint station")
	ErrSessionNotFound      = errors.New("checkpoint session not found")
	ErrQualityCheckNotFound = errors.New("quality check not found")
	ErrQualityCheckInvalid  = errors.New("invalid quality check")
)

const (
	maxAnswerLen = 10
	maxScanLen   = 255
)

// BatteryService scan log, battery flows, checkpoints and quality checks.
type BatteryService interface {
	CreateScannedCode(ctx context.Context, userID string, req *dto.ScannedCodeRequest) (*dto.ScannedCodeResponse, error)
	ListScannedCodes(ctx context.Context, projectID string) ([]dto.ScannedCodeResponse, error)

	CreateFlow(ctx context.Context, userID string, req *dto.FlowRequest) (*model.BatteryFlow, error)
	ListFlows(ctx context.Context, projectID string) ([]model.BatteryFlow, error)
	UpdateBatteryCategories(ctx context.Context, userID string, req *dto.BatteryCategoryRequest) (*dto.BatteryCategoryResponse, error)

	CreateCheckpoint(ctx context.Context, userID string, req *dto.CheckpointRequest) (*dto.CreateCheckpointResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	ListCheckpointsByProject(ctx context.Context, projectID string) ([]dto.CheckpointEventResponse, error)

	UpsertQualityCheck(ctx context.Context, userID string, req *dto.QualityCheckRequest) (*dto.QualityCheckResult, error)
	GetQualityCheck(ctx context.Context, sessionID string) (*dto.QualityCheckResponse, error)
	ListQualityChecksByProject(ctx context.Context, projectID string) ([]dto.QualityCheckResponse, error)
}

type batteryService struct {
	repo     *repository.Repository
	stations *checkpoint.Catalogue
	clock    clock.Clock
	logger   *zap.Logger
}

// NewBatteryService creates a BatteryService.
func NewBatteryService(repo *repository.Repository, stations *checkpoint.Catalogue, clk clock.Clock, logger *zap.Logger) BatteryService {
	return &batteryService{repo: repo, stations: stations, clock: clk, logger: logger}
}

// requireProject maps a missing project to ErrProjectNotFound. The shared
// lock lets concurrent scans on one project proceed.
func (s *batteryService) requireProject(ctx context.Context, repo *repository.Repository, projectID string) (*model.Project, error) {
	project, err := repo.Project.GetByIDForShare(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// ────────────────────── Scanned codes ──────────────────────

func (s *batteryService) CreateScannedCode(ctx context.Context, userID string, req *dto.ScannedCodeRequest) (*dto.ScannedCodeResponse, error) {
	sc := &model.ScannedCode{
		Code:      req.Code,
		Type:      req.Type,
		Source:    req.Source,
		ProjectID: req.ProjectID,
		UserID:    userID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    req.Status,
		Timestamp: s.clock.Now(),
	}
	if sc.Status == "" {
		sc.Status = "ok"
	}

	if req.ProjectID != nil && *req.ProjectID != "" {
		if _, err := s.repo.Project.GetByID(ctx, *req.ProjectID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrProjectNotFound
			}
			s.logger.Error("query project failed", zap.Error(err))
			return nil, err
		}
	}

	if err := s.repo.ScannedCode.Create(ctx, sc); err != nil {
		if err = checkViolation(err); isBusinessError(err) {
			return nil, err
		}
		s.logger.Error("store scanned code failed", zap.String("code", req.Code), zap.Error(err))
		return nil, err
	}
	resp := s.toScannedCodeResponse(sc)
	return &resp, nil
}

func (s *batteryService) ListScannedCodes(ctx context.Context, projectID string) ([]dto.ScannedCodeResponse, error) {
	list, err := s.repo.ScannedCode.List(ctx, projectID)
	if err != nil {
		s.logger.Error("list scanned codes failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.ScannedCodeResponse, 0, len(list))
	for i := range list {
		result = append(result, s.toScannedCodeResponse(&list[i]))
	}
	return result, nil
}

func (s *batteryService) toScannedCodeResponse(sc *model.ScannedCode) dto.ScannedCodeResponse {
	resp := dto.ScannedCodeResponse{
		ID:        sc.ScannedCodeID,
		Code:      sc.Code,
		Type:      sc.Type,
		Source:    sc.Source,
		ProjectID: sc.ProjectID,
		UserID:    sc.UserID,
		Latitude:  sc.Latitude,
		Longitude: sc.Longitude,
		Status:    sc.Status,
		Timestamp: formatTime(sc.Timestamp, s.clock.Location()),
	}
	if sc.Project != nil {
		resp.ProjectName = sc.Project.Name
	}
	return resp
}

// ────────────────────── Battery flows ──────────────────────

func (s *batteryService) CreateFlow(ctx context.Context, userID string, req *dto.FlowRequest) (*model.BatteryFlow, error) {
	flow := &model.BatteryFlow{
		SessionID:    req.SessionID,
		BoxCode:      req.BoxCode,
		BoxCode2:     req.BoxCode2,
		BatteryCode:  req.BatteryCode,
		BatteryCode2: req.BatteryCode2,
		BatteryCode3: req.BatteryCode3,
		BatteryCode4: req.BatteryCode4,
		ProjectID:    req.ProjectID,
		UserID:       userID,
		Latitude:     *req.Latitude,
		Longitude:    *req.Longitude,
		Lat2:         req.Lat2,
		Lon2:         req.Lon2,
		Lat3:         req.Lat3,
		Lon3:         req.Lon3,
		Lat4:         req.Lat4,
		Lon4:         req.Lon4,
		Status:       req.Status,
		Categorie:    req.Categorie,
		Timestamp:    s.clock.Now(),
		BoxTimestamp: req.BoxTimestamp,
	}
	if req.Timestamp != nil {
		flow.Timestamp = *req.Timestamp
	}
	if flow.Status == "" {
		flow.Status = "ok"
	}

	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if _, err := s.requireProject(ctx, tx, req.ProjectID); err != nil {
			return err
		}
		if err := tx.BatteryFlow.Create(ctx, flow); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return ErrFlowExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("create battery flow failed", zap.String("battery_code", req.BatteryCode), zap.Error(err))
		}
		return nil, err
	}
	return flow, nil
}

func (s *batteryService) ListFlows(ctx context.Context, projectID string) ([]model.BatteryFlow, error) {
	list, err := s.repo.BatteryFlow.List(ctx, projectID)
	if err != nil {
		s.logger.Error("list battery flows failed", zap.Error(err))
		return nil, err
	}
	return list, nil
}

// UpdateBatteryCategories stores "category1,category2" on the flow keyed by
// the battery pair, project and caller.
func (s *batteryService) UpdateBatteryCategories(ctx context.Context, userID string, req *dto.BatteryCategoryRequest) (*dto.BatteryCategoryResponse, error) {
	categorie := req.Category1 + "," + req.Category2
	key := repository.FlowKey{
		BatteryCode:  req.BatteryCode1,
		BatteryCode2: req.BatteryCode2,
		ProjectID:    req.ProjectID,
		UserID:       userID,
	}

	var flowID string
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		flow, err := tx.BatteryFlow.GetByKeyForUpdate(ctx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFlowNotFound
			}
			return err
		}
		flowID = flow.FlowID
		return tx.BatteryFlow.UpdateCategorie(ctx, flow.FlowID, categorie)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("update battery categories failed", zap.String("battery_code", req.BatteryCode1), zap.Error(err))
		}
		return nil, err
	}

	return &dto.BatteryCategoryResponse{
		Message:   "categories updated",
		FlowID:    flowID,
		Categorie: categorie,
	}, nil
}

// ────────────────────── Checkpoints ──────────────────────

// CreateCheckpoint expands the primary scan and any named station extras
// into one event per physical scan. Extras must name catalogue stations.
func (s *batteryService) CreateCheckpoint(ctx context.Context, userID string, req *dto.CheckpointRequest) (*dto.CreateCheckpointResponse, error) {
	// unlisted primary types are stored as sent but must carry their number
	primary, ok := s.stations.Lookup(req.CheckpointType)
	if !ok {
		if req.CheckpointNumber <= 0 {
			return nil, fmt.Errorf("%w: %s needs a checkpoint_number", ErrUnknownStation, req.CheckpointType)
		}
		primary = checkpoint.Station{Name: req.CheckpointType, Number: req.CheckpointNumber}
	}
	for name := range req.Extras {
		st, ok := s.stations.Lookup(name)
		if !ok || !st.Extra {
			return nil, fmt.Errorf("%w: %s", ErrUnknownStation, name)
		}
	}

	now := s.clock.Now()
	status := req.Status
	if status == "" {
		status = "ok"
	}
	number := req.CheckpointNumber
	if number == 0 {
		number = primary.Number
	}

	events := []model.CheckpointEvent{{
		SessionID:        req.SessionID,
		CheckpointName:   primary.Name,
		CheckpointNumber: number,
		ScannedCode:      req.ScannedCode,
		ScanOrder:        req.ScanOrder,
		Latitude:         *req.Latitude,
		Longitude:        *req.Longitude,
		Accuracy:         req.Accuracy,
		Phase:            req.Phase,
		Status:           status,
		Categorie:        req.Categorie,
		UserID:           userID,
		ProjectID:        req.ProjectID,
		Timestamp:        now,
	}}
	// extras follow in route order
	for _, st := range s.stations.Extras() {
		extra, ok := req.Extras[st.Name]
		if !ok {
			continue
		}
		lat, lon := *req.Latitude, *req.Longitude
		if extra.Latitude != nil {
			lat = *extra.Latitude
		}
		if extra.Longitude != nil {
			lon = *extra.Longitude
		}
		events = append(events, model.CheckpointEvent{
			SessionID:        req.SessionID,
			CheckpointName:   st.Name,
			CheckpointNumber: st.Number,
			ScannedCode:      extra.Code,
			Latitude:         lat,
			Longitude:        lon,
			Phase:            req.Phase,
			Status:           status,
			Categorie:        req.Categorie,
			UserID:           userID,
			ProjectID:        req.ProjectID,
			Timestamp:        now,
		})
	}

	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if _, err := s.requireProject(ctx, tx, req.ProjectID); err != nil {
			return err
		}
		return tx.Checkpoint.CreateBatch(ctx, events)
	})
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("store checkpoint failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		return nil, err
	}

	resp := &dto.CreateCheckpointResponse{
		Message:   "checkpoint recorded",
		SessionID: req.SessionID,
		Events:    make([]dto.CheckpointEventResponse, 0, len(events)),
	}
	for i := range events {
		resp.Events = append(resp.Events, s.toEventResponse(&events[i]))
	}
	return resp, nil
}

func (s *batteryService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	events, err := s.repo.Checkpoint.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("list session events failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrSessionNotFound
	}

	seen := make(map[string]bool, len(events))
	resp := &dto.SessionResponse{
		SessionID: sessionID,
		Events:    make([]dto.CheckpointEventResponse, 0, len(events)),
	}
	for i := range events {
		seen[events[i].CheckpointName] = true
		resp.Events = append(resp.Events, s.toEventResponse(&events[i]))
	}
	resp.Missing = s.stations.Missing(seen)
	resp.Complete = len(resp.Missing) == 0
	return resp, nil
}

func (s *batteryService) ListCheckpointsByProject(ctx context.Context, projectID string) ([]dto.CheckpointEventResponse, error) {
	if _, err := s.repo.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("query project failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}

	events, err := s.repo.Checkpoint.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("list project checkpoints failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.CheckpointEventResponse, 0, len(events))
	for i := range events {
		result = append(result, s.toEventResponse(&events[i]))
	}
	return result, nil
}

func (s *batteryService) toEventResponse(e *model.CheckpointEvent) dto.CheckpointEventResponse {
	resp := dto.CheckpointEventResponse{
		ID:               e.EventID,
		SessionID:        e.SessionID,
		CheckpointName:   e.CheckpointName,
		CheckpointNumber: e.CheckpointNumber,
		ScannedCode:      e.ScannedCode,
		ScanOrder:        e.ScanOrder,
		Latitude:         e.Latitude,
		Longitude:        e.Longitude,
		Accuracy:         e.Accuracy,
		Phase:            e.Phase,
		Status:           e.Status,
		Categorie:        e.Categorie,
		UserID:           e.UserID,
		ProjectID:        e.ProjectID,
		Timestamp:        formatTime(e.Timestamp, s.clock.Location()),
	}
	if st, ok := s.stations.Lookup(e.CheckpointName); ok {
		resp.Label = st.Label
	}
	if e.User != nil {
		resp.UserName = e.User.Name
	}
	if e.Project != nil {
		resp.ProjectName = e.Project.Name
	}
	return resp
}

// ────────────────────── Quality checks ──────────────────────

// UpsertQualityCheck creates the session's questionnaire or amends it with
// the fields present in req. A concurrent first insert that loses the race
// on the session index is retried once as an update.
func (s *batteryService) UpsertQualityCheck(ctx context.Context, userID string, req *dto.QualityCheckRequest) (*dto.QualityCheckResult, error) {
	if err := validateAnswers(req.Answers); err != nil {
		return nil, err
	}

	result, err := s.upsertQualityCheck(ctx, userID, req)
	if err != nil && pkgerrors.IsUniqueViolation(err) {
		result, err = s.upsertQualityCheck(ctx, userID, req)
	}
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("upsert quality check failed", zap.String("session_id", req.SessionID), zap.Error(err))
		}
		return nil, err
	}

	check, err := s.GetQualityCheck(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}
	result.Check = *check
	return result, nil
}

func (s *batteryService) upsertQualityCheck(ctx context.Context, userID string, req *dto.QualityCheckRequest) (*dto.QualityCheckResult, error) {
	result := &dto.QualityCheckResult{}

	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.QualityCheck.GetBySessionForUpdate(ctx, req.SessionID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if existing != nil {
			if req.ProjectID != nil {
				if _, err := s.requireProject(ctx, tx, *req.ProjectID); err != nil {
					return err
				}
			}
			result.Outcome = "updated"
			result.Fields = applyQualityFields(existing, req)
			if len(result.Fields) == 0 {
				return nil
			}
			return tx.QualityCheck.Update(ctx, existing)
		}

		if req.ProjectID == nil || req.Phase == nil {
			return fmt.Errorf("%w: project_id and phase are required for a new session", ErrQualityCheckInvalid)
		}
		if _, err := s.requireProject(ctx, tx, *req.ProjectID); err != nil {
			return err
		}
		qc := &model.QualityCheck{
			SessionID: req.SessionID,
			UserID:    userID,
			Answers:   datatypes.JSONMap{},
			Timestamp: s.clock.Now(),
		}
		result.Outcome = "created"
		result.Fields = applyQualityFields(qc, req)
		return tx.QualityCheck.Create(ctx, qc)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyQualityFields copies the fields present in req onto qc and returns
// their names.
func applyQualityFields(qc *model.QualityCheck, req *dto.QualityCheckRequest) []string {
	fields := make([]string, 0)
	setStr := func(name string, dst **string, src *string) {
		if src != nil {
			v := *src
			*dst = &v
			fields = append(fields, name)
		}
	}

	if req.ProjectID != nil {
		qc.ProjectID = *req.ProjectID
		fields = append(fields, "project_id")
	}
	if req.Phase != nil {
		qc.Phase = *req.Phase
		fields = append(fields, "phase")
	}
	setStr("battery1_code", &qc.Battery1Code, req.Battery1Code)
	setStr("battery1_category", &qc.Battery1Category, req.Battery1Category)
	setStr("battery2_code", &qc.Battery2Code, req.Battery2Code)
	setStr("battery2_category", &qc.Battery2Category, req.Battery2Category)
	if req.AvgBoxTime != nil {
		v := *req.AvgBoxTime
		qc.AvgBoxTime = &v
		fields = append(fields, "avg_box_time")
	}

	if len(req.Answers) > 0 && qc.Answers == nil {
		qc.Answers = datatypes.JSONMap{}
	}
	for _, key := range dto.QualityAnswerKeys {
		if v, ok := req.Answers[key]; ok {
			qc.Answers[key] = v
			fields = append(fields, key)
		}
	}
	return fields
}

func validateAnswers(answers map[string]string) error {
	for key, v := range answers {
		limit := maxAnswerLen
		if dto.IsScanAnswer(key) {
			limit = maxScanLen
		}
		if utf8.RuneCountInString(v) > limit {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrQualityCheckInvalid, key, limit)
		}
	}
	return nil
}

func (s *batteryService) GetQualityCheck(ctx context.Context, sessionID string) (*dto.QualityCheckResponse, error) {
	qc, err := s.repo.QualityCheck.GetBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQualityCheckNotFound
		}
		s.logger.Error("query quality check failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}
	resp := s.toQualityCheckResponse(qc)
	return &resp, nil
}

func (s *batteryService) ListQualityChecksByProject(ctx context.Context, projectID string) ([]dto.QualityCheckResponse, error) {
	list, err := s.repo.QualityCheck.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("list quality checks failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.QualityCheckResponse, 0, len(list))
	for i := range list {
		result = append(result, s.toQualityCheckResponse(&list[i]))
	}
	return result, nil
}

func (s *batteryService) toQualityCheckResponse(qc *model.QualityCheck) dto.QualityCheckResponse {
	loc := s.clock.Location()
	answers := make(map[string]interface{}, len(qc.Answers))
	for k, v := range qc.Answers {
		answers[k] = v
	}
	resp := dto.QualityCheckResponse{
		ID:               qc.QualityCheckID,
		SessionID:        qc.SessionID,
		UserID:           qc.UserID,
		ProjectID:        qc.ProjectID,
		Phase:            qc.Phase,
		Answers:          answers,
		Battery1Code:     qc.Battery1Code,
		Battery1Category: qc.Battery1Category,
		Battery2Code:     qc.Battery2Code,
		Battery2Category: qc.Battery2Category,
		AvgBoxTime:       qc.AvgBoxTime,
		Timestamp:        formatTime(qc.Timestamp, loc),
		UpdatedAt:        formatTime(qc.UpdatedAt, loc),
	}
	if qc.User != nil {
		resp.UserName = qc.User.Name
	}
	if qc.Project != nil {
		resp.ProjectName = qc.Project.Name
	}
	return resp
}
