package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
	pkgerrors "fieldtrack/pkg/errors"
)

// ── project errors ──

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrProjectCompleted   = errors.New("project already completed")
	ErrAlreadyAssigned    = errors.New("user already assigned to project")
	ErrNotAssigned        = errors.New("user not assigned to project")
	ErrConcurrentUpdate   = errors.New("project was modified concurrently, retry")
	ErrProjectHasActivity = errors.New("project has recorded activity")
)

// Caller identifies the authenticated actor for role-scoped reads.
type Caller struct {
	UserID    string
	Role      string
	CompanyID string
}

// ProjectService project lifecycle and progress.
type ProjectService interface {
	Create(ctx context.Context, req *dto.CreateProjectRequest, callerID string) (*dto.ProjectResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error)
	List(ctx context.Context, caller Caller, status string) ([]dto.ProjectResponse, error)
	Delete(ctx context.Context, id string) error
	// Assign adds or removes a technician; duplicate assign and no-op
	// unassign return ErrAlreadyAssigned / ErrNotAssigned.
	Assign(ctx context.Context, projectID string, req *dto.AssignmentRequest, callerID string) (*dto.AssignmentResponse, error)
	Complete(ctx context.Context, projectID, callerID string) (*dto.ProjectResponse, error)

	SubmitReport(ctx context.Context, userID string, req *dto.ReportRequest) (*dto.ReportResponse, error)
	UpdateParts(ctx context.Context, projectID string, partsCompleted int) (*dto.UpdatePartsResponse, error)
	RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error)
}

type projectService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewProjectService creates a ProjectService.
func NewProjectService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ProjectService {
	return &projectService{repo: repo, clock: clk, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *projectService) Create(ctx context.Context, req *dto.CreateProjectRequest, callerID string) (*dto.ProjectResponse, error) {
	now := s.clock.Now()
	project := &model.Project{
		Name:        req.Name,
		Description: req.Description,
		Client:      req.Client,
		Status:      model.ProjectStatusActive,
		ProjectType: req.ProjectType,
		CompanyID:   req.CompanyID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalParts:  req.TotalParts,
		Progress:    ComputeProgress(0, req.TotalParts),
		CreatedBy:   &callerID,
	}

	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		// resolve technicians first so an unknown id aborts before any write
		techs, err := s.resolveTechnicians(ctx, tx, req.TechnicianIDs)
		if err != nil {
			return err
		}
		if len(techs) > 0 {
			project.StampTechnician(techs[len(techs)-1].Name, model.ActionAssigned, now)
		}

		if err := tx.Project.Create(ctx, project); err != nil {
			return err
		}

		if req.Location != nil {
			if err := tx.Project.CreateLocation(ctx, &model.ProjectLocation{
				ProjectID: project.ProjectID,
				Name:      req.Location.Name,
				Address:   req.Location.Address,
				Latitude:  req.Location.Latitude,
				Longitude: req.Location.Longitude,
			}); err != nil {
				return err
			}
		}

		equipment := make([]model.ProjectEquipment, 0, len(req.Equipment))
		for _, e := range req.Equipment {
			item := model.ProjectEquipment{
				ProjectID:    project.ProjectID,
				Name:         e.Name,
				Type:         e.Type,
				SerialNumber: e.SerialNumber,
				Status:       e.Status,
			}
			if item.Status == "" {
				item.Status = "operativo"
			}
			equipment = append(equipment, item)
		}
		if err := tx.Project.CreateEquipment(ctx, equipment); err != nil {
			return err
		}

		for _, u := range techs {
			if err := tx.Assignment.Create(ctx, &model.ProjectAssignment{
				ProjectID:  project.ProjectID,
				UserID:     u.UserID,
				AssignedBy: &callerID,
			}); err != nil {
				return err
			}
		}

		docs := make([]model.ProjectDocument, 0, len(req.Documents))
		for _, d := range req.Documents {
			docs = append(docs, model.ProjectDocument{
				ProjectID:  project.ProjectID,
				Name:       d.Name,
				URL:        d.URL,
				Type:       d.Type,
				UploadedBy: &callerID,
			})
		}
		return tx.Project.CreateDocuments(ctx, docs)
	})
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("create project failed", zap.String("name", req.Name), zap.Error(err))
		}
		return nil, err
	}

	return s.GetByID(ctx, project.ProjectID)
}

// resolveTechnicians loads ids in request order, deduplicated.
func (s *projectService) resolveTechnicians(ctx context.Context, tx *repository.Repository, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	users, err := tx.User.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.UserID] = u
	}

	seen := make(map[string]bool, len(ids))
	result := make([]model.User, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		u, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTechnicianNotFound, id)
		}
		result = append(result, u)
	}
	return result, nil
}

// ────────────────────── Read ──────────────────────

func (s *projectService) GetByID(ctx context.Context, id string) (*dto.ProjectResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("query project failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := s.toProjectResponse(project)
	return &resp, nil
}

func (s *projectService) List(ctx context.Context, caller Caller, status string) ([]dto.ProjectResponse, error) {
	filter := repository.ProjectFilter{Status: status}
	switch caller.Role {
	case model.RoleClient:
		// a client without a company sees nothing
		if caller.CompanyID == "" {
			return []dto.ProjectResponse{}, nil
		}
		filter.CompanyID = caller.CompanyID
	case model.RoleTechnician:
		filter.AssignedUserID = caller.UserID
	}

	projects, err := s.repo.Project.List(ctx, filter)
	if err != nil {
		s.logger.Error("list projects failed", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		result = append(result, s.toProjectResponse(&projects[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *projectService) Delete(ctx context.Context, id string) error {
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Project.GetByIDForUpdate(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if err := tx.Assignment.DeleteByProject(ctx, id); err != nil {
			return err
		}
		if err := tx.Project.DeleteDocuments(ctx, id); err != nil {
			return err
		}
		if err := tx.Project.DeleteEquipment(ctx, id); err != nil {
			return err
		}
		if err := tx.Project.DeleteLocation(ctx, id); err != nil {
			return err
		}
		if err := tx.Project.Delete(ctx, id); err != nil {
			if pkgerrors.IsForeignKeyViolation(err) {
				return fmt.Errorf("%w: %s", ErrProjectHasActivity, pkgerrors.Constraint(err))
			}
			return err
		}
		return nil
	})
	if err != nil && !isBusinessError(err) {
		s.logger.Error("delete project failed", zap.String("id", id), zap.Error(err))
	}
	return err
}

// ────────────────────── Assignments ──────────────────────

func (s *projectService) Assign(ctx context.Context, projectID string, req *dto.AssignmentRequest, callerID string) (*dto.AssignmentResponse, error) {
	resp := &dto.AssignmentResponse{ProjectID: projectID, UserID: req.UserID}

	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		project, err := tx.Project.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		user, err := tx.User.GetByID(ctx, req.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrTechnicianNotFound, req.UserID)
			}
			return err
		}

		if req.Action == "unassign" {
			n, err := tx.Assignment.Delete(ctx, projectID, req.UserID)
			if err != nil {
				return err
			}
			if n == 0 {
				return ErrNotAssigned
			}
			resp.Message = "technician unassigned"
			resp.Changed = true
			return nil
		}

		if _, err := tx.Assignment.Get(ctx, projectID, req.UserID); err == nil {
			return ErrAlreadyAssigned
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Assignment.Create(ctx, &model.ProjectAssignment{
			ProjectID:  projectID,
			UserID:     req.UserID,
			AssignedBy: &callerID,
		}); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return ErrAlreadyAssigned
			}
			return err
		}
		project.StampTechnician(user.Name, model.ActionAssigned, s.clock.Now())
		if err := tx.Project.Update(ctx, project); err != nil {
			return err
		}
		resp.Message = "technician assigned"
		resp.Changed = true
		return nil
	})
	switch {
	case errors.Is(err, ErrAlreadyAssigned):
		resp.Message = "technician already assigned"
		return resp, err
	case errors.Is(err, ErrNotAssigned):
		resp.Message = "technician was not assigned"
		return resp, err
	case err != nil:
		if !isBusinessError(err) {
			s.logger.Error("assign technician failed", zap.String("project_id", projectID), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

// ────────────────────── Complete ──────────────────────

func (s *projectService) Complete(ctx context.Context, projectID, callerID string) (*dto.ProjectResponse, error) {
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		project, err := tx.Project.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		if project.IsCompleted() {
			return ErrProjectCompleted
		}
		name := callerID
		if u, err := tx.User.GetByID(ctx, callerID); err == nil {
			name = u.Name
		}
		project.Status = model.ProjectStatusCompleted
		project.StampTechnician(name, model.ActionComplete, s.clock.Now())
		return tx.Project.Update(ctx, project)
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("complete project failed", zap.String("project_id", projectID), zap.Error(err))
		}
		return nil, err
	}
	return s.GetByID(ctx, projectID)
}

// ────────────────────── Progress ──────────────────────

func (s *projectService) SubmitReport(ctx context.Context, userID string, req *dto.ReportRequest) (*dto.ReportResponse, error) {
	now := s.clock.Now()
	secs := int64(req.Hours * 3600)
	start := now.Add(-time.Duration(secs) * time.Second)

	resp := &dto.ReportResponse{Message: "report recorded"}
	err := s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		project, err := tx.Project.GetByIDForUpdate(ctx, req.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}

		entry := &model.TimeEntry{
			UserID:          userID,
			ProjectID:       &project.ProjectID,
			Description:     req.Description,
			Notes:           req.Notes,
			StartTime:       start,
			EndTime:         &now,
			DurationSeconds: &secs,
			PartsCompleted:  req.PartsCompleted,
			EntryType:       model.EntryTypeManual,
		}
		if err := tx.TimeEntry.Create(ctx, entry); err != nil {
			return err
		}

		project.CompletedParts += req.PartsCompleted
		project.Progress = ComputeProgress(project.CompletedParts, project.TotalParts)
		project.StampTechnician(user.Name, model.ActionReport, now)
		if err := tx.Project.Update(ctx, project); err != nil {
			return err
		}

		resp.TimeEntryID = entry.TimeEntryID
		resp.ProjectProgress = project.Progress
		return nil
	})
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("submit report failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

func (s *projectService) UpdateParts(ctx context.Context, projectID string, partsCompleted int) (*dto.UpdatePartsResponse, error) {
	resp, err := s.updateParts(ctx, projectID, partsCompleted)
	if errors.Is(err, pkgerrors.ErrOptimisticLock) {
		resp, err = s.updateParts(ctx, projectID, partsCompleted)
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrConcurrentUpdate
		}
	}
	if err != nil {
		err = checkViolation(err)
		if !isBusinessError(err) {
			s.logger.Error("update parts failed", zap.String("project_id", projectID), zap.Error(err))
		}
		return nil, err
	}
	return resp, nil
}

func (s *projectService) updateParts(ctx context.Context, projectID string, partsCompleted int) (*dto.UpdatePartsResponse, error) {
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}

	project.CompletedParts = partsCompleted
	project.Progress = ComputeProgress(partsCompleted, project.TotalParts)
	if err := s.repo.Project.Update(ctx, project); err != nil {
		return nil, err
	}

	return &dto.UpdatePartsResponse{
		ProjectID:      project.ProjectID,
		CompletedParts: project.CompletedParts,
		Progress:       project.Progress,
	}, nil
}

// RecalculateAll rewrites progress for every project whose stored value is stale.
func (s *projectService) RecalculateAll(ctx context.Context) (*dto.RecalculateResponse, error) {
	projects, err := s.repo.Project.List(ctx, repository.ProjectFilter{})
	if err != nil {
		s.logger.Error("list projects failed", zap.Error(err))
		return nil, err
	}

	resp := &dto.RecalculateResponse{Scanned: len(projects)}
	for _, p := range projects {
		want := ComputeProgress(p.CompletedParts, p.TotalParts)
		if want == p.Progress {
			continue
		}
		ok, err := s.repo.Project.UpdateProgress(ctx, p.ProjectID, p.CompletedParts, want)
		if err != nil {
			s.logger.Error("recalculate progress failed", zap.String("project_id", p.ProjectID), zap.Error(err))
			return nil, err
		}
		if ok {
			resp.Updated++
		}
	}

	s.logger.Info("progress recalculated",
		zap.Int("scanned", resp.Scanned),
		zap.Int("updated", resp.Updated),
	)
	return resp, nil
}

// ── conversion ──

func (s *projectService) toProjectResponse(p *model.Project) dto.ProjectResponse {
	loc := s.clock.Location()
	resp := dto.ProjectResponse{
		ID:                   p.ProjectID,
		Name:                 p.Name,
		Description:          p.Description,
		Client:               p.Client,
		Status:               p.Status,
		ProjectType:          p.ProjectType,
		CompanyID:            p.CompanyID,
		StartDate:            formatTimePtr(p.StartDate, loc),
		EndDate:              formatTimePtr(p.EndDate, loc),
		TotalParts:           p.TotalParts,
		CompletedParts:       p.CompletedParts,
		Progress:             p.Progress,
		LastTechnicianName:   p.LastTechnicianName,
		LastTechnicianDate:   formatTimePtr(p.LastTechnicianDate, loc),
		LastTechnicianAction: p.LastTechnicianAction,
		CreatedAt:            formatTime(p.CreatedAt, loc),
	}
	if p.Location != nil {
		resp.Location = &dto.ProjectLocationInput{
			Name:      p.Location.Name,
			Address:   p.Location.Address,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
		}
	}
	for _, e := range p.Equipment {
		resp.Equipment = append(resp.Equipment, dto.EquipmentInput{
			Name:         e.Name,
			Type:         e.Type,
			SerialNumber: e.SerialNumber,
			Status:       e.Status,
		})
	}
	for _, d := range p.Documents {
		resp.Documents = append(resp.Documents, dto.DocumentInput{Name: d.Name, URL: d.URL, Type: d.Type})
	}
	for _, a := range p.Assignments {
		if a.User == nil {
			continue
		}
		resp.Technicians = append(resp.Technicians, dto.TechnicianBrief{
			ID:     a.User.UserID,
			Name:   a.User.Name,
			Status: a.User.Status,
		})
	}
	return resp
}
