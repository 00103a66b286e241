package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
	pkgerrors "fieldtrack/pkg/errors"
	"fieldtrack/pkg/photo"
)

// ── attendance errors ──

var (
	ErrAlreadyCheckedIn = errors.New("user already has an open check-in")
	ErrInvalidPhoto     = photo.ErrInvalidPhoto
	ErrPhotoTooLarge    = photo.ErrPhotoTooLarge
)

// AttendanceService check-in/check-out state machine.
type AttendanceService interface {
	CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.CheckInResponse, error)
	CheckOut(ctx context.Context, userID string, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error)
	CurrentStatus(ctx context.Context, userID string) (*dto.CurrentStatusResponse, error)
	Recent(ctx context.Context, limit int) ([]dto.RecentActivityResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	photos *photo.Normalizer
	clock  clock.Clock
	logger *zap.Logger
}

// NewAttendanceService creates an AttendanceService.
func NewAttendanceService(repo *repository.Repository, photos *photo.Normalizer, clk clock.Clock, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, photos: photos, clock: clk, logger: logger}
}

// ────────────────────── CheckIn ──────────────────────

func (s *attendanceService) CheckIn(ctx context.Context, userID string, req *dto.CheckInRequest) (*dto.CheckInResponse, error) {
	photoData, err := s.photos.Normalize(req.Photo)
	if err != nil {
		return nil, err
	}

	status := model.UserStatusPresent
	if req.Status != nil && *req.Status != "" {
		status = *req.Status
	}

	now := s.clock.Now()
	resp := &dto.CheckInResponse{
		Message:    "check-in recorded",
		UserStatus: status,
		CheckIn:    formatTime(now, s.clock.Location()),
	}

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		// lock order: user → project
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if _, err := tx.Attendance.GetOpenByUser(ctx, userID); err == nil {
			return ErrAlreadyCheckedIn
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		att := &model.Attendance{
			UserID:           userID,
			CheckIn:          now,
			CheckInLatitude:  *req.Latitude,
			CheckInLongitude: *req.Longitude,
			PhotoCheckIn:     photoData,
		}
		if err := tx.Attendance.Create(ctx, att); err != nil {
			if pkgerrors.IsUniqueViolation(err) {
				return ErrAlreadyCheckedIn
			}
			return err
		}
		resp.AttendanceID = att.AttendanceID

		if err := tx.User.UpdateStatus(ctx, userID, status); err != nil {
			return err
		}

		if req.ProjectID == nil || *req.ProjectID == "" {
			return nil
		}

		project, err := tx.Project.GetByIDForUpdate(ctx, *req.ProjectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		resp.ProjectStatus = strPtr(project.Status)
		if project.IsCompleted() {
			return nil
		}

		project.Status = model.ProjectStatusInProgress
		project.StampTechnician(user.Name, model.ActionCheckIn, now)
		if err := tx.Project.Update(ctx, project); err != nil {
			return err
		}
		resp.ProjectStatus = strPtr(project.Status)

		entry := &model.TimeEntry{
			UserID:       userID,
			ProjectID:    &project.ProjectID,
			AttendanceID: &att.AttendanceID,
			Description:  "check-in",
			StartTime:    now,
			EntryType:    model.EntryTypeAutomatic,
		}
		if err := tx.TimeEntry.Create(ctx, entry); err != nil {
			return err
		}
		resp.TimeEntryID = &entry.TimeEntryID
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("check-in failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	return resp, nil
}

// ────────────────────── CheckOut ──────────────────────

func (s *attendanceService) CheckOut(ctx context.Context, userID string, req *dto.CheckOutRequest) (*dto.CheckOutResponse, error) {
	photoData, err := s.photos.Normalize(req.Photo)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	resp := &dto.CheckOutResponse{
		Message:    "check-out recorded",
		UserStatus: model.UserStatusAbsent,
	}

	err = s.repo.RunInTx(ctx, func(tx *repository.Repository) error {
		user, err := tx.User.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		// open entry and open attendance are resolved independently
		entry, err := tx.TimeEntry.GetOpenByUser(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		att, err := tx.Attendance.GetOpenByUser(ctx, userID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if entry != nil && att != nil && entry.AttendanceID != nil && *entry.AttendanceID != att.AttendanceID {
			s.logger.Warn("open time entry belongs to another attendance",
				zap.String("user_id", userID),
				zap.String("time_entry_id", entry.TimeEntryID),
				zap.String("attendance_id", att.AttendanceID),
			)
		}

		if entry != nil {
			entry.Close(now)
			if err := tx.TimeEntry.Update(ctx, entry); err != nil {
				return err
			}
			hours := secondsToHours(*entry.DurationSeconds)
			resp.TimeEntryID = &entry.TimeEntryID
			resp.Duration = &hours
		}

		if att != nil {
			att.CheckOut = &now
			att.CheckOutLatitude = req.Latitude
			att.CheckOutLongitude = req.Longitude
			att.PhotoCheckOut = photoData
			if err := tx.Attendance.Update(ctx, att); err != nil {
				return err
			}
			resp.AttendanceID = &att.AttendanceID
		}

		if err := tx.User.UpdateStatus(ctx, userID, model.UserStatusAbsent); err != nil {
			return err
		}

		projectID := ""
		if req.ProjectID != nil && *req.ProjectID != "" {
			projectID = *req.ProjectID
		} else if entry != nil && entry.ProjectID != nil {
			projectID = *entry.ProjectID
		}
		if projectID == "" {
			return nil
		}

		// the row lock is held from the count through the update
		project, err := tx.Project.GetByIDForUpdate(ctx, projectID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		resp.ProjectStatus = strPtr(project.Status)
		if project.IsCompleted() {
			return nil
		}

		others, err := tx.Assignment.CountOtherPresent(ctx, projectID, userID)
		if err != nil {
			return err
		}
		if others == 0 {
			project.Status = model.ProjectStatusActive
		}
		project.StampTechnician(user.Name, model.ActionCheckOut, now)
		if err := tx.Project.Update(ctx, project); err != nil {
			return err
		}
		resp.ProjectStatus = strPtr(project.Status)
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			s.logger.Error("check-out failed", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	return resp, nil
}

// ────────────────────── Status ──────────────────────

func (s *attendanceService) CurrentStatus(ctx context.Context, userID string) (*dto.CurrentStatusResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("query user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.CurrentStatusResponse{UserID: userID, Status: user.Status}

	att, err := s.repo.Attendance.GetOpenByUser(ctx, userID)
	switch {
	case err == nil:
		resp.CheckedIn = true
		resp.AttendanceID = &att.AttendanceID
		resp.CheckIn = strPtr(formatTime(att.CheckIn, s.clock.Location()))
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("query open attendance failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	entry, err := s.repo.TimeEntry.GetOpenByUser(ctx, userID)
	switch {
	case err == nil:
		resp.OpenTimeEntryID = &entry.TimeEntryID
		resp.ProjectID = entry.ProjectID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		s.logger.Error("query open time entry failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	return resp, nil
}

// Recent expands attendances into check-in and check-out events, newest first.
func (s *attendanceService) Recent(ctx context.Context, limit int) ([]dto.RecentActivityResponse, error) {
	list, err := s.repo.Attendance.ListRecent(ctx, limit)
	if err != nil {
		s.logger.Error("list recent attendance failed", zap.Error(err))
		return nil, err
	}

	type event struct {
		at   time.Time
		resp dto.RecentActivityResponse
	}
	loc := s.clock.Location()
	events := make([]event, 0, len(list)*2)
	for i := range list {
		a := &list[i]
		name := ""
		if a.User != nil {
			name = a.User.Name
		}
		if a.CheckOut != nil {
			events = append(events, event{at: *a.CheckOut, resp: dto.RecentActivityResponse{
				AttendanceID: a.AttendanceID,
				UserID:       a.UserID,
				UserName:     name,
				Type:         model.ActionCheckOut,
				Timestamp:    formatTime(*a.CheckOut, loc),
				Latitude:     a.CheckOutLatitude,
				Longitude:    a.CheckOutLongitude,
			}})
		}
		lat, lon := a.CheckInLatitude, a.CheckInLongitude
		events = append(events, event{at: a.CheckIn, resp: dto.RecentActivityResponse{
			AttendanceID: a.AttendanceID,
			UserID:       a.UserID,
			UserName:     name,
			Type:         model.ActionCheckIn,
			Timestamp:    formatTime(a.CheckIn, loc),
			Latitude:     &lat,
			Longitude:    &lon,
		}})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].at.After(events[j].at) })
	if len(events) > limit {
		events = events[:limit]
	}

	result := make([]dto.RecentActivityResponse, 0, len(events))
	for _, e := range events {
		result = append(result, e.resp)
	}
	return result, nil
}
