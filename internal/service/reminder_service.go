package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
)

var ErrNotificationNotFound = errors.New("notification not found")

const reminderMessage = "You have not checked in today. Remember to register your attendance."

// ReminderService daily check-in reminders and the notification inbox.
type ReminderService interface {
	// Sweep writes a reminder for every active technician who has neither
	// checked in on the current local day nor been reminded already.
	Sweep(ctx context.Context) (*dto.ReminderResult, error)
	List(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id, userID string) error
}

type reminderService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewReminderService creates a ReminderService.
func NewReminderService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ReminderService {
	return &reminderService{repo: repo, clock: clk, logger: logger}
}

func (s *reminderService) Sweep(ctx context.Context) (*dto.ReminderResult, error) {
	techs, err := s.repo.User.ListActiveByRole(ctx, model.RoleTechnician)
	if err != nil {
		s.logger.Error("list technicians failed", zap.Error(err))
		return nil, err
	}

	since := clock.StartOfDay(s.clock.Now())
	onShift, err := s.repo.Attendance.UserIDsOnShiftSince(ctx, since)
	if err != nil {
		s.logger.Error("list checked-in users failed", zap.Error(err))
		return nil, err
	}
	notified, err := s.repo.Notification.UserIDsNotifiedSince(ctx, model.NotificationReminder, since)
	if err != nil {
		s.logger.Error("list reminded users failed", zap.Error(err))
		return nil, err
	}
	skip := make(map[string]bool, len(onShift)+len(notified))
	for _, id := range onShift {
		skip[id] = true
	}
	// one reminder per user per day
	for _, id := range notified {
		skip[id] = true
	}

	now := s.clock.Now()
	var batch []model.Notification
	for _, u := range techs {
		if skip[u.UserID] {
			continue
		}
		// users on leave are not expected on site
		if u.Status == model.UserStatusVacation || u.Status == model.UserStatusSickLeave {
			continue
		}
		batch = append(batch, model.Notification{
			UserID:    u.UserID,
			Type:      model.NotificationReminder,
			Message:   reminderMessage,
			CreatedAt: now,
		})
	}

	if err := s.repo.Notification.CreateBatch(ctx, batch); err != nil {
		s.logger.Error("store reminders failed", zap.Int("count", len(batch)), zap.Error(err))
		return nil, err
	}

	s.logger.Info("reminder sweep finished",
		zap.Int("checked", len(techs)),
		zap.Int("notified", len(batch)),
	)
	return &dto.ReminderResult{Checked: len(techs), Notified: len(batch)}, nil
}

func (s *reminderService) List(ctx context.Context, userID string, unreadOnly bool) ([]dto.NotificationResponse, error) {
	list, err := s.repo.Notification.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	loc := s.clock.Location()
	result := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		result = append(result, dto.NotificationResponse{
			ID:        n.NotificationID,
			Type:      n.Type,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: formatTime(n.CreatedAt, loc),
		})
	}
	return result, nil
}

// MarkRead only touches notifications owned by userID.
func (s *reminderService) MarkRead(ctx context.Context, id, userID string) error {
	n, err := s.repo.Notification.MarkRead(ctx, id, userID)
	if err != nil {
		s.logger.Error("mark notification read failed", zap.String("id", id), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
