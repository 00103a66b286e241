package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
)

// ── report errors ──

var (
	ErrInvalidPeriod  = errors.New("unknown report period")
	ErrDayAlreadyOpen = errors.New("day is not closed")
	ErrDayClosed      = errors.New("day already closed")
)

// Report periods.
const (
	PeriodToday             = "today"
	PeriodCurrentFortnight  = "current-fortnight"
	PeriodPreviousFortnight = "previous-fortnight"
	PeriodCurrentMonth      = "current-month"
	PeriodPreviousMonth     = "previous-month"
)

// ReportService time-entry reports, calendar feed and day status.
type ReportService interface {
	Daily(ctx context.Context, userID string) ([]dto.TimeEntryResponse, error)
	ByPeriod(ctx context.Context, period string) (*dto.PeriodReportResponse, error)
	ByProject(ctx context.Context, projectID string) ([]dto.TimeEntryResponse, error)
	// Calendar renders the user's time entries as an iCalendar feed.
	Calendar(ctx context.Context, userID string) ([]byte, error)

	DayStatus(ctx context.Context) (*dto.DayStatusResponse, error)
	CloseDay(ctx context.Context, callerID string) (*dto.DayStatusResponse, error)
	OpenDay(ctx context.Context, callerID string) (*dto.DayStatusResponse, error)
}

type reportService struct {
	repo   *repository.Repository
	clock  clock.Clock
	logger *zap.Logger
}

// NewReportService creates a ReportService.
func NewReportService(repo *repository.Repository, clk clock.Clock, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, clock: clk, logger: logger}
}

// PeriodBounds returns the half-open range [from, to) of period around now,
// computed in now's location. Fortnights split after the 15th.
func PeriodBounds(period string, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	y, m, d := now.Date()
	monthStart := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	mid := time.Date(y, m, 16, 0, 0, 0, 0, loc)
	nextMonth := monthStart.AddDate(0, 1, 0)
	prevMonth := monthStart.AddDate(0, -1, 0)

	switch period {
	case PeriodToday:
		start := clock.StartOfDay(now)
		return start, start.AddDate(0, 0, 1), nil
	case PeriodCurrentFortnight:
		if d <= 15 {
			return monthStart, mid, nil
		}
		return mid, nextMonth, nil
	case PeriodPreviousFortnight:
		if d <= 15 {
			return prevMonth.AddDate(0, 0, 15), monthStart, nil
		}
		return monthStart, mid, nil
	case PeriodCurrentMonth:
		return monthStart, nextMonth, nil
	case PeriodPreviousMonth:
		return prevMonth, monthStart, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("%w: %s", ErrInvalidPeriod, period)
}

// ────────────────────── Time entries ──────────────────────

func (s *reportService) Daily(ctx context.Context, userID string) ([]dto.TimeEntryResponse, error) {
	from, to, _ := PeriodBounds(PeriodToday, s.clock.Now())
	return s.listEntries(ctx, repository.TimeEntryFilter{UserID: userID, From: &from, To: &to})
}

func (s *reportService) ByProject(ctx context.Context, projectID string) ([]dto.TimeEntryResponse, error) {
	if _, err := s.repo.Project.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		s.logger.Error("query project failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, err
	}
	return s.listEntries(ctx, repository.TimeEntryFilter{ProjectID: projectID})
}

func (s *reportService) ByPeriod(ctx context.Context, period string) (*dto.PeriodReportResponse, error) {
	from, to, err := PeriodBounds(period, s.clock.Now())
	if err != nil {
		return nil, err
	}
	entries, err := s.listEntries(ctx, repository.TimeEntryFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	loc := s.clock.Location()
	resp := &dto.PeriodReportResponse{
		Period:  period,
		From:    formatTime(from, loc),
		To:      formatTime(to, loc),
		Entries: entries,
	}

	byUser := make(map[string]*dto.UserHoursSummary)
	for _, e := range entries {
		sum, ok := byUser[e.UserID]
		if !ok {
			sum = &dto.UserHoursSummary{UserID: e.UserID, UserName: e.UserName}
			byUser[e.UserID] = sum
		}
		if e.Duration != nil {
			sum.TotalHours += *e.Duration
			resp.TotalHours += *e.Duration
		}
		sum.TotalParts += e.PartsCompleted
		sum.Entries++
		resp.TotalParts += e.PartsCompleted
	}
	resp.ByUser = make([]dto.UserHoursSummary, 0, len(byUser))
	for _, sum := range byUser {
		sum.TotalHours = roundHours(sum.TotalHours)
		resp.ByUser = append(resp.ByUser, *sum)
	}
	sort.Slice(resp.ByUser, func(i, j int) bool { return resp.ByUser[i].UserName < resp.ByUser[j].UserName })
	resp.TotalHours = roundHours(resp.TotalHours)
	return resp, nil
}

func (s *reportService) listEntries(ctx context.Context, filter repository.TimeEntryFilter) ([]dto.TimeEntryResponse, error) {
	list, err := s.repo.TimeEntry.List(ctx, filter)
	if err != nil {
		s.logger.Error("list time entries failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TimeEntryResponse, 0, len(list))
	for i := range list {
		result = append(result, toTimeEntryResponse(&list[i], s.clock.Location()))
	}
	return result, nil
}

func toTimeEntryResponse(e *model.TimeEntry, loc *time.Location) dto.TimeEntryResponse {
	resp := dto.TimeEntryResponse{
		ID:             e.TimeEntryID,
		UserID:         e.UserID,
		ProjectID:      e.ProjectID,
		Description:    e.Description,
		Notes:          e.Notes,
		StartTime:      formatTime(e.StartTime, loc),
		EndTime:        formatTimePtr(e.EndTime, loc),
		PartsCompleted: e.PartsCompleted,
		EntryType:      e.EntryType,
	}
	if e.DurationSeconds != nil {
		h := secondsToHours(*e.DurationSeconds)
		resp.Duration = &h
	}
	if e.User != nil {
		resp.UserName = e.User.Name
	}
	if e.Project != nil {
		resp.ProjectName = e.Project.Name
	}
	return resp
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// ────────────────────── Calendar ──────────────────────

func (s *reportService) Calendar(ctx context.Context, userID string) ([]byte, error) {
	list, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{UserID: userID})
	if err != nil {
		s.logger.Error("list time entries failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//fieldtrack//time entries//EN")
	cal.SetXWRCalName("fieldtrack")

	for i := range list {
		e := &list[i]
		event := cal.AddEvent(e.TimeEntryID + "@fieldtrack")
		event.SetDtStampTime(now)
		event.SetStartAt(e.StartTime)
		end := now
		if e.EndTime != nil {
			end = *e.EndTime
		}
		event.SetEndAt(end)

		summary := "Work"
		if e.Project != nil {
			summary = e.Project.Name
		}
		if e.EntryType == model.EntryTypeManual {
			summary += " (report)"
		}
		event.SetSummary(summary)
		if e.Description != "" {
			event.SetDescription(e.Description)
		}
	}

	return []byte(cal.Serialize()), nil
}

// ────────────────────── Day status ──────────────────────

// today returns the local calendar date as a UTC midnight, the form stored
// in the date column.
func (s *reportService) today() time.Time {
	y, m, d := s.clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *reportService) DayStatus(ctx context.Context) (*dto.DayStatusResponse, error) {
	day := s.today()
	ds, err := s.repo.DayStatus.Get(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &dto.DayStatusResponse{Day: day.Format("2006-01-02")}, nil
		}
		s.logger.Error("query day status failed", zap.Error(err))
		return nil, err
	}
	return s.toDayStatusResponse(day, ds), nil
}

func (s *reportService) CloseDay(ctx context.Context, callerID string) (*dto.DayStatusResponse, error) {
	day := s.today()
	ds, err := s.repo.DayStatus.Get(ctx, day)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("query day status failed", zap.Error(err))
		return nil, err
	}
	if ds == nil {
		ds = &model.DayStatus{Day: day}
	}
	if ds.IsClosed {
		return nil, ErrDayClosed
	}

	now := s.clock.Now()
	ds.IsClosed = true
	ds.ClosedBy = &callerID
	ds.ClosedAt = &now
	ds.UpdatedAt = now
	if err := s.repo.DayStatus.Upsert(ctx, ds); err != nil {
		s.logger.Error("close day failed", zap.Error(err))
		return nil, err
	}
	return s.toDayStatusResponse(day, ds), nil
}

func (s *reportService) OpenDay(ctx context.Context, callerID string) (*dto.DayStatusResponse, error) {
	day := s.today()
	ds, err := s.repo.DayStatus.Get(ctx, day)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDayAlreadyOpen
		}
		s.logger.Error("query day status failed", zap.Error(err))
		return nil, err
	}
	if !ds.IsClosed {
		return nil, ErrDayAlreadyOpen
	}

	now := s.clock.Now()
	ds.IsClosed = false
	ds.OpenedBy = &callerID
	ds.OpenedAt = &now
	ds.UpdatedAt = now
	if err := s.repo.DayStatus.Upsert(ctx, ds); err != nil {
		s.logger.Error("open day failed", zap.Error(err))
		return nil, err
	}
	return s.toDayStatusResponse(day, ds), nil
}

func (s *reportService) toDayStatusResponse(day time.Time, ds *model.DayStatus) *dto.DayStatusResponse {
	loc := s.clock.Location()
	return &dto.DayStatusResponse{
		Day:      day.Format("2006-01-02"),
		IsClosed: ds.IsClosed,
		ClosedBy: ds.ClosedBy,
		ClosedAt: formatTimePtr(ds.ClosedAt, loc),
		OpenedBy: ds.OpenedBy,
		OpenedAt: formatTimePtr(ds.OpenedAt, loc),
	}
}
