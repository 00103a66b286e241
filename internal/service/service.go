package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"fieldtrack/config"
	"fieldtrack/internal/checkpoint"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
	pkgerrors "fieldtrack/pkg/errors"
	"fieldtrack/pkg/jwt"
	"fieldtrack/pkg/photo"
	"fieldtrack/pkg/redis"
)

// Service aggregates every business module.
type Service struct {
	Auth       AuthService
	Attendance AttendanceService
	Project    ProjectService
	Battery    BatteryService
	Report     ReportService
	Export     ExportService
	Reminder   ReminderService
}

// NewService wires services over the repository. rdb may be nil, in which
// case logout cannot revoke tokens.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	clk clock.Clock,
	logger *zap.Logger,
) *Service {
	normalizer := photo.NewNormalizer(&cfg.Attendance)
	stations := checkpoint.Default()

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Attendance: NewAttendanceService(repo, normalizer, clk, logger),
		Project:    NewProjectService(repo, clk, logger),
		Battery:    NewBatteryService(repo, stations, clk, logger),
		Report:     NewReportService(repo, clk, logger),
		Export:     NewExportService(repo, stations, clk, logger),
		Reminder:   NewReminderService(repo, clk, logger),
	}
}

// ── shared helpers ──

const timeLayout = time.RFC3339

// formatTime renders t in the field time zone.
func formatTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(timeLayout)
}

func formatTimePtr(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t, loc)
	return &s
}

// secondsToHours converts stored seconds to hours rounded to 2 decimals.
func secondsToHours(secs int64) float64 {
	return math.Round(float64(secs)/36) / 100
}

func strPtr(s string) *string { return &s }

// ErrInvalidValue means the store rejected a value against a CHECK constraint.
var ErrInvalidValue = errors.New("value rejected by constraint")

// checkViolation turns a CHECK failure into ErrInvalidValue naming the
// constraint; other errors pass through.
func checkViolation(err error) error {
	if pkgerrors.IsCheckViolation(err) {
		return fmt.Errorf("%w: %s", ErrInvalidValue, pkgerrors.Constraint(err))
	}
	return err
}

// businessErrors are expected rejections; callers do not log them as failures.
var businessErrors = []error{
	ErrInvalidCredentials, ErrUserNotFound,
	ErrAlreadyCheckedIn, ErrInvalidPhoto, ErrPhotoTooLarge,
	ErrProjectNotFound, ErrTechnicianNotFound, ErrProjectCompleted,
	ErrAlreadyAssigned, ErrNotAssigned, ErrConcurrentUpdate, ErrProjectHasActivity,
	ErrFlowNotFound, ErrFlowExists, ErrUnknownStation, ErrSessionNotFound,
	ErrQualityCheckNotFound, ErrQualityCheckInvalid,
	ErrInvalidPeriod, ErrDayAlreadyOpen, ErrDayClosed,
	ErrNotificationNotFound, ErrInvalidValue,
}

func isBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
