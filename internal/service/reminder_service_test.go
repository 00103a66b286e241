package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"fieldtrack/internal/model"
)

func setupReminderService() (ReminderService, *mockRepos) {
	m := newMockRepos()
	return NewReminderService(m.repo, newTestClock(), zap.NewNop()), m
}

func TestSweep_NotifiesMissingTechnicians(t *testing.T) {
	svc, m := setupReminderService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusPresent)
	m.addUser("tech-2", "Luis", model.RoleTechnician, model.UserStatusAbsent)
	m.addUser("tech-3", "Rosa", model.RoleTechnician, model.UserStatusVacation)
	m.addUser("tech-4", "Iker", model.RoleTechnician, model.UserStatusAbsent)
	m.addUser("admin-1", "Marta", model.RoleAdmin, model.UserStatusAbsent)
	m.addUser("tech-5", "Old", model.RoleTechnician, model.UserStatusAbsent).IsActive = false

	// tech-1 checked in today, tech-4 only yesterday
	today := time.Date(2025, 3, 10, 6, 30, 0, 0, fieldZone)
	_ = m.attendance.Create(context.Background(), &model.Attendance{UserID: "tech-1", CheckIn: today})
	yesterday := today.AddDate(0, 0, -1)
	_ = m.attendance.Create(context.Background(), &model.Attendance{UserID: "tech-4", CheckIn: yesterday, CheckOut: &yesterday})

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep should succeed: %v", err)
	}
	if res.Checked != 4 || res.Notified != 2 {
		t.Errorf("expected checked=4 notified=2, got %+v", res)
	}
	got := map[string]bool{}
	for _, n := range m.notes.list {
		got[n.UserID] = true
		if n.Type != model.NotificationReminder {
			t.Errorf("unexpected notification type %s", n.Type)
		}
	}
	if !got["tech-2"] || !got["tech-4"] || got["tech-3"] {
		t.Errorf("unexpected recipients %v", got)
	}
}

func TestSweep_OvernightShiftAndRepeatRun(t *testing.T) {
	svc, m := setupReminderService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusPresent)
	m.addUser("tech-2", "Luis", model.RoleTechnician, model.UserStatusAbsent)

	// tech-1 checked in before midnight and has not checked out
	lateShift := time.Date(2025, 3, 9, 22, 0, 0, 0, fieldZone)
	_ = m.attendance.Create(context.Background(), &model.Attendance{UserID: "tech-1", CheckIn: lateShift})

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep should succeed: %v", err)
	}
	if res.Notified != 1 || m.notes.list[0].UserID != "tech-2" {
		t.Errorf("only tech-2 should be reminded, got %+v %+v", res, m.notes.list)
	}

	res, err = svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("second Sweep should succeed: %v", err)
	}
	if res.Notified != 0 || len(m.notes.list) != 1 {
		t.Errorf("second sweep on the same day should not duplicate reminders, got %+v", res)
	}
}

func TestSweep_NobodyMissing(t *testing.T) {
	svc, m := setupReminderService()

	res, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep should succeed: %v", err)
	}
	if res.Notified != 0 || len(m.notes.list) != 0 {
		t.Errorf("expected no notifications, got %+v", res)
	}
}

func TestNotifications_ListAndMarkRead(t *testing.T) {
	svc, m := setupReminderService()
	m.addUser("tech-2", "Luis", model.RoleTechnician, model.UserStatusAbsent)
	if _, err := svc.Sweep(context.Background()); err != nil {
		t.Fatal(err)
	}

	list, err := svc.List(context.Background(), "tech-2", true)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one unread notification, got %+v err=%v", list, err)
	}
	if list[0].CreatedAt != "2025-03-10T08:00:00-06:00" {
		t.Errorf("unexpected created_at %s", list[0].CreatedAt)
	}

	if err := svc.MarkRead(context.Background(), list[0].ID, "someone-else"); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("expected ErrNotificationNotFound for a foreign notification, got: %v", err)
	}
	if err := svc.MarkRead(context.Background(), list[0].ID, "tech-2"); err != nil {
		t.Fatalf("MarkRead should succeed: %v", err)
	}
	list, _ = svc.List(context.Background(), "tech-2", true)
	if len(list) != 0 {
		t.Errorf("expected no unread notifications, got %d", len(list))
	}
}
