package model

import (
	"testing"
	"time"
)

func TestTimeEntry_Close(t *testing.T) {
	start := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	e := &TimeEntry{StartTime: start}

	e.Close(start.Add(2*time.Hour + 30*time.Minute))

	if e.EndTime == nil || !e.EndTime.Equal(start.Add(150*time.Minute)) {
		t.Fatalf("unexpected end time %v", e.EndTime)
	}
	if *e.DurationSeconds != 9000 {
		t.Errorf("expected 9000s, got %d", *e.DurationSeconds)
	}
}

func TestTimeEntry_CloseBeforeStartClampsToZero(t *testing.T) {
	start := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	e := &TimeEntry{StartTime: start}

	e.Close(start.Add(-time.Minute))

	if *e.DurationSeconds != 0 {
		t.Errorf("expected 0s, got %d", *e.DurationSeconds)
	}
}

func TestProject_StampTechnician(t *testing.T) {
	p := &Project{Status: ProjectStatusActive}
	at := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

	p.StampTechnician("Ana", ActionCheckIn, at)

	if *p.LastTechnicianName != "Ana" || *p.LastTechnicianAction != ActionCheckIn || !p.LastTechnicianDate.Equal(at) {
		t.Errorf("unexpected stamp %+v", p)
	}
	if p.IsCompleted() {
		t.Error("activo must not be completed")
	}
}
