package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"fieldtrack/internal/checkpoint"
	"fieldtrack/internal/model"
)

func TestExportProjectReport(t *testing.T) {
	m := newMockRepos()
	tech := m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusAbsent)
	p := m.addProject("proj-1", 10, 4)
	p.Name = "Bench Norte/2"
	addEntry(m, "tech-1", "proj-1", time.Date(2025, 3, 3, 9, 0, 0, 0, fieldZone), 1.5, 4, model.EntryTypeManual)

	ts := time.Date(2025, 3, 3, 10, 0, 0, 0, fieldZone)
	m.checkpoints.events = []model.CheckpointEvent{
		{EventID: "e1", SessionID: "S-1", CheckpointName: "1_pickup", CheckpointNumber: 1, ScannedCode: "B1", ProjectID: "proj-1", UserID: "tech-1", Timestamp: ts, User: tech},
		{EventID: "e2", SessionID: "S-1", CheckpointName: "2_box_scan", CheckpointNumber: 2, ScannedCode: "B1", ProjectID: "proj-1", UserID: "tech-1", Timestamp: ts, User: tech},
	}
	m.quality.checks["S-1"] = &model.QualityCheck{
		QualityCheckID: "qc-1",
		SessionID:      "S-1",
		ProjectID:      "proj-1",
		UserID:         "tech-1",
		Phase:          model.PhaseCategorization,
		Answers:        map[string]interface{}{"respuesta1": "si"},
		Timestamp:      ts,
	}

	svc := NewExportService(m.repo, checkpoint.Default(), newTestClock(), zap.NewNop())
	buf, filename, err := svc.ExportProjectReport(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("ExportProjectReport should succeed: %v", err)
	}
	if filename != "project_Bench_Norte_2_20250310.xlsx" {
		t.Errorf("unexpected filename %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("output should be a valid workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if strings.Join(sheets, ",") != "Summary,Sessions,Checkpoints,Quality" {
		t.Errorf("unexpected sheets %v", sheets)
	}
	if v, _ := f.GetCellValue(sheetSummary, "B8"); v != "1.5" {
		t.Errorf("expected 1.5 hours logged, got %q", v)
	}
	if v, _ := f.GetCellValue(sheetSessions, "F2"); v != "no" {
		t.Errorf("session should be incomplete, got %q", v)
	}
	if v, _ := f.GetCellValue(sheetCheckpoints, "B2"); v != "Recolección en sitio" {
		t.Errorf("checkpoint row should carry the station label, got %q", v)
	}
	if v, _ := f.GetCellValue(sheetQuality, "J2"); v != "si" {
		t.Errorf("respuesta1 should be in the first answer column, got %q", v)
	}
}

func TestExportProjectReport_NotFound(t *testing.T) {
	m := newMockRepos()
	svc := NewExportService(m.repo, checkpoint.Default(), newTestClock(), zap.NewNop())
	if _, _, err := svc.ExportProjectReport(context.Background(), "ghost"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got: %v", err)
	}
}
