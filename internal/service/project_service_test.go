package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
)

func setupProjectService() (ProjectService, *mockRepos) {
	m := newMockRepos()
	return NewProjectService(m.repo, newTestClock(), zap.NewNop()), m
}

// ── ComputeProgress ──

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name             string
		completed, total int
		want             float64
	}{
		{"zero total", 5, 0, 0},
		{"negative total", 5, -3, 0},
		{"none done", 0, 40, 0},
		{"exact", 25, 100, 25},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"half to even down", 1, 8, 12},
		{"half to even up", 3, 8, 38},
		{"over total", 150, 100, 150},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeProgress(tt.completed, tt.total); got != tt.want {
				t.Errorf("ComputeProgress(%d, %d) = %v, want %v", tt.completed, tt.total, got, tt.want)
			}
		})
	}
}

// ── Create ──

func TestCreateProject_WithTechnicians(t *testing.T) {
	svc, m := setupProjectService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusAbsent)
	m.addUser("tech-2", "Luis", model.RoleTechnician, model.UserStatusAbsent)

	resp, err := svc.Create(context.Background(), &dto.CreateProjectRequest{
		Name:          "Bench Monterrey",
		ProjectType:   model.ProjectTypeBench,
		TotalParts:    200,
		Location:      &dto.ProjectLocationInput{Name: "Planta 2"},
		Equipment:     []dto.EquipmentInput{{Name: "Scanner"}},
		Documents:     []dto.DocumentInput{{Name: "Plan", URL: "https://example.com/plan.pdf"}},
		TechnicianIDs: []string{"tech-1", "tech-2", "tech-1"},
	}, "admin-1")
	if err != nil {
		t.Fatalf("Create should succeed: %v", err)
	}
	if resp.Status != model.ProjectStatusActive || resp.Progress != 0 {
		t.Errorf("unexpected initial state %+v", resp)
	}
	if resp.LastTechnicianName == nil || *resp.LastTechnicianName != "Luis" {
		t.Errorf("expected last technician Luis, got %v", resp.LastTechnicianName)
	}
	if len(m.assignments.list) != 2 {
		t.Errorf("expected 2 deduplicated assignments, got %d", len(m.assignments.list))
	}
	if len(resp.Equipment) != 1 || resp.Equipment[0].Status != "operativo" {
		t.Errorf("equipment should default to operativo, got %+v", resp.Equipment)
	}
	if resp.Location == nil || len(resp.Documents) != 1 {
		t.Error("location and documents should be stored")
	}
}

func TestCreateProject_UnknownTechnician(t *testing.T) {
	svc, m := setupProjectService()

	_, err := svc.Create(context.Background(), &dto.CreateProjectRequest{
		Name:          "Patios",
		ProjectType:   model.ProjectTypePatios,
		TotalParts:    10,
		TechnicianIDs: []string{"ghost"},
	}, "admin-1")
	if !errors.Is(err, ErrTechnicianNotFound) {
		t.Errorf("expected ErrTechnicianNotFound, got: %v", err)
	}
	if len(m.projects.projects) != 0 {
		t.Error("no project should be stored")
	}
}

// ── List ──

func TestListProjects_ScopedByRole(t *testing.T) {
	svc, m := setupProjectService()
	company := "company-1"
	m.addProject("proj-1", 10, 0).CompanyID = &company
	m.addProject("proj-2", 10, 0)
	m.assign("proj-2", "tech-1")

	all, _ := svc.List(context.Background(), Caller{UserID: "admin-1", Role: model.RoleAdmin}, "")
	if len(all) != 2 {
		t.Errorf("admin should see 2 projects, got %d", len(all))
	}

	client, _ := svc.List(context.Background(), Caller{UserID: "c-1", Role: model.RoleClient, CompanyID: company}, "")
	if len(client) != 1 || client[0].ID != "proj-1" {
		t.Errorf("client should see only proj-1, got %+v", client)
	}

	orphan, _ := svc.List(context.Background(), Caller{UserID: "c-2", Role: model.RoleClient}, "")
	if orphan == nil || len(orphan) != 0 {
		t.Errorf("client without company should see an empty list, got %+v", orphan)
	}

	m.projects.projects["proj-1"].Status = model.ProjectStatusCompleted
	done, _ := svc.List(context.Background(), Caller{UserID: "admin-1", Role: model.RoleAdmin}, model.ProjectStatusCompleted)
	if len(done) != 1 || done[0].ID != "proj-1" {
		t.Errorf("status filter should keep only proj-1, got %+v", done)
	}

	tech, _ := svc.List(context.Background(), Caller{UserID: "tech-1", Role: model.RoleTechnician}, "")
	if len(tech) != 1 || tech[0].ID != "proj-2" {
		t.Errorf("technician should see only assigned projects, got %+v", tech)
	}
}

// ── Assign ──

func TestAssign_AssignThenDuplicate(t *testing.T) {
	svc, m := setupProjectService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusAbsent)
	m.addProject("proj-1", 10, 0)

	req := &dto.AssignmentRequest{UserID: "tech-1", Action: "assign"}
	resp, err := svc.Assign(context.Background(), "proj-1", req, "admin-1")
	if err != nil || !resp.Changed {
		t.Fatalf("first assign should change state, got resp=%+v err=%v", resp, err)
	}

	resp, err = svc.Assign(context.Background(), "proj-1", req, "admin-1")
	if !errors.Is(err, ErrAlreadyAssigned) {
		t.Fatalf("expected ErrAlreadyAssigned, got: %v", err)
	}
	if resp == nil || resp.Changed {
		t.Errorf("duplicate assign should return an unchanged response, got %+v", resp)
	}
}

func TestAssign_UnassignMissing(t *testing.T) {
	svc, m := setupProjectService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusAbsent)
	m.addProject("proj-1", 10, 0)

	resp, err := svc.Assign(context.Background(), "proj-1", &dto.AssignmentRequest{UserID: "tech-1", Action: "unassign"}, "admin-1")
	if !errors.Is(err, ErrNotAssigned) {
		t.Fatalf("expected ErrNotAssigned, got: %v", err)
	}
	if resp == nil || resp.Changed {
		t.Errorf("no-op unassign should return an unchanged response, got %+v", resp)
	}
}

// ── Complete ──

func TestComplete(t *testing.T) {
	svc, m := setupProjectService()
	m.addUser("admin-1", "Marta", model.RoleAdmin, model.UserStatusAbsent)
	m.addProject("proj-1", 10, 4)

	resp, err := svc.Complete(context.Background(), "proj-1", "admin-1")
	if err != nil {
		t.Fatalf("Complete should succeed: %v", err)
	}
	if resp.Status != model.ProjectStatusCompleted {
		t.Errorf("expected completado, got %s", resp.Status)
	}
	if _, err := svc.Complete(context.Background(), "proj-1", "admin-1"); !errors.Is(err, ErrProjectCompleted) {
		t.Errorf("expected ErrProjectCompleted, got: %v", err)
	}
}

// ── Progress ──

func TestSubmitReport_AccumulatesParts(t *testing.T) {
	svc, m := setupProjectService()
	m.addUser("tech-1", "Ana", model.RoleTechnician, model.UserStatusPresent)
	m.addProject("proj-1", 8, 0)

	resp, err := svc.SubmitReport(context.Background(), "tech-1", &dto.ReportRequest{
		ProjectID:      "proj-1",
		Hours:          1.5,
		PartsCompleted: 3,
	})
	if err != nil {
		t.Fatalf("SubmitReport should succeed: %v", err)
	}
	if resp.ProjectProgress != 38 {
		t.Errorf("expected progress 38, got %v", resp.ProjectProgress)
	}
	entry := m.timeEntries.rows[resp.TimeEntryID]
	if entry.EntryType != model.EntryTypeManual || *entry.DurationSeconds != 5400 {
		t.Errorf("unexpected entry %+v", entry)
	}
	if !entry.EndTime.Equal(newTestClock().Now()) {
		t.Error("manual entry should end now")
	}
	if m.projects.projects["proj-1"].CompletedParts != 3 {
		t.Error("completed parts should accumulate")
	}
}

func TestUpdateParts_RetriesOnce(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 100, 0)
	m.projects.conflicts = 1

	resp, err := svc.UpdateParts(context.Background(), "proj-1", 120)
	if err != nil {
		t.Fatalf("UpdateParts should succeed after retry: %v", err)
	}
	if resp.CompletedParts != 120 || resp.Progress != 120 {
		t.Errorf("unexpected outcome %+v", resp)
	}
}

func TestUpdateParts_ConcurrentUpdate(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 100, 0)
	m.projects.conflicts = 2

	if _, err := svc.UpdateParts(context.Background(), "proj-1", 10); !errors.Is(err, ErrConcurrentUpdate) {
		t.Errorf("expected ErrConcurrentUpdate, got: %v", err)
	}
}

func TestRecalculateAll(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 3, 1)
	m.addProject("proj-2", 4, 2).Progress = 10

	resp, err := svc.RecalculateAll(context.Background())
	if err != nil {
		t.Fatalf("RecalculateAll should succeed: %v", err)
	}
	if resp.Scanned != 2 || resp.Updated != 1 {
		t.Errorf("expected scanned=2 updated=1, got %+v", resp)
	}
	if m.projects.projects["proj-2"].Progress != 50 {
		t.Errorf("stale progress should be rewritten, got %v", m.projects.projects["proj-2"].Progress)
	}
}

func TestDeleteProject(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 10, 0)
	m.assign("proj-1", "tech-1")

	if err := svc.Delete(context.Background(), "proj-1"); err != nil {
		t.Fatalf("Delete should succeed: %v", err)
	}
	if len(m.projects.projects) != 0 || len(m.assignments.list) != 0 {
		t.Error("project and assignments should be removed")
	}
	if err := svc.Delete(context.Background(), "proj-1"); !errors.Is(err, ErrProjectNotFound) {
		t.Errorf("expected ErrProjectNotFound, got: %v", err)
	}
}

func TestDeleteProject_WithActivity(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 10, 0)
	m.projects.activity = map[string]bool{"proj-1": true}

	err := svc.Delete(context.Background(), "proj-1")
	if !errors.Is(err, ErrProjectHasActivity) {
		t.Fatalf("expected ErrProjectHasActivity, got: %v", err)
	}
	if !strings.Contains(err.Error(), "time_entries_project_id_fkey") {
		t.Errorf("error should name the constraint, got: %v", err)
	}
	if _, ok := m.projects.projects["proj-1"]; !ok {
		t.Error("project should still exist")
	}
}

func TestUpdateParts_CheckViolation(t *testing.T) {
	svc, m := setupProjectService()
	m.addProject("proj-1", 100, 0)
	m.projects.updateErr = checkConstraintViolation("ck_projects_completed_parts")

	_, err := svc.UpdateParts(context.Background(), "proj-1", 10)
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected ErrInvalidValue, got: %v", err)
	}
	if !strings.Contains(err.Error(), "ck_projects_completed_parts") {
		t.Errorf("error should name the constraint, got: %v", err)
	}
}
