package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	pkgerrors "fieldtrack/pkg/errors"
)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint}
}

func checkConstraintViolation(constraint string) error {
	return &pgconn.PgError{Code: "23514", ConstraintName: constraint}
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.User, error) {
	return m.GetByID(ctx, id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

func (m *mockUserRepo) ListActiveByRole(_ context.Context, role string) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role && u.IsActive {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

func (m *mockUserRepo) UpdateStatus(_ context.Context, id, status string) error {
	if u, ok := m.users[id]; ok {
		u.Status = status
	}
	return nil
}

// ── Mock ProjectRepository ──

type mockProjectRepo struct {
	// assignedTo resolves the AssignedUserID filter.
	assignedTo func(projectID, userID string) bool
	// conflicts makes the next N Update calls fail the version check.
	conflicts int
	// shareLocks counts GetByIDForShare calls.
	shareLocks int
	// activity makes Delete fail with a foreign-key violation.
	activity map[string]bool
	// updateErr is returned by the next Update call.
	updateErr error

	projects  map[string]*model.Project
	locations map[string]*model.ProjectLocation
	equipment map[string][]model.ProjectEquipment
	documents map[string][]model.ProjectDocument
	seq       int
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{
		projects:  make(map[string]*model.Project),
		locations: make(map[string]*model.ProjectLocation),
		equipment: make(map[string][]model.ProjectEquipment),
		documents: make(map[string][]model.ProjectDocument),
	}
}

func (m *mockProjectRepo) Create(_ context.Context, p *model.Project) error {
	if p.ProjectID == "" {
		m.seq++
		p.ProjectID = fmt.Sprintf("proj-%d", m.seq)
	}
	if p.Version == 0 {
		p.Version = 1
	}
	cp := *p
	m.projects[p.ProjectID] = &cp
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	cp.Location = m.locations[id]
	cp.Equipment = m.equipment[id]
	cp.Documents = m.documents[id]
	return &cp, nil
}

func (m *mockProjectRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockProjectRepo) GetByIDForShare(ctx context.Context, id string) (*model.Project, error) {
	m.shareLocks++
	return m.GetByIDForUpdate(ctx, id)
}

func (m *mockProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]model.Project, error) {
	var result []model.Project
	for _, p := range m.projects {
		if filter.CompanyID != "" && (p.CompanyID == nil || *p.CompanyID != filter.CompanyID) {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.AssignedUserID != "" && !m.isAssigned(p.ProjectID, filter.AssignedUserID) {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ProjectID < result[j].ProjectID })
	return result, nil
}

func (m *mockProjectRepo) isAssigned(projectID, userID string) bool {
	return m.assignedTo != nil && m.assignedTo(projectID, userID)
}

func (m *mockProjectRepo) Update(_ context.Context, p *model.Project) error {
	if m.updateErr != nil {
		err := m.updateErr
		m.updateErr = nil
		return err
	}
	if m.conflicts > 0 {
		m.conflicts--
		return pkgerrors.ErrOptimisticLock
	}
	stored, ok := m.projects[p.ProjectID]
	if !ok || stored.Version != p.Version {
		return pkgerrors.ErrOptimisticLock
	}
	p.Version++
	cp := *p
	cp.Location, cp.Equipment, cp.Documents, cp.Assignments = nil, nil, nil, nil
	m.projects[p.ProjectID] = &cp
	return nil
}

func (m *mockProjectRepo) UpdateProgress(_ context.Context, id string, expectCompleted int, progress float64) (bool, error) {
	p, ok := m.projects[id]
	if !ok || p.CompletedParts != expectCompleted {
		return false, nil
	}
	p.Progress = progress
	p.Version++
	return true, nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) error {
	if m.activity[id] {
		return foreignKeyViolation("time_entries_project_id_fkey")
	}
	delete(m.projects, id)
	return nil
}

func (m *mockProjectRepo) CreateLocation(_ context.Context, loc *model.ProjectLocation) error {
	m.locations[loc.ProjectID] = loc
	return nil
}

func (m *mockProjectRepo) CreateEquipment(_ context.Context, items []model.ProjectEquipment) error {
	for _, it := range items {
		m.equipment[it.ProjectID] = append(m.equipment[it.ProjectID], it)
	}
	return nil
}

func (m *mockProjectRepo) CreateDocuments(_ context.Context, docs []model.ProjectDocument) error {
	for _, d := range docs {
		m.documents[d.ProjectID] = append(m.documents[d.ProjectID], d)
	}
	return nil
}

func (m *mockProjectRepo) DeleteLocation(_ context.Context, projectID string) error {
	delete(m.locations, projectID)
	return nil
}

func (m *mockProjectRepo) DeleteEquipment(_ context.Context, projectID string) error {
	delete(m.equipment, projectID)
	return nil
}

func (m *mockProjectRepo) DeleteDocuments(_ context.Context, projectID string) error {
	delete(m.documents, projectID)
	return nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	list  []model.ProjectAssignment
	users *mockUserRepo
}

func newMockAssignmentRepo(users *mockUserRepo) *mockAssignmentRepo {
	return &mockAssignmentRepo{users: users}
}

func (m *mockAssignmentRepo) Create(_ context.Context, a *model.ProjectAssignment) error {
	for _, x := range m.list {
		if x.ProjectID == a.ProjectID && x.UserID == a.UserID {
			return uniqueViolation("uk_project_assignments")
		}
	}
	a.AssignmentID = fmt.Sprintf("asg-%d", len(m.list)+1)
	m.list = append(m.list, *a)
	return nil
}

func (m *mockAssignmentRepo) Get(_ context.Context, projectID, userID string) (*model.ProjectAssignment, error) {
	for i := range m.list {
		if m.list[i].ProjectID == projectID && m.list[i].UserID == userID {
			cp := m.list[i]
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) ListByProject(_ context.Context, projectID string) ([]model.ProjectAssignment, error) {
	var result []model.ProjectAssignment
	for _, a := range m.list {
		if a.ProjectID == projectID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, projectID, userID string) (int64, error) {
	for i, a := range m.list {
		if a.ProjectID == projectID && a.UserID == userID {
			m.list = append(m.list[:i], m.list[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockAssignmentRepo) DeleteByProject(_ context.Context, projectID string) error {
	kept := m.list[:0]
	for _, a := range m.list {
		if a.ProjectID != projectID {
			kept = append(kept, a)
		}
	}
	m.list = kept
	return nil
}

func (m *mockAssignmentRepo) CountOtherPresent(_ context.Context, projectID, excludeUserID string) (int64, error) {
	var n int64
	for _, a := range m.list {
		if a.ProjectID != projectID || a.UserID == excludeUserID {
			continue
		}
		if u, ok := m.users.users[a.UserID]; ok && u.Status == model.UserStatusPresent {
			n++
		}
	}
	return n, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	rows map[string]*model.Attendance
	seq  int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{rows: make(map[string]*model.Attendance)}
}

func (m *mockAttendanceRepo) Create(_ context.Context, a *model.Attendance) error {
	for _, x := range m.rows {
		if x.UserID == a.UserID && x.CheckOut == nil {
			return uniqueViolation("uk_attendances_open_per_user")
		}
	}
	m.seq++
	a.AttendanceID = fmt.Sprintf("att-%d", m.seq)
	cp := *a
	m.rows[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) Update(_ context.Context, a *model.Attendance) error {
	cp := *a
	m.rows[a.AttendanceID] = &cp
	return nil
}

func (m *mockAttendanceRepo) GetOpenByUser(_ context.Context, userID string) (*model.Attendance, error) {
	var found *model.Attendance
	for _, a := range m.rows {
		if a.UserID == userID && a.CheckOut == nil {
			if found == nil || a.CheckIn.After(found.CheckIn) {
				found = a
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockAttendanceRepo) ListRecent(_ context.Context, limit int) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.rows {
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckIn.After(result[j].CheckIn) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockAttendanceRepo) UserIDsOnShiftSince(_ context.Context, since time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range m.rows {
		if (!a.CheckIn.Before(since) || a.CheckOut == nil) && !seen[a.UserID] {
			seen[a.UserID] = true
			ids = append(ids, a.UserID)
		}
	}
	return ids, nil
}

// ── Mock TimeEntryRepository ──

type mockTimeEntryRepo struct {
	rows map[string]*model.TimeEntry
	seq  int
}

func newMockTimeEntryRepo() *mockTimeEntryRepo {
	return &mockTimeEntryRepo{rows: make(map[string]*model.TimeEntry)}
}

func (m *mockTimeEntryRepo) Create(_ context.Context, e *model.TimeEntry) error {
	m.seq++
	e.TimeEntryID = fmt.Sprintf("te-%d", m.seq)
	cp := *e
	m.rows[e.TimeEntryID] = &cp
	return nil
}

func (m *mockTimeEntryRepo) Update(_ context.Context, e *model.TimeEntry) error {
	cp := *e
	m.rows[e.TimeEntryID] = &cp
	return nil
}

func (m *mockTimeEntryRepo) GetOpenByUser(_ context.Context, userID string) (*model.TimeEntry, error) {
	var found *model.TimeEntry
	for _, e := range m.rows {
		if e.UserID == userID && e.EndTime == nil {
			if found == nil || e.StartTime.After(found.StartTime) {
				found = e
			}
		}
	}
	if found == nil {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *mockTimeEntryRepo) List(_ context.Context, f repository.TimeEntryFilter) ([]model.TimeEntry, error) {
	var result []model.TimeEntry
	for _, e := range m.rows {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.ProjectID != "" && (e.ProjectID == nil || *e.ProjectID != f.ProjectID) {
			continue
		}
		if f.From != nil && e.StartTime.Before(*f.From) {
			continue
		}
		if f.To != nil && !e.StartTime.Before(*f.To) {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.After(result[j].StartTime) })
	return result, nil
}

// ── Mock DayStatusRepository ──

type mockDayStatusRepo struct {
	days map[string]*model.DayStatus
}

func newMockDayStatusRepo() *mockDayStatusRepo {
	return &mockDayStatusRepo{days: make(map[string]*model.DayStatus)}
}

func (m *mockDayStatusRepo) Get(_ context.Context, day time.Time) (*model.DayStatus, error) {
	if ds, ok := m.days[day.Format("2006-01-02")]; ok {
		cp := *ds
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayStatusRepo) Upsert(_ context.Context, ds *model.DayStatus) error {
	cp := *ds
	m.days[ds.Day.Format("2006-01-02")] = &cp
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	list []model.Notification
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{}
}

func (m *mockNotificationRepo) CreateBatch(_ context.Context, list []model.Notification) error {
	for _, n := range list {
		n.NotificationID = fmt.Sprintf("ntf-%d", len(m.list)+1)
		m.list = append(m.list, n)
	}
	return nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	var result []model.Notification
	for _, n := range m.list {
		if n.UserID == userID && (!unreadOnly || !n.Read) {
			result = append(result, n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id, userID string) (int64, error) {
	for i := range m.list {
		if m.list[i].NotificationID == id && m.list[i].UserID == userID {
			m.list[i].Read = true
			return 1, nil
		}
	}
	return 0, nil
}

func (m *mockNotificationRepo) UserIDsNotifiedSince(_ context.Context, notifType string, since time.Time) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, n := range m.list {
		if n.Type == notifType && !n.CreatedAt.Before(since) && !seen[n.UserID] {
			seen[n.UserID] = true
			ids = append(ids, n.UserID)
		}
	}
	return ids, nil
}

// ── Mock ScannedCodeRepository ──

type mockScannedCodeRepo struct {
	list []model.ScannedCode
}

func (m *mockScannedCodeRepo) Create(_ context.Context, sc *model.ScannedCode) error {
	sc.ScannedCodeID = fmt.Sprintf("scan-%d", len(m.list)+1)
	m.list = append(m.list, *sc)
	return nil
}

func (m *mockScannedCodeRepo) List(_ context.Context, projectID string) ([]model.ScannedCode, error) {
	var result []model.ScannedCode
	for _, sc := range m.list {
		if projectID == "" || (sc.ProjectID != nil && *sc.ProjectID == projectID) {
			result = append(result, sc)
		}
	}
	return result, nil
}

// ── Mock BatteryFlowRepository ──

type mockBatteryFlowRepo struct {
	flows map[string]*model.BatteryFlow
}

func newMockBatteryFlowRepo() *mockBatteryFlowRepo {
	return &mockBatteryFlowRepo{flows: make(map[string]*model.BatteryFlow)}
}

func flowKeyOf(f *model.BatteryFlow) repository.FlowKey {
	k := repository.FlowKey{BatteryCode: f.BatteryCode, ProjectID: f.ProjectID, UserID: f.UserID}
	if f.BatteryCode2 != nil {
		k.BatteryCode2 = *f.BatteryCode2
	}
	return k
}

func (m *mockBatteryFlowRepo) Create(_ context.Context, f *model.BatteryFlow) error {
	for _, x := range m.flows {
		if flowKeyOf(x) == flowKeyOf(f) {
			return uniqueViolation("uk_battery_flows_natural")
		}
	}
	f.FlowID = fmt.Sprintf("flow-%d", len(m.flows)+1)
	cp := *f
	m.flows[f.FlowID] = &cp
	return nil
}

func (m *mockBatteryFlowRepo) GetByKeyForUpdate(_ context.Context, key repository.FlowKey) (*model.BatteryFlow, error) {
	for _, f := range m.flows {
		if flowKeyOf(f) == key {
			cp := *f
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBatteryFlowRepo) UpdateCategorie(_ context.Context, flowID, categorie string) error {
	if f, ok := m.flows[flowID]; ok {
		f.Categorie = categorie
	}
	return nil
}

func (m *mockBatteryFlowRepo) List(_ context.Context, projectID string) ([]model.BatteryFlow, error) {
	var result []model.BatteryFlow
	for _, f := range m.flows {
		if projectID == "" || f.ProjectID == projectID {
			result = append(result, *f)
		}
	}
	return result, nil
}

// ── Mock CheckpointRepository ──

type mockCheckpointRepo struct {
	events []model.CheckpointEvent
}

func (m *mockCheckpointRepo) CreateBatch(_ context.Context, events []model.CheckpointEvent) error {
	for i := range events {
		events[i].EventID = fmt.Sprintf("evt-%d", len(m.events)+1)
		m.events = append(m.events, events[i])
	}
	return nil
}

func (m *mockCheckpointRepo) ListBySession(_ context.Context, sessionID string) ([]model.CheckpointEvent, error) {
	var result []model.CheckpointEvent
	for _, e := range m.events {
		if e.SessionID == sessionID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (m *mockCheckpointRepo) ListByProject(_ context.Context, projectID string) ([]model.CheckpointEvent, error) {
	var result []model.CheckpointEvent
	for _, e := range m.events {
		if e.ProjectID == projectID {
			result = append(result, e)
		}
	}
	return result, nil
}

// ── Mock QualityCheckRepository ──

type mockQualityCheckRepo struct {
	checks map[string]*model.QualityCheck
	// racer is inserted by a simulated concurrent writer on the next Create.
	racer *model.QualityCheck
	// creates counts successful inserts.
	creates int
}

func newMockQualityCheckRepo() *mockQualityCheckRepo {
	return &mockQualityCheckRepo{checks: make(map[string]*model.QualityCheck)}
}

func (m *mockQualityCheckRepo) Create(_ context.Context, qc *model.QualityCheck) error {
	if m.racer != nil {
		m.checks[m.racer.SessionID] = m.racer
		m.racer = nil
	}
	if _, ok := m.checks[qc.SessionID]; ok {
		return uniqueViolation("uk_quality_checks_session")
	}
	qc.QualityCheckID = fmt.Sprintf("qc-%d", len(m.checks)+1)
	cp := *qc
	cp.Answers = cloneAnswers(qc.Answers)
	m.checks[qc.SessionID] = &cp
	m.creates++
	return nil
}

func (m *mockQualityCheckRepo) Update(_ context.Context, qc *model.QualityCheck) error {
	cp := *qc
	cp.Answers = cloneAnswers(qc.Answers)
	m.checks[qc.SessionID] = &cp
	return nil
}

func (m *mockQualityCheckRepo) GetBySession(_ context.Context, sessionID string) (*model.QualityCheck, error) {
	if qc, ok := m.checks[sessionID]; ok {
		cp := *qc
		cp.Answers = cloneAnswers(qc.Answers)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockQualityCheckRepo) GetBySessionForUpdate(ctx context.Context, sessionID string) (*model.QualityCheck, error) {
	return m.GetBySession(ctx, sessionID)
}

func (m *mockQualityCheckRepo) ListByProject(_ context.Context, projectID string) ([]model.QualityCheck, error) {
	var result []model.QualityCheck
	for _, qc := range m.checks {
		if qc.ProjectID == projectID {
			result = append(result, *qc)
		}
	}
	return result, nil
}

func cloneAnswers(src datatypes.JSONMap) datatypes.JSONMap {
	dst := make(datatypes.JSONMap, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// ── fixture ──

type mockRepos struct {
	users       *mockUserRepo
	projects    *mockProjectRepo
	assignments *mockAssignmentRepo
	attendance  *mockAttendanceRepo
	timeEntries *mockTimeEntryRepo
	days        *mockDayStatusRepo
	notes       *mockNotificationRepo
	scans       *mockScannedCodeRepo
	flows       *mockBatteryFlowRepo
	checkpoints *mockCheckpointRepo
	quality     *mockQualityCheckRepo
	repo        *repository.Repository
}

func newMockRepos() *mockRepos {
	users := newMockUserRepo()
	m := &mockRepos{
		users:       users,
		projects:    newMockProjectRepo(),
		assignments: newMockAssignmentRepo(users),
		attendance:  newMockAttendanceRepo(),
		timeEntries: newMockTimeEntryRepo(),
		days:        newMockDayStatusRepo(),
		notes:       newMockNotificationRepo(),
		scans:       &mockScannedCodeRepo{},
		flows:       newMockBatteryFlowRepo(),
		checkpoints: &mockCheckpointRepo{},
		quality:     newMockQualityCheckRepo(),
	}
	m.projects.assignedTo = func(projectID, userID string) bool {
		_, err := m.assignments.Get(context.Background(), projectID, userID)
		return err == nil
	}
	m.repo = &repository.Repository{
		User:         m.users,
		Project:      m.projects,
		Assignment:   m.assignments,
		Attendance:   m.attendance,
		TimeEntry:    m.timeEntries,
		DayStatus:    m.days,
		Notification: m.notes,
		ScannedCode:  m.scans,
		BatteryFlow:  m.flows,
		Checkpoint:   m.checkpoints,
		QualityCheck: m.quality,
	}
	return m
}

func (m *mockRepos) addUser(id, name, role, status string) *model.User {
	u := &model.User{
		UserID:   id,
		Name:     name,
		Email:    id + "@example.com",
		Role:     role,
		Status:   status,
		IsActive: true,
	}
	m.users.users[id] = u
	return u
}

func (m *mockRepos) addProject(id string, total, completed int) *model.Project {
	p := &model.Project{
		ProjectID:      id,
		Name:           "Project " + id,
		Status:         model.ProjectStatusActive,
		ProjectType:    model.ProjectTypeBench,
		TotalParts:     total,
		CompletedParts: completed,
		Progress:       ComputeProgress(completed, total),
	}
	p.Version = 1
	m.projects.projects[id] = p
	return p
}

func (m *mockRepos) assign(projectID, userID string) {
	m.assignments.list = append(m.assignments.list, model.ProjectAssignment{
		AssignmentID: fmt.Sprintf("asg-%s-%s", projectID, userID),
		ProjectID:    projectID,
		UserID:       userID,
	})
}
