package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fieldtrack/internal/checkpoint"
	"fieldtrack/internal/dto"
	"fieldtrack/internal/model"
	"fieldtrack/internal/repository"
	"fieldtrack/pkg/clock"
)

// ── export errors ──

var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

// ExportService project report export.
//
// The workbook carries four sheets:
//   - Summary: project header, progress and hours
//   - Sessions: one row per checkpoint session with completeness
//   - Checkpoints: every station scan
//   - Quality: one row per questionnaire, answers as columns
type ExportService interface {
	// ExportProjectReport returns the xlsx content and a suggested filename.
	ExportProjectReport(ctx context.Context, projectID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo     *repository.Repository
	stations *checkpoint.Catalogue
	clock    clock.Clock
	logger   *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, stations *checkpoint.Catalogue, clk clock.Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, stations: stations, clock: clk, logger: logger}
}

const (
	sheetSummary     = "Summary"
	sheetSessions    = "Sessions"
	sheetCheckpoints = "Checkpoints"
	sheetQuality     = "Quality"
)

func (s *exportService) ExportProjectReport(ctx context.Context, projectID string) (*bytes.Buffer, string, error) {
	// 1. load data
	project, err := s.repo.Project.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProjectNotFound
		}
		s.logger.Error("query project failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, "", err
	}
	events, err := s.repo.Checkpoint.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("list checkpoints failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, "", err
	}
	checks, err := s.repo.QualityCheck.ListByProject(ctx, projectID)
	if err != nil {
		s.logger.Error("list quality checks failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, "", err
	}
	entries, err := s.repo.TimeEntry.List(ctx, repository.TimeEntryFilter{ProjectID: projectID})
	if err != nil {
		s.logger.Error("list time entries failed", zap.String("project_id", projectID), zap.Error(err))
		return nil, "", err
	}

	// 2. build workbook
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	idx, _ := f.NewSheet(sheetSummary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	s.writeSummary(f, project, entries, headerStyle)
	s.writeSessions(f, events, headerStyle)
	s.writeCheckpoints(f, events, headerStyle)
	s.writeQuality(f, checks, headerStyle)

	// 3. serialize
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write xlsx failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("project_%s_%s.xlsx", sanitizeFilename(project.Name), s.clock.Now().Format("20060102"))
	return buf, filename, nil
}

func (s *exportService) writeSummary(f *excelize.File, p *model.Project, entries []model.TimeEntry, headerStyle int) {
	loc := s.clock.Location()
	var secs int64
	for _, e := range entries {
		if e.DurationSeconds != nil {
			secs += *e.DurationSeconds
		}
	}

	f.SetColWidth(sheetSummary, "A", "A", 24)
	f.SetColWidth(sheetSummary, "B", "B", 40)
	f.SetCellValue(sheetSummary, "A1", p.Name)
	f.MergeCell(sheetSummary, "A1", "B1")
	f.SetCellStyle(sheetSummary, "A1", "B1", headerStyle)

	rows := [][2]interface{}{
		{"Client", p.Client},
		{"Type", p.ProjectType},
		{"Status", p.Status},
		{"Total parts", p.TotalParts},
		{"Completed parts", p.CompletedParts},
		{"Progress (%)", p.Progress},
		{"Hours logged", secondsToHours(secs)},
		{"Time entries", len(entries)},
	}
	if p.LastTechnicianName != nil {
		rows = append(rows, [2]interface{}{"Last technician", *p.LastTechnicianName})
	}
	if p.LastTechnicianDate != nil {
		rows = append(rows, [2]interface{}{"Last activity", formatTime(*p.LastTechnicianDate, loc)})
	}
	for i, r := range rows {
		f.SetCellValue(sheetSummary, cell("A", i+2), r[0])
		f.SetCellValue(sheetSummary, cell("B", i+2), r[1])
	}
}

func (s *exportService) writeSessions(f *excelize.File, events []model.CheckpointEvent, headerStyle int) {
	f.NewSheet(sheetSessions)
	headers := []string{"Session", "Technician", "Scans", "Stations", "Missing", "Complete"}
	writeHeader(f, sheetSessions, headers, headerStyle)

	bySession := make(map[string][]model.CheckpointEvent)
	var order []string
	for _, e := range events {
		if _, ok := bySession[e.SessionID]; !ok {
			order = append(order, e.SessionID)
		}
		bySession[e.SessionID] = append(bySession[e.SessionID], e)
	}
	sort.Strings(order)

	for i, id := range order {
		group := bySession[id]
		seen := make(map[string]bool, len(group))
		for _, e := range group {
			seen[e.CheckpointName] = true
		}
		missing := s.stations.Missing(seen)
		tech := ""
		if group[0].User != nil {
			tech = group[0].User.Name
		}
		complete := "no"
		if len(missing) == 0 {
			complete = "yes"
		}
		row := i + 2
		f.SetCellValue(sheetSessions, cell("A", row), id)
		f.SetCellValue(sheetSessions, cell("B", row), tech)
		f.SetCellValue(sheetSessions, cell("C", row), len(group))
		f.SetCellValue(sheetSessions, cell("D", row), sessionStations(group))
		f.SetCellValue(sheetSessions, cell("E", row), strings.Join(missing, ", "))
		f.SetCellValue(sheetSessions, cell("F", row), complete)
	}
}

func (s *exportService) writeCheckpoints(f *excelize.File, events []model.CheckpointEvent, headerStyle int) {
	f.NewSheet(sheetCheckpoints)
	headers := []string{"Session", "Station", "Number", "Code", "Latitude", "Longitude", "Phase", "Status", "Category", "Technician", "Timestamp"}
	writeHeader(f, sheetCheckpoints, headers, headerStyle)

	loc := s.clock.Location()
	for i, e := range events {
		row := i + 2
		station := e.CheckpointName
		if st, ok := s.stations.Lookup(e.CheckpointName); ok && st.Label != "" {
			station = st.Label
		}
		tech, cat := "", ""
		if e.User != nil {
			tech = e.User.Name
		}
		if e.Categorie != nil {
			cat = *e.Categorie
		}
		values := []interface{}{
			e.SessionID, station, e.CheckpointNumber, e.ScannedCode, e.Latitude, e.Longitude,
			e.Phase, e.Status, cat, tech, formatTime(e.Timestamp, loc),
		}
		for c, v := range values {
			f.SetCellValue(sheetCheckpoints, cell(colName(c), row), v)
		}
	}
}

func (s *exportService) writeQuality(f *excelize.File, checks []model.QualityCheck, headerStyle int) {
	f.NewSheet(sheetQuality)
	headers := []string{"Session", "Phase", "Technician", "Battery 1", "Category 1", "Battery 2", "Category 2", "Avg box time (s)", "Timestamp"}
	fixed := len(headers)
	headers = append(headers, dto.QualityAnswerKeys...)
	writeHeader(f, sheetQuality, headers, headerStyle)

	loc := s.clock.Location()
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	for i, qc := range checks {
		row := i + 2
		tech := ""
		if qc.User != nil {
			tech = qc.User.Name
		}
		var avg interface{} = ""
		if qc.AvgBoxTime != nil {
			avg = *qc.AvgBoxTime
		}
		values := []interface{}{
			qc.SessionID, qc.Phase, tech,
			deref(qc.Battery1Code), deref(qc.Battery1Category),
			deref(qc.Battery2Code), deref(qc.Battery2Category),
			avg, formatTime(qc.Timestamp, loc),
		}
		for c, v := range values {
			f.SetCellValue(sheetQuality, cell(colName(c), row), v)
		}
		for k, key := range dto.QualityAnswerKeys {
			if v, ok := qc.Answers[key]; ok {
				f.SetCellValue(sheetQuality, cell(colName(fixed+k), row), v)
			}
		}
	}
}

// ── helpers ──

// sessionStations lists the distinct station names of events, in order of first appearance.
func sessionStations(events []model.CheckpointEvent) string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, e := range events {
		if !seen[e.CheckpointName] {
			seen[e.CheckpointName] = true
			names = append(names, e.CheckpointName)
		}
	}
	return strings.Join(names, ", ")
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), 1), h)
		f.SetColWidth(sheet, colName(i), colName(i), 16)
	}
	f.SetCellStyle(sheet, "A1", cell(colName(len(headers)-1), 1), style)
}

func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
