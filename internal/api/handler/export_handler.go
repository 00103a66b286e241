package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler serves spreadsheet downloads.
type ExportHandler struct {
	exportSvc service.ExportService
	logger    *zap.Logger
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, logger: logger}
}

// ExportProjectReport streams the project's battery report workbook.
// GET /api/projects/:id/report.xlsx
func (h *ExportHandler) ExportProjectReport(c *gin.Context) {
	projectID := c.Param("id")

	buf, filename, err := h.exportSvc.ExportProjectReport(c.Request.Context(), projectID)
	if err != nil {
		h.handleExportError(c, projectID, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, projectID string, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "project not found")
	case errors.Is(err, service.ErrExportGenerateFail):
		h.logger.Error("project report export failed", zap.String("project_id", projectID), zap.Error(err))
		response.Error(c, http.StatusInternalServerError, 16001, "failed to generate spreadsheet")
	default:
		response.InternalError(c)
	}
}
