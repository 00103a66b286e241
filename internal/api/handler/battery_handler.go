package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

// BatteryHandler serves scanned codes, battery flows, checkpoint events and
// quality checks.
type BatteryHandler struct {
	batterySvc service.BatteryService
}

// NewBatteryHandler creates a BatteryHandler.
func NewBatteryHandler(batterySvc service.BatteryService) *BatteryHandler {
	return &BatteryHandler{batterySvc: batterySvc}
}

// ── scanned codes ──

// CreateScannedCode
// POST /api/scanned-codes
func (h *BatteryHandler) CreateScannedCode(c *gin.Context) {
	var req dto.ScannedCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	code, err := h.batterySvc.CreateScannedCode(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.Created(c, code)
}

// ListScannedCodes
// GET /api/scanned-codes?project_id=xxx
func (h *BatteryHandler) ListScannedCodes(c *gin.Context) {
	var req dto.ListByProjectQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	items, err := h.batterySvc.ListScannedCodes(c.Request.Context(), req.ProjectID)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// ── flows ──

// CreateFlow registers a box with its batteries.
// POST /api/panasonic-flow
func (h *BatteryHandler) CreateFlow(c *gin.Context) {
	var req dto.FlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	flow, err := h.batterySvc.CreateFlow(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.Created(c, flow)
}

// ListFlows
// GET /api/panasonic-flow?project_id=xxx
func (h *BatteryHandler) ListFlows(c *gin.Context) {
	var req dto.ListByProjectQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	items, err := h.batterySvc.ListFlows(c.Request.Context(), req.ProjectID)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// UpdateCategories records the categories of the caller's latest flow.
// PUT /api/panasonic-flow/categories
func (h *BatteryHandler) UpdateCategories(c *gin.Context) {
	var req dto.BatteryCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.batterySvc.UpdateBatteryCategories(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, result)
}

// ── checkpoints ──

// CreateCheckpoint accepts a station scan, including extra station fields.
// POST /api/panasonic-checkpoints
func (h *BatteryHandler) CreateCheckpoint(c *gin.Context) {
	var req dto.CheckpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.batterySvc.CreateCheckpoint(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.Created(c, result)
}

// ListCheckpointsByProject
// GET /api/panasonic-checkpoints/project/:id
func (h *BatteryHandler) ListCheckpointsByProject(c *gin.Context) {
	items, err := h.batterySvc.ListCheckpointsByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetSession returns a session's events and missing stations.
// GET /api/panasonic-checkpoints/session/:id
func (h *BatteryHandler) GetSession(c *gin.Context) {
	session, err := h.batterySvc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, session)
}

// ── quality checks ──

// UpsertQualityCheck creates or amends the session's quality check.
// POST /api/quality-check
func (h *BatteryHandler) UpsertQualityCheck(c *gin.Context) {
	var req dto.QualityCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.batterySvc.UpsertQualityCheck(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	if result.Outcome == "created" {
		response.Created(c, result)
		return
	}
	response.OK(c, result)
}

// ListQualityChecksByProject
// GET /api/panasonic-quality-questions/project/:id
func (h *BatteryHandler) ListQualityChecksByProject(c *gin.Context) {
	items, err := h.batterySvc.ListQualityChecksByProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// GetQualityCheck
// GET /api/panasonic-quality-questions/session/:id
func (h *BatteryHandler) GetQualityCheck(c *gin.Context) {
	check, err := h.batterySvc.GetQualityCheck(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleBatteryError(c, err)
		return
	}

	response.OK(c, check)
}

func (h *BatteryHandler) handleBatteryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "project not found")
	case errors.Is(err, service.ErrFlowNotFound):
		response.NotFound(c, 14001, "battery flow not found")
	case errors.Is(err, service.ErrFlowExists):
		response.Conflict(c, 14002, "battery flow already registered")
	case errors.Is(err, service.ErrUnknownStation):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14003, "unknown checkpoint station", err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		response.NotFound(c, 14004, "checkpoint session not found")
	case errors.Is(err, service.ErrQualityCheckNotFound):
		response.NotFound(c, 14005, "quality check not found")
	case errors.Is(err, service.ErrQualityCheckInvalid):
		response.ErrorWithDetails(c, http.StatusBadRequest, 14006, "invalid quality check", err.Error())
	case errors.Is(err, service.ErrInvalidValue):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid value", err.Error())
	default:
		response.InternalError(c)
	}
}
