package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/dto"
	"fieldtrack/internal/service"
	"fieldtrack/pkg/response"
)

// ProjectHandler serves project CRUD, assignment and progress endpoints.
type ProjectHandler struct {
	projectSvc service.ProjectService
}

// NewProjectHandler creates a ProjectHandler.
func NewProjectHandler(projectSvc service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectSvc: projectSvc}
}

// List returns the projects visible to the caller's role.
// GET /api/projects?status=activo
func (h *ProjectHandler) List(c *gin.Context) {
	var req dto.ListProjectsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	caller, ok := MustGetCaller(c)
	if !ok {
		return
	}

	items, err := h.projectSvc.List(c.Request.Context(), caller, req.Status)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, gin.H{"list": items})
}

// Get
// GET /api/projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projectSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// Create
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.Created(c, project)
}

// Delete
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, nil)
}

// UpdateParts sets the absolute completed part count.
// PUT /api/projects/:id/update-parts
func (h *ProjectHandler) UpdateParts(c *gin.Context) {
	var req dto.UpdatePartsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	result, err := h.projectSvc.UpdateParts(c.Request.Context(), c.Param("id"), *req.PartsCompleted)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign adds or removes a technician. Duplicate assign and no-op unassign
// answer 200 with an informational message.
// POST /api/projects/:id/assignments
func (h *ProjectHandler) Assign(c *gin.Context) {
	var req dto.AssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.projectSvc.Assign(c.Request.Context(), c.Param("id"), &req, callerID)
	switch {
	case err == nil:
		response.OK(c, result)
	case errors.Is(err, service.ErrAlreadyAssigned) && result != nil:
		response.Info(c, "user already assigned to project", result)
	case errors.Is(err, service.ErrNotAssigned) && result != nil:
		response.Info(c, "user not assigned to project", result)
	default:
		h.handleProjectError(c, err)
	}
}

// Complete
// POST /api/projects/:id/complete
func (h *ProjectHandler) Complete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	project, err := h.projectSvc.Complete(c.Request.Context(), c.Param("id"), callerID)
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, project)
}

// RecalculateProgress rewrites stale stored progress values.
// POST /api/projects/recalculate-progress
func (h *ProjectHandler) RecalculateProgress(c *gin.Context) {
	result, err := h.projectSvc.RecalculateAll(c.Request.Context())
	if err != nil {
		h.handleProjectError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *ProjectHandler) handleProjectError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		response.NotFound(c, 13001, "project not found")
	case errors.Is(err, service.ErrTechnicianNotFound):
		response.NotFound(c, 13002, "technician not found")
	case errors.Is(err, service.ErrProjectCompleted):
		response.Conflict(c, 13003, "project already completed")
	case errors.Is(err, service.ErrAlreadyAssigned):
		response.Conflict(c, 13004, "user already assigned to project")
	case errors.Is(err, service.ErrNotAssigned):
		response.Conflict(c, 13005, "user not assigned to project")
	case errors.Is(err, service.ErrConcurrentUpdate):
		response.Conflict(c, 13006, "project was modified concurrently, retry")
	case errors.Is(err, service.ErrProjectHasActivity):
		response.ErrorWithDetails(c, http.StatusConflict, 13007, "project has recorded activity", err.Error())
	case errors.Is(err, service.ErrInvalidValue):
		response.ErrorWithDetails(c, http.StatusBadRequest, 10001, "invalid value", err.Error())
	default:
		response.InternalError(c)
	}
}
