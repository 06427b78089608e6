// internal/handlers/admin.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gisportal/evisa-backend/internal/i18n"
	"github.com/gisportal/evisa-backend/internal/models"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

type AdminHandler struct {
	applicationService *services.ApplicationService
	feedbackService    *services.FeedbackService
}

func NewAdminHandler(applicationService *services.ApplicationService, feedbackService *services.FeedbackService) *AdminHandler {
	return &AdminHandler{
		applicationService: applicationService,
		feedbackService:    feedbackService,
	}
}

// GET /admin/applications
func (h *AdminHandler) GetApplications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	apps, total, err := h.applicationService.List(params)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	result := utils.CreatePaginationResult(apps, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/applications/:id
func (h *AdminHandler) GetApplication(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	app, err := h.applicationService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "application")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"application": app})
}

// GET /admin/applications/:id/documents
func (h *AdminHandler) GetApplicationDocuments(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	app, err := h.applicationService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			utils.NotFoundResponse(c, "application")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	links, err := h.applicationService.DocumentLinks(app)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"documents": links})
}

// PUT /admin/applications/:id/status
func (h *AdminHandler) UpdateApplicationStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if !models.ValidApplicationStatus(req.Status) {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyApplicationInvalidStatus), nil)
		return
	}

	app, err := h.applicationService.UpdateStatus(id, models.ApplicationStatus(req.Status), staffID, req.Note)
	switch {
	case err == nil:
		utils.SuccessResponse(c, gin.H{
			"application": app,
			"message":     i18n.T(lang, i18n.KeyApplicationStatusUpdated),
		})
	case errors.Is(err, services.ErrApplicationNotFound):
		utils.NotFoundResponse(c, "application")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyApplicationBadTransition), err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// POST /admin/applications/:id/reopen
func (h *AdminHandler) ReopenApplication(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.ReopenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	app, err := h.applicationService.Reopen(id, staffID, req.Note)
	switch {
	case err == nil:
		utils.SuccessResponse(c, gin.H{
			"application": app,
			"message":     i18n.T(lang, i18n.KeyApplicationReopened),
		})
	case errors.Is(err, services.ErrApplicationNotFound):
		utils.NotFoundResponse(c, "application")
	case errors.Is(err, services.ErrNotTerminal):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyApplicationBadTransition), err.Error())
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.applicationService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/feedback
func (h *AdminHandler) GetFeedback(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.feedbackService.List(params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/feedback/:id/status
func (h *AdminHandler) MarkFeedbackReviewed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid feedback ID", nil)
		return
	}

	staffID, ok := staffIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	entry, err := h.feedbackService.MarkReviewed(id, staffID)
	if err != nil {
		if errors.Is(err, services.ErrFeedbackNotFound) {
			utils.NotFoundResponse(c, "feedback")
			return
		}
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{"feedback": entry})
}

func staffIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	staffIDStr, exists := utils.GetStaffIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	staffID, err := uuid.Parse(staffIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return staffID, true
}
