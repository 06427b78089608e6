// internal/handlers/feedback.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/gisportal/evisa-backend/internal/i18n"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

type FeedbackHandler struct {
	feedbackService *services.FeedbackService
}

func NewFeedbackHandler(feedbackService *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
	}
}

// POST /feedback
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	entry, err := h.feedbackService.Submit(&req)
	if err != nil {
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"id":      entry.ID,
		"message": i18n.T(lang, i18n.KeyFeedbackReceived),
	})
}
