// internal/handlers/auth.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gisportal/evisa-backend/internal/i18n"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resp, err := h.authService.Login(&req)
	switch {
	case err == nil:
		utils.SuccessResponse(c, gin.H{
			"access_token":  resp.AccessToken,
			"refresh_token": resp.RefreshToken,
			"staff":         resp.Staff,
			"message":       i18n.T(lang, i18n.KeyAuthLoginSuccess),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidCredentials))
	case errors.Is(err, services.ErrAccountDisabled):
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyAuthAccountDisabled))
	default:
		utils.InternalErrorResponse(c, "")
	}
}

// POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	resp, err := h.authService.Refresh(&req)
	if err != nil {
		utils.UnauthorizedResponse(c, i18n.T(lang, i18n.KeyAuthInvalidToken))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
	})
}

// GET /auth/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	staffIDStr, exists := utils.GetStaffIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	staffID, err := uuid.Parse(staffIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid staff ID", nil)
		return
	}

	staff, err := h.authService.GetByID(staffID)
	if err != nil {
		utils.NotFoundResponse(c, "auth.user")
		return
	}

	utils.SuccessResponse(c, gin.H{"staff": staff})
}
