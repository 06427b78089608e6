// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/models"
	"github.com/gisportal/evisa-backend/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
)

// AuthService handles staff sign-in. There is no self-registration: the
// portal's only authenticated actors are seeded reviewer/admin accounts.
type AuthService struct {
	db     *gorm.DB
	config *config.Config
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	Staff        *models.StaffUser `json:"staff"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, config: cfg}
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var staff models.StaffUser
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.db.Where("email = ?", email).First(&staff).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up staff user: %w", err)
	}

	if !staff.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, ErrAccountDisabled
	}

	accessToken, err := utils.GenerateJWT(staff.ID, staff.Email, string(staff.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(staff.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	now := time.Now()
	s.db.Model(&staff).Update("last_login_at", now)

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Staff:        &staff,
	}, nil
}

func (s *AuthService) Refresh(req *RefreshRequest) (*LoginResponse, error) {
	subject, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	staffID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	var staff models.StaffUser
	if err := s.db.First(&staff, "id = ?", staffID).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !staff.Active {
		return nil, ErrAccountDisabled
	}

	accessToken, err := utils.GenerateJWT(staff.ID, staff.Email, string(staff.Role), s.config.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(staff.ID, s.config.JWT.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Staff:        &staff,
	}, nil
}

func (s *AuthService) GetByID(id uuid.UUID) (*models.StaffUser, error) {
	var staff models.StaffUser
	if err := s.db.First(&staff, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("staff user not found: %w", err)
	}
	return &staff, nil
}
