// internal/services/feedback_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gisportal/evisa-backend/internal/models"
	"github.com/gisportal/evisa-backend/internal/utils"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

type FeedbackService struct {
	db *gorm.DB
}

type SubmitFeedbackRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Category string `json:"category" validate:"required,oneof=general evisa permits complaint suggestion"`
	Subject  string `json:"subject" validate:"required,max=255"`
	Message  string `json:"message" validate:"required,max=5000"`
}

func NewFeedbackService(db *gorm.DB) *FeedbackService {
	return &FeedbackService{db: db}
}

func (s *FeedbackService) Submit(req *SubmitFeedbackRequest) (*models.Feedback, error) {
	entry := &models.Feedback{
		FullName: req.FullName,
		Email:    req.Email,
		Category: req.Category,
		Subject:  req.Subject,
		Message:  req.Message,
		Status:   models.FeedbackStatusNew,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return entry, nil
}

func (s *FeedbackService) List(params utils.PaginationParams) ([]models.Feedback, int64, error) {
	query := s.db.Model(&models.Feedback{})

	if params.Search != "" {
		term := "%" + params.Search + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ? OR subject ILIKE ?", term, term, term)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count feedback: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "category", "status"})
	query = utils.ApplyPagination(query, params)

	var entries []models.Feedback
	if err := query.Find(&entries).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feedback: %w", err)
	}
	return entries, total, nil
}

func (s *FeedbackService) MarkReviewed(id uuid.UUID, staffID uuid.UUID) (*models.Feedback, error) {
	var entry models.Feedback
	if err := s.db.First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, fmt.Errorf("failed to load feedback: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.FeedbackStatusReviewed,
		"reviewed_by": staffID,
		"reviewed_at": now,
	}
	if err := s.db.Model(&entry).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update feedback: %w", err)
	}

	entry.Status = models.FeedbackStatusReviewed
	entry.ReviewedBy = &staffID
	entry.ReviewedAt = &now
	return &entry, nil
}
