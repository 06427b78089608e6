// internal/services/application_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/models"
	"github.com/gisportal/evisa-backend/internal/payment"
	"github.com/gisportal/evisa-backend/internal/utils"
)

var (
	ErrPaymentReferenceMissing   = errors.New("payment reference is required")
	ErrPaymentNotSuccessful      = errors.New("payment not successful")
	ErrDuplicatePaymentReference = errors.New("payment reference already used")
	ErrInvalidDocumentPath       = errors.New("document path not produced by upload service")
	ErrApplicationNotFound       = errors.New("application not found")
	ErrInvalidTransition         = errors.New("status transition not allowed")
	ErrNotTerminal               = errors.New("only approved or rejected applications can be reopened")
)

type ApplicationService struct {
	db            *gorm.DB
	gateway       payment.Gateway
	storage       *StorageService
	notifications *NotificationService
	config        *config.Config
}

// SubmitApplicationRequest mirrors the verification endpoint body. The client
// sends form data plus the gateway transaction reference and the storage
// paths returned by the document upload endpoint.
type SubmitApplicationRequest struct {
	FullName         string          `json:"fullName" validate:"required,min=2,max=255"`
	Email            string          `json:"email" validate:"required,email"`
	Nationality      string          `json:"nationality" validate:"required,max=100"`
	PassportNumber   string          `json:"passportNumber" validate:"required,passport"`
	TravelDate       string          `json:"travelDate" validate:"required,traveldate"`
	VisaType         string          `json:"visaType" validate:"required,max=100"`
	PurposeOfVisit   string          `json:"purposeOfVisit" validate:"max=255"`
	PaymentReference string          `json:"paymentReference" validate:"required"`
	VisaFeeAmount    decimal.Decimal `json:"visaFeeAmount"`
	DocumentURLs     []string        `json:"documentUrls" validate:"required,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=2000"`
}

type ReopenRequest struct {
	Note string `json:"note" validate:"required,max=2000"`
}

func NewApplicationService(db *gorm.DB, gateway payment.Gateway, storage *StorageService, notifications *NotificationService, cfg *config.Config) *ApplicationService {
	return &ApplicationService{
		db:            db,
		gateway:       gateway,
		storage:       storage,
		notifications: notifications,
		config:        cfg,
	}
}

// VerifyAndCreate is the trust boundary of the submission workflow. It
// re-verifies the payment with the gateway, enforces payment reference
// uniqueness and document path integrity, then persists the application and
// fires best-effort notifications. No record is ever created unless the
// gateway independently reports a successful transaction.
func (s *ApplicationService) VerifyAndCreate(ctx context.Context, req *SubmitApplicationRequest) (*models.Application, error) {
	reference := strings.TrimSpace(req.PaymentReference)
	if reference == "" {
		return nil, ErrPaymentReferenceMissing
	}

	if req.VisaFeeAmount.Sign() <= 0 {
		return nil, fmt.Errorf("expected visa fee amount must be positive")
	}

	// Accept only storage paths scoped to this payment reference that a
	// prior upload actually produced.
	for _, path := range req.DocumentURLs {
		if !KeyBelongsToReference(path, reference) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentPath, path)
		}
		exists, err := s.storage.ObjectExists(path)
		if err != nil {
			return nil, fmt.Errorf("failed to check document %s: %w", path, err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDocumentPath, path)
		}
	}

	// Reject replays of an already-recorded payment before touching the
	// gateway. The unique index backstops the race between two concurrent
	// calls with the same reference.
	var existing models.Application
	err := s.db.Where("payment_reference = ?", reference).First(&existing).Error
	if err == nil {
		return &existing, ErrDuplicatePaymentReference
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check payment reference: %w", err)
	}

	// The only trusted source of truth for payment success. Adapter failure
	// is treated exactly like a failed verification.
	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		logrus.WithError(err).WithField("payment_reference", reference).Error("Payment verification call failed")
		return nil, fmt.Errorf("%w: %v", ErrPaymentNotSuccessful, err)
	}
	if !result.Succeeded {
		logrus.WithFields(logrus.Fields{
			"payment_reference": reference,
			"gateway_status":    result.Status,
		}).Warn("Gateway reports non-successful transaction")
		return nil, fmt.Errorf("%w: gateway status %q", ErrPaymentNotSuccessful, result.Status)
	}

	// Amount mismatch is logged, not rejected. The gateway snapshot is kept
	// on the record so the mismatch stays auditable.
	expectedMinor := req.VisaFeeAmount.Mul(decimal.NewFromInt(100)).IntPart()
	if result.AmountMinor != expectedMinor {
		logrus.WithFields(logrus.Fields{
			"payment_reference":    reference,
			"expected_minor_units": expectedMinor,
			"paid_minor_units":     result.AmountMinor,
			"gateway_currency":     result.Currency,
		}).Warn("Paid amount does not match expected visa fee")
	}
	if result.Currency != "" && !strings.EqualFold(result.Currency, s.config.Payment.DefaultCurrency) {
		logrus.WithFields(logrus.Fields{
			"payment_reference": reference,
			"gateway_currency":  result.Currency,
			"expected_currency": s.config.Payment.DefaultCurrency,
		}).Warn("Paid currency does not match expected currency")
	}

	referenceNumber, err := utils.GenerateReferenceNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference number: %w", err)
	}

	app := &models.Application{
		ReferenceNumber:  referenceNumber,
		FullName:         strings.TrimSpace(req.FullName),
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		Nationality:      strings.TrimSpace(req.Nationality),
		PassportNumber:   strings.ToUpper(strings.TrimSpace(req.PassportNumber)),
		TravelDate:       req.TravelDate,
		VisaType:         req.VisaType,
		PurposeOfVisit:   req.PurposeOfVisit,
		FeeAmount:        req.VisaFeeAmount,
		FeeCurrency:      s.config.Payment.DefaultCurrency,
		PaymentStatus:    models.PaymentStatusPaid,
		PaymentReference: reference,
		PaymentData: models.JSONB{
			"gateway_status": result.Status,
			"amount_minor":   result.AmountMinor,
			"currency":       result.Currency,
			"channel":        result.Channel,
			"paid_at":        result.PaidAt.Format(time.RFC3339),
			"payer_email":    result.PayerEmail,
			"expected_minor": expectedMinor,
		},
		ApplicationStatus: models.ApplicationStatusSubmitted,
		DocumentPaths:     pq.StringArray(req.DocumentURLs),
	}

	if err := s.db.Create(app).Error; err != nil {
		if isDuplicateKeyError(err) {
			// Lost the race on the unique payment_reference index.
			return nil, ErrDuplicatePaymentReference
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	// Best-effort notifications: failure never rolls back the record.
	go func(app models.Application) {
		if err := s.notifications.SendApplicationConfirmation(&app); err != nil {
			logrus.WithError(err).WithField("reference", app.ReferenceNumber).Error("Failed to send applicant confirmation")
		}
		if err := s.notifications.SendStaffAlert(&app); err != nil {
			logrus.WithError(err).WithField("reference", app.ReferenceNumber).Error("Failed to send staff alert")
		}
	}(*app)

	return app, nil
}

// FindByReference is the public status lookup: exact match on the uppercased
// reference number.
func (s *ApplicationService) FindByReference(referenceNumber string) (*models.Application, error) {
	normalized := strings.ToUpper(strings.TrimSpace(referenceNumber))
	if normalized == "" {
		return nil, ErrApplicationNotFound
	}

	var app models.Application
	if err := s.db.Where("reference_number = ?", normalized).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to look up application: %w", err)
	}
	return &app, nil
}

func (s *ApplicationService) GetByID(id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := s.db.First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return &app, nil
}

// List supports the admin dashboard: free-text filter across reference, name,
// email and passport, combinable with an exact status filter.
func (s *ApplicationService) List(params utils.PaginationParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{})

	if params.Search != "" {
		term := "%" + strings.TrimSpace(params.Search) + "%"
		query = query.Where(
			"reference_number ILIKE ? OR full_name ILIKE ? OR email ILIKE ? OR passport_number ILIKE ?",
			term, term, term, term,
		)
	}
	if params.Status != "" {
		if !models.ValidApplicationStatus(params.Status) {
			return nil, 0, fmt.Errorf("unknown application status %q", params.Status)
		}
		query = query.Where("application_status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "travel_date", "application_status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var apps []models.Application
	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return apps, total, nil
}

// UpdateStatus applies a staff review decision, enforcing the transition
// table. Terminal states can only be left through Reopen.
func (s *ApplicationService) UpdateStatus(id uuid.UUID, target models.ApplicationStatus, staffID uuid.UUID, note string) (*models.Application, error) {
	if !models.ValidApplicationStatus(string(target)) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, target)
	}

	app, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !app.ApplicationStatus.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, app.ApplicationStatus, target)
	}

	updates := map[string]interface{}{
		"application_status": target,
	}
	if target.IsTerminal() {
		now := time.Now()
		updates["decided_at"] = now
		updates["decided_by"] = staffID
		updates["decision_note"] = note
	}

	if err := s.db.Model(app).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reference": app.ReferenceNumber,
		"from":      app.ApplicationStatus,
		"to":        target,
		"staff_id":  staffID,
	}).Info("Application status updated")

	return s.GetByID(id)
}

// Reopen is the explicit escape hatch from a terminal decision; it returns
// the record to the review queue and requires a note explaining why.
func (s *ApplicationService) Reopen(id uuid.UUID, staffID uuid.UUID, note string) (*models.Application, error) {
	app, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if !app.ApplicationStatus.IsTerminal() {
		return nil, ErrNotTerminal
	}

	updates := map[string]interface{}{
		"application_status": models.ApplicationStatusSubmitted,
		"decided_at":         nil,
		"decided_by":         nil,
		"decision_note":      note,
	}

	if err := s.db.Model(app).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to reopen application: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"reference": app.ReferenceNumber,
		"from":      app.ApplicationStatus,
		"staff_id":  staffID,
	}).Info("Application reopened")

	return s.GetByID(id)
}

// DocumentLinks produces short-lived signed read URLs for an application's
// documents.
func (s *ApplicationService) DocumentLinks(app *models.Application) ([]map[string]string, error) {
	ttl := time.Duration(s.config.AWS.PresignTTL) * time.Minute
	links := make([]map[string]string, 0, len(app.DocumentPaths))

	for _, path := range app.DocumentPaths {
		url, err := s.storage.GeneratePresignedURL(path, ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to sign document URL: %w", err)
		}
		links = append(links, map[string]string{
			"path": path,
			"type": Ext(path),
			"url":  url,
		})
	}
	return links, nil
}

type DashboardStats struct {
	Total     int64            `json:"total"`
	ByStatus  map[string]int64 `json:"by_status"`
	Last7Days int64            `json:"last_7_days"`
}

func (s *ApplicationService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{ByStatus: make(map[string]int64)}

	if err := s.db.Model(&models.Application{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	type statusCount struct {
		ApplicationStatus string
		Count             int64
	}
	var counts []statusCount
	if err := s.db.Model(&models.Application{}).
		Select("application_status, COUNT(*) as count").
		Group("application_status").
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to group applications by status: %w", err)
	}
	for _, c := range counts {
		stats.ByStatus[c.ApplicationStatus] = c.Count
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.Application{}).
		Where("created_at >= ?", weekAgo).
		Count(&stats.Last7Days).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent applications: %w", err)
	}

	return stats, nil
}

// StaleSubmitted returns submitted applications older than the threshold
// that have not been included in a digest within the same window.
func (s *ApplicationService) StaleSubmitted(staleAfterDays int) ([]models.Application, error) {
	cutoff := time.Now().AddDate(0, 0, -staleAfterDays)

	var apps []models.Application
	err := s.db.
		Where("application_status = ?", models.ApplicationStatusSubmitted).
		Where("created_at < ?", cutoff).
		Where("last_reminded_at IS NULL OR last_reminded_at < ?", cutoff).
		Order("created_at asc").
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stale applications: %w", err)
	}
	return apps, nil
}

func (s *ApplicationService) MarkReminded(apps []models.Application) error {
	if len(apps) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.ID)
	}

	return s.db.Model(&models.Application{}).
		Where("id IN ?", ids).
		Update("last_reminded_at", time.Now()).Error
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
