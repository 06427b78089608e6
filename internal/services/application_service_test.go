// internal/services/application_service_test.go
package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"github.com/gisportal/evisa-backend/internal/config"
	"github.com/gisportal/evisa-backend/internal/models"
	"github.com/gisportal/evisa-backend/internal/payment"
	"github.com/gisportal/evisa-backend/internal/utils"
)

// stubGateway stands in for Paystack/Stripe in workflow tests.
type stubGateway struct {
	result *payment.VerificationResult
	err    error
	calls  int
}

func (g *stubGateway) Verify(ctx context.Context, reference string) (*payment.VerificationResult, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func successResult(amountMinor int64) *payment.VerificationResult {
	return &payment.VerificationResult{
		Succeeded:   true,
		Status:      "success",
		AmountMinor: amountMinor,
		Currency:    "GHS",
		PaidAt:      time.Now(),
		Channel:     "card",
		PayerEmail:  "ama@example.com",
	}
}

type ApplicationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	cfg     *config.Config
	gateway *stubGateway
	storage *StorageService
	svc     *ApplicationService
}

func (s *ApplicationServiceTestSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set; skipping database-backed tests")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(&models.Application{}))
	s.db = db

	s.cfg = &config.Config{}
	s.cfg.Payment.DefaultCurrency = "GHS"
	s.cfg.AWS.PresignTTL = 15
	s.cfg.Server.Port = "8080"
	s.cfg.Admin.StaffEmail = "visa-desk@example.gov"
	s.cfg.Frontend.BaseURL = "https://evisa.example.gov"
	s.cfg.Reminder.StaleAfterDays = 5
}

func (s *ApplicationServiceTestSuite) SetupTest() {
	s.Require().NoError(s.db.Exec("DELETE FROM applications").Error)

	storage, err := NewStorageService(s.cfg)
	s.Require().NoError(err)

	s.gateway = &stubGateway{result: successResult(10000)}
	s.storage = storage
	s.svc = NewApplicationService(s.db, s.gateway, storage, NewNotificationService(s.cfg), s.cfg)
}

// uploadDocument stores a real document through the storage service so the
// resulting key passes path integrity checks.
func (s *ApplicationServiceTestSuite) uploadDocument(paymentReference string) string {
	file, header := makeFileHeader(s.T(), "passport.pdf", "application/pdf", pdfBytes)
	result, err := s.storage.UploadDocument(file, header, paymentReference)
	s.Require().NoError(err)
	return result.Key
}

func (s *ApplicationServiceTestSuite) submitRequest(paymentReference string) *SubmitApplicationRequest {
	return &SubmitApplicationRequest{
		FullName:         "Ama Mensah",
		Email:            "Ama@Example.com",
		Nationality:      "Ghanaian",
		PassportNumber:   "g1234567",
		TravelDate:       "2026-10-01",
		VisaType:         "Single Entry - 30 Days",
		PurposeOfVisit:   "Tourism",
		PaymentReference: paymentReference,
		VisaFeeAmount:    decimal.NewFromInt(100),
		DocumentURLs:     []string{s.uploadDocument(paymentReference)},
	}
}

func (s *ApplicationServiceTestSuite) countApplications() int64 {
	var count int64
	s.Require().NoError(s.db.Model(&models.Application{}).Count(&count).Error)
	return count
}

func (s *ApplicationServiceTestSuite) TestSuccessfulSubmission() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_OK_1"))
	s.Require().NoError(err)

	s.Regexp(`^EVISA-\d+-[A-Z2-9]{6}$`, app.ReferenceNumber)
	s.Equal("ama@example.com", app.Email)
	s.Equal("G1234567", app.PassportNumber)
	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal(models.ApplicationStatusSubmitted, app.ApplicationStatus)
	s.Equal("GHS", app.FeeCurrency)
	s.Len(app.DocumentPaths, 1)
	s.Equal("success", app.PaymentData["gateway_status"])
	s.Equal(int64(1), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestNoRecordWithoutSuccessfulPayment() {
	s.gateway.result = &payment.VerificationResult{Succeeded: false, Status: "failed"}

	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_FAIL_1"))
	s.Nil(app)
	s.ErrorIs(err, ErrPaymentNotSuccessful)
	s.Equal(int64(0), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestGatewayFailureTreatedAsUnverified() {
	s.gateway.err = payment.ErrTransactionNotFound

	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_GONE_1"))
	s.Nil(app)
	s.ErrorIs(err, ErrPaymentNotSuccessful)
	s.Equal(int64(0), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestDuplicatePaymentReferenceRejected() {
	first, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_DUP_1"))
	s.Require().NoError(err)
	callsAfterFirst := s.gateway.calls

	existing, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_DUP_1"))
	s.ErrorIs(err, ErrDuplicatePaymentReference)
	s.Require().NotNil(existing)
	s.Equal(first.ReferenceNumber, existing.ReferenceNumber)

	// The replay is rejected before the gateway is consulted again.
	s.Equal(callsAfterFirst, s.gateway.calls)
	s.Equal(int64(1), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestAmountMismatchStillRecords() {
	// Expected fee is 100.00 GHS (10000 minor units) but the gateway reports
	// 15000. The record is still created; the snapshot keeps both figures.
	s.gateway.result = successResult(15000)

	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_MISMATCH_1"))
	s.Require().NoError(err)

	s.Equal(models.PaymentStatusPaid, app.PaymentStatus)
	s.Equal("100", app.FeeAmount.String())
	s.EqualValues(15000, app.PaymentData["amount_minor"])
	s.EqualValues(10000, app.PaymentData["expected_minor"])
}

func (s *ApplicationServiceTestSuite) TestMissingPaymentReference() {
	req := s.submitRequest("PSK_BLANK_1")
	req.PaymentReference = "   "

	app, err := s.svc.VerifyAndCreate(context.Background(), req)
	s.Nil(app)
	s.ErrorIs(err, ErrPaymentReferenceMissing)
	s.Zero(s.gateway.calls)
}

func (s *ApplicationServiceTestSuite) TestForeignDocumentPathRejected() {
	req := s.submitRequest("PSK_DOC_1")
	// A key from somebody else's namespace.
	req.DocumentURLs = append(req.DocumentURLs, s.uploadDocument("PSK_OTHER_1"))

	app, err := s.svc.VerifyAndCreate(context.Background(), req)
	s.Nil(app)
	s.ErrorIs(err, ErrInvalidDocumentPath)
	s.Equal(int64(0), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestUnknownDocumentPathRejected() {
	req := s.submitRequest("PSK_DOC_2")
	// Correctly namespaced, but no upload ever produced this key.
	req.DocumentURLs = []string{"applications/PSK_DOC_2/20250101_deadbeef.pdf"}

	app, err := s.svc.VerifyAndCreate(context.Background(), req)
	s.Nil(app)
	s.ErrorIs(err, ErrInvalidDocumentPath)
	s.Equal(int64(0), s.countApplications())
}

func (s *ApplicationServiceTestSuite) TestFindByReferenceNormalizesCase() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_FIND_1"))
	s.Require().NoError(err)

	found, err := s.svc.FindByReference("  " + app.ReferenceNumber + "  ")
	s.Require().NoError(err)
	s.Equal(app.ID, found.ID)

	_, err = s.svc.FindByReference("EVISA-0-XXXXXX")
	s.ErrorIs(err, ErrApplicationNotFound)
}

func (s *ApplicationServiceTestSuite) TestApproveSetsDecisionFields() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_APPROVE_1"))
	s.Require().NoError(err)

	staffID := uuid.New()
	updated, err := s.svc.UpdateStatus(app.ID, models.ApplicationStatusApproved, staffID, "documents verified")
	s.Require().NoError(err)

	s.Equal(models.ApplicationStatusApproved, updated.ApplicationStatus)
	s.Require().NotNil(updated.DecidedAt)
	s.Require().NotNil(updated.DecidedBy)
	s.Equal(staffID, *updated.DecidedBy)
	s.Equal("documents verified", updated.DecisionNote)
}

func (s *ApplicationServiceTestSuite) TestTerminalStatesOnlyLeaveViaReopen() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_TERM_1"))
	s.Require().NoError(err)

	staffID := uuid.New()
	_, err = s.svc.UpdateStatus(app.ID, models.ApplicationStatusApproved, staffID, "ok")
	s.Require().NoError(err)

	_, err = s.svc.UpdateStatus(app.ID, models.ApplicationStatusRejected, staffID, "changed my mind")
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.svc.UpdateStatus(app.ID, models.ApplicationStatusSubmitted, staffID, "back to queue")
	s.ErrorIs(err, ErrInvalidTransition)

	reopened, err := s.svc.Reopen(app.ID, staffID, "applicant appealed with new documents")
	s.Require().NoError(err)
	s.Equal(models.ApplicationStatusSubmitted, reopened.ApplicationStatus)
	s.Nil(reopened.DecidedAt)
	s.Nil(reopened.DecidedBy)
}

func (s *ApplicationServiceTestSuite) TestReopenRequiresTerminalState() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_REOPEN_1"))
	s.Require().NoError(err)

	_, err = s.svc.Reopen(app.ID, uuid.New(), "no decision yet")
	s.ErrorIs(err, ErrNotTerminal)
}

func (s *ApplicationServiceTestSuite) TestListFiltersByStatusAndSearch() {
	first, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_LIST_1"))
	s.Require().NoError(err)

	second := s.submitRequest("PSK_LIST_2")
	second.FullName = "Kofi Boateng"
	second.Email = "kofi@example.com"
	second.PassportNumber = "H7654321"
	_, err = s.svc.VerifyAndCreate(context.Background(), second)
	s.Require().NoError(err)

	_, err = s.svc.UpdateStatus(first.ID, models.ApplicationStatusApproved, uuid.New(), "ok")
	s.Require().NoError(err)

	apps, total, err := s.svc.List(utils.PaginationParams{Page: 1, Limit: 20, Status: "submitted"})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(apps, 1)
	s.Equal("Kofi Boateng", apps[0].FullName)

	apps, total, err = s.svc.List(utils.PaginationParams{Page: 1, Limit: 20, Search: "kofi"})
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Require().Len(apps, 1)
	s.Equal("kofi@example.com", apps[0].Email)

	_, _, err = s.svc.List(utils.PaginationParams{Page: 1, Limit: 20, Status: "bogus"})
	s.Error(err)
}

func (s *ApplicationServiceTestSuite) TestStaleSubmittedAndMarkReminded() {
	app, err := s.svc.VerifyAndCreate(context.Background(), s.submitRequest("PSK_STALE_1"))
	s.Require().NoError(err)

	// Backdate past the reminder threshold.
	backdated := time.Now().AddDate(0, 0, -10)
	s.Require().NoError(s.db.Model(&models.Application{}).
		Where("id = ?", app.ID).
		Update("created_at", backdated).Error)

	stale, err := s.svc.StaleSubmitted(5)
	s.Require().NoError(err)
	s.Require().Len(stale, 1)
	s.Equal(app.ID, stale[0].ID)

	s.Require().NoError(s.svc.MarkReminded(stale))

	stale, err = s.svc.StaleSubmitted(5)
	s.Require().NoError(err)
	s.Empty(stale)
}

func TestApplicationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
