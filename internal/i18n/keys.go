// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthAccountDisabled    = "auth.account_disabled"
	KeyAdminAccessDenied      = "admin.access_denied"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Applications
	KeyApplicationSubmitted     = "application.submitted"
	KeyApplicationNotFound      = "application.not_found"
	KeyApplicationStatusUpdated = "application.status_updated"
	KeyApplicationReopened      = "application.reopened"
	KeyApplicationInvalidStatus = "application.invalid_status"
	KeyApplicationDuplicate     = "application.duplicate_payment_reference"
	KeyApplicationBadTransition = "application.invalid_transition"
	KeyApplicationKeepReference = "application.keep_payment_reference"

	// Payments
	KeyPaymentNotSuccessful    = "payment.not_successful"
	KeyPaymentReferenceMissing = "payment.reference_missing"
	KeyPaymentVerifyFailed     = "payment.verification_failed"

	// Documents
	KeyDocumentTooLarge     = "document.too_large"
	KeyDocumentBadType      = "document.bad_type"
	KeyDocumentNoneAttached = "document.none_attached"
	KeyDocumentUploadFailed = "document.upload_failed"
	KeyDocumentUnknownPath  = "document.unknown_path"

	// Feedback
	KeyFeedbackReceived = "feedback.received"
	KeyFeedbackNotFound = "feedback.not_found"
)
