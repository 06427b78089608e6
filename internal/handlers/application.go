// internal/handlers/application.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gisportal/evisa-backend/internal/i18n"
	"github.com/gisportal/evisa-backend/internal/services"
	"github.com/gisportal/evisa-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	storageService     *services.StorageService
}

func NewApplicationHandler(applicationService *services.ApplicationService, storageService *services.StorageService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		storageService:     storageService,
	}
}

// POST /applications
//
// The verification endpoint: re-verifies the payment with the gateway and
// creates the application record. The client's payment success callback is
// never trusted on its own.
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	app, err := h.applicationService.VerifyAndCreate(c.Request.Context(), &req)
	switch {
	case err == nil:
		utils.SuccessResponse(c, gin.H{
			"referenceNumber": app.ReferenceNumber,
			"applicationId":   app.ID,
			"message":         i18n.T(lang, i18n.KeyApplicationSubmitted),
		})
	case errors.Is(err, services.ErrPaymentReferenceMissing):
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentReferenceMissing), nil)
	case errors.Is(err, services.ErrDuplicatePaymentReference):
		// app holds the previously created record for this reference.
		details := gin.H{"paymentReference": req.PaymentReference}
		if app != nil {
			details["referenceNumber"] = app.ReferenceNumber
		}
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyApplicationDuplicate), details)
	case errors.Is(err, services.ErrInvalidDocumentPath):
		utils.UnprocessableResponse(c, "DOCUMENT_PATH_INVALID", i18n.T(lang, i18n.KeyDocumentUnknownPath), err.Error())
	case errors.Is(err, services.ErrPaymentNotSuccessful):
		utils.PaymentRequiredResponse(c, i18n.T(lang, i18n.KeyPaymentNotSuccessful), gin.H{
			"paymentReference": req.PaymentReference,
			"advice":           i18n.T(lang, i18n.KeyApplicationKeepReference),
		})
	default:
		// Payment may already have succeeded externally; surface the
		// reference so support can reconcile manually.
		utils.ErrorResponse(c, 500, "INTERNAL_ERROR", i18n.T(lang, i18n.KeyApplicationKeepReference), gin.H{
			"paymentReference": req.PaymentReference,
		})
	}
}

// POST /applications/documents
//
// Accepts a bounded multipart batch keyed by the payment reference. Files are
// validated per file; a batch with any rejected file fails overall, but files
// stored before the failure are reported and deliberately not rolled back.
func (h *ApplicationHandler) UploadDocuments(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	reference := c.PostForm("reference")
	if reference == "" {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentReferenceMissing), nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "upload"), err.Error())
		return
	}

	files := form.File["documents"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyDocumentNoneAttached), nil)
		return
	}

	type fileResult struct {
		Filename string `json:"filename"`
		Path     string `json:"path,omitempty"`
		Error    string `json:"error,omitempty"`
	}

	results := make([]fileResult, 0, len(files))
	failed := false

	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			results = append(results, fileResult{Filename: header.Filename, Error: i18n.T(lang, i18n.KeyDocumentUploadFailed)})
			failed = true
			continue
		}

		result, err := h.storageService.UploadDocument(file, header, reference)
		file.Close()

		switch {
		case err == nil:
			results = append(results, fileResult{Filename: header.Filename, Path: result.Key})
		case errors.Is(err, services.ErrFileTooLarge):
			results = append(results, fileResult{Filename: header.Filename, Error: i18n.T(lang, i18n.KeyDocumentTooLarge, services.MaxDocumentSize/(1024*1024))})
			failed = true
		case errors.Is(err, services.ErrBadFileType):
			results = append(results, fileResult{Filename: header.Filename, Error: i18n.T(lang, i18n.KeyDocumentBadType)})
			failed = true
		default:
			results = append(results, fileResult{Filename: header.Filename, Error: i18n.T(lang, i18n.KeyDocumentUploadFailed)})
			failed = true
		}
	}

	if failed {
		utils.UnprocessableResponse(c, "DOCUMENT_REJECTED", i18n.T(lang, i18n.KeyDocumentUploadFailed), results)
		return
	}

	utils.SuccessResponse(c, gin.H{"documents": results})
}

// GET /applications/status/:reference
func (h *ApplicationHandler) GetApplicationStatus(c *gin.Context) {
	app, err := h.applicationService.FindByReference(c.Param("reference"))
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

// GET /visa-types
func (h *ApplicationHandler) GetVisaTypes(c *gin.Context) {
	visaTypes := []map[string]interface{}{
		{"id": "single-30", "name": "Single Entry - 30 Days", "fee": "100.00", "currency": "GHS"},
		{"id": "single-90", "name": "Single Entry - 90 Days", "fee": "150.00", "currency": "GHS"},
		{"id": "multiple-90", "name": "Multiple Entry - 90 Days", "fee": "250.00", "currency": "GHS"},
		{"id": "multiple-180", "name": "Multiple Entry - 180 Days", "fee": "350.00", "currency": "GHS"},
		{"id": "transit", "name": "Transit Visa - 7 Days", "fee": "50.00", "currency": "GHS"},
	}

	utils.SuccessResponse(c, gin.H{
		"visa_types": visaTypes,
	})
}
