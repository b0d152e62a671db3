// internal/handlers/errors.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/fortexuz/fortex-backend/internal/i18n"
	"github.com/fortexuz/fortex-backend/internal/models"
	"github.com/fortexuz/fortex-backend/internal/repository"
	"github.com/fortexuz/fortex-backend/internal/services"
	"github.com/fortexuz/fortex-backend/internal/utils"
)

type errorMapping struct {
	target error
	status int
	code   string
	key    string
}

// Known service errors and how they surface. Anything else is a 500.
var errorMappings = []errorMapping{
	{services.ErrProductNotFound, http.StatusNotFound, "NOT_FOUND", i18n.KeyProductNotFound},
	{services.ErrOrderNotFound, http.StatusNotFound, "NOT_FOUND", i18n.KeyOrderNotFound},
	{services.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND", i18n.KeyUserNotFound},
	{services.ErrCarNotFound, http.StatusNotFound, "NOT_FOUND", i18n.KeyCarNotFound},
	{services.ErrUnknownVariant, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyVariantUnknown},
	{services.ErrNoVariants, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyVariantUnknown},
	{services.ErrVariantMismatch, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyVariantMismatch},
	{services.ErrDuplicateVariant, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyVariantMismatch},
	{services.ErrEmptyCart, http.StatusBadRequest, "CART_EMPTY", i18n.KeyCartEmpty},
	{services.ErrInvalidStatus, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyValidationInvalid},
	{services.ErrUnsupportedLanguage, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyLanguageUnsupported},
	{services.ErrInvalidWorkbook, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyValidationInvalid},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", i18n.KeyValidationInvalid},
	{services.ErrInvalidImageFile, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyValidationInvalid},
	{utils.ErrInvalidPhone, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyValidationInvalid},
	{services.ErrPhoneTaken, http.StatusConflict, "CONFLICT", i18n.KeyAuthUserExists},
	{repository.ErrDuplicate, http.StatusConflict, "CONFLICT", i18n.KeyValidationInvalid},
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "UNAUTHORIZED", i18n.KeyAuthInvalidCredentials},
	{services.ErrInvalidRefreshToken, http.StatusUnauthorized, "UNAUTHORIZED", i18n.KeyAuthInvalidToken},
	{services.ErrInvalidPasscode, http.StatusUnauthorized, "UNAUTHORIZED", i18n.KeyAdminInvalidCode},
	{services.ErrAdminLoginDisabled, http.StatusServiceUnavailable, "UNAVAILABLE", i18n.KeyAdminNotConfigured},
	{services.ErrPaymentsDisabled, http.StatusServiceUnavailable, "UNAVAILABLE", i18n.KeyPaymentsDisabled},
	{services.ErrNotCardOrder, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyPaymentNotCard},
	{services.ErrOrderAlreadyPaid, http.StatusConflict, "CONFLICT", i18n.KeyPaymentConfirmed},
	{services.ErrPaymentIncomplete, http.StatusPaymentRequired, "PAYMENT_PENDING", i18n.KeyPaymentPending},
	{services.ErrPaymentMismatch, http.StatusBadRequest, "BAD_REQUEST", i18n.KeyPaymentPending},
}

// respondError writes the envelope for a service error. The message is
// localized; details carry the raw error for client-side logging.
func respondError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			message := i18n.T(lang, m.key)
			if m.key == i18n.KeyValidationInvalid {
				message = i18n.T(lang, m.key, "input")
			}
			utils.ErrorResponse(c, m.status, m.code, message, err.Error())
			return
		}
	}

	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
	utils.InternalErrorResponse(c, "")
}

// bindJSON binds and validates a request body, writing the error response
// itself when either step fails.
func bindJSON(c *gin.Context, req interface{}) bool {
	lang := utils.GetLangFromContext(c)
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return false
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return false
	}
	return true
}

// customerID is the signed-in customer, if any. Admin tokens do not count:
// they own no cart, orders or points.
func customerID(c *gin.Context) string {
	if role, ok := utils.GetRoleFromContext(c); !ok || role != string(models.UserRoleCustomer) {
		return ""
	}
	userID, _ := utils.GetUserIDFromContext(c)
	return userID
}
