// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess       = "success"
	KeyInternalError = "error.internal"
	KeyRateLimited   = "error.rate_limited"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Admin
	KeyAdminAccessDenied   = "admin.access_denied"
	KeyAdminInvalidCode    = "admin.invalid_code"
	KeyAdminNotConfigured  = "admin.not_configured"
	KeyAdminStatsReset     = "admin.stats_reset"
	KeyAdminImportFinished = "admin.import_finished"

	// User
	KeyUserNotFound       = "user.not_found"
	KeyUserProfileUpdated = "user.profile_updated"
	KeyCarAdded           = "car.added"
	KeyCarRemoved         = "car.removed"
	KeyCarNotFound        = "car.not_found"

	// Products
	KeyProductCreated       = "product.created"
	KeyProductUpdated       = "product.updated"
	KeyProductDeleted       = "product.deleted"
	KeyProductNotFound      = "product.not_found"
	KeyProductImageUploaded = "product.image_uploaded"
	KeyVariantUnknown       = "product.variant_unknown"
	KeyVariantMismatch      = "product.variant_mismatch"
	KeyReviewAdded          = "review.added"

	// Cart
	KeyCartUpdated = "cart.updated"
	KeyCartCleared = "cart.cleared"
	KeyCartEmpty   = "cart.empty"

	// Orders
	KeyOrderPlaced        = "order.placed"
	KeyOrderNotFound      = "order.not_found"
	KeyOrderStatusUpdated = "order.status_updated"

	// Payments
	KeyPaymentsDisabled = "payment.disabled"
	KeyPaymentNotCard   = "payment.not_card"
	KeyPaymentConfirmed = "payment.confirmed"
	KeyPaymentPending   = "payment.pending"

	// Bookings
	KeyBookingCreated = "booking.created"

	// Recommendations
	KeyRecommendationFound = "recommendation.found"
	KeyRecommendationNone  = "recommendation.none"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// Preferences
	KeyLanguageUpdated     = "language.updated"
	KeyLanguageUnsupported = "language.unsupported"
)
