package errors

// Error code constants.
// Format: CATEGORY_SPECIFIC_DETAIL
// The frontend maps these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // login required
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // wrong email/password
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthInvalidRole        = "AUTH_INVALID_ROLE"
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID"
	AuthResetTokenExpired  = "AUTH_RESET_TOKEN_EXPIRED"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzAccessDenied = "AUTHZ_ACCESS_DENIED"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Providers (PROVIDER_) ====================
	ProviderNotFound         = "PROVIDER_NOT_FOUND"
	ProviderNotApproved      = "PROVIDER_NOT_APPROVED"
	ProviderAlreadyApproved  = "PROVIDER_ALREADY_APPROVED"
	ProviderApprovalPending  = "PROVIDER_APPROVAL_PENDING"
	ProviderApprovalRejected = "PROVIDER_APPROVAL_REJECTED"
	ProviderProfileExists    = "PROVIDER_PROFILE_EXISTS"

	// ==================== Services (SERVICE_) ====================
	ServiceNotFound        = "SERVICE_NOT_FOUND"
	ServiceInactive        = "SERVICE_INACTIVE"
	ServiceHasOpenRequests = "SERVICE_HAS_OPEN_REQUESTS"
	CategoryNotFound       = "CATEGORY_NOT_FOUND"
	CategoryAlreadyExists  = "CATEGORY_ALREADY_EXISTS"

	// ==================== Booking requests (REQUEST_) ====================
	RequestNotFound          = "REQUEST_NOT_FOUND"
	RequestInvalidStatus     = "REQUEST_INVALID_STATUS"
	RequestInvalidTransition = "REQUEST_INVALID_TRANSITION"
	RequestNotCompleted      = "REQUEST_NOT_COMPLETED"
	RequestHasReview         = "REQUEST_HAS_REVIEW"
	RequestOwnService        = "REQUEST_OWN_SERVICE"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound      = "REVIEW_NOT_FOUND"
	ReviewInvalidRating = "REVIEW_INVALID_RATING"
	ReviewAlreadyExists = "REVIEW_ALREADY_EXISTS"
	ReviewNotEligible   = "REVIEW_NOT_ELIGIBLE"

	// ==================== Payments (PAYMENT_) ====================
	PaymentNotFound      = "PAYMENT_NOT_FOUND"
	PaymentAlreadyExists = "PAYMENT_ALREADY_EXISTS"
	PaymentInvalidAmount = "PAYMENT_INVALID_AMOUNT"

	// ==================== Notifications (NOTIFICATION_) ====================
	NotificationNotFound = "NOTIFICATION_NOT_FOUND"

	// ==================== Contact messages (CONTACT_) ====================
	ContactMessageNotFound = "CONTACT_MESSAGE_NOT_FOUND"

	// ==================== Profile change requests (CHANGE_) ====================
	ChangeRequestNotFound  = "CHANGE_REQUEST_NOT_FOUND"
	ChangeRequestFinalized = "CHANGE_REQUEST_FINALIZED"

	// ==================== Uploads (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)
