package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts a raw database or infrastructure error into a
// user-facing code and message. Sensitive details stay out of the
// response while still telling the caller what went wrong.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "An unexpected error occurred",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	// 1. GORM base errors
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}

	// 2. PostgreSQL errors

	// 2-1. Unique constraint violation (23505)
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStr)
	}

	// 2-2. Foreign key constraint violation (23503)
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStr, context)
	}

	// 2-3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "null value") && strings.Contains(errStrLower, "violates not-null constraint") {
		return parseNotNullError(errStr)
	}

	// 2-4. Check constraint violation (23514)
	if strings.Contains(errStrLower, "check constraint") {
		return parseCheckConstraintError(errStr)
	}

	// 3. Network/connection errors
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "Failed to reach an external service. Please try again later",
		}
	}

	// 4. Default internal server error
	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") || strings.Contains(errLower, "idx_users_email") {
		return ErrorInfo{
			Code:    AuthEmailAlreadyExists,
			Message: "This email address is already registered",
		}
	}

	if strings.Contains(errLower, "idx_reviews_request_id") ||
		(strings.Contains(errLower, "reviews") && strings.Contains(errLower, "request_id")) {
		return ErrorInfo{
			Code:    ReviewAlreadyExists,
			Message: "A review has already been submitted for this request",
		}
	}

	if strings.Contains(errLower, "idx_payments_request_id") ||
		(strings.Contains(errLower, "payments") && strings.Contains(errLower, "request_id")) {
		return ErrorInfo{
			Code:    PaymentAlreadyExists,
			Message: "A payment has already been recorded for this request",
		}
	}

	if strings.Contains(errLower, "idx_providers_user_id") ||
		(strings.Contains(errLower, "providers") && strings.Contains(errLower, "user_id")) {
		return ErrorInfo{
			Code:    ProviderProfileExists,
			Message: "A provider profile already exists for this account",
		}
	}

	if strings.Contains(errLower, "categories") && strings.Contains(errLower, "name") {
		return ErrorInfo{
			Code:    CategoryAlreadyExists,
			Message: "A category with this name already exists",
		}
	}

	if strings.Contains(errLower, "pkey") || strings.Contains(errLower, "primary key") {
		return ErrorInfo{
			Code:    ResourceAlreadyExists,
			Message: "This record already exists. Please try again",
		}
	}

	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "This record already exists",
	}
}

func parseForeignKeyError(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	// Delete blocked by dependent rows
	if strings.Contains(errLower, "still referenced") || strings.Contains(errLower, "is still referenced by") {
		if strings.Contains(context, "service") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "This service has related records and cannot be deleted",
			}
		}
		if strings.Contains(context, "request") {
			return ErrorInfo{
				Code:    ResourceConflict,
				Message: "This request has related records and cannot be deleted",
			}
		}
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Related records exist, so this cannot be deleted",
		}
	}

	// Missing referenced row
	if strings.Contains(errLower, "user_id") || strings.Contains(errLower, "fk_users") {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: "The referenced user does not exist",
		}
	}
	if strings.Contains(errLower, "provider_id") || strings.Contains(errLower, "fk_providers") {
		return ErrorInfo{
			Code:    ProviderNotFound,
			Message: "The referenced provider does not exist",
		}
	}
	if strings.Contains(errLower, "service_id") || strings.Contains(errLower, "fk_services") {
		return ErrorInfo{
			Code:    ServiceNotFound,
			Message: "The referenced service does not exist",
		}
	}
	if strings.Contains(errLower, "category_id") || strings.Contains(errLower, "fk_categories") {
		return ErrorInfo{
			Code:    CategoryNotFound,
			Message: "The referenced category does not exist",
		}
	}
	if strings.Contains(errLower, "request_id") || strings.Contains(errLower, "fk_requests") {
		return ErrorInfo{
			Code:    RequestNotFound,
			Message: "The referenced request does not exist",
		}
	}

	return ErrorInfo{
		Code:    ResourceNotFound,
		Message: "A referenced record could not be found",
	}
}

func parseNotNullError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "email") {
		return ErrorInfo{Code: ValidationRequired, Message: "Email is required"}
	}
	if strings.Contains(errLower, "password") {
		return ErrorInfo{Code: ValidationRequired, Message: "Password is required"}
	}
	if strings.Contains(errLower, "name") {
		return ErrorInfo{Code: ValidationRequired, Message: "Name is required"}
	}
	if strings.Contains(errLower, "rating") {
		return ErrorInfo{Code: ValidationRequired, Message: "Rating is required"}
	}

	return ErrorInfo{
		Code:    ValidationRequired,
		Message: "A required field is missing",
	}
}

func parseCheckConstraintError(errStr string) ErrorInfo {
	errLower := strings.ToLower(errStr)

	if strings.Contains(errLower, "rating") {
		return ErrorInfo{
			Code:    ReviewInvalidRating,
			Message: "Rating must be between 1 and 5",
		}
	}

	if strings.Contains(errLower, "price") || strings.Contains(errLower, "amount") {
		return ErrorInfo{
			Code:    ValidationInvalidRange,
			Message: "The amount is out of range",
		}
	}

	return ErrorInfo{
		Code:    ValidationInvalidInput,
		Message: "Invalid input",
	}
}

func getNotFoundMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "provider") {
		return "Provider not found"
	}
	if strings.Contains(contextLower, "user") {
		return "User not found"
	}
	if strings.Contains(contextLower, "category") {
		return "Category not found"
	}
	if strings.Contains(contextLower, "service") {
		return "Service not found"
	}
	if strings.Contains(contextLower, "review") {
		return "Review not found"
	}
	if strings.Contains(contextLower, "request") {
		return "Request not found"
	}
	if strings.Contains(contextLower, "payment") {
		return "Payment not found"
	}
	if strings.Contains(contextLower, "notification") {
		return "Notification not found"
	}
	if strings.Contains(contextLower, "contact") {
		return "Contact message not found"
	}

	return "The requested record could not be found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "create") {
		return "An error occurred while creating the record. Please try again later"
	}
	if strings.Contains(contextLower, "update") {
		return "An error occurred while updating the record. Please try again later"
	}
	if strings.Contains(contextLower, "delete") {
		return "An error occurred while deleting the record. Please try again later"
	}

	return "An unexpected error occurred. Please try again later"
}

// ParseAndRespond parses an error and writes the response in one step.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
