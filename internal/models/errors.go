package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	// Reason carries a moderation verdict's explanation when Code is
	// MODERATION_REJECTED.
	Reason string
	// UpstreamStatus carries the classifier's HTTP status when Code is
	// MODERATION_UNAVAILABLE and the upstream responded at all.
	UpstreamStatus int
	Err            error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
	}
}

// NewModerationRejectedError signals a negative verdict: the content was
// classified as harmful or negative and must not be persisted.
func NewModerationRejectedError(reason string) *AppError {
	return &AppError{
		Code:    "MODERATION_REJECTED",
		Message: "Content rejected by moderation",
		Reason:  reason,
	}
}

// NewModerationUnavailableError signals that the classifier could not be
// reached or answered with a non-2xx status. upstreamStatus is zero when the
// failure happened before any response arrived.
func NewModerationUnavailableError(upstreamStatus int, err error) *AppError {
	return &AppError{
		Code:           "MODERATION_UNAVAILABLE",
		Message:        "Moderation service unavailable",
		UpstreamStatus: upstreamStatus,
		Err:            err,
	}
}

// NewModerationParseError signals that the classifier answered but its
// response contained no parseable verdict.
func NewModerationParseError(err error) *AppError {
	return &AppError{
		Code:    "MODERATION_PARSE_ERROR",
		Message: "Moderation service returned an unreadable verdict",
		Err:     err,
	}
}

func NewStorageUnavailableError(err error) *AppError {
	return &AppError{
		Code:    "STORAGE_UNAVAILABLE",
		Message: "Storage unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Reason: appErr.Reason,
		}
		if appErr.Err != nil && status < 500 {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
