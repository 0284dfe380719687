package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrPlanNotFound           = errors.New("payback plan not found")
	ErrPlanNotActive          = errors.New("payback plan is not active")
	ErrInvalidSpec            = errors.New("invalid schedule spec")
	ErrConcurrentModification = errors.New("plan was modified concurrently")
)

// Error codes
const (
	ErrCodePlanNotFound           = "PLAN_NOT_FOUND"
	ErrCodePlanNotActive          = "PLAN_NOT_ACTIVE"
	ErrCodeInvalidSpec            = "INVALID_SPEC"
	ErrCodeConcurrentModification = "CONCURRENT_MODIFICATION"
	ErrCodeDatabaseError          = "DATABASE_ERROR"
	ErrCodeCacheError             = "CACHE_ERROR"
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Wrap common errors with business context

func WrapPlanNotFound(planID string) *BusinessError {
	return NewBusinessError(
		ErrCodePlanNotFound,
		fmt.Sprintf("payback plan %s not found", planID),
		ErrPlanNotFound,
	)
}

func WrapPlanNotActive(planID, status string) *BusinessError {
	return NewBusinessError(
		ErrCodePlanNotActive,
		fmt.Sprintf("payback plan %s has status %s, generation requires ACTIVE", planID, status),
		ErrPlanNotActive,
	)
}

func WrapInvalidSpec(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidSpec,
		err.Error(),
		ErrInvalidSpec,
	)
}

func WrapConcurrentModification(planID string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrentModification,
		fmt.Sprintf("payback plan %s was modified concurrently, retry the operation", planID),
		ErrConcurrentModification,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
