package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrValidation      = errors.New("validation failed")
	ErrOverpayment     = errors.New("payment exceeds total value")
	ErrPaymentNotFound = errors.New("payment not found")
	ErrSaleNotFound    = errors.New("sale not found")
	ErrInvalidMethod   = errors.New("invalid payment method")
	ErrInvalidDueDate  = errors.New("invalid due date")
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

// Error codes
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeOverpayment     = "OVERPAYMENT"
	ErrCodePaymentNotFound = "PAYMENT_NOT_FOUND"
	ErrCodeSaleNotFound    = "SALE_NOT_FOUND"
	ErrCodeDatabaseError   = "DATABASE_ERROR"
	ErrCodeCacheError      = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapOverpayment(remaining, attempted string) *BusinessError {
	return NewBusinessError(
		ErrCodeOverpayment,
		fmt.Sprintf("payment of %s exceeds remaining balance of %s", attempted, remaining),
		ErrOverpayment,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

func WrapSaleNotFound(saleID string) *BusinessError {
	return NewBusinessError(
		ErrCodeSaleNotFound,
		fmt.Sprintf("sale with ID %s not found", saleID),
		ErrSaleNotFound,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(ErrCodeDatabaseError, "database operation failed", err)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(ErrCodeCacheError, "cache operation failed", err)
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidMethod) ||
		errors.Is(err, ErrInvalidDueDate)
}

// IsOverpayment reports whether err is an overpayment rejection.
func IsOverpayment(err error) bool {
	return errors.Is(err, ErrOverpayment)
}

// IsNotFound reports whether err signals a missing payment or sale.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound) || errors.Is(err, ErrSaleNotFound)
}
