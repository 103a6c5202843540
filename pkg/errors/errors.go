package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
	ErrVehicleNotFound       = errors.New("vehicle not found")
	ErrVehicleAlreadyExists  = errors.New("vehicle already exists")
	ErrInvalidTerms          = errors.New("invalid sale terms")
	ErrInvalidPayment        = errors.New("invalid payment amount")
	ErrLoanAlreadyCompleted  = errors.New("loan is already fully paid")
	ErrInvalidPlanLabel      = errors.New("invalid installment plan label")
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
	ErrCodeCustomerNotFound      = "CUSTOMER_NOT_FOUND"
	ErrCodeCustomerAlreadyExists = "CUSTOMER_ALREADY_EXISTS"
	ErrCodeVehicleNotFound       = "VEHICLE_NOT_FOUND"
	ErrCodeVehicleAlreadyExists  = "VEHICLE_ALREADY_EXISTS"
	ErrCodeInvalidTerms          = "INVALID_SALE_TERMS"
	ErrCodeInvalidPayment        = "INVALID_PAYMENT_AMOUNT"
	ErrCodeLoanAlreadyCompleted  = "LOAN_ALREADY_COMPLETED"
	ErrCodeInvalidPlanLabel      = "INVALID_PLAN_LABEL"
	ErrCodeDatabaseError         = "DATABASE_ERROR"
	ErrCodeCacheError            = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapCustomerNotFound(accountNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerNotFound,
		fmt.Sprintf("Customer with account number %s not found", accountNumber),
		ErrCustomerNotFound,
	)
}

func WrapCustomerAlreadyExists(accountNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeCustomerAlreadyExists,
		fmt.Sprintf("Customer with account number %s already exists", accountNumber),
		ErrCustomerAlreadyExists,
	)
}

func WrapVehicleNotFound(key string) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleNotFound,
		fmt.Sprintf("No vehicle record found for %s", key),
		ErrVehicleNotFound,
	)
}

func WrapVehicleAlreadyExists(registrationNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeVehicleAlreadyExists,
		fmt.Sprintf("Vehicle with registration number %s already exists", registrationNumber),
		ErrVehicleAlreadyExists,
	)
}

func WrapInvalidTerms(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerms,
		reason,
		ErrInvalidTerms,
	)
}

func WrapInvalidPayment(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPayment,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPayment,
	)
}

func WrapLoanAlreadyCompleted(registrationNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanAlreadyCompleted,
		fmt.Sprintf("Loan for vehicle %s is already fully paid", registrationNumber),
		ErrLoanAlreadyCompleted,
	)
}

func WrapInvalidPlanLabel(label string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPlanLabel,
		fmt.Sprintf("Cannot parse installment plan %q", label),
		ErrInvalidPlanLabel,
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
