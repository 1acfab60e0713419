package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeInsufficientData represents a region (or every tried region) holding too few malls
	ErrorTypeInsufficientData ErrorType = "insufficient_data"
	// ErrorTypeInvalidPrecondition represents a request that can never be satisfied
	ErrorTypeInvalidPrecondition ErrorType = "invalid_precondition"
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeStorage represents dataset import/export errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeValidation represents validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

var (
	// ErrInsufficientData matches every error of kind insufficient_data,
	// and invalid_precondition errors caused by a region being too small.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidPrecondition matches every error of kind invalid_precondition.
	ErrInvalidPrecondition = errors.New("invalid precondition")
)

// MallError represents an error raised while building, storing or sampling the mall dataset
type MallError struct {
	Type    ErrorType
	Region  string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *MallError) Error() string {
	if e.Region != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Region, e.Message, e.Err)
		}
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Region, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s - %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *MallError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the kind sentinels
func (e *MallError) Is(target error) bool {
	switch target {
	case ErrInsufficientData:
		return e.Type == ErrorTypeInsufficientData
	case ErrInvalidPrecondition:
		return e.Type == ErrorTypeInvalidPrecondition
	}
	return false
}

// IsRetryable returns true if the error is retryable
func (e *MallError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeCache:
		return true
	default:
		return false
	}
}

// TypeOf returns the kind of err, or "" when err is not a MallError
func TypeOf(err error) ErrorType {
	var me *MallError
	if errors.As(err, &me) {
		return me.Type
	}
	return ""
}

// New creates a new MallError
func New(errType ErrorType, region, message string, err error) *MallError {
	return &MallError{
		Type:    errType,
		Region:  region,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewInsufficientData creates a new insufficient data error
func NewInsufficientData(region, message string) *MallError {
	return New(ErrorTypeInsufficientData, region, message, nil)
}

// NewInvalidPrecondition creates a new invalid precondition error.
// cause may be ErrInsufficientData when the region simply holds too few malls.
func NewInvalidPrecondition(region, message string, cause error) *MallError {
	return New(ErrorTypeInvalidPrecondition, region, message, cause)
}

// NewNetwork creates a new network error
func NewNetwork(source, message string, err error) *MallError {
	return New(ErrorTypeNetwork, source, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(source, message string, err error) *MallError {
	return New(ErrorTypeParsing, source, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(source string, duration time.Duration) *MallError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, source, message, nil)
}

// NewCache creates a new cache error
func NewCache(key, message string, err error) *MallError {
	return New(ErrorTypeCache, key, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(stream, message string, err error) *MallError {
	return New(ErrorTypePublisher, stream, message, err)
}

// NewStorage creates a new storage error
func NewStorage(path, message string, err error) *MallError {
	return New(ErrorTypeStorage, path, message, err)
}

// NewValidation creates a new validation error
func NewValidation(region, message string) *MallError {
	return New(ErrorTypeValidation, region, message, nil)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *MallError {
	return New(ErrorTypeConfiguration, "", message, err)
}
