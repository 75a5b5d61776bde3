package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeValidation represents bad request input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth represents authentication failures
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeNotFound represents missing records
	ErrorTypeNotFound ErrorType = "notfound"
	// ErrorTypeStore represents file persistence errors
	ErrorTypeStore ErrorType = "store"
	// ErrorTypeLLM represents language-model provider errors
	ErrorTypeLLM ErrorType = "llm"
	// ErrorTypeSpeech represents speech-synthesis errors
	ErrorTypeSpeech ErrorType = "speech"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation errors

// ErrMissingField is returned when a required request field is absent
type ErrMissingField struct {
	*BaseError
	Field string
}

func NewMissingField(field string) *ErrMissingField {
	return &ErrMissingField{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("%s is required", field), nil),
		Field:     field,
	}
}

// Auth errors

// ErrInvalidCredentials is returned for a bad email/password pair.
// The message never reveals which half of the pair was wrong.
var ErrInvalidCredentials = NewBaseError(ErrorTypeAuth, "Invalid credentials", nil)

// ErrInvalidToken is returned when a bearer token is missing, malformed or expired
var ErrInvalidToken = NewBaseError(ErrorTypeAuth, "Token is invalid or expired", nil)

// Not-found errors

// ErrUserNotFound is returned when a user record does not exist
type ErrUserNotFound struct {
	*BaseError
	UserID string
}

func NewUserNotFound(userID string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, "User not found", nil),
		UserID:    userID,
	}
}

// Store errors

// ErrEmailTaken is returned when a signup reuses an existing email
var ErrEmailTaken = NewBaseError(ErrorTypeValidation, "User with this email already exists", nil)

// ErrStoreWriteFailed is returned when persisting a store document fails
type ErrStoreWriteFailed struct {
	*BaseError
	Path string
}

func NewStoreWriteFailed(path string, err error) *ErrStoreWriteFailed {
	return &ErrStoreWriteFailed{
		BaseError: NewBaseError(ErrorTypeStore, "failed to write store file", err),
		Path:      path,
	}
}

// LLM errors

// ErrLLMFailed is returned when a chat-completion request fails
type ErrLLMFailed struct {
	*BaseError
	Model    string
	Attempts int
}

func NewLLMFailed(model string, attempts int, err error) *ErrLLMFailed {
	return &ErrLLMFailed{
		BaseError: NewBaseError(ErrorTypeLLM, fmt.Sprintf("LLM request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// ErrLLMEmptyResponse is returned when the provider returns no choices
var ErrLLMEmptyResponse = NewBaseError(ErrorTypeLLM, "no response from LLM", nil)

// Speech errors

// ErrSynthesisFailed is returned when text-to-speech fails
type ErrSynthesisFailed struct {
	*BaseError
	Language string
}

func NewSynthesisFailed(language string, err error) *ErrSynthesisFailed {
	return &ErrSynthesisFailed{
		BaseError: NewBaseError(ErrorTypeSpeech, "speech synthesis failed", err),
		Language:  language,
	}
}

// ErrSpeechNotConfigured is returned when synthesis is requested without credentials
var ErrSpeechNotConfigured = NewBaseError(ErrorTypeSpeech, "speech synthesis not configured", nil)

// Graph errors

// ErrGraphQueryRejected is returned when the Cypher safety gate blocks a query
type ErrGraphQueryRejected struct {
	*BaseError
	Query  string
	Reason string
}

func NewGraphQueryRejected(query, reason string) *ErrGraphQueryRejected {
	return &ErrGraphQueryRejected{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("unsafe query rejected: %s", reason), nil),
		Query:     query,
		Reason:    reason,
	}
}

// ErrGraphQueryFailed is returned when a sanctioned graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
}

func NewGraphQueryFailed(err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
	}
}

// ErrUnknownPredicate is returned when a relationship predicate is not in the allowed set
type ErrUnknownPredicate struct {
	*BaseError
	Predicate string
}

func NewUnknownPredicate(predicate string) *ErrUnknownPredicate {
	return &ErrUnknownPredicate{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("predicate not allowed: %s", predicate), nil),
		Predicate: predicate,
	}
}

// Helper functions

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if baseErr, ok := err.(*BaseError); ok {
			return baseErr.Type == errType
		}
		if typed, ok := err.(interface{ base() *BaseError }); ok {
			return typed.base().Type == errType
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = unwrapper.Unwrap()
	}
	return false
}

func (e *BaseError) base() *BaseError { return e }
