package llm

import (
	"errors"
)

// Error types for classifying completion failures.

// ConfigurationError represents a fatal setup problem: a missing
// credential or an unknown model. It is raised before any network call
// and halts the current action.
type ConfigurationError struct {
	err error
}

func (e *ConfigurationError) Error() string {
	return e.err.Error()
}

func (e *ConfigurationError) Unwrap() error {
	return e.err
}

// NewConfigurationError wraps an error as a configuration failure.
func NewConfigurationError(err error) error {
	return &ConfigurationError{err: err}
}

// ServiceError represents a transport, quota, or model failure from the
// completion service. Callers surface it as a warning and abort the
// current round; no retry is attempted.
type ServiceError struct {
	err error
}

func (e *ServiceError) Error() string {
	return e.err.Error()
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// NewServiceError wraps an error as a completion-service failure.
func NewServiceError(err error) error {
	return &ServiceError{err: err}
}

// IsConfiguration returns true if the error is a configuration failure.
func IsConfiguration(err error) bool {
	var cfg *ConfigurationError
	return errors.As(err, &cfg)
}

// IsService returns true if the error is a completion-service failure.
func IsService(err error) bool {
	var svc *ServiceError
	return errors.As(err, &svc)
}
