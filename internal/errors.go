package internal

import (
	"errors"
	"fmt"
)

// Error kinds shared by every package. Callers classify failures with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrDetection   = errors.New("language detection failed")
	ErrNotFound    = errors.New("not found")
	ErrTranslation = errors.New("translation failed")
)

// Validationf returns an error that matches ErrValidation.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Detectionf returns an error that matches ErrDetection.
func Detectionf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDetection, fmt.Sprintf(format, args...))
}

// NotFoundf returns an error that matches ErrNotFound.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// UnknownKeyf is used for lookups by name (translators, prompt styles): the
// error matches both ErrValidation and ErrNotFound.
func UnknownKeyf(format string, args ...any) error {
	return fmt.Errorf("%w: %w: %s", ErrValidation, ErrNotFound, fmt.Sprintf(format, args...))
}

// TranslationError reports a failed backend invocation. Only the backend's
// message is kept; the original error value is not reachable through Unwrap.
type TranslationError struct {
	Backend string
	Message string
}

// NewTranslationError wraps err for the named backend.
func NewTranslationError(backend string, err error) *TranslationError {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return &TranslationError{Backend: backend, Message: msg}
}

func (e *TranslationError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("%s: %s", ErrTranslation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrTranslation, e.Backend, e.Message)
}

func (e *TranslationError) Is(target error) bool {
	return target == ErrTranslation
}

// IsTaxonomy reports whether err already belongs to one of the shared kinds.
func IsTaxonomy(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrDetection) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTranslation)
}
