package engine

import "fmt"

// User-visible message strings. Each error class maps to exactly one.
const (
	msgMissingKey = "Google Maps API key is missing. Please check your .env.local file"
	msgLoadFailed = "Failed to load Google Maps script"
)

// ConfigError reports a missing API key. Fatal to initialization, no
// retry.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// LoadError reports a failure fetching the hosted engine. Fatal to
// initialization, no retry.
type LoadError struct {
	Message string
	Err     error
}

func (e *LoadError) Error() string { return e.Message }

func (e *LoadError) Unwrap() error { return e.Err }

// InitError wraps a failure during map or marker construction so it
// surfaces as a banner message instead of crashing the view.
type InitError struct {
	Message string
	Err     error
}

func (e *InitError) Error() string { return e.Message }

func (e *InitError) Unwrap() error { return e.Err }

// WrapInit converts any initialization failure into an *InitError.
// An existing *InitError passes through unchanged.
func WrapInit(err error) *InitError {
	if err == nil {
		return nil
	}
	if ie, ok := err.(*InitError); ok {
		return ie
	}
	return &InitError{
		Message: fmt.Sprintf("Failed to initialize map: %v", err),
		Err:     err,
	}
}
