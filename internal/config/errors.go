// internal/config/errors.go
package config

import "fmt"

// ValidationError marks a conflicting or malformed parameter.
// Fatal: the pipeline aborts before any output is written.
type ValidationError struct {
	Param  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Param, e.Reason)
}

func validationErrorf(param, format string, args ...any) *ValidationError {
	return &ValidationError{Param: param, Reason: fmt.Sprintf(format, args...)}
}
