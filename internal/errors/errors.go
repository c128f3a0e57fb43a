// Package errors provides definition-level error types and a thread-safe
// collector used by the loader and the CLI to aggregate and report every
// problem found in a batch of component definitions.
package errors

import (
	"fmt"
	"sync"
	"time"
)

// DefinitionError represents one problem found in a component definition.
type DefinitionError struct {
	Definition string
	File       string
	Message    string
	Severity   ErrorSeverity
	Timestamp  time.Time
}

// ErrorSeverity represents the severity of an error.
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
	ErrorSeverityFatal
)

// String returns the string representation of the severity.
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	case ErrorSeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error implements the error interface.
func (de *DefinitionError) Error() string {
	if de.File != "" {
		return fmt.Sprintf("%s: %s: %s: %s", de.File, de.Definition, de.Severity, de.Message)
	}
	return fmt.Sprintf("%s: %s: %s", de.Definition, de.Severity, de.Message)
}

// ErrorCollector collects definition errors across a load pass.
type ErrorCollector struct {
	errors []DefinitionError
	mutex  sync.RWMutex
}

// NewErrorCollector creates a new error collector.
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{errors: make([]DefinitionError, 0)}
}

// Add adds a definition error to the collector.
func (ec *ErrorCollector) Add(err DefinitionError) {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	err.Timestamp = time.Now()
	ec.errors = append(ec.errors, err)
}

// AddMessages records a batch of validation messages for one definition.
func (ec *ErrorCollector) AddMessages(definition, file string, messages []string) {
	for _, msg := range messages {
		ec.Add(DefinitionError{
			Definition: definition,
			File:       file,
			Message:    msg,
			Severity:   ErrorSeverityError,
		})
	}
}

// GetErrors returns a copy of all collected errors.
func (ec *ErrorCollector) GetErrors() []DefinitionError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	result := make([]DefinitionError, len(ec.errors))
	copy(result, ec.errors)
	return result
}

// GetErrorsByDefinition returns errors for a specific definition.
func (ec *ErrorCollector) GetErrorsByDefinition(definition string) []DefinitionError {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	var out []DefinitionError
	for _, err := range ec.errors {
		if err.Definition == definition {
			out = append(out, err)
		}
	}
	return out
}

// HasErrors returns true if any error was collected.
func (ec *ErrorCollector) HasErrors() bool {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors) > 0
}

// Count returns the number of collected errors.
func (ec *ErrorCollector) Count() int {
	ec.mutex.RLock()
	defer ec.mutex.RUnlock()
	return len(ec.errors)
}

// Clear clears all errors.
func (ec *ErrorCollector) Clear() {
	ec.mutex.Lock()
	defer ec.mutex.Unlock()
	ec.errors = ec.errors[:0]
}
