package common

import "fmt"

// Error kinds shared across the library. All violations surface synchronously
// through one of these types; nothing in the core recovers from them.

// DomainError reports a numeric argument outside the admissible domain of a
// function, e.g. a negative frequency passed to a scale conversion.
type DomainError struct {
	msg string
}

func (e *DomainError) Error() string { return e.msg }

// Domainf creates a DomainError with a formatted message
func Domainf(format string, args ...any) error {
	return &DomainError{msg: fmt.Sprintf(format, args...)}
}

// ConfigError reports invalid component configuration: an unknown component
// name, a missing or unrecognized constructor parameter, out-of-range filter
// bounds, or a duplicate registration.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string { return e.msg }

// Configf creates a ConfigError with a formatted message
func Configf(format string, args ...any) error {
	return &ConfigError{msg: fmt.Sprintf(format, args...)}
}

// StateError reports an operation invoked in the wrong lifecycle state, e.g.
// consuming a chunk on a computer that was never started, or running a
// batch-only transform in a streaming context.
type StateError struct {
	msg string
}

func (e *StateError) Error() string { return e.msg }

// Statef creates a StateError with a formatted message
func Statef(format string, args ...any) error {
	return &StateError{msg: fmt.Sprintf(format, args...)}
}

// ShapeError reports a feature matrix whose width does not satisfy the input
// contract of a transform chain stage.
type ShapeError struct {
	msg string
}

func (e *ShapeError) Error() string { return e.msg }

// Shapef creates a ShapeError with a formatted message
func Shapef(format string, args ...any) error {
	return &ShapeError{msg: fmt.Sprintf(format, args...)}
}
