package di

import (
	"errors"
	"strconv"
)

var (
	// ErrNilLocator is returned when resolution is attempted without a Locator.
	ErrNilLocator = errors.New("di: nil locator")

	// ErrNilFactory is returned when a nil factory is registered.
	ErrNilFactory = errors.New("di: nil factory")

	// ErrProviderPanic is returned if a factory panics while building a service.
	ErrProviderPanic = errors.New("di: panic while building service")

	// ErrNilTarget is returned by Invoke for a nil pointer Initializer.
	ErrNilTarget = errors.New("di: nil target")

	// ErrNotAFunc is returned by Func hooks wrapping something that is not a function.
	ErrNotAFunc = errors.New("di: hook is not a function")
)

// NotRegisteredError is returned by Container when no factory exists for a type.
type NotRegisteredError struct{ Type TypeID }

// Error implements the error interface.
func (e NotRegisteredError) Error() string {
	// Example: di: type "*hostapp.State" not registered
	return "di: type " + strconv.Quote(e.Type.String()) + " not registered"
}

// DuplicateProviderError is returned when a type is registered twice.
type DuplicateProviderError struct{ Type TypeID }

// Error implements the error interface.
func (e DuplicateProviderError) Error() string {
	return "di: duplicate provider for type " + strconv.Quote(e.Type.String())
}

// CycleError is returned when building a shared service needs itself.
type CycleError struct{ Path []TypeID }

// Error implements the error interface.
func (e CycleError) Error() string {
	msg := "di: dependency cycle: "
	for i, id := range e.Path {
		if i > 0 {
			msg += " -> "
		}
		msg += id.String()
	}
	return msg
}

// UnresolvedDependencyError is the fatal resolution failure: the declared
// dependency at Index could not be supplied. Err carries the Locator's reason.
type UnresolvedDependencyError struct {
	Index int
	Type  TypeID
	Err   error
}

// Error implements the error interface.
func (e UnresolvedDependencyError) Error() string {
	// Example: di: cannot resolve dependency #1 "*catalog.Product": di: type "*catalog.Product" not registered
	msg := "di: cannot resolve dependency #" + strconv.Itoa(e.Index) + " " + strconv.Quote(e.Type.String())
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying Locator error.
func (e UnresolvedDependencyError) Unwrap() error { return e.Err }

// UntypedDependencyError is returned when a declared dependency has no concrete type.
type UntypedDependencyError struct{ Index int }

// Error implements the error interface.
func (e UntypedDependencyError) Error() string {
	return "di: dependency #" + strconv.Itoa(e.Index) + " has no declared type"
}

// MissingDependencyError is returned by As when the index is outside the resolved list.
type MissingDependencyError struct{ Index int }

// Error implements the error interface.
func (e MissingDependencyError) Error() string {
	return "di: dependency #" + strconv.Itoa(e.Index) + " missing"
}

// WrongTypeDependencyError is returned when a value is not of the requested type.
type WrongTypeDependencyError struct {
	// Index is the position in the resolved list, or -1 for Locator lookups.
	Index int

	// Want is the requested type.
	Want TypeID

	// GotType is the dynamic type of the stored value.
	GotType string
}

// Error implements the error interface.
func (e WrongTypeDependencyError) Error() string {
	// Example: di: dependency #0 has wrong type (*zap.Logger), want *hostapp.State
	return "di: dependency #" + strconv.Itoa(e.Index) + " has wrong type (" + e.GotType + "), want " + e.Want.String()
}
