package shell

import "errors"

// ContextViolationMessage is printed when a script is started from a web request.
const ContextViolationMessage = "This script cannot be run from Browser. This is the shell script."

// RequestMethodVar marks a web request environment.
const RequestMethodVar = "REQUEST_METHOD"

// ErrNilScript is returned by Execute for a nil script.
var ErrNilScript = errors.New("shell: nil script")

// ErrAlreadyExecuted is returned when Execute is called twice on one Shell.
var ErrAlreadyExecuted = errors.New("shell: already executed")

// ContextViolationError is returned when the process runs inside a web request.
type ContextViolationError struct {
	// Var is the environment variable that gave it away.
	Var string
}

// Error implements the error interface. The message is fixed.
func (ContextViolationError) Error() string { return ContextViolationMessage }

// HelpError is returned when the arguments ask for help. It is not a failure:
// Main prints Usage and exits with status 0.
type HelpError struct {
	Usage string
}

// Error implements the error interface.
func (e *HelpError) Error() string { return "shell: help requested" }

// ExitCoder lets a script error choose the process exit status.
type ExitCoder interface {
	error
	ExitCode() int
}
