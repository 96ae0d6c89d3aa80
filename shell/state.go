package shell

// State is a step of the script lifecycle.
type State int

// Lifecycle steps in the order Execute passes them. Terminal is reached from
// every step, on success or failure.
const (
	// Constructed is the state of a Shell before its arguments are parsed.
	Constructed State = iota
	// ArgsParsed is reached by New.
	ArgsParsed
	// ContextValidated means the process is not serving a web request.
	ContextValidated
	// HelpChecked means no help option was given.
	HelpChecked
	// Bootstrapped means the host application and core services are wired.
	Bootstrapped
	// DependenciesResolved means the script's hook received its services.
	DependenciesResolved
	// Running is the state while the script's Run executes.
	Running
	// Terminal is final. Resources are released.
	Terminal
)

var stateNames = [...]string{
	Constructed:          "constructed",
	ArgsParsed:           "args-parsed",
	ContextValidated:     "context-validated",
	HelpChecked:          "help-checked",
	Bootstrapped:         "bootstrapped",
	DependenciesResolved: "dependencies-resolved",
	Running:              "running",
	Terminal:             "terminal",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
