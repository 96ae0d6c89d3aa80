// Package shell runs one administrative script against the host application.
//
// A script is any type with a Run method:
//
//	type Example struct{ products *hostapp.ProductRepository }
//
//	func (e *Example) Run(ctx context.Context, sh *shell.Shell) error {
//		sh.Writeln("Hello world!")
//		sh.Logger().Debug("Hello world!")
//		return nil
//	}
//
//	func main() { os.Exit(shell.Main(&Example{})) }
//
// Execute walks a fixed sequence and never goes back:
//
//	Constructed -> ArgsParsed -> ContextValidated -> HelpChecked ->
//	Bootstrapped -> DependenciesResolved -> Running -> Terminal
//
// Arguments are parsed by New. Execute refuses to run inside a web request
// (REQUEST_METHOD set), prints usage for -h/--help/help, bootstraps the host
// application, resolves the script's dependencies and finally calls Run.
//
// Optional capabilities are picked up by interface assertion:
//
//   - Usage() string           custom help text
//   - AreaCode() string        application area, default from config ("global")
//   - LogFileName() string     log file name, default from the type name
//   - Setup(*Shell) error      runs after bootstrap, before services are wired
//   - di.Initializer           Dependencies()/Inject(di.Resolved) resolution hook
//   - DI() any                 a function whose parameter types are resolved (see di.Func)
//
// Only Main terminates the process. Execute reports every outcome as an error
// value: *HelpError, ContextViolationError, di.UnresolvedDependencyError, or
// whatever Run returned.
package shell
