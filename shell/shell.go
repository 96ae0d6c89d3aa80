package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/j-stam/goshell/args"
	"github.com/j-stam/goshell/config"
	"github.com/j-stam/goshell/console"
	"github.com/j-stam/goshell/di"
	"github.com/j-stam/goshell/fileio"
	"github.com/j-stam/goshell/hostapp"
	"github.com/j-stam/goshell/logging"
	"github.com/j-stam/goshell/store"
)

// Script is the body of a shell run.
type Script interface {
	Run(ctx context.Context, sh *Shell) error
}

type usager interface{ Usage() string }

type areaCoder interface{ AreaCode() string }

type logFileNamer interface{ LogFileName() string }

type setupper interface{ Setup(sh *Shell) error }

type funcHooker interface{ DI() any }

// Shell carries one script invocation from arguments to exit.
type Shell struct {
	argv  []string
	env   map[string]string
	args  *args.Store
	state State
	opts  options

	app      *hostapp.App
	locator  di.Locator
	conn     *store.Connection
	fio      *fileio.IO
	logger   *logging.Logger
	console  *console.Output
	rootPath string
	areaCode string
	logFile  string
}

// New captures argv and env and parses the arguments.
//
// argv[0] is the program path. env is never read from the process; pass
// config.EnvMap(os.Environ()) for the real environment.
func New(argv []string, env map[string]string, opts ...Option) *Shell {
	s := &Shell{
		argv:  append([]string(nil), argv...),
		env:   make(map[string]string, len(env)),
		state: Constructed,
		opts:  defaultOptions(),
	}
	for k, v := range env {
		s.env[k] = v
	}
	for _, opt := range opts {
		opt(&s.opts)
	}

	s.args = args.Parse(s.argv)
	s.state = ArgsParsed
	return s
}

// Execute runs script through the remaining lifecycle steps. Resources opened
// during the run are released before it returns.
func (s *Shell) Execute(ctx context.Context, script Script) (err error) {
	if script == nil {
		return ErrNilScript
	}
	if s.state != ArgsParsed {
		return ErrAlreadyExecuted
	}
	defer func() {
		s.state = Terminal
		if cerr := s.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := s.validateContext(); err != nil {
		return err
	}
	s.state = ContextValidated

	if s.args.HelpRequested() {
		return &HelpError{Usage: s.usage(script)}
	}
	s.state = HelpChecked

	if err := s.bootstrap(ctx, script); err != nil {
		return err
	}
	s.state = Bootstrapped

	if err := s.resolve(script); err != nil {
		return err
	}
	s.state = DependenciesResolved

	s.state = Running
	return script.Run(ctx, s)
}

func (s *Shell) validateContext() error {
	if _, ok := s.env[RequestMethodVar]; ok {
		return ContextViolationError{Var: RequestMethodVar}
	}
	return nil
}

func (s *Shell) usage(script Script) string {
	if u, ok := script.(usager); ok {
		return u.Usage()
	}
	return DefaultUsage(s.programName())
}

func (s *Shell) programName() string {
	if len(s.argv) == 0 || s.argv[0] == "" {
		return "script"
	}
	return filepath.Base(s.argv[0])
}

// DefaultUsage is the help text of a script that does not define Usage.
func DefaultUsage(program string) string {
	return "Usage:  " + program + " [options]\n" +
		"\n" +
		"  -h            Short alias for help\n" +
		"  help          This help"
}

func (s *Shell) bootstrap(ctx context.Context, script Script) error {
	root := s.opts.root
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("shell: bootstrap: %w", err)
		}
		root = config.RootFromEnv(s.env, cwd)
	}

	app, err := s.opts.bootstrap(ctx, root, s.env, hostapp.WithStdout(s.opts.stdout))
	if err != nil {
		return err
	}
	s.app = app
	s.locator = app.Locator()

	for _, register := range s.opts.services {
		if err := register(app.Container()); err != nil {
			return fmt.Errorf("shell: register services: %w", err)
		}
	}

	s.areaCode = app.Config().AreaCode
	if a, ok := script.(areaCoder); ok && a.AreaCode() != "" {
		s.areaCode = a.AreaCode()
	}
	state, err := di.Get[*hostapp.State](s.locator)
	if err != nil {
		return err
	}
	if err := state.SetAreaCode(s.areaCode); err != nil {
		return err
	}

	if su, ok := script.(setupper); ok {
		if err := su.Setup(s); err != nil {
			return fmt.Errorf("shell: setup: %w", err)
		}
	}
	return s.initialize(script)
}

// initialize wires the services every script gets: connection, file IO,
// logger and console.
func (s *Shell) initialize(script Script) error {
	var err error
	if s.conn, err = di.Get[*store.Connection](s.locator); err != nil {
		return fmt.Errorf("shell: connection: %w", err)
	}
	if s.fio, err = di.Create[*fileio.IO](s.locator, nil); err != nil {
		return fmt.Errorf("shell: io: %w", err)
	}

	name := ScriptName(script)
	s.logFile = logging.FileName(name)
	if n, ok := script.(logFileNamer); ok && n.LogFileName() != "" {
		s.logFile = n.LogFileName()
	}
	s.logger, err = di.Create[*logging.Logger](s.locator, di.Args{
		"name":     name,
		"filePath": s.app.Config().LogDir(),
		"fileName": s.logFile,
	})
	if err != nil {
		return fmt.Errorf("shell: logger: %w", err)
	}

	if s.console, err = di.Get[*console.Output](s.locator); err != nil {
		return fmt.Errorf("shell: console: %w", err)
	}
	return nil
}

func (s *Shell) resolve(script Script) error {
	var target any = script
	if h, ok := script.(funcHooker); ok {
		if _, isInit := script.(di.Initializer); !isInit {
			target = di.Func(h.DI())
		}
	}
	if err := di.Invoke(s.locator, target); err != nil {
		return fmt.Errorf("shell: resolve dependencies: %w", err)
	}
	return nil
}

// ScriptName returns the type name of script without package or pointer.
func ScriptName(script any) string {
	t := reflect.TypeOf(script)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "shell"
	}
	return t.Name()
}

// Close releases the logger and the host application. It is safe to call twice.
func (s *Shell) Close() error {
	var errs []error
	if s.logger != nil {
		if err := s.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.app != nil {
		if err := s.app.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// State returns the current lifecycle step.
func (s *Shell) State() State { return s.state }

// Args returns the parsed options.
func (s *Shell) Args() *args.Store { return s.args }

// Arg returns the value of an option, true for a bare flag, or def when absent.
func (s *Shell) Arg(name string, def any) any { return s.args.Arg(name, def) }

// Getenv returns a variable of the environment the shell was created with.
func (s *Shell) Getenv(key string) string { return s.env[key] }

// App returns the bootstrapped host application, nil before Bootstrapped.
func (s *Shell) App() *hostapp.App { return s.app }

// Locator returns the service container.
func (s *Shell) Locator() di.Locator { return s.locator }

// Instance returns the shared instance of id.
func (s *Shell) Instance(id di.TypeID) (any, error) {
	if s.locator == nil {
		return nil, di.ErrNilLocator
	}
	return s.locator.Get(id)
}

// NewInstance builds a fresh instance of id with named constructor args.
func (s *Shell) NewInstance(id di.TypeID, a di.Args) (any, error) {
	if s.locator == nil {
		return nil, di.ErrNilLocator
	}
	return s.locator.Create(id, a)
}

// Connection returns the database connection.
func (s *Shell) Connection() *store.Connection { return s.conn }

// IO returns the CSV/XML/JSON file adapter.
func (s *Shell) IO() *fileio.IO { return s.fio }

// Logger returns the script's file logger.
func (s *Shell) Logger() *logging.Logger { return s.logger }

// Console returns the console writer.
func (s *Shell) Console() *console.Output { return s.console }

// AreaCode returns the application area the script runs in.
func (s *Shell) AreaCode() string { return s.areaCode }

// LogFileName returns the name of the script's log file.
func (s *Shell) LogFileName() string { return s.logFile }

// RootPath returns the application root, looked up once from the directory list.
func (s *Shell) RootPath() string {
	if s.rootPath == "" && s.locator != nil {
		if d, err := di.Get[*hostapp.DirectoryList](s.locator); err == nil {
			s.rootPath = d.Root()
		}
	}
	return s.rootPath
}

// SetSecureArea toggles the registry flag that allows destructive operations.
func (s *Shell) SetSecureArea(secure bool) error {
	reg, err := di.Get[*hostapp.Registry](s.locator)
	if err != nil {
		return err
	}
	reg.SetSecureArea(secure)
	return nil
}

// Writeln prints msg and a newline. An optional verbosity (default
// console.Normal) hides the message when the console is set quieter.
func (s *Shell) Writeln(msg string, v ...console.Verbosity) {
	s.Write(msg, true, v...)
}

// Write prints msg at the optional verbosity, console.Normal by default.
// Before the console service is wired it writes plain text to the configured
// stdout at normal verbosity.
func (s *Shell) Write(msg string, newline bool, v ...console.Verbosity) {
	level := console.Normal
	if len(v) > 0 {
		level = v[0]
	}
	out := s.console
	if out == nil {
		out = console.New(s.opts.stdout, console.Normal, console.ColorNever)
	}
	_ = out.Write(msg, newline, level)
}
