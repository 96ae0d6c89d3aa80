package shell

import (
	"bytes"
	"context"
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-stam/goshell/console"
	"github.com/j-stam/goshell/di"
	"github.com/j-stam/goshell/hostapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//
// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

// recordingScript remembers what the lifecycle did to it.
type recordingScript struct {
	runs       int
	runState   State
	setupCalls int
	runErr     error
	sh         *Shell
}

func (r *recordingScript) Run(_ context.Context, sh *Shell) error {
	r.runs++
	r.runState = sh.State()
	r.sh = sh
	return r.runErr
}

// ProductAudit declares dependencies through Dependencies/Inject.
type ProductAudit struct {
	recordingScript
	products *hostapp.ProductRepository
	registry *hostapp.Registry
	injected     int
	runsAtInject int
}

func (p *ProductAudit) Dependencies() []di.TypeID {
	return []di.TypeID{di.TypeOf[*hostapp.ProductRepository](), di.TypeOf[*hostapp.Registry]()}
}

func (p *ProductAudit) Inject(deps di.Resolved) error {
	p.injected++
	p.runsAtInject = p.runs
	var err error
	if p.products, err = di.As[*hostapp.ProductRepository](deps, 0); err != nil {
		return err
	}
	p.registry, err = di.As[*hostapp.Registry](deps, 1)
	return err
}

type missingService struct{}

// BrokenScript asks for a type nobody registered.
type BrokenScript struct {
	recordingScript
	injected bool
}

func (b *BrokenScript) Dependencies() []di.TypeID {
	return []di.TypeID{di.TypeOf[*hostapp.State](), di.TypeOf[*missingService]()}
}

func (b *BrokenScript) Inject(di.Resolved) error {
	b.injected = true
	return nil
}

// FuncScript declares dependencies as function parameters.
type FuncScript struct {
	recordingScript
	dirs *hostapp.DirectoryList
}

func (f *FuncScript) DI() any {
	return func(d *hostapp.DirectoryList) { f.dirs = d }
}

// CustomScript overrides the optional capabilities.
type CustomScript struct {
	recordingScript
}

func (c *CustomScript) Usage() string       { return "usage: custom --sku <sku>" }
func (c *CustomScript) AreaCode() string    { return hostapp.AreaCrontab }
func (c *CustomScript) LogFileName() string { return "custom.log" }
func (c *CustomScript) Setup(sh *Shell) error {
	c.setupCalls++
	if sh.State() != HelpChecked {
		return errors.New("setup ran in state " + sh.State().String())
	}
	return nil
}

type exitErr struct{ code int }

func (e exitErr) Error() string { return "exit" }
func (e exitErr) ExitCode() int { return e.code }

func newShell(t *testing.T, argv []string, env map[string]string, opts ...Option) (*Shell, *bytes.Buffer, string) {
	t.Helper()
	root := t.TempDir()
	var out bytes.Buffer
	opts = append([]Option{WithRoot(root), WithStdout(&out), WithStderr(&out)}, opts...)
	return New(argv, env, opts...), &out, root
}

//
// -----------------------------------------------------------------------------
// New
// -----------------------------------------------------------------------------

// TestNew_ParsesArguments verifies arguments are parsed at construction.
func TestNew_ParsesArguments(t *testing.T) {
	t.Parallel()

	argv := []string{"bin/export", "--store", "default", "-v"}
	sh := New(argv, map[string]string{"A": "1"})

	assert.Equal(t, ArgsParsed, sh.State())
	assert.Equal(t, "default", sh.Arg("store", nil))
	assert.Equal(t, true, sh.Arg("v", false))
	assert.Equal(t, false, sh.Arg("missing", false))
	assert.Equal(t, "1", sh.Getenv("A"))

	argv[2] = "changed"
	assert.Equal(t, "default", sh.Args().StringOr("store", ""))
}

//
// -----------------------------------------------------------------------------
// Execute
// -----------------------------------------------------------------------------

// TestExecute_RunsScript verifies the happy path reaches Running and ends Terminal.
func TestExecute_RunsScript(t *testing.T) {
	t.Parallel()

	sh, _, root := newShell(t, []string{"prog"}, nil)
	script := &recordingScript{}

	require.NoError(t, sh.Execute(context.Background(), script))
	assert.Equal(t, 1, script.runs)
	assert.Equal(t, Running, script.runState)
	assert.Equal(t, Terminal, sh.State())

	assert.Equal(t, root, sh.RootPath())
	assert.Equal(t, hostapp.AreaGlobal, sh.AreaCode())
	assert.Equal(t, "recording-script.log", sh.LogFileName())
	require.NotNil(t, sh.IO())
	require.NotNil(t, sh.Console())
	require.NotNil(t, sh.Connection())
	require.NotNil(t, sh.App())

	require.ErrorIs(t, sh.Execute(context.Background(), script), ErrAlreadyExecuted)
	require.ErrorIs(t, New(nil, nil).Execute(context.Background(), nil), ErrNilScript)
}

// TestExecute_ContextViolation verifies web requests abort before help and bootstrap.
func TestExecute_ContextViolation(t *testing.T) {
	t.Parallel()

	registered := false
	sh, _, _ := newShell(t, []string{"prog", "--help"}, map[string]string{"REQUEST_METHOD": "GET"},
		WithServices(func(*di.Container) error { registered = true; return nil }))
	script := &recordingScript{}

	err := sh.Execute(context.Background(), script)
	var violation ContextViolationError
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, "This script cannot be run from Browser. This is the shell script.", err.Error())
	assert.Equal(t, RequestMethodVar, violation.Var)
	assert.Equal(t, 0, script.runs)
	assert.False(t, registered)
	assert.Nil(t, sh.App())
	assert.Equal(t, Terminal, sh.State())
}

// TestExecute_Help verifies every help spelling stops before bootstrap.
func TestExecute_Help(t *testing.T) {
	t.Parallel()

	for _, flag := range []string{"-h", "--help", "help"} {
		registered := false
		sh, _, _ := newShell(t, []string{"bin/reindex", flag}, nil,
			WithServices(func(*di.Container) error { registered = true; return nil }))
		script := &recordingScript{}

		err := sh.Execute(context.Background(), script)
		var help *HelpError
		require.ErrorAs(t, err, &help, flag)
		assert.Equal(t, DefaultUsage("reindex"), help.Usage)
		assert.Equal(t, 0, script.runs)
		assert.False(t, registered)
	}
}

// TestExecute_CustomCapabilities verifies usage, area code, log file and Setup overrides.
func TestExecute_CustomCapabilities(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, []string{"prog", "-h"}, nil)
	err := sh.Execute(context.Background(), &CustomScript{})
	var help *HelpError
	require.ErrorAs(t, err, &help)
	assert.Equal(t, "usage: custom --sku <sku>", help.Usage)

	sh, _, root := newShell(t, []string{"prog"}, nil)
	script := &CustomScript{}
	require.NoError(t, sh.Execute(context.Background(), script))
	assert.Equal(t, 1, script.setupCalls)
	assert.Equal(t, hostapp.AreaCrontab, sh.AreaCode())
	assert.Equal(t, "custom.log", sh.LogFileName())

	state, err := di.Get[*hostapp.State](sh.Locator())
	require.NoError(t, err)
	code, err := state.AreaCode()
	require.NoError(t, err)
	assert.Equal(t, hostapp.AreaCrontab, code)

	_, err = os.Stat(filepath.Join(root, "var", "log", "shell", "custom.log"))
	require.NoError(t, err)
}

// TestExecute_ResolvesDependencies verifies Inject runs once, before Run, with resolved services.
func TestExecute_ResolvesDependencies(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, []string{"prog"}, nil)
	script := &ProductAudit{}

	require.NoError(t, sh.Execute(context.Background(), script))
	assert.Equal(t, 1, script.injected)
	assert.Equal(t, 0, script.runsAtInject, "Inject runs before Run")
	require.NotNil(t, script.products)
	require.NotNil(t, script.registry)
	assert.Equal(t, 1, script.runs)
}

// TestExecute_UnresolvedDependency verifies a missing type aborts before Inject and Run.
func TestExecute_UnresolvedDependency(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, []string{"prog"}, nil)
	script := &BrokenScript{}

	err := sh.Execute(context.Background(), script)
	var unresolved di.UnresolvedDependencyError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, di.TypeOf[*missingService](), unresolved.Type)
	assert.Contains(t, err.Error(), "*shell.missingService")
	assert.False(t, script.injected)
	assert.Equal(t, 0, script.runs)
	assert.Equal(t, Terminal, sh.State())
}

// TestExecute_ScriptServices verifies WithServices registrations are resolvable.
func TestExecute_ScriptServices(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, []string{"prog"}, nil, WithServices(func(c *di.Container) error {
		return di.ProvideValue(c, &missingService{})
	}))
	script := &BrokenScript{}

	require.NoError(t, sh.Execute(context.Background(), script))
	assert.True(t, script.injected)
	assert.Equal(t, 1, script.runs)
}

// TestExecute_FuncHook verifies DI() functions receive their parameters.
func TestExecute_FuncHook(t *testing.T) {
	t.Parallel()

	sh, _, root := newShell(t, []string{"prog"}, nil)
	script := &FuncScript{}

	require.NoError(t, sh.Execute(context.Background(), script))
	require.NotNil(t, script.dirs)
	assert.Equal(t, root, script.dirs.Root())
}

// TestExecute_RunErrorPropagates verifies the script's error is returned unchanged.
func TestExecute_RunErrorPropagates(t *testing.T) {
	t.Parallel()

	boom := errors.New("import failed")
	sh, _, _ := newShell(t, []string{"prog"}, nil)

	err := sh.Execute(context.Background(), &recordingScript{runErr: boom})
	require.ErrorIs(t, err, boom)
}

// TestExecute_BootstrapFailure verifies configuration errors stop the run.
func TestExecute_BootstrapFailure(t *testing.T) {
	t.Parallel()

	sh, _, _ := newShell(t, []string{"prog"}, map[string]string{"SHELL_LOG_LEVEL": "loud"})
	script := &recordingScript{}

	require.Error(t, sh.Execute(context.Background(), script))
	assert.Equal(t, 0, script.runs)
}

// TestShell_Accessors verifies the helpers scripts use inside Run.
func TestShell_Accessors(t *testing.T) {
	t.Parallel()

	sh, out, _ := newShell(t, []string{"prog"}, map[string]string{"SHELL_COLOR": "never"})
	sh.Writeln("before bootstrap")

	var secure bool
	script := &runFunc{fn: func(sh *Shell) error {
		sh.Writeln("<info>Hello world!</info>")
		sh.Write("no newline", false)
		sh.Logger().Debug("Hello world!")

		if err := sh.SetSecureArea(true); err != nil {
			return err
		}
		reg, err := sh.Instance(di.TypeOf[*hostapp.Registry]())
		if err != nil {
			return err
		}
		secure = reg.(*hostapp.Registry).IsSecureArea()

		a, err := sh.NewInstance(di.TypeOf[*hostapp.ProductRepository](), nil)
		if err != nil {
			return err
		}
		b, err := sh.Instance(di.TypeOf[*hostapp.ProductRepository]())
		if err != nil {
			return err
		}
		if a == b {
			return errors.New("NewInstance returned the shared instance")
		}
		return nil
	}}

	require.NoError(t, sh.Execute(context.Background(), script))
	assert.True(t, secure)
	assert.Equal(t, "before bootstrap\nHello world!\nno newline", out.String())

	raw, err := os.ReadFile(sh.Logger().Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Hello world!")
	assert.Contains(t, string(raw), "DEBUG")
}

// TestShell_WritelnVerbosity verifies messages above the configured verbosity are hidden.
func TestShell_WritelnVerbosity(t *testing.T) {
	t.Parallel()

	sh, out, _ := newShell(t, []string{"prog"}, map[string]string{
		"SHELL_VERBOSITY": "verbose",
		"SHELL_COLOR":     "never",
	})
	script := &runFunc{fn: func(sh *Shell) error {
		sh.Writeln("plain")
		sh.Writeln("details", console.Verbose)
		sh.Writeln("trace", console.Debug)
		sh.Write("summary", false, console.Quiet)
		return nil
	}}

	require.NoError(t, sh.Execute(context.Background(), script))
	assert.Equal(t, "plain\ndetails\nsummary", out.String())
}

type runFunc struct {
	fn func(sh *Shell) error
}

func (r *runFunc) Run(_ context.Context, sh *Shell) error { return r.fn(sh) }

// TestShell_NoLocator verifies lookups before bootstrap fail cleanly.
func TestShell_NoLocator(t *testing.T) {
	t.Parallel()

	sh := New([]string{"prog"}, nil)
	_, err := sh.Instance(di.TypeOf[*hostapp.State]())
	require.ErrorIs(t, err, di.ErrNilLocator)
	_, err = sh.NewInstance(di.TypeOf[*hostapp.State](), nil)
	require.ErrorIs(t, err, di.ErrNilLocator)
	require.ErrorIs(t, sh.SetSecureArea(true), di.ErrNilLocator)
	assert.Empty(t, sh.RootPath())
	assert.NoError(t, sh.Close())
}

//
// -----------------------------------------------------------------------------
// Run (exit codes)
// -----------------------------------------------------------------------------

// TestRun_ExitCodes verifies outcomes map to statuses and output streams.
func TestRun_ExitCodes(t *testing.T) {
	t.Parallel()

	run := func(argv []string, env map[string]string, script Script) (int, string, string) {
		var stdout, stderr bytes.Buffer
		code := Run(context.Background(), argv, env, script,
			WithRoot(t.TempDir()), WithStdout(&stdout), WithStderr(&stderr))
		return code, stdout.String(), stderr.String()
	}

	code, stdout, _ := run([]string{"bin/example.go", "--help"}, nil, &recordingScript{})
	assert.Equal(t, 0, code)
	assert.Equal(t, DefaultUsage("example.go")+"\n", stdout)

	code, stdout, _ = run([]string{"prog"}, map[string]string{"REQUEST_METHOD": "POST"}, &recordingScript{})
	assert.Equal(t, 1, code)
	assert.Equal(t, ContextViolationMessage+"\n", stdout)

	code, _, stderr := run([]string{"prog"}, nil, &BrokenScript{})
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "Error: "))
	assert.Contains(t, stderr, "missingService")

	code, _, _ = run([]string{"prog"}, nil, &recordingScript{runErr: exitErr{code: 3}})
	assert.Equal(t, 3, code)

	code, _, stderr = run([]string{"prog"}, map[string]string{"SHELL_COLOR": "never"}, &recordingScript{})
	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
}

//
// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

// TestScriptName verifies names drop pointers and packages.
func TestScriptName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ProductAudit", ScriptName(&ProductAudit{}))
	assert.Equal(t, "recordingScript", ScriptName(recordingScript{}))
	assert.Equal(t, "shell", ScriptName(nil))
	assert.Equal(t, "shell", ScriptName(func() {}))
}

// TestState_String verifies printable state names.
func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "constructed", Constructed.String())
	assert.Equal(t, "dependencies-resolved", DependenciesResolved.String())
	assert.Equal(t, "terminal", Terminal.String())
	assert.Equal(t, "unknown", State(99).String())
	assert.Equal(t, "unknown", State(-1).String())
}

// TestState_Documented verifies every exported identifier in state.go carries a doc comment.
func TestState_Documented(t *testing.T) {
	t.Parallel()

	assert.Empty(t, undocumentedExports(t, "state.go"))
}

// undocumentedExports lists exported declarations of file without a doc comment.
// Grouped constants and variables need their own comment.
func undocumentedExports(t *testing.T, file string) []string {
	t.Helper()
	f, err := parser.ParseFile(token.NewFileSet(), file, nil, parser.ParseComments)
	require.NoError(t, err)

	var out []string
	for _, decl := range f.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			if d.Name.IsExported() && d.Doc == nil {
				out = append(out, d.Name.Name)
			}
		case *ast.GenDecl:
			grouped := d.Lparen.IsValid()
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					if s.Name.IsExported() && s.Doc == nil && (grouped || d.Doc == nil) {
						out = append(out, s.Name.Name)
					}
				case *ast.ValueSpec:
					for _, n := range s.Names {
						if n.IsExported() && s.Doc == nil && (grouped || d.Doc == nil) {
							out = append(out, n.Name)
						}
					}
				}
			}
		}
	}
	return out
}
