package shell

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/j-stam/goshell/config"
)

// Main runs script with the process arguments and environment and returns
// the exit status. Call it as os.Exit(shell.Main(script)).
func Main(script Script, opts ...Option) int {
	return Run(context.Background(), os.Args, config.EnvMap(os.Environ()), script, opts...)
}

// Run executes script and maps the outcome to an exit status, printing what
// the user needs to see:
//
//   - help: usage on stdout, 0
//   - web request: the fixed diagnostic on stdout, 1
//   - error implementing ExitCoder: the error on stderr, its code
//   - any other error: the error on stderr, 1
func Run(ctx context.Context, argv []string, env map[string]string, script Script, opts ...Option) int {
	sh := New(argv, env, opts...)
	return sh.exitCode(sh.Execute(ctx, script))
}

func (s *Shell) exitCode(err error) int {
	if err == nil {
		return 0
	}

	var help *HelpError
	if errors.As(err, &help) {
		_, _ = fmt.Fprintln(s.opts.stdout, help.Usage)
		return 0
	}

	var violation ContextViolationError
	if errors.As(err, &violation) {
		_, _ = fmt.Fprintln(s.opts.stdout, violation.Error())
		return 1
	}

	_, _ = fmt.Fprintln(s.opts.stderr, "Error:", err)

	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
