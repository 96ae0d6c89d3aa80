package shell

import (
	"context"
	"io"
	"os"

	"github.com/j-stam/goshell/di"
	"github.com/j-stam/goshell/hostapp"
)

// Option configures a Shell.
type Option func(*options)

type options struct {
	root      string
	stdout    io.Writer
	stderr    io.Writer
	services  []func(*di.Container) error
	bootstrap func(ctx context.Context, root string, env map[string]string, opts ...hostapp.Option) (*hostapp.App, error)
}

func defaultOptions() options {
	return options{
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		bootstrap: hostapp.Bootstrap,
	}
}

// WithRoot sets the application root. Without it SHELL_ROOT or the working
// directory is used.
func WithRoot(root string) Option {
	return func(o *options) { o.root = root }
}

// WithStdout redirects usage text and console output.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr redirects error reports written by Run and Main.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithServices registers script-specific services after bootstrap, before
// dependencies are resolved.
func WithServices(register func(c *di.Container) error) Option {
	return func(o *options) {
		if register != nil {
			o.services = append(o.services, register)
		}
	}
}
