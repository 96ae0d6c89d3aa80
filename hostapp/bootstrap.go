package hostapp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/j-stam/goshell/config"
	"github.com/j-stam/goshell/console"
	"github.com/j-stam/goshell/di"
	"github.com/j-stam/goshell/fileio"
	"github.com/j-stam/goshell/logging"
	"github.com/j-stam/goshell/store"
)

// App is a bootstrapped host application.
type App struct {
	cfg       config.Config
	container *di.Container
	closers   []io.Closer
}

// Option customises Bootstrap.
type Option func(*options)

type options struct {
	stdout io.Writer
}

// WithStdout sets the stream the console service writes to.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// Bootstrap loads the configuration for root and registers the core services.
//
// Services are built lazily: nothing touches the database until a caller asks
// for a *store.Connection.
func Bootstrap(ctx context.Context, root string, env map[string]string, opts ...Option) (*App, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	o := options{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load(root, env)
	if err != nil {
		return nil, fmt.Errorf("hostapp: bootstrap: %w", err)
	}

	app := &App{cfg: cfg, container: di.NewContainer()}
	if err := app.register(o); err != nil {
		return nil, fmt.Errorf("hostapp: bootstrap: %w", err)
	}
	return app, nil
}

func (a *App) register(o options) error {
	c := a.container
	cfg := a.cfg

	return errors.Join(
		di.ProvideValue(c, &a.cfg),
		di.ProvideValue(c, &State{}),
		di.ProvideValue(c, NewRegistry()),
		di.ProvideValue(c, NewDirectoryList(cfg.Root)),

		di.Provide(c, func(di.Locator, di.Args) (*store.Connection, error) {
			conn, err := store.Open(cfg.StorePath(), cfg.StoreTimeout())
			if err != nil {
				return nil, err
			}
			a.closers = append(a.closers, conn)
			return conn, nil
		}),

		di.Provide(c, func(l di.Locator, _ di.Args) (*ProductRepository, error) {
			conn, err := di.Get[*store.Connection](l)
			if err != nil {
				return nil, err
			}
			reg, err := di.Get[*Registry](l)
			if err != nil {
				return nil, err
			}
			return NewProductRepository(conn, reg), nil
		}),

		di.Provide(c, func(di.Locator, di.Args) (*fileio.IO, error) {
			return fileio.New(), nil
		}),

		di.Provide(c, func(di.Locator, di.Args) (*console.Output, error) {
			v, err := console.ParseVerbosity(cfg.Console.Verbosity)
			if err != nil {
				return nil, err
			}
			return console.New(o.stdout, v, console.ColorMode(cfg.Console.Color)), nil
		}),

		// Loggers are per script: use Create with name, filePath and fileName.
		di.Provide(c, func(_ di.Locator, args di.Args) (*logging.Logger, error) {
			return logging.New(logging.Options{
				Name:  args.String("name", ""),
				Dir:   args.String("filePath", cfg.LogDir()),
				File:  args.String("fileName", "shell.log"),
				Level: cfg.Log.Level,
			})
		}),
	)
}

// Config returns the loaded configuration.
func (a *App) Config() config.Config { return a.cfg }

// Locator returns the service container.
func (a *App) Locator() di.Locator { return a.container }

// Container returns the concrete container, for registering script-specific services.
func (a *App) Container() *di.Container { return a.container }

// Close releases resources opened by services, in reverse order of creation.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
