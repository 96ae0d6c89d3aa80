// Package goshell runs command-line scripts inside a host application.
//
// A script is a type with a Run method. shell.Main takes it through a fixed
// lifecycle: parse arguments, refuse to run inside a web request, answer help,
// bootstrap the host application, resolve the script's declared dependencies
// and finally call Run.
//
// See subpackages:
//   - args: the option grammar (--name value, -n value, bare flags)
//   - di: the service container and dependency resolution
//   - shell: the script lifecycle and exit status mapping
//   - hostapp, config, store, fileio, logging, console: the host application services
//   - cmd/shellgen: scaffolds a script with its Dependencies/Inject pair
//   - examples/*: runnable scripts
package goshell
