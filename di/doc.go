// Package di supplies a shell script with the services it asks for.
//
// It has two halves:
//
//   - Locator: the boundary to the host application's service container.
//     Get returns a shared instance, Create a fresh one built with named args.
//     Container is the in-process implementation the bootstrap fills.
//
//   - Resolver: a script that implements Initializer lists the types it needs in
//     Dependencies. Resolve asks the Locator for each of them in order and Invoke
//     hands the positional result to Inject exactly once.
//
// There is no field tagging and no struct walking. The only reflection is
// reflect.Type as a map key and, for Func, reading a function's signature.
//
// Resolution fails fast: the first type the Locator cannot supply aborts the
// whole step with an UnresolvedDependencyError and Inject is never called.
//
// Quick example
//
//	type Export struct{ repo *hostapp.ProductRepository }
//
//	func (e *Export) Dependencies() []di.TypeID {
//		return []di.TypeID{di.TypeOf[*hostapp.ProductRepository]()}
//	}
//
//	func (e *Export) Inject(deps di.Resolved) error {
//		repo, err := di.As[*hostapp.ProductRepository](deps, 0)
//		e.repo = repo
//		return err
//	}
//
// Import
//
//	"github.com/j-stam/goshell/di"
package di
