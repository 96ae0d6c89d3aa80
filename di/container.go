package di

import (
	"fmt"
	"reflect"
)

// Args are named constructor arguments passed to Create.
type Args map[string]any

// String returns args[key] when it is a string, or def.
func (a Args) String(key, def string) string {
	if v, ok := a[key].(string); ok {
		return v
	}
	return def
}

// Locator is the host application's service container as the shell sees it.
//
// Get returns the shared instance of a type, Create a fresh one. Both fail
// when the type is unknown.
type Locator interface {
	Get(id TypeID) (any, error)
	Create(id TypeID, args Args) (any, error)
}

// Factory builds one instance. args is nil for Get.
type Factory func(l Locator, args Args) (any, error)

// Container is a small in-memory Locator.
//
// It is not safe for concurrent use. A shell run touches it from one goroutine.
type Container struct {
	factories map[TypeID]Factory
	shared    map[TypeID]any
	building  []TypeID
}

// NewContainer returns an empty Container.
func NewContainer() *Container {
	return &Container{
		factories: map[TypeID]Factory{},
		shared:    map[TypeID]any{},
	}
}

// Provide registers the factory for id.
func (c *Container) Provide(id TypeID, f Factory) error {
	if id.untyped() {
		return UntypedDependencyError{Index: -1}
	}
	if f == nil {
		return ErrNilFactory
	}
	if _, exists := c.factories[id]; exists {
		return DuplicateProviderError{Type: id}
	}
	c.factories[id] = f
	return nil
}

// Instance registers an already built shared value for id.
func (c *Container) Instance(id TypeID, v any) error {
	if err := c.Provide(id, func(Locator, Args) (any, error) { return v, nil }); err != nil {
		return err
	}
	c.shared[id] = v
	return nil
}

// Has reports whether id can be resolved.
func (c *Container) Has(id TypeID) bool {
	_, ok := c.factories[id]
	return ok
}

// Types returns the registered identifiers. Order is unspecified.
func (c *Container) Types() []TypeID {
	out := make([]TypeID, 0, len(c.factories))
	for id := range c.factories {
		out = append(out, id)
	}
	return out
}

// Get implements Locator. The first successful build is cached and returned
// on every later call.
func (c *Container) Get(id TypeID) (any, error) {
	if v, ok := c.shared[id]; ok {
		return v, nil
	}
	f, ok := c.factories[id]
	if !ok {
		return nil, NotRegisteredError{Type: id}
	}
	if err := c.enter(id); err != nil {
		return nil, err
	}
	defer c.leave()

	v, err := c.build(f, nil)
	if err != nil {
		return nil, err
	}
	c.shared[id] = v
	return v, nil
}

// Create implements Locator. Nothing is cached.
func (c *Container) Create(id TypeID, args Args) (any, error) {
	f, ok := c.factories[id]
	if !ok {
		return nil, NotRegisteredError{Type: id}
	}
	if err := c.enter(id); err != nil {
		return nil, err
	}
	defer c.leave()

	return c.build(f, args)
}

// enter pushes id on the build stack, failing when id is already being built.
func (c *Container) enter(id TypeID) error {
	for i, b := range c.building {
		if b == id {
			path := append(append([]TypeID{}, c.building[i:]...), id)
			return CycleError{Path: path}
		}
	}
	c.building = append(c.building, id)
	return nil
}

func (c *Container) leave() { c.building = c.building[:len(c.building)-1] }

// build runs f and converts panics into errors.
func (c *Container) build(f Factory, args Args) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = fmt.Errorf("%w: %v", ErrProviderPanic, rec)
		}
	}()
	return f(c, args)
}

// Provide registers a typed factory for T.
func Provide[T any](c *Container, f func(l Locator, args Args) (T, error)) error {
	if f == nil {
		return ErrNilFactory
	}
	return c.Provide(TypeOf[T](), func(l Locator, args Args) (any, error) {
		return f(l, args)
	})
}

// ProvideValue registers v as the shared instance of T.
func ProvideValue[T any](c *Container, v T) error {
	return c.Instance(TypeOf[T](), v)
}

// Get returns the shared instance of T from l.
func Get[T any](l Locator) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrNilLocator
	}
	raw, err := l.Get(TypeOf[T]())
	if err != nil {
		return zero, err
	}
	return cast[T](raw, -1)
}

// Create returns a fresh instance of T from l.
func Create[T any](l Locator, args Args) (T, error) {
	var zero T
	if l == nil {
		return zero, ErrNilLocator
	}
	raw, err := l.Create(TypeOf[T](), args)
	if err != nil {
		return zero, err
	}
	return cast[T](raw, -1)
}

// MustGet is Get that panics on error. Meant for tests and examples.
func MustGet[T any](l Locator) T {
	v, err := Get[T](l)
	if err != nil {
		panic(err)
	}
	return v
}

func cast[T any](raw any, index int) (T, error) {
	v, ok := raw.(T)
	if !ok {
		got := "<nil>"
		if raw != nil {
			got = reflect.TypeOf(raw).String()
		}
		return v, WrongTypeDependencyError{Index: index, Want: TypeOf[T](), GotType: got}
	}
	return v, nil
}
