package di

import (
	"errors"
	"reflect"
)

// Initializer is the optional resolution hook a script implements.
//
// Dependencies lists the wanted types in the order Inject receives them.
type Initializer interface {
	Dependencies() []TypeID
	Inject(deps Resolved) error
}

// validator is implemented by hooks that can be malformed before resolution starts.
type validator interface {
	validate() error
}

// Resolved is the ordered list of instances handed to Inject.
type Resolved struct {
	types  []TypeID
	values []any
}

// Len returns the number of resolved instances.
func (r Resolved) Len() int { return len(r.values) }

// At returns the instance at i, or nil when i is out of range.
func (r Resolved) At(i int) any {
	if i < 0 || i >= len(r.values) {
		return nil
	}
	return r.values[i]
}

// Type returns the declared type at i.
func (r Resolved) Type(i int) TypeID {
	if i < 0 || i >= len(r.types) {
		return TypeID{}
	}
	return r.types[i]
}

// Values returns a copy of the instances in declaration order.
func (r Resolved) Values() []any {
	return append([]any(nil), r.values...)
}

// As returns the instance at i typed as T.
//
// It returns MissingDependencyError for an index outside the list and
// WrongTypeDependencyError when the instance is not a T.
func As[T any](r Resolved, i int) (T, error) {
	if i < 0 || i >= len(r.values) {
		var zero T
		return zero, MissingDependencyError{Index: i}
	}
	return cast[T](r.values[i], i)
}

// Resolve asks l for every type hook declares, in order.
//
// The first failure stops resolution: nothing after it is requested.
func Resolve(l Locator, hook Initializer) (Resolved, error) {
	if l == nil {
		return Resolved{}, ErrNilLocator
	}
	if v, ok := hook.(validator); ok {
		if err := v.validate(); err != nil {
			return Resolved{}, err
		}
	}

	types := hook.Dependencies()
	out := Resolved{
		types:  append([]TypeID(nil), types...),
		values: make([]any, 0, len(types)),
	}
	for i, id := range types {
		if id.untyped() {
			return Resolved{}, UntypedDependencyError{Index: i}
		}
		v, err := l.Get(id)
		if err != nil {
			return Resolved{}, UnresolvedDependencyError{Index: i, Type: id, Err: err}
		}
		if v == nil {
			return Resolved{}, UnresolvedDependencyError{Index: i, Type: id, Err: errors.New("di: locator returned nil")}
		}
		if got := reflect.TypeOf(v); !got.AssignableTo(id.Reflect()) {
			return Resolved{}, UnresolvedDependencyError{
				Index: i,
				Type:  id,
				Err:   WrongTypeDependencyError{Index: i, Want: id, GotType: got.String()},
			}
		}
		out.values = append(out.values, v)
	}
	return out, nil
}

// Invoke runs the resolution hook of target, if it has one.
//
// A target that is not an Initializer is left alone and Invoke returns nil.
// A nil pointer Initializer gives ErrNilTarget. Otherwise every dependency is
// resolved first and Inject is called once.
func Invoke(l Locator, target any) error {
	hook, ok := target.(Initializer)
	if !ok {
		return nil
	}
	if rv := reflect.ValueOf(target); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ErrNilTarget
	}
	deps, err := Resolve(l, hook)
	if err != nil {
		return err
	}
	return hook.Inject(deps)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// funcHook adapts a plain function to Initializer.
type funcHook struct {
	fn reflect.Value
}

// Func turns fn into an Initializer whose dependencies are fn's parameter
// types. fn may return nothing or a single error.
//
//	di.Func(func(repo *hostapp.ProductRepository, log *zap.Logger) { ... })
//
// A parameter of type any has no declared type and fails resolution.
func Func(fn any) Initializer {
	return funcHook{fn: reflect.ValueOf(fn)}
}

func (h funcHook) validate() error {
	if !h.fn.IsValid() || h.fn.Kind() != reflect.Func || h.fn.IsNil() {
		return ErrNotAFunc
	}
	t := h.fn.Type()
	if t.IsVariadic() {
		return ErrNotAFunc
	}
	switch t.NumOut() {
	case 0:
	case 1:
		if t.Out(0) != errorType {
			return ErrNotAFunc
		}
	default:
		return ErrNotAFunc
	}
	return nil
}

// Dependencies implements Initializer.
func (h funcHook) Dependencies() []TypeID {
	if h.validate() != nil {
		return nil
	}
	t := h.fn.Type()
	out := make([]TypeID, t.NumIn())
	for i := range out {
		out[i] = TypeFor(t.In(i))
	}
	return out
}

// Inject implements Initializer.
func (h funcHook) Inject(deps Resolved) error {
	if err := h.validate(); err != nil {
		return err
	}
	t := h.fn.Type()
	if deps.Len() != t.NumIn() {
		return MissingDependencyError{Index: deps.Len()}
	}
	in := make([]reflect.Value, t.NumIn())
	for i := range in {
		in[i] = reflect.ValueOf(deps.At(i))
	}
	out := h.fn.Call(in)
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}
	return nil
}
