package di

import "reflect"

// TypeID identifies a service type in a Locator.
//
// The zero TypeID means "no declared type".
type TypeID struct {
	t reflect.Type
}

// TypeOf returns the TypeID of T.
//
// Interface types are kept as interfaces, so TypeOf[io.Writer]() and
// TypeOf[*os.File]() are different identifiers.
func TypeOf[T any]() TypeID {
	return TypeID{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeFor wraps an existing reflect.Type.
func TypeFor(t reflect.Type) TypeID { return TypeID{t: t} }

// Reflect returns the underlying reflect.Type (nil for the zero TypeID).
func (id TypeID) Reflect() reflect.Type { return id.t }

// IsZero reports whether id carries no type.
func (id TypeID) IsZero() bool { return id.t == nil }

// untyped reports whether id cannot name a concrete service: the zero TypeID
// or the empty interface.
func (id TypeID) untyped() bool {
	return id.t == nil || (id.t.Kind() == reflect.Interface && id.t.NumMethod() == 0)
}

// String returns the Go spelling of the type, e.g. "*hostapp.State".
func (id TypeID) String() string {
	if id.t == nil {
		return "<untyped>"
	}
	return id.t.String()
}
