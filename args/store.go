package args

import (
	"sort"
	"strconv"
)

// Value is a parsed option: either the bare flag marker or a literal string.
type Value struct {
	text  string
	isSet bool
}

// Flag returns the marker stored for a flag seen without a value.
func Flag() Value { return Value{} }

// Literal returns a Value holding s.
func Literal(s string) Value { return Value{text: s, isSet: true} }

// IsFlag reports whether v is the bare flag marker.
func (v Value) IsFlag() bool { return !v.isSet }

// Text returns the literal value, or "" for a bare flag.
func (v Value) Text() string { return v.text }

// Any returns true for a bare flag and the string otherwise.
func (v Value) Any() any {
	if v.IsFlag() {
		return true
	}
	return v.text
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.IsFlag() {
		return "true"
	}
	return strconv.Quote(v.text)
}

// Store holds parsed options keyed by name (without leading dashes).
//
// A Store is filled once by Parse and only read afterwards.
type Store struct {
	values map[string]Value
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]Value)}
}

func (s *Store) set(name string, v Value) {
	if s.values == nil {
		s.values = make(map[string]Value)
	}
	s.values[name] = v
}

// Lookup returns the value for name and whether it was present.
func (s *Store) Lookup(name string) (Value, bool) {
	if s == nil || s.values == nil {
		return Value{}, false
	}
	v, ok := s.values[name]
	return v, ok
}

// Has reports whether name was given on the command line, with or without a value.
func (s *Store) Has(name string) bool {
	_, ok := s.Lookup(name)
	return ok
}

// Arg returns true for a bare flag, the string for a valued option, or def
// when name is absent.
func (s *Store) Arg(name string, def any) any {
	v, ok := s.Lookup(name)
	if !ok {
		return def
	}
	return v.Any()
}

// StringOr returns the literal value of name. Bare flags and absent names
// yield def.
func (s *Store) StringOr(name, def string) string {
	v, ok := s.Lookup(name)
	if !ok || v.IsFlag() {
		return def
	}
	return v.text
}

// Len returns the number of distinct option names.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Names returns the option names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.values))
	for k := range s.values {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the options with values converted by Value.Any.
func (s *Store) Map() map[string]any {
	out := make(map[string]any, s.Len())
	if s == nil {
		return out
	}
	for k, v := range s.values {
		out[k] = v.Any()
	}
	return out
}

// HelpRequested reports whether h or help was given.
func (s *Store) HelpRequested() bool {
	return s.Has("h") || s.Has("help")
}
