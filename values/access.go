package values

import (
	"fmt"
	"math"
	"reflect"
	"sort"
)

// MemberResolvable is implemented by host objects that expose named
// members to templates. Lookups are exact and case-sensitive.
type MemberResolvable interface {
	GetMember(name string) (Value, bool)
}

// Enumerable is implemented by host objects a for loop can iterate.
type Enumerable interface {
	Items() []Value
}

// Map exposes a string-keyed map as an object.
type Map map[string]any

// GetMember implements MemberResolvable.
func (m Map) GetMember(name string) (Value, bool) {
	v, ok := m[name]
	if !ok {
		return Nil, false
	}
	return FromGo(v), true
}

// Items yields [key, value] pairs ordered by key.
func (m Map) Items() []Value {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]Value, len(keys))
	for i, k := range keys {
		items[i] = Array(String(k), FromGo(m[k]))
	}
	return items
}

func (m Map) String() string {
	return fmt.Sprint(map[string]any(m))
}

// MemberFunc adapts a lookup function to MemberResolvable.
type MemberFunc func(name string) (Value, bool)

// GetMember implements MemberResolvable.
func (f MemberFunc) GetMember(name string) (Value, bool) {
	return f(name)
}

// Struct exposes the exported fields and zero-argument methods of a Go
// struct (or pointer to one) by their exact Go names. Methods may return
// a single value, or a value and an error; a non-nil error resolves to
// nil.
func Struct(v any) MemberResolvable {
	return structMembers{rv: reflect.ValueOf(v)}
}

type structMembers struct {
	rv reflect.Value
}

func (s structMembers) GetMember(name string) (Value, bool) {
	if !s.rv.IsValid() {
		return Nil, false
	}

	if m := s.rv.MethodByName(name); m.IsValid() {
		if v, ok := callAccessor(m); ok {
			return v, true
		}
	}

	rv := s.rv
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return Nil, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Nil, false
	}

	field, ok := rv.Type().FieldByName(name)
	if !ok || !field.IsExported() {
		return Nil, false
	}
	return FromGo(rv.FieldByIndex(field.Index).Interface()), true
}

func (s structMembers) String() string {
	if !s.rv.IsValid() {
		return ""
	}
	if str, ok := s.rv.Interface().(fmt.Stringer); ok {
		return str.String()
	}
	return fmt.Sprint(s.rv.Interface())
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func callAccessor(m reflect.Value) (Value, bool) {
	t := m.Type()
	if t.NumIn() != 0 {
		return Nil, false
	}
	switch t.NumOut() {
	case 1:
		return FromGo(m.Call(nil)[0].Interface()), true
	case 2:
		if !t.Out(1).Implements(errorType) {
			return Nil, false
		}
		out := m.Call(nil)
		if !out[1].IsNil() {
			return Nil, true
		}
		return FromGo(out[0].Interface()), true
	default:
		return Nil, false
	}
}

// Member resolves name on v. Objects delegate to MemberResolvable;
// arrays and strings answer size, first and last. Anything else is nil.
func Member(v Value, name string) Value {
	switch val := v.(type) {
	case ObjectValue:
		if r, ok := val.Host.(MemberResolvable); ok {
			if m, ok := r.GetMember(name); ok && m != nil {
				return m
			}
		}
		if name == "size" {
			if e, ok := val.Host.(Enumerable); ok {
				return Number(float64(len(e.Items())))
			}
		}
	case ArrayValue:
		switch name {
		case "size":
			return Number(float64(len(val)))
		case "first":
			if len(val) > 0 {
				return val[0]
			}
		case "last":
			if len(val) > 0 {
				return val[len(val)-1]
			}
		}
	case StringValue:
		runes := []rune(string(val))
		switch name {
		case "size":
			return Number(float64(len(runes)))
		case "first":
			if len(runes) > 0 {
				return String(string(runes[0]))
			}
		case "last":
			if len(runes) > 0 {
				return String(string(runes[len(runes)-1]))
			}
		}
	}
	return Nil
}

// Index returns the element of v at i. Strings yield the character at a
// zero-based position and arrays their element; out-of-range positions
// yield nil. Objects are indexed by member name.
func Index(v Value, i Value) Value {
	switch val := v.(type) {
	case StringValue:
		pos, ok := position(i)
		if !ok {
			return Nil
		}
		runes := []rune(string(val))
		if pos < 0 || pos >= len(runes) {
			return Nil
		}
		return String(string(runes[pos]))
	case ArrayValue:
		pos, ok := position(i)
		if !ok || pos < 0 || pos >= len(val) {
			return Nil
		}
		return val[pos]
	case ObjectValue:
		return Member(v, ToString(i))
	}
	return Nil
}

func position(i Value) (int, bool) {
	f := ToNumber(i)
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Iterate returns the items a for loop visits over v. Arrays yield their
// elements and Enumerable objects their items; anything else is not
// iterable.
func Iterate(v Value) ([]Value, bool) {
	switch val := v.(type) {
	case ArrayValue:
		return val, true
	case ObjectValue:
		if e, ok := val.Host.(Enumerable); ok {
			return e.Items(), true
		}
	}
	return nil, false
}
