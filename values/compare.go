package values

import (
	"reflect"
	"strings"
)

// Equaler lets host objects define their own equality.
type Equaler interface {
	Equal(other any) bool
}

// Equal reports structural equality. Values of different kinds are never
// equal. Objects defer to the host: Equaler when implemented, otherwise
// == for comparable hosts.
func Equal(a, b Value) bool {
	if IsNil(a) || IsNil(b) {
		return IsNil(a) && IsNil(b)
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case BooleanValue:
		return av == b.(BooleanValue)
	case NumberValue:
		return av == b.(NumberValue)
	case StringValue:
		return av == b.(StringValue)
	case ArrayValue:
		bv := b.(ArrayValue)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case ObjectValue:
		bv := b.(ObjectValue)
		if eq, ok := av.Host.(Equaler); ok {
			return eq.Equal(bv.Host)
		}
		return hostEqual(av.Host, bv.Host)
	}
	return false
}

// hostEqual compares two host values with ==. A comparable type can still
// hold an uncomparable dynamic value in an interface field, and == panics
// on it; such values are unequal.
func hostEqual(a, b any) (eq bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta == nil || ta != tb || !ta.Comparable() {
		return false
	}
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

// Compare orders two numbers or two strings. ok is false for any other
// pairing.
func Compare(a, b Value) (result int, ok bool) {
	switch av := a.(type) {
	case NumberValue:
		bv, isNum := b.(NumberValue)
		if !isNum {
			return 0, false
		}
		switch {
		case av < bv:
			return -1, true
		case av > bv:
			return 1, true
		default:
			return 0, true
		}
	case StringValue:
		bv, isStr := b.(StringValue)
		if !isStr {
			return 0, false
		}
		return strings.Compare(string(av), string(bv)), true
	}
	return 0, false
}

// Contains reports whether haystack holds needle: a substring for
// strings, an equal element for arrays, a member name for objects.
func Contains(haystack, needle Value) bool {
	switch h := haystack.(type) {
	case StringValue:
		return strings.Contains(string(h), ToString(needle))
	case ArrayValue:
		for _, item := range h {
			if Equal(item, needle) {
				return true
			}
		}
	case ObjectValue:
		if r, ok := h.Host.(MemberResolvable); ok {
			_, found := r.GetMember(ToString(needle))
			return found
		}
	}
	return false
}

// IsEmpty reports whether v is nil, an empty string or an empty array.
func IsEmpty(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return true
	case StringValue:
		return val == ""
	case ArrayValue:
		return len(val) == 0
	}
	return false
}
