package values

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the invariant numeric text accepted by ToNumber:
// an optional sign, digits with an optional fraction, and an optional
// exponent.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// ToString renders v as text. It never fails.
func ToString(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return ""
	case BooleanValue:
		if val {
			return "true"
		}
		return "false"
	case NumberValue:
		return FormatNumber(float64(val))
	case StringValue:
		return string(val)
	case ArrayValue:
		var b strings.Builder
		for _, item := range val {
			b.WriteString(ToString(item))
		}
		return b.String()
	case ObjectValue:
		if s, ok := val.Host.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(val.Host)
	default:
		return ""
	}
}

// FormatNumber writes f with the fewest digits that round-trip, without
// an exponent or digit grouping. Integral values carry no fraction and
// negative zero prints as "0".
func FormatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// ToNumber coerces v to a float64. Text that is not a number, nil, arrays
// and objects all yield 0.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case NumberValue:
		return float64(val)
	case BooleanValue:
		if val {
			return 1
		}
		return 0
	case StringValue:
		f, ok := ParseNumber(string(val))
		if !ok {
			return 0
		}
		return f
	default:
		return 0
	}
}

// ParseNumber parses s using invariant formatting. Surrounding whitespace
// is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToBoolean reports the truthiness of v: only nil and false are falsy.
func ToBoolean(v Value) bool {
	switch val := v.(type) {
	case nil, NilValue:
		return false
	case BooleanValue:
		return bool(val)
	default:
		return true
	}
}

// Inspect returns a debugging representation of v. Strings are quoted.
func Inspect(v Value) string {
	switch val := v.(type) {
	case nil, NilValue:
		return "nil"
	case StringValue:
		return strconv.Quote(string(val))
	case ArrayValue:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = Inspect(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ObjectValue:
		return fmt.Sprintf("object(%T)", val.Host)
	default:
		return ToString(v)
	}
}

// FromGo converts a host value into a Value. Scalars, slices, arrays and
// string-keyed maps are converted; everything else is wrapped as an
// object. Structs are not reflected automatically; wrap them with
// [Struct] to expose their fields.
func FromGo(v any) Value {
	switch val := v.(type) {
	case nil:
		return Nil
	case Value:
		return val
	case bool:
		return Boolean(val)
	case string:
		return String(val)
	case []byte:
		return String(string(val))
	case []Value:
		return Array(val...)
	case []any:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = FromGo(item)
		}
		return Array(items...)
	case []string:
		items := make([]Value, len(val))
		for i, item := range val {
			items[i] = String(item)
		}
		return Array(items...)
	case map[string]any:
		return Object(Map(val))
	case MemberResolvable:
		return Object(val)
	}

	if f, ok := toFloat(v); ok {
		return Number(f)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nil
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Array()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = FromGo(rv.Index(i).Interface())
		}
		return Array(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			m := make(Map, rv.Len())
			iter := rv.MapRange()
			for iter.Next() {
				m[iter.Key().String()] = iter.Value().Interface()
			}
			return Object(m)
		}
	}
	return Object(v)
}

// toFloat classifies the Go numeric kinds.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uintptr:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// ToGo converts v back into plain host data: nil, bool, float64, string,
// []any, or the wrapped host value.
func ToGo(v Value) any {
	switch val := v.(type) {
	case nil, NilValue:
		return nil
	case BooleanValue:
		return bool(val)
	case NumberValue:
		return float64(val)
	case StringValue:
		return string(val)
	case ArrayValue:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToGo(item)
		}
		return out
	case ObjectValue:
		return val.Host
	default:
		return nil
	}
}
