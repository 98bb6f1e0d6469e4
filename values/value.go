// Package values defines the closed set of runtime values a template
// operates on, together with the coercions between them.
//
// Every expression evaluates to a [Value]. The set of cases is fixed:
// [NilValue], [BooleanValue], [NumberValue], [StringValue], [ArrayValue]
// and [ObjectValue]. Host data enters through [FromGo] or through one of
// the member adapters ([Map], [MemberFunc], [Struct]).
package values

import "fmt"

// Kind identifies the case of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
	KindArray
	KindObject
)

var kindNames = map[Kind]string{
	KindNil:     "nil",
	KindBoolean: "boolean",
	KindNumber:  "number",
	KindString:  "string",
	KindArray:   "array",
	KindObject:  "object",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is a runtime template value. The interface is sealed; only the
// types in this package implement it.
type Value interface {
	Kind() Kind
	sealed()
}

// NilValue is the absent value.
type NilValue struct{}

// BooleanValue is true or false.
type BooleanValue bool

// NumberValue is a double-precision number.
type NumberValue float64

// StringValue is a text value.
type StringValue string

// ArrayValue is an ordered sequence of values.
type ArrayValue []Value

// ObjectValue wraps an opaque host value. Member access goes through
// [MemberResolvable] when the host implements it.
type ObjectValue struct {
	Host any
}

func (NilValue) Kind() Kind     { return KindNil }
func (BooleanValue) Kind() Kind { return KindBoolean }
func (NumberValue) Kind() Kind  { return KindNumber }
func (StringValue) Kind() Kind  { return KindString }
func (ArrayValue) Kind() Kind   { return KindArray }
func (ObjectValue) Kind() Kind  { return KindObject }

func (NilValue) sealed()     {}
func (BooleanValue) sealed() {}
func (NumberValue) sealed()  {}
func (StringValue) sealed()  {}
func (ArrayValue) sealed()   {}
func (ObjectValue) sealed()  {}

var (
	Nil   Value = NilValue{}
	True  Value = BooleanValue(true)
	False Value = BooleanValue(false)
)

// Boolean returns the boolean value for b.
func Boolean(b bool) Value {
	if b {
		return True
	}
	return False
}

// Number returns a number value.
func Number(f float64) Value {
	return NumberValue(f)
}

// String returns a string value.
func String(s string) Value {
	return StringValue(s)
}

// Array returns an array holding items.
func Array(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return ArrayValue(items)
}

// Object wraps host. A nil host yields Nil.
func Object(host any) Value {
	if host == nil {
		return Nil
	}
	return ObjectValue{Host: host}
}

// IsNil reports whether v is absent.
func IsNil(v Value) bool {
	return v == nil || v.Kind() == KindNil
}
