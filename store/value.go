package store

import (
	"bytes"
	"fmt"
	"math"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Value is a field value stored in a document.
//
// The set of implementations is closed: [Null], [Bool], [Int], [Float],
// [String], [Bytes], [Array], [Map], and the [Transform] sentinels
// ([Increment], [ArrayUnion], [ArrayRemove]). Transforms are only valid
// inside write payloads and are never stored.
type Value interface {
	isValue()
}

// Null is the null value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is a signed 64-bit integer value.
type Int int64

// Float is a 64-bit floating point value.
type Float float64

// String is a string value.
type String string

// Bytes is a binary value.
type Bytes []byte

// Array is an ordered sequence of values.
type Array []Value

// Map is a mapping from field name to value. Documents are Maps.
type Map map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Bytes) isValue()  {}
func (Array) isValue()  {}
func (Map) isValue()    {}

// ValueOf converts a Go value into a Value.
//
// Go natives (bool, string, integers, floats, []byte, []any, map[string]any,
// nil) convert directly. Anything else, such as structs or typed slices and
// maps, goes through the DynamoDB attribute value marshaler, so `dynamodbav`
// struct tags apply.
func ValueOf(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case int:
		return Int(v), nil
	case int8:
		return Int(v), nil
	case int16:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case uint:
		return uintValue(uint64(v))
	case uint8:
		return Int(v), nil
	case uint16:
		return Int(v), nil
	case uint32:
		return Int(v), nil
	case uint64:
		return uintValue(v)
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case []byte:
		return Bytes(bytes.Clone(v)), nil
	case []any:
		arr := make(Array, len(v))
		for i, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case map[string]any:
		m := make(Map, len(v))
		for k, e := range v {
			ev, err := ValueOf(e)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			m[k] = ev
		}
		return m, nil
	}

	av, err := attributevalue.Marshal(x)
	if err != nil {
		return nil, fmt.Errorf("%w: %T: %v", ErrUnsupportedType, x, err)
	}
	return FromAttributeValue(av)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrInvalidValue, u)
	}
	return Int(u), nil
}

// MapOf converts a Go value into a Map. It accepts the same inputs as
// [ValueOf] but fails unless the result is a mapping.
func MapOf(x any) (Map, error) {
	v, err := ValueOf(x)
	if err != nil {
		return nil, err
	}
	m, ok := v.(Map)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a mapping", ErrUnsupportedType, x)
	}
	return m, nil
}

// Interface returns the plain Go representation of v: nil, bool, int64,
// float64, string, []byte, []any or map[string]any. Transforms are returned
// unchanged.
func Interface(v Value) any {
	switch v := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(v)
	case Int:
		return int64(v)
	case Float:
		return float64(v)
	case String:
		return string(v)
	case Bytes:
		return bytes.Clone(v)
	case Array:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = Interface(e)
		}
		return out
	case Map:
		return v.Interface()
	default:
		return v
	}
}

// Interface returns m as a map[string]any.
func (m Map) Interface() map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Interface(v)
	}
	return out
}

// Equal reports whether a and b hold the same data.
// Numbers compare by numeric value, so Int(1) equals Float(1).
func Equal(a, b Value) bool {
	if an, ok := number(a); ok {
		bn, ok := number(b)
		if !ok {
			return false
		}
		ai, aInt := an.(Int)
		bi, bInt := bn.(Int)
		if aInt && bInt {
			return ai == bi
		}
		return toFloat(an) == toFloat(bn)
	}

	switch a := a.(type) {
	case nil, Null:
		switch b.(type) {
		case nil, Null:
			return true
		}
		return false
	case Bool:
		b, ok := b.(Bool)
		return ok && a == b
	case String:
		b, ok := b.(String)
		return ok && a == b
	case Bytes:
		b, ok := b.(Bytes)
		return ok && bytes.Equal(a, b)
	case Array:
		b, ok := b.(Array)
		return ok && equalArrays(a, b)
	case Map:
		b, ok := b.(Map)
		if !ok || len(a) != len(b) {
			return false
		}
		for k, av := range a {
			bv, ok := b[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case Increment:
		b, ok := b.(Increment)
		return ok && Equal(a.Delta, b.Delta)
	case ArrayUnion:
		b, ok := b.(ArrayUnion)
		return ok && equalArrays(a.Elements, b.Elements)
	case ArrayRemove:
		b, ok := b.(ArrayRemove)
		return ok && equalArrays(a.Elements, b.Elements)
	}
	return false
}

func equalArrays(a, b Array) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// number returns v if it is an Int or a Float.
func number(v Value) (Value, bool) {
	switch v.(type) {
	case Int, Float:
		return v, true
	}
	return nil, false
}

func toFloat(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v)
	case Float:
		return float64(v)
	}
	return 0
}
