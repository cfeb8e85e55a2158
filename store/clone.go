package store

import "bytes"

// Clone returns a deep copy of v. Scalars are returned as is; maps, arrays,
// byte slices and array transforms are copied recursively. A nil Value
// clones to Null.
func Clone(v Value) Value {
	switch v := v.(type) {
	case nil:
		return Null{}
	case Map:
		return v.Clone()
	case Array:
		return v.Clone()
	case Bytes:
		return Bytes(bytes.Clone(v))
	case ArrayUnion:
		return ArrayUnion{Elements: v.Elements.Clone()}
	case ArrayRemove:
		return ArrayRemove{Elements: v.Elements.Clone()}
	default:
		return v
	}
}

// Clone returns a deep copy of m. The copy of a nil Map is an empty Map.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = Clone(v)
	}
	return out
}

// Clone returns a deep copy of a.
func (a Array) Clone() Array {
	if a == nil {
		return nil
	}
	out := make(Array, len(a))
	for i, v := range a {
		out[i] = Clone(v)
	}
	return out
}
