package store

import "fmt"

// Transform is a field value computed from the value currently stored at the
// same field path. Transforms appear in write payloads only; they are resolved
// before the write is applied and never stored.
type Transform interface {
	Value
	apply(current Value) Value
}

// Increment adds Delta to the current numeric value of a field. Absent or
// non-numeric fields count as 0. The result is an Int when both sides are
// Ints and a Float otherwise.
type Increment struct {
	Delta Value
}

// IncrementInt returns an Increment by an integer delta.
func IncrementInt(n int64) Increment {
	return Increment{Delta: Int(n)}
}

// IncrementFloat returns an Increment by a fractional delta.
func IncrementFloat(f float64) Increment {
	return Increment{Delta: Float(f)}
}

// ArrayUnion appends each element not already present in the current array.
// Absent or non-array fields start from an empty array.
type ArrayUnion struct {
	Elements Array
}

// NewArrayUnion returns an ArrayUnion of elems.
func NewArrayUnion(elems ...Value) ArrayUnion {
	return ArrayUnion{Elements: elems}
}

// ArrayRemove removes every occurrence of each element from the current array.
// Absent or non-array fields become an empty array.
type ArrayRemove struct {
	Elements Array
}

// NewArrayRemove returns an ArrayRemove of elems.
func NewArrayRemove(elems ...Value) ArrayRemove {
	return ArrayRemove{Elements: elems}
}

func (Increment) isValue()   {}
func (ArrayUnion) isValue()  {}
func (ArrayRemove) isValue() {}

func (t Increment) apply(current Value) Value {
	base, ok := number(current)
	if !ok {
		base = Int(0)
	}
	bi, baseInt := base.(Int)
	di, deltaInt := t.Delta.(Int)
	if baseInt && deltaInt {
		sum := bi + di
		// int64 overflow promotes to Float instead of wrapping.
		if (di > 0 && sum < bi) || (di < 0 && sum > bi) {
			return Float(float64(bi) + float64(di))
		}
		return sum
	}
	return Float(toFloat(base) + toFloat(t.Delta))
}

func (t ArrayUnion) apply(current Value) Value {
	existing, _ := current.(Array)
	out := existing.Clone()
	if out == nil {
		out = Array{}
	}
	for _, e := range t.Elements {
		if !containsValue(out, e) {
			out = append(out, Clone(e))
		}
	}
	return out
}

func (t ArrayRemove) apply(current Value) Value {
	existing, _ := current.(Array)
	out := Array{}
	for _, e := range existing {
		if !containsValue(t.Elements, e) {
			out = append(out, Clone(e))
		}
	}
	return out
}

func containsValue(arr Array, v Value) bool {
	for _, e := range arr {
		if Equal(e, v) {
			return true
		}
	}
	return false
}

// resolveTransforms replaces every transform in payload, at any depth of
// nested maps, with its result against the value stored at the same path in
// current. payload is modified in place; current is only read.
func resolveTransforms(current, payload Map) {
	for k, v := range payload {
		switch v := v.(type) {
		case Transform:
			payload[k] = v.apply(current[k])
		case Map:
			nested, _ := current[k].(Map)
			resolveTransforms(nested, v)
		}
	}
}

// checkPayload rejects payloads that cannot be resolved: transforms nested
// in arrays and increments with a non-numeric delta.
func checkPayload(m Map) error {
	for k, v := range m {
		if err := checkValue(v, false); err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
	}
	return nil
}

func checkValue(v Value, inArray bool) error {
	switch v := v.(type) {
	case Transform:
		if inArray {
			return fmt.Errorf("%w: transform %T inside array", ErrInvalidValue, v)
		}
		switch t := v.(type) {
		case Increment:
			if _, ok := number(t.Delta); !ok {
				return fmt.Errorf("%w: increment delta %T is not a number", ErrInvalidValue, t.Delta)
			}
		case ArrayUnion:
			return checkArray(t.Elements)
		case ArrayRemove:
			return checkArray(t.Elements)
		}
	case Array:
		return checkArray(v)
	case Map:
		return checkPayload(v)
	}
	return nil
}

func checkArray(arr Array) error {
	for i, e := range arr {
		if err := checkValue(e, true); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

// mergeInto merges src into dst key by key. When both sides of a key hold
// maps the merge recurses, otherwise the src value wins. src must not be
// referenced by the caller afterwards.
func mergeInto(dst, src Map) {
	for k, v := range src {
		if sv, ok := v.(Map); ok {
			if dv, ok := dst[k].(Map); ok {
				mergeInto(dv, sv)
				continue
			}
		}
		dst[k] = v
	}
}
