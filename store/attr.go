package store

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ParseNumber parses a DynamoDB number string. Integral strings become an
// Int, everything else that parses becomes a Float.
func ParseNumber(s string) (Value, error) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q", ErrInvalidValue, s)
	}
	return Float(f), nil
}

// FromAttributeValue converts a DynamoDB attribute value into a Value.
// String, number and binary sets become Arrays.
func FromAttributeValue(av types.AttributeValue) (Value, error) {
	switch v := av.(type) {
	case nil:
		return Null{}, nil
	case *types.AttributeValueMemberS:
		return String(v.Value), nil
	case *types.AttributeValueMemberN:
		return ParseNumber(v.Value)
	case *types.AttributeValueMemberBOOL:
		return Bool(v.Value), nil
	case *types.AttributeValueMemberNULL:
		return Null{}, nil
	case *types.AttributeValueMemberB:
		return Bytes(bytes.Clone(v.Value)), nil
	case *types.AttributeValueMemberL:
		arr := make(Array, len(v.Value))
		for i, e := range v.Value {
			ev, err := FromAttributeValue(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = ev
		}
		return arr, nil
	case *types.AttributeValueMemberM:
		return FromAttributeMap(v.Value)
	case *types.AttributeValueMemberSS:
		arr := make(Array, len(v.Value))
		for i, s := range v.Value {
			arr[i] = String(s)
		}
		return arr, nil
	case *types.AttributeValueMemberNS:
		arr := make(Array, len(v.Value))
		for i, s := range v.Value {
			n, err := ParseNumber(s)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = n
		}
		return arr, nil
	case *types.AttributeValueMemberBS:
		arr := make(Array, len(v.Value))
		for i, b := range v.Value {
			arr[i] = Bytes(bytes.Clone(b))
		}
		return arr, nil
	}
	return nil, fmt.Errorf("%w: attribute %T", ErrUnsupportedType, av)
}

// FromAttributeMap converts a DynamoDB item into a Map.
func FromAttributeMap(item map[string]types.AttributeValue) (Map, error) {
	m := make(Map, len(item))
	for k, av := range item {
		v, err := FromAttributeValue(av)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		m[k] = v
	}
	return m, nil
}

// ToAttributeValue converts v into a DynamoDB attribute value.
// Transforms have no attribute representation and are rejected.
func ToAttributeValue(v Value) (types.AttributeValue, error) {
	switch v := v.(type) {
	case nil, Null:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case Bool:
		return &types.AttributeValueMemberBOOL{Value: bool(v)}, nil
	case Int:
		return &types.AttributeValueMemberN{Value: strconv.FormatInt(int64(v), 10)}, nil
	case Float:
		return &types.AttributeValueMemberN{Value: strconv.FormatFloat(float64(v), 'f', -1, 64)}, nil
	case String:
		return &types.AttributeValueMemberS{Value: string(v)}, nil
	case Bytes:
		return &types.AttributeValueMemberB{Value: bytes.Clone(v)}, nil
	case Array:
		list := make([]types.AttributeValue, len(v))
		for i, e := range v {
			av, err := ToAttributeValue(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list[i] = av
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case Map:
		item, err := ToAttributeMap(v)
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: item}, nil
	}
	return nil, fmt.Errorf("%w: %T has no attribute representation", ErrInvalidValue, v)
}

// ToAttributeMap converts m into a DynamoDB item.
func ToAttributeMap(m Map) (map[string]types.AttributeValue, error) {
	item := make(map[string]types.AttributeValue, len(m))
	for k, v := range m {
		av, err := ToAttributeValue(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		item[k] = av
	}
	return item, nil
}
