package store

import (
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

// Snapshot is a copy of a document taken by [DocumentRef.Get].
type Snapshot struct {
	// Ref is the reference the snapshot was read through.
	Ref *DocumentRef

	// Exists is false when no document was stored at Ref.
	Exists bool

	data Map
}

// ID returns the document id.
func (s *Snapshot) ID() string {
	return s.Ref.ID
}

// Data returns a copy of the document's fields. It is empty when the
// document doesn't exist.
func (s *Snapshot) Data() Map {
	return s.data.Clone()
}

// DataAt returns a copy of the value at a dot-separated field path such as
// "address.city". It fails with ErrNotFound if any step is missing.
func (s *Snapshot) DataAt(fieldPath string) (Value, error) {
	var cur Value = s.data
	for _, name := range strings.Split(fieldPath, ".") {
		m, ok := cur.(Map)
		if !ok {
			return nil, fmt.Errorf("field %q of %s: %w", fieldPath, s.Ref.Path, ErrNotFound)
		}
		if cur, ok = m[name]; !ok {
			return nil, fmt.Errorf("field %q of %s: %w", fieldPath, s.Ref.Path, ErrNotFound)
		}
	}
	return Clone(cur), nil
}

// DataTo decodes the document's fields into out, which must be a pointer,
// using the DynamoDB attribute value decoder (`dynamodbav` struct tags).
func (s *Snapshot) DataTo(out any) error {
	if !s.Exists {
		return fmt.Errorf("decode %s: %w", s.Ref.Path, ErrNotFound)
	}
	item, err := ToAttributeMap(s.data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", s.Ref.Path, err)
	}
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return fmt.Errorf("decode %s: %w", s.Ref.Path, err)
	}
	return nil
}
