// Package seed loads initial data into a docmock store, from YAML fixtures
// or from a live DynamoDB table.
package seed

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jacentio/docmock/store"
)

// CollectionsKey is the reserved fixture key holding a document's child collections.
const CollectionsKey = "__collections__"

// ErrInvalidFixture is returned when a fixture doesn't have the expected shape.
var ErrInvalidFixture = errors.New("docmock: invalid fixture")

// LoadYAML replaces the contents of s with the fixture read from r.
func LoadYAML(s *store.Store, r io.Reader) error {
	tree, err := FromYAML(r)
	if err != nil {
		return err
	}
	return s.Seed(tree)
}

// FromYAML parses a fixture of the form
//
//	users:
//	  alice:
//	    name: Alice
//	    age: 30
//	    __collections__:
//	      posts:
//	        p1: {title: Hello}
//
// YAML tags decide value types, so `1` is an Int and `1.0` a Float.
// An empty input yields an empty Tree.
func FromYAML(r io.Reader) (store.Tree, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return store.Tree{}, nil
		}
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if len(doc.Content) == 0 {
		return store.Tree{}, nil
	}
	return treeFromNode(doc.Content[0])
}

func treeFromNode(n *yaml.Node) (store.Tree, error) {
	n = resolveAlias(n)
	if isNull(n) {
		return store.Tree{}, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: line %d: collections must be a mapping", ErrInvalidFixture, n.Line)
	}

	if err := checkKeys(n); err != nil {
		return nil, err
	}
	tree := make(store.Tree, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		docsNode := resolveAlias(n.Content[i+1])
		docs := make(store.Docs)
		if !isNull(docsNode) {
			if docsNode.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("%w: line %d: collection %q must be a mapping", ErrInvalidFixture, docsNode.Line, name)
			}
			if err := checkKeys(docsNode); err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			for j := 0; j+1 < len(docsNode.Content); j += 2 {
				id := docsNode.Content[j].Value
				doc, err := docFromNode(docsNode.Content[j+1])
				if err != nil {
					return nil, fmt.Errorf("%s/%s: %w", name, id, err)
				}
				docs[id] = doc
			}
		}
		tree[name] = docs
	}
	return tree, nil
}

func docFromNode(n *yaml.Node) (store.Doc, error) {
	n = resolveAlias(n)
	doc := store.Doc{Fields: store.Map{}}
	if isNull(n) {
		return doc, nil
	}
	if n.Kind != yaml.MappingNode {
		return doc, fmt.Errorf("%w: line %d: document must be a mapping", ErrInvalidFixture, n.Line)
	}
	if err := checkKeys(n); err != nil {
		return doc, err
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		if key == CollectionsKey {
			children, err := treeFromNode(n.Content[i+1])
			if err != nil {
				return doc, err
			}
			doc.Collections = children
			continue
		}
		v, err := valueFromNode(n.Content[i+1])
		if err != nil {
			return doc, fmt.Errorf("field %q: %w", key, err)
		}
		doc.Fields[key] = v
	}
	return doc, nil
}

func valueFromNode(n *yaml.Node) (store.Value, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		return scalarFromNode(n)
	case yaml.SequenceNode:
		arr := make(store.Array, len(n.Content))
		for i, e := range n.Content {
			v, err := valueFromNode(e)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			arr[i] = v
		}
		return arr, nil
	case yaml.MappingNode:
		if err := checkKeys(n); err != nil {
			return nil, err
		}
		m := make(store.Map, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := valueFromNode(n.Content[i+1])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", n.Content[i].Value, err)
			}
			m[n.Content[i].Value] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("%w: line %d: unexpected node kind %v", ErrInvalidFixture, n.Line, n.Kind)
}

func scalarFromNode(n *yaml.Node) (store.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return store.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFixture, n.Line, err)
		}
		return store.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFixture, n.Line, err)
		}
		return store.Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFixture, n.Line, err)
		}
		return store.Float(f), nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFixture, n.Line, err)
		}
		return store.Bytes(b), nil
	}
	return store.String(n.Value), nil
}

// checkKeys rejects a mapping that repeats a key. Decoding into a yaml.Node
// skips the decoder's own duplicate check.
func checkKeys(n *yaml.Node) error {
	seen := make(map[string]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if line, ok := seen[k.Value]; ok {
			return fmt.Errorf("%w: line %d: key %q already defined at line %d", ErrInvalidFixture, k.Line, k.Value, line)
		}
		seen[k.Value] = k.Line
	}
	return nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}
