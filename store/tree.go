package store

import (
	"maps"
	"slices"
)

// Tree is the seed and export shape of a whole store:
// collection name -> document id -> document.
type Tree map[string]Docs

// Docs maps document ids to documents within one collection.
type Docs map[string]Doc

// Doc is a document's field data together with its child collections.
type Doc struct {
	Fields      Map
	Collections Tree
}

// docNode is a stored document. Child collections live next to the fields,
// never inside them.
type docNode struct {
	fields      Map
	collections map[string]*collNode
}

type collNode struct {
	docs map[string]*docNode
}

func newDocNode() *docNode {
	return &docNode{
		fields:      Map{},
		collections: make(map[string]*collNode),
	}
}

func newCollNode() *collNode {
	return &collNode{docs: make(map[string]*docNode)}
}

// lookupCollection walks to the collection at segments without modifying
// the tree. segments must have odd length. Returns nil if any step is missing.
func lookupCollection(root map[string]*collNode, segments []string) *collNode {
	colls := root
	for i := 0; ; i += 2 {
		c := colls[segments[i]]
		if c == nil || i+1 == len(segments) {
			return c
		}
		d := c.docs[segments[i+1]]
		if d == nil {
			return nil
		}
		colls = d.collections
	}
}

// lookupDoc walks to the document at segments without modifying the tree.
// segments must have even length.
func lookupDoc(root map[string]*collNode, segments []string) *docNode {
	n := len(segments)
	parent := lookupCollection(root, segments[:n-1])
	if parent == nil {
		return nil
	}
	return parent.docs[segments[n-1]]
}

// ensureCollection walks to the collection at segments, creating missing
// collections and the empty intermediate documents that hold them.
func ensureCollection(root map[string]*collNode, segments []string) *collNode {
	colls := root
	for i := 0; ; i += 2 {
		c := colls[segments[i]]
		if c == nil {
			c = newCollNode()
			colls[segments[i]] = c
		}
		if i+1 == len(segments) {
			return c
		}
		d := c.docs[segments[i+1]]
		if d == nil {
			d = newDocNode()
			c.docs[segments[i+1]] = d
		}
		colls = d.collections
	}
}

// ensureDoc walks to the document at segments, creating it if needed.
func ensureDoc(root map[string]*collNode, segments []string) *docNode {
	n := len(segments)
	parent := ensureCollection(root, segments[:n-1])
	d := parent.docs[segments[n-1]]
	if d == nil {
		d = newDocNode()
		parent.docs[segments[n-1]] = d
	}
	return d
}

// sortedCollections returns the ids of the non-empty collections in colls.
func sortedCollections(colls map[string]*collNode) []string {
	var ids []string
	for id, c := range colls {
		if len(c.docs) > 0 {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func sortedDocs(c *collNode) []string {
	return slices.Sorted(maps.Keys(c.docs))
}

// buildTree deep-copies a seed Tree into stored nodes.
func buildTree(t Tree) map[string]*collNode {
	root := make(map[string]*collNode, len(t))
	for name, docs := range t {
		c := newCollNode()
		for id, doc := range docs {
			d := newDocNode()
			d.fields = doc.Fields.Clone()
			d.collections = buildTree(doc.Collections)
			c.docs[id] = d
		}
		root[name] = c
	}
	return root
}

// exportTree deep-copies stored nodes into a Tree.
func exportTree(root map[string]*collNode) Tree {
	t := make(Tree, len(root))
	for name, c := range root {
		docs := make(Docs, len(c.docs))
		for id, d := range c.docs {
			docs[id] = Doc{
				Fields:      d.fields.Clone(),
				Collections: exportTree(d.collections),
			}
		}
		t[name] = docs
	}
	return t
}
