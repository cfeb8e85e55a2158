package store

import (
	"fmt"
	"slices"

	"github.com/jacentio/docmock/internal/docpath"
)

// CollectionRef addresses a collection. It holds no data of its own.
type CollectionRef struct {
	// Parent is the document containing this collection, nil for root collections.
	Parent *DocumentRef

	// ID is the collection name.
	ID string

	// Path is the slash path of the collection, e.g. "users/alice/posts".
	Path string

	store    *Store
	segments []string
}

// DocumentRef addresses a document, whether or not it exists.
type DocumentRef struct {
	// Parent is the collection reference this document was obtained from.
	Parent *CollectionRef

	// ID is the document id.
	ID string

	// Path is the slash path of the document, e.g. "users/alice".
	Path string

	store    *Store
	segments []string
}

func newCollectionRef(s *Store, parent *DocumentRef, prefix []string, name string) *CollectionRef {
	if err := docpath.CheckSegment(name); err != nil {
		panic(fmt.Sprintf("docmock: invalid collection name: %v", err))
	}
	segments := append(slices.Clip(prefix), name)
	return &CollectionRef{
		Parent:   parent,
		ID:       name,
		Path:     docpath.Join(segments),
		store:    s,
		segments: segments,
	}
}

// Doc returns a reference to the document id in c.
// It panics if id is empty or contains a slash.
func (c *CollectionRef) Doc(id string) *DocumentRef {
	if err := docpath.CheckSegment(id); err != nil {
		panic(fmt.Sprintf("docmock: invalid document id: %v", err))
	}
	segments := append(slices.Clip(c.segments), id)
	return &DocumentRef{
		Parent:   c,
		ID:       id,
		Path:     docpath.Join(segments),
		store:    c.store,
		segments: segments,
	}
}

// NewDoc returns a reference to a document with a freshly generated id.
// Nothing is written until the reference is used to write.
func (c *CollectionRef) NewDoc() *DocumentRef {
	return c.Doc(c.store.newID(c.segments))
}

// Add creates a document with a generated id holding data.
func (c *CollectionRef) Add(data Map) (*DocumentRef, error) {
	ref := c.NewDoc()
	if err := ref.Create(data); err != nil {
		return nil, err
	}
	return ref, nil
}

// ListDocuments returns references to the documents in c, sorted by id.
func (c *CollectionRef) ListDocuments() []*DocumentRef {
	return c.store.listDocuments(c)
}

// Equal reports whether c and other address the same collection of the same store.
func (c *CollectionRef) Equal(other *CollectionRef) bool {
	if c == nil || other == nil {
		return c == other
	}
	return c.store == other.store && c.Path == other.Path
}

// Collection returns a reference to the child collection name of d.
// It panics if name is empty or contains a slash.
func (d *DocumentRef) Collection(name string) *CollectionRef {
	return newCollectionRef(d.store, d, d.segments, name)
}

// Collections returns the non-empty child collections of d, sorted by name.
func (d *DocumentRef) Collections() []*CollectionRef {
	return d.store.listCollections(d)
}

// Get reads the document. It never fails: a missing document yields a
// snapshot with Exists set to false.
func (d *DocumentRef) Get() *Snapshot {
	return d.store.get(d)
}

// SetOption configures Set.
type SetOption func(*setOptions)

type setOptions struct {
	merge bool
}

// Merge makes Set merge data into the existing fields instead of replacing them.
func Merge() SetOption {
	return func(o *setOptions) {
		o.merge = true
	}
}

// Set writes data to the document, creating it if needed.
//
// By default the field data is replaced and child collections are kept. With
// [Merge], data is merged recursively into the existing fields.
func (d *DocumentRef) Set(data Map, opts ...SetOption) error {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}
	return d.store.set(d, data, o.merge)
}

// Create writes data to the document, failing with ErrAlreadyExists if it exists.
func (d *DocumentRef) Create(data Map) error {
	return d.store.create(d, data)
}

// Update resolves the transforms in data against the stored fields and merges
// the result into the document. It fails with ErrNotFound if the document
// doesn't exist.
func (d *DocumentRef) Update(data Map) error {
	return d.store.update(d, data)
}

// Delete removes the document and all its child collections.
// Deleting a missing document is not an error.
func (d *DocumentRef) Delete() error {
	d.store.delete(d)
	return nil
}

// Equal reports whether d and other address the same document of the same store.
func (d *DocumentRef) Equal(other *DocumentRef) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.store == other.store && d.Path == other.Path
}
