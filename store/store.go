package store

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/jacentio/docmock/internal/docpath"
)

// Store is an in-memory document tree. A Store exclusively owns its tree;
// it performs no locking, so callers sharing one between goroutines must
// serialize access themselves.
type Store struct {
	config Config
	logger *slog.Logger
	root   map[string]*collNode
}

// New creates a new, empty Store.
func New(config Config) *Store {
	config.validate()
	return &Store{
		config: config,
		logger: config.Logger,
		root:   make(map[string]*collNode),
	}
}

// Seed replaces the whole tree with a deep copy of t. Nothing is merged.
func (s *Store) Seed(t Tree) error {
	if err := checkTree(t, nil); err != nil {
		return err
	}
	s.root = buildTree(t)
	s.logger.Debug("seeded store", "collections", len(t))
	return nil
}

func checkTree(t Tree, prefix []string) error {
	for name, docs := range t {
		if err := docpath.CheckSegment(name); err != nil {
			return fmt.Errorf("%w: collection %s: %v", ErrInvalidPath, docpath.Join(slices.Concat(prefix, []string{name})), err)
		}
		for id, doc := range docs {
			segments := slices.Concat(prefix, []string{name, id})
			if err := docpath.CheckSegment(id); err != nil {
				return fmt.Errorf("%w: document %s: %v", ErrInvalidPath, docpath.Join(segments), err)
			}
			if err := checkStored(doc.Fields); err != nil {
				return fmt.Errorf("seed %s: %w", docpath.Join(segments), err)
			}
			if err := checkTree(doc.Collections, segments); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkStored rejects transforms in data that is stored without resolution.
func checkStored(m Map) error {
	for k, v := range m {
		switch v := v.(type) {
		case Transform:
			return fmt.Errorf("%w: field %q: transform %T outside a write", ErrInvalidValue, k, v)
		case Map:
			if err := checkStored(v); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
		case Array:
			if err := checkArray(v); err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
		}
	}
	return nil
}

// Export returns a deep copy of the whole tree.
func (s *Store) Export() Tree {
	return exportTree(s.root)
}

// Reset empties the tree.
func (s *Store) Reset() {
	s.root = make(map[string]*collNode)
}

// Collection returns a reference to the root collection name.
// It panics if name is empty or contains a slash.
func (s *Store) Collection(name string) *CollectionRef {
	return newCollectionRef(s, nil, nil, name)
}

// Collections returns the non-empty root collections sorted by name.
func (s *Store) Collections() []*CollectionRef {
	var refs []*CollectionRef
	for _, name := range sortedCollections(s.root) {
		refs = append(refs, s.Collection(name))
	}
	return refs
}

// DocAt returns a reference to the document at a slash path such as
// "users/alice/posts/p1".
func (s *Store) DocAt(path string) (*DocumentRef, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if !docpath.IsDocument(len(segments)) {
		return nil, fmt.Errorf("%w: %q addresses a collection", ErrInvalidPath, path)
	}
	return s.refFor(segments).(*DocumentRef), nil
}

// CollectionAt returns a reference to the collection at a slash path such as
// "users/alice/posts".
func (s *Store) CollectionAt(path string) (*CollectionRef, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	if !docpath.IsCollection(len(segments)) {
		return nil, fmt.Errorf("%w: %q addresses a document", ErrInvalidPath, path)
	}
	return s.refFor(segments).(*CollectionRef), nil
}

func splitPath(path string) ([]string, error) {
	segments, err := docpath.Split(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	return segments, nil
}

// refFor builds the reference chain for already validated segments and
// returns the last link, a *CollectionRef or a *DocumentRef.
func (s *Store) refFor(segments []string) any {
	coll := s.Collection(segments[0])
	for i := 1; ; i += 2 {
		if i == len(segments) {
			return coll
		}
		doc := coll.Doc(segments[i])
		if i+1 == len(segments) {
			return doc
		}
		coll = doc.Collection(segments[i+1])
	}
}

// newID returns a generated id not currently used in the collection at
// parent. Uniqueness is best effort: a generator that keeps colliding gives up
// after a few attempts.
func (s *Store) newID(parent []string) string {
	c := lookupCollection(s.root, parent)
	id := s.config.NewID()
	for attempt := 0; attempt < 8 && c != nil && c.docs[id] != nil; attempt++ {
		id = s.config.NewID()
	}
	return id
}

func (s *Store) get(ref *DocumentRef) *Snapshot {
	d := lookupDoc(s.root, ref.segments)
	if d == nil {
		return &Snapshot{Ref: ref, data: Map{}}
	}
	return &Snapshot{Ref: ref, Exists: true, data: d.fields.Clone()}
}

func (s *Store) set(ref *DocumentRef, data Map, merge bool) error {
	if err := checkPayload(data); err != nil {
		return fmt.Errorf("set %s: %w", ref.Path, err)
	}
	payload := data.Clone()

	d := ensureDoc(s.root, ref.segments)
	if merge {
		resolveTransforms(d.fields, payload)
		mergeInto(d.fields, payload)
	} else {
		resolveTransforms(nil, payload)
		d.fields = payload
	}

	s.logger.Debug("wrote document", "op", "set", "path", ref.Path, "merge", merge)
	return nil
}

func (s *Store) create(ref *DocumentRef, data Map) error {
	if err := checkPayload(data); err != nil {
		return fmt.Errorf("create %s: %w", ref.Path, err)
	}
	if lookupDoc(s.root, ref.segments) != nil {
		return fmt.Errorf("create %s: %w", ref.Path, ErrAlreadyExists)
	}
	payload := data.Clone()
	resolveTransforms(nil, payload)
	ensureDoc(s.root, ref.segments).fields = payload

	s.logger.Debug("wrote document", "op", "create", "path", ref.Path)
	return nil
}

func (s *Store) update(ref *DocumentRef, data Map) error {
	d := lookupDoc(s.root, ref.segments)
	if d == nil {
		return fmt.Errorf("update %s: %w", ref.Path, ErrNotFound)
	}
	if err := checkPayload(data); err != nil {
		return fmt.Errorf("update %s: %w", ref.Path, err)
	}
	payload := data.Clone()
	resolveTransforms(d.fields, payload)
	mergeInto(d.fields, payload)

	s.logger.Debug("wrote document", "op", "update", "path", ref.Path)
	return nil
}

func (s *Store) delete(ref *DocumentRef) {
	n := len(ref.segments)
	parent := lookupCollection(s.root, ref.segments[:n-1])
	if parent == nil {
		return
	}
	if _, ok := parent.docs[ref.ID]; !ok {
		return
	}
	delete(parent.docs, ref.ID)
	s.logger.Debug("deleted document", "op", "delete", "path", ref.Path)
}

func (s *Store) listDocuments(ref *CollectionRef) []*DocumentRef {
	c := lookupCollection(s.root, ref.segments)
	if c == nil {
		return nil
	}
	var refs []*DocumentRef
	for _, id := range sortedDocs(c) {
		refs = append(refs, ref.Doc(id))
	}
	return refs
}

func (s *Store) listCollections(ref *DocumentRef) []*CollectionRef {
	d := lookupDoc(s.root, ref.segments)
	if d == nil {
		return nil
	}
	var refs []*CollectionRef
	for _, name := range sortedCollections(d.collections) {
		refs = append(refs, ref.Collection(name))
	}
	return refs
}
