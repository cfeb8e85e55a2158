// Package store provides an in-memory hierarchical document store for tests.
//
// The store reproduces the read, write and merge semantics of a document
// database whose data is addressed by paths alternating collection names and
// document ids, such as "users/alice/posts/p1". It is meant as a fast test
// double: nothing is persisted and there is no network layer.
//
// # Addressing
//
// References are cheap handles built from a [Store]:
//
//	users := s.Collection("users")
//	alice := users.Doc("alice")
//	post := alice.Collection("posts").NewDoc()
//
// A [DocumentRef] keeps the exact [CollectionRef] it came from in its Parent
// field. [CollectionRef.NewDoc] generates the id immediately.
//
// # Values
//
// Field data is a [Map] of [Value]s, a closed set of types: [Null], [Bool],
// [Int], [Float], [String], [Bytes], [Array] and [Map]. [ValueOf] and [MapOf]
// convert plain Go values and structs.
//
// # Writes
//
//   - [DocumentRef.Set] replaces the fields, or merges them recursively with [Merge]
//   - [DocumentRef.Update] merges into an existing document
//   - [DocumentRef.Create] writes a document that must not exist yet
//   - [DocumentRef.Delete] removes a document and its child collections
//
// Write payloads may contain [Transform] sentinels ([Increment],
// [ArrayUnion], [ArrayRemove]) at any depth of nested maps. They are resolved
// against the currently stored value at the same field path.
//
// Data is copied on the way in and on the way out: mutating a map after
// writing it, or mutating the result of [Snapshot.Data], never changes the
// stored document.
//
// # Existence
//
// A document exists while its id is present in its parent collection. Writing
// a document nested below a missing one creates the missing ancestor as an
// empty, existing document. Only [DocumentRef.Delete] removes a document.
//
// # Errors
//
//   - [ErrNotFound] - update of a missing document
//   - [ErrAlreadyExists] - create of an existing document
//   - [ErrInvalidPath] - malformed slash path
//   - [ErrInvalidValue] - payload that cannot be applied
//   - [ErrUnsupportedType] - value with no [Value] representation
//
// Reads never fail: [DocumentRef.Get] reports absence through [Snapshot.Exists].
package store
