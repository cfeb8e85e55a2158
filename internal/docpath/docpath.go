// Package docpath validates, joins and splits slash-separated document paths.
package docpath

import (
	"errors"
	"fmt"
	"strings"
)

// Separator separates path segments.
const Separator = "/"

var (
	errEmptySegment = errors.New("empty segment")
	errSeparator    = errors.New("segment contains " + Separator)
)

// CheckSegment reports whether s can be used as a collection name or document id.
func CheckSegment(s string) error {
	if s == "" {
		return errEmptySegment
	}
	if strings.Contains(s, Separator) {
		return fmt.Errorf("%q: %w", s, errSeparator)
	}
	return nil
}

// Join builds the slash path for the given segments.
func Join(segments []string) string {
	return strings.Join(segments, Separator)
}

// Split parses a slash path into its segments.
// Leading and trailing separators are ignored; empty inner segments are rejected.
func Split(path string) ([]string, error) {
	trimmed := strings.Trim(path, Separator)
	if trimmed == "" {
		return nil, errEmptySegment
	}
	segments := strings.Split(trimmed, Separator)
	for i, s := range segments {
		if s == "" {
			return nil, fmt.Errorf("segment %d of %q: %w", i, path, errEmptySegment)
		}
	}
	return segments, nil
}

// IsDocument reports whether a path of n segments addresses a document.
// Segments alternate collection/document, so documents have even length.
func IsDocument(n int) bool {
	return n > 0 && n%2 == 0
}

// IsCollection reports whether a path of n segments addresses a collection.
func IsCollection(n int) bool {
	return n%2 == 1
}
