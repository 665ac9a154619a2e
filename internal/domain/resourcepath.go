package domain

import "strings"

// PathSeparator joins the segments of a hierarchical resource path.
const PathSeparator = "::"

// ResourcePath is a validated, `::`-separated hierarchical name for a
// resource or resource category. It is parsed once at the boundary;
// downstream code never re-splits the raw string. A grant on a prefix of
// a path implies the grant on every path extending it.
type ResourcePath struct {
	segments []string
}

// ParseResourcePath validates and parses a raw resource path. Empty
// input and empty segments are rejected.
func ParseResourcePath(raw string) (ResourcePath, error) {
	if raw == "" {
		return ResourcePath{}, ErrValidation("resource path must not be empty")
	}
	segments := strings.Split(raw, PathSeparator)
	for _, seg := range segments {
		if seg == "" {
			return ResourcePath{}, ErrValidation("resource path %q contains an empty segment", raw)
		}
	}
	return ResourcePath{segments: segments}, nil
}

// MustParseResourcePath parses a raw path and panics on invalid input.
// For compile-time-constant paths only.
func MustParseResourcePath(raw string) ResourcePath {
	p, err := ParseResourcePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// BuildResourcePath joins pre-validated segments into a ResourcePath.
func BuildResourcePath(segments ...string) (ResourcePath, error) {
	return ParseResourcePath(strings.Join(segments, PathSeparator))
}

// String returns the canonical `::`-joined form.
func (p ResourcePath) String() string {
	return strings.Join(p.segments, PathSeparator)
}

// Segments returns a copy of the path segments.
func (p ResourcePath) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// IsZero reports whether the path is the uninitialized zero value.
func (p ResourcePath) IsZero() bool {
	return len(p.segments) == 0
}

// Prefixes returns every ancestor-or-self prefix of the path, least to
// most specific. A single-segment path has exactly one prefix: itself.
func (p ResourcePath) Prefixes() []string {
	prefixes := make([]string, 0, len(p.segments))
	for i := 1; i <= len(p.segments); i++ {
		prefixes = append(prefixes, strings.Join(p.segments[:i], PathSeparator))
	}
	return prefixes
}
