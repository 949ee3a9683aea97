package util

import (
	"path/filepath"
	"slices"
	"strings"
)

// ModulePath is a flat dotted module name, e.g. "a.b.c".  The source
// language's module system (spec.md Non-goals) is deliberately flat: there
// is no relative addressing, so — unlike a general tree path — a
// ModulePath is always "absolute" in the sense of naming one specific
// module from the root of the project/system roots.
type ModulePath struct {
	// Segments between the dots, outermost first.
	segments []string
}

// NewModulePath constructs a dotted module path from its segments.
func NewModulePath(segments ...string) ModulePath {
	return ModulePath{slices.Clone(segments)}
}

// ParseModulePath splits a dotted name ("a.b.c") into a ModulePath.
func ParseModulePath(dotted string) ModulePath {
	return ModulePath{strings.Split(dotted, ".")}
}

// Depth returns the number of segments in this path.
func (p ModulePath) Depth() uint {
	return uint(len(p.segments))
}

// Head returns the first (outermost) segment.
func (p ModulePath) Head() string {
	return p.segments[0]
}

// Tail returns the last (innermost) segment — conventionally the module's
// own declared local name, as opposed to the package hierarchy it sits in.
func (p ModulePath) Tail() string {
	return p.segments[len(p.segments)-1]
}

// Get returns the nth segment of this path.
func (p ModulePath) Get(nth uint) string {
	return p.segments[nth]
}

// Equals determines whether two module paths name the same module.
func (p ModulePath) Equals(other ModulePath) bool {
	return slices.Equal(p.segments, other.segments)
}

// Parent returns the path one level up, or the zero path for a top-level
// single-segment module.
func (p ModulePath) Parent() ModulePath {
	n := p.Depth()
	if n == 0 {
		return p
	}
	return ModulePath{p.segments[0 : n-1]}
}

// Extend returns this path with a new innermost segment appended.
func (p ModulePath) Extend(tail string) ModulePath {
	return ModulePath{append(slices.Clone(p.segments), tail)}
}

// String renders the dotted form, e.g. "a.b.c", matching the source
// language's own module-name syntax.
func (p ModulePath) String() string {
	return strings.Join(p.segments, ".")
}

// FilePath renders the on-disk path scheme from spec.md §6:
// "<root>/a/b/c.l0" for module "a.b.c", joined onto the given root
// directory.
func (p ModulePath) FilePath(root string) string {
	elems := make([]string, 0, len(p.segments)+1)
	elems = append(elems, root)
	elems = append(elems, p.segments...)
	rel := filepath.Join(elems...)
	return rel + ".l0"
}
