package hir

import "strings"

// Name is an identifier as it appears in source. The missing name stands
// in when syntax that should carry a name does not; it can never collide
// with a real identifier.
type Name string

const missingName Name = "[missing name]"

// MissingName returns the placeholder used when a name is syntactically
// absent.
func MissingName() Name { return missingName }

// SelfName is the name of the implicit self binding.
const SelfName Name = "self"

func (n Name) IsMissing() bool { return n == missingName }

func (n Name) String() string { return string(n) }

// Path is a possibly qualified reference (`a::b::c`). Only the segment
// list is modeled; generic arguments in paths are not.
type Path struct {
	Segments []Name
}

// PathFromText splits a path expression's source text into segments.
func PathFromText(text string) Path {
	parts := strings.Split(text, "::")
	segments := make([]Name, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		segments = append(segments, Name(part))
	}
	return Path{Segments: segments}
}

// IsIdent reports whether the path is a single plain segment.
func (p Path) IsIdent() bool { return len(p.Segments) == 1 }

func (p Path) String() string {
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		parts[i] = string(seg)
	}
	return strings.Join(parts, "::")
}
