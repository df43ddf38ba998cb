package hir

// TypeRef is an unresolved reference to a type, kept as source text. Type
// inference is out of scope for this layer; downstream analyses resolve
// the text against their own environment.
type TypeRef struct {
	Text string
	// Placeholder marks a type position that was syntactically absent.
	Placeholder bool
}

// PlaceholderTypeRef stands in where a type is structurally required but
// the syntax does not supply one.
func PlaceholderTypeRef() TypeRef {
	return TypeRef{Placeholder: true}
}

func (t TypeRef) String() string {
	if t.Placeholder {
		return "{unknown}"
	}
	return t.Text
}
