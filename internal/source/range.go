package source

import "fmt"

// TextRange is a half-open byte range [Start, End) inside one file. Ranges
// are file-local: the FileID travels separately.
type TextRange struct {
	Start uint32
	End   uint32
}

func NewTextRange(start, end uint32) TextRange {
	if end < start {
		panic(fmt.Sprintf("inverted text range: %d-%d", start, end))
	}
	return TextRange{Start: start, End: end}
}

func (r TextRange) Empty() bool {
	return r.Start == r.End
}

func (r TextRange) Len() uint32 {
	return r.End - r.Start
}

// Contains reports whether other lies entirely within r.
func (r TextRange) Contains(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// ContainsOffset reports whether the byte offset lies within r.
func (r TextRange) ContainsOffset(offset uint32) bool {
	return r.Start <= offset && offset < r.End
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
