package hir

import (
	"fmt"
	"sync"

	"quarry/internal/source"
)

// SourceItemID is the stable address of a declaration: a file plus an
// index into that file's item arena. ItemID NoItemID means the id denotes
// the whole file, i.e. the file's implicit root module.
type SourceItemID struct {
	FileID source.FileID
	ItemID ItemID
}

func (id SourceItemID) String() string {
	if !id.ItemID.IsValid() {
		return fmt.Sprintf("file(%d)", id.FileID)
	}
	return fmt.Sprintf("file(%d)#%d", id.FileID, id.ItemID)
}

// DefKind classifies a definition.
type DefKind uint8

const (
	DefKindItem DefKind = iota
	DefKindFunction
	DefKindStruct
	DefKindEnum
	DefKindModule
	DefKindMacroCall
)

func (k DefKind) String() string {
	switch k {
	case DefKindFunction:
		return "function"
	case DefKindStruct:
		return "struct"
	case DefKindEnum:
		return "enum"
	case DefKindModule:
		return "module"
	case DefKindMacroCall:
		return "macro-call"
	default:
		return "item"
	}
}

// DefLoc is the full location of a definition. Two definitions are the
// same iff their locations are equal; DefID is the interned form used as a
// compact map key everywhere else.
type DefLoc struct {
	Kind         DefKind
	SourceRootID source.SourceRootID
	ModuleID     ModuleID
	SourceItemID SourceItemID
}

// DefInterner assigns dense DefIDs to DefLocs. IDs are stable for the
// lifetime of the interner: the same location always yields the same id.
// Safe for concurrent use.
type DefInterner struct {
	mu  sync.Mutex
	ids map[DefLoc]DefID
	rev []DefLoc
}

func NewDefInterner() *DefInterner {
	return &DefInterner{ids: make(map[DefLoc]DefID)}
}

// Intern returns the DefID for loc, creating a new id if the location has
// not been seen.
func (di *DefInterner) Intern(loc DefLoc) DefID {
	di.mu.Lock()
	defer di.mu.Unlock()
	if id, ok := di.ids[loc]; ok {
		return id
	}
	di.rev = append(di.rev, loc)
	id := DefID(len(di.rev)) // 1-based, NoDefID stays free
	di.ids[loc] = id
	return id
}

// Loc returns the location interned as id. Panics on an id this interner
// never produced: that is a caller bug, not a data condition.
func (di *DefInterner) Loc(id DefID) DefLoc {
	di.mu.Lock()
	defer di.mu.Unlock()
	if !id.IsValid() || int(id) > len(di.rev) {
		panic(fmt.Sprintf("DefID %d out of range", id))
	}
	return di.rev[id-1]
}

func (di *DefInterner) Len() int {
	di.mu.Lock()
	defer di.mu.Unlock()
	return len(di.rev)
}
