package hir

import (
	"fmt"

	"quarry/internal/arena"
	"quarry/internal/syntax"
)

// Body owns the expression and pattern arenas of one function (or
// closure, or const initializer), the ordered argument pattern ids, and
// the id of the top-level body expression. A Body is created once by
// lowering, never mutated afterwards, and shared read-only by every
// consumer; ids are never reused across bodies.
type Body struct {
	exprs *arena.Arena[Expr]
	pats  *arena.Arena[Pat]
	// args are the function's argument patterns in declaration order. The
	// argument types belong to the signature, not the body; for a const
	// body this is empty.
	args     []PatID
	bodyExpr ExprID
}

// Args returns the argument pattern ids in declaration order.
func (b *Body) Args() []PatID {
	return b.args
}

// BodyExpr returns the id of the top-level body expression.
func (b *Body) BodyExpr() ExprID {
	return b.bodyExpr
}

// Expr returns the expression node for id. Panics on an id that is not
// from this body.
func (b *Body) Expr(id ExprID) *Expr {
	e := b.exprs.Get(uint32(id))
	if e == nil {
		panic(fmt.Sprintf("invalid ExprID %d", id))
	}
	return e
}

// Pat returns the pattern node for id. Panics on an id that is not from
// this body.
func (b *Body) Pat(id PatID) *Pat {
	p := b.pats.Get(uint32(id))
	if p == nil {
		panic(fmt.Sprintf("invalid PatID %d", id))
	}
	return p
}

// ExprCount returns the number of allocated expressions.
func (b *Body) ExprCount() int { return int(b.exprs.Len()) }

// PatCount returns the number of allocated patterns.
func (b *Body) PatCount() int { return int(b.pats.Len()) }

// BodySourceMap is a Body together with the bidirectional mapping between
// syntax pointers and arena ids. Going from a file position to the IR node
// containing it needs the forward maps; diagnostics and completion need
// the back maps. Type-level analyses operate on the Body alone, agnostic
// to byte positions, so typing whitespace re-derives only the mapping.
//
// Every ExprID/PatID lowered from a real syntax node has exactly one entry
// in the corresponding back map. Synthesized nodes (the placeholder
// pattern of a desugared `if let`, empty-block substitutes, Missing
// fillers) have none.
type BodySourceMap struct {
	body         *Body
	exprMap      map[syntax.NodePtr]ExprID
	exprMapBack  map[ExprID]syntax.NodePtr
	patMap       map[syntax.NodePtr]PatID
	patMapBack   map[PatID]syntax.NodePtr
}

// Body returns the mapped body.
func (m *BodySourceMap) Body() *Body {
	return m.body
}

// ExprSyntax returns the pointer the expression was lowered from, if it
// came from a real syntax node.
func (m *BodySourceMap) ExprSyntax(id ExprID) (syntax.NodePtr, bool) {
	ptr, ok := m.exprMapBack[id]
	return ptr, ok
}

// SyntaxExpr returns the expression lowered from the pointed-at node.
func (m *BodySourceMap) SyntaxExpr(ptr syntax.NodePtr) (ExprID, bool) {
	id, ok := m.exprMap[ptr]
	return id, ok
}

// PatSyntax returns the pointer the pattern was lowered from, if it came
// from a real syntax node.
func (m *BodySourceMap) PatSyntax(id PatID) (syntax.NodePtr, bool) {
	ptr, ok := m.patMapBack[id]
	return ptr, ok
}

// SyntaxPat returns the pattern lowered from the pointed-at node.
func (m *BodySourceMap) SyntaxPat(ptr syntax.NodePtr) (PatID, bool) {
	id, ok := m.patMap[ptr]
	return id, ok
}
