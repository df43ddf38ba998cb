package hir

import (
	"quarry/internal/arena"
)

// ScopeID addresses one lexical scope inside a FnScopes instance.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// ScopeEntry is one name binding: the name and the binding pattern that
// introduced it.
type ScopeEntry struct {
	Name Name
	Pat  PatID
}

type scopeData struct {
	parent  ScopeID
	entries []ScopeEntry
}

// FnScopes is the lexical scope structure of one function body. It is
// computed from the body alone; syntax never enters the picture, so it
// stays valid as long as the body does.
//
// Scope rules follow the source: a let binding opens a new scope covering
// the statements after it, match arms and closures and for loops bind
// their patterns for their own bodies only.
type FnScopes struct {
	body     *Body
	scopes   *arena.Arena[scopeData]
	scopeFor map[ExprID]ScopeID
}

// NewFnScopes computes the scope tree for body.
func NewFnScopes(body *Body) *FnScopes {
	s := &FnScopes{
		body:     body,
		scopes:   arena.New[scopeData](4),
		scopeFor: make(map[ExprID]ScopeID),
	}
	root := s.newScope(NoScopeID)
	for _, arg := range body.Args() {
		s.addBindings(root, arg)
	}
	if body.BodyExpr().IsValid() {
		s.computeExprScopes(body.BodyExpr(), root)
	}
	return s
}

// ScopeFor returns the innermost scope containing expr. Synthesized
// expressions that never ran through scope computation report false.
func (s *FnScopes) ScopeFor(expr ExprID) (ScopeID, bool) {
	id, ok := s.scopeFor[expr]
	return id, ok
}

// Entries returns the bindings introduced directly by scope. The caller
// must not mutate the slice.
func (s *FnScopes) Entries(scope ScopeID) []ScopeEntry {
	return s.data(scope).entries
}

// Parent returns the enclosing scope, or NoScopeID for the root.
func (s *FnScopes) Parent(scope ScopeID) ScopeID {
	return s.data(scope).parent
}

// ResolveLocalName finds the binding a name refers to at the position of
// context, walking the scope chain from innermost outwards. Inner
// bindings shadow outer ones.
func (s *FnScopes) ResolveLocalName(context ExprID, name Name) (ScopeEntry, bool) {
	scope, ok := s.ScopeFor(context)
	if !ok {
		return ScopeEntry{}, false
	}
	for scope.IsValid() {
		entries := s.Entries(scope)
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].Name == name {
				return entries[i], true
			}
		}
		scope = s.Parent(scope)
	}
	return ScopeEntry{}, false
}

// Len reports the number of scopes, including the root argument scope.
func (s *FnScopes) Len() int {
	return int(s.scopes.Len())
}

func (s *FnScopes) data(id ScopeID) *scopeData {
	d := s.scopes.Get(uint32(id))
	if d == nil {
		panic("invalid ScopeID")
	}
	return d
}

func (s *FnScopes) newScope(parent ScopeID) ScopeID {
	return ScopeID(s.scopes.Allocate(scopeData{parent: parent}))
}

// addBindings records every binding pattern in the subtree of pat as an
// entry of scope.
func (s *FnScopes) addBindings(scope ScopeID, pat PatID) {
	if !pat.IsValid() {
		return
	}
	p := s.body.Pat(pat)
	if data, ok := p.Data.(BindPatData); ok {
		d := s.data(scope)
		d.entries = append(d.entries, ScopeEntry{Name: data.Name, Pat: pat})
	}
	p.WalkChildPats(func(child PatID) {
		s.addBindings(scope, child)
	})
}

func (s *FnScopes) computeExprScopes(expr ExprID, scope ScopeID) {
	s.scopeFor[expr] = scope
	e := s.body.Expr(expr)
	switch data := e.Data.(type) {
	case BlockData:
		s.computeBlockScopes(data, scope)
	case MatchData:
		if data.Expr.IsValid() {
			s.computeExprScopes(data.Expr, scope)
		}
		for _, arm := range data.Arms {
			armScope := s.newScope(scope)
			for _, pat := range arm.Pats {
				s.addBindings(armScope, pat)
			}
			if arm.Expr.IsValid() {
				s.computeExprScopes(arm.Expr, armScope)
			}
		}
	case LambdaData:
		bodyScope := s.newScope(scope)
		for _, arg := range data.Args {
			s.addBindings(bodyScope, arg)
		}
		if data.Body.IsValid() {
			s.computeExprScopes(data.Body, bodyScope)
		}
	case ForData:
		if data.Iterable.IsValid() {
			s.computeExprScopes(data.Iterable, scope)
		}
		bodyScope := s.newScope(scope)
		s.addBindings(bodyScope, data.Pat)
		if data.Body.IsValid() {
			s.computeExprScopes(data.Body, bodyScope)
		}
	default:
		e.WalkChildExprs(func(child ExprID) {
			s.computeExprScopes(child, scope)
		})
	}
}

// computeBlockScopes threads a fresh scope through each let binding, so a
// statement only sees the bindings textually before it.
func (s *FnScopes) computeBlockScopes(block BlockData, scope ScopeID) {
	for _, stmt := range block.Statements {
		switch stmt.Kind {
		case StmtLet:
			if stmt.Initializer.IsValid() {
				s.computeExprScopes(stmt.Initializer, scope)
			}
			scope = s.newScope(scope)
			s.addBindings(scope, stmt.Pat)
		case StmtExpr:
			if stmt.Expr.IsValid() {
				s.computeExprScopes(stmt.Expr, scope)
			}
		}
	}
	if block.Tail.IsValid() {
		s.computeExprScopes(block.Tail, scope)
	}
}
