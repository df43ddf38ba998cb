package hir_test

import (
	"testing"

	"quarry/internal/hir"
)

func TestArgumentsAreInRootScope(t *testing.T) {
	_, m := lowerFn(t, `
fn area(w: i32, h: i32) -> i32 {
    w
}
`, "area")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	ref := bodyRef(t, body, scopes, "w")
	entry, ok := scopes.ResolveLocalName(ref, "w")
	if !ok {
		t.Fatal("w must resolve")
	}
	if entry.Name != "w" {
		t.Errorf("resolved %q", entry.Name)
	}
	if _, ok := scopes.ResolveLocalName(ref, "h"); !ok {
		t.Error("sibling argument h must also be visible")
	}
}

// bodyRef finds the ExprID of the path reference to name.
func bodyRef(t *testing.T, body *hir.Body, scopes *hir.FnScopes, name hir.Name) hir.ExprID {
	t.Helper()
	for i := 1; i <= body.ExprCount(); i++ {
		id := hir.ExprID(i)
		e := body.Expr(id)
		if e.Kind != hir.ExprPath {
			continue
		}
		path := e.Data.(hir.PathData).Path
		if len(path.Segments) == 1 && path.Segments[0] == name {
			if _, ok := scopes.ScopeFor(id); ok {
				return id
			}
		}
	}
	t.Fatalf("no reference %q", name)
	return hir.NoExprID
}

func TestLetIntroducesScopeForLaterStatements(t *testing.T) {
	_, m := lowerFn(t, `
fn chain() {
    let a = init();
    let b = wrap(a);
    use_it(b);
}
`, "chain")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	// The initializer of b sees a.
	aRef := bodyRef(t, body, scopes, "a")
	if _, ok := scopes.ResolveLocalName(aRef, "a"); !ok {
		t.Error("a must be visible in b's initializer")
	}
	// But b is not visible there yet.
	if _, ok := scopes.ResolveLocalName(aRef, "b"); ok {
		t.Error("b must not be visible before its own let")
	}
	// The last statement sees both.
	bRef := bodyRef(t, body, scopes, "b")
	if _, ok := scopes.ResolveLocalName(bRef, "a"); !ok {
		t.Error("a must stay visible")
	}
	if _, ok := scopes.ResolveLocalName(bRef, "b"); !ok {
		t.Error("b must be visible after its let")
	}
}

func TestLetShadowingResolvesToInnermost(t *testing.T) {
	_, m := lowerFn(t, `
fn shadow() {
    let x = first();
    let x = second(x);
    done(x);
}
`, "shadow")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	// Find the x reference in the last statement (the one whose scope has
	// the deepest chain).
	var lastRef hir.ExprID
	var deepest int
	for i := 1; i <= body.ExprCount(); i++ {
		id := hir.ExprID(i)
		e := body.Expr(id)
		if e.Kind != hir.ExprPath {
			continue
		}
		if path := e.Data.(hir.PathData).Path; len(path.Segments) != 1 || path.Segments[0] != "x" {
			continue
		}
		scope, ok := scopes.ScopeFor(id)
		if !ok {
			continue
		}
		depth := 0
		for s := scope; s.IsValid(); s = scopes.Parent(s) {
			depth++
		}
		if depth >= deepest {
			deepest = depth
			lastRef = id
		}
	}
	if !lastRef.IsValid() {
		t.Fatal("no x reference found")
	}

	entry, ok := scopes.ResolveLocalName(lastRef, "x")
	if !ok {
		t.Fatal("x must resolve")
	}
	// The binding must be the second let's pattern, which has the higher
	// pattern id of the two.
	var patIDs []hir.PatID
	for i := 1; i <= body.PatCount(); i++ {
		id := hir.PatID(i)
		if p := body.Pat(id); p.Kind == hir.PatBind && p.Data.(hir.BindPatData).Name == "x" {
			patIDs = append(patIDs, id)
		}
	}
	if len(patIDs) != 2 {
		t.Fatalf("expected 2 x bindings, got %d", len(patIDs))
	}
	if entry.Pat != patIDs[1] {
		t.Errorf("resolved to pat %d, want the shadowing binding %d", entry.Pat, patIDs[1])
	}
}

func TestMatchArmBindingsScopeToTheirArm(t *testing.T) {
	_, m := lowerFn(t, `
fn split(e: Event) {
    match e {
        Event::Key(code) => handle(code),
        other => log(other),
    }
}
`, "split")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	codeRef := bodyRef(t, body, scopes, "code")
	if _, ok := scopes.ResolveLocalName(codeRef, "code"); !ok {
		t.Error("code must resolve inside its arm")
	}
	if _, ok := scopes.ResolveLocalName(codeRef, "other"); ok {
		t.Error("other arm's binding must not leak")
	}
}

func TestClosureArgsScopeToClosureBody(t *testing.T) {
	_, m := lowerFn(t, `
fn outer(seed: i32) {
    each(|item| consume(item, seed));
    after(seed);
}
`, "outer")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	itemRef := bodyRef(t, body, scopes, "item")
	if _, ok := scopes.ResolveLocalName(itemRef, "item"); !ok {
		t.Error("closure arg must resolve in the closure body")
	}
	if _, ok := scopes.ResolveLocalName(itemRef, "seed"); !ok {
		t.Error("outer bindings stay visible inside the closure")
	}

	afterRef := bodyRef(t, body, scopes, "seed")
	if _, ok := scopes.ResolveLocalName(afterRef, "item"); ok {
		t.Error("closure arg must not escape the closure")
	}
}

func TestForPatternScopesToLoopBody(t *testing.T) {
	_, m := lowerFn(t, `
fn sum(items: Vec<i32>) {
    for item in items {
        add(item);
    }
}
`, "sum")
	body := m.Body()
	scopes := hir.NewFnScopes(body)

	itemRef := bodyRef(t, body, scopes, "item")
	if _, ok := scopes.ResolveLocalName(itemRef, "item"); !ok {
		t.Error("loop pattern must resolve in the loop body")
	}

	itemsRef := bodyRef(t, body, scopes, "items")
	if _, ok := scopes.ResolveLocalName(itemsRef, "item"); ok {
		t.Error("loop pattern must not be visible in the iterable")
	}
}
