package hir_test

import (
	"strings"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/hir"
	"quarry/internal/syntax"
)

// lowerFn parses src, finds the function named name, and lowers its body.
func lowerFn(t *testing.T, src, name string) (*syntax.Tree, *hir.BodySourceMap) {
	t.Helper()
	tree := syntax.Parse([]byte(src))
	t.Cleanup(tree.Close)
	fn := findFunction(tree, tree.Root(), name)
	if fn == nil {
		t.Fatalf("no function %q in fixture", name)
	}
	return tree, hir.LowerFunctionBody(tree, fn)
}

func findFunction(tree *syntax.Tree, node *sitter.Node, name string) *sitter.Node {
	if node.Kind() == syntax.KindFunctionItem {
		if nameNode := node.ChildByFieldName("name"); nameNode != nil && tree.Text(nameNode) == name {
			return node
		}
	}
	for _, child := range syntax.NamedChildren(node) {
		if found := findFunction(tree, child, name); found != nil {
			return found
		}
	}
	return nil
}

// firstExpr returns the block's single interesting expression: the lone
// statement's expression, or the tail.
func firstExpr(t *testing.T, body *hir.Body, block hir.BlockData) hir.ExprID {
	t.Helper()
	if len(block.Statements) > 0 {
		return block.Statements[0].Expr
	}
	if !block.Tail.IsValid() {
		t.Fatal("block has neither statements nor a tail")
	}
	return block.Tail
}

func TestLowerSimpleBody(t *testing.T) {
	_, m := lowerFn(t, `
fn add(a: i32, b: i32) -> i32 {
    let sum = plus(a, b);
    sum
}
`, "add")
	body := m.Body()

	if len(body.Args()) != 2 {
		t.Fatalf("expected 2 arg patterns, got %d", len(body.Args()))
	}
	for i, arg := range body.Args() {
		pat := body.Pat(arg)
		if pat.Kind != hir.PatBind {
			t.Errorf("arg %d: expected bind pattern, got %s", i, pat.Kind)
		}
	}

	root := body.Expr(body.BodyExpr())
	if root.Kind != hir.ExprBlock {
		t.Fatalf("body expr is %s, want Block", root.Kind)
	}
	block := root.Data.(hir.BlockData)
	if len(block.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(block.Statements))
	}
	stmt := block.Statements[0]
	if stmt.Kind != hir.StmtLet {
		t.Fatalf("expected let statement, got %d", stmt.Kind)
	}
	if !stmt.Initializer.IsValid() {
		t.Fatal("let must have an initializer")
	}
	if init := body.Expr(stmt.Initializer); init.Kind != hir.ExprCall {
		t.Errorf("initializer is %s, want Call", init.Kind)
	}
	if !block.Tail.IsValid() {
		t.Fatal("block must have a tail expression")
	}
	if tail := body.Expr(block.Tail); tail.Kind != hir.ExprPath {
		t.Errorf("tail is %s, want Path", tail.Kind)
	}
}

// Every id with a back-map entry must round-trip through the forward map.
func TestSyntaxMapsAreBidirectional(t *testing.T) {
	_, m := lowerFn(t, `
fn mixed(input: Option<i32>) -> i32 {
    let base = seed();
    if let Some(v) = input {
        v
    } else {
        base
    }
}
`, "mixed")
	body := m.Body()

	for i := 1; i <= body.ExprCount(); i++ {
		id := hir.ExprID(i)
		ptr, ok := m.ExprSyntax(id)
		if !ok {
			continue // synthesized node
		}
		back, ok := m.SyntaxExpr(ptr)
		if !ok {
			t.Errorf("expr %d: pointer %s missing from forward map", i, ptr)
			continue
		}
		if back != id {
			t.Errorf("expr %d: forward map returns %d", i, back)
		}
	}

	for i := 1; i <= body.PatCount(); i++ {
		id := hir.PatID(i)
		ptr, ok := m.PatSyntax(id)
		if !ok {
			continue
		}
		back, ok := m.SyntaxPat(ptr)
		if !ok {
			t.Errorf("pat %d: pointer %s missing from forward map", i, ptr)
			continue
		}
		if back != id {
			t.Errorf("pat %d: forward map returns %d", i, back)
		}
	}
}

func TestParensAreTransparent(t *testing.T) {
	src := `
fn paren(flag: bool) -> bool {
    (flag)
}
`
	tree, m := lowerFn(t, src, "paren")
	body := m.Body()

	root := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	inner := body.Expr(root.Tail)
	if inner.Kind != hir.ExprPath {
		t.Fatalf("tail is %s, want the inner Path", inner.Kind)
	}

	// The paren node's pointer maps to the inner expression's id.
	offset := uint32(strings.Index(src, "(flag)"))
	parenNode := syntax.NodeAtOffset(tree, offset)
	for parenNode != nil && parenNode.Kind() != syntax.KindParenExpr {
		parenNode = parenNode.Parent()
	}
	if parenNode == nil {
		t.Fatal("no parenthesized_expression in fixture")
	}
	id, ok := m.SyntaxExpr(syntax.NewNodePtr(parenNode))
	if !ok {
		t.Fatal("paren pointer must be in the forward map")
	}
	if id != root.Tail {
		t.Errorf("paren maps to %d, inner expr is %d", id, root.Tail)
	}

	// The back map keeps the inner node's pointer, not the paren's.
	backPtr, ok := m.ExprSyntax(id)
	if !ok {
		t.Fatal("inner expr must have a pointer")
	}
	if backPtr.Kind != syntax.KindIdentifier {
		t.Errorf("back pointer kind = %s, want identifier", backPtr.Kind)
	}
}

func TestIfLetDesugarsToTwoArmMatch(t *testing.T) {
	_, m := lowerFn(t, `
fn unwrap_or_zero(input: Option<i32>) -> i32 {
    if let Some(v) = input { v } else { fallback() }
}
`, "unwrap_or_zero")
	body := m.Body()

	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	matchExpr := body.Expr(block.Tail)
	if matchExpr.Kind != hir.ExprMatch {
		t.Fatalf("if-let lowered to %s, want Match", matchExpr.Kind)
	}
	data := matchExpr.Data.(hir.MatchData)
	if len(data.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(data.Arms))
	}

	first := data.Arms[0]
	if len(first.Pats) != 1 {
		t.Fatalf("first arm has %d pats", len(first.Pats))
	}
	if pat := body.Pat(first.Pats[0]); pat.Kind != hir.PatTupleStruct {
		t.Errorf("first arm pat is %s, want TupleStruct", pat.Kind)
	}

	second := data.Arms[1]
	if len(second.Pats) != 1 {
		t.Fatalf("second arm has %d pats", len(second.Pats))
	}
	placeholder := body.Pat(second.Pats[0])
	if placeholder.Kind != hir.PatMissing {
		t.Errorf("catch-all pat is %s, want Missing", placeholder.Kind)
	}
	if _, ok := m.PatSyntax(second.Pats[0]); ok {
		t.Error("synthesized catch-all pattern must have no syntax pointer")
	}
}

func TestIfLetWithoutElseGetsEmptyBlockArm(t *testing.T) {
	_, m := lowerFn(t, `
fn observe(input: Option<i32>) {
    if let Some(v) = input { consume(v); }
}
`, "observe")
	body := m.Body()

	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	data := body.Expr(firstExpr(t, body, block)).Data.(hir.MatchData)
	catchAll := body.Expr(data.Arms[1].Expr)
	if catchAll.Kind != hir.ExprBlock {
		t.Fatalf("catch-all arm expr is %s, want empty Block", catchAll.Kind)
	}
	blockData := catchAll.Data.(hir.BlockData)
	if len(blockData.Statements) != 0 || blockData.Tail.IsValid() {
		t.Error("catch-all block must be empty")
	}
	if _, ok := m.ExprSyntax(data.Arms[1].Expr); ok {
		t.Error("synthesized empty block must have no syntax pointer")
	}
}

func TestPlainIfStaysIf(t *testing.T) {
	_, m := lowerFn(t, `
fn pick(flag: bool) -> i32 {
    if flag { one() } else { two() }
}
`, "pick")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	ifExpr := body.Expr(block.Tail)
	if ifExpr.Kind != hir.ExprIf {
		t.Fatalf("plain if lowered to %s", ifExpr.Kind)
	}
	data := ifExpr.Data.(hir.IfData)
	if !data.Condition.IsValid() || !data.Then.IsValid() || !data.Else.IsValid() {
		t.Error("all three positions must be filled")
	}
}

func TestIfWithoutElseHasNoElseBranch(t *testing.T) {
	_, m := lowerFn(t, `
fn guard(flag: bool) {
    if flag { act(); }
}
`, "guard")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	data := body.Expr(firstExpr(t, body, block)).Data.(hir.IfData)
	if data.Else.IsValid() {
		t.Error("if without else must keep Else unset")
	}
}

func TestWhileLetLowersToMissing(t *testing.T) {
	_, m := lowerFn(t, `
fn drain(mut rx: Receiver) {
    while let Some(item) = rx.next() { handle(item); }
}
`, "drain")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	e := body.Expr(firstExpr(t, body, block))
	if e.Kind != hir.ExprMissing {
		t.Errorf("while-let lowered to %s, want Missing", e.Kind)
	}
}

func TestShorthandFieldSynthesizesPath(t *testing.T) {
	src := `
fn build(x: i32) -> Point {
    Point { x, y: base() }
}
`
	tree, m := lowerFn(t, src, "build")
	body := m.Body()

	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	lit := body.Expr(block.Tail)
	if lit.Kind != hir.ExprStructLit {
		t.Fatalf("tail is %s, want StructLit", lit.Kind)
	}
	data := lit.Data.(hir.StructLitData)
	if len(data.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(data.Fields))
	}

	shorthand := data.Fields[0]
	if shorthand.Name != "x" {
		t.Fatalf("first field is %q", shorthand.Name)
	}
	fieldExpr := body.Expr(shorthand.Expr)
	if fieldExpr.Kind != hir.ExprPath {
		t.Fatalf("shorthand field expr is %s, want Path", fieldExpr.Kind)
	}

	// The pointer is the name token inside the literal, not the parameter.
	ptr, ok := m.ExprSyntax(shorthand.Expr)
	if !ok {
		t.Fatal("shorthand path must have a syntax pointer")
	}
	wantStart := uint32(strings.Index(src, "{ x,")) + 2
	if ptr.Range.Start != wantStart {
		t.Errorf("pointer starts at %d, want %d (the x inside the braces)", ptr.Range.Start, wantStart)
	}
	node := ptr.Resolve(tree)
	if node.Kind() != syntax.KindIdentifier || tree.Text(node) != "x" {
		t.Errorf("pointer resolves to %s %q", node.Kind(), tree.Text(node))
	}
}

func TestSelfBindingIsFirstArg(t *testing.T) {
	src := `
struct Counter { n: i32 }
impl Counter {
    fn bump(&mut self, by: i32) { self.n; }
}
`
	tree, m := lowerFn(t, src, "bump")
	body := m.Body()

	if len(body.Args()) != 2 {
		t.Fatalf("expected 2 args (self + by), got %d", len(body.Args()))
	}
	selfPat := body.Pat(body.Args()[0])
	if selfPat.Kind != hir.PatBind {
		t.Fatalf("self pattern is %s", selfPat.Kind)
	}
	if name := selfPat.Data.(hir.BindPatData).Name; name != hir.SelfName {
		t.Errorf("self binding name = %q", name)
	}

	ptr, ok := m.PatSyntax(body.Args()[0])
	if !ok {
		t.Fatal("self binding must point at the self token")
	}
	node := ptr.Resolve(tree)
	if tree.Text(node) != "self" {
		t.Errorf("self pointer resolves to %q", tree.Text(node))
	}
}

func TestMethodCallSplitsReceiver(t *testing.T) {
	_, m := lowerFn(t, `
fn run(conn: Conn) {
    conn.send(payload());
}
`, "run")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	call := body.Expr(block.Statements[0].Expr)
	if call.Kind != hir.ExprMethodCall {
		t.Fatalf("lowered to %s, want MethodCall", call.Kind)
	}
	data := call.Data.(hir.MethodCallData)
	if data.Method != "send" {
		t.Errorf("method = %q", data.Method)
	}
	if recv := body.Expr(data.Receiver); recv.Kind != hir.ExprPath {
		t.Errorf("receiver is %s, want Path", recv.Kind)
	}
	if len(data.Args) != 1 {
		t.Errorf("expected 1 arg, got %d", len(data.Args))
	}
}

func TestUnmodeledFormsLowerToMissing(t *testing.T) {
	_, m := lowerFn(t, `
fn odds(items: Vec<i32>) {
    items[0];
    (1, 2);
    [3, 4];
    1..10;
    42;
    "text";
    true;
}
`, "odds")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	if len(block.Statements) != 7 {
		t.Fatalf("expected 7 statements, got %d", len(block.Statements))
	}
	for i, stmt := range block.Statements {
		if !stmt.Expr.IsValid() {
			t.Fatalf("statement %d: id must be valid even for unmodeled syntax", i)
		}
		if e := body.Expr(stmt.Expr); e.Kind != hir.ExprMissing {
			t.Errorf("statement %d lowered to %s, want Missing", i, e.Kind)
		}
	}
}

func TestSiblingStatementsKeepArenaOrder(t *testing.T) {
	_, m := lowerFn(t, `
fn seq() {
    first();
    second();
    third();
}
`, "seq")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	var prev hir.ExprID
	for i, stmt := range block.Statements {
		if stmt.Expr <= prev {
			t.Errorf("statement %d: id %d not after previous %d", i, stmt.Expr, prev)
		}
		prev = stmt.Expr
	}
}

func TestLoopConstructsAndJumps(t *testing.T) {
	_, m := lowerFn(t, `
fn spin(n: i32) -> i32 {
    loop {
        if done() {
            break result();
        }
        continue;
    }
}
`, "spin")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	loop := body.Expr(block.Tail)
	if loop.Kind != hir.ExprLoop {
		t.Fatalf("tail is %s, want Loop", loop.Kind)
	}

	var sawBreak, sawContinue bool
	for i := 1; i <= body.ExprCount(); i++ {
		e := body.Expr(hir.ExprID(i))
		switch e.Kind {
		case hir.ExprBreak:
			sawBreak = true
			if !e.Data.(hir.BreakData).Expr.IsValid() {
				t.Error("break value must be lowered")
			}
		case hir.ExprContinue:
			sawContinue = true
		}
	}
	if !sawBreak || !sawContinue {
		t.Errorf("missing jump exprs: break=%v continue=%v", sawBreak, sawContinue)
	}
}

func TestClosureArgsAndAnnotations(t *testing.T) {
	_, m := lowerFn(t, `
fn apply() {
    run(|a: i32, b| combine(a, b));
}
`, "apply")
	body := m.Body()

	var lambda *hir.LambdaData
	for i := 1; i <= body.ExprCount(); i++ {
		if e := body.Expr(hir.ExprID(i)); e.Kind == hir.ExprLambda {
			data := e.Data.(hir.LambdaData)
			lambda = &data
		}
	}
	if lambda == nil {
		t.Fatal("no lambda lowered")
	}
	if len(lambda.Args) != 2 || len(lambda.ArgTypes) != 2 {
		t.Fatalf("args=%d types=%d", len(lambda.Args), len(lambda.ArgTypes))
	}
	if lambda.ArgTypes[0] == nil || lambda.ArgTypes[0].Text != "i32" {
		t.Error("first closure arg must carry its annotation")
	}
	if lambda.ArgTypes[1] != nil {
		t.Error("second closure arg has no annotation")
	}
	if !lambda.Body.IsValid() {
		t.Error("closure body must be lowered")
	}
}

func TestMatchArmsAndOrPatterns(t *testing.T) {
	_, m := lowerFn(t, `
fn classify(e: Event) -> i32 {
    match e {
        Event::Start(at) => at,
        other => fallback(other),
    }
}
`, "classify")
	body := m.Body()
	block := body.Expr(body.BodyExpr()).Data.(hir.BlockData)
	data := body.Expr(block.Tail).Data.(hir.MatchData)
	if len(data.Arms) != 2 {
		t.Fatalf("expected 2 arms, got %d", len(data.Arms))
	}
	if pat := body.Pat(data.Arms[0].Pats[0]); pat.Kind != hir.PatTupleStruct {
		t.Errorf("first arm pat is %s", pat.Kind)
	}
	if pat := body.Pat(data.Arms[1].Pats[0]); pat.Kind != hir.PatBind {
		t.Errorf("second arm pat is %s", pat.Kind)
	}
}

func TestLowerPanicsOnBodylessNode(t *testing.T) {
	tree := syntax.Parse([]byte("struct S;"))
	defer tree.Close()
	node := syntax.FirstChildOfKind(tree.Root(), syntax.KindStructItem)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic lowering a struct as a body")
		}
	}()
	hir.LowerFunctionBody(tree, node)
}
