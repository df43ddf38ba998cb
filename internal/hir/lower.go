package hir

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"quarry/internal/arena"
	"quarry/internal/syntax"
)

// LowerFunctionBody lowers one function's concrete-syntax body into a
// fresh Body plus its syntax mapping. It is a single recursive-descent
// pass with deterministic allocation order: children left to right, then
// the parent, so ids of one statement all precede ids of later sibling
// statements. Scope construction depends on that ordering.
//
// Lowering never fails structurally: unsupported or absent syntax degrades
// to Missing nodes. fnNode must be a function_item; handing anything else
// in is a caller contract violation.
func LowerFunctionBody(tree *syntax.Tree, fnNode *sitter.Node) *BodySourceMap {
	if fnNode.Kind() != syntax.KindFunctionItem {
		panic(fmt.Sprintf("trying to lower body of %s, which has no body", fnNode.Kind()))
	}

	l := newLowerer(tree)

	var args []PatID
	if params := fnNode.ChildByFieldName("parameters"); params != nil {
		for _, param := range syntax.NamedChildren(params) {
			switch param.Kind() {
			case syntax.KindSelfParameter:
				// The self binding has no pattern syntax of its own; point
				// it at the `self` keyword token.
				selfTok := syntax.FirstChildOfKind(param, syntax.KindSelf)
				if selfTok == nil {
					selfTok = param
				}
				args = append(args, l.allocPat(
					Pat{Kind: PatBind, Data: BindPatData{Name: SelfName}},
					syntax.NewNodePtr(selfTok),
				))
			case syntax.KindParameter:
				pat := param.ChildByFieldName("pattern")
				if pat == nil {
					continue
				}
				args = append(args, l.collectPat(pat))
			}
		}
	}

	bodyExpr := l.collectBlockOpt(fnNode.ChildByFieldName("body"))
	return l.finish(args, bodyExpr)
}

// lowerer accumulates arenas and syntax maps during one lowering pass.
type lowerer struct {
	tree        *syntax.Tree
	exprs       *arena.Arena[Expr]
	pats        *arena.Arena[Pat]
	exprMap     map[syntax.NodePtr]ExprID
	exprMapBack map[ExprID]syntax.NodePtr
	patMap      map[syntax.NodePtr]PatID
	patMapBack  map[PatID]syntax.NodePtr
}

func newLowerer(tree *syntax.Tree) *lowerer {
	return &lowerer{
		tree:        tree,
		exprs:       arena.New[Expr](32),
		pats:        arena.New[Pat](8),
		exprMap:     make(map[syntax.NodePtr]ExprID),
		exprMapBack: make(map[ExprID]syntax.NodePtr),
		patMap:      make(map[syntax.NodePtr]PatID),
		patMapBack:  make(map[PatID]syntax.NodePtr),
	}
}

func (l *lowerer) finish(args []PatID, bodyExpr ExprID) *BodySourceMap {
	body := &Body{
		exprs:    l.exprs,
		pats:     l.pats,
		args:     args,
		bodyExpr: bodyExpr,
	}
	return &BodySourceMap{
		body:        body,
		exprMap:     l.exprMap,
		exprMapBack: l.exprMapBack,
		patMap:      l.patMap,
		patMapBack:  l.patMapBack,
	}
}

func (l *lowerer) allocExpr(expr Expr, ptr syntax.NodePtr) ExprID {
	id := ExprID(l.exprs.Allocate(expr))
	l.exprMap[ptr] = id
	l.exprMapBack[id] = ptr
	return id
}

// allocExprSynthetic allocates an expression with no syntax counterpart.
func (l *lowerer) allocExprSynthetic(expr Expr) ExprID {
	return ExprID(l.exprs.Allocate(expr))
}

func (l *lowerer) allocPat(pat Pat, ptr syntax.NodePtr) PatID {
	id := PatID(l.pats.Allocate(pat))
	l.patMap[ptr] = id
	l.patMapBack[id] = ptr
	return id
}

func (l *lowerer) allocPatSynthetic(pat Pat) PatID {
	return PatID(l.pats.Allocate(pat))
}

func (l *lowerer) missingExpr() ExprID {
	return l.allocExprSynthetic(Expr{Kind: ExprMissing})
}

func (l *lowerer) emptyBlock() ExprID {
	return l.allocExprSynthetic(Expr{Kind: ExprBlock, Data: BlockData{}})
}

func (l *lowerer) collectExprOpt(node *sitter.Node) ExprID {
	if node == nil {
		return l.missingExpr()
	}
	return l.collectExpr(node)
}

func (l *lowerer) collectExpr(node *sitter.Node) ExprID {
	ptr := syntax.NewNodePtr(node)
	if syntax.IsLiteral(node.Kind()) {
		// No literal variant in the IR yet.
		return l.allocExpr(Expr{Kind: ExprMissing}, ptr)
	}
	switch node.Kind() {
	case syntax.KindParenExpr:
		// Parens are transparent: no arena entry of their own, the paren
		// node's pointer maps onto the inner expression's id.
		var inner *sitter.Node
		if children := syntax.NamedChildren(node); len(children) > 0 {
			inner = children[0]
		}
		id := l.collectExprOpt(inner)
		l.exprMap[ptr] = id
		return id

	case syntax.KindIfExpr:
		return l.collectIf(node, ptr)

	case syntax.KindBlock:
		return l.collectBlock(node)

	case syntax.KindLoopExpr:
		body := l.collectBlockOpt(node.ChildByFieldName("body"))
		return l.allocExpr(Expr{Kind: ExprLoop, Data: LoopData{Body: body}}, ptr)

	case syntax.KindWhileExpr:
		cond := node.ChildByFieldName("condition")
		if cond != nil && cond.Kind() == syntax.KindLetCondition {
			// while-let is not supported yet; degrade the whole loop to a
			// Missing marker rather than guessing a desugaring.
			return l.allocExpr(Expr{Kind: ExprMissing}, ptr)
		}
		condition := l.collectExprOpt(cond)
		body := l.collectBlockOpt(node.ChildByFieldName("body"))
		return l.allocExpr(Expr{Kind: ExprWhile, Data: WhileData{Condition: condition, Body: body}}, ptr)

	case syntax.KindForExpr:
		iterable := l.collectExprOpt(node.ChildByFieldName("value"))
		pat := l.collectPatOpt(node.ChildByFieldName("pattern"))
		body := l.collectBlockOpt(node.ChildByFieldName("body"))
		return l.allocExpr(Expr{Kind: ExprFor, Data: ForData{Iterable: iterable, Pat: pat, Body: body}}, ptr)

	case syntax.KindCallExpr:
		return l.collectCall(node, ptr)

	case syntax.KindMatchExpr:
		return l.collectMatch(node, ptr)

	case syntax.KindIdentifier, syntax.KindScopedIdentifier, syntax.KindSelf, "super", "crate":
		path := PathFromText(l.tree.Text(node))
		if len(path.Segments) == 0 {
			return l.allocExpr(Expr{Kind: ExprMissing}, ptr)
		}
		return l.allocExpr(Expr{Kind: ExprPath, Data: PathData{Path: path}}, ptr)

	case syntax.KindContinueExpr:
		return l.allocExpr(Expr{Kind: ExprContinue, Data: ContinueData{}}, ptr)

	case syntax.KindBreakExpr:
		value := NoExprID
		for _, child := range syntax.NamedChildren(node) {
			if child.Kind() == syntax.KindLoopLabel {
				continue
			}
			value = l.collectExpr(child)
			break
		}
		return l.allocExpr(Expr{Kind: ExprBreak, Data: BreakData{Expr: value}}, ptr)

	case syntax.KindReturnExpr:
		value := NoExprID
		if children := syntax.NamedChildren(node); len(children) > 0 {
			value = l.collectExpr(children[0])
		}
		return l.allocExpr(Expr{Kind: ExprReturn, Data: ReturnData{Expr: value}}, ptr)

	case syntax.KindStructExpr:
		return l.collectStructLit(node, ptr)

	case syntax.KindFieldExpr:
		expr := l.collectExprOpt(node.ChildByFieldName("value"))
		name := l.nameOfField(node)
		return l.allocExpr(Expr{Kind: ExprField, Data: FieldData{Expr: expr, Name: name}}, ptr)

	case syntax.KindTryExpr:
		var inner *sitter.Node
		if children := syntax.NamedChildren(node); len(children) > 0 {
			inner = children[0]
		}
		expr := l.collectExprOpt(inner)
		return l.allocExpr(Expr{Kind: ExprTry, Data: TryData{Expr: expr}}, ptr)

	case syntax.KindCastExpr:
		expr := l.collectExprOpt(node.ChildByFieldName("value"))
		typeRef := l.typeRefOpt(node.ChildByFieldName("type"))
		return l.allocExpr(Expr{Kind: ExprCast, Data: CastData{Expr: expr, Type: typeRef}}, ptr)

	case syntax.KindRefExpr:
		expr := l.collectExprOpt(node.ChildByFieldName("value"))
		mutability := Shared
		if syntax.FirstChildOfKind(node, syntax.KindMutableSpecifier) != nil {
			mutability = Mut
		}
		return l.allocExpr(Expr{Kind: ExprRef, Data: RefData{Expr: expr, Mutability: mutability}}, ptr)

	case syntax.KindUnaryExpr:
		var operand *sitter.Node
		if children := syntax.NamedChildren(node); len(children) > 0 {
			operand = children[0]
		}
		expr := l.collectExprOpt(operand)
		op := ""
		if node.ChildCount() > 0 {
			op = l.tree.Text(node.Child(0))
		}
		return l.allocExpr(Expr{Kind: ExprUnaryOp, Data: UnaryOpData{Expr: expr, Op: op}}, ptr)

	case syntax.KindBinaryExpr:
		lhs := l.collectExprOpt(node.ChildByFieldName("left"))
		rhs := l.collectExprOpt(node.ChildByFieldName("right"))
		op := ""
		if opNode := node.ChildByFieldName("operator"); opNode != nil {
			op = l.tree.Text(opNode)
		}
		return l.allocExpr(Expr{Kind: ExprBinaryOp, Data: BinaryOpData{LHS: lhs, RHS: rhs, Op: op}}, ptr)

	case syntax.KindClosureExpr:
		return l.collectClosure(node, ptr)

	default:
		// index, tuple, array, range, labels: not modeled yet.
		return l.allocExpr(Expr{Kind: ExprMissing}, ptr)
	}
}

func (l *lowerer) collectIf(node *sitter.Node, ptr syntax.NodePtr) ExprID {
	cond := node.ChildByFieldName("condition")

	if cond != nil && cond.Kind() == syntax.KindLetCondition {
		// if-let desugars to a two-arm match: the bound pattern, then a
		// synthesized catch-all.
		pat := l.collectPatOpt(cond.ChildByFieldName("pattern"))
		matchExpr := l.collectExprOpt(cond.ChildByFieldName("value"))
		thenBranch := l.collectBlockOpt(node.ChildByFieldName("consequence"))
		elseBranch := l.collectElseClause(node.ChildByFieldName("alternative"))
		if !elseBranch.IsValid() {
			elseBranch = l.emptyBlock()
		}
		placeholderPat := l.allocPatSynthetic(Pat{Kind: PatMissing})
		arms := []MatchArm{
			{Pats: []PatID{pat}, Expr: thenBranch},
			{Pats: []PatID{placeholderPat}, Expr: elseBranch},
		}
		return l.allocExpr(Expr{Kind: ExprMatch, Data: MatchData{Expr: matchExpr, Arms: arms}}, ptr)
	}

	condition := l.collectExprOpt(cond)
	thenBranch := l.collectBlockOpt(node.ChildByFieldName("consequence"))
	elseBranch := l.collectElseClause(node.ChildByFieldName("alternative"))
	return l.allocExpr(Expr{Kind: ExprIf, Data: IfData{
		Condition: condition,
		Then:      thenBranch,
		Else:      elseBranch,
	}}, ptr)
}

// collectElseClause lowers an else_clause's payload (a block or a chained
// if), returning NoExprID when there is no else branch.
func (l *lowerer) collectElseClause(alt *sitter.Node) ExprID {
	if alt == nil {
		return NoExprID
	}
	children := syntax.NamedChildren(alt)
	if len(children) == 0 {
		return l.missingExpr()
	}
	return l.collectExpr(children[0])
}

func (l *lowerer) collectCall(node *sitter.Node, ptr syntax.NodePtr) ExprID {
	function := node.ChildByFieldName("function")

	// `recv.name(args)` parses as a call of a field expression; lower it
	// as a method call so the receiver/method split is explicit in the IR.
	if function != nil && function.Kind() == syntax.KindFieldExpr {
		receiver := l.collectExprOpt(function.ChildByFieldName("value"))
		method := l.nameOfField(function)
		args := l.collectArgs(node.ChildByFieldName("arguments"))
		return l.allocExpr(Expr{Kind: ExprMethodCall, Data: MethodCallData{
			Receiver: receiver,
			Method:   method,
			Args:     args,
		}}, ptr)
	}

	callee := l.collectExprOpt(function)
	args := l.collectArgs(node.ChildByFieldName("arguments"))
	return l.allocExpr(Expr{Kind: ExprCall, Data: CallData{Callee: callee, Args: args}}, ptr)
}

func (l *lowerer) collectArgs(argList *sitter.Node) []ExprID {
	if argList == nil {
		return nil
	}
	var args []ExprID
	for _, arg := range syntax.NamedChildren(argList) {
		args = append(args, l.collectExpr(arg))
	}
	return args
}

func (l *lowerer) collectMatch(node *sitter.Node, ptr syntax.NodePtr) ExprID {
	value := l.collectExprOpt(node.ChildByFieldName("value"))
	var arms []MatchArm
	if body := node.ChildByFieldName("body"); body != nil {
		for _, armNode := range syntax.ChildrenOfKind(body, syntax.KindMatchArm) {
			arms = append(arms, MatchArm{
				Pats: l.collectArmPats(armNode.ChildByFieldName("pattern")),
				Expr: l.collectExprOpt(armNode.ChildByFieldName("value")),
			})
		}
	}
	return l.allocExpr(Expr{Kind: ExprMatch, Data: MatchData{Expr: value, Arms: arms}}, ptr)
}

// collectArmPats lowers a match arm's pattern position. Or-pattern
// alternatives become separate entries; a guard condition is signature
// only for later stages and is skipped here.
func (l *lowerer) collectArmPats(patNode *sitter.Node) []PatID {
	if patNode == nil {
		return []PatID{l.allocPatSynthetic(Pat{Kind: PatMissing})}
	}
	if patNode.Kind() == syntax.KindMatchPattern {
		guard := patNode.ChildByFieldName("condition")
		var pats []PatID
		for _, child := range syntax.NamedChildren(patNode) {
			if guard != nil && child.StartByte() == guard.StartByte() && child.Kind() == guard.Kind() {
				continue
			}
			if child.Kind() == "or_pattern" {
				for _, alt := range syntax.NamedChildren(child) {
					pats = append(pats, l.collectPat(alt))
				}
				continue
			}
			pats = append(pats, l.collectPat(child))
		}
		if len(pats) == 0 {
			pats = append(pats, l.allocPat(Pat{Kind: PatMissing}, syntax.NewNodePtr(patNode)))
		}
		return pats
	}
	return []PatID{l.collectPat(patNode)}
}

func (l *lowerer) collectStructLit(node *sitter.Node, ptr syntax.NodePtr) ExprID {
	var path Path
	if name := node.ChildByFieldName("name"); name != nil {
		path = PathFromText(l.tree.Text(name))
	}

	var fields []StructLitField
	spread := NoExprID
	if body := node.ChildByFieldName("body"); body != nil {
		for _, init := range syntax.NamedChildren(body) {
			switch init.Kind() {
			case syntax.KindFieldInit:
				fields = append(fields, l.collectFieldInit(init))
			case syntax.KindShorthandInit:
				if field, ok := l.collectShorthandInit(init); ok {
					fields = append(fields, field)
				}
			case syntax.KindBaseFieldInit:
				if children := syntax.NamedChildren(init); len(children) > 0 {
					spread = l.collectExpr(children[0])
				}
			}
		}
	}
	return l.allocExpr(Expr{Kind: ExprStructLit, Data: StructLitData{
		Path:   path,
		Fields: fields,
		Spread: spread,
	}}, ptr)
}

func (l *lowerer) collectFieldInit(init *sitter.Node) StructLitField {
	name := MissingName()
	var valueNode *sitter.Node
	if fieldNode := init.ChildByFieldName("field"); fieldNode != nil {
		name = Name(l.tree.Text(fieldNode))
	}
	if value := init.ChildByFieldName("value"); value != nil {
		valueNode = value
	}
	if name == MissingName() || valueNode == nil {
		// Grammar versions differ in field naming; fall back to positional
		// children: name first, value second.
		children := syntax.NamedChildren(init)
		for _, child := range children {
			if child.Kind() == syntax.KindFieldIdentifier && name == MissingName() {
				name = Name(l.tree.Text(child))
			} else if valueNode == nil && child.Kind() != syntax.KindFieldIdentifier {
				valueNode = child
			}
		}
	}
	return StructLitField{Name: name, Expr: l.collectExprOpt(valueNode)}
}

// collectShorthandInit lowers `Foo { x }`: the field value is a
// synthesized path expression whose pointer is the `x` name token itself,
// so position-based lookups inside the shorthand land on the reference.
func (l *lowerer) collectShorthandInit(init *sitter.Node) (StructLitField, bool) {
	var nameNode *sitter.Node
	for _, child := range syntax.NamedChildren(init) {
		if child.Kind() == syntax.KindIdentifier {
			nameNode = child
			break
		}
	}
	if nameNode == nil {
		return StructLitField{}, false
	}
	name := Name(l.tree.Text(nameNode))
	id := l.allocExpr(
		Expr{Kind: ExprPath, Data: PathData{Path: Path{Segments: []Name{name}}}},
		syntax.NewNodePtr(nameNode),
	)
	return StructLitField{Name: name, Expr: id}, true
}

func (l *lowerer) collectClosure(node *sitter.Node, ptr syntax.NodePtr) ExprID {
	var args []PatID
	var argTypes []*TypeRef
	if params := node.ChildByFieldName("parameters"); params != nil {
		for _, param := range syntax.NamedChildren(params) {
			if param.Kind() == syntax.KindParameter {
				args = append(args, l.collectPatOpt(param.ChildByFieldName("pattern")))
				if typeNode := param.ChildByFieldName("type"); typeNode != nil {
					ref := l.typeRefOpt(typeNode)
					argTypes = append(argTypes, &ref)
				} else {
					argTypes = append(argTypes, nil)
				}
				continue
			}
			args = append(args, l.collectPat(param))
			argTypes = append(argTypes, nil)
		}
	}
	body := l.collectExprOpt(node.ChildByFieldName("body"))
	return l.allocExpr(Expr{Kind: ExprLambda, Data: LambdaData{
		Args:     args,
		ArgTypes: argTypes,
		Body:     body,
	}}, ptr)
}

func (l *lowerer) collectBlockOpt(node *sitter.Node) ExprID {
	if node == nil {
		return l.missingExpr()
	}
	return l.collectBlock(node)
}

func (l *lowerer) collectBlock(block *sitter.Node) ExprID {
	var statements []Statement
	tail := NoExprID

	children := syntax.NamedChildren(block)
	for i, child := range children {
		switch child.Kind() {
		case syntax.KindLetDeclaration:
			stmt := Statement{
				Kind:        StmtLet,
				Pat:         l.collectPatOpt(child.ChildByFieldName("pattern")),
				Initializer: NoExprID,
			}
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				ref := l.typeRefOpt(typeNode)
				stmt.Type = &ref
			}
			if value := child.ChildByFieldName("value"); value != nil {
				stmt.Initializer = l.collectExpr(value)
			}
			statements = append(statements, stmt)
		case syntax.KindExprStatement:
			var inner *sitter.Node
			if grand := syntax.NamedChildren(child); len(grand) > 0 {
				inner = grand[0]
			}
			statements = append(statements, Statement{Kind: StmtExpr, Expr: l.collectExprOpt(inner)})
		default:
			if syntax.IsItem(child.Kind()) || child.Kind() == "empty_statement" {
				continue
			}
			if i == len(children)-1 {
				tail = l.collectExpr(child)
			} else {
				statements = append(statements, Statement{Kind: StmtExpr, Expr: l.collectExpr(child)})
			}
		}
	}

	return l.allocExpr(
		Expr{Kind: ExprBlock, Data: BlockData{Statements: statements, Tail: tail}},
		syntax.NewNodePtr(block),
	)
}

func (l *lowerer) collectPatOpt(node *sitter.Node) PatID {
	if node == nil {
		return l.allocPatSynthetic(Pat{Kind: PatMissing})
	}
	return l.collectPat(node)
}

func (l *lowerer) collectPat(node *sitter.Node) PatID {
	ptr := syntax.NewNodePtr(node)
	switch node.Kind() {
	case syntax.KindIdentifier:
		name := Name(l.tree.Text(node))
		return l.allocPat(Pat{Kind: PatBind, Data: BindPatData{Name: name}}, ptr)

	case syntax.KindTupleStructPattern:
		var path Path
		typeNode := node.ChildByFieldName("type")
		if typeNode != nil {
			path = PathFromText(l.tree.Text(typeNode))
		}
		var args []PatID
		for _, child := range syntax.NamedChildren(node) {
			if typeNode != nil && child.StartByte() == typeNode.StartByte() && child.Kind() == typeNode.Kind() {
				continue
			}
			args = append(args, l.collectPat(child))
		}
		return l.allocPat(Pat{Kind: PatTupleStruct, Data: TupleStructPatData{Path: path, Args: args}}, ptr)

	default:
		// Wildcards, tuples, refs, slices, structs: not modeled yet.
		return l.allocPat(Pat{Kind: PatMissing}, ptr)
	}
}

func (l *lowerer) typeRefOpt(node *sitter.Node) TypeRef {
	if node == nil {
		return PlaceholderTypeRef()
	}
	return TypeRef{Text: l.tree.Text(node)}
}

func (l *lowerer) nameOfField(fieldExpr *sitter.Node) Name {
	if fieldNode := fieldExpr.ChildByFieldName("field"); fieldNode != nil {
		return Name(l.tree.Text(fieldNode))
	}
	return MissingName()
}
