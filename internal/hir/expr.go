package hir

// ExprKind enumerates body expression kinds. The set mirrors the surface
// language with minimal desugaring: the only rewrite done at lowering time
// is `if let`, which becomes a two-arm Match.
type ExprKind uint8

const (
	// ExprMissing is produced when the syntax tree lacks a required
	// expression piece, or uses a form the IR does not model yet (index,
	// tuple, array, range, label, literal). It carries no information;
	// consumers treat it as "nothing known", never as an error.
	ExprMissing ExprKind = iota
	// ExprPath is a (possibly qualified) reference.
	ExprPath
	// ExprIf is a conditional with an optional else branch.
	ExprIf
	// ExprBlock is `{ statements; tail }`.
	ExprBlock
	// ExprLoop is an unconditional loop.
	ExprLoop
	// ExprWhile is a boolean-condition loop. Pattern conditions
	// (`while let`) are not supported and lower to ExprMissing.
	ExprWhile
	// ExprFor is `for pat in iterable { body }`.
	ExprFor
	// ExprCall is a call with an expression callee.
	ExprCall
	// ExprMethodCall is `receiver.name(args)`.
	ExprMethodCall
	// ExprMatch is a match with an arm list.
	ExprMatch
	// ExprContinue is `continue`. Labels are not modeled.
	ExprContinue
	// ExprBreak is `break` with an optional value.
	ExprBreak
	// ExprReturn is `return` with an optional value.
	ExprReturn
	// ExprStructLit is a struct literal with named fields and an optional
	// spread.
	ExprStructLit
	// ExprField is field access.
	ExprField
	// ExprTry is the `?` operator.
	ExprTry
	// ExprCast is `expr as Type`.
	ExprCast
	// ExprRef is `&expr` / `&mut expr`.
	ExprRef
	// ExprUnaryOp is a prefix operator.
	ExprUnaryOp
	// ExprBinaryOp is an infix operator.
	ExprBinaryOp
	// ExprLambda is a closure: argument patterns, optional per-argument
	// type annotations, and a body.
	ExprLambda
)

func (k ExprKind) String() string {
	switch k {
	case ExprMissing:
		return "Missing"
	case ExprPath:
		return "Path"
	case ExprIf:
		return "If"
	case ExprBlock:
		return "Block"
	case ExprLoop:
		return "Loop"
	case ExprWhile:
		return "While"
	case ExprFor:
		return "For"
	case ExprCall:
		return "Call"
	case ExprMethodCall:
		return "MethodCall"
	case ExprMatch:
		return "Match"
	case ExprContinue:
		return "Continue"
	case ExprBreak:
		return "Break"
	case ExprReturn:
		return "Return"
	case ExprStructLit:
		return "StructLit"
	case ExprField:
		return "Field"
	case ExprTry:
		return "Try"
	case ExprCast:
		return "Cast"
	case ExprRef:
		return "Ref"
	case ExprUnaryOp:
		return "UnaryOp"
	case ExprBinaryOp:
		return "BinaryOp"
	case ExprLambda:
		return "Lambda"
	default:
		return "Unknown"
	}
}

// Expr is one node of a lowered body. Children are arena ids, never node
// values: every field of type ExprID/PatID in the payloads below is a
// valid arena index (allocating a Missing node where syntax is absent),
// except where the payload explicitly models optionality with the 0
// sentinel.
type Expr struct {
	Kind ExprKind
	Data ExprData
}

// ExprData is the kind-specific payload.
type ExprData interface {
	exprData()
}

// Mutability of a reference expression.
type Mutability uint8

const (
	Shared Mutability = iota
	Mut
)

func (m Mutability) String() string {
	if m == Mut {
		return "mut"
	}
	return "shared"
}

type PathData struct {
	Path Path
}

func (PathData) exprData() {}

type IfData struct {
	Condition ExprID
	Then      ExprID
	// Else is NoExprID when the `if` has no else branch.
	Else ExprID
}

func (IfData) exprData() {}

// StatementKind distinguishes block statements.
type StatementKind uint8

const (
	StmtLet StatementKind = iota
	StmtExpr
)

// Statement is one statement of a block. For StmtLet, Pat is always valid
// while Type and Initializer are optional; for StmtExpr only Expr is used.
type Statement struct {
	Kind StatementKind
	Pat  PatID
	Type *TypeRef
	// Initializer is NoExprID for `let x;`.
	Initializer ExprID
	Expr        ExprID
}

type BlockData struct {
	Statements []Statement
	// Tail is NoExprID when the block has no trailing expression.
	Tail ExprID
}

func (BlockData) exprData() {}

type LoopData struct {
	Body ExprID
}

func (LoopData) exprData() {}

type WhileData struct {
	Condition ExprID
	Body      ExprID
}

func (WhileData) exprData() {}

type ForData struct {
	Iterable ExprID
	Pat      PatID
	Body     ExprID
}

func (ForData) exprData() {}

type CallData struct {
	Callee ExprID
	Args   []ExprID
}

func (CallData) exprData() {}

type MethodCallData struct {
	Receiver ExprID
	Method   Name
	Args     []ExprID
}

func (MethodCallData) exprData() {}

// MatchArm is one arm of a match. Pats has one entry per or-pattern
// alternative.
type MatchArm struct {
	Pats []PatID
	Expr ExprID
}

type MatchData struct {
	Expr ExprID
	Arms []MatchArm
}

func (MatchData) exprData() {}

type ContinueData struct{}

func (ContinueData) exprData() {}

type BreakData struct {
	// Expr is NoExprID for a bare `break`.
	Expr ExprID
}

func (BreakData) exprData() {}

type ReturnData struct {
	// Expr is NoExprID for a bare `return`.
	Expr ExprID
}

func (ReturnData) exprData() {}

// StructLitField is one named field initializer. Shorthand initializers
// (`Foo { x }`) synthesize a Path expression for Expr whose pointer is the
// name token itself.
type StructLitField struct {
	Name Name
	Expr ExprID
}

type StructLitData struct {
	Path   Path
	Fields []StructLitField
	// Spread is NoExprID when there is no `..base`.
	Spread ExprID
}

func (StructLitData) exprData() {}

type FieldData struct {
	Expr ExprID
	Name Name
}

func (FieldData) exprData() {}

type TryData struct {
	Expr ExprID
}

func (TryData) exprData() {}

type CastData struct {
	Expr ExprID
	Type TypeRef
}

func (CastData) exprData() {}

type RefData struct {
	Expr       ExprID
	Mutability Mutability
}

func (RefData) exprData() {}

type UnaryOpData struct {
	Expr ExprID
	Op   string
}

func (UnaryOpData) exprData() {}

type BinaryOpData struct {
	LHS ExprID
	RHS ExprID
	Op  string
}

func (BinaryOpData) exprData() {}

type LambdaData struct {
	Args []PatID
	// ArgTypes is parallel to Args; nil entries mean no annotation.
	ArgTypes []*TypeRef
	Body     ExprID
}

func (LambdaData) exprData() {}

// WalkChildExprs calls f on each child expression id, in the natural
// left-to-right program order (condition before branches, callee before
// arguments, receiver before arguments). Scope construction downstream
// relies on this order.
func (e *Expr) WalkChildExprs(f func(ExprID)) {
	opt := func(id ExprID) {
		if id.IsValid() {
			f(id)
		}
	}
	switch data := e.Data.(type) {
	case IfData:
		f(data.Condition)
		f(data.Then)
		opt(data.Else)
	case BlockData:
		for _, stmt := range data.Statements {
			switch stmt.Kind {
			case StmtLet:
				opt(stmt.Initializer)
			case StmtExpr:
				f(stmt.Expr)
			}
		}
		opt(data.Tail)
	case LoopData:
		f(data.Body)
	case WhileData:
		f(data.Condition)
		f(data.Body)
	case ForData:
		f(data.Iterable)
		f(data.Body)
	case CallData:
		f(data.Callee)
		for _, arg := range data.Args {
			f(arg)
		}
	case MethodCallData:
		f(data.Receiver)
		for _, arg := range data.Args {
			f(arg)
		}
	case MatchData:
		f(data.Expr)
		for _, arm := range data.Arms {
			f(arm.Expr)
		}
	case BreakData:
		opt(data.Expr)
	case ReturnData:
		opt(data.Expr)
	case StructLitData:
		for _, field := range data.Fields {
			f(field.Expr)
		}
		opt(data.Spread)
	case FieldData:
		f(data.Expr)
	case TryData:
		f(data.Expr)
	case CastData:
		f(data.Expr)
	case RefData:
		f(data.Expr)
	case UnaryOpData:
		f(data.Expr)
	case BinaryOpData:
		f(data.LHS)
		f(data.RHS)
	case LambdaData:
		f(data.Body)
	}
}

// PatKind enumerates body pattern kinds. Forms beyond these lower to
// PatMissing.
type PatKind uint8

const (
	PatMissing PatKind = iota
	// PatBind captures a name.
	PatBind
	// PatTupleStruct is `Path(sub, patterns)`.
	PatTupleStruct
)

func (k PatKind) String() string {
	switch k {
	case PatBind:
		return "Bind"
	case PatTupleStruct:
		return "TupleStruct"
	default:
		return "Missing"
	}
}

// Pat is one pattern node of a lowered body.
type Pat struct {
	Kind PatKind
	Data PatData
}

type PatData interface {
	patData()
}

type BindPatData struct {
	Name Name
}

func (BindPatData) patData() {}

type TupleStructPatData struct {
	Path Path
	Args []PatID
}

func (TupleStructPatData) patData() {}

// WalkChildPats calls f on each child pattern id in declaration order.
func (p *Pat) WalkChildPats(f func(PatID)) {
	if data, ok := p.Data.(TupleStructPatData); ok {
		for _, arg := range data.Args {
			f(arg)
		}
	}
}
