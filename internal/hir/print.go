package hir

import (
	"fmt"
	"io"
	"strings"
)

// Printer dumps a lowered body to a readable text form, mainly for the
// CLI and for tests that assert on lowering output.
type Printer struct {
	w      io.Writer
	body   *Body
	indent int
}

func NewPrinter(w io.Writer, body *Body) *Printer {
	return &Printer{w: w, body: body}
}

// DumpBody writes a formatted rendering of body to w.
func DumpBody(w io.Writer, body *Body) {
	p := NewPrinter(w, body)
	p.PrintBody()
}

// PrintBody prints the argument patterns and the body expression.
func (p *Printer) PrintBody() {
	p.printf("args:")
	if len(p.body.Args()) == 0 {
		p.printf(" (none)")
	}
	p.printf("\n")
	p.indent++
	for _, arg := range p.body.Args() {
		p.printIndent()
		p.printPat(arg)
		p.printf("\n")
	}
	p.indent--

	p.printf("body:\n")
	p.indent++
	p.printIndent()
	p.printExpr(p.body.BodyExpr())
	p.printf("\n")
	p.indent--
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) printIndent() {
	p.printf("%s", strings.Repeat("  ", p.indent))
}

func (p *Printer) printExpr(id ExprID) {
	if !id.IsValid() {
		p.printf("<none>")
		return
	}
	e := p.body.Expr(id)
	switch data := e.Data.(type) {
	case PathData:
		p.printf("path(%s)", data.Path)
	case IfData:
		p.printf("if ")
		p.printExpr(data.Condition)
		p.printf(" then ")
		p.printExpr(data.Then)
		if data.Else.IsValid() {
			p.printf(" else ")
			p.printExpr(data.Else)
		}
	case BlockData:
		p.printBlock(data)
	case LoopData:
		p.printf("loop ")
		p.printExpr(data.Body)
	case WhileData:
		p.printf("while ")
		p.printExpr(data.Condition)
		p.printf(" ")
		p.printExpr(data.Body)
	case ForData:
		p.printf("for ")
		p.printPat(data.Pat)
		p.printf(" in ")
		p.printExpr(data.Iterable)
		p.printf(" ")
		p.printExpr(data.Body)
	case CallData:
		p.printExpr(data.Callee)
		p.printExprList(data.Args)
	case MethodCallData:
		p.printExpr(data.Receiver)
		p.printf(".%s", data.Method)
		p.printExprList(data.Args)
	case MatchData:
		p.printf("match ")
		p.printExpr(data.Expr)
		p.printf(" {\n")
		p.indent++
		for _, arm := range data.Arms {
			p.printIndent()
			for i, pat := range arm.Pats {
				if i > 0 {
					p.printf(" | ")
				}
				p.printPat(pat)
			}
			p.printf(" => ")
			p.printExpr(arm.Expr)
			p.printf("\n")
		}
		p.indent--
		p.printIndent()
		p.printf("}")
	case ContinueData:
		p.printf("continue")
	case BreakData:
		p.printf("break")
		if data.Expr.IsValid() {
			p.printf(" ")
			p.printExpr(data.Expr)
		}
	case ReturnData:
		p.printf("return")
		if data.Expr.IsValid() {
			p.printf(" ")
			p.printExpr(data.Expr)
		}
	case StructLitData:
		p.printf("%s {", data.Path)
		for i, field := range data.Fields {
			if i > 0 {
				p.printf(",")
			}
			p.printf(" %s: ", field.Name)
			p.printExpr(field.Expr)
		}
		if data.Spread.IsValid() {
			p.printf(" ..")
			p.printExpr(data.Spread)
		}
		p.printf(" }")
	case FieldData:
		p.printExpr(data.Expr)
		p.printf(".%s", data.Name)
	case TryData:
		p.printExpr(data.Expr)
		p.printf("?")
	case CastData:
		p.printExpr(data.Expr)
		p.printf(" as %s", data.Type)
	case RefData:
		if data.Mutability == Mut {
			p.printf("&mut ")
		} else {
			p.printf("&")
		}
		p.printExpr(data.Expr)
	case UnaryOpData:
		p.printf("%s", data.Op)
		p.printExpr(data.Expr)
	case BinaryOpData:
		p.printf("(")
		p.printExpr(data.LHS)
		p.printf(" %s ", data.Op)
		p.printExpr(data.RHS)
		p.printf(")")
	case LambdaData:
		p.printf("|")
		for i, arg := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printPat(arg)
		}
		p.printf("| ")
		p.printExpr(data.Body)
	default:
		p.printf("<missing>")
	}
}

func (p *Printer) printExprList(args []ExprID) {
	p.printf("(")
	for i, arg := range args {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(arg)
	}
	p.printf(")")
}

func (p *Printer) printBlock(block BlockData) {
	if len(block.Statements) == 0 && !block.Tail.IsValid() {
		p.printf("{}")
		return
	}
	p.printf("{\n")
	p.indent++
	for _, stmt := range block.Statements {
		p.printIndent()
		switch stmt.Kind {
		case StmtLet:
			p.printf("let ")
			p.printPat(stmt.Pat)
			if stmt.Type != nil {
				p.printf(": %s", stmt.Type)
			}
			if stmt.Initializer.IsValid() {
				p.printf(" = ")
				p.printExpr(stmt.Initializer)
			}
		case StmtExpr:
			p.printExpr(stmt.Expr)
		}
		p.printf(";\n")
	}
	if block.Tail.IsValid() {
		p.printIndent()
		p.printExpr(block.Tail)
		p.printf("\n")
	}
	p.indent--
	p.printIndent()
	p.printf("}")
}

func (p *Printer) printPat(id PatID) {
	if !id.IsValid() {
		p.printf("<none>")
		return
	}
	pat := p.body.Pat(id)
	switch data := pat.Data.(type) {
	case BindPatData:
		p.printf("%s", data.Name)
	case TupleStructPatData:
		p.printf("%s(", data.Path)
		for i, arg := range data.Args {
			if i > 0 {
				p.printf(", ")
			}
			p.printPat(arg)
		}
		p.printf(")")
	default:
		p.printf("_")
	}
}
