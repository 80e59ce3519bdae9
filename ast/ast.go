// ----------------------------------------------------------------------------
// FILE: ast/ast.go
// ----------------------------------------------------------------------------
// PACKAGE: ast
// PURPOSE: Component C's data model. One concrete struct per node kind, a
//          shared Node interface (Line/String), and Statement/Expression
//          marker interfaces so the parser and evaluator can type-switch
//          over them. String() renders a node back to source text closely
//          enough that pretty-printing it and re-parsing would produce an
//          equivalent tree.
// ----------------------------------------------------------------------------
package ast

import (
	"strconv"
	"strings"

	"github.com/cstuartroe/goteko/tag"
)

// Node is anything that can appear in a parse tree.
type Node interface {
	Line() int
	String() string
}

// Statement is a single executable instruction: a declaration, an
// assignment, a bare expression, or a control structure.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that evaluates to a value.
type Expression interface {
	Node
	expressionNode()
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Declaration is one `type label (struct)? (= expr)?` clause. TekoType
// is nil for a `let`-declaration (type inferred from the initializer).
type Declaration struct {
	LineNum    int
	TekoType   Expression // nil means `let`
	Label      tag.Tag    // tag.Label
	Struct     *NewStructNode
	Expression Expression // nil when undeclared-but-typed
}

func (d *Declaration) Line() int { return d.LineNum }
func (d *Declaration) String() string {
	var b strings.Builder
	if d.TekoType != nil {
		b.WriteString(d.TekoType.String())
	} else {
		b.WriteString("let")
	}
	b.WriteString(" ")
	b.WriteString(d.Label.Label)
	if d.Struct != nil {
		b.WriteString(d.Struct.String())
	}
	if d.Expression != nil {
		b.WriteString(" = ")
		b.WriteString(d.Expression.String())
	}
	return b.String()
}

// DeclarationStatement is one or more comma-separated Declarations ending
// in a semicolon: `int x = 1, int y = 2;`.
type DeclarationStatement struct {
	LineNum      int
	Declarations []*Declaration
}

func (s *DeclarationStatement) statementNode() {}
func (s *DeclarationStatement) Line() int      { return s.LineNum }
func (s *DeclarationStatement) String() string {
	parts := make([]string, len(s.Declarations))
	for i, d := range s.Declarations {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ") + ";"
}

// AssignmentStatement is `left = right;`, where left is the assignment
// target (a SimpleExpression naming a variable, or an AttrExpression
// naming a receiver's field).
type AssignmentStatement struct {
	Left  Expression
	Right Expression
}

func (s *AssignmentStatement) statementNode() {}
func (s *AssignmentStatement) Line() int      { return s.Left.Line() }
func (s *AssignmentStatement) String() string {
	return s.Left.String() + " = " + s.Right.String() + ";"
}

// ExpressionStatement is a bare expression used for its side effect.
type ExpressionStatement struct {
	Expr Expression
}

func (s *ExpressionStatement) statementNode() {}
func (s *ExpressionStatement) Line() int      { return s.Expr.Line() }
func (s *ExpressionStatement) String() string { return s.Expr.String() + ";" }

// IfStatement is `if (cond) block [else ifStmt]`. The else arm, if
// present, is itself an IfStatement - a bare `else { ... }` is
// represented as `else if (true) { ... }` by the parser.
type IfStatement struct {
	LineNum   int
	Condition Expression
	CodeBlock *CodeBlock
	Else      *IfStatement
}

func (s *IfStatement) statementNode() {}
func (s *IfStatement) Line() int      { return s.LineNum }
func (s *IfStatement) String() string {
	out := "if (" + s.Condition.String() + ") " + s.CodeBlock.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}

// WhileBlock is `while (cond) block`.
type WhileBlock struct {
	LineNum   int
	Condition Expression
	CodeBlock *CodeBlock
}

func (s *WhileBlock) statementNode() {}
func (s *WhileBlock) Line() int      { return s.LineNum }
func (s *WhileBlock) String() string {
	return "while (" + s.Condition.String() + ") " + s.CodeBlock.String()
}

// ForBlock is `for (type label in iterable) block`.
type ForBlock struct {
	LineNum   int
	TekoType  Expression
	Label     tag.Tag
	Iterable  Expression
	CodeBlock *CodeBlock
}

func (s *ForBlock) statementNode() {}
func (s *ForBlock) Line() int      { return s.LineNum }
func (s *ForBlock) String() string {
	return "for (" + s.TekoType.String() + " " + s.Label.Label +
		" in " + s.Iterable.String() + ") " + s.CodeBlock.String()
}

// ClassDeclaration is `class Name { visibility: decl; ... }`. Field
// declarations are grouped by the visibility section they appeared
// under, in source order.
type ClassDeclaration struct {
	LineNum     int
	Label       tag.Tag
	Visibility  []tag.Visib
	Declarations [][]*DeclarationStatement
}

func (s *ClassDeclaration) statementNode() {}
func (s *ClassDeclaration) Line() int      { return s.LineNum }
func (s *ClassDeclaration) String() string {
	var b strings.Builder
	b.WriteString("class ")
	b.WriteString(s.Label.Label)
	b.WriteString(" {\n")
	for i, vis := range s.Visibility {
		b.WriteString(visibilityName(vis))
		b.WriteString(": \n")
		for _, dec := range s.Declarations[i] {
			b.WriteString("\t")
			b.WriteString(dec.String())
			b.WriteString("\n")
		}
	}
	b.WriteString("}")
	return b.String()
}

func visibilityName(v tag.Visib) string {
	switch v {
	case tag.Public:
		return "public"
	case tag.Protected:
		return "protected"
	case tag.Private:
		return "private"
	case tag.Readonly:
		return "readonly"
	}
	return "public"
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// SimpleExpression wraps one literal or bare identifier tag: an int,
// real, bool, string literal, or a label naming a variable.
type SimpleExpression struct {
	Tag tag.Tag
}

func (e *SimpleExpression) expressionNode() {}
func (e *SimpleExpression) Line() int       { return e.Tag.Line() }
func (e *SimpleExpression) String() string {
	switch e.Tag.Type {
	case tag.StringTag:
		return `"` + e.Tag.Str + `"`
	case tag.BoolTag:
		if e.Tag.Bool {
			return "true"
		}
		return "false"
	case tag.IntTag:
		return strconv.FormatInt(e.Tag.Int, 10)
	case tag.RealTag:
		s := strconv.FormatFloat(e.Tag.Real, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	case tag.Label:
		return e.Tag.Label
	}
	return e.Tag.String()
}

// Brace, reused on SequenceExpression, names which bracket family built
// the literal: curly for a list, square for an array, angle for a set.
type Brace = tag.Brace

// SequenceExpression is a brace-delimited literal: `{1, 2, 3}` (list),
// `[1, 2, 3]` (array), or `<1, 2, 3>` (set).
type SequenceExpression struct {
	LineNum int
	Brace   Brace
	Exprs   []Expression
}

func (e *SequenceExpression) expressionNode() {}
func (e *SequenceExpression) Line() int       { return e.LineNum }
func (e *SequenceExpression) String() string {
	parts := make([]string, len(e.Exprs))
	for i, x := range e.Exprs {
		parts[i] = x.String()
	}
	return e.Brace.OpenLiteral() + strings.Join(parts, ", ") + e.Brace.CloseLiteral()
}

// ArgNode is one call argument: `expr` or `kw = expr`.
type ArgNode struct {
	LineNum int
	Kw      *tag.Tag // nil for a positional argument
	Expr    Expression
}

func (a *ArgNode) Line() int { return a.LineNum }
func (a *ArgNode) String() string {
	if a.Kw != nil {
		return a.Kw.Label + " = " + a.Expr.String()
	}
	return a.Expr.String()
}

// CallExpression is `leftexpr(args...)`.
type CallExpression struct {
	LeftExpr Expression
	Args     []*ArgNode
}

func (e *CallExpression) expressionNode() {}
func (e *CallExpression) Line() int       { return e.LeftExpr.Line() }
func (e *CallExpression) String() string {
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return e.LeftExpr.String() + "(" + strings.Join(parts, ", ") + ")"
}

// AttrExpression is `leftexpr.label`.
type AttrExpression struct {
	LeftExpr Expression
	Label    tag.Tag
}

func (e *AttrExpression) expressionNode() {}
func (e *AttrExpression) Line() int       { return e.LeftExpr.Line() }
func (e *AttrExpression) String() string {
	return e.LeftExpr.String() + "." + e.Label.Label
}

// BinOpExpression is `(left op right)` for +, -, *, /, ^, %, &&, ||.
type BinOpExpression struct {
	BinOp     string
	LeftExpr  Expression
	RightExpr Expression
}

func (e *BinOpExpression) expressionNode() {}
func (e *BinOpExpression) Line() int       { return e.LeftExpr.Line() }
func (e *BinOpExpression) String() string {
	return "(" + e.LeftExpr.String() + " " + e.BinOp + " " + e.RightExpr.String() + ")"
}

// NotExpression is `!(expr)`.
type NotExpression struct {
	LineNum int
	Expr    Expression
}

func (e *NotExpression) expressionNode() {}
func (e *NotExpression) Line() int       { return e.LineNum }
func (e *NotExpression) String() string  { return "!(" + e.Expr.String() + ")" }

// ComparisonExpression is `(left comp right)` for ==, !=, <, <=, >, >=, <:.
type ComparisonExpression struct {
	Comp      string
	LeftExpr  Expression
	RightExpr Expression
}

func (e *ComparisonExpression) expressionNode() {}
func (e *ComparisonExpression) Line() int       { return e.LeftExpr.Line() }
func (e *ComparisonExpression) String() string {
	return "(" + e.LeftExpr.String() + " " + e.Comp + " " + e.RightExpr.String() + ")"
}

// ConversionExpression is `leftexpr conv`, e.g. `x.` or `x$` or `x[]`.
type ConversionExpression struct {
	LeftExpr Expression
	Conv     string
}

func (e *ConversionExpression) expressionNode() {}
func (e *ConversionExpression) Line() int       { return e.LeftExpr.Line() }
func (e *ConversionExpression) String() string  { return e.LeftExpr.String() + e.Conv }

// CodeBlock is `{ stmt; stmt; ... }` evaluating to the value of its last
// statement if that statement is an ExpressionStatement, else void.
type CodeBlock struct {
	LineNum    int
	Statements []Statement
}

func (e *CodeBlock) expressionNode() {}
func (e *CodeBlock) Line() int       { return e.LineNum }
func (e *CodeBlock) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, stmt := range e.Statements {
		b.WriteString("    ")
		b.WriteString(stmt.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}

// StructElem is one `type label (? default)?` struct-type element.
type StructElem struct {
	TekoType Expression
	Label    tag.Tag
	Default  Expression // nil if required
}

func (s *StructElem) Line() int { return s.TekoType.Line() }
func (s *StructElem) String() string {
	out := s.TekoType.String() + " " + s.Label.Label
	if s.Default != nil {
		out += " ? " + s.Default.String()
	}
	return out
}

// NewStructNode is a parenthesized struct-type literal: `(int x, int y ? 0)`.
type NewStructNode struct {
	LineNum int
	Elems   []*StructElem
}

func (e *NewStructNode) expressionNode() {}
func (e *NewStructNode) Line() int       { return e.LineNum }
func (e *NewStructNode) String() string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		parts[i] = el.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
