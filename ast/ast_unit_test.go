// ----------------------------------------------------------------------------
// FILE: ast/ast_unit_test.go
// ----------------------------------------------------------------------------
// PURPOSE: Checks that each node's String() renders recognizable source
//          text, the groundwork for spec.md §8's pretty(E)-reparses
//          invariant.
// ----------------------------------------------------------------------------
package ast

import (
	"strings"
	"testing"

	"github.com/cstuartroe/goteko/tag"
)

func intTag(n int64) tag.Tag   { return tag.Tag{Type: tag.IntTag, Int: n} }
func labelTag(s string) tag.Tag { return tag.Tag{Type: tag.Label, Label: s} }

func TestSimpleExpressionString(t *testing.T) {
	e := &SimpleExpression{Tag: intTag(7)}
	if e.String() != "7" {
		t.Errorf("String() = %q, want 7", e.String())
	}
}

func TestBinOpExpressionString(t *testing.T) {
	e := &BinOpExpression{
		BinOp:     "+",
		LeftExpr:  &SimpleExpression{Tag: intTag(1)},
		RightExpr: &SimpleExpression{Tag: intTag(2)},
	}
	if e.String() != "(1 + 2)" {
		t.Errorf("String() = %q, want (1 + 2)", e.String())
	}
}

func TestSequenceExpressionString(t *testing.T) {
	e := &SequenceExpression{
		Brace: tag.Square,
		Exprs: []Expression{&SimpleExpression{Tag: intTag(1)}, &SimpleExpression{Tag: intTag(2)}},
	}
	if e.String() != "[1, 2]" {
		t.Errorf("String() = %q, want [1, 2]", e.String())
	}
}

func TestDeclarationStatementString(t *testing.T) {
	decl := &Declaration{
		TekoType:   &SimpleExpression{Tag: labelTag("int")},
		Label:      labelTag("x"),
		Expression: &SimpleExpression{Tag: intTag(5)},
	}
	stmt := &DeclarationStatement{Declarations: []*Declaration{decl}}
	if got := stmt.String(); got != "int x = 5;" {
		t.Errorf("String() = %q, want %q", got, "int x = 5;")
	}
}

func TestCodeBlockStringContainsStatements(t *testing.T) {
	cb := &CodeBlock{
		Statements: []Statement{
			&ExpressionStatement{Expr: &SimpleExpression{Tag: intTag(1)}},
		},
	}
	if !strings.Contains(cb.String(), "1;") {
		t.Errorf("CodeBlock.String() = %q, want it to contain 1;", cb.String())
	}
}

func TestIfStatementString(t *testing.T) {
	stmt := &IfStatement{
		Condition: &SimpleExpression{Tag: tag.Tag{Type: tag.BoolTag, Bool: true}},
		CodeBlock: &CodeBlock{},
	}
	if !strings.HasPrefix(stmt.String(), "if (true)") {
		t.Errorf("String() = %q, want prefix %q", stmt.String(), "if (true)")
	}
}
