// ----------------------------------------------------------------------------
// FILE: parser/parser_unit_test.go
// ----------------------------------------------------------------------------
// PURPOSE: Parses representative source and checks the resulting AST
//          shape, including the disambiguation cases spec.md calls out
//          by name: struct-vs-grouping parens and codeblock-vs-sequence
//          curly braces. Assertions use testify/require, matching the
//          pack's one grounded third-party test-assertion library.
// ----------------------------------------------------------------------------
package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cstuartroe/goteko/ast"
	"github.com/cstuartroe/goteko/lexer"
	"github.com/cstuartroe/goteko/tag"
)

func parseSource(t *testing.T, src string) []ast.Statement {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	require.NoError(t, err)
	tags, err := tag.GetTags(toks)
	require.NoError(t, err)
	stmts, err := Parse(tags)
	require.NoError(t, err)
	return stmts
}

func TestParse_SimpleDeclaration(t *testing.T) {
	stmts := parseSource(t, "int x = 3 + 4 * 2;")
	require.Len(t, stmts, 1)
	decl, ok := stmts[0].(*ast.DeclarationStatement)
	require.True(t, ok, "got %T, want *ast.DeclarationStatement", stmts[0])
	require.Len(t, decl.Declarations, 1)
	require.Equal(t, "x", decl.Declarations[0].Label.Label)
	bin, ok := decl.Declarations[0].Expression.(*ast.BinOpExpression)
	require.True(t, ok, "expected top-level binop, got %s", decl.Declarations[0].Expression.String())
	require.Equal(t, "+", bin.BinOp)
}

func TestParse_IfElseChain(t *testing.T) {
	stmts := parseSource(t, `if (3 < 5) { print("y"); } else { print("n"); }`)
	ifStmt, ok := stmts[0].(*ast.IfStatement)
	require.True(t, ok, "got %T, want *ast.IfStatement", stmts[0])
	require.NotNil(t, ifStmt.Else, "expected an else arm")
}

func TestParse_WhileLoop(t *testing.T) {
	stmts := parseSource(t, "while (i < 3) { i = i + 1; }")
	_, ok := stmts[0].(*ast.WhileBlock)
	require.True(t, ok, "got %T, want *ast.WhileBlock", stmts[0])
}

func TestParse_ForLoop(t *testing.T) {
	stmts := parseSource(t, "for (int k in {1, 2, 3}) { print(k$); }")
	forStmt, ok := stmts[0].(*ast.ForBlock)
	require.True(t, ok, "got %T, want *ast.ForBlock", stmts[0])
	require.Equal(t, "k", forStmt.Label.Label)
	seq, ok := forStmt.Iterable.(*ast.SequenceExpression)
	require.True(t, ok, "expected a sequence literal iterable")
	require.Equal(t, tag.Curly, seq.Brace)
}

// TestParse_CurlyIsCodeBlockWhenItHasStatements exercises the
// brace-forensic disambiguator: a `;` at depth 1 means CodeBlock.
func TestParse_CurlyIsCodeBlockWhenItHasStatements(t *testing.T) {
	stmts := parseSource(t, "let x = { int a = 1; a; };")
	decl := stmts[0].(*ast.DeclarationStatement).Declarations[0]
	_, ok := decl.Expression.(*ast.CodeBlock)
	require.True(t, ok, "got %T, want *ast.CodeBlock", decl.Expression)
}

// TestParse_CurlyIsSequenceWithoutSemicolons exercises the other side of
// the same disambiguator: no `;` before the matching close means a list
// literal.
func TestParse_CurlyIsSequenceWithoutSemicolons(t *testing.T) {
	stmts := parseSource(t, "let x = {1, 2, 3};")
	decl := stmts[0].(*ast.DeclarationStatement).Declarations[0]
	seq, ok := decl.Expression.(*ast.SequenceExpression)
	require.True(t, ok, "got %T, want *ast.SequenceExpression", decl.Expression)
	require.Len(t, seq.Exprs, 3)
}

// TestParse_ParenIsStructWhenLabelFollows checks that a parenthesized
// `type label` list right after a declaration's label is parsed as the
// declaration's struct modifier (parseStructParen, called directly; the
// mark/reset backtrack in parseParenExpr is not involved here).
func TestParse_ParenIsStructWhenLabelFollows(t *testing.T) {
	stmts := parseSource(t, "let f(int x, int y) = { x + y; };")
	decl := stmts[0].(*ast.DeclarationStatement).Declarations[0]
	require.NotNil(t, decl.Struct, "expected a struct modifier on the declaration")
	require.Len(t, decl.Struct.Elems, 2)
}

// TestParse_ParenIsGroupingWithoutLabel exercises the non-struct
// backtrack outcome: a parenthesized expression with no trailing label
// is plain grouping.
func TestParse_ParenIsGroupingWithoutLabel(t *testing.T) {
	stmts := parseSource(t, "let x = (1 + 2);")
	decl := stmts[0].(*ast.DeclarationStatement).Declarations[0]
	_, ok := decl.Expression.(*ast.BinOpExpression)
	require.True(t, ok, "got %T, want *ast.BinOpExpression", decl.Expression)
}

func TestParse_CompoundSetterRewritesToBinOp(t *testing.T) {
	stmts := parseSource(t, "x += 1;")
	asst, ok := stmts[0].(*ast.AssignmentStatement)
	require.True(t, ok, "got %T, want *ast.AssignmentStatement", stmts[0])
	bin, ok := asst.Right.(*ast.BinOpExpression)
	require.True(t, ok, "expected rewritten binop on the right side, got %v", asst.Right)
	require.Equal(t, "+", bin.BinOp)
}

func TestParse_KeywordArgs(t *testing.T) {
	stmts := parseSource(t, `print(obj = 1);`)
	exprStmt := stmts[0].(*ast.ExpressionStatement)
	call := exprStmt.Expr.(*ast.CallExpression)
	require.Len(t, call.Args, 1)
	require.NotNil(t, call.Args[0].Kw)
	require.Equal(t, "obj", call.Args[0].Kw.Label)
}

func TestParse_PositionalAfterKeywordIsError(t *testing.T) {
	toks, _ := lexer.Tokenize("print(obj = 1, 2);")
	tags, _ := tag.GetTags(toks)
	_, err := Parse(tags)
	require.Error(t, err, "expected a parse error for positional argument after keyword")
}
